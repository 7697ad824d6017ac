package storage

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	bolt "go.etcd.io/bbolt"

	"github.com/trackline/trackline/pkg/types"
)

var (
	// Bucket names
	bucketAccounts = []byte("accounts")
)

// BoltStore implements Store interface using BoltDB
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore creates a new BoltDB-backed store
func NewBoltStore(dataDir string) (*BoltStore, error) {
	dbPath := filepath.Join(dataDir, "trackline.db")

	db, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketAccounts); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", bucketAccounts, err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

// Close closes the database
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// SaveAccount writes an account snapshot, replacing any previous one
// with the same username.
func (s *BoltStore) SaveAccount(rec *types.AccountRecord) error {
	if rec == nil || rec.Username == "" {
		return fmt.Errorf("account record must have a username")
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketAccounts)
		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		return b.Put([]byte(rec.Username), data)
	})
}

// GetAccount loads one account snapshot by username.
func (s *BoltStore) GetAccount(username string) (*types.AccountRecord, error) {
	var rec types.AccountRecord
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketAccounts)
		data := b.Get([]byte(username))
		if data == nil {
			return fmt.Errorf("account not found: %s", username)
		}
		return json.Unmarshal(data, &rec)
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListAccounts returns every stored account snapshot.
func (s *BoltStore) ListAccounts() ([]*types.AccountRecord, error) {
	var records []*types.AccountRecord
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketAccounts)
		return b.ForEach(func(_, v []byte) error {
			var rec types.AccountRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			records = append(records, &rec)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// DeleteAccount removes a stored account snapshot.
func (s *BoltStore) DeleteAccount(username string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketAccounts).Delete([]byte(username))
	})
}
