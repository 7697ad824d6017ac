package storage

import (
	"testing"

	"github.com/trackline/trackline/pkg/types"
)

func newTestStore(t *testing.T) *BoltStore {
	t.Helper()
	store, err := NewBoltStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewBoltStore() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveAndGetAccount(t *testing.T) {
	store := newTestStore(t)

	rec := &types.AccountRecord{
		Username:  "alice",
		Email:     "alice@example.com",
		Balance:   125.5,
		Portfolio: map[string]float64{"AAPL": 3},
		CreatedAt: "2026-01-02T03:04:05Z",
	}
	if err := store.SaveAccount(rec); err != nil {
		t.Fatalf("SaveAccount() error = %v", err)
	}

	got, err := store.GetAccount("alice")
	if err != nil {
		t.Fatalf("GetAccount() error = %v", err)
	}
	if got.Balance != rec.Balance {
		t.Errorf("Balance = %v, want %v", got.Balance, rec.Balance)
	}
	if got.Portfolio["AAPL"] != 3 {
		t.Errorf("Portfolio[AAPL] = %v, want 3", got.Portfolio["AAPL"])
	}
}

func TestGetAccountNotFound(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.GetAccount("missing"); err == nil {
		t.Error("GetAccount() expected error for missing account")
	}
}

func TestSaveAccountValidation(t *testing.T) {
	store := newTestStore(t)

	if err := store.SaveAccount(nil); err == nil {
		t.Error("SaveAccount(nil) expected error")
	}
	if err := store.SaveAccount(&types.AccountRecord{}); err == nil {
		t.Error("SaveAccount() without username expected error")
	}
}

func TestListAccounts(t *testing.T) {
	store := newTestStore(t)

	for _, name := range []string{"alice", "bob", "carol"} {
		rec := &types.AccountRecord{Username: name, Email: name + "@example.com"}
		if err := store.SaveAccount(rec); err != nil {
			t.Fatalf("SaveAccount(%s) error = %v", name, err)
		}
	}

	records, err := store.ListAccounts()
	if err != nil {
		t.Fatalf("ListAccounts() error = %v", err)
	}
	if len(records) != 3 {
		t.Errorf("ListAccounts() returned %d records, want 3", len(records))
	}
}

func TestDeleteAccount(t *testing.T) {
	store := newTestStore(t)

	rec := &types.AccountRecord{Username: "alice", Email: "alice@example.com"}
	if err := store.SaveAccount(rec); err != nil {
		t.Fatalf("SaveAccount() error = %v", err)
	}
	if err := store.DeleteAccount("alice"); err != nil {
		t.Fatalf("DeleteAccount() error = %v", err)
	}
	if _, err := store.GetAccount("alice"); err == nil {
		t.Error("GetAccount() expected error after delete")
	}
}

func TestUpdateOverwrites(t *testing.T) {
	store := newTestStore(t)

	rec := &types.AccountRecord{Username: "alice", Email: "alice@example.com", Balance: 10}
	if err := store.SaveAccount(rec); err != nil {
		t.Fatalf("SaveAccount() error = %v", err)
	}
	rec.Balance = 99
	if err := store.SaveAccount(rec); err != nil {
		t.Fatalf("SaveAccount() update error = %v", err)
	}

	got, err := store.GetAccount("alice")
	if err != nil {
		t.Fatalf("GetAccount() error = %v", err)
	}
	if got.Balance != 99 {
		t.Errorf("Balance = %v, want 99", got.Balance)
	}
}
