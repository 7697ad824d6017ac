package storage

import (
	"github.com/trackline/trackline/pkg/types"
)

// Store defines the interface for ledger state persistence
// This is implemented by BoltDB-backed storage
type Store interface {
	// Accounts
	SaveAccount(rec *types.AccountRecord) error
	GetAccount(username string) (*types.AccountRecord, error)
	ListAccounts() ([]*types.AccountRecord, error)
	DeleteAccount(username string) error

	// Utility
	Close() error
}
