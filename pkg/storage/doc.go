/*
Package storage provides BoltDB-backed persistence for Trackline's
ledger state.

The storage package implements the Store interface using BoltDB as the
underlying database. Account snapshots are serialized as JSON and
stored in the "accounts" bucket keyed by username, giving ACID
single-file persistence with zero external dependencies.

The transaction log itself is not kept here: pkg/txnlog owns its own
append-only files. This store holds only the current materialized
state of each account.

# Usage

	store, err := storage.NewBoltStore("/var/lib/trackline")
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.SaveAccount(acc.Snapshot()); err != nil {
		return err
	}

	rec, err := store.GetAccount("alice")
*/
package storage
