/*
Package account implements Trackline's user accounts: a cash balance
plus a portfolio of symbol holdings, with deposit, withdraw, buy,
sell, and transfer operations.

Every successful mutation is recorded as a structured transaction
through an attached txnlog.Logger; rejected operations (insufficient
funds or holdings) are recorded at WARNING level. The account is the
log's producer side and never reads entries back.

Amounts and quantities are float64 with a small epsilon absorbing
rounding, matching the rest of the ledger. Symbols are normalized to
upper case.

# Usage

	acc, err := account.New("alice", "alice@example.com", 1000, logger)
	if err != nil {
		return err
	}
	if err := acc.Buy("AAPL", 2, 150); err != nil {
		return err
	}

	// Persist via pkg/storage
	err = store.SaveAccount(acc.Snapshot())
*/
package account
