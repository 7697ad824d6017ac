// Package types holds the shared ledger domain types: account
// snapshots, trade actions, positions, and the PriceFunc contract
// between pricing sources and consumers.
package types
