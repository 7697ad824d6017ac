// Package report computes portfolio valuation reports: per-position
// market value, cost basis, unrealized P&L and return, plus aggregate
// totals, weights, and allocation breakdowns, rendered as text, JSON,
// or CSV.
package report
