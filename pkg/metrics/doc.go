// Package metrics exposes Prometheus counters for the transaction
// logging engine: entries written, buffered and discarded, flushes,
// rotations, write errors, and query/export activity. Handler returns
// the scrape endpoint.
package metrics
