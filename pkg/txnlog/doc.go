/*
Package txnlog provides structured, thread-safe transaction logging
with size-bounded file rotation, optional in-memory batching, and
read-back querying, statistics, and export.

The engine accepts arbitrary string-keyed transaction payloads, stamps
them with a UTC timestamp and severity level, serializes them as JSON
or plain text lines, and writes them durably through a shared rotating
file sink. Consumers can later filter the persisted entries with
predicates, aggregate numeric fields, or convert the log to NDJSON or
CSV.

# Architecture

	┌────────────────────── TXNLOG ENGINE ──────────────────────┐
	│                                                            │
	│  producer ──► Log() ──► validate ──► Entry                 │
	│                              │                             │
	│               BufferSize>0   │   BufferSize=0              │
	│              ┌───────────────┴──────────────┐              │
	│              ▼                              ▼              │
	│        ┌──────────┐  threshold       ┌───────────┐        │
	│        │  Buffer  │─────────────────►│  Emission │        │
	│        │  (FIFO)  │     flush        │  Pipeline │        │
	│        └──────────┘                  └─────┬─────┘        │
	│                                            │               │
	│                       ┌────────────────────┼─────────┐    │
	│                       ▼                              ▼    │
	│               ┌──────────────┐              ┌────────────┐│
	│               │ rotating file │              │  console   ││
	│               │ sink (shared) │              │  mirror    ││
	│               └──────────────┘              └────────────┘│
	│                                                            │
	│  consumer ──► Query()/Export()/SumField() ──► flush ──►   │
	│               read active file ──► decode ──► filter      │
	└────────────────────────────────────────────────────────────┘

The rotating file sink is process-wide: loggers constructed against the
same resolved destination path share one sink and one descriptor, so
concurrent instances never interleave partial lines. Rotation renames
the active file to <base>.1, shifting existing backups up and dropping
the oldest beyond BackupCount.

# Usage

	lg, err := txnlog.New(txnlog.Config{
		Path:       "transactions.log",
		Format:     txnlog.FormatJSON,
		BufferSize: 16,
	})
	if err != nil {
		return err
	}
	defer lg.Close()

	lg.Info(txnlog.Transaction{"id": 1, "amount": 9.99})
	lg.Warning(txnlog.Transaction{"id": 2, "status": "rejected"})

	total, _ := lg.SumField("amount")

	big, _ := lg.Query(func(e *txnlog.Entry) bool {
		v, ok := e.Transaction["amount"].(float64)
		return ok && v > 5
	})
	_ = big

	if err := lg.Export("transactions.csv", txnlog.ExportCSV); err != nil {
		return err
	}

# Concurrency

One mutex per Logger guards the buffer and the attached sinks; every
mutating operation and the flush phase of Query/Export holds it. The
shared file sink carries its own lock so loggers on the same path
serialize at the write. Query and Export read the file without the
logger lock once the flush barrier has run.

# Known limitations

Query, statistics, and export only read the currently active file.
Entries that have rotated into a numbered backup are no longer visible
to them. There is no cross-process coordination: a single process owns
a destination file at a time.
*/
package txnlog
