package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Engine metrics
	EntriesWritten = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trackline_entries_written_total",
			Help: "Total number of transaction entries written by level",
		},
		[]string{"level"},
	)

	EntriesBuffered = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "trackline_entries_buffered_total",
			Help: "Total number of transaction entries held in memory before flush",
		},
	)

	EntriesDiscarded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "trackline_entries_discarded_total",
			Help: "Total number of buffered entries discarded without being written",
		},
	)

	Flushes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "trackline_flushes_total",
			Help: "Total number of buffer flushes",
		},
	)

	Rotations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "trackline_rotations_total",
			Help: "Total number of log file rotations",
		},
	)

	WriteErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "trackline_write_errors_total",
			Help: "Total number of sink write failures",
		},
	)

	// Query metrics
	QueriesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "trackline_queries_total",
			Help: "Total number of query scans over the active log file",
		},
	)

	ExportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trackline_exports_total",
			Help: "Total number of exports by format",
		},
		[]string{"format"},
	)
)

func init() {
	// Register all metrics
	prometheus.MustRegister(EntriesWritten)
	prometheus.MustRegister(EntriesBuffered)
	prometheus.MustRegister(EntriesDiscarded)
	prometheus.MustRegister(Flushes)
	prometheus.MustRegister(Rotations)
	prometheus.MustRegister(WriteErrors)
	prometheus.MustRegister(QueriesTotal)
	prometheus.MustRegister(ExportsTotal)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
