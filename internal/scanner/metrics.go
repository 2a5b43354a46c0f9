package scanner

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ScansTotal tracks completed scan passes.
	ScansTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "crossbook_arb_scans_total",
		Help: "Total number of completed scan passes",
	})

	// ScansFailedTotal tracks aborted scan passes.
	ScansFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "crossbook_arb_scans_failed_total",
		Help: "Total number of aborted scan passes",
	})

	// ScanDurationSeconds tracks scan pass latency.
	ScanDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "crossbook_arb_scan_duration_seconds",
		Help:    "Duration of one full scan pass",
		Buckets: prometheus.DefBuckets,
	})

	// OpportunitiesDedupedTotal tracks signals suppressed as repeats.
	OpportunitiesDedupedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "crossbook_arb_opportunities_deduped_total",
		Help: "Total number of opportunities suppressed as repeats",
	})
)
