package feeds

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FetchDurationSeconds tracks snapshot fetch latency per platform.
	FetchDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "crossbook_arb_feed_fetch_duration_seconds",
			Help:    "Duration of one platform snapshot fetch",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"platform"},
	)

	// RecordsFetchedTotal tracks priced outcomes returned per platform.
	RecordsFetchedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crossbook_arb_feed_records_fetched_total",
			Help: "Total number of priced outcome records fetched",
		},
		[]string{"platform"},
	)

	// FetchErrorsTotal tracks failed snapshot fetches per platform.
	FetchErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crossbook_arb_feed_fetch_errors_total",
			Help: "Total number of failed snapshot fetches",
		},
		[]string{"platform"},
	)
)
