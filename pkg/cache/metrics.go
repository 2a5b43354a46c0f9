package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHitsTotal tracks dedup cache hits.
	CacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "crossbook_arb_cache_hits_total",
		Help: "Total number of dedup cache hits",
	})

	// CacheMissesTotal tracks dedup cache misses.
	CacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "crossbook_arb_cache_misses_total",
		Help: "Total number of dedup cache misses",
	})

	// CacheSetsTotal tracks accepted cache writes.
	CacheSetsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "crossbook_arb_cache_sets_total",
		Help: "Total number of accepted dedup cache writes",
	})
)
