package arbitrage

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OpportunitiesDetectedTotal tracks detected signals by kind.
	OpportunitiesDetectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crossbook_arb_opportunities_detected_total",
			Help: "Total number of profit signals detected",
		},
		[]string{"kind"},
	)

	// MarketsSkippedTotal tracks markets excluded from signal generation.
	MarketsSkippedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crossbook_arb_markets_skipped_total",
			Help: "Total number of matched markets skipped before signal generation",
		},
		[]string{"reason"},
	)

	// OpportunityProfitPct tracks guaranteed arbitrage margins.
	OpportunityProfitPct = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "crossbook_arb_opportunity_profit_pct",
		Help:    "Guaranteed arbitrage profit as a percentage of total stake",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 3, 5, 10, 20},
	})

	// StakePlanDivergenceTotal tracks stake plans whose two legs did not pay
	// within tolerance after rounding.
	StakePlanDivergenceTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "crossbook_arb_stake_plan_divergence_total",
		Help: "Total number of stake plans with leg payouts outside tolerance",
	})
)
