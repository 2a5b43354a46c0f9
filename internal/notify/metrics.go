package notify

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AlertsSentTotal tracks alerts delivered.
	AlertsSentTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "crossbook_arb_alerts_sent_total",
		Help: "Total number of alerts delivered",
	})

	// AlertsFailedTotal tracks delivery failures.
	AlertsFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "crossbook_arb_alerts_failed_total",
		Help: "Total number of alert delivery failures",
	})

	// AlertsSuppressedTotal tracks alerts dropped by quiet hours.
	AlertsSuppressedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "crossbook_arb_alerts_suppressed_total",
		Help: "Total number of alerts suppressed by quiet hours",
	})
)
