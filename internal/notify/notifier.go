// Package notify delivers opportunity alerts.
package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/oddscan/crossbook-arb/internal/arbitrage"
)

// Notifier delivers one opportunity alert. Implementations must be safe for
// concurrent use.
type Notifier interface {
	Notify(ctx context.Context, opp arbitrage.Opportunity) error
}

// QuietHours suppresses alerts inside a local-time window. The window may
// wrap midnight (start 23, end 7).
type QuietHours struct {
	Enabled   bool
	StartHour int
	EndHour   int

	now func() time.Time
}

func (q QuietHours) Validate() error {
	if q.StartHour < 0 || q.StartHour > 23 || q.EndHour < 0 || q.EndHour > 23 {
		return fmt.Errorf("quiet hours must be within 0-23, got %d-%d", q.StartHour, q.EndHour)
	}
	return nil
}

// Active reports whether the current time falls inside the quiet window.
func (q QuietHours) Active() bool {
	if !q.Enabled {
		return false
	}
	nowFn := q.now
	if nowFn == nil {
		nowFn = time.Now
	}
	hour := nowFn().Hour()

	if q.StartHour <= q.EndHour {
		return hour >= q.StartHour && hour < q.EndHour
	}
	return hour >= q.StartHour || hour < q.EndHour
}

// FormatAlert renders an opportunity as a Markdown alert message.
func FormatAlert(opp *arbitrage.Opportunity) string {
	var b strings.Builder

	switch opp.Kind {
	case arbitrage.SignalArbitrage:
		fmt.Fprintf(&b, "*ARBITRAGE FOUND (%.2f%%)*\n\n", opp.ProfitPct)
	default:
		fmt.Fprintf(&b, "*VALUE FOUND (%.2f%% edge, %s)*\n\n", opp.EdgePct, opp.Favored)
	}

	fmt.Fprintf(&b, "*Market:* %s\n", opp.EventTitle)

	legs := []struct {
		platform string
		name     string
		odds     float64
		stake    float64
		url      string
	}{
		{string(opp.LegA.Platform), opp.LegA.OutcomeName, opp.LegA.DecimalOdds, 0, opp.LegA.URL},
		{string(opp.LegB.Platform), opp.LegB.OutcomeName, opp.LegB.DecimalOdds, 0, opp.LegB.URL},
	}
	if opp.Stakes != nil {
		legs[0].stake = opp.Stakes.StakeA
		legs[1].stake = opp.Stakes.StakeB
	}

	for _, leg := range legs {
		display := leg.platform
		if display != "" {
			display = strings.ToUpper(display[:1]) + display[1:]
		}
		fmt.Fprintf(&b, "\n*%s:*\n%s @ %.2f", display, leg.name, leg.odds)
		if leg.stake > 0 {
			fmt.Fprintf(&b, " - $%.2f", leg.stake)
		}
		b.WriteString("\n")
		if leg.url != "" {
			fmt.Fprintf(&b, "%s\n", leg.url)
		}
	}

	if opp.Stakes != nil {
		fmt.Fprintf(&b, "\n*Total Invested:* $%.2f\n", opp.Stakes.StakeA+opp.Stakes.StakeB)
		fmt.Fprintf(&b, "*Guaranteed Profit:* $%.2f", opp.Stakes.GuaranteedProfit)
	}

	return strings.TrimRight(b.String(), "\n")
}

// LogNotifier writes alerts to the logger. It is the fallback sink when no
// delivery channel is configured.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(_ context.Context, opp arbitrage.Opportunity) error {
	n.logger.Info("opportunity-alert",
		zap.String("kind", string(opp.Kind)),
		zap.String("summary", opp.String()))
	return nil
}
