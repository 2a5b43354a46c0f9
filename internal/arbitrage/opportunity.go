package arbitrage

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/oddscan/crossbook-arb/internal/matching"
	"github.com/oddscan/crossbook-arb/pkg/types"
)

// SignalKind distinguishes the two profit signals the engine emits.
type SignalKind string

const (
	// SignalArbitrage is a guaranteed-profit pairing: back both sides of a
	// binary market across platforms with combined implied probability < 1.
	SignalArbitrage SignalKind = "arbitrage"
	// SignalValue is a pricing discrepancy on the same outcome: one platform
	// offers materially better odds than the other.
	SignalValue SignalKind = "value"
)

// Opportunity is one detected cross-platform profit signal.
type Opportunity struct {
	ID         string
	Kind       SignalKind
	EventTitle string
	Sport      matching.Sport
	StartTime  time.Time

	LegA types.OutcomeRecord
	LegB types.OutcomeRecord

	// ProfitPct is the guaranteed return on total stake for arbitrage signals.
	ProfitPct float64
	// EdgePct is the implied-probability gap for value signals.
	EdgePct float64
	// Favored is the platform offering the better (higher) odds on a value
	// signal. Empty for arbitrage signals.
	Favored types.Platform

	// Similarity carried over from the event match that produced this signal.
	Similarity float64

	Stakes     *StakePlan
	DetectedAt time.Time
}

func newOpportunity(kind SignalKind, match matching.EventMatch, a, b types.OutcomeRecord) Opportunity {
	return Opportunity{
		ID:         uuid.NewString(),
		Kind:       kind,
		EventTitle: match.A.EventTitle,
		Sport:      match.Sport,
		StartTime:  match.StartTime,
		LegA:       a,
		LegB:       b,
		Similarity: match.Similarity,
		DetectedAt: time.Now().UTC(),
	}
}

// DedupKey identifies the signal independently of detection time, so a
// repeated scan of unchanged odds collapses to one alert.
func (o *Opportunity) DedupKey() string {
	return fmt.Sprintf("%s|%s|%s:%s@%.4f|%s:%s@%.4f",
		o.Kind,
		o.EventTitle,
		o.LegA.Platform, o.LegA.OutcomeName, o.LegA.DecimalOdds,
		o.LegB.Platform, o.LegB.OutcomeName, o.LegB.DecimalOdds)
}

func (o *Opportunity) String() string {
	switch o.Kind {
	case SignalArbitrage:
		return fmt.Sprintf("arbitrage %s: %s %q @ %.2f / %s %q @ %.2f (%.2f%%)",
			o.EventTitle,
			o.LegA.Platform, o.LegA.OutcomeName, o.LegA.DecimalOdds,
			o.LegB.Platform, o.LegB.OutcomeName, o.LegB.DecimalOdds,
			o.ProfitPct)
	default:
		return fmt.Sprintf("value %s: %q %.2f vs %.2f, edge %.2f%% favoring %s",
			o.EventTitle,
			o.LegA.OutcomeName,
			o.LegA.DecimalOdds, o.LegB.DecimalOdds,
			o.EdgePct, o.Favored)
	}
}
