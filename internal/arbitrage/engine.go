package arbitrage

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/oddscan/crossbook-arb/internal/matching"
)

// Calculation is the implied-probability breakdown of one candidate pairing.
type Calculation struct {
	ImpliedA     float64
	ImpliedB     float64
	TotalImplied float64
	// ProfitPct is the guaranteed return on total stake, positive only when
	// the pairing is profitable.
	ProfitPct float64
}

// Profitable reports whether the combined implied probability leaves a margin.
func (c Calculation) Profitable() bool {
	return c.TotalImplied < 1.0
}

// Compute derives the arbitrage margin for one opposite-leg pairing from its
// decimal odds.
func Compute(oddsA, oddsB float64) (Calculation, error) {
	if oddsA <= 1.0 || oddsB <= 1.0 {
		return Calculation{}, fmt.Errorf("decimal odds must be > 1.0, got %f / %f", oddsA, oddsB)
	}

	calc := Calculation{
		ImpliedA: 1 / oddsA,
		ImpliedB: 1 / oddsB,
	}
	calc.TotalImplied = calc.ImpliedA + calc.ImpliedB
	if calc.Profitable() {
		calc.ProfitPct = (1 - calc.TotalImplied) / calc.TotalImplied * 100
	}
	return calc, nil
}

// EngineConfig holds the signal thresholds.
type EngineConfig struct {
	// MinProfitPct is the minimum guaranteed return for an arbitrage signal.
	MinProfitPct float64
	// MinValueEdgePct is the minimum implied-probability gap, in percentage
	// points, for a value signal.
	MinValueEdgePct float64
	Logger          *zap.Logger
}

func (c *EngineConfig) Validate() error {
	if c.MinProfitPct < 0 {
		return fmt.Errorf("min profit pct must be >= 0, got %f", c.MinProfitPct)
	}
	if c.MinValueEdgePct < 0 {
		return fmt.Errorf("min value edge pct must be >= 0, got %f", c.MinValueEdgePct)
	}
	return nil
}

// Engine turns matched events into profit signals: guaranteed arbitrage
// pairings first, pricing-discrepancy value signals otherwise.
type Engine struct {
	cfg       EngineConfig
	outcomes  *matching.OutcomeMatcher
	allocator *Allocator
	logger    *zap.Logger
}

// NewEngine constructs the signal engine. The allocator is optional; without
// one, arbitrage signals carry no stake plan.
func NewEngine(cfg EngineConfig, outcomes *matching.OutcomeMatcher, allocator *Allocator) (*Engine, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validate engine config: %w", err)
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Engine{cfg: cfg, outcomes: outcomes, allocator: allocator, logger: cfg.Logger}, nil
}

// Evaluate scans each matched event for profit signals. A market yields value
// signals only when it yields no arbitrage: an arbitrage subsumes the pricing
// discrepancy that produced it.
func (e *Engine) Evaluate(matches []matching.EventMatch) []Opportunity {
	var out []Opportunity
	for _, match := range matches {
		out = append(out, e.evaluateMatch(match)...)
	}
	return out
}

func (e *Engine) evaluateMatch(match matching.EventMatch) []Opportunity {
	aLegs := match.A.Outcomes
	bLegs := match.B.Outcomes

	pairs := e.outcomes.Align(aLegs, bLegs)
	if matching.ResolvableCount(pairs) < 2 {
		MarketsSkippedTotal.WithLabelValues("unresolved-legs").Inc()
		e.logger.Debug("market-skipped",
			zap.String("event", match.A.EventTitle),
			zap.Int("resolvable", matching.ResolvableCount(pairs)))
		return nil
	}

	var signals []Opportunity

	for _, a := range aLegs {
		for _, b := range bLegs {
			if !e.outcomes.GenuineOpposite(a, b, aLegs, bLegs) {
				continue
			}
			calc, err := Compute(a.DecimalOdds, b.DecimalOdds)
			if err != nil {
				e.logger.Warn("arbitrage-compute-failed",
					zap.String("event", match.A.EventTitle),
					zap.Error(err))
				continue
			}
			if !calc.Profitable() || calc.ProfitPct < e.cfg.MinProfitPct {
				continue
			}

			opp := newOpportunity(SignalArbitrage, match, a, b)
			opp.ProfitPct = calc.ProfitPct
			if e.allocator != nil {
				plan, err := e.allocator.Plan(a.DecimalOdds, b.DecimalOdds)
				if err != nil {
					e.logger.Warn("stake-plan-failed", zap.Error(err))
				} else {
					opp.Stakes = &plan
				}
			}
			signals = append(signals, opp)
			OpportunitiesDetectedTotal.WithLabelValues(string(SignalArbitrage)).Inc()
			OpportunityProfitPct.Observe(calc.ProfitPct)
		}
	}

	if len(signals) > 0 {
		return signals
	}

	// No arbitrage on this market: compare same-leg pricing instead.
	for _, pair := range pairs {
		if !pair.Kind.Resolvable() || pair.Kind == matching.PairOpposite {
			continue
		}
		edge := math.Abs(1/pair.A.DecimalOdds-1/pair.B.DecimalOdds) * 100
		if edge <= e.cfg.MinValueEdgePct {
			continue
		}

		opp := newOpportunity(SignalValue, match, pair.A, pair.B)
		opp.EdgePct = edge
		opp.Favored = pair.A.Platform
		if pair.B.DecimalOdds > pair.A.DecimalOdds {
			opp.Favored = pair.B.Platform
		}
		signals = append(signals, opp)
		OpportunitiesDetectedTotal.WithLabelValues(string(SignalValue)).Inc()
	}

	return signals
}
