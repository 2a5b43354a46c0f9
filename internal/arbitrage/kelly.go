package arbitrage

import (
	"fmt"
	"math"

	"go.uber.org/zap"
)

// profitTolerance bounds the acceptable gap between the two legs' payouts
// after stakes are rounded to cents. Rounding both stakes can move each payout
// by a few cents at typical odds; anything wider is logged and the plan
// reports the conservative side.
const profitTolerance = 0.05

// StakePlan splits an allocation across the two legs of an arbitrage so that
// both resolutions pay the same.
type StakePlan struct {
	Bankroll   float64
	Allocation float64
	StakeA     float64
	StakeB     float64
	// GuaranteedProfit is the worst-case profit across the two resolutions.
	GuaranteedProfit float64
	// ProfitPct is the guaranteed profit as a percentage of the allocation.
	ProfitPct float64
}

// Allocator sizes arbitrage stakes with a fractional-Kelly bankroll policy.
type Allocator struct {
	bankroll float64
	fraction float64
	logger   *zap.Logger
}

// NewAllocator constructs an allocator committing bankroll * fraction per
// opportunity.
func NewAllocator(bankroll, fraction float64, logger *zap.Logger) (*Allocator, error) {
	if bankroll <= 0 {
		return nil, fmt.Errorf("bankroll must be > 0, got %f", bankroll)
	}
	if fraction < 0 || fraction > 1 {
		return nil, fmt.Errorf("kelly fraction must be in [0,1], got %f", fraction)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Allocator{bankroll: bankroll, fraction: fraction, logger: logger}, nil
}

// Plan splits the allocation in inverse proportion to the odds: the leg with
// shorter odds takes the larger stake, so stake*odds is equal on both sides.
// Stakes are rounded to cents and re-checked; if rounding (or bad input) pulls
// the two payouts apart by more than the tolerance, the plan keeps the
// conservative minimum.
func (al *Allocator) Plan(oddsA, oddsB float64) (StakePlan, error) {
	if oddsA <= 1.0 || oddsB <= 1.0 {
		return StakePlan{}, fmt.Errorf("decimal odds must be > 1.0, got %f / %f", oddsA, oddsB)
	}

	allocation := al.bankroll * al.fraction
	stakeA := roundCents(allocation * oddsB / (oddsA + oddsB))
	stakeB := roundCents(allocation - stakeA)

	total := stakeA + stakeB
	profitA := stakeA*oddsA - total
	profitB := stakeB*oddsB - total

	guaranteed := math.Min(profitA, profitB)
	if math.Abs(profitA-profitB) > profitTolerance {
		al.logger.Error("stake-plan-divergence",
			zap.Float64("odds-a", oddsA),
			zap.Float64("odds-b", oddsB),
			zap.Float64("profit-a", profitA),
			zap.Float64("profit-b", profitB))
		StakePlanDivergenceTotal.Inc()
	}

	plan := StakePlan{
		Bankroll:         al.bankroll,
		Allocation:       allocation,
		StakeA:           stakeA,
		StakeB:           stakeB,
		GuaranteedProfit: guaranteed,
	}
	if total > 0 {
		plan.ProfitPct = guaranteed / total * 100
	}
	return plan, nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
