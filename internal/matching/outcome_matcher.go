package matching

import (
	"fmt"
	"strings"

	"github.com/oddscan/crossbook-arb/pkg/types"
)

// PairKind records which rule aligned an outcome-leg pair.
type PairKind int

const (
	// PairExact: case-insensitive name equality.
	PairExact PairKind = iota
	// PairFuzzy: label similarity at or above the fuzzy threshold.
	PairFuzzy
	// PairOpposite: resolved through the semantic-opposite table
	// (YES/NO, WIN/LOSE, TRUE/FALSE).
	PairOpposite
	// PairTentative: differently-named legs with no rule support. Diagnostic
	// only; tentative pairs never feed signal generation.
	PairTentative
)

func (k PairKind) String() string {
	switch k {
	case PairExact:
		return "exact"
	case PairFuzzy:
		return "fuzzy"
	case PairOpposite:
		return "opposite"
	default:
		return "tentative"
	}
}

// Resolvable reports whether the pair carries rule 1-3 confidence.
func (k PairKind) Resolvable() bool {
	return k != PairTentative
}

// OutcomePair aligns one leg per platform.
type OutcomePair struct {
	A          types.OutcomeRecord
	B          types.OutcomeRecord
	Kind       PairKind
	Similarity float64
}

// labelPolarity backs the fixed semantic-opposite table: YES/WIN/TRUE carry
// positive polarity, NO/LOSE/FALSE negative. Two legs are semantic opposites
// when their polarities cancel, which resolves cross-convention pairs such as
// YES vs LOSE in either direction.
var labelPolarity = map[string]int{
	"yes":   1,
	"win":   1,
	"true":  1,
	"no":    -1,
	"lose":  -1,
	"false": -1,
}

func semanticOpposite(nameA, nameB string) bool {
	return labelPolarity[nameA]*labelPolarity[nameB] == -1
}

// OutcomeMatcher aligns outcome legs across a matched event pair.
type OutcomeMatcher struct {
	scorer         Scorer
	normalizer     *Normalizer
	fuzzyThreshold float64
}

// NewOutcomeMatcher constructs an outcome matcher. The fuzzy threshold is the
// minimum label similarity (0-100) for rule-2 alignment. The normalizer
// canonicalizes leg names before comparison so "Los Angeles Lakers" and
// "Lakers" align as the same leg; nil falls back to plain cleaning.
func NewOutcomeMatcher(scorer Scorer, normalizer *Normalizer, fuzzyThreshold float64) (*OutcomeMatcher, error) {
	if fuzzyThreshold < 0 || fuzzyThreshold > 100 {
		return nil, fmt.Errorf("fuzzy threshold must be in [0,100], got %f", fuzzyThreshold)
	}
	return &OutcomeMatcher{scorer: scorer, normalizer: normalizer, fuzzyThreshold: fuzzyThreshold}, nil
}

func (m *OutcomeMatcher) canon(name string) string {
	if m.normalizer != nil {
		return m.normalizer.Normalize(name)
	}
	return Clean(name)
}

// Align pairs each platform-A leg with its best platform-B counterpart:
// exact equality first, then fuzzy label match, then the semantic-opposite
// table. A leg matching nothing is paired tentatively with every
// differently-named candidate.
func (m *OutcomeMatcher) Align(aLegs, bLegs []types.OutcomeRecord) []OutcomePair {
	var pairs []OutcomePair

	for _, a := range aLegs {
		nameA := m.canon(a.OutcomeName)
		matched := false

		for _, b := range bLegs {
			nameB := m.canon(b.OutcomeName)

			if nameA == nameB {
				pairs = append(pairs, OutcomePair{A: a, B: b, Kind: PairExact, Similarity: 100})
				matched = true
				break
			}

			score := m.scorer.Score(nameA, nameB)
			if score >= m.fuzzyThreshold {
				pairs = append(pairs, OutcomePair{A: a, B: b, Kind: PairFuzzy, Similarity: score})
				matched = true
				break
			}

			if semanticOpposite(nameA, nameB) {
				pairs = append(pairs, OutcomePair{A: a, B: b, Kind: PairOpposite, Similarity: score})
				matched = true
				break
			}
		}

		if !matched {
			for _, b := range bLegs {
				if m.canon(b.OutcomeName) == nameA {
					continue
				}
				pairs = append(pairs, OutcomePair{
					A:          a,
					B:          b,
					Kind:       PairTentative,
					Similarity: m.scorer.Score(nameA, m.canon(b.OutcomeName)),
				})
			}
		}
	}

	return pairs
}

// ResolvableCount counts rule 1-3 pairs. A market needs at least two to be
// usable downstream; fewer means there is not enough data to form a
// guaranteed-outcome pair.
func ResolvableCount(pairs []OutcomePair) int {
	count := 0
	for _, p := range pairs {
		if p.Kind.Resolvable() {
			count++
		}
	}
	return count
}

// SameLeg reports whether the two legs price the same resolution (aligned by
// rules 1-2), making them candidates for a value comparison rather than an
// arbitrage pairing.
func (m *OutcomeMatcher) SameLeg(a, b types.OutcomeRecord) bool {
	nameA := m.canon(a.OutcomeName)
	nameB := m.canon(b.OutcomeName)
	if nameA == nameB {
		return true
	}
	return m.scorer.Score(nameA, nameB) >= m.fuzzyThreshold
}

// GenuineOpposite reports whether legs a (platform A) and b (platform B) are
// mutually exclusive and collectively exhaustive with rule 1-3 confidence.
// Either the labels are semantic opposites, or, for binary markets, each
// leg aligns with the other side's complementary leg (Lakers/Warriors style
// naming, where no opposite table applies).
func (m *OutcomeMatcher) GenuineOpposite(a, b types.OutcomeRecord, aLegs, bLegs []types.OutcomeRecord) bool {
	nameA := m.canon(a.OutcomeName)
	nameB := m.canon(b.OutcomeName)

	if nameA == nameB {
		return false
	}
	if semanticOpposite(nameA, nameB) {
		return true
	}

	// Binary cross-complement: a must align with b's sibling leg and b with
	// a's sibling leg.
	if len(aLegs) != 2 || len(bLegs) != 2 {
		return false
	}
	siblingA, okA := sibling(aLegs, a)
	siblingB, okB := sibling(bLegs, b)
	if !okA || !okB {
		return false
	}
	return m.SameLeg(a, siblingB) && m.SameLeg(siblingA, b)
}

func sibling(legs []types.OutcomeRecord, leg types.OutcomeRecord) (types.OutcomeRecord, bool) {
	target := strings.ToLower(leg.OutcomeName)
	for _, other := range legs {
		if strings.ToLower(other.OutcomeName) != target {
			return other, true
		}
	}
	return types.OutcomeRecord{}, false
}
