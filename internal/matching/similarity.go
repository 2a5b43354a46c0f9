package matching

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Scorer computes a 0-100 similarity score between two strings. 100 means
// identical. Implementations must be symmetric: Score(a, b) == Score(b, a).
type Scorer interface {
	Score(a, b string) float64
}

// TokenSortScorer scores strings by edit distance after sorting their tokens,
// making the score insensitive to word order ("Warriors Lakers" scores 100
// against "Lakers Warriors"). This mirrors the token-sort-ratio commonly used
// for market title matching.
type TokenSortScorer struct{}

// Score implements Scorer.
func (TokenSortScorer) Score(a, b string) float64 {
	if a == b {
		return 100
	}

	sortedA := sortTokens(a)
	sortedB := sortTokens(b)
	if sortedA == sortedB {
		return 100
	}
	if sortedA == "" || sortedB == "" {
		return 0
	}

	dist := levenshtein.ComputeDistance(sortedA, sortedB)
	longest := len([]rune(sortedA))
	if l := len([]rune(sortedB)); l > longest {
		longest = l
	}

	score := (1 - float64(dist)/float64(longest)) * 100
	if score < 0 {
		return 0
	}
	return score
}

func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}
