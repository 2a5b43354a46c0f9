package matching

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/oddscan/crossbook-arb/pkg/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// EventMatcherConfig holds the matcher's tuning knobs.
type EventMatcherConfig struct {
	// SimilarityThreshold is the minimum participant similarity (0-100)
	// required to accept a cross-platform match.
	SimilarityThreshold float64
	// TimeWindow is the maximum allowed gap between the two platforms' start
	// times. Zero disables the check; it is also skipped when either side has
	// no start time.
	TimeWindow time.Duration
	// Workers bounds the goroutines sharding the N x M comparison.
	// Defaults to GOMAXPROCS.
	Workers int
	Logger  *zap.Logger
}

// Validate rejects out-of-range configuration at construction time.
func (c *EventMatcherConfig) Validate() error {
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 100 {
		return fmt.Errorf("similarity threshold must be in [0,100], got %f", c.SimilarityThreshold)
	}
	if c.TimeWindow < 0 {
		return fmt.Errorf("time window must be >= 0, got %s", c.TimeWindow)
	}
	return nil
}

// EventMatch pairs one listing per platform believed to denote the same
// real-world event, with the similarity that justified it.
type EventMatch struct {
	A          types.MarketListing
	B          types.MarketListing
	Similarity float64
	Sport      Sport
	StartTime  time.Time
}

// EventMatcher decides whether listings from two platforms denote the same
// real-world event. It is stateless between Match calls.
type EventMatcher struct {
	cfg        EventMatcherConfig
	extractor  *Extractor
	normalizer *Normalizer
	scorer     Scorer
	logger     *zap.Logger
}

// NewEventMatcher constructs an event matcher. Configuration errors are
// returned here, never silently clamped.
func NewEventMatcher(cfg EventMatcherConfig, extractor *Extractor, normalizer *Normalizer, scorer Scorer) (*EventMatcher, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validate event matcher config: %w", err)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &EventMatcher{
		cfg:        cfg,
		extractor:  extractor,
		normalizer: normalizer,
		scorer:     scorer,
		logger:     cfg.Logger,
	}, nil
}

// candidate is a pre-extracted, pre-normalized listing.
type candidate struct {
	listing      types.MarketListing
	extraction   Extraction
	participants []string
}

// matchable reports whether a listing can take part in game/futures matching.
// Prop markets are excluded outright so a points line never pairs with a
// moneyline.
func (c candidate) matchable() bool {
	return c.extraction.Kind != KindNoTeams && !c.extraction.Prop
}

// Match compares every platform-A listing against every platform-B listing
// and returns the accepted pairs in platform-A input order. Each A listing
// keeps at most its best B candidate: highest similarity, ties broken by
// earliest B index. The comparison is sharded across workers; each shard only
// reads the immutable candidates, so results are deterministic.
func (m *EventMatcher) Match(ctx context.Context, aListings, bListings []types.MarketListing) ([]EventMatch, error) {
	aCands := m.prepare(aListings)
	bCands := m.prepare(bListings)

	results := make([]*EventMatch, len(aCands))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(m.cfg.Workers)

	for i := range aCands {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = m.bestCandidate(aCands[i], bCands)
			return nil
		})
	}

	err := g.Wait()
	if err != nil {
		return nil, fmt.Errorf("match events: %w", err)
	}

	matches := make([]EventMatch, 0, len(results))
	for _, res := range results {
		if res != nil {
			matches = append(matches, *res)
		}
	}

	m.logger.Info("event-matching-complete",
		zap.Int("listings-a", len(aListings)),
		zap.Int("listings-b", len(bListings)),
		zap.Int("matches", len(matches)),
		zap.Float64("threshold", m.cfg.SimilarityThreshold))

	return matches, nil
}

func (m *EventMatcher) prepare(listings []types.MarketListing) []candidate {
	cands := make([]candidate, len(listings))
	for i, listing := range listings {
		ext := m.extractor.Extract(listing.EventTitle)
		parts := ext.Participants()
		normalized := make([]string, len(parts))
		for j, p := range parts {
			normalized[j] = m.normalizer.Normalize(p)
		}
		cands[i] = candidate{listing: listing, extraction: ext, participants: normalized}
	}
	return cands
}

// bestCandidate scans bCands in order and keeps the strictly-best match, so
// equal scores resolve to the earliest index.
func (m *EventMatcher) bestCandidate(a candidate, bCands []candidate) *EventMatch {
	if !a.matchable() {
		return nil
	}

	var best *EventMatch
	for i := range bCands {
		b := bCands[i]
		if !b.matchable() {
			continue
		}

		score, ok := m.compare(a, b)
		if !ok {
			continue
		}
		if best == nil || score > best.Similarity {
			start := a.listing.StartTime
			if start.IsZero() {
				start = b.listing.StartTime
			}
			sport := a.extraction.Sport
			if sport == SportUnknown {
				sport = b.extraction.Sport
			}
			best = &EventMatch{
				A:          a.listing,
				B:          b.listing,
				Similarity: score,
				Sport:      sport,
				StartTime:  start,
			}
		}
	}

	if best != nil {
		m.logger.Debug("event-matched",
			zap.String("title-a", best.A.EventTitle),
			zap.String("title-b", best.B.EventTitle),
			zap.Float64("similarity", best.Similarity))
	}
	return best
}

func (m *EventMatcher) compare(a, b candidate) (float64, bool) {
	// A futures listing never matches a game listing: one participant against
	// two is a category mismatch, not a near-miss.
	if a.extraction.Kind != b.extraction.Kind {
		return 0, false
	}

	// Sport equality is required only when both sides detected one; an
	// unknown sport degrades gracefully rather than rejecting.
	if a.extraction.Sport != SportUnknown && b.extraction.Sport != SportUnknown &&
		a.extraction.Sport != b.extraction.Sport {
		return 0, false
	}

	if !m.withinTimeWindow(a.listing.StartTime, b.listing.StartTime) {
		return 0, false
	}

	score := m.participantSimilarity(a.participants, b.participants)
	if score < m.cfg.SimilarityThreshold {
		return 0, false
	}
	return score, true
}

// participantSimilarity scores the participant sets. Team order in source
// titles is not consistent across platforms, so both orientations are tried
// and the maximum wins.
func (m *EventMatcher) participantSimilarity(a, b []string) float64 {
	switch {
	case len(a) == 1 && len(b) == 1:
		return m.scorer.Score(a[0], b[0])
	case len(a) == 2 && len(b) == 2:
		straight := (m.scorer.Score(a[0], b[0]) + m.scorer.Score(a[1], b[1])) / 2
		crossed := (m.scorer.Score(a[0], b[1]) + m.scorer.Score(a[1], b[0])) / 2
		if crossed > straight {
			return crossed
		}
		return straight
	default:
		return 0
	}
}

func (m *EventMatcher) withinTimeWindow(a, b time.Time) bool {
	if m.cfg.TimeWindow == 0 || a.IsZero() || b.IsZero() {
		return true
	}
	gap := a.Sub(b)
	if gap < 0 {
		gap = -gap
	}
	return gap <= m.cfg.TimeWindow
}
