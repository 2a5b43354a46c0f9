// Package scanner runs the detection pass: fetch both platforms, match
// events, evaluate signals, deduplicate, persist, and alert.
package scanner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/oddscan/crossbook-arb/internal/arbitrage"
	"github.com/oddscan/crossbook-arb/internal/feeds"
	"github.com/oddscan/crossbook-arb/internal/matching"
	"github.com/oddscan/crossbook-arb/internal/notify"
	"github.com/oddscan/crossbook-arb/internal/storage"
	"github.com/oddscan/crossbook-arb/pkg/cache"
	"github.com/oddscan/crossbook-arb/pkg/types"
)

// Config holds scanner settings.
type Config struct {
	// DedupTTL bounds how long an unchanged opportunity stays suppressed in
	// the fast path.
	DedupTTL time.Duration
	// RecentLimit caps the in-memory buffer served by the API.
	RecentLimit int
	Logger      *zap.Logger
}

// Result summarizes one scan pass.
type Result struct {
	RecordsA      int
	RecordsB      int
	ListingsA     int
	ListingsB     int
	Matches       int
	Opportunities int
	Alerted       int
}

// Scanner runs detection passes over two platform feeds.
type Scanner struct {
	feedA    feeds.Feed
	feedB    feeds.Feed
	matcher  *matching.EventMatcher
	engine   *arbitrage.Engine
	store    storage.Storage
	notifier notify.Notifier
	dedup    cache.Cache
	cfg      Config
	logger   *zap.Logger

	mu     sync.RWMutex
	recent []arbitrage.Opportunity
}

// New creates a scanner. Storage, notifier, and dedup cache are required;
// a LogNotifier and ConsoleStorage satisfy them in minimal setups.
func New(feedA, feedB feeds.Feed, matcher *matching.EventMatcher, engine *arbitrage.Engine,
	store storage.Storage, notifier notify.Notifier, dedup cache.Cache, cfg Config) (*Scanner, error) {

	if feedA == nil || feedB == nil {
		return nil, fmt.Errorf("both platform feeds are required")
	}
	if store == nil || notifier == nil || dedup == nil {
		return nil, fmt.Errorf("storage, notifier, and dedup cache are required")
	}
	if cfg.DedupTTL == 0 {
		cfg.DedupTTL = 6 * time.Hour
	}
	if cfg.RecentLimit == 0 {
		cfg.RecentLimit = 200
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Scanner{
		feedA:    feedA,
		feedB:    feedB,
		matcher:  matcher,
		engine:   engine,
		store:    store,
		notifier: notifier,
		dedup:    dedup,
		cfg:      cfg,
		logger:   cfg.Logger,
	}, nil
}

// Scan runs one full detection pass. Snapshot fetches run concurrently; a
// failure on either platform aborts the pass, since one-sided data cannot
// produce cross-platform signals.
func (s *Scanner) Scan(ctx context.Context) (Result, error) {
	started := time.Now()

	var recordsA, recordsB []types.OutcomeRecord
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		recordsA, err = s.feedA.Fetch(gctx)
		if err != nil {
			return fmt.Errorf("fetch %s: %w", s.feedA.Platform(), err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		recordsB, err = s.feedB.Fetch(gctx)
		if err != nil {
			return fmt.Errorf("fetch %s: %w", s.feedB.Platform(), err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		ScansFailedTotal.Inc()
		return Result{}, err
	}

	listingsA := types.GroupListings(recordsA)
	listingsB := types.GroupListings(recordsB)

	matches, err := s.matcher.Match(ctx, listingsA, listingsB)
	if err != nil {
		ScansFailedTotal.Inc()
		return Result{}, fmt.Errorf("match events: %w", err)
	}

	opportunities := s.engine.Evaluate(matches)

	alerted := 0
	for i := range opportunities {
		if s.dispatch(ctx, &opportunities[i]) {
			alerted++
		}
	}

	result := Result{
		RecordsA:      len(recordsA),
		RecordsB:      len(recordsB),
		ListingsA:     len(listingsA),
		ListingsB:     len(listingsB),
		Matches:       len(matches),
		Opportunities: len(opportunities),
		Alerted:       alerted,
	}

	ScansTotal.Inc()
	ScanDurationSeconds.Observe(time.Since(started).Seconds())
	s.logger.Info("scan-complete",
		zap.Int("records-a", result.RecordsA),
		zap.Int("records-b", result.RecordsB),
		zap.Int("matches", result.Matches),
		zap.Int("opportunities", result.Opportunities),
		zap.Int("alerted", result.Alerted),
		zap.Duration("elapsed", time.Since(started)))

	return result, nil
}

// dispatch deduplicates, persists, and alerts one opportunity. Persistence
// and delivery failures are logged, never fatal: a broken sink must not stop
// the scan loop.
func (s *Scanner) dispatch(ctx context.Context, opp *arbitrage.Opportunity) bool {
	key := opp.DedupKey()

	if _, hit := s.dedup.Get(key); hit {
		OpportunitiesDedupedTotal.Inc()
		return false
	}
	seen, err := s.store.WasSeen(ctx, key)
	if err != nil {
		s.logger.Warn("dedup-lookup-failed", zap.Error(err))
	} else if seen {
		OpportunitiesDedupedTotal.Inc()
		s.dedup.Set(key, true, s.cfg.DedupTTL)
		return false
	}

	if err := s.store.StoreOpportunity(ctx, opp); err != nil {
		s.logger.Error("store-opportunity-failed",
			zap.String("opportunity-id", opp.ID),
			zap.Error(err))
	}

	if err := s.notifier.Notify(ctx, *opp); err != nil {
		s.logger.Error("alert-delivery-failed",
			zap.String("opportunity-id", opp.ID),
			zap.Error(err))
	}

	s.dedup.Set(key, true, s.cfg.DedupTTL)
	s.remember(*opp)
	return true
}

func (s *Scanner) remember(opp arbitrage.Opportunity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.recent = append([]arbitrage.Opportunity{opp}, s.recent...)
	if len(s.recent) > s.cfg.RecentLimit {
		s.recent = s.recent[:s.cfg.RecentLimit]
	}
}

// Recent returns the latest opportunities, newest first. It backs the HTTP
// API.
func (s *Scanner) Recent(limit int) []arbitrage.Opportunity {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > len(s.recent) {
		limit = len(s.recent)
	}
	out := make([]arbitrage.Opportunity, limit)
	copy(out, s.recent[:limit])
	return out
}
