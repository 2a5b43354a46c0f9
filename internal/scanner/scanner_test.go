package scanner

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/oddscan/crossbook-arb/internal/arbitrage"
	"github.com/oddscan/crossbook-arb/internal/matching"
	"github.com/oddscan/crossbook-arb/pkg/types"
)

type fakeFeed struct {
	platform types.Platform
	records  []types.OutcomeRecord
	err      error
}

func (f *fakeFeed) Platform() types.Platform { return f.platform }

func (f *fakeFeed) Fetch(context.Context) ([]types.OutcomeRecord, error) {
	return f.records, f.err
}

type memStorage struct {
	mu     sync.Mutex
	stored []arbitrage.Opportunity
	seen   map[string]struct{}
}

func newMemStorage() *memStorage {
	return &memStorage{seen: make(map[string]struct{})}
}

func (m *memStorage) StoreOpportunity(_ context.Context, opp *arbitrage.Opportunity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stored = append(m.stored, *opp)
	m.seen[opp.DedupKey()] = struct{}{}
	return nil
}

func (m *memStorage) WasSeen(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.seen[key]
	return ok, nil
}

func (m *memStorage) Close() error { return nil }

type captureNotifier struct {
	mu   sync.Mutex
	sent []arbitrage.Opportunity
	err  error
}

func (n *captureNotifier) Notify(_ context.Context, opp arbitrage.Opportunity) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, opp)
	return n.err
}

type mapCache struct {
	mu sync.Mutex
	m  map[string]interface{}
}

func newMapCache() *mapCache { return &mapCache{m: make(map[string]interface{})} }

func (c *mapCache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.m[key]
	return v, ok
}

func (c *mapCache) Set(key string, value interface{}, _ time.Duration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = value
	return true
}

func (c *mapCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.m, key)
}

func (c *mapCache) Close() {}

func record(platform types.Platform, event, outcome string, odds float64) types.OutcomeRecord {
	return types.OutcomeRecord{
		Platform:    platform,
		EventTitle:  event,
		MarketLabel: "moneyline",
		OutcomeName: outcome,
		DecimalOdds: odds,
		StartTime:   time.Date(2026, 9, 1, 19, 0, 0, 0, time.UTC),
	}
}

// arbRecords returns snapshots where the Lakers leg on one platform and the
// Warriors leg on the other form a 2.44% arbitrage.
func arbRecords() (pm, cb []types.OutcomeRecord) {
	pm = []types.OutcomeRecord{
		record(types.PlatformPolymarket, "Lakers vs Warriors", "Lakers", 2.0),
		record(types.PlatformPolymarket, "Lakers vs Warriors", "Warriors", 1.92),
	}
	cb = []types.OutcomeRecord{
		record(types.PlatformCloudbet, "Los Angeles Lakers v Golden State Warriors", "Los Angeles Lakers", 1.88),
		record(types.PlatformCloudbet, "Los Angeles Lakers v Golden State Warriors", "Golden State Warriors", 2.1),
	}
	return pm, cb
}

func newTestScanner(t *testing.T, pm, cb []types.OutcomeRecord, store *memStorage, notifier *captureNotifier) *Scanner {
	t.Helper()

	normalizer := matching.NewNormalizer(matching.DefaultAliases())
	extractor := matching.NewExtractor(matching.DefaultTeams(), matching.DefaultAliases())
	matcher, err := matching.NewEventMatcher(matching.EventMatcherConfig{SimilarityThreshold: 70},
		extractor, normalizer, matching.TokenSortScorer{})
	if err != nil {
		t.Fatalf("NewEventMatcher: %v", err)
	}

	outcomes, err := matching.NewOutcomeMatcher(matching.TokenSortScorer{}, normalizer, 85)
	if err != nil {
		t.Fatalf("NewOutcomeMatcher: %v", err)
	}
	allocator, err := arbitrage.NewAllocator(10000, 0.5, zap.NewNop())
	if err != nil {
		t.Fatalf("NewAllocator: %v", err)
	}
	engine, err := arbitrage.NewEngine(arbitrage.EngineConfig{MinProfitPct: 1.0, MinValueEdgePct: 5.0}, outcomes, allocator)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	s, err := New(
		&fakeFeed{platform: types.PlatformPolymarket, records: pm},
		&fakeFeed{platform: types.PlatformCloudbet, records: cb},
		matcher, engine, store, notifier, newMapCache(),
		Config{Logger: zap.NewNop()},
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestScanDetectsStoresAndAlerts(t *testing.T) {
	pm, cb := arbRecords()
	store := newMemStorage()
	notifier := &captureNotifier{}
	s := newTestScanner(t, pm, cb, store, notifier)

	result, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	if result.Matches != 1 {
		t.Fatalf("matches = %d, want 1", result.Matches)
	}
	if result.Opportunities != 1 || result.Alerted != 1 {
		t.Fatalf("opportunities = %d alerted = %d, want 1/1", result.Opportunities, result.Alerted)
	}

	if len(store.stored) != 1 {
		t.Fatalf("stored = %d, want 1", len(store.stored))
	}
	opp := store.stored[0]
	if opp.Kind != arbitrage.SignalArbitrage {
		t.Errorf("kind = %s", opp.Kind)
	}
	if opp.Stakes == nil {
		t.Error("expected a stake plan on the stored opportunity")
	}

	if len(notifier.sent) != 1 {
		t.Fatalf("alerts = %d, want 1", len(notifier.sent))
	}

	recent := s.Recent(10)
	if len(recent) != 1 || recent[0].ID != opp.ID {
		t.Errorf("Recent() = %+v", recent)
	}
}

func TestScanDeduplicatesRepeats(t *testing.T) {
	pm, cb := arbRecords()
	store := newMemStorage()
	notifier := &captureNotifier{}
	s := newTestScanner(t, pm, cb, store, notifier)

	for i := 0; i < 3; i++ {
		if _, err := s.Scan(context.Background()); err != nil {
			t.Fatalf("Scan %d: %v", i, err)
		}
	}

	if len(notifier.sent) != 1 {
		t.Errorf("unchanged odds must alert once, got %d alerts", len(notifier.sent))
	}
	if len(store.stored) != 1 {
		t.Errorf("unchanged odds must store once, got %d rows", len(store.stored))
	}
}

func TestScanReAlertsOnMovedOdds(t *testing.T) {
	pm, cb := arbRecords()
	store := newMemStorage()
	notifier := &captureNotifier{}
	s := newTestScanner(t, pm, cb, store, notifier)

	if _, err := s.Scan(context.Background()); err != nil {
		t.Fatalf("Scan: %v", err)
	}

	// Odds move: the dedup key changes and the signal fires again.
	cb[1].DecimalOdds = 2.15
	if _, err := s.Scan(context.Background()); err != nil {
		t.Fatalf("Scan: %v", err)
	}

	if len(notifier.sent) != 2 {
		t.Errorf("moved odds must re-alert, got %d alerts", len(notifier.sent))
	}
}

func TestScanAbortsOnFeedFailure(t *testing.T) {
	pm, _ := arbRecords()
	store := newMemStorage()
	notifier := &captureNotifier{}
	s := newTestScanner(t, pm, nil, store, notifier)
	s.feedB = &fakeFeed{platform: types.PlatformCloudbet, err: errors.New("upstream down")}

	if _, err := s.Scan(context.Background()); err == nil {
		t.Fatal("expected scan to abort when a feed fails")
	}
	if len(notifier.sent) != 0 {
		t.Error("no alerts may fire from a failed scan")
	}
}

func TestScanNotifierFailureDoesNotAbort(t *testing.T) {
	pm, cb := arbRecords()
	store := newMemStorage()
	notifier := &captureNotifier{err: errors.New("telegram down")}
	s := newTestScanner(t, pm, cb, store, notifier)

	result, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if result.Alerted != 1 {
		t.Errorf("alerted = %d, want 1", result.Alerted)
	}
	if len(store.stored) != 1 {
		t.Error("opportunity must still be stored when delivery fails")
	}
}
