package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/oddscan/crossbook-arb/internal/arbitrage"
	"github.com/oddscan/crossbook-arb/internal/notify"
	"github.com/oddscan/crossbook-arb/internal/storage"
	"github.com/oddscan/crossbook-arb/pkg/config"
	"github.com/oddscan/crossbook-arb/pkg/types"
)

func testConfig() *config.Config {
	return &config.Config{
		LogLevel: "info",
		HTTPPort: "8080",

		UseMockData: true,

		SimilarityThreshold:   70,
		FuzzyOutcomeThreshold: 85,
		EventTimeWindow:       48 * time.Hour,

		MinProfitPct:    1.0,
		MinValueEdgePct: 5.0,

		Bankroll:      10000,
		KellyFraction: 0.5,

		ScanInterval: time.Minute,
		DedupTTL:     6 * time.Hour,

		StorageMode: "console",
	}
}

func TestNewWiresApplication(t *testing.T) {
	cfg := testConfig()

	application, err := New(cfg, zap.NewNop(), nil)
	require.NoError(t, err)
	require.NotNil(t, application)

	assert.NotNil(t, application.scanner)
	assert.NotNil(t, application.httpServer)
	assert.NotNil(t, application.healthChecker)

	require.NoError(t, application.Shutdown())
}

func TestScanOverEmbeddedSnapshots(t *testing.T) {
	cfg := testConfig()

	application, err := New(cfg, zap.NewNop(), nil)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, application.Shutdown())
	}()

	result, err := application.scanner.Scan(context.Background())
	require.NoError(t, err)

	assert.Greater(t, result.RecordsA, 0, "polymarket snapshot must yield records")
	assert.Greater(t, result.RecordsB, 0, "cloudbet snapshot must yield records")
	assert.GreaterOrEqual(t, result.Matches, 1, "snapshots share at least one event")
	assert.GreaterOrEqual(t, result.Opportunities, 1, "snapshots carry a planted arbitrage")

	recent := application.scanner.Recent(10)
	require.NotEmpty(t, recent)

	found := false
	for _, opp := range recent {
		if opp.Kind == arbitrage.SignalArbitrage {
			found = true
			assert.InDelta(t, 2.44, opp.ProfitPct, 0.01)
			require.NotNil(t, opp.Stakes)
			assert.InDelta(t, 121.95, opp.Stakes.GuaranteedProfit, 0.05)
		}
	}
	assert.True(t, found, "expected the planted arbitrage among recent signals")
}

func TestSetupFeedsRequiresCloudbetKey(t *testing.T) {
	cfg := testConfig()
	cfg.UseMockData = false
	cfg.CloudbetAPIKey = ""

	_, _, err := setupFeeds(cfg, zap.NewNop())
	require.Error(t, err)
}

func TestSetupFeedsMockPlatforms(t *testing.T) {
	feedA, feedB, err := setupFeeds(testConfig(), zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, types.PlatformPolymarket, feedA.Platform())
	assert.Equal(t, types.PlatformCloudbet, feedB.Platform())
}

func TestSetupStorageConsoleMode(t *testing.T) {
	store, err := setupStorage(testConfig(), zap.NewNop())
	require.NoError(t, err)

	assert.IsType(t, &storage.ConsoleStorage{}, store)
	require.NoError(t, store.Close())
}

func TestSetupNotifierFallsBackToLog(t *testing.T) {
	notifier := setupNotifier(testConfig(), zap.NewNop())
	assert.IsType(t, &notify.LogNotifier{}, notifier)
}

func TestSetupNotifierTelegram(t *testing.T) {
	cfg := testConfig()
	cfg.TelegramBotToken = "token"
	cfg.TelegramChatID = "chat"

	notifier := setupNotifier(cfg, zap.NewNop())
	assert.IsType(t, &notify.TelegramNotifier{}, notifier)
}
