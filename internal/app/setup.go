package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/oddscan/crossbook-arb/internal/arbitrage"
	"github.com/oddscan/crossbook-arb/internal/feeds"
	"github.com/oddscan/crossbook-arb/internal/feeds/cloudbet"
	"github.com/oddscan/crossbook-arb/internal/feeds/mockdata"
	"github.com/oddscan/crossbook-arb/internal/feeds/polymarket"
	"github.com/oddscan/crossbook-arb/internal/matching"
	"github.com/oddscan/crossbook-arb/internal/notify"
	"github.com/oddscan/crossbook-arb/internal/scanner"
	"github.com/oddscan/crossbook-arb/internal/storage"
	"github.com/oddscan/crossbook-arb/pkg/cache"
	"github.com/oddscan/crossbook-arb/pkg/config"
	"github.com/oddscan/crossbook-arb/pkg/healthprobe"
	"github.com/oddscan/crossbook-arb/pkg/httpserver"
	"github.com/oddscan/crossbook-arb/pkg/types"
)

// New creates a new application instance.
func New(cfg *config.Config, logger *zap.Logger, opts *Options) (*App, error) {
	if opts == nil {
		opts = &Options{}
	}

	ctx, cancel := context.WithCancel(context.Background())

	healthChecker := healthprobe.New()

	dedupCache, err := setupCache(logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup cache: %w", err)
	}

	feedA, feedB, err := setupFeeds(cfg, logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup feeds: %w", err)
	}

	matcher, engine, err := setupDetection(cfg, logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup detection: %w", err)
	}

	store, err := setupStorage(cfg, logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup storage: %w", err)
	}

	notifier := setupNotifier(cfg, logger)

	scan, err := scanner.New(feedA, feedB, matcher, engine, store, notifier, dedupCache, scanner.Config{
		DedupTTL: cfg.DedupTTL,
		Logger:   logger,
	})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup scanner: %w", err)
	}

	httpServer := httpserver.New(&httpserver.Config{
		Port:          cfg.HTTPPort,
		Logger:        logger,
		HealthChecker: healthChecker,
		Opportunities: scan,
	})

	return &App{
		cfg:           cfg,
		logger:        logger,
		healthChecker: healthChecker,
		httpServer:    httpServer,
		scanner:       scan,
		storage:       store,
		dedupCache:    dedupCache,
		opts:          opts,
		ctx:           ctx,
		cancel:        cancel,
	}, nil
}

func setupCache(logger *zap.Logger) (cache.Cache, error) {
	return cache.NewRistrettoCache(&cache.RistrettoConfig{
		NumCounters: 100000, // 10x expected max items (10k dedup keys)
		MaxItems:    10000,
		BufferItems: 64,
		Logger:      logger,
	})
}

func setupFeeds(cfg *config.Config, logger *zap.Logger) (feeds.Feed, feeds.Feed, error) {
	if cfg.UseMockData {
		logger.Info("mock-data-enabled")
		feedA, err := mockdata.NewFeed(types.PlatformPolymarket)
		if err != nil {
			return nil, nil, fmt.Errorf("load polymarket snapshot: %w", err)
		}
		feedB, err := mockdata.NewFeed(types.PlatformCloudbet)
		if err != nil {
			return nil, nil, fmt.Errorf("load cloudbet snapshot: %w", err)
		}
		return feedA, feedB, nil
	}

	feedA := polymarket.NewClient(polymarket.Config{
		BaseURL:    cfg.PolymarketGammaURL,
		Timeout:    cfg.FeedTimeout,
		RetryCount: cfg.FeedRetryCount,
		MaxMarkets: cfg.PolymarketMaxMarkets,
		Logger:     logger,
	})

	feedB, err := cloudbet.NewClient(cloudbet.Config{
		APIKey:     cfg.CloudbetAPIKey,
		BaseURL:    cfg.CloudbetBaseURL,
		Timeout:    cfg.FeedTimeout,
		RetryCount: cfg.FeedRetryCount,
		Horizon:    cfg.CloudbetHorizon,
		Sports:     cfg.CloudbetSports,
		Logger:     logger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create cloudbet client: %w", err)
	}

	return feedA, feedB, nil
}

func setupDetection(cfg *config.Config, logger *zap.Logger) (*matching.EventMatcher, *arbitrage.Engine, error) {
	normalizer := matching.NewNormalizer(matching.DefaultAliases())
	extractor := matching.NewExtractor(matching.DefaultTeams(), matching.DefaultAliases())

	matcher, err := matching.NewEventMatcher(matching.EventMatcherConfig{
		SimilarityThreshold: cfg.SimilarityThreshold,
		TimeWindow:          cfg.EventTimeWindow,
		Workers:             cfg.MatchWorkers,
		Logger:              logger,
	}, extractor, normalizer, matching.TokenSortScorer{})
	if err != nil {
		return nil, nil, fmt.Errorf("create event matcher: %w", err)
	}

	outcomes, err := matching.NewOutcomeMatcher(matching.TokenSortScorer{}, normalizer, cfg.FuzzyOutcomeThreshold)
	if err != nil {
		return nil, nil, fmt.Errorf("create outcome matcher: %w", err)
	}

	allocator, err := arbitrage.NewAllocator(cfg.Bankroll, cfg.KellyFraction, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("create allocator: %w", err)
	}

	engine, err := arbitrage.NewEngine(arbitrage.EngineConfig{
		MinProfitPct:    cfg.MinProfitPct,
		MinValueEdgePct: cfg.MinValueEdgePct,
		Logger:          logger,
	}, outcomes, allocator)
	if err != nil {
		return nil, nil, fmt.Errorf("create engine: %w", err)
	}

	return matcher, engine, nil
}

func setupStorage(cfg *config.Config, logger *zap.Logger) (storage.Storage, error) {
	if cfg.StorageMode == "postgres" {
		pgStorage, err := storage.NewPostgresStorage(&storage.PostgresConfig{
			Host:     cfg.PostgresHost,
			Port:     cfg.PostgresPort,
			User:     cfg.PostgresUser,
			Password: cfg.PostgresPass,
			Database: cfg.PostgresDB,
			SSLMode:  cfg.PostgresSSL,
			Logger:   logger,
		})
		if err != nil {
			return nil, fmt.Errorf("create postgres storage: %w", err)
		}
		return pgStorage, nil
	}

	return storage.NewConsoleStorage(logger), nil
}

func setupNotifier(cfg *config.Config, logger *zap.Logger) notify.Notifier {
	if cfg.TelegramBotToken == "" || cfg.TelegramChatID == "" {
		logger.Info("telegram-disabled",
			zap.String("note", "TELEGRAM_BOT_TOKEN or TELEGRAM_CHAT_ID not set, alerts go to the log"))
		return notify.NewLogNotifier(logger)
	}

	notifier, err := notify.NewTelegramNotifier(notify.TelegramConfig{
		BotToken: cfg.TelegramBotToken,
		ChatID:   cfg.TelegramChatID,
		Quiet: notify.QuietHours{
			Enabled:   cfg.QuietHoursEnabled,
			StartHour: cfg.QuietStartHour,
			EndHour:   cfg.QuietEndHour,
		},
		Logger: logger,
	})
	if err != nil {
		logger.Warn("telegram-setup-failed", zap.Error(err))
		return notify.NewLogNotifier(logger)
	}
	return notifier
}
