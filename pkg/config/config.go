package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	// Application
	LogLevel string
	HTTPPort string

	// Polymarket feed
	PolymarketGammaURL   string
	PolymarketMaxMarkets int

	// Cloudbet feed
	CloudbetAPIKey  string
	CloudbetBaseURL string
	CloudbetSports  []string
	CloudbetHorizon time.Duration

	// Feed client behaviour
	FeedTimeout    time.Duration
	FeedRetryCount int
	UseMockData    bool

	// Event matching
	SimilarityThreshold   float64
	FuzzyOutcomeThreshold float64
	EventTimeWindow       time.Duration
	MatchWorkers          int

	// Signal thresholds
	MinProfitPct    float64
	MinValueEdgePct float64

	// Bankroll
	Bankroll      float64
	KellyFraction float64

	// Scanning
	ScanInterval time.Duration
	DedupTTL     time.Duration

	// Telegram alerts
	TelegramBotToken  string
	TelegramChatID    string
	QuietHoursEnabled bool
	QuietStartHour    int
	QuietEndHour      int

	// Storage
	StorageMode  string // "postgres" or "console"
	PostgresHost string
	PostgresPort string
	PostgresUser string
	PostgresPass string
	PostgresDB   string
	PostgresSSL  string
}

// LoadFromEnv loads configuration from environment variables with defaults.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		// Application defaults
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
		HTTPPort: getEnvOrDefault("HTTP_PORT", "8080"),

		// Polymarket defaults
		PolymarketGammaURL:   getEnvOrDefault("POLYMARKET_GAMMA_API_URL", "https://gamma-api.polymarket.com"),
		PolymarketMaxMarkets: getIntOrDefault("POLYMARKET_MAX_MARKETS", 500),

		// Cloudbet defaults
		CloudbetAPIKey:  os.Getenv("CLOUDBET_API_KEY"),
		CloudbetBaseURL: getEnvOrDefault("CLOUDBET_API_URL", "https://sports-api.cloudbet.com/pub"),
		CloudbetSports:  getListOrDefault("CLOUDBET_SPORTS", nil),
		CloudbetHorizon: getDurationOrDefault("CLOUDBET_HORIZON", 7*24*time.Hour),

		// Feed defaults
		FeedTimeout:    getDurationOrDefault("FEED_TIMEOUT", 10*time.Second),
		FeedRetryCount: getIntOrDefault("FEED_RETRY_COUNT", 3),
		UseMockData:    getBoolOrDefault("USE_MOCK_DATA", false),

		// Matching defaults
		SimilarityThreshold:   getFloat64OrDefault("SIMILARITY_THRESHOLD", 70),
		FuzzyOutcomeThreshold: getFloat64OrDefault("FUZZY_OUTCOME_THRESHOLD", 85),
		EventTimeWindow:       getDurationOrDefault("EVENT_TIME_WINDOW", 48*time.Hour),
		MatchWorkers:          getIntOrDefault("MATCH_WORKERS", 0),

		// Signal defaults
		MinProfitPct:    getFloat64OrDefault("MIN_PROFIT_PCT", 1.0),
		MinValueEdgePct: getFloat64OrDefault("MIN_VALUE_EDGE_PCT", 5.0),

		// Bankroll defaults
		Bankroll:      getFloat64OrDefault("BANKROLL", 10000),
		KellyFraction: getFloat64OrDefault("KELLY_FRACTION", 0.5),

		// Scanning defaults
		ScanInterval: getDurationOrDefault("SCAN_INTERVAL", time.Minute),
		DedupTTL:     getDurationOrDefault("DEDUP_TTL", 6*time.Hour),

		// Telegram defaults
		TelegramBotToken:  os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:    os.Getenv("TELEGRAM_CHAT_ID"),
		QuietHoursEnabled: getBoolOrDefault("QUIET_HOURS_ENABLED", false),
		QuietStartHour:    getIntOrDefault("QUIET_START_HOUR", 23),
		QuietEndHour:      getIntOrDefault("QUIET_END_HOUR", 7),

		// Storage defaults
		StorageMode:  getEnvOrDefault("STORAGE_MODE", "console"),
		PostgresHost: getEnvOrDefault("POSTGRES_HOST", "localhost"),
		PostgresPort: getEnvOrDefault("POSTGRES_PORT", "5432"),
		PostgresUser: getEnvOrDefault("POSTGRES_USER", "crossbook"),
		PostgresPass: getEnvOrDefault("POSTGRES_PASSWORD", "crossbook123"),
		PostgresDB:   getEnvOrDefault("POSTGRES_DB", "crossbook_arb"),
		PostgresSSL:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
	}

	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Validate checks that configuration values are valid.
func (c *Config) Validate() error {
	if c.HTTPPort == "" {
		return fmt.Errorf("HTTP_PORT cannot be empty")
	}

	if c.PolymarketGammaURL == "" {
		return fmt.Errorf("POLYMARKET_GAMMA_API_URL cannot be empty")
	}

	if !c.UseMockData && c.CloudbetAPIKey == "" {
		return fmt.Errorf("CLOUDBET_API_KEY is required unless USE_MOCK_DATA is set")
	}

	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 100 {
		return fmt.Errorf("SIMILARITY_THRESHOLD must be between 0 and 100, got %f", c.SimilarityThreshold)
	}

	if c.FuzzyOutcomeThreshold < 0 || c.FuzzyOutcomeThreshold > 100 {
		return fmt.Errorf("FUZZY_OUTCOME_THRESHOLD must be between 0 and 100, got %f", c.FuzzyOutcomeThreshold)
	}

	if c.MinProfitPct < 0 {
		return fmt.Errorf("MIN_PROFIT_PCT must be >= 0, got %f", c.MinProfitPct)
	}

	if c.Bankroll <= 0 {
		return fmt.Errorf("BANKROLL must be > 0, got %f", c.Bankroll)
	}

	if c.KellyFraction < 0 || c.KellyFraction > 1 {
		return fmt.Errorf("KELLY_FRACTION must be between 0 and 1, got %f", c.KellyFraction)
	}

	if c.ScanInterval <= 0 {
		return fmt.Errorf("SCAN_INTERVAL must be > 0, got %s", c.ScanInterval)
	}

	if c.StorageMode != "postgres" && c.StorageMode != "console" {
		return fmt.Errorf("STORAGE_MODE must be 'postgres' or 'console', got %q", c.StorageMode)
	}

	if c.QuietStartHour < 0 || c.QuietStartHour > 23 || c.QuietEndHour < 0 || c.QuietEndHour > 23 {
		return fmt.Errorf("quiet hours must be within 0-23, got %d-%d", c.QuietStartHour, c.QuietEndHour)
	}

	return nil
}

func getEnvOrDefault(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intVal, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intVal
}

func getFloat64OrDefault(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	floatVal, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}

	return floatVal
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}

	return duration
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	boolVal, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return boolVal
}

func getListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parts := strings.Split(value, ",")
	out := parts[:0]
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
