// Package polymarket fetches prediction-market snapshots from the Polymarket
// Gamma API. The API is public; no authentication is required.
package polymarket

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/oddscan/crossbook-arb/internal/feeds"
	"github.com/oddscan/crossbook-arb/pkg/types"
)

const (
	// DefaultBaseURL is the public Gamma API host.
	DefaultBaseURL = "https://gamma-api.polymarket.com"
	// maxPageSize is the largest page the Gamma API serves per request.
	maxPageSize = 100
)

// Config holds the Gamma client settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// RetryCount is the number of retries after a failed request.
	RetryCount int
	// MaxMarkets caps the total markets fetched across pages. Zero fetches
	// until the API returns a short page.
	MaxMarkets int
	Logger     *zap.Logger
}

// Client is a polling Gamma API client implementing feeds.Feed.
type Client struct {
	http   *resty.Client
	max    int
	logger *zap.Logger
}

// NewClient creates a Gamma API client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RetryCount == 0 {
		cfg.RetryCount = 3
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	http := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(2 * time.Second).
		SetRetryMaxWaitTime(15 * time.Second).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "crossbook-arb/1.0")
	http.JSONMarshal = json.Marshal
	http.JSONUnmarshal = json.Unmarshal

	return &Client{http: http, max: cfg.MaxMarkets, logger: cfg.Logger}
}

func (c *Client) Platform() types.Platform {
	return types.PlatformPolymarket
}

// gammaMarket mirrors the Gamma /markets payload. Field names vary across
// market vintages, so identity and title resolve through ordered fallbacks.
type gammaMarket struct {
	ID          string `json:"id"`
	Slug        string `json:"slug"`
	ConditionID string `json:"conditionId"`

	Question string `json:"question"`
	Title    string `json:"title"`
	Name     string `json:"name"`

	// Outcomes and OutcomePrices are JSON-encoded string arrays, e.g.
	// "[\"Yes\", \"No\"]" and "[\"0.48\", \"0.54\"]".
	Outcomes      string `json:"outcomes"`
	OutcomePrices string `json:"outcomePrices"`

	GameStartTime string `json:"gameStartTime"`
	EndDate       string `json:"endDate"`
}

func (m *gammaMarket) identity() string {
	switch {
	case m.ID != "":
		return m.ID
	case m.Slug != "":
		return m.Slug
	default:
		return m.ConditionID
	}
}

func (m *gammaMarket) title() string {
	switch {
	case m.Question != "":
		return m.Question
	case m.Title != "":
		return m.Title
	default:
		return m.Name
	}
}

func (m *gammaMarket) startTime() time.Time {
	for _, raw := range []string{m.GameStartTime, m.EndDate} {
		if raw == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err == nil {
			return t
		}
	}
	return time.Time{}
}

// Fetch pages through /markets?active=true and flattens every priced outcome.
// Markets without an identity, a title, or at least two convertible prices
// are dropped.
func (c *Client) Fetch(ctx context.Context) ([]types.OutcomeRecord, error) {
	start := time.Now()

	var records []types.OutcomeRecord
	offset := 0
	for {
		page, err := c.fetchPage(ctx, maxPageSize, offset)
		if err != nil {
			feeds.FetchErrorsTotal.WithLabelValues(string(c.Platform())).Inc()
			return nil, fmt.Errorf("fetch gamma markets at offset %d: %w", offset, err)
		}

		for _, market := range page {
			records = append(records, c.parseMarket(market)...)
		}

		offset += len(page)
		if len(page) < maxPageSize {
			break
		}
		if c.max > 0 && offset >= c.max {
			break
		}
	}

	feeds.FetchDurationSeconds.WithLabelValues(string(c.Platform())).Observe(time.Since(start).Seconds())
	feeds.RecordsFetchedTotal.WithLabelValues(string(c.Platform())).Add(float64(len(records)))
	c.logger.Info("polymarket-snapshot-fetched",
		zap.Int("markets", offset),
		zap.Int("records", len(records)))

	return records, nil
}

func (c *Client) fetchPage(ctx context.Context, limit, offset int) ([]gammaMarket, error) {
	var page []gammaMarket
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"active": "true",
			"closed": "false",
			"limit":  strconv.Itoa(limit),
			"offset": strconv.Itoa(offset),
		}).
		SetResult(&page).
		Get("/markets")
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode(), resp.String())
	}
	return page, nil
}

// parseMarket converts one Gamma market into outcome records. Prices are
// probabilities in (0,1); decimal odds are their reciprocal.
func (c *Client) parseMarket(market gammaMarket) []types.OutcomeRecord {
	id := market.identity()
	title := market.title()
	if id == "" || title == "" {
		return nil
	}

	var names []string
	var prices []string
	if err := json.Unmarshal([]byte(market.Outcomes), &names); err != nil {
		return nil
	}
	if err := json.Unmarshal([]byte(market.OutcomePrices), &prices); err != nil {
		return nil
	}
	if len(names) != len(prices) {
		c.logger.Debug("gamma-market-shape-mismatch",
			zap.String("market", id),
			zap.Int("outcomes", len(names)),
			zap.Int("prices", len(prices)))
		return nil
	}

	records := make([]types.OutcomeRecord, 0, len(names))
	for i, name := range names {
		price, err := strconv.ParseFloat(prices[i], 64)
		if err != nil || price <= 0 || price >= 1 {
			continue
		}
		records = append(records, types.OutcomeRecord{
			Platform:    types.PlatformPolymarket,
			EventTitle:  title,
			MarketLabel: title,
			OutcomeName: name,
			DecimalOdds: 1 / price,
			URL:         fmt.Sprintf("https://polymarket.com/event/%s", id),
			StartTime:   market.startTime(),
		})
	}

	// A one-sided market cannot pair with anything downstream.
	if len(records) < 2 {
		return nil
	}
	return records
}
