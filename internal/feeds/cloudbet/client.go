// Package cloudbet fetches sportsbook snapshots from the Cloudbet Feed API.
// Authentication is an X-API-Key header; 403 responses are terminal and never
// retried.
package cloudbet

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/oddscan/crossbook-arb/internal/feeds"
	"github.com/oddscan/crossbook-arb/pkg/types"
)

const (
	// DefaultBaseURL is the Cloudbet Feed API host.
	DefaultBaseURL = "https://sports-api.cloudbet.com/pub"
	// statusTrading marks an event still accepting bets.
	statusTrading = "TRADING"
)

// ErrForbidden reports a 403 from the Feed API: the key lacks odds permission
// or targets the wrong environment. Retrying cannot help.
var ErrForbidden = errors.New("cloudbet: api key rejected (403)")

// Config holds the Feed API client settings.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
	// RetryCount is the number of retries after a retryable failure.
	RetryCount int
	// Horizon bounds how far ahead events are kept. Defaults to 7 days.
	Horizon time.Duration
	// Sports restricts the fetch to specific sport keys. Empty fetches the
	// full catalogue from /v2/odds/sports first.
	Sports []string
	Logger *zap.Logger
}

// Client is a polling Feed API client implementing feeds.Feed.
type Client struct {
	http    *resty.Client
	horizon time.Duration
	sports  []string
	logger  *zap.Logger
	now     func() time.Time
}

// NewClient creates a Feed API client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("cloudbet: api key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RetryCount == 0 {
		cfg.RetryCount = 3
	}
	if cfg.Horizon == 0 {
		cfg.Horizon = 7 * 24 * time.Hour
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	httpc := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(2 * time.Second).
		SetRetryMaxWaitTime(15 * time.Second).
		SetHeader("X-API-Key", cfg.APIKey).
		SetHeader("Accept", "application/json").
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			// 403 is a credential problem, not a transient failure.
			return r.StatusCode() >= http.StatusInternalServerError
		})
	httpc.JSONMarshal = json.Marshal
	httpc.JSONUnmarshal = json.Unmarshal

	return &Client{
		http:    httpc,
		horizon: cfg.Horizon,
		sports:  cfg.Sports,
		logger:  cfg.Logger,
		now:     time.Now,
	}, nil
}

func (c *Client) Platform() types.Platform {
	return types.PlatformCloudbet
}

type sportsResponse struct {
	Sports []struct {
		Key  string `json:"key"`
		Name string `json:"name"`
	} `json:"sports"`
}

type eventsResponse struct {
	Competitions []struct {
		Name   string          `json:"name"`
		Events []cloudbetEvent `json:"events"`
	} `json:"competitions"`
}

type cloudbetEvent struct {
	ID        int64                     `json:"id"`
	Name      string                    `json:"name"`
	Status    string                    `json:"status"`
	StartTime string                    `json:"startTime"`
	Markets   map[string]cloudbetMarket `json:"markets"`
}

type cloudbetMarket struct {
	Submarkets map[string]struct {
		Selections []selection `json:"selections"`
	} `json:"submarkets"`
}

type selection struct {
	Outcome string  `json:"outcome"`
	Price   float64 `json:"price"`
	Status  string  `json:"status"`
}

// Fetch pulls every tradable event per sport and flattens priced selections.
// Events outside the horizon, suspended selections, and sub-1.0 prices are
// dropped.
func (c *Client) Fetch(ctx context.Context) ([]types.OutcomeRecord, error) {
	start := time.Now()

	sports := c.sports
	if len(sports) == 0 {
		var err error
		sports, err = c.listSports(ctx)
		if err != nil {
			feeds.FetchErrorsTotal.WithLabelValues(string(c.Platform())).Inc()
			return nil, fmt.Errorf("list cloudbet sports: %w", err)
		}
	}

	var records []types.OutcomeRecord
	for _, sport := range sports {
		events, err := c.eventsForSport(ctx, sport)
		if err != nil {
			if errors.Is(err, ErrForbidden) {
				feeds.FetchErrorsTotal.WithLabelValues(string(c.Platform())).Inc()
				return nil, err
			}
			// One sport failing must not lose the rest of the snapshot.
			c.logger.Warn("cloudbet-sport-fetch-failed",
				zap.String("sport", sport),
				zap.Error(err))
			continue
		}
		for _, event := range events {
			records = append(records, c.parseEvent(event)...)
		}
	}

	feeds.FetchDurationSeconds.WithLabelValues(string(c.Platform())).Observe(time.Since(start).Seconds())
	feeds.RecordsFetchedTotal.WithLabelValues(string(c.Platform())).Add(float64(len(records)))
	c.logger.Info("cloudbet-snapshot-fetched",
		zap.Int("sports", len(sports)),
		zap.Int("records", len(records)))

	return records, nil
}

func (c *Client) listSports(ctx context.Context) ([]string, error) {
	var out sportsResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/v2/odds/sports")
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	if resp.StatusCode() == http.StatusForbidden {
		return nil, ErrForbidden
	}
	if resp.IsError() {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode(), resp.String())
	}

	keys := make([]string, 0, len(out.Sports))
	for _, s := range out.Sports {
		if s.Key != "" {
			keys = append(keys, s.Key)
		}
	}
	return keys, nil
}

func (c *Client) eventsForSport(ctx context.Context, sport string) ([]cloudbetEvent, error) {
	now := c.now().UTC()
	var out eventsResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"sport": sport,
			"from":  strconv.FormatInt(now.UnixMilli(), 10),
			"to":    strconv.FormatInt(now.Add(c.horizon).UnixMilli(), 10),
		}).
		SetResult(&out).
		Get("/v2/odds/events")
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	if resp.StatusCode() == http.StatusForbidden {
		return nil, ErrForbidden
	}
	if resp.IsError() {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode(), resp.String())
	}

	var events []cloudbetEvent
	for _, comp := range out.Competitions {
		events = append(events, comp.Events...)
	}
	return events, nil
}

func (c *Client) parseEvent(event cloudbetEvent) []types.OutcomeRecord {
	if event.Status != statusTrading || event.Name == "" {
		return nil
	}

	startTime, withinHorizon := c.eventStart(event.StartTime)
	if !withinHorizon {
		return nil
	}

	var records []types.OutcomeRecord
	for marketKey, market := range event.Markets {
		for _, submarket := range market.Submarkets {
			for _, sel := range activeSelections(submarket.Selections) {
				records = append(records, types.OutcomeRecord{
					Platform:    types.PlatformCloudbet,
					EventTitle:  event.Name,
					MarketLabel: marketKey,
					OutcomeName: sel.Outcome,
					DecimalOdds: sel.Price,
					URL:         fmt.Sprintf("https://www.cloudbet.com/en/sports/event/%d", event.ID),
					StartTime:   startTime,
				})
			}
		}
	}
	return records
}

// activeSelections filters out suspended or unpriced selections.
func activeSelections(selections []selection) []selection {
	out := selections[:0:0]
	for _, s := range selections {
		if s.Status == "SELECTION_DISABLED" || s.Status == "SUSPENDED" {
			continue
		}
		if s.Price <= 1.0 || s.Outcome == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

// eventStart parses the event start and checks it against the horizon. An
// unparseable time keeps the event rather than dropping it.
func (c *Client) eventStart(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, true
	}
	now := c.now().UTC()
	if t.Before(now) || t.After(now.Add(c.horizon)) {
		return t, false
	}
	return t, true
}
