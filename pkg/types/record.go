package types

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Platform identifies the source of an outcome record.
type Platform string

const (
	PlatformPolymarket Platform = "polymarket"
	PlatformCloudbet   Platform = "cloudbet"
)

// OutcomeRecord is one priced side of a market on one platform.
// Records arrive already normalized by the feed clients; matching logic
// never branches on the upstream payload shape.
type OutcomeRecord struct {
	Platform    Platform  `json:"platform"`
	EventTitle  string    `json:"event_title"`
	MarketLabel string    `json:"market_label"`
	OutcomeName string    `json:"outcome"`
	DecimalOdds float64   `json:"odds"`
	URL         string    `json:"url,omitempty"`
	StartTime   time.Time `json:"start_time"` // zero when the platform does not report one
}

// Validate reports whether the record is usable for matching.
// Odds at or below 1.0 carry no payout and are rejected.
func (r *OutcomeRecord) Validate() error {
	if strings.TrimSpace(r.EventTitle) == "" {
		return fmt.Errorf("empty event title")
	}
	if strings.TrimSpace(r.OutcomeName) == "" {
		return fmt.Errorf("empty outcome name")
	}
	if r.DecimalOdds <= 1.0 {
		return fmt.Errorf("decimal odds must be > 1.0, got %f", r.DecimalOdds)
	}
	return nil
}

// MarketListing groups the outcome records of a single market on a single
// platform. It is the unit the event matcher compares across platforms.
type MarketListing struct {
	Platform    Platform        `json:"platform"`
	EventTitle  string          `json:"event_title"`
	MarketLabel string          `json:"market_label"`
	URL         string          `json:"url,omitempty"`
	StartTime   time.Time       `json:"start_time"`
	Outcomes    []OutcomeRecord `json:"outcomes"`
}

// GroupListings collapses a flat record snapshot into per-market listings.
// Malformed records are dropped, not reported: a bad upstream row must never
// abort a scan. Output order is deterministic (sorted by title then label)
// so downstream tie-breaks are reproducible.
func GroupListings(records []OutcomeRecord) []MarketListing {
	byKey := make(map[string]*MarketListing)
	var keys []string

	for i := range records {
		rec := records[i]
		if rec.Validate() != nil {
			continue
		}

		key := string(rec.Platform) + "|" + rec.EventTitle + "|" + rec.MarketLabel
		listing, ok := byKey[key]
		if !ok {
			listing = &MarketListing{
				Platform:    rec.Platform,
				EventTitle:  rec.EventTitle,
				MarketLabel: rec.MarketLabel,
				URL:         rec.URL,
				StartTime:   rec.StartTime,
			}
			byKey[key] = listing
			keys = append(keys, key)
		}
		if listing.StartTime.IsZero() && !rec.StartTime.IsZero() {
			listing.StartTime = rec.StartTime
		}
		listing.Outcomes = append(listing.Outcomes, rec)
	}

	sort.Strings(keys)

	listings := make([]MarketListing, 0, len(keys))
	for _, key := range keys {
		listings = append(listings, *byKey[key])
	}
	return listings
}
