package polymarket

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/goccy/go-json"

	"github.com/oddscan/crossbook-arb/pkg/types"
)

func gammaPage(markets []map[string]any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(markets)
	}
}

func market(id, question string, outcomes, prices []string) map[string]any {
	rawOutcomes, _ := json.Marshal(outcomes)
	rawPrices, _ := json.Marshal(prices)
	return map[string]any{
		"id":            id,
		"question":      question,
		"outcomes":      string(rawOutcomes),
		"outcomePrices": string(rawPrices),
	}
}

func TestFetchConvertsPricesToDecimalOdds(t *testing.T) {
	srv := httptest.NewServer(gammaPage([]map[string]any{
		market("m1", "Lakers vs Warriors", []string{"Lakers", "Warriors"}, []string{"0.5", "0.52"}),
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	records, err := c.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].DecimalOdds != 2.0 {
		t.Errorf("odds = %f, want 2.0 for price 0.5", records[0].DecimalOdds)
	}
	if records[0].Platform != types.PlatformPolymarket {
		t.Errorf("platform = %s", records[0].Platform)
	}
	if records[0].EventTitle != "Lakers vs Warriors" {
		t.Errorf("title = %q", records[0].EventTitle)
	}
	if records[0].URL != "https://polymarket.com/event/m1" {
		t.Errorf("url = %q", records[0].URL)
	}
}

func TestFetchDropsUnusableMarkets(t *testing.T) {
	srv := httptest.NewServer(gammaPage([]map[string]any{
		// Degenerate prices leave fewer than two priced outcomes.
		market("m1", "Settled market", []string{"Yes", "No"}, []string{"1", "0"}),
		// Missing identity.
		market("", "No identity", []string{"Yes", "No"}, []string{"0.5", "0.5"}),
		// Shape mismatch.
		market("m3", "Mismatched", []string{"Yes", "No"}, []string{"0.5"}),
		// Usable.
		market("m4", "Good market", []string{"Yes", "No"}, []string{"0.4", "0.65"}),
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	records, err := c.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("expected only the usable market's records, got %d", len(records))
	}
	for _, rec := range records {
		if rec.EventTitle != "Good market" {
			t.Errorf("unexpected record from %q", rec.EventTitle)
		}
	}
}

func TestFetchTitleFallbacks(t *testing.T) {
	m := market("m1", "", []string{"Yes", "No"}, []string{"0.5", "0.5"})
	m["title"] = "Fallback title"

	srv := httptest.NewServer(gammaPage([]map[string]any{m}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	records, err := c.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(records) != 2 || records[0].EventTitle != "Fallback title" {
		t.Fatalf("expected fallback title resolution, got %+v", records)
	}
}

func TestFetchPaginates(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

		var page []map[string]any
		if offset == 0 {
			for i := 0; i < maxPageSize; i++ {
				page = append(page, market(
					fmt.Sprintf("m%d", i),
					fmt.Sprintf("Market %d", i),
					[]string{"Yes", "No"}, []string{"0.5", "0.5"}))
			}
		} else {
			page = append(page, market("last", "Last market", []string{"Yes", "No"}, []string{"0.5", "0.5"}))
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(page)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	records, err := c.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if requests != 2 {
		t.Errorf("expected 2 page requests, got %d", requests)
	}
	if len(records) != (maxPageSize+1)*2 {
		t.Errorf("expected %d records, got %d", (maxPageSize+1)*2, len(records))
	}
}

func TestFetchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broken", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, RetryCount: 1})
	if _, err := c.Fetch(context.Background()); err == nil {
		t.Fatal("expected error on persistent 502")
	}
}
