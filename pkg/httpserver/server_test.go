package httpserver

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/oddscan/crossbook-arb/internal/arbitrage"
	"github.com/oddscan/crossbook-arb/pkg/healthprobe"
	"github.com/oddscan/crossbook-arb/pkg/types"
)

type staticSource struct {
	opps []arbitrage.Opportunity
}

func (s *staticSource) Recent(limit int) []arbitrage.Opportunity {
	if limit > len(s.opps) {
		limit = len(s.opps)
	}
	return s.opps[:limit]
}

func newTestServer(t *testing.T, source OpportunitySource) *Server {
	t.Helper()
	hc := healthprobe.New()
	hc.SetReady(true)
	return New(&Config{
		Port:          "0",
		Logger:        zap.NewNop(),
		HealthChecker: hc,
		Opportunities: source,
	})
}

func sampleOpportunities(n int) []arbitrage.Opportunity {
	opps := make([]arbitrage.Opportunity, 0, n)
	for i := 0; i < n; i++ {
		opps = append(opps, arbitrage.Opportunity{
			ID:         "id-" + string(rune('a'+i)),
			Kind:       arbitrage.SignalArbitrage,
			EventTitle: "Lakers vs Warriors",
			LegA: types.OutcomeRecord{
				Platform: types.PlatformPolymarket, OutcomeName: "Lakers", DecimalOdds: 2.0,
			},
			LegB: types.OutcomeRecord{
				Platform: types.PlatformCloudbet, OutcomeName: "Warriors", DecimalOdds: 2.1,
			},
			ProfitPct:  2.44,
			DetectedAt: time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
		})
	}
	return opps
}

func TestProbesRouted(t *testing.T) {
	srv := newTestServer(t, nil)

	for _, path := range []string{"/health", "/ready", "/metrics"} {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("%s: status %d", path, rec.Code)
		}
	}
}

func TestOpportunitiesRouteOmittedWithoutSource(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/opportunities", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 when no source is wired", rec.Code)
	}
}

func TestOpportunitiesList(t *testing.T) {
	srv := newTestServer(t, &staticSource{opps: sampleOpportunities(3)})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/opportunities", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp struct {
		Count         int `json:"count"`
		Opportunities []struct {
			Kind      string  `json:"kind"`
			ProfitPct float64 `json:"profit_pct"`
			PlatformA string  `json:"platform_a"`
		} `json:"opportunities"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if resp.Count != 3 {
		t.Errorf("count = %d, want 3", resp.Count)
	}
	if resp.Opportunities[0].Kind != "arbitrage" || resp.Opportunities[0].PlatformA != "polymarket" {
		t.Errorf("unexpected first row: %+v", resp.Opportunities[0])
	}
}

func TestOpportunitiesListLimit(t *testing.T) {
	srv := newTestServer(t, &staticSource{opps: sampleOpportunities(5)})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/opportunities?limit=2", nil))

	var resp opportunitiesResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 2 {
		t.Errorf("count = %d, want 2", resp.Count)
	}

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/opportunities?limit=junk", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad limit: status = %d, want 400", rec.Code)
	}
}
