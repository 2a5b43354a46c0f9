package httpserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/oddscan/crossbook-arb/internal/arbitrage"
)

const defaultListLimit = 50

// OpportunitySource supplies recently detected opportunities, newest first.
type OpportunitySource interface {
	Recent(limit int) []arbitrage.Opportunity
}

// OpportunitiesHandler serves the recent-opportunities API.
type OpportunitiesHandler struct {
	source OpportunitySource
	logger *zap.Logger
}

// NewOpportunitiesHandler creates the handler.
func NewOpportunitiesHandler(source OpportunitySource, logger *zap.Logger) *OpportunitiesHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OpportunitiesHandler{source: source, logger: logger}
}

type opportunityView struct {
	ID         string  `json:"id"`
	Kind       string  `json:"kind"`
	EventTitle string  `json:"event_title"`
	PlatformA  string  `json:"platform_a"`
	OutcomeA   string  `json:"outcome_a"`
	OddsA      float64 `json:"odds_a"`
	PlatformB  string  `json:"platform_b"`
	OutcomeB   string  `json:"outcome_b"`
	OddsB      float64 `json:"odds_b"`
	ProfitPct  float64 `json:"profit_pct,omitempty"`
	EdgePct    float64 `json:"edge_pct,omitempty"`
	Favored    string  `json:"favored,omitempty"`
	StakeA     float64 `json:"stake_a,omitempty"`
	StakeB     float64 `json:"stake_b,omitempty"`
	DetectedAt string  `json:"detected_at"`
}

type opportunitiesResponse struct {
	Count         int               `json:"count"`
	Opportunities []opportunityView `json:"opportunities"`
}

// HandleList serves GET /api/opportunities?limit=N.
func (h *OpportunitiesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	opps := h.source.Recent(limit)
	views := make([]opportunityView, 0, len(opps))
	for i := range opps {
		opp := &opps[i]
		view := opportunityView{
			ID:         opp.ID,
			Kind:       string(opp.Kind),
			EventTitle: opp.EventTitle,
			PlatformA:  string(opp.LegA.Platform),
			OutcomeA:   opp.LegA.OutcomeName,
			OddsA:      opp.LegA.DecimalOdds,
			PlatformB:  string(opp.LegB.Platform),
			OutcomeB:   opp.LegB.OutcomeName,
			OddsB:      opp.LegB.DecimalOdds,
			ProfitPct:  opp.ProfitPct,
			EdgePct:    opp.EdgePct,
			Favored:    string(opp.Favored),
			DetectedAt: opp.DetectedAt.Format(time.RFC3339),
		}
		if opp.Stakes != nil {
			view.StakeA = opp.Stakes.StakeA
			view.StakeB = opp.Stakes.StakeB
		}
		views = append(views, view)
	}

	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(opportunitiesResponse{
		Count:         len(views),
		Opportunities: views,
	})
	if err != nil {
		h.logger.Error("encode-opportunities-response", zap.Error(err))
	}
}
