package storage

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"go.uber.org/zap"

	"github.com/oddscan/crossbook-arb/internal/arbitrage"
	"github.com/oddscan/crossbook-arb/pkg/types"
)

func testOpportunity() *arbitrage.Opportunity {
	return &arbitrage.Opportunity{
		ID:         "7b0d3c6e-0000-4000-8000-000000000001",
		Kind:       arbitrage.SignalArbitrage,
		EventTitle: "Lakers vs Warriors",
		LegA: types.OutcomeRecord{
			Platform:    types.PlatformPolymarket,
			OutcomeName: "Lakers",
			DecimalOdds: 2.0,
		},
		LegB: types.OutcomeRecord{
			Platform:    types.PlatformCloudbet,
			OutcomeName: "Golden State Warriors",
			DecimalOdds: 2.1,
		},
		ProfitPct: 2.44,
		Stakes: &arbitrage.StakePlan{
			StakeA:           2560.98,
			StakeB:           2439.02,
			GuaranteedProfit: 121.95,
		},
		Similarity: 95,
		DetectedAt: time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestPostgresStoreOpportunity(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	s := &PostgresStorage{db: db, logger: zap.NewNop()}
	opp := testOpportunity()

	mock.ExpectExec("INSERT INTO opportunities").
		WithArgs(
			opp.ID, opp.DedupKey(), "arbitrage", opp.EventTitle, "", opp.StartTime,
			"polymarket", "Lakers", 2.0, "",
			"cloudbet", "Golden State Warriors", 2.1, "",
			2.44, 0.0, "",
			2560.98, 2439.02, 121.95,
			95.0, opp.DetectedAt,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := s.StoreOpportunity(context.Background(), opp); err != nil {
		t.Fatalf("StoreOpportunity: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresStoreOpportunityWithoutStakePlan(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	s := &PostgresStorage{db: db, logger: zap.NewNop()}
	opp := testOpportunity()
	opp.Stakes = nil

	mock.ExpectExec("INSERT INTO opportunities").
		WithArgs(
			opp.ID, opp.DedupKey(), "arbitrage", opp.EventTitle, "", opp.StartTime,
			"polymarket", "Lakers", 2.0, "",
			"cloudbet", "Golden State Warriors", 2.1, "",
			2.44, 0.0, "",
			0.0, 0.0, 0.0,
			95.0, opp.DetectedAt,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := s.StoreOpportunity(context.Background(), opp); err != nil {
		t.Fatalf("StoreOpportunity: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresWasSeen(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	s := &PostgresStorage{db: db, logger: zap.NewNop()}

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("some-key").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	seen, err := s.WasSeen(context.Background(), "some-key")
	if err != nil {
		t.Fatalf("WasSeen: %v", err)
	}
	if !seen {
		t.Error("expected seen=true")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestConsoleStorageDedup(t *testing.T) {
	s := NewConsoleStorage(zap.NewNop())
	opp := testOpportunity()
	ctx := context.Background()

	seen, err := s.WasSeen(ctx, opp.DedupKey())
	if err != nil {
		t.Fatalf("WasSeen: %v", err)
	}
	if seen {
		t.Error("fresh storage must not report the key as seen")
	}

	if err := s.StoreOpportunity(ctx, opp); err != nil {
		t.Fatalf("StoreOpportunity: %v", err)
	}

	seen, err = s.WasSeen(ctx, opp.DedupKey())
	if err != nil {
		t.Fatalf("WasSeen: %v", err)
	}
	if !seen {
		t.Error("stored key must be reported as seen")
	}

	if err := s.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
