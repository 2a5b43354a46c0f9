package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/oddscan/crossbook-arb/internal/arbitrage"
)

// PostgresStorage implements Storage using PostgreSQL.
type PostgresStorage struct {
	db     *sql.DB
	logger *zap.Logger
}

// PostgresConfig holds PostgreSQL configuration.
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
	Logger   *zap.Logger
}

// NewPostgresStorage connects to PostgreSQL and verifies the connection.
func NewPostgresStorage(cfg *PostgresConfig) (*PostgresStorage, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	err = db.Ping()
	if err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	cfg.Logger.Info("postgres-storage-connected",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Database))

	return &PostgresStorage{db: db, logger: cfg.Logger}, nil
}

// StoreOpportunity inserts one opportunity row.
func (p *PostgresStorage) StoreOpportunity(ctx context.Context, opp *arbitrage.Opportunity) error {
	var stakeA, stakeB, guaranteed float64
	if opp.Stakes != nil {
		stakeA = opp.Stakes.StakeA
		stakeB = opp.Stakes.StakeB
		guaranteed = opp.Stakes.GuaranteedProfit
	}

	query := `
		INSERT INTO opportunities (
			id, dedup_key, kind, event_title, sport, start_time,
			platform_a, outcome_a, odds_a, url_a,
			platform_b, outcome_b, odds_b, url_b,
			profit_pct, edge_pct, favored,
			stake_a, stake_b, guaranteed_profit,
			similarity, detected_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
			$12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22
		)
	`

	_, err := p.db.ExecContext(ctx, query,
		opp.ID,
		opp.DedupKey(),
		string(opp.Kind),
		opp.EventTitle,
		string(opp.Sport),
		opp.StartTime,
		string(opp.LegA.Platform),
		opp.LegA.OutcomeName,
		opp.LegA.DecimalOdds,
		opp.LegA.URL,
		string(opp.LegB.Platform),
		opp.LegB.OutcomeName,
		opp.LegB.DecimalOdds,
		opp.LegB.URL,
		opp.ProfitPct,
		opp.EdgePct,
		string(opp.Favored),
		stakeA,
		stakeB,
		guaranteed,
		opp.Similarity,
		opp.DetectedAt,
	)
	if err != nil {
		return fmt.Errorf("insert opportunity: %w", err)
	}

	p.logger.Debug("opportunity-stored",
		zap.String("opportunity-id", opp.ID),
		zap.String("kind", string(opp.Kind)),
		zap.String("event", opp.EventTitle))

	return nil
}

// WasSeen checks the dedup key against previously stored rows.
func (p *PostgresStorage) WasSeen(ctx context.Context, dedupKey string) (bool, error) {
	var seen bool
	query := `SELECT EXISTS(SELECT 1 FROM opportunities WHERE dedup_key = $1)`
	err := p.db.QueryRowContext(ctx, query, dedupKey).Scan(&seen)
	if err != nil {
		return false, fmt.Errorf("query dedup key: %w", err)
	}
	return seen, nil
}

// Close closes the database connection.
func (p *PostgresStorage) Close() error {
	p.logger.Info("closing-postgres-storage")
	return p.db.Close()
}
