package storage

import (
	"context"

	"github.com/oddscan/crossbook-arb/internal/arbitrage"
)

// Storage persists detected opportunities and answers dedup queries.
type Storage interface {
	// StoreOpportunity persists one detected opportunity.
	StoreOpportunity(ctx context.Context, opp *arbitrage.Opportunity) error

	// WasSeen reports whether an opportunity with this dedup key has already
	// been stored. It backs alert deduplication across restarts.
	WasSeen(ctx context.Context, dedupKey string) (bool, error)

	// Close closes the storage connection.
	Close() error
}
