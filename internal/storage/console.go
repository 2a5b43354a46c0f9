package storage

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/oddscan/crossbook-arb/internal/arbitrage"
)

// ConsoleStorage implements Storage by pretty-printing to the console. Dedup
// keys are tracked in memory only, so they reset on restart.
type ConsoleStorage struct {
	logger *zap.Logger

	mu   sync.Mutex
	seen map[string]struct{}
}

// NewConsoleStorage creates a console storage.
func NewConsoleStorage(logger *zap.Logger) *ConsoleStorage {
	logger.Info("console-storage-initialized")
	return &ConsoleStorage{
		logger: logger,
		seen:   make(map[string]struct{}),
	}
}

// StoreOpportunity pretty-prints one opportunity and records its dedup key.
func (c *ConsoleStorage) StoreOpportunity(_ context.Context, opp *arbitrage.Opportunity) error {
	rule := strings.Repeat("━", 72)

	fmt.Println("\n" + rule)
	switch opp.Kind {
	case arbitrage.SignalArbitrage:
		fmt.Printf("ARBITRAGE OPPORTUNITY (%.2f%%)\n", opp.ProfitPct)
	default:
		fmt.Printf("VALUE OPPORTUNITY (%.2f%% edge, favoring %s)\n", opp.EdgePct, opp.Favored)
	}
	fmt.Println(rule)
	fmt.Printf("ID:       %s\n", opp.ID)
	fmt.Printf("Event:    %s\n", opp.EventTitle)
	fmt.Printf("Detected: %s\n", opp.DetectedAt.Format("2006-01-02 15:04:05"))
	fmt.Println(rule)
	fmt.Printf("  %-12s %s @ %.2f\n", opp.LegA.Platform+":", opp.LegA.OutcomeName, opp.LegA.DecimalOdds)
	fmt.Printf("  %-12s %s @ %.2f\n", opp.LegB.Platform+":", opp.LegB.OutcomeName, opp.LegB.DecimalOdds)
	if opp.Stakes != nil {
		fmt.Println(rule)
		fmt.Printf("  Stakes:            $%.2f / $%.2f\n", opp.Stakes.StakeA, opp.Stakes.StakeB)
		fmt.Printf("  Guaranteed Profit: $%.2f\n", opp.Stakes.GuaranteedProfit)
	}
	fmt.Println(rule)

	c.mu.Lock()
	c.seen[opp.DedupKey()] = struct{}{}
	c.mu.Unlock()

	return nil
}

// WasSeen checks the in-memory dedup set.
func (c *ConsoleStorage) WasSeen(_ context.Context, dedupKey string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.seen[dedupKey]
	return ok, nil
}

// Close is a no-op for console storage.
func (c *ConsoleStorage) Close() error {
	c.logger.Info("closing-console-storage")
	return nil
}
