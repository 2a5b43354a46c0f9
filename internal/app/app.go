package app

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/oddscan/crossbook-arb/internal/scanner"
	"github.com/oddscan/crossbook-arb/internal/storage"
	"github.com/oddscan/crossbook-arb/pkg/cache"
	"github.com/oddscan/crossbook-arb/pkg/config"
	"github.com/oddscan/crossbook-arb/pkg/healthprobe"
	"github.com/oddscan/crossbook-arb/pkg/httpserver"
)

// App is the main application orchestrator.
type App struct {
	cfg           *config.Config
	logger        *zap.Logger
	healthChecker *healthprobe.HealthChecker
	httpServer    *httpserver.Server
	scanner       *scanner.Scanner
	storage       storage.Storage
	dedupCache    cache.Cache
	opts          *Options
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
}

// Options holds application options.
type Options struct {
	// Once runs a single scan pass and exits instead of looping.
	Once bool
}
