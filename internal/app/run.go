package app

import (
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Run starts the application and blocks until shutdown.
func (a *App) Run() error {
	if a.opts.Once {
		return a.RunOnce()
	}

	a.logger.Info("application-starting",
		zap.Duration("scan-interval", a.cfg.ScanInterval),
		zap.String("storage-mode", a.cfg.StorageMode),
		zap.String("log-level", a.cfg.LogLevel))

	// Start HTTP server
	a.wg.Add(1)
	go a.runHTTPServer()

	// Give HTTP server a moment to start
	time.Sleep(100 * time.Millisecond)

	// Start the scan loop
	a.wg.Add(1)
	go a.runScanLoop()

	a.logger.Info("application-ready",
		zap.String("http-addr", ":"+a.cfg.HTTPPort))

	// Wait for shutdown signal
	return a.waitForShutdown()
}

// RunOnce executes a single scan pass and shuts down. It backs the one-shot
// CLI command.
func (a *App) RunOnce() error {
	_, err := a.scanner.Scan(a.ctx)
	if shutdownErr := a.Shutdown(); shutdownErr != nil {
		a.logger.Error("shutdown-error", zap.Error(shutdownErr))
	}
	return err
}

func (a *App) runHTTPServer() {
	defer a.wg.Done()
	err := a.httpServer.Start()
	if err != nil {
		a.logger.Error("http-server-error", zap.Error(err))
	}
}

// runScanLoop runs the first pass immediately, then on every tick. Readiness
// flips only after a pass completes, so the probe reflects real data flow.
func (a *App) runScanLoop() {
	defer a.wg.Done()

	a.scanOnce()

	ticker := time.NewTicker(a.cfg.ScanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-a.ctx.Done():
			return
		case <-ticker.C:
			a.scanOnce()
		}
	}
}

func (a *App) scanOnce() {
	_, err := a.scanner.Scan(a.ctx)
	if err != nil {
		if errors.Is(err, a.ctx.Err()) {
			return
		}
		a.logger.Error("scan-failed", zap.Error(err))
		return
	}
	a.healthChecker.SetReady(true)
}

func (a *App) waitForShutdown() error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		a.logger.Info("shutdown-signal-received", zap.String("signal", sig.String()))
	case <-a.ctx.Done():
		a.logger.Info("context-cancelled")
	}

	return a.Shutdown()
}
