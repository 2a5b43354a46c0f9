package cmd

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/oddscan/crossbook-arb/internal/app"
	"github.com/oddscan/crossbook-arb/pkg/config"
)

//nolint:gochecknoglobals // Cobra boilerplate
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run a single scan pass and exit",
	Long: `Runs one detection pass against both platforms and exits. Useful for
cron-style scheduling and for verifying credentials and thresholds.

Set USE_MOCK_DATA=true to run against the embedded snapshots instead of
the live APIs.`,
	RunE: runOnce,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(scanCmd)
}

func runOnce(cmd *cobra.Command, args []string) error {
	// Load .env
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: .env file not found\n")
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := config.NewLogger()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	application, err := app.New(cfg, logger, &app.Options{Once: true})
	if err != nil {
		return fmt.Errorf("create app: %w", err)
	}

	err = application.Run()
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}

	return nil
}
