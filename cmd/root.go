package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "crossbook-arb",
	Short: "Cross-platform odds arbitrage scanner",
	Long: `Cross-platform arbitrage scanner comparing prediction-market prices
against sportsbook odds.

The scanner polls the Polymarket Gamma API and the Cloudbet Feed API,
matches listings that denote the same real-world event, and reports
arbitrage opportunities (total implied probability < 1.0) and value
discrepancies on the same outcome.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
