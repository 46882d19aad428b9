package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "research",
	Short: "Vantage - quantitative investment research engine",
	Long: `Vantage Research CLI

Signal generation, backtesting, and multi-factor ranking over a
retail universe of stocks, ETFs, and crypto.

Usage:
  go run ./cmd/research [command]

Examples:
  go run ./cmd/research api
  go run ./cmd/research run --budget 1000 --risk moderate
  go run ./cmd/research backtest --ticker AAPL --strategy sma_crossover
  go run ./cmd/research analyze AAPL`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
