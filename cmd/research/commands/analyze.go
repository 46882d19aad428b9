package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/vantage/backend/internal/analyst"
	"github.com/wonny/vantage/backend/internal/signal"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [ticker]",
	Short: "Run signal analysis on a single ticker",
	Long: `Runs every signal generator over a ticker's price history and
prints the per-strategy signals and the consensus.

Example:
  go run ./cmd/research analyze AAPL
  go run ./cmd/research analyze BTC-USD --period 6mo`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

var analyzePeriod string

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzePeriod, "period", "1y", "history range (e.g. 6mo, 1y, 2y)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ticker := args[0]

	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	series, err := d.provider.History(ctx, ticker, analyzePeriod, "1d")
	if err != nil {
		return fmt.Errorf("fetch history: %w", err)
	}

	signals, consensus := signal.Analyze(series)

	fmt.Printf("=== %s (%d bars, last close $%.2f) ===\n\n", ticker, series.Len(), series.LastClose())
	for _, sig := range signals {
		fmt.Printf("  %-14s %-4s strength %.2f  %s\n", sig.Name, sig.Action, sig.Strength, sig.Rationale)
	}

	fmt.Printf("\n🎯 Consensus: %s (strength %.2f)\n", consensus.Action, consensus.Strength)
	fmt.Printf("   %s\n", consensus.Rationale)

	if metrics, ok := analyst.CalculateReturns(series.Closes()); ok {
		fmt.Printf("\n📈 Total Return: %+.2f%%  Volatility: %.2f%%  Sharpe: %.2f  MaxDD: %.2f%%\n",
			metrics.TotalReturn*100, metrics.Volatility*100, metrics.Sharpe, metrics.MaxDrawdown*100)
	}

	return nil
}
