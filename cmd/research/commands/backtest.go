package commands

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/vantage/backend/internal/backtest"
)

// backtestCmd represents the backtest command
var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run a trading strategy backtest",
	Long: `Simulates a single-asset, long-only strategy over historical
prices and prints the performance metrics.

Example:
  go run ./cmd/research backtest --ticker AAPL --strategy sma_crossover
  go run ./cmd/research backtest --ticker BTC-USD --strategy momentum --period 2y
  go run ./cmd/research backtest --list`,
	RunE: runBacktestCmd,
}

var (
	backtestTicker   string
	backtestStrategy string
	backtestPeriod   string
	backtestCapital  float64
	backtestList     bool
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().StringVar(&backtestTicker, "ticker", "", "ticker to backtest")
	backtestCmd.Flags().StringVar(&backtestStrategy, "strategy", "buy_and_hold", "strategy id")
	backtestCmd.Flags().StringVar(&backtestPeriod, "period", "1y", "history range (e.g. 6mo, 1y, 2y)")
	backtestCmd.Flags().Float64Var(&backtestCapital, "capital", backtest.DefaultInitialCapital, "initial capital (USD)")
	backtestCmd.Flags().BoolVar(&backtestList, "list", false, "list available strategies")
}

func runBacktestCmd(cmd *cobra.Command, args []string) error {
	if backtestList {
		strategies := backtest.Strategies()
		ids := make([]string, 0, len(strategies))
		for id := range strategies {
			ids = append(ids, string(id))
		}
		sort.Strings(ids)

		fmt.Println("Available strategies:")
		for _, id := range ids {
			fmt.Printf("  %-16s %s\n", id, strategies[backtest.Strategy(id)])
		}
		return nil
	}

	if backtestTicker == "" {
		return fmt.Errorf("--ticker is required")
	}

	fmt.Println("=== Vantage Backtest ===")

	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	series, err := d.provider.History(ctx, backtestTicker, backtestPeriod, "1d")
	if err != nil {
		return fmt.Errorf("fetch history: %w", err)
	}

	strategy := backtest.ParseStrategy(backtestStrategy)
	result, err := backtest.Run(series, strategy, backtestCapital)
	if err != nil {
		return fmt.Errorf("backtest: %w", err)
	}

	if d.backtests != nil {
		if id, err := d.backtests.Save(ctx, result); err != nil {
			d.log.WithError(err).Warn("Backtest save failed")
		} else {
			fmt.Printf("💾 Saved as run #%d\n", id)
		}
	}

	fmt.Printf("\n📊 %s / %s (%s ~ %s, %d bars)\n",
		result.Ticker, result.Strategy,
		result.StartDate.Format("2006-01-02"), result.EndDate.Format("2006-01-02"),
		series.Len())
	fmt.Printf("  Initial Capital:   $%.2f\n", result.InitialCapital)
	fmt.Printf("  Final Value:       $%.2f\n", result.FinalValue)
	fmt.Printf("  Total Return:      %+.2f%%\n", result.TotalReturn*100)
	fmt.Printf("  Annualized Return: %+.2f%%\n", result.AnnualizedReturn*100)
	fmt.Printf("  Sharpe Ratio:      %.2f\n", result.Sharpe)
	fmt.Printf("  Sortino Ratio:     %.2f\n", result.Sortino)
	fmt.Printf("  Max Drawdown:      %.2f%%\n", result.MaxDrawdown*100)
	fmt.Printf("  Volatility:        %.2f%%\n", result.Volatility*100)
	fmt.Printf("  Win Rate:          %.1f%%\n", result.WinRate*100)
	fmt.Printf("  Trades:            %d\n", result.TradeCount)

	return nil
}
