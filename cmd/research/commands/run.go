package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/vantage/backend/internal/contracts"
	"github.com/wonny/vantage/backend/internal/research"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a full research pipeline",
	Long: `Screens the tradable universe, scores every asset on
fundamentals, technicals, sentiment, and risk, then prints the
ranked report.

Example:
  go run ./cmd/research run
  go run ./cmd/research run --budget 1000 --risk aggressive --assets stocks,crypto
  go run ./cmd/research run --tickers AAPL,MSFT,SPY --output report.md`,
	RunE: runResearch,
}

var (
	runBudget  float64
	runRisk    string
	runAssets  []string
	runTickers []string
	runOutput  string
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Float64Var(&runBudget, "budget", research.DefaultBudget, "investment budget (USD)")
	runCmd.Flags().StringVar(&runRisk, "risk", "moderate", "risk preference (conservative|moderate|aggressive)")
	runCmd.Flags().StringSliceVar(&runAssets, "assets", []string{"stocks", "etfs"}, "asset classes (stocks,etfs,crypto)")
	runCmd.Flags().StringSliceVar(&runTickers, "tickers", nil, "restrict to specific tickers")
	runCmd.Flags().StringVar(&runOutput, "output", "", "write the markdown report to a file")
}

func runResearch(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Vantage Research Run ===")

	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pipeline := d.pipeline.WithProgress(func(p research.Progress) {
		fmt.Printf("  [%d/%d] %s: %s\n", p.Completed, p.Total, p.Stage, p.Message)
	})

	result, err := pipeline.Run(ctx, research.Request{
		AssetClasses:   runAssets,
		Budget:         runBudget,
		RiskPreference: contracts.ParseRiskPreference(runRisk),
		Tickers:        runTickers,
	})
	if err != nil {
		return fmt.Errorf("research run: %w", err)
	}

	fmt.Printf("\n✅ Analyzed %d assets in %s", result.UniverseSize-len(result.Dropped), result.Duration.Round(time.Millisecond))
	if len(result.Dropped) > 0 {
		fmt.Printf(" (%d dropped)", len(result.Dropped))
	}
	fmt.Println()

	if runOutput != "" {
		if err := os.WriteFile(runOutput, []byte(result.Report), 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Printf("📄 Report written to %s\n", runOutput)
		return nil
	}

	fmt.Println()
	fmt.Println(result.Report)
	return nil
}
