package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/vantage/backend/internal/api"
	"github.com/wonny/vantage/backend/internal/api/handlers"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the REST API server",
	Long: `Starts the HTTP API server.

Endpoints:
  GET  /health                       - Health check
  POST /api/v1/research              - Run a research pipeline
  GET  /api/v1/research/stream       - Run research over a websocket
  POST /api/v1/backtest              - Run a backtest
  GET  /api/v1/backtest/strategies   - List strategies
  GET  /api/v1/backtest/{ticker}     - Saved backtest runs
  GET  /api/v1/analyze/{ticker}      - Signal analysis

Example:
  go run ./cmd/research api
  go run ./cmd/research api --port 8080`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (default from config)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Vantage Research API Server ===")

	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	if apiPort != "" {
		d.cfg.Port = apiPort
	}

	researchHandler := handlers.NewResearchHandler(d.pipeline, d.log)
	backtestHandler := handlers.NewBacktestHandler(d.provider, d.backtests, d.log)
	analyzeHandler := handlers.NewAnalyzeHandler(d.provider, d.log)

	router := api.NewRouter(researchHandler, backtestHandler, analyzeHandler, d.log)
	server := api.New(d.cfg, d.log, router)

	go func() {
		if err := server.Start(); err != nil {
			d.log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("\n✅ Server running on http://localhost:%s\n", d.cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	d.log.Info("Server stopped")
	return nil
}
