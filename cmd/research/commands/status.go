package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check configuration and connectivity",
	Long: `Prints the effective configuration and pings the configured
backing services.

Example:
  go run ./cmd/research status`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Vantage Status ===")

	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	fmt.Printf("\nEnvironment:    %s\n", d.cfg.Env)
	fmt.Printf("Port:           %s\n", d.cfg.Port)
	fmt.Printf("Fetch Workers:  %d\n", d.cfg.Pipeline.FetchWorkers)
	fmt.Printf("Max Universe:   %d\n", d.cfg.Pipeline.MaxUniverse)

	if d.db != nil {
		if err := d.db.Ping(ctx); err != nil {
			fmt.Printf("Database:       ❌ %v\n", err)
		} else {
			fmt.Println("Database:       ✅ connected")
		}
	} else {
		fmt.Println("Database:       not configured")
	}

	if d.redis.Enabled() {
		fmt.Println("Redis cache:    ✅ enabled")
	} else {
		fmt.Println("Redis cache:    disabled")
	}

	return nil
}
