package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/vantage/backend/internal/scheduler"
	"github.com/wonny/vantage/backend/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Start the job scheduler",
	Long: `Starts the cron scheduler with the standing jobs:

  daily_research  - refresh research reports every weekday at 6 AM
  cache_warm      - warm the quote cache hourly during market hours

Example:
  go run ./cmd/research scheduler`,
	RunE: runScheduler,
}

func init() {
	rootCmd.AddCommand(schedulerCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Vantage Scheduler ===")

	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	sched := scheduler.New(d.log)

	if err := sched.AddJob(jobs.NewDailyResearchJob(d.pipeline, d.log)); err != nil {
		return fmt.Errorf("add daily research job: %w", err)
	}
	if err := sched.AddJob(jobs.NewCacheWarmJob(d.provider, d.log)); err != nil {
		return fmt.Errorf("add cache warm job: %w", err)
	}

	sched.Start()
	defer sched.Stop()

	fmt.Printf("✅ Scheduler running with jobs: %v\n", sched.Jobs())
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	return nil
}
