// Package jobs holds the concrete scheduled jobs.
package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/vantage/backend/internal/contracts"
	"github.com/wonny/vantage/backend/internal/research"
	"github.com/wonny/vantage/backend/pkg/logger"
)

// DailyResearchJob refreshes the research report every weekday
// morning so the first API caller gets a persisted, current report.
type DailyResearchJob struct {
	pipeline *research.Pipeline
	logger   *logger.Logger
}

// NewDailyResearchJob creates a new daily research job
func NewDailyResearchJob(pipeline *research.Pipeline, log *logger.Logger) *DailyResearchJob {
	return &DailyResearchJob{
		pipeline: pipeline,
		logger:   log,
	}
}

// Name returns the job name
func (j *DailyResearchJob) Name() string {
	return "daily_research"
}

// Schedule returns the cron schedule (6 AM on weekdays, pre-market)
func (j *DailyResearchJob) Schedule() string {
	return "0 0 6 * * 1-5"
}

// Run executes one research refresh per risk profile
func (j *DailyResearchJob) Run(ctx context.Context) error {
	prefs := []contracts.RiskPreference{
		contracts.RiskConservative,
		contracts.RiskModerate,
		contracts.RiskAggressive,
	}

	for _, pref := range prefs {
		result, err := j.pipeline.Run(ctx, research.Request{
			AssetClasses:   []string{"stocks", "etfs"},
			RiskPreference: pref,
		})
		if err != nil {
			return fmt.Errorf("research run for %s: %w", pref, err)
		}

		j.logger.WithFields(map[string]interface{}{
			"risk_preference": pref,
			"picks":           len(result.Picks),
			"dropped":         len(result.Dropped),
		}).Info("Scheduled research refresh complete")
	}

	return nil
}
