package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/vantage/backend/internal/marketdata"
	"github.com/wonny/vantage/backend/pkg/logger"
)

// CacheWarmJob refreshes quotes for the default universe every hour
// during market hours, keeping the Redis cache hot for API callers.
type CacheWarmJob struct {
	provider marketdata.QuoteProvider
	logger   *logger.Logger
}

// NewCacheWarmJob creates a new cache warm job
func NewCacheWarmJob(provider marketdata.QuoteProvider, log *logger.Logger) *CacheWarmJob {
	return &CacheWarmJob{
		provider: provider,
		logger:   log,
	}
}

// Name returns the job name
func (j *CacheWarmJob) Name() string {
	return "cache_warm"
}

// Schedule returns the cron schedule (hourly, 9 AM to 4 PM, weekdays)
func (j *CacheWarmJob) Schedule() string {
	return "0 0 9-16 * * 1-5"
}

// Run fetches a quote for every ticker in the default universe. The
// provider writes each one through to the cache.
func (j *CacheWarmJob) Run(ctx context.Context) error {
	universe := marketdata.Universe([]string{"stocks", "etfs"})

	var failed int
	for _, ticker := range universe {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := j.provider.Quote(ctx, ticker); err != nil {
			failed++
			j.logger.WithError(err).WithField("ticker", ticker).Debug("Quote warm failed")
		}
	}

	j.logger.WithFields(map[string]interface{}{
		"universe": len(universe),
		"failed":   failed,
	}).Info("Quote cache warmed")

	if failed == len(universe) {
		return fmt.Errorf("all %d quote fetches failed", failed)
	}
	return nil
}
