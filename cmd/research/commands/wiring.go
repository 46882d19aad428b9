package commands

import (
	"fmt"

	"github.com/wonny/vantage/backend/internal/backtest"
	"github.com/wonny/vantage/backend/internal/marketdata"
	"github.com/wonny/vantage/backend/internal/report"
	"github.com/wonny/vantage/backend/internal/research"
	"github.com/wonny/vantage/backend/pkg/config"
	"github.com/wonny/vantage/backend/pkg/database"
	"github.com/wonny/vantage/backend/pkg/logger"
	"github.com/wonny/vantage/backend/pkg/redis"
)

// deps holds everything a command needs, wired once.
type deps struct {
	cfg      *config.Config
	log      *logger.Logger
	db       *database.DB // nil when no database is configured
	redis    *redis.Client
	provider *marketdata.YahooClient
	pipeline *research.Pipeline

	backtests *backtest.Repository // nil without a database
	reports   *report.Repository   // nil without a database
}

// initDeps loads config and builds the shared dependency graph.
// The database is optional: research and backtesting work without
// persistence.
func initDeps() (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)

	redisClient, err := redis.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	cache := redis.NewCache(redisClient, "vantage")

	fallback := marketdata.NewScrapeFallback(cfg, log)
	provider := marketdata.NewYahooClient(cfg, log, cache, fallback)

	d := &deps{
		cfg:      cfg,
		log:      log,
		redis:    redisClient,
		provider: provider,
	}

	if cfg.HasDatabase() {
		db, err := database.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		d.db = db
		d.backtests = backtest.NewRepository(db.Pool)
		d.reports = report.NewRepository(db.Pool)
		log.Info("Connected to database")
	} else {
		log.Warn("No database configured, persistence disabled")
	}

	d.pipeline = research.New(provider, d.reports, cfg, log)
	return d, nil
}

// Close releases pooled resources.
func (d *deps) Close() {
	if d.db != nil {
		d.db.Close()
	}
	if d.redis != nil {
		d.redis.Close()
	}
}
