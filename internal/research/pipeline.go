package research

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/vantage/backend/internal/analyst"
	"github.com/wonny/vantage/backend/internal/contracts"
	"github.com/wonny/vantage/backend/internal/marketdata"
	"github.com/wonny/vantage/backend/internal/ranking"
	"github.com/wonny/vantage/backend/internal/report"
	"github.com/wonny/vantage/backend/internal/signal"
	"github.com/wonny/vantage/backend/pkg/config"
	"github.com/wonny/vantage/backend/pkg/logger"
)

// Stage names, in execution order.
const (
	StageUniverse    = "universe"
	StageFetch       = "fetch"
	StageFundamental = "fundamental"
	StageTechnical   = "technical"
	StageSentiment   = "sentiment"
	StageRisk        = "risk"
	StageRank        = "rank"
	StageReport      = "report"
)

const totalStages = 8

// DefaultBudget is used when the request carries no budget.
const DefaultBudget = 500

// Pipeline wires the research stages together.
//
// ⭐ SSOT: this is the only place the stage order is defined. Every
// entry point (API, CLI, scheduler) runs research through here.
type Pipeline struct {
	provider marketdata.Provider
	reports  *report.Repository
	cfg      *config.Config
	logger   *logger.Logger
	progress ProgressFunc
}

// New creates a pipeline. reports may be nil to skip persistence.
func New(provider marketdata.Provider, reports *report.Repository, cfg *config.Config, log *logger.Logger) *Pipeline {
	return &Pipeline{
		provider: provider,
		reports:  reports,
		cfg:      cfg,
		logger:   log,
	}
}

// WithProgress returns a shallow copy that emits progress events to
// fn. The receiver is not modified, so one pipeline can serve
// concurrent runs with different observers.
func (p *Pipeline) WithProgress(fn ProgressFunc) *Pipeline {
	clone := *p
	clone.progress = fn
	return &clone
}

// Run executes the full pipeline for one request.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	started := time.Now()
	req = normalize(req)

	p.logger.WithFields(map[string]interface{}{
		"asset_classes":   req.AssetClasses,
		"budget":          req.Budget,
		"risk_preference": req.RiskPreference,
	}).Info("research run started")

	state := State{
		Request:     req,
		GeneratedAt: started.UTC(),
	}

	state, err := p.runUniverse(ctx, state)
	if err != nil {
		return nil, fmt.Errorf("universe stage failed: %w", err)
	}

	state, err = p.runFetch(ctx, state)
	if err != nil {
		return nil, fmt.Errorf("fetch stage failed: %w", err)
	}

	state = p.runFundamental(state)
	state = p.runTechnical(state)
	state = p.runSentiment(state)
	state = p.runRisk(state)
	state = p.runRank(state)

	state, err = p.runReport(ctx, state)
	if err != nil {
		return nil, fmt.Errorf("report stage failed: %w", err)
	}

	duration := time.Since(started)
	p.logger.WithFields(map[string]interface{}{
		"universe": len(state.Universe),
		"analyzed": len(state.Data),
		"picks":    len(state.Picks),
		"duration": duration.String(),
	}).Info("research run complete")

	return &Result{
		GeneratedAt:    state.GeneratedAt,
		RiskPreference: req.RiskPreference,
		Budget:         req.Budget,
		UniverseSize:   len(state.Universe),
		Dropped:        state.Dropped,
		Picks:          state.Picks,
		Allocations:    state.Allocations,
		Report:         state.Report,
		Duration:       duration,
	}, nil
}

func normalize(req Request) Request {
	if len(req.AssetClasses) == 0 {
		req.AssetClasses = []string{"stocks", "etfs"}
	}
	if req.Budget <= 0 {
		req.Budget = DefaultBudget
	}
	req.RiskPreference = contracts.ParseRiskPreference(string(req.RiskPreference))
	return req
}

func (p *Pipeline) emit(stage string, completed int, format string, args ...interface{}) {
	if p.progress == nil {
		return
	}
	p.progress(Progress{
		Stage:     stage,
		Message:   fmt.Sprintf(format, args...),
		Completed: completed,
		Total:     totalStages,
	})
}

func (p *Pipeline) runUniverse(ctx context.Context, state State) (State, error) {
	if err := ctx.Err(); err != nil {
		return state, err
	}

	universe := marketdata.Universe(state.Request.AssetClasses)
	universe = marketdata.FilterUniverse(universe, state.Request.Tickers)
	if len(universe) == 0 {
		// An empty universe is not an error; the run yields an empty
		// result set.
		p.logger.WithField("asset_classes", state.Request.AssetClasses).Warn("no tradable tickers")
	}
	if max := p.cfg.Pipeline.MaxUniverse; max > 0 && len(universe) > max {
		universe = universe[:max]
	}

	state.Universe = universe
	p.emit(StageUniverse, 1, "screening %d assets", len(universe))
	return state, nil
}

// active returns the tickers that survived fetching, in universe
// order. Universe order is what makes equal-score ranking ties
// deterministic.
func (s *State) active() []string {
	out := make([]string, 0, len(s.Data))
	for _, ticker := range s.Universe {
		if _, ok := s.Data[ticker]; ok {
			out = append(out, ticker)
		}
	}
	return out
}

func (p *Pipeline) runTechnical(state State) State {
	state.Signals = make(map[string][]contracts.Signal, len(state.Data))
	state.Consensus = make(map[string]contracts.ConsensusSignal, len(state.Data))
	state.Metrics = make(map[string]analyst.ReturnMetrics, len(state.Data))

	for _, ticker := range state.active() {
		data := state.Data[ticker]

		signals, consensus := signal.Analyze(data.History)
		metrics, _ := analyst.CalculateReturns(data.History.Closes())

		state.Signals[ticker] = signals
		state.Consensus[ticker] = consensus
		state.Metrics[ticker] = metrics

		scores := state.Scores[ticker]
		scores.Technical = analyst.Technical(consensus, metrics)
		state.Scores[ticker] = scores
	}

	p.emit(StageTechnical, 4, "technical signals for %d assets", len(state.Data))
	return state
}

func (p *Pipeline) runFundamental(state State) State {
	state.Scores = make(map[string]contracts.ScoreSet, len(state.Data))
	for _, ticker := range state.active() {
		data := state.Data[ticker]

		scores := state.Scores[ticker]
		scores.Fundamental = analyst.Fundamental(*data.Fundamentals)
		state.Scores[ticker] = scores
	}

	p.emit(StageFundamental, 3, "fundamental scores for %d assets", len(state.Data))
	return state
}

func (p *Pipeline) runSentiment(state State) State {
	for _, ticker := range state.active() {
		data := state.Data[ticker]

		position := data.Fundamentals.RangePosition(data.Quote.Price)
		scores := state.Scores[ticker]
		scores.Sentiment = analyst.Sentiment(position)
		state.Scores[ticker] = scores
	}

	p.emit(StageSentiment, 5, "sentiment scores for %d assets", len(state.Data))
	return state
}

func (p *Pipeline) runRisk(state State) State {
	state.RiskLevels = make(map[string]string, len(state.Data))
	state.WithinTolerance = make(map[string]bool, len(state.Data))

	for _, ticker := range state.active() {
		assessment := analyst.Risk(ticker, state.Metrics[ticker], state.Request.RiskPreference)

		scores := state.Scores[ticker]
		scores.Risk = assessment.CategoryScore
		state.Scores[ticker] = scores

		state.RiskLevels[ticker] = assessment.Level
		state.WithinTolerance[ticker] = assessment.WithinTolerance
	}

	p.emit(StageRisk, 6, "risk assessment for %d assets", len(state.Data))
	return state
}

func (p *Pipeline) runRank(state State) State {
	active := state.active()
	assets := make([]ranking.Asset, 0, len(active))
	for _, ticker := range active {
		data := state.Data[ticker]
		consensus := state.Consensus[ticker]

		assets = append(assets, ranking.Asset{
			Ticker:            ticker,
			CurrentPrice:      data.Quote.Price,
			Scores:            state.Scores[ticker],
			RiskLevel:         state.RiskLevels[ticker],
			WithinTolerance:   state.WithinTolerance[ticker],
			HistoricalReturn:  state.Metrics[ticker].TotalReturn,
			TechnicalSignal:   consensus.Action,
			TechnicalStrength: consensus.Strength,
		})
	}

	state.Picks, state.Allocations = ranking.Rank(assets, state.Request.RiskPreference, state.Request.Budget)

	p.emit(StageRank, 7, "ranked %d assets, selected %d", len(assets), len(state.Picks))
	return state
}

func (p *Pipeline) runReport(ctx context.Context, state State) (State, error) {
	state.Report = report.Generate(report.Input{
		GeneratedAt:    state.GeneratedAt,
		Budget:         state.Request.Budget,
		RiskPreference: state.Request.RiskPreference,
		AssetClasses:   state.Request.AssetClasses,
		UniverseSize:   len(state.Universe),
		Picks:          state.Picks,
	})

	if p.reports != nil {
		saved := &report.SavedReport{
			GeneratedAt:    state.GeneratedAt,
			Budget:         state.Request.Budget,
			RiskPreference: state.Request.RiskPreference,
			UniverseSize:   len(state.Universe),
			Picks:          state.Picks,
			Markdown:       state.Report,
		}
		if _, err := p.reports.Save(ctx, saved); err != nil {
			// Persistence is best-effort; the rendered report still
			// goes back to the caller.
			p.logger.WithError(err).Warn("report save failed")
		}
	}

	p.emit(StageReport, 8, "report generated")
	return state, nil
}
