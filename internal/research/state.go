// Package research runs the full research pipeline: filter universe,
// fetch market data, score each asset on the four categories, rank
// and allocate, and render the report.
package research

import (
	"time"

	"github.com/wonny/vantage/backend/internal/analyst"
	"github.com/wonny/vantage/backend/internal/contracts"
)

// Request is the caller's input to a research run.
type Request struct {
	AssetClasses   []string                 `json:"asset_classes"`
	Budget         float64                  `json:"budget"`
	RiskPreference contracts.RiskPreference `json:"risk_preference"`
	Tickers        []string                 `json:"tickers,omitempty"`
}

// AssetData is everything fetched for one ticker.
type AssetData struct {
	Ticker       string                  `json:"ticker"`
	Quote        *contracts.Quote        `json:"quote"`
	Fundamentals *contracts.Fundamentals `json:"fundamentals"`
	History      *contracts.PriceSeries  `json:"history"`
}

// State is the record passed stage to stage. Each stage returns a
// copy with its own fields filled in; earlier fields are never
// mutated.
type State struct {
	Request     Request
	GeneratedAt time.Time

	Universe []string
	Data     map[string]AssetData
	Dropped  []string

	Signals   map[string][]contracts.Signal
	Consensus map[string]contracts.ConsensusSignal
	Metrics   map[string]analyst.ReturnMetrics

	Scores          map[string]contracts.ScoreSet
	RiskLevels      map[string]string
	WithinTolerance map[string]bool

	Picks       []contracts.RankedPick
	Allocations map[string]float64
	Report      string
}

// Result is the externally visible outcome of a run.
type Result struct {
	GeneratedAt    time.Time                `json:"generated_at"`
	RiskPreference contracts.RiskPreference `json:"risk_preference"`
	Budget         float64                  `json:"budget"`
	UniverseSize   int                      `json:"universe_size"`
	Dropped        []string                 `json:"dropped,omitempty"`
	Picks          []contracts.RankedPick   `json:"picks"`
	Allocations    map[string]float64       `json:"allocations"`
	Report         string                   `json:"report"`
	Duration       time.Duration            `json:"duration"`
}

// Progress is one stage-completion event, streamed to observers
// while a run executes.
type Progress struct {
	Stage     string `json:"stage"`
	Message   string `json:"message"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
}

// ProgressFunc receives progress events. May be nil.
type ProgressFunc func(Progress)
