package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/wonny/vantage/backend/internal/backtest"
	"github.com/wonny/vantage/backend/internal/marketdata"
	"github.com/wonny/vantage/backend/pkg/logger"
)

// BacktestHandler handles backtest API endpoints
type BacktestHandler struct {
	provider marketdata.HistoryProvider
	repo     *backtest.Repository
	logger   *logger.Logger
}

// NewBacktestHandler creates a new backtest handler. repo may be nil
// when no database is configured.
func NewBacktestHandler(provider marketdata.HistoryProvider, repo *backtest.Repository, log *logger.Logger) *BacktestHandler {
	return &BacktestHandler{
		provider: provider,
		repo:     repo,
		logger:   log,
	}
}

// BacktestRequest represents a backtest request
type BacktestRequest struct {
	Ticker         string  `json:"ticker"`
	Strategy       string  `json:"strategy"`
	Period         string  `json:"period"`          // chart range, default "1y"
	InitialCapital float64 `json:"initial_capital"` // default 10000
}

// Run executes a backtest against fetched history
// POST /api/v1/backtest
func (h *BacktestHandler) Run(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req BacktestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Ticker == "" {
		respondError(w, http.StatusBadRequest, "Missing ticker")
		return
	}
	if req.Period == "" {
		req.Period = "1y"
	}
	if req.InitialCapital <= 0 {
		req.InitialCapital = backtest.DefaultInitialCapital
	}

	series, err := h.provider.History(ctx, req.Ticker, req.Period, "1d")
	if err != nil {
		if errors.Is(err, marketdata.ErrUnavailable) {
			respondError(w, http.StatusNotFound, "No price history for "+req.Ticker)
			return
		}
		h.logger.WithError(err).Error("History fetch failed")
		respondError(w, http.StatusInternalServerError, "Failed to fetch history")
		return
	}

	strategy := backtest.ParseStrategy(req.Strategy)
	result, err := backtest.Run(series, strategy, req.InitialCapital)
	if err != nil {
		h.logger.WithError(err).Error("Backtest failed")
		respondError(w, http.StatusInternalServerError, "Backtest failed")
		return
	}

	if h.repo != nil {
		if _, err := h.repo.Save(ctx, result); err != nil {
			h.logger.WithError(err).Warn("Backtest save failed")
		}
	}

	respondJSON(w, http.StatusOK, result)
}

// Strategies lists the available strategies with descriptions
// GET /api/v1/backtest/strategies
func (h *BacktestHandler) Strategies(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, backtest.Strategies())
}

// History returns persisted backtest runs for a ticker
// GET /api/v1/backtest/{ticker}?limit=10
func (h *BacktestHandler) History(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		respondError(w, http.StatusServiceUnavailable, "No database configured")
		return
	}

	ticker := mux.Vars(r)["ticker"]
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respondError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	results, err := h.repo.GetByTicker(r.Context(), ticker, limit)
	if err != nil {
		h.logger.WithError(err).Error("Backtest history query failed")
		respondError(w, http.StatusInternalServerError, "Failed to load backtest history")
		return
	}

	respondJSON(w, http.StatusOK, results)
}
