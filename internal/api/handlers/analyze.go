package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/vantage/backend/internal/analyst"
	"github.com/wonny/vantage/backend/internal/contracts"
	"github.com/wonny/vantage/backend/internal/marketdata"
	"github.com/wonny/vantage/backend/internal/signal"
	"github.com/wonny/vantage/backend/pkg/logger"
)

// AnalyzeHandler handles single-ticker signal analysis
type AnalyzeHandler struct {
	provider marketdata.HistoryProvider
	logger   *logger.Logger
}

// NewAnalyzeHandler creates a new analyze handler
func NewAnalyzeHandler(provider marketdata.HistoryProvider, log *logger.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{
		provider: provider,
		logger:   log,
	}
}

// AnalyzeResponse bundles per-strategy signals with the consensus.
type AnalyzeResponse struct {
	Ticker    string                    `json:"ticker"`
	LastClose float64                   `json:"last_close"`
	Signals   []contracts.Signal        `json:"signals"`
	Consensus contracts.ConsensusSignal `json:"consensus"`
	Metrics   *analyst.ReturnMetrics    `json:"metrics,omitempty"`
}

// Analyze runs every signal generator over a ticker's history
// GET /api/v1/analyze/{ticker}?period=1y
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ticker := mux.Vars(r)["ticker"]
	period := r.URL.Query().Get("period")
	if period == "" {
		period = "1y"
	}

	series, err := h.provider.History(ctx, ticker, period, "1d")
	if err != nil {
		if errors.Is(err, marketdata.ErrUnavailable) {
			respondError(w, http.StatusNotFound, "No price history for "+ticker)
			return
		}
		h.logger.WithError(err).Error("History fetch failed")
		respondError(w, http.StatusInternalServerError, "Failed to fetch history")
		return
	}

	signals, consensus := signal.Analyze(series)

	resp := AnalyzeResponse{
		Ticker:    ticker,
		LastClose: series.LastClose(),
		Signals:   signals,
		Consensus: consensus,
	}
	if metrics, ok := analyst.CalculateReturns(series.Closes()); ok {
		resp.Metrics = &metrics
	}

	respondJSON(w, http.StatusOK, resp)
}
