package contracts

import "time"

// TradeKind distinguishes position opens from closes.
type TradeKind string

const (
	TradeOpen  TradeKind = "open"
	TradeClose TradeKind = "close"
)

// Trade is one entry in a backtest's append-only trade log.
// RealizedPnL is set on close trades only.
type Trade struct {
	Kind        TradeKind `json:"kind"`
	Date        time.Time `json:"date"`
	Price       float64   `json:"price"`
	Quantity    float64   `json:"quantity"`
	RealizedPnL float64   `json:"realized_pnl,omitempty"`
}

// EquityPoint is one sample of the portfolio value over time.
type EquityPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// BacktestResult is the immutable outcome of one simulation run.
// ⭐ SSOT: simulator → caller result shape
type BacktestResult struct {
	Ticker           string        `json:"ticker"`
	Strategy         string        `json:"strategy"`
	StartDate        time.Time     `json:"start_date"`
	EndDate          time.Time     `json:"end_date"`
	InitialCapital   float64       `json:"initial_capital"`
	FinalValue       float64       `json:"final_value"`
	TotalReturn      float64       `json:"total_return"`
	AnnualizedReturn float64       `json:"annualized_return"`
	Sharpe           float64       `json:"sharpe"`
	Sortino          float64       `json:"sortino"`
	MaxDrawdown      float64       `json:"max_drawdown"`
	Volatility       float64       `json:"volatility"`
	WinRate          float64       `json:"win_rate"`
	TradeCount       int           `json:"trade_count"`
	Trades           []Trade       `json:"trades"`
	EquityCurve      []EquityPoint `json:"equity_curve"`
}

// ClosedTrades returns only the close entries of the trade log
func (r *BacktestResult) ClosedTrades() []Trade {
	var closed []Trade
	for _, t := range r.Trades {
		if t.Kind == TradeClose {
			closed = append(closed, t)
		}
	}
	return closed
}
