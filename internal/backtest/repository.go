package backtest

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/vantage/backend/internal/contracts"
)

// Repository persists backtest results.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Save stores a completed backtest run. The trade log and equity
// curve are stored as JSONB.
func (r *Repository) Save(ctx context.Context, result *contracts.BacktestResult) (int64, error) {
	trades, err := json.Marshal(result.Trades)
	if err != nil {
		return 0, fmt.Errorf("marshal trades: %w", err)
	}
	curve, err := json.Marshal(result.EquityCurve)
	if err != nil {
		return 0, fmt.Errorf("marshal equity curve: %w", err)
	}

	query := `
		INSERT INTO research.backtest_results
			(ticker, strategy, start_date, end_date, initial_capital, final_value,
			 total_return, annualized_return, sharpe, sortino, max_drawdown,
			 volatility, win_rate, trade_count, trades, equity_curve)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id`

	var id int64
	err = r.pool.QueryRow(ctx, query,
		result.Ticker, result.Strategy, result.StartDate, result.EndDate,
		result.InitialCapital, result.FinalValue, result.TotalReturn,
		result.AnnualizedReturn, result.Sharpe, result.Sortino,
		result.MaxDrawdown, result.Volatility, result.WinRate,
		result.TradeCount, trades, curve,
	).Scan(&id)

	return id, err
}

// GetByTicker returns the most recent runs for a ticker.
func (r *Repository) GetByTicker(ctx context.Context, ticker string, limit int) ([]contracts.BacktestResult, error) {
	query := `
		SELECT ticker, strategy, start_date, end_date, initial_capital, final_value,
			   total_return, annualized_return, sharpe, sortino, max_drawdown,
			   volatility, win_rate, trade_count, trades, equity_curve
		FROM research.backtest_results
		WHERE ticker = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, ticker, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []contracts.BacktestResult
	for rows.Next() {
		var res contracts.BacktestResult
		var trades, curve []byte
		if err := rows.Scan(
			&res.Ticker, &res.Strategy, &res.StartDate, &res.EndDate,
			&res.InitialCapital, &res.FinalValue, &res.TotalReturn,
			&res.AnnualizedReturn, &res.Sharpe, &res.Sortino,
			&res.MaxDrawdown, &res.Volatility, &res.WinRate,
			&res.TradeCount, &trades, &curve,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(trades, &res.Trades); err != nil {
			return nil, fmt.Errorf("unmarshal trades: %w", err)
		}
		if err := json.Unmarshal(curve, &res.EquityCurve); err != nil {
			return nil, fmt.Errorf("unmarshal equity curve: %w", err)
		}
		results = append(results, res)
	}

	return results, rows.Err()
}
