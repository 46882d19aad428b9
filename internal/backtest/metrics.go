package backtest

import (
	"math"

	"github.com/wonny/vantage/backend/internal/contracts"
)

const (
	tradingDaysPerYear = 252
	annualRiskFree     = 0.05
)

// computeMetrics derives the risk/return metrics from a completed
// simulation. Standard deviations are population deviations over the
// full returns series.
func computeMetrics(equity, returns []float64, trades []contracts.Trade, initialCapital float64) *contracts.BacktestResult {
	finalValue := equity[len(equity)-1]
	totalReturn := (finalValue - initialCapital) / initialCapital

	days := len(returns)
	if days < 1 {
		days = 1
	}
	annualized := math.Pow(1+totalReturn, tradingDaysPerYear/float64(days)) - 1

	dailyRiskFree := annualRiskFree / tradingDaysPerYear
	meanExcess := mean(returns) - dailyRiskFree
	sd := stddev(returns)

	sharpe := 0.0
	if sd > 0 {
		sharpe = meanExcess / sd * math.Sqrt(tradingDaysPerYear)
	}

	var downside []float64
	for _, r := range returns {
		if r < 0 {
			downside = append(downside, r)
		}
	}
	downsideSD := sd
	if len(downside) > 0 {
		downsideSD = stddev(downside)
	}
	sortino := 0.0
	if downsideSD > 0 {
		sortino = meanExcess / downsideSD * math.Sqrt(tradingDaysPerYear)
	}

	maxDrawdown := 0.0
	peak := equity[0]
	for _, v := range equity {
		if v > peak {
			peak = v
		}
		if peak > 0 {
			if dd := (v - peak) / peak; dd < maxDrawdown {
				maxDrawdown = dd
			}
		}
	}

	winRate := 0.0
	closed := 0
	wins := 0
	for _, t := range trades {
		if t.Kind == contracts.TradeClose {
			closed++
			if t.RealizedPnL > 0 {
				wins++
			}
		}
	}
	if closed > 0 {
		winRate = float64(wins) / float64(closed)
	}

	return &contracts.BacktestResult{
		InitialCapital:   initialCapital,
		FinalValue:       finalValue,
		TotalReturn:      totalReturn,
		AnnualizedReturn: annualized,
		Sharpe:           sharpe,
		Sortino:          sortino,
		MaxDrawdown:      maxDrawdown,
		Volatility:       sd * math.Sqrt(tradingDaysPerYear),
		WinRate:          winRate,
		TradeCount:       len(trades),
		Trades:           trades,
	}
}

// downsample thins the equity curve to roughly maxPoints evenly
// spaced samples, always keeping the first and last bar.
func downsample(equity []float64, candles []contracts.Candle, maxPoints int) []contracts.EquityPoint {
	step := len(equity) / maxPoints
	if step < 1 {
		step = 1
	}

	var points []contracts.EquityPoint
	for i := 0; i < len(equity); i += step {
		points = append(points, contracts.EquityPoint{
			Date:  candles[i].Date,
			Value: equity[i],
		})
	}

	last := len(equity) - 1
	if points[len(points)-1].Date != candles[last].Date ||
		points[len(points)-1].Value != equity[last] {
		points = append(points, contracts.EquityPoint{
			Date:  candles[last].Date,
			Value: equity[last],
		})
	}
	return points
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stddev is the population standard deviation.
func stddev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	sumSq := 0.0
	for _, v := range values {
		d := v - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)))
}
