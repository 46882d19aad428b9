package backtest

import (
	"errors"

	"github.com/wonny/vantage/backend/internal/contracts"
)

// DefaultInitialCapital is used when the caller passes a
// non-positive capital.
const DefaultInitialCapital = 10000.0

// ErrEmptySeries is returned when there is no price history to
// simulate against.
var ErrEmptySeries = errors.New("backtest: empty price series")

// Run simulates the strategy over the series. The position is either
// flat or fully long: entries commit all cash at the bar's close
// (fractional shares), exits liquidate at the close, realized P&L is
// sale proceeds minus the cash committed at entry.
func Run(series *contracts.PriceSeries, strategy Strategy, initialCapital float64) (*contracts.BacktestResult, error) {
	if series == nil || series.Len() == 0 {
		return nil, ErrEmptySeries
	}
	if initialCapital <= 0 {
		initialCapital = DefaultInitialCapital
	}

	closes := series.Closes()
	r := compile(strategy, series)

	cash := initialCapital
	shares := 0.0
	entryCost := 0.0
	long := false

	equity := make([]float64, len(closes))
	var trades []contracts.Trade

	for i, price := range closes {
		equity[i] = cash + shares*price

		if i < r.warmUp {
			continue
		}

		if !long && r.enter(i) && price > 0 {
			shares = cash / price
			entryCost = cash
			cash = 0
			long = true
			trades = append(trades, contracts.Trade{
				Kind:     contracts.TradeOpen,
				Date:     series.Candles[i].Date,
				Price:    price,
				Quantity: shares,
			})
		} else if long && r.exit(i) {
			proceeds := shares * price
			trades = append(trades, contracts.Trade{
				Kind:        contracts.TradeClose,
				Date:        series.Candles[i].Date,
				Price:       price,
				Quantity:    shares,
				RealizedPnL: proceeds - entryCost,
			})
			cash = proceeds
			shares = 0
			long = false
		}
	}

	returns := dailyReturns(equity)
	result := computeMetrics(equity, returns, trades, initialCapital)
	result.Ticker = series.Ticker
	result.Strategy = string(strategy)
	result.StartDate = series.Candles[0].Date
	result.EndDate = series.Candles[len(series.Candles)-1].Date
	result.EquityCurve = downsample(equity, series.Candles, 100)

	return result, nil
}

// dailyReturns is the pct-change of the equity curve with the first
// value forced to 0.
func dailyReturns(equity []float64) []float64 {
	returns := make([]float64, len(equity))
	for i := 1; i < len(equity); i++ {
		if equity[i-1] != 0 {
			returns[i] = (equity[i] - equity[i-1]) / equity[i-1]
		}
	}
	return returns
}
