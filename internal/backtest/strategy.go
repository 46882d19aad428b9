// Package backtest replays a trading strategy bar-by-bar over one
// asset's history and reports the resulting equity curve and risk
// metrics.
package backtest

import "github.com/wonny/vantage/backend/internal/contracts"

// Strategy is the closed set of simulated strategies.
type Strategy string

const (
	BuyAndHold    Strategy = "buy_and_hold"
	SMACrossover  Strategy = "sma_crossover"
	MACDCrossover Strategy = "macd"
	RSIReversal   Strategy = "rsi_reversal"
	Momentum      Strategy = "momentum"
	MeanReversion Strategy = "mean_reversion"
)

// Strategies lists every supported strategy with its description.
func Strategies() map[Strategy]string {
	return map[Strategy]string{
		BuyAndHold:    "Simple buy and hold strategy",
		SMACrossover:  "SMA crossover (20/50 day)",
		MACDCrossover: "MACD signal crossover",
		RSIReversal:   "RSI overbought/oversold reversal",
		Momentum:      "Price momentum strategy",
		MeanReversion: "Bollinger Bands mean reversion",
	}
}

// ParseStrategy maps a raw strategy id to a Strategy. Unknown ids
// fall back to buy-and-hold rather than failing the run.
func ParseStrategy(id string) Strategy {
	switch Strategy(id) {
	case BuyAndHold, SMACrossover, MACDCrossover, RSIReversal, Momentum, MeanReversion:
		return Strategy(id)
	default:
		return BuyAndHold
	}
}

// rules drives the flat/long state machine for one strategy: no
// trading before warmUp bars, enter when flat and enter(i) fires,
// exit when long and exit(i) fires.
type rules struct {
	warmUp int
	enter  func(i int) bool
	exit   func(i int) bool
}

var never = func(int) bool { return false }

// compile binds a strategy to its indicator series over the closes.
func compile(strategy Strategy, series *contracts.PriceSeries) rules {
	closes := series.Closes()

	switch strategy {
	case BuyAndHold:
		return rules{
			warmUp: 0,
			enter:  func(i int) bool { return i == 0 },
			exit:   never,
		}
	case SMACrossover:
		return smaCrossoverRules(closes)
	case MACDCrossover:
		return macdRules(closes)
	case RSIReversal:
		return rsiRules(closes)
	case Momentum:
		return momentumRules(closes)
	case MeanReversion:
		return meanReversionRules(closes)
	}
	// Unreachable via ParseStrategy; kept for direct construction.
	return rules{warmUp: 0, enter: func(i int) bool { return i == 0 }, exit: never}
}
