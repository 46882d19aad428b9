package backtest

import "github.com/wonny/vantage/backend/internal/indicator"

// Warm-up bar counts per strategy. Trading is suppressed before
// these; the equity curve still records pure cash.
const (
	smaWarmUp     = 50
	macdWarmUp    = 35
	rsiWarmUp     = 20
	meanRevWarmUp = 25
)

// NaN comparisons are false, so an undefined indicator value can
// never satisfy an entry or exit condition.

func smaCrossoverRules(closes []float64) rules {
	short := indicator.SMA(closes, 20)
	long := indicator.SMA(closes, 50)

	return rules{
		warmUp: smaWarmUp,
		enter: func(i int) bool {
			return short[i] > long[i] && short[i-1] <= long[i-1]
		},
		exit: func(i int) bool {
			return short[i] < long[i] && short[i-1] >= long[i-1]
		},
	}
}

func macdRules(closes []float64) rules {
	result := indicator.MACD(closes, 12, 26, 9)

	return rules{
		warmUp: macdWarmUp,
		enter: func(i int) bool {
			return result.MACD[i] > result.Signal[i] && result.MACD[i-1] <= result.Signal[i-1]
		},
		exit: func(i int) bool {
			return result.MACD[i] < result.Signal[i] && result.MACD[i-1] >= result.Signal[i-1]
		},
	}
}

func rsiRules(closes []float64) rules {
	rsi := indicator.RSI(closes, 14)

	return rules{
		warmUp: rsiWarmUp,
		enter: func(i int) bool {
			// Oversold recovery cross
			return rsi[i] > 30 && rsi[i-1] <= 30
		},
		exit: func(i int) bool {
			// Level test: any bar in overbought territory exits
			return rsi[i] > 70
		},
	}
}

func momentumRules(closes []float64) rules {
	lookback := 252
	if len(closes)-1 < lookback {
		lookback = len(closes) - 1
	}
	if lookback < 1 {
		return rules{warmUp: len(closes), enter: never, exit: never}
	}

	momentum := make([]float64, len(closes))
	for i := lookback; i < len(closes); i++ {
		base := closes[i-lookback]
		if base != 0 {
			momentum[i] = (closes[i] - base) / base
		}
	}

	return rules{
		warmUp: lookback + 1,
		enter:  func(i int) bool { return momentum[i] > 0 },
		exit:   func(i int) bool { return momentum[i] < 0 },
	}
}

func meanReversionRules(closes []float64) rules {
	bands := indicator.Bollinger(closes, 20, 2)

	return rules{
		warmUp: meanRevWarmUp,
		enter: func(i int) bool {
			return closes[i] <= bands.Lower[i]
		},
		exit: func(i int) bool {
			// Reversion to the middle band completes the trade
			return closes[i] >= bands.Middle[i]
		},
	}
}
