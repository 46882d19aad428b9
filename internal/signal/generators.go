// Package signal maps price series to directional trading calls and
// merges them into a consensus.
package signal

import (
	"fmt"
	"math"

	"github.com/wonny/vantage/backend/internal/contracts"
	"github.com/wonny/vantage/backend/internal/indicator"
)

// Generator names, also used as rationale prefixes in reports.
const (
	NameSMACrossover = "sma_crossover"
	NameMACD         = "macd"
	NameRSI          = "rsi"
	NameBollinger    = "bollinger"
	NameMomentum     = "momentum"
)

// Generator produces one signal from a price series.
type Generator func(series *contracts.PriceSeries) contracts.Signal

// All returns every generator in the fixed evaluation order.
func All() []Generator {
	return []Generator{
		SMACrossover,
		MACDSignal,
		RSISignal,
		BollingerSignal,
		MomentumSignal,
	}
}

// insufficient is the graceful degradation every generator falls back
// to when its indicators are undefined.
func insufficient(name, what string) contracts.Signal {
	return contracts.Signal{
		Name:      name,
		Action:    contracts.ActionHold,
		Strength:  0.5,
		Rationale: fmt.Sprintf("Insufficient history for %s", what),
	}
}

// SMACrossover signals on the 20/50 simple moving average cross.
// A call fires only on the bar where the order of the two averages
// flips versus the prior bar.
func SMACrossover(series *contracts.PriceSeries) contracts.Signal {
	closes := series.Closes()
	n := len(closes)
	short := indicator.SMA(closes, 20)
	long := indicator.SMA(closes, 50)

	if n < 2 || !indicator.Valid(short[n-1]) || !indicator.Valid(long[n-1]) ||
		!indicator.Valid(short[n-2]) || !indicator.Valid(long[n-2]) {
		return insufficient(NameSMACrossover, "SMA20/SMA50 crossover")
	}

	curShort, curLong := short[n-1], long[n-1]
	prevShort, prevLong := short[n-2], long[n-2]

	indicators := map[string]float64{
		"sma_short":     curShort,
		"sma_long":      curLong,
		"current_price": closes[n-1],
	}

	switch {
	case curShort > curLong && prevShort <= prevLong:
		return contracts.Signal{
			Name:       NameSMACrossover,
			Action:     contracts.ActionBuy,
			Strength:   contracts.ClampStrength((curShort - curLong) / curLong * 10),
			Rationale:  "SMA20 crossed above SMA50",
			Indicators: indicators,
		}
	case curShort < curLong && prevShort >= prevLong:
		return contracts.Signal{
			Name:       NameSMACrossover,
			Action:     contracts.ActionSell,
			Strength:   contracts.ClampStrength((curLong - curShort) / curLong * 10),
			Rationale:  "SMA20 crossed below SMA50",
			Indicators: indicators,
		}
	case curShort > curLong:
		return contracts.Signal{
			Name:       NameSMACrossover,
			Action:     contracts.ActionHold,
			Strength:   0.5,
			Rationale:  "Uptrend: SMA20 above SMA50",
			Indicators: indicators,
		}
	default:
		return contracts.Signal{
			Name:       NameSMACrossover,
			Action:     contracts.ActionHold,
			Strength:   0.5,
			Rationale:  "Downtrend: SMA20 below SMA50",
			Indicators: indicators,
		}
	}
}

// MACDSignal signals on the MACD line crossing its signal line.
// Without a cross, the hold strength reflects histogram direction.
func MACDSignal(series *contracts.PriceSeries) contracts.Signal {
	closes := series.Closes()
	n := len(closes)
	if n < 2 || closes[n-1] == 0 {
		return insufficient(NameMACD, "MACD crossover")
	}

	result := indicator.MACD(closes, 12, 26, 9)
	curMACD, curSignal := result.MACD[n-1], result.Signal[n-1]
	prevMACD, prevSignal := result.MACD[n-2], result.Signal[n-2]
	curHist, prevHist := result.Histogram[n-1], result.Histogram[n-2]

	indicators := map[string]float64{
		"macd":      curMACD,
		"signal":    curSignal,
		"histogram": curHist,
	}

	switch {
	case curMACD > curSignal && prevMACD <= prevSignal:
		return contracts.Signal{
			Name:       NameMACD,
			Action:     contracts.ActionBuy,
			Strength:   contracts.ClampStrength(math.Abs(curHist) / closes[n-1] * 100),
			Rationale:  "MACD crossed above signal line",
			Indicators: indicators,
		}
	case curMACD < curSignal && prevMACD >= prevSignal:
		return contracts.Signal{
			Name:       NameMACD,
			Action:     contracts.ActionSell,
			Strength:   contracts.ClampStrength(math.Abs(curHist) / closes[n-1] * 100),
			Rationale:  "MACD crossed below signal line",
			Indicators: indicators,
		}
	case curHist > 0 && curHist > prevHist:
		return contracts.Signal{
			Name:       NameMACD,
			Action:     contracts.ActionHold,
			Strength:   0.6,
			Rationale:  "Bullish momentum increasing",
			Indicators: indicators,
		}
	default:
		return contracts.Signal{
			Name:       NameMACD,
			Action:     contracts.ActionHold,
			Strength:   0.4,
			Rationale:  "Bearish momentum or consolidation",
			Indicators: indicators,
		}
	}
}

// RSISignal signals on RSI recovering from oversold or falling from
// overbought, with low-strength holds while inside either zone.
func RSISignal(series *contracts.PriceSeries) contracts.Signal {
	const (
		oversold   = 30.0
		overbought = 70.0
	)

	closes := series.Closes()
	n := len(closes)
	rsi := indicator.RSI(closes, 14)

	if n < 2 || !indicator.Valid(rsi[n-1]) || !indicator.Valid(rsi[n-2]) {
		return insufficient(NameRSI, "RSI(14)")
	}

	cur, prev := rsi[n-1], rsi[n-2]
	indicators := map[string]float64{
		"rsi":              cur,
		"oversold_level":   oversold,
		"overbought_level": overbought,
	}

	switch {
	case cur > oversold && prev <= oversold:
		return contracts.Signal{
			Name:       NameRSI,
			Action:     contracts.ActionBuy,
			Strength:   contracts.ClampStrength((oversold-prev)/oversold + 0.5),
			Rationale:  "RSI recovered from oversold (below 30)",
			Indicators: indicators,
		}
	case cur < overbought && prev >= overbought:
		return contracts.Signal{
			Name:       NameRSI,
			Action:     contracts.ActionSell,
			Strength:   contracts.ClampStrength((prev-overbought)/(100-overbought) + 0.5),
			Rationale:  "RSI fell from overbought (above 70)",
			Indicators: indicators,
		}
	case cur < oversold:
		return contracts.Signal{
			Name:       NameRSI,
			Action:     contracts.ActionHold,
			Strength:   0.3,
			Rationale:  fmt.Sprintf("RSI in oversold territory (%.1f)", cur),
			Indicators: indicators,
		}
	case cur > overbought:
		return contracts.Signal{
			Name:       NameRSI,
			Action:     contracts.ActionHold,
			Strength:   0.3,
			Rationale:  fmt.Sprintf("RSI in overbought territory (%.1f)", cur),
			Indicators: indicators,
		}
	default:
		return contracts.Signal{
			Name:       NameRSI,
			Action:     contracts.ActionHold,
			Strength:   0.5,
			Rationale:  fmt.Sprintf("RSI neutral at %.1f", cur),
			Indicators: indicators,
		}
	}
}

// BollingerSignal is a mean-reversion call on the 20-period, 2-sigma
// bands: buy at/below the lower band, sell at/above the upper.
func BollingerSignal(series *contracts.PriceSeries) contracts.Signal {
	closes := series.Closes()
	n := len(closes)
	bands := indicator.Bollinger(closes, 20, 2)

	if n == 0 || !indicator.Valid(bands.Upper[n-1]) || !indicator.Valid(bands.Lower[n-1]) {
		return insufficient(NameBollinger, "Bollinger Bands(20,2)")
	}

	price := closes[n-1]
	upper, middle, lower := bands.Upper[n-1], bands.Middle[n-1], bands.Lower[n-1]

	bandPos := 0.5
	if span := upper - lower; span > 0 {
		bandPos = (price - lower) / span
	}

	indicators := map[string]float64{
		"upper_band":    upper,
		"middle_band":   middle,
		"lower_band":    lower,
		"band_position": bandPos,
	}

	switch {
	case price <= lower:
		return contracts.Signal{
			Name:       NameBollinger,
			Action:     contracts.ActionBuy,
			Strength:   contracts.ClampStrength((lower-price)/lower*10 + 0.7),
			Rationale:  "Price at/below lower Bollinger Band - potential mean reversion",
			Indicators: indicators,
		}
	case price >= upper:
		return contracts.Signal{
			Name:       NameBollinger,
			Action:     contracts.ActionSell,
			Strength:   contracts.ClampStrength((price-upper)/upper*10 + 0.7),
			Rationale:  "Price at/above upper Bollinger Band - potential mean reversion",
			Indicators: indicators,
		}
	case bandPos > 0.5:
		return contracts.Signal{
			Name:       NameBollinger,
			Action:     contracts.ActionHold,
			Strength:   0.5,
			Rationale:  fmt.Sprintf("Price in upper half of Bollinger Bands (%.2f)", bandPos),
			Indicators: indicators,
		}
	default:
		return contracts.Signal{
			Name:       NameBollinger,
			Action:     contracts.ActionHold,
			Strength:   0.5,
			Rationale:  fmt.Sprintf("Price in lower half of Bollinger Bands (%.2f)", bandPos),
			Indicators: indicators,
		}
	}
}

// MomentumSignal compares the 252-day return against a 20-day
// confirmation window. A history shorter than the lookback shrinks
// the lookback to the series length minus one.
func MomentumSignal(series *contracts.PriceSeries) contracts.Signal {
	closes := series.Closes()
	n := len(closes)
	if n < 2 {
		return insufficient(NameMomentum, "momentum lookback")
	}

	lookback := 252
	if n < lookback+1 {
		lookback = n - 1
	}

	base := closes[n-lookback]
	if base == 0 {
		return insufficient(NameMomentum, "momentum lookback")
	}
	momentum := (closes[n-1] - base) / base

	momentumShort := momentum
	if n > 20 && closes[n-20] != 0 {
		momentumShort = (closes[n-1] - closes[n-20]) / closes[n-20]
	}

	indicators := map[string]float64{
		"momentum_long":  momentum,
		"momentum_short": momentumShort,
	}

	switch {
	case momentum > 0.1 && momentumShort > 0:
		return contracts.Signal{
			Name:       NameMomentum,
			Action:     contracts.ActionBuy,
			Strength:   contracts.ClampStrength(momentum),
			Rationale:  fmt.Sprintf("Strong positive momentum (%.1f%% over %d days)", momentum*100, lookback),
			Indicators: indicators,
		}
	case momentum < -0.1 && momentumShort < 0:
		return contracts.Signal{
			Name:       NameMomentum,
			Action:     contracts.ActionSell,
			Strength:   contracts.ClampStrength(math.Abs(momentum)),
			Rationale:  fmt.Sprintf("Strong negative momentum (%.1f%% over %d days)", momentum*100, lookback),
			Indicators: indicators,
		}
	case momentum > 0 && momentumShort < 0:
		return contracts.Signal{
			Name:       NameMomentum,
			Action:     contracts.ActionHold,
			Strength:   0.4,
			Rationale:  "Long-term positive but short-term negative momentum",
			Indicators: indicators,
		}
	case momentum < 0 && momentumShort > 0:
		return contracts.Signal{
			Name:       NameMomentum,
			Action:     contracts.ActionHold,
			Strength:   0.6,
			Rationale:  "Long-term negative but short-term positive momentum",
			Indicators: indicators,
		}
	default:
		return contracts.Signal{
			Name:       NameMomentum,
			Action:     contracts.ActionHold,
			Strength:   0.5,
			Rationale:  fmt.Sprintf("Neutral momentum (%.1f%%)", momentum*100),
			Indicators: indicators,
		}
	}
}
