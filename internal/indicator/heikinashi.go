package indicator

import (
	"math"

	"github.com/wonny/vantage/backend/internal/contracts"
)

// HeikinAshi transforms candles into their Heikin-Ashi smoothing.
// ha_close averages O/H/L/C, ha_open is the recursive midpoint of the
// prior ha bar seeded at (open+close)/2 of day 0.
func HeikinAshi(candles []contracts.Candle) []contracts.Candle {
	out := make([]contracts.Candle, len(candles))
	for i, c := range candles {
		haClose := (c.Open + c.High + c.Low + c.Close) / 4

		var haOpen float64
		if i == 0 {
			haOpen = (c.Open + c.Close) / 2
		} else {
			haOpen = (out[i-1].Open + out[i-1].Close) / 2
		}

		out[i] = contracts.Candle{
			Date:   c.Date,
			Open:   haOpen,
			High:   math.Max(c.High, math.Max(haOpen, haClose)),
			Low:    math.Min(c.Low, math.Min(haOpen, haClose)),
			Close:  haClose,
			Volume: c.Volume,
		}
	}
	return out
}
