package indicator

import "math"

// RSI computes the relative strength index over a trailing window of
// period deltas. The first defined index is period. A zero average
// loss yields RSI = 100 rather than an error.
func RSI(values []float64, period int) []float64 {
	out := nanSlice(len(values))
	if period <= 0 || len(values) <= period {
		return out
	}

	gains := make([]float64, len(values))
	losses := make([]float64, len(values))
	for i := 1; i < len(values); i++ {
		delta := values[i] - values[i-1]
		if delta > 0 {
			gains[i] = delta
		} else {
			losses[i] = -delta
		}
	}

	gainSum := 0.0
	lossSum := 0.0
	for i := 1; i < len(values); i++ {
		gainSum += gains[i]
		lossSum += losses[i]
		if i > period {
			gainSum -= gains[i-period]
			lossSum -= losses[i-period]
		}
		if i < period {
			continue
		}

		avgLoss := lossSum / float64(period)
		if avgLoss == 0 {
			out[i] = 100
			continue
		}
		avgGain := gainSum / float64(period)
		rs := avgGain / avgLoss
		out[i] = 100 - 100/(1+rs)
	}
	return out
}

// Stochastic computes the %K and %D oscillator lines. %K is defined
// from index kPeriod-1, %D once dPeriod %K values exist.
func Stochastic(highs, lows, closes []float64, kPeriod, dPeriod int) (k, d []float64) {
	n := len(closes)
	k = nanSlice(n)
	if kPeriod <= 0 || n < kPeriod || len(highs) != n || len(lows) != n {
		return k, nanSlice(n)
	}

	for i := kPeriod - 1; i < n; i++ {
		hh := math.Inf(-1)
		ll := math.Inf(1)
		for j := i - kPeriod + 1; j <= i; j++ {
			if highs[j] > hh {
				hh = highs[j]
			}
			if lows[j] < ll {
				ll = lows[j]
			}
		}
		span := hh - ll
		if span == 0 {
			// Flat window: price sits at both extremes at once.
			k[i] = 50
			continue
		}
		k[i] = 100 * (closes[i] - ll) / span
	}

	// %D is an SMA of %K, skipping the undefined prefix
	d = nanSlice(n)
	smoothed := SMA(k[kPeriod-1:], dPeriod)
	copy(d[kPeriod-1:], smoothed)
	return k, d
}
