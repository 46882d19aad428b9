package indicator

import "math"

// BollingerResult holds the three band series.
type BollingerResult struct {
	Upper  []float64
	Middle []float64
	Lower  []float64
}

// Bollinger computes SMA(period) bands at k rolling standard
// deviations. The sample deviation (n-1 denominator) is used.
func Bollinger(values []float64, period int, k float64) BollingerResult {
	n := len(values)
	middle := SMA(values, period)
	upper := nanSlice(n)
	lower := nanSlice(n)

	if period > 1 && n >= period {
		for i := period - 1; i < n; i++ {
			mean := middle[i]
			sumSq := 0.0
			for j := i - period + 1; j <= i; j++ {
				d := values[j] - mean
				sumSq += d * d
			}
			sd := math.Sqrt(sumSq / float64(period-1))
			upper[i] = mean + k*sd
			lower[i] = mean - k*sd
		}
	}

	return BollingerResult{Upper: upper, Middle: middle, Lower: lower}
}

// ATR computes the rolling mean of the true range. The first bar's
// true range is high-low since no prior close exists.
func ATR(highs, lows, closes []float64, period int) []float64 {
	n := len(closes)
	if len(highs) != n || len(lows) != n {
		return nanSlice(n)
	}

	tr := make([]float64, n)
	for i := 0; i < n; i++ {
		hl := highs[i] - lows[i]
		if i == 0 {
			tr[i] = hl
			continue
		}
		hc := math.Abs(highs[i] - closes[i-1])
		lc := math.Abs(lows[i] - closes[i-1])
		tr[i] = math.Max(hl, math.Max(hc, lc))
	}

	return SMA(tr, period)
}
