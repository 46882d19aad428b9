package indicator

// SMA computes the trailing arithmetic mean over the given period.
// The first period-1 indices are undefined.
func SMA(values []float64, period int) []float64 {
	out := nanSlice(len(values))
	if period <= 0 || len(values) < period {
		return out
	}

	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out
}

// EMA computes recursive exponential smoothing seeded at the first
// value with weight 2/(period+1). Defined for every index.
func EMA(values []float64, period int) []float64 {
	out := nanSlice(len(values))
	if period <= 0 || len(values) == 0 {
		return out
	}

	alpha := 2.0 / float64(period+1)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}

// MACDResult holds the three MACD series.
type MACDResult struct {
	MACD      []float64
	Signal    []float64
	Histogram []float64
}

// MACD computes EMA(fast) - EMA(slow), its EMA(signalPeriod) signal
// line, and the histogram difference.
func MACD(values []float64, fast, slow, signalPeriod int) MACDResult {
	fastEMA := EMA(values, fast)
	slowEMA := EMA(values, slow)

	macd := make([]float64, len(values))
	for i := range values {
		macd[i] = fastEMA[i] - slowEMA[i]
	}

	signal := EMA(macd, signalPeriod)

	hist := make([]float64, len(values))
	for i := range values {
		hist[i] = macd[i] - signal[i]
	}

	return MACDResult{MACD: macd, Signal: signal, Histogram: hist}
}
