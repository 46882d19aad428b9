// Package indicator implements pure technical indicator transforms
// over price series. Every windowed indicator returns a slice the
// same length as its input with math.NaN() at indices before the
// window fills; callers use Valid to tell "no value" from zero.
package indicator

import "math"

// Valid reports whether an indicator value is defined.
func Valid(v float64) bool {
	return !math.IsNaN(v)
}

// LastValid returns the last defined value of a series and its index,
// or (NaN, -1) when nothing is defined.
func LastValid(series []float64) (float64, int) {
	for i := len(series) - 1; i >= 0; i-- {
		if Valid(series[i]) {
			return series[i], i
		}
	}
	return math.NaN(), -1
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
