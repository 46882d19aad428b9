// Package analyst scores assets on the four research categories that
// feed the ranker: fundamental, technical, sentiment and risk.
package analyst

import "math"

const (
	tradingDaysPerYear = 252
	annualRiskFree     = 0.05
)

// ReturnMetrics summarizes a close series for scoring.
type ReturnMetrics struct {
	TotalReturn     float64 `json:"total_return"`
	MeanDailyReturn float64 `json:"mean_daily_return"`
	Volatility      float64 `json:"volatility"`
	MaxDrawdown     float64 `json:"max_drawdown"`
	Sharpe          float64 `json:"sharpe_ratio"`
}

// CalculateReturns derives return metrics from a close series. A
// series shorter than two points yields ok=false and zero metrics.
func CalculateReturns(closes []float64) (ReturnMetrics, bool) {
	if len(closes) < 2 || closes[0] == 0 {
		return ReturnMetrics{}, false
	}

	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] != 0 {
			returns = append(returns, (closes[i]-closes[i-1])/closes[i-1])
		} else {
			returns = append(returns, 0)
		}
	}

	sd := stddev(returns)

	maxDrawdown := 0.0
	peak := closes[0]
	for _, p := range closes {
		if p > peak {
			peak = p
		}
		if peak > 0 {
			if dd := (p - peak) / peak; dd < maxDrawdown {
				maxDrawdown = dd
			}
		}
	}

	sharpe := 0.0
	if sd > 0 {
		excess := make([]float64, len(returns))
		for i, r := range returns {
			excess[i] = r - annualRiskFree/tradingDaysPerYear
		}
		if esd := stddev(excess); esd > 0 {
			sharpe = mean(excess) / esd * math.Sqrt(tradingDaysPerYear)
		}
	}

	return ReturnMetrics{
		TotalReturn:     (closes[len(closes)-1] - closes[0]) / closes[0],
		MeanDailyReturn: mean(returns),
		Volatility:      sd * math.Sqrt(tradingDaysPerYear),
		MaxDrawdown:     maxDrawdown,
		Sharpe:          sharpe,
	}, true
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
