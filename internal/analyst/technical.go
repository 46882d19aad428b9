package analyst

import (
	"fmt"
	"math"
	"strings"

	"github.com/wonny/vantage/backend/internal/contracts"
)

// Technical scores the consensus signal with historical return,
// volatility and Sharpe adjustments.
func Technical(consensus contracts.ConsensusSignal, metrics ReturnMetrics) contracts.CategoryScore {
	var score float64
	var reasons []string

	switch consensus.Action {
	case contracts.ActionBuy:
		score = 60 + consensus.Strength*30
		reasons = append(reasons, fmt.Sprintf("Technical buy signal (strength: %.0f%%)", consensus.Strength*100))
	case contracts.ActionSell:
		score = 40 - consensus.Strength*30
		reasons = append(reasons, fmt.Sprintf("Technical sell signal (strength: %.0f%%)", consensus.Strength*100))
	default:
		score = 50
		reasons = append(reasons, "Technical indicators neutral")
	}

	switch hr := metrics.TotalReturn; {
	case hr > 0.2:
		score += 10
		reasons = append(reasons, fmt.Sprintf("Strong 1Y return (%.1f%%)", hr*100))
	case hr > 0:
		score += 5
		reasons = append(reasons, fmt.Sprintf("Positive 1Y return (%.1f%%)", hr*100))
	case hr < -0.2:
		score -= 10
		reasons = append(reasons, fmt.Sprintf("Poor 1Y return (%.1f%%)", hr*100))
	default:
		score -= 5
		reasons = append(reasons, fmt.Sprintf("Negative 1Y return (%.1f%%)", hr*100))
	}

	if metrics.Volatility < 0.2 {
		score += 5
		reasons = append(reasons, fmt.Sprintf("Low volatility (%.1f%%)", metrics.Volatility*100))
	} else if metrics.Volatility > 0.5 {
		score -= 5
		reasons = append(reasons, fmt.Sprintf("High volatility (%.1f%%)", metrics.Volatility*100))
	}

	switch sh := metrics.Sharpe; {
	case sh > 1:
		score += 10
		reasons = append(reasons, fmt.Sprintf("Excellent risk-adjusted returns (Sharpe: %.2f)", sh))
	case sh > 0.5:
		score += 5
		reasons = append(reasons, fmt.Sprintf("Good risk-adjusted returns (Sharpe: %.2f)", sh))
	case sh < 0:
		score -= 5
		reasons = append(reasons, fmt.Sprintf("Negative risk-adjusted returns (Sharpe: %.2f)", sh))
	}

	out := map[string]float64{
		"strength":          consensus.Strength,
		"historical_return": metrics.TotalReturn,
		"volatility":        metrics.Volatility,
		"sharpe_ratio":      metrics.Sharpe,
	}
	for k, v := range consensus.Indicators {
		out[k] = v
	}

	return contracts.CategoryScore{
		Score:      clampScore(score),
		Signal:     consensus.Action,
		Confidence: minFloat(1.0, math.Abs(score-50)/50+0.3),
		Rationale:  strings.Join(reasons, " | "),
		Metrics:    out,
	}
}
