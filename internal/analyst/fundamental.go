package analyst

import (
	"fmt"
	"strings"

	"github.com/wonny/vantage/backend/internal/contracts"
)

// Fundamental scores P/E, market cap and dividend yield against
// fixed bands. Missing scalars contribute nothing and are annotated
// in the rationale, never treated as errors.
func Fundamental(f contracts.Fundamentals) contracts.CategoryScore {
	score := 50.0
	var reasons []string

	switch pe := f.PERatio; {
	case pe == 0:
		reasons = append(reasons, "P/E ratio unavailable")
	case pe < 0:
		score -= 10
		reasons = append(reasons, "Negative earnings")
	case pe < 15:
		score += 20
		reasons = append(reasons, fmt.Sprintf("Low P/E (%.1f) suggests undervaluation", pe))
	case pe < 25:
		score += 10
		reasons = append(reasons, fmt.Sprintf("Reasonable P/E (%.1f)", pe))
	case pe < 40:
		reasons = append(reasons, fmt.Sprintf("Elevated P/E (%.1f) pricing in growth", pe))
	default:
		score -= 10
		reasons = append(reasons, fmt.Sprintf("High P/E (%.1f) may indicate overvaluation", pe))
	}

	if mc := f.MarketCap; mc > 0 {
		switch {
		case mc > 200_000_000_000:
			score += 10
			reasons = append(reasons, "Mega-cap with stability")
		case mc > 50_000_000_000:
			score += 8
			reasons = append(reasons, "Large-cap company")
		case mc > 10_000_000_000:
			score += 5
			reasons = append(reasons, "Mid-cap with growth potential")
		case mc > 2_000_000_000:
			score += 2
			reasons = append(reasons, "Small-cap with higher risk/reward")
		default:
			score -= 5
			reasons = append(reasons, "Micro-cap with elevated risk")
		}
	}

	if dy := f.DividendYield; dy > 0 {
		switch {
		case dy > 0.05:
			score += 10
			reasons = append(reasons, fmt.Sprintf("Strong dividend yield (%.1f%%)", dy*100))
		case dy > 0.02:
			score += 5
			reasons = append(reasons, fmt.Sprintf("Moderate dividend (%.1f%%)", dy*100))
		default:
			score += 2
			reasons = append(reasons, fmt.Sprintf("Small dividend (%.2f%%)", dy*100))
		}
	}

	signal, confidence := signalFromScore(score, 70, 30)

	return contracts.CategoryScore{
		Score:      clampScore(score),
		Signal:     signal,
		Confidence: confidence,
		Rationale:  strings.Join(reasons, " | "),
		Metrics: map[string]float64{
			"pe_ratio":       f.PERatio,
			"market_cap":     f.MarketCap,
			"dividend_yield": f.DividendYield,
		},
	}
}

// signalFromScore maps a score to a directional call against the
// given buy/sell thresholds. Hold confidence is fixed at 0.5.
func signalFromScore(score, buyAt, sellAt float64) (contracts.Action, float64) {
	switch {
	case score >= buyAt:
		return contracts.ActionBuy, minFloat(1.0, (score-50)/50)
	case score <= sellAt:
		return contracts.ActionSell, minFloat(1.0, (50-score)/50)
	default:
		return contracts.ActionHold, 0.5
	}
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
