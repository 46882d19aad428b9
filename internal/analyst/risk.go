package analyst

import (
	"fmt"
	"math"
	"strings"

	"github.com/wonny/vantage/backend/internal/contracts"
)

// Risk level labels from annualized volatility bands.
const (
	RiskLevelLow    = "low"
	RiskLevelMedium = "medium"
	RiskLevelHigh   = "high"
)

// Tolerance is a preference's risk acceptance envelope.
type Tolerance struct {
	MaxVolatility float64
	MinSharpe     float64
}

// ToleranceFor returns the thresholds for a risk preference.
func ToleranceFor(pref contracts.RiskPreference) Tolerance {
	switch pref {
	case contracts.RiskConservative:
		return Tolerance{MaxVolatility: 0.2, MinSharpe: 0.5}
	case contracts.RiskAggressive:
		return Tolerance{MaxVolatility: 0.8, MinSharpe: 0.0}
	default:
		return Tolerance{MaxVolatility: 0.4, MinSharpe: 0.3}
	}
}

// Within reports whether the metrics fit inside the envelope.
func (t Tolerance) Within(volatility, sharpe float64) bool {
	return volatility <= t.MaxVolatility && sharpe >= t.MinSharpe
}

// RiskLevel classifies annualized volatility.
func RiskLevel(volatility float64) string {
	switch {
	case volatility < 0.15:
		return RiskLevelLow
	case volatility < 0.3:
		return RiskLevelMedium
	default:
		return RiskLevelHigh
	}
}

// RiskAssessment is the risk analyst's output: the category score
// plus the level and tolerance verdict the ranker consumes.
type RiskAssessment struct {
	contracts.CategoryScore
	Level           string
	WithinTolerance bool
}

// Risk scores how well an asset's risk profile matches the investor
// preference. Falling outside the tolerance envelope costs 20 points
// and flips the binary input the ranker uses.
func Risk(ticker string, metrics ReturnMetrics, pref contracts.RiskPreference) RiskAssessment {
	level := RiskLevel(metrics.Volatility)
	within := ToleranceFor(pref).Within(metrics.Volatility, metrics.Sharpe)

	var score float64
	var reasons []string

	switch pref {
	case contracts.RiskConservative:
		switch level {
		case RiskLevelLow:
			score = 80
			reasons = append(reasons, "Low risk aligns with conservative profile")
		case RiskLevelMedium:
			score = 50
			reasons = append(reasons, "Medium risk is moderate for conservative investors")
		default:
			score = 20
			reasons = append(reasons, "High risk does not align with conservative profile")
		}
	case contracts.RiskAggressive:
		switch level {
		case RiskLevelHigh:
			score = 70
			reasons = append(reasons, "High risk acceptable for aggressive profile")
		case RiskLevelMedium:
			score = 60
			reasons = append(reasons, "Medium risk provides growth with some stability")
		default:
			score = 50
			reasons = append(reasons, "Low risk may limit return potential")
		}
	default:
		switch level {
		case RiskLevelMedium:
			score = 70
			reasons = append(reasons, "Medium risk aligns with moderate profile")
		case RiskLevelLow:
			score = 60
			reasons = append(reasons, "Low risk provides stability")
		default:
			score = 40
			reasons = append(reasons, "High risk may not align with moderate profile")
		}
	}

	if !within {
		score -= 20
		reasons = append(reasons, "Risk metrics outside tolerance thresholds")
	}

	reasons = append(reasons, fmt.Sprintf("%s: %s risk (vol: %.1f%%, Sharpe: %.2f)",
		ticker, level, metrics.Volatility*100, metrics.Sharpe))

	var signal contracts.Action
	switch {
	case score >= 60:
		signal = contracts.ActionBuy
	case score <= 40:
		signal = contracts.ActionSell
	default:
		signal = contracts.ActionHold
	}

	withinMetric := 0.0
	if within {
		withinMetric = 1.0
	}

	return RiskAssessment{
		CategoryScore: contracts.CategoryScore{
			Score:      clampScore(score),
			Signal:     signal,
			Confidence: minFloat(1.0, math.Abs(score-50)/50+0.3),
			Rationale:  strings.Join(reasons, " | "),
			Metrics: map[string]float64{
				"volatility":       metrics.Volatility,
				"sharpe_ratio":     metrics.Sharpe,
				"within_tolerance": withinMetric,
			},
		},
		Level:           level,
		WithinTolerance: within,
	}
}
