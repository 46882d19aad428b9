// Package ranking combines per-asset category scores into a ranked,
// budget-allocated pick list.
package ranking

import "github.com/wonny/vantage/backend/internal/contracts"

// Weights is a risk preference's category weighting. The four
// weights sum to 1.0.
type Weights struct {
	Fundamental float64
	Technical   float64
	Sentiment   float64
	Risk        float64
}

// WeightsFor returns the preset for a risk preference.
func WeightsFor(pref contracts.RiskPreference) Weights {
	switch pref {
	case contracts.RiskConservative:
		return Weights{Fundamental: 0.4, Technical: 0.2, Sentiment: 0.1, Risk: 0.3}
	case contracts.RiskAggressive:
		return Weights{Fundamental: 0.2, Technical: 0.4, Sentiment: 0.2, Risk: 0.2}
	default:
		return Weights{Fundamental: 0.3, Technical: 0.3, Sentiment: 0.15, Risk: 0.25}
	}
}

// Binary risk inputs: an asset inside its preference's tolerance
// envelope contributes 100, outside 30.
const (
	riskScoreWithin  = 100.0
	riskScoreOutside = 30.0
)
