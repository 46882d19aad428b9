package ranking

import (
	"fmt"
	"sort"
	"strings"

	"github.com/wonny/vantage/backend/internal/contracts"
)

// TopN is how many picks a ranking run keeps.
const TopN = 10

// Asset is one candidate entering a ranking run: the four analyst
// scores plus the context the pick report needs.
type Asset struct {
	Ticker            string
	CurrentPrice      float64
	Scores            contracts.ScoreSet
	RiskLevel         string
	WithinTolerance   bool
	HistoricalReturn  float64
	TechnicalSignal   contracts.Action
	TechnicalStrength float64
}

// Rank scores, orders and budget-allocates the universe. Ties keep
// the original universe order. The returned map is ticker to
// allocation percent over the kept picks.
func Rank(assets []Asset, pref contracts.RiskPreference, budget float64) ([]contracts.RankedPick, map[string]float64) {
	if len(assets) == 0 {
		return nil, map[string]float64{}
	}

	w := WeightsFor(pref)

	type scored struct {
		asset    Asset
		combined float64
	}
	candidates := make([]scored, len(assets))
	for i, a := range assets {
		riskScore := riskScoreOutside
		if a.WithinTolerance {
			riskScore = riskScoreWithin
		}
		candidates[i] = scored{
			asset: a,
			combined: a.Scores.Fundamental.Score*w.Fundamental +
				a.Scores.Technical.Score*w.Technical +
				a.Scores.Sentiment.Score*w.Sentiment +
				riskScore*w.Risk,
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].combined > candidates[j].combined
	})

	if len(candidates) > TopN {
		candidates = candidates[:TopN]
	}

	totalScore := 0.0
	for _, c := range candidates {
		totalScore += c.combined
	}

	picks := make([]contracts.RankedPick, 0, len(candidates))
	allocations := make(map[string]float64, len(candidates))
	for i, c := range candidates {
		allocationPct := 10.0
		if totalScore > 0 {
			allocationPct = c.combined / totalScore * 100
		}
		allocations[c.asset.Ticker] = allocationPct

		picks = append(picks, contracts.RankedPick{
			Rank:              i + 1,
			Ticker:            c.asset.Ticker,
			CurrentPrice:      c.asset.CurrentPrice,
			ExpectedYield:     expectedYield(c.asset),
			Confidence:        c.combined / 100,
			RiskLevel:         c.asset.RiskLevel,
			AllocationPercent: allocationPct,
			AllocationAmount:  budget * allocationPct / 100,
			CombinedScore:     c.combined,
			Scores:            c.asset.Scores,
			Rationale:         buildRationale(c.asset),
		})
	}

	return picks, allocations
}

// expectedYield estimates the 1-year yield from the historical
// return scaled by the technical call, clamped to [-0.5, 1.0].
func expectedYield(a Asset) float64 {
	var yield float64
	switch a.TechnicalSignal {
	case contracts.ActionBuy:
		yield = a.HistoricalReturn * (1 + a.TechnicalStrength*0.5)
	case contracts.ActionSell:
		yield = a.HistoricalReturn * 0.5
	default:
		yield = a.HistoricalReturn * 0.8
	}

	if yield < -0.5 {
		return -0.5
	}
	if yield > 1.0 {
		return 1.0
	}
	return yield
}

// buildRationale concatenates the category rationales, one labeled
// segment per category with a non-empty rationale.
func buildRationale(a Asset) string {
	var parts []string
	for _, entry := range []struct {
		label string
		score contracts.CategoryScore
	}{
		{"Fundamental", a.Scores.Fundamental},
		{"Technical", a.Scores.Technical},
		{"Sentiment", a.Scores.Sentiment},
		{"Risk", a.Scores.Risk},
	} {
		if entry.score.Rationale != "" {
			parts = append(parts, fmt.Sprintf("%s: %s", entry.label, entry.score.Rationale))
		}
	}
	return strings.Join(parts, " | ")
}
