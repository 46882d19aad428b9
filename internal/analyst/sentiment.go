package analyst

import (
	"math"
	"strings"

	"github.com/wonny/vantage/backend/internal/contracts"
)

// Market mood labels derived from the 52-week range position.
const (
	MoodBullish = "bullish"
	MoodBearish = "bearish"
	MoodNeutral = "neutral"
)

// Mood classifies the position in the 52-week range: near the highs
// is bullish, near the lows bearish.
func Mood(position52w float64) string {
	switch {
	case position52w > 0.8:
		return MoodBullish
	case position52w < 0.2:
		return MoodBearish
	default:
		return MoodNeutral
	}
}

// Sentiment scores where the price sits in its 52-week range.
func Sentiment(position52w float64) contracts.CategoryScore {
	mood := Mood(position52w)

	var score float64
	var reasons []string

	switch mood {
	case MoodBullish:
		score = 70
		reasons = append(reasons, "Bullish market sentiment")
	case MoodBearish:
		score = 30
		reasons = append(reasons, "Bearish market sentiment")
	default:
		score = 50
		reasons = append(reasons, "Neutral market sentiment")
	}

	switch {
	case position52w > 0.9:
		score += 5
		reasons = append(reasons, "Trading at 52-week highs (momentum)")
	case position52w > 0.7:
		score += 10
		reasons = append(reasons, "Strong position in 52-week range")
	case position52w < 0.1:
		score -= 5
		reasons = append(reasons, "Trading at 52-week lows (potential value or distress)")
	case position52w < 0.3:
		score += 5
		reasons = append(reasons, "Potential value opportunity near 52-week lows")
	}

	var signal contracts.Action
	switch {
	case score >= 65:
		signal = contracts.ActionBuy
	case score <= 35:
		signal = contracts.ActionSell
	default:
		signal = contracts.ActionHold
	}

	return contracts.CategoryScore{
		Score:      clampScore(score),
		Signal:     signal,
		Confidence: minFloat(1.0, math.Abs(score-50)/50+0.2),
		Rationale:  strings.Join(reasons, " | "),
		Metrics: map[string]float64{
			"position_52w": position52w,
		},
	}
}
