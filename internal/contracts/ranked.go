package contracts

// Category identifies one of the four scoring dimensions.
type Category string

const (
	CategoryFundamental Category = "fundamental"
	CategoryTechnical   Category = "technical"
	CategorySentiment   Category = "sentiment"
	CategoryRisk        Category = "risk"
)

// RiskPreference selects the weight preset and risk tolerance.
type RiskPreference string

const (
	RiskConservative RiskPreference = "conservative"
	RiskModerate     RiskPreference = "moderate"
	RiskAggressive   RiskPreference = "aggressive"
)

// ParseRiskPreference normalizes a raw preference string, falling
// back to moderate for anything unrecognized.
func ParseRiskPreference(s string) RiskPreference {
	switch RiskPreference(s) {
	case RiskConservative, RiskModerate, RiskAggressive:
		return RiskPreference(s)
	default:
		return RiskModerate
	}
}

// CategoryScore is one analyst's verdict for one (asset, category).
// Score is 0-100, Confidence is 0-1.
type CategoryScore struct {
	Score      float64            `json:"score"`
	Signal     Action             `json:"signal"`
	Confidence float64            `json:"confidence"`
	Rationale  string             `json:"rationale"`
	Metrics    map[string]float64 `json:"metrics,omitempty"`
}

// ScoreSet holds the four category scores for one asset.
type ScoreSet struct {
	Fundamental CategoryScore `json:"fundamental"`
	Technical   CategoryScore `json:"technical"`
	Sentiment   CategoryScore `json:"sentiment"`
	Risk        CategoryScore `json:"risk"`
}

// ByCategory returns the score for the given category
func (s *ScoreSet) ByCategory(c Category) CategoryScore {
	switch c {
	case CategoryFundamental:
		return s.Fundamental
	case CategoryTechnical:
		return s.Technical
	case CategorySentiment:
		return s.Sentiment
	case CategoryRisk:
		return s.Risk
	}
	return CategoryScore{}
}

// RankedPick is one entry of a ranking run's output, ordered by
// CombinedScore descending with 1-based dense ranks.
// ⭐ SSOT: ranker → report/API result shape
type RankedPick struct {
	Rank              int      `json:"rank"`
	Ticker            string   `json:"ticker"`
	CurrentPrice      float64  `json:"current_price"`
	ExpectedYield     float64  `json:"expected_1y_yield"`
	Confidence        float64  `json:"confidence"`
	RiskLevel         string   `json:"risk_level"`
	AllocationPercent float64  `json:"allocation_percent"`
	AllocationAmount  float64  `json:"allocation_amount"`
	CombinedScore     float64  `json:"combined_score"`
	Scores            ScoreSet `json:"scores"`
	Rationale         string   `json:"rationale"`
}

// IsTopRanked checks if the pick is in the top N ranks
func (r *RankedPick) IsTopRanked(n int) bool {
	return r.Rank <= n && r.Rank > 0
}
