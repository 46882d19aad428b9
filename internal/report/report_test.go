package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/vantage/backend/internal/contracts"
)

func TestGenerate(t *testing.T) {
	in := Input{
		GeneratedAt:    time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		Budget:         500,
		RiskPreference: contracts.RiskModerate,
		AssetClasses:   []string{"stocks", "etfs"},
		UniverseSize:   50,
		Picks: []contracts.RankedPick{
			{
				Rank:              1,
				Ticker:            "AAPL",
				CurrentPrice:      189.25,
				ExpectedYield:     0.142,
				Confidence:        0.72,
				RiskLevel:         "medium",
				AllocationPercent: 55.0,
				AllocationAmount:  275.0,
				Rationale:         "Fundamental: Strong fundamentals | Technical: Uptrend",
			},
			{
				Rank:              2,
				Ticker:            "SPY",
				CurrentPrice:      512.10,
				ExpectedYield:     0.08,
				Confidence:        0.65,
				RiskLevel:         "low",
				AllocationPercent: 45.0,
				AllocationAmount:  225.0,
			},
		},
	}

	md := Generate(in)

	assert.True(t, strings.HasPrefix(md, "# Investment Research Report\n"))
	assert.Contains(t, md, "Generated: 2026-03-14 09:30:00 UTC")
	assert.Contains(t, md, "- Budget: $500.00")
	assert.Contains(t, md, "- Risk Profile: Moderate")
	assert.Contains(t, md, "- Asset Classes: stocks, etfs")
	assert.Contains(t, md, "- Universe Screened: 50 assets")
	assert.Contains(t, md, "## Top 2 Investment Picks")
	assert.Contains(t, md, "### 1. AAPL")
	assert.Contains(t, md, "- Current Price: $189.25")
	assert.Contains(t, md, "- Expected 1Y Yield: 14.2%")
	assert.Contains(t, md, "- Confidence Score: 72%")
	assert.Contains(t, md, "- Risk Level: Medium")
	assert.Contains(t, md, "- Recommended Allocation: 55.0% ($275.00)")
	assert.Contains(t, md, "- Rationale: Fundamental: Strong fundamentals | Technical: Uptrend")
	assert.Contains(t, md, "### 2. SPY")
	assert.Contains(t, md, "## Disclaimer")
	assert.Contains(t, md, "not financial advice")

	// A pick without a rationale omits the rationale line entirely.
	spyBlock := md[strings.Index(md, "### 2. SPY"):]
	assert.NotContains(t, spyBlock[:strings.Index(spyBlock, "## Disclaimer")], "Rationale")
}

func TestGenerateNoPicks(t *testing.T) {
	md := Generate(Input{
		GeneratedAt:    time.Now(),
		Budget:         1000,
		RiskPreference: contracts.RiskConservative,
		AssetClasses:   []string{"crypto"},
	})

	assert.Contains(t, md, "## Top 0 Investment Picks")
	assert.Contains(t, md, "## Disclaimer")
}
