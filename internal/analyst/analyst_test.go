package analyst

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/vantage/backend/internal/contracts"
)

func TestCalculateReturns(t *testing.T) {
	closes := []float64{100, 110, 105, 120}

	m, ok := CalculateReturns(closes)
	require.True(t, ok)

	assert.InDelta(t, 0.2, m.TotalReturn, 1e-9)
	assert.Greater(t, m.Volatility, 0.0)
	assert.LessOrEqual(t, m.MaxDrawdown, 0.0)
	// Peak 110 to trough 105
	assert.InDelta(t, -5.0/110.0, m.MaxDrawdown, 1e-9)
}

func TestCalculateReturns_TooShort(t *testing.T) {
	_, ok := CalculateReturns([]float64{100})
	assert.False(t, ok)

	_, ok = CalculateReturns(nil)
	assert.False(t, ok)
}

func TestFundamental_ValueStock(t *testing.T) {
	score := Fundamental(contracts.Fundamentals{
		Ticker:        "VALU",
		PERatio:       12,
		MarketCap:     300_000_000_000,
		DividendYield: 0.06,
	})

	// 50 + 20 (low P/E) + 10 (mega-cap) + 10 (strong dividend)
	assert.Equal(t, 90.0, score.Score)
	assert.Equal(t, contracts.ActionBuy, score.Signal)
	assert.InDelta(t, 0.8, score.Confidence, 1e-9)
	assert.Contains(t, score.Rationale, "undervaluation")
}

func TestFundamental_MissingData(t *testing.T) {
	score := Fundamental(contracts.Fundamentals{Ticker: "NODATA"})

	assert.Equal(t, 50.0, score.Score)
	assert.Equal(t, contracts.ActionHold, score.Signal)
	assert.Equal(t, 0.5, score.Confidence)
	assert.Contains(t, score.Rationale, "P/E ratio unavailable")
}

func TestFundamental_OvervaluedMicroCap(t *testing.T) {
	score := Fundamental(contracts.Fundamentals{
		Ticker:    "HYPE",
		PERatio:   80,
		MarketCap: 500_000_000,
	})

	// 50 - 10 (high P/E) - 5 (micro-cap)
	assert.Equal(t, 35.0, score.Score)
	assert.Equal(t, contracts.ActionHold, score.Signal)
}

func TestTechnical_BuyConsensus(t *testing.T) {
	consensus := contracts.ConsensusSignal{
		Action:   contracts.ActionBuy,
		Strength: 0.8,
	}
	metrics := ReturnMetrics{TotalReturn: 0.25, Volatility: 0.18, Sharpe: 1.2}

	score := Technical(consensus, metrics)

	// 60 + 0.8*30 + 10 (strong return) + 5 (low vol) + 10 (sharpe)
	assert.Equal(t, 100.0, score.Score)
	assert.Equal(t, contracts.ActionBuy, score.Signal)
	assert.Equal(t, 1.0, score.Confidence)
}

func TestTechnical_SellConsensus(t *testing.T) {
	consensus := contracts.ConsensusSignal{
		Action:   contracts.ActionSell,
		Strength: 1.0,
	}
	metrics := ReturnMetrics{TotalReturn: -0.3, Volatility: 0.6, Sharpe: -0.5}

	score := Technical(consensus, metrics)

	// 40 - 30 - 10 (poor return) - 5 (high vol) - 5 (neg sharpe)
	assert.Equal(t, 0.0, score.Score)
	assert.Equal(t, contracts.ActionSell, score.Signal)
}

func TestTechnical_MergesIndicators(t *testing.T) {
	consensus := contracts.ConsensusSignal{
		Action:     contracts.ActionHold,
		Strength:   0.5,
		Indicators: map[string]float64{"rsi": 55},
	}

	score := Technical(consensus, ReturnMetrics{TotalReturn: 0.05, Volatility: 0.25})
	assert.Equal(t, 55.0, score.Metrics["rsi"])
	assert.Equal(t, 0.05, score.Metrics["historical_return"])
}

func TestSentiment(t *testing.T) {
	tests := []struct {
		name       string
		position   float64
		wantScore  float64
		wantSignal contracts.Action
	}{
		{"52w high momentum", 0.95, 75, contracts.ActionBuy},
		{"strong range position", 0.75, 60, contracts.ActionHold},
		{"mid range", 0.5, 50, contracts.ActionHold},
		{"near lows value", 0.25, 55, contracts.ActionHold},
		{"at lows", 0.05, 25, contracts.ActionSell},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := Sentiment(tt.position)
			assert.Equal(t, tt.wantScore, score.Score)
			assert.Equal(t, tt.wantSignal, score.Signal)
		})
	}
}

func TestMood(t *testing.T) {
	assert.Equal(t, MoodBullish, Mood(0.85))
	assert.Equal(t, MoodBearish, Mood(0.1))
	assert.Equal(t, MoodNeutral, Mood(0.5))
}

func TestToleranceFor(t *testing.T) {
	cons := ToleranceFor(contracts.RiskConservative)
	assert.Equal(t, 0.2, cons.MaxVolatility)
	assert.Equal(t, 0.5, cons.MinSharpe)

	mod := ToleranceFor(contracts.RiskModerate)
	assert.Equal(t, 0.4, mod.MaxVolatility)
	assert.Equal(t, 0.3, mod.MinSharpe)

	agg := ToleranceFor(contracts.RiskAggressive)
	assert.Equal(t, 0.8, agg.MaxVolatility)
	assert.Equal(t, 0.0, agg.MinSharpe)
}

func TestRiskLevel(t *testing.T) {
	assert.Equal(t, RiskLevelLow, RiskLevel(0.1))
	assert.Equal(t, RiskLevelMedium, RiskLevel(0.25))
	assert.Equal(t, RiskLevelHigh, RiskLevel(0.45))
}

func TestRisk_ConservativeLowVol(t *testing.T) {
	metrics := ReturnMetrics{Volatility: 0.1, Sharpe: 0.8}

	a := Risk("SAFE", metrics, contracts.RiskConservative)
	assert.Equal(t, 80.0, a.Score)
	assert.Equal(t, contracts.ActionBuy, a.Signal)
	assert.True(t, a.WithinTolerance)
	assert.Equal(t, RiskLevelLow, a.Level)
}

func TestRisk_OutsideTolerance(t *testing.T) {
	metrics := ReturnMetrics{Volatility: 0.5, Sharpe: -1}

	a := Risk("WILD", metrics, contracts.RiskModerate)
	// High risk under moderate = 40, minus 20 for tolerance breach
	assert.Equal(t, 20.0, a.Score)
	assert.Equal(t, contracts.ActionSell, a.Signal)
	assert.False(t, a.WithinTolerance)
	assert.Contains(t, a.Rationale, "outside tolerance")
}

func TestRisk_AggressiveHighVol(t *testing.T) {
	metrics := ReturnMetrics{Volatility: 0.5, Sharpe: 0.2}

	a := Risk("WILD", metrics, contracts.RiskAggressive)
	assert.Equal(t, 70.0, a.Score)
	assert.True(t, a.WithinTolerance)
}
