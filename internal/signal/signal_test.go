package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/vantage/backend/internal/contracts"
)

func seriesFromCloses(closes []float64) *contracts.PriceSeries {
	candles := make([]contracts.Candle, len(closes))
	for i, c := range closes {
		candles[i] = contracts.Candle{Open: c, High: c, Low: c, Close: c}
	}
	return &contracts.PriceSeries{Ticker: "TEST", Candles: candles}
}

func flatThen(n int, flat float64, tail ...float64) []float64 {
	closes := make([]float64, 0, n+len(tail))
	for i := 0; i < n; i++ {
		closes = append(closes, flat)
	}
	return append(closes, tail...)
}

func TestSMACrossover_BullishCross(t *testing.T) {
	// 50 flat bars then a jump: SMA20 crosses above SMA50 on the
	// final bar only.
	series := seriesFromCloses(flatThen(50, 100, 130))

	sig := SMACrossover(series)
	assert.Equal(t, contracts.ActionBuy, sig.Action)
	assert.Greater(t, sig.Strength, 0.0)
	assert.LessOrEqual(t, sig.Strength, 1.0)
	assert.Contains(t, sig.Rationale, "crossed above")
	assert.Contains(t, sig.Indicators, "sma_short")
}

func TestSMACrossover_NoDoubleFire(t *testing.T) {
	// One bar after the cross the averages are still ordered the
	// same way, so the call degrades to a trend hold.
	series := seriesFromCloses(flatThen(50, 100, 130, 130))

	sig := SMACrossover(series)
	assert.Equal(t, contracts.ActionHold, sig.Action)
	assert.Contains(t, sig.Rationale, "Uptrend")
}

func TestSMACrossover_Idempotent(t *testing.T) {
	series := seriesFromCloses(flatThen(50, 100, 130))

	first := SMACrossover(series)
	second := SMACrossover(series)
	assert.Equal(t, first.Action, second.Action)
	assert.Equal(t, first.Strength, second.Strength)
}

func TestSMACrossover_InsufficientHistory(t *testing.T) {
	series := seriesFromCloses([]float64{100, 101})

	sig := SMACrossover(series)
	assert.Equal(t, contracts.ActionHold, sig.Action)
	assert.Equal(t, 0.5, sig.Strength)
	assert.Contains(t, sig.Rationale, "Insufficient history")
}

func TestRSISignal_OversoldRecovery(t *testing.T) {
	// Sixteen straight losses pin RSI at 0, then a large gain lifts
	// it back above 30.
	closes := []float64{100}
	for i := 0; i < 16; i++ {
		closes = append(closes, closes[len(closes)-1]-2)
	}
	closes = append(closes, closes[len(closes)-1]+26)

	sig := RSISignal(seriesFromCloses(closes))
	assert.Equal(t, contracts.ActionBuy, sig.Action)
	assert.Equal(t, 1.0, sig.Strength)
	assert.Contains(t, sig.Rationale, "recovered from oversold")
}

func TestRSISignal_OversoldTerritory(t *testing.T) {
	closes := []float64{100}
	for i := 0; i < 16; i++ {
		closes = append(closes, closes[len(closes)-1]-2)
	}

	sig := RSISignal(seriesFromCloses(closes))
	assert.Equal(t, contracts.ActionHold, sig.Action)
	assert.Equal(t, 0.3, sig.Strength)
	assert.Contains(t, sig.Rationale, "oversold territory")
}

func TestBollingerSignal_LowerBandBuy(t *testing.T) {
	// A sharp dip below the lower band is a mean-reversion buy.
	series := seriesFromCloses(flatThen(19, 100, 90))

	sig := BollingerSignal(series)
	assert.Equal(t, contracts.ActionBuy, sig.Action)
	assert.Equal(t, 1.0, sig.Strength)
	assert.Contains(t, sig.Indicators, "band_position")
}

func TestMomentumSignal_StrongPositive(t *testing.T) {
	closes := make([]float64, 260)
	for i := range closes {
		closes[i] = 100 + float64(i)*0.2
	}

	sig := MomentumSignal(seriesFromCloses(closes))
	assert.Equal(t, contracts.ActionBuy, sig.Action)
	assert.Greater(t, sig.Strength, 0.1)
	assert.LessOrEqual(t, sig.Strength, 1.0)
}

func TestMomentumSignal_ShortHistoryFallback(t *testing.T) {
	// Shorter than the lookback: shrink to len-1 and still answer.
	closes := []float64{100, 105, 110, 125}

	sig := MomentumSignal(seriesFromCloses(closes))
	assert.Equal(t, contracts.ActionBuy, sig.Action)
	assert.GreaterOrEqual(t, sig.Strength, 0.0)
	assert.LessOrEqual(t, sig.Strength, 1.0)
}

func TestMomentumSignal_Divergence(t *testing.T) {
	// Long uptrend with a recent slide: long-term positive,
	// short-term negative, asymmetric hold.
	closes := make([]float64, 260)
	for i := range closes {
		closes[i] = 100 + float64(i)*0.5
	}
	for i := 240; i < 260; i++ {
		closes[i] = closes[239] - float64(i-239)*2
	}

	sig := MomentumSignal(seriesFromCloses(closes))
	assert.Equal(t, contracts.ActionHold, sig.Action)
	assert.Equal(t, 0.4, sig.Strength)
}

func TestAllGenerators_StrengthBounds(t *testing.T) {
	cases := map[string]*contracts.PriceSeries{
		"length two":   seriesFromCloses([]float64{100, 101}),
		"flat":         seriesFromCloses(flatThen(60, 100)),
		"rising":       seriesFromCloses(makeLinear(300, 50, 1)),
		"falling":      seriesFromCloses(makeLinear(300, 400, -1)),
		"single spike": seriesFromCloses(flatThen(59, 100, 500)),
	}

	for name, series := range cases {
		t.Run(name, func(t *testing.T) {
			for _, g := range All() {
				sig := g(series)
				require.GreaterOrEqual(t, sig.Strength, 0.0, "generator %s", sig.Name)
				require.LessOrEqual(t, sig.Strength, 1.0, "generator %s", sig.Name)
				require.Contains(t, []contracts.Action{
					contracts.ActionBuy, contracts.ActionSell, contracts.ActionHold,
				}, sig.Action)
			}
		})
	}
}

func makeLinear(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func TestAggregate_UnanimousBuy(t *testing.T) {
	signals := make([]contracts.Signal, 5)
	for i := range signals {
		signals[i] = contracts.Signal{Action: contracts.ActionBuy, Strength: 0.8, Rationale: "bullish"}
	}

	consensus := Aggregate(signals)
	assert.Equal(t, contracts.ActionBuy, consensus.Action)
	assert.InDelta(t, 0.8, consensus.Strength, 1e-9)
}

func TestAggregate_MixedBelowThreshold(t *testing.T) {
	signals := []contracts.Signal{
		{Action: contracts.ActionBuy, Strength: 0.5},
		{Action: contracts.ActionBuy, Strength: 0.5},
		{Action: contracts.ActionSell, Strength: 0.5},
		{Action: contracts.ActionSell, Strength: 0.5},
		{Action: contracts.ActionHold, Strength: 0.5},
	}

	consensus := Aggregate(signals)
	assert.Equal(t, contracts.ActionHold, consensus.Action)
	assert.Equal(t, 0.5, consensus.Strength)
	assert.Equal(t, "Mixed signals - no clear consensus", consensus.Rationale)
}

func TestAggregate_MinorityStrongVoteWeightedDown(t *testing.T) {
	// One strong buy against four holds: 1.0/5 = 0.2 stays under
	// the 0.3 threshold.
	signals := []contracts.Signal{
		{Action: contracts.ActionBuy, Strength: 1.0},
		{Action: contracts.ActionHold, Strength: 0.5},
		{Action: contracts.ActionHold, Strength: 0.5},
		{Action: contracts.ActionHold, Strength: 0.5},
		{Action: contracts.ActionHold, Strength: 0.5},
	}

	consensus := Aggregate(signals)
	assert.Equal(t, contracts.ActionHold, consensus.Action)
}

func TestAggregate_IndicatorMergeLaterWins(t *testing.T) {
	signals := []contracts.Signal{
		{Action: contracts.ActionBuy, Strength: 0.9, Indicators: map[string]float64{"rsi": 25, "shared": 1}},
		{Action: contracts.ActionBuy, Strength: 0.9, Indicators: map[string]float64{"macd": 2, "shared": 7}},
	}

	consensus := Aggregate(signals)
	assert.Equal(t, contracts.ActionBuy, consensus.Action)
	assert.Equal(t, 7.0, consensus.Indicators["shared"])
	assert.Equal(t, 25.0, consensus.Indicators["rsi"])
}

func TestAggregate_Empty(t *testing.T) {
	consensus := Aggregate(nil)
	assert.Equal(t, contracts.ActionHold, consensus.Action)
	assert.Equal(t, 0.5, consensus.Strength)
}

func TestAnalyze(t *testing.T) {
	series := seriesFromCloses(makeLinear(300, 100, 0.5))

	signals, consensus := Analyze(series)
	require.Len(t, signals, 5)
	assert.NotEmpty(t, consensus.Action)
	for _, s := range signals {
		assert.NotEmpty(t, s.Name)
	}
}
