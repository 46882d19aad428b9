package backtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/vantage/backend/internal/contracts"
)

func seriesFromCloses(ticker string, closes []float64) *contracts.PriceSeries {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	candles := make([]contracts.Candle, len(closes))
	for i, c := range closes {
		candles[i] = contracts.Candle{
			Date:  start.AddDate(0, 0, i),
			Open:  c,
			High:  c,
			Low:   c,
			Close: c,
		}
	}
	return &contracts.PriceSeries{Ticker: ticker, Candles: candles}
}

func monotonicSeries(n int, from, to float64) *contracts.PriceSeries {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = from + (to-from)*float64(i)/float64(n-1)
	}
	return seriesFromCloses("MONO", closes)
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		input string
		want  Strategy
	}{
		{"buy_and_hold", BuyAndHold},
		{"sma_crossover", SMACrossover},
		{"macd", MACDCrossover},
		{"rsi_reversal", RSIReversal},
		{"momentum", Momentum},
		{"mean_reversion", MeanReversion},
		{"martingale", BuyAndHold},
		{"", BuyAndHold},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseStrategy(tt.input); got != tt.want {
				t.Errorf("ParseStrategy(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestRun_BuyAndHoldDoubling(t *testing.T) {
	series := monotonicSeries(252, 100, 200)

	result, err := Run(series, BuyAndHold, 10000)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, result.TotalReturn, 1e-9)
	assert.InDelta(t, 20000, result.FinalValue, 1e-6)

	require.Len(t, result.Trades, 1)
	assert.Equal(t, contracts.TradeOpen, result.Trades[0].Kind)
	assert.Empty(t, result.ClosedTrades())
	assert.Equal(t, 0.0, result.WinRate)
}

func TestRun_EmptySeries(t *testing.T) {
	_, err := Run(&contracts.PriceSeries{Ticker: "EMPTY"}, BuyAndHold, 10000)
	assert.ErrorIs(t, err, ErrEmptySeries)
}

func TestRun_DefaultCapital(t *testing.T) {
	series := monotonicSeries(30, 100, 110)

	result, err := Run(series, BuyAndHold, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultInitialCapital, result.InitialCapital)
}

func TestRun_MaxDrawdownBounds(t *testing.T) {
	// A crash and partial recovery.
	closes := []float64{100, 120, 60, 30, 45, 80}

	result, err := Run(seriesFromCloses("CRASH", closes), BuyAndHold, 10000)
	require.NoError(t, err)

	assert.LessOrEqual(t, result.MaxDrawdown, 0.0)
	assert.GreaterOrEqual(t, result.MaxDrawdown, -1.0)
	// Peak 120 to trough 30
	assert.InDelta(t, -0.75, result.MaxDrawdown, 1e-9)
}

func TestRun_FlatSeriesZeroSharpe(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100
	}

	result, err := Run(seriesFromCloses("FLAT", closes), BuyAndHold, 10000)
	require.NoError(t, err)

	assert.Equal(t, 0.0, result.Sharpe)
	assert.Equal(t, 0.0, result.Sortino)
	assert.Equal(t, 0.0, result.Volatility)
	assert.Equal(t, 0.0, result.TotalReturn)
}

func TestRun_SMACrossoverWarmUp(t *testing.T) {
	// Equity stays pure cash through the warm-up even on a strong
	// trend that would otherwise trigger entries.
	series := monotonicSeries(49, 100, 200)

	result, err := Run(series, SMACrossover, 10000)
	require.NoError(t, err)

	assert.Empty(t, result.Trades)
	assert.Equal(t, 0.0, result.TotalReturn)
}

func TestRun_MeanReversionRoundTrip(t *testing.T) {
	// Flat regime, a sharp dip below the lower band, then recovery
	// to the mean: exactly one open and one winning close.
	closes := make([]float64, 0, 45)
	for i := 0; i < 30; i++ {
		closes = append(closes, 100+0.5*float64(i%3))
	}
	closes = append(closes, 80)           // entry bar
	closes = append(closes, 85, 90, 101)  // recovery crosses the SMA
	for i := 0; i < 10; i++ {
		closes = append(closes, 101)
	}

	result, err := Run(seriesFromCloses("REV", closes), MeanReversion, 10000)
	require.NoError(t, err)

	closed := result.ClosedTrades()
	require.NotEmpty(t, result.Trades)
	require.Len(t, closed, 1)
	assert.Greater(t, closed[0].RealizedPnL, 0.0)
	assert.Equal(t, 1.0, result.WinRate)
}

func TestRun_MomentumEntersOnTrend(t *testing.T) {
	series := monotonicSeries(300, 100, 300)

	result, err := Run(series, Momentum, 10000)
	require.NoError(t, err)

	require.NotEmpty(t, result.Trades)
	assert.Equal(t, contracts.TradeOpen, result.Trades[0].Kind)
	assert.Greater(t, result.TotalReturn, 0.0)
}

func TestRun_EquityCurveDownsampled(t *testing.T) {
	series := monotonicSeries(1000, 100, 150)

	result, err := Run(series, BuyAndHold, 10000)
	require.NoError(t, err)

	require.NotEmpty(t, result.EquityCurve)
	assert.LessOrEqual(t, len(result.EquityCurve), 102)

	first := result.EquityCurve[0]
	last := result.EquityCurve[len(result.EquityCurve)-1]
	assert.Equal(t, series.Candles[0].Date, first.Date)
	assert.Equal(t, series.Candles[999].Date, last.Date)

	// Round-trip: curve endpoints reproduce the total return.
	assert.InDelta(t, result.TotalReturn, (last.Value-first.Value)/first.Value, 1e-9)
}

func TestRun_ShortSeriesKeepsEveryBar(t *testing.T) {
	series := monotonicSeries(10, 100, 110)

	result, err := Run(series, BuyAndHold, 10000)
	require.NoError(t, err)
	assert.Len(t, result.EquityCurve, 10)
}

func TestRun_AnnualizedReturn(t *testing.T) {
	// Doubling over exactly one trading year annualizes to 100%.
	series := monotonicSeries(252, 100, 200)

	result, err := Run(series, BuyAndHold, 10000)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, result.AnnualizedReturn, 1e-9)
}

func TestStrategies_Closed(t *testing.T) {
	all := Strategies()
	assert.Len(t, all, 6)
	for id := range all {
		assert.Equal(t, id, ParseStrategy(string(id)))
	}
}
