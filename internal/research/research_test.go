package research

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/vantage/backend/internal/contracts"
	"github.com/wonny/vantage/backend/internal/marketdata"
	"github.com/wonny/vantage/backend/pkg/config"
	"github.com/wonny/vantage/backend/pkg/logger"
)

type fakeProvider struct {
	mu           sync.Mutex
	series       map[string]*contracts.PriceSeries
	historyFail  map[string]bool
	quoteFail    map[string]bool
	historyCalls int
}

func (f *fakeProvider) History(ctx context.Context, ticker, period, interval string) (*contracts.PriceSeries, error) {
	f.mu.Lock()
	f.historyCalls++
	f.mu.Unlock()

	if f.historyFail[ticker] {
		return nil, fmt.Errorf("%w: no chart data for %s", marketdata.ErrUnavailable, ticker)
	}
	series, ok := f.series[ticker]
	if !ok {
		return nil, fmt.Errorf("%w: unknown ticker %s", marketdata.ErrUnavailable, ticker)
	}
	return series, nil
}

func (f *fakeProvider) Quote(ctx context.Context, ticker string) (*contracts.Quote, error) {
	if f.quoteFail[ticker] {
		return nil, fmt.Errorf("%w: quote fetch for %s", marketdata.ErrUnavailable, ticker)
	}
	series := f.series[ticker]
	return &contracts.Quote{
		Ticker:    ticker,
		Price:     series.LastClose(),
		Timestamp: time.Now().UTC(),
	}, nil
}

func (f *fakeProvider) Fundamentals(ctx context.Context, ticker string) (*contracts.Fundamentals, error) {
	series := f.series[ticker]
	last := series.LastClose()
	return &contracts.Fundamentals{
		Ticker:        ticker,
		PERatio:       18,
		MarketCap:     300e9,
		DividendYield: 0.01,
		High52W:       last * 1.1,
		Low52W:        last * 0.6,
	}, nil
}

func trendSeries(ticker string, n int, start, step float64) *contracts.PriceSeries {
	series := &contracts.PriceSeries{Ticker: ticker}
	date := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	price := start
	for i := 0; i < n; i++ {
		series.Candles = append(series.Candles, contracts.Candle{
			Date:   date,
			Open:   price,
			High:   price * 1.01,
			Low:    price * 0.99,
			Close:  price,
			Volume: 1000,
		})
		price += step
		date = date.AddDate(0, 0, 1)
	}
	return series
}

func testPipeline(t *testing.T, provider marketdata.Provider) *Pipeline {
	t.Helper()
	cfg := &config.Config{
		Pipeline: config.PipelineConfig{
			FetchWorkers: 4,
			FetchTimeout: 5 * time.Second,
			MaxUniverse:  50,
		},
	}
	return New(provider, nil, cfg, logger.NewNop())
}

func TestPipelineRun(t *testing.T) {
	provider := &fakeProvider{
		series: map[string]*contracts.PriceSeries{
			"AAPL": trendSeries("AAPL", 300, 100, 0.3),
			"MSFT": trendSeries("MSFT", 300, 400, -0.2),
			"SPY":  trendSeries("SPY", 300, 500, 0.1),
		},
		historyFail: map[string]bool{"MSFT": true},
	}

	pipeline := testPipeline(t, provider)
	result, err := pipeline.Run(context.Background(), Request{
		AssetClasses:   []string{"stocks", "etfs"},
		Budget:         1000,
		RiskPreference: contracts.RiskModerate,
		Tickers:        []string{"AAPL", "MSFT", "SPY"},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, result.UniverseSize)
	assert.Equal(t, []string{"MSFT"}, result.Dropped)
	require.Len(t, result.Picks, 2)

	// Ranks are dense and allocations cover the whole budget.
	total := 0.0
	for i, pick := range result.Picks {
		assert.Equal(t, i+1, pick.Rank)
		assert.Greater(t, pick.AllocationPercent, 0.0)
		assert.InDelta(t, 1000*pick.AllocationPercent/100, pick.AllocationAmount, 1e-9)
		total += pick.AllocationPercent
	}
	assert.InDelta(t, 100.0, total, 1e-9)

	assert.Contains(t, result.Report, "# Investment Research Report")
	assert.Contains(t, result.Report, "### 1. ")
	assert.Contains(t, result.Report, "- Budget: $1000.00")
}

func TestPipelineDefaults(t *testing.T) {
	provider := &fakeProvider{
		series: map[string]*contracts.PriceSeries{
			"AAPL": trendSeries("AAPL", 300, 100, 0.3),
		},
	}

	pipeline := testPipeline(t, provider)
	result, err := pipeline.Run(context.Background(), Request{Tickers: []string{"AAPL"}})
	require.NoError(t, err)

	assert.Equal(t, float64(DefaultBudget), result.Budget)
	assert.Equal(t, contracts.RiskModerate, result.RiskPreference)
}

func TestPipelineUniverseCap(t *testing.T) {
	series := make(map[string]*contracts.PriceSeries)
	for _, ticker := range marketdata.TopStocks {
		series[ticker] = trendSeries(ticker, 120, 50, 0.1)
	}

	pipeline := testPipeline(t, &fakeProvider{series: series})
	pipeline.cfg.Pipeline.MaxUniverse = 5

	result, err := pipeline.Run(context.Background(), Request{AssetClasses: []string{"stocks"}})
	require.NoError(t, err)

	assert.Equal(t, 5, result.UniverseSize)
	assert.Empty(t, result.Dropped)
}

func TestPipelineQuoteFallsBackToLastClose(t *testing.T) {
	provider := &fakeProvider{
		series:    map[string]*contracts.PriceSeries{"AAPL": trendSeries("AAPL", 300, 100, 0.3)},
		quoteFail: map[string]bool{"AAPL": true},
	}

	pipeline := testPipeline(t, provider)
	result, err := pipeline.Run(context.Background(), Request{Tickers: []string{"AAPL"}})
	require.NoError(t, err)

	require.Len(t, result.Picks, 1)
	assert.InDelta(t, provider.series["AAPL"].LastClose(), result.Picks[0].CurrentPrice, 1e-9)
}

func TestPipelineAllTickersFail(t *testing.T) {
	// Every fetch failing empties the universe; that yields an empty
	// result set, not an error.
	provider := &fakeProvider{
		series:      map[string]*contracts.PriceSeries{},
		historyFail: map[string]bool{"AAPL": true, "SPY": true},
	}

	pipeline := testPipeline(t, provider)
	result, err := pipeline.Run(context.Background(), Request{Tickers: []string{"AAPL", "SPY"}})
	require.NoError(t, err)

	assert.Empty(t, result.Picks)
	assert.ElementsMatch(t, []string{"AAPL", "SPY"}, result.Dropped)
	assert.Contains(t, result.Report, "## Top 0 Investment Picks")
}

func TestPipelineEmptyUniverse(t *testing.T) {
	pipeline := testPipeline(t, &fakeProvider{})
	result, err := pipeline.Run(context.Background(), Request{AssetClasses: []string{"bonds"}})
	require.NoError(t, err)

	assert.Equal(t, 0, result.UniverseSize)
	assert.Empty(t, result.Picks)
}

func TestPipelineProgressEvents(t *testing.T) {
	provider := &fakeProvider{
		series: map[string]*contracts.PriceSeries{
			"AAPL": trendSeries("AAPL", 300, 100, 0.3),
			"SPY":  trendSeries("SPY", 300, 500, 0.1),
		},
	}

	var mu sync.Mutex
	var events []Progress
	pipeline := testPipeline(t, provider).WithProgress(func(p Progress) {
		mu.Lock()
		events = append(events, p)
		mu.Unlock()
	})

	_, err := pipeline.Run(context.Background(), Request{Tickers: []string{"AAPL", "SPY"}})
	require.NoError(t, err)

	require.Len(t, events, totalStages)
	stages := make([]string, len(events))
	for i, e := range events {
		stages[i] = e.Stage
		assert.Equal(t, i+1, e.Completed)
		assert.Equal(t, totalStages, e.Total)
	}
	assert.Equal(t, []string{
		StageUniverse, StageFetch, StageFundamental, StageTechnical,
		StageSentiment, StageRisk, StageRank, StageReport,
	}, stages)
}

func TestPipelineDeterministicTieBreak(t *testing.T) {
	// Identical series produce identical scores; universe order must
	// decide the ranking.
	series := map[string]*contracts.PriceSeries{
		"AAPL": trendSeries("AAPL", 300, 100, 0.3),
		"SPY":  trendSeries("SPY", 300, 100, 0.3),
	}
	provider := &fakeProvider{series: series}

	pipeline := testPipeline(t, provider)
	for i := 0; i < 3; i++ {
		result, err := pipeline.Run(context.Background(), Request{Tickers: []string{"AAPL", "SPY"}})
		require.NoError(t, err)
		require.Len(t, result.Picks, 2)
		assert.Equal(t, "AAPL", result.Picks[0].Ticker)
		assert.Equal(t, "SPY", result.Picks[1].Ticker)
	}
}

func TestPipelineContextCancelled(t *testing.T) {
	provider := &fakeProvider{
		series: map[string]*contracts.PriceSeries{"AAPL": trendSeries("AAPL", 300, 100, 0.3)},
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pipeline := testPipeline(t, provider)
	_, err := pipeline.Run(ctx, Request{Tickers: []string{"AAPL"}})
	require.Error(t, err)
}
