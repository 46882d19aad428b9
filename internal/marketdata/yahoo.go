package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/wonny/vantage/backend/internal/contracts"
	"github.com/wonny/vantage/backend/pkg/config"
	"github.com/wonny/vantage/backend/pkg/httputil"
	"github.com/wonny/vantage/backend/pkg/logger"
	"github.com/wonny/vantage/backend/pkg/redis"
)

// YahooClient fetches market data from a Yahoo-style chart/quote
// JSON API, with client-side rate limiting and a Redis cache in
// front of the network.
type YahooClient struct {
	http     *httputil.Client
	limiter  *rate.Limiter
	cache    *redis.Cache
	logger   *logger.Logger
	fallback QuoteProvider

	chartBaseURL string
	quoteBaseURL string
}

// NewYahooClient creates a provider from config. cache may be a
// disabled cache; fallback may be nil.
func NewYahooClient(cfg *config.Config, log *logger.Logger, cache *redis.Cache, fallback QuoteProvider) *YahooClient {
	return &YahooClient{
		http:         httputil.New(log, cfg.Provider.Timeout),
		limiter:      rate.NewLimiter(rate.Limit(cfg.Provider.RatePerSec), cfg.Provider.RateBurst),
		cache:        cache,
		logger:       log,
		fallback:     fallback,
		chartBaseURL: cfg.Provider.ChartBaseURL,
		quoteBaseURL: cfg.Provider.QuoteBaseURL,
	}
}

// chartResponse is the subset of the chart API payload we consume.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []float64 `json:"open"`
					High   []float64 `json:"high"`
					Low    []float64 `json:"low"`
					Close  []float64 `json:"close"`
					Volume []float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// History fetches an OHLCV series. Results are cached for an hour.
func (c *YahooClient) History(ctx context.Context, ticker, period, interval string) (*contracts.PriceSeries, error) {
	cacheKey := redis.HistoryKey(ticker, period, interval)
	var cached contracts.PriceSeries
	if hit, err := c.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return &cached, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	reqURL := fmt.Sprintf("%s/%s?range=%s&interval=%s",
		c.chartBaseURL, url.PathEscape(ticker), url.QueryEscape(period), url.QueryEscape(interval))

	resp, err := c.http.Get(ctx, reqURL)
	if err != nil {
		return nil, fmt.Errorf("%w: chart fetch for %s: %v", ErrUnavailable, ticker, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: chart fetch for %s: status %d", ErrUnavailable, ticker, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: chart read for %s: %v", ErrUnavailable, ticker, err)
	}

	var parsed chartResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: chart decode for %s: %v", ErrUnavailable, ticker, err)
	}
	if parsed.Chart.Error != nil || len(parsed.Chart.Result) == 0 {
		return nil, fmt.Errorf("%w: no chart data for %s", ErrUnavailable, ticker)
	}

	result := parsed.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("%w: no quote columns for %s", ErrUnavailable, ticker)
	}
	quote := result.Indicators.Quote[0]

	series := &contracts.PriceSeries{Ticker: ticker}
	for i, ts := range result.Timestamp {
		// The API pads partial sessions with zero closes; skip them.
		if i >= len(quote.Close) || quote.Close[i] == 0 {
			continue
		}
		series.Candles = append(series.Candles, contracts.Candle{
			Date:   time.Unix(ts, 0).UTC(),
			Open:   at(quote.Open, i),
			High:   at(quote.High, i),
			Low:    at(quote.Low, i),
			Close:  quote.Close[i],
			Volume: at(quote.Volume, i),
		})
	}

	if len(series.Candles) == 0 {
		return nil, fmt.Errorf("%w: empty history for %s", ErrUnavailable, ticker)
	}

	if err := c.cache.Set(ctx, cacheKey, series, redis.TTLHistory); err != nil {
		c.logger.WithError(err).Warn("history cache write failed")
	}
	return series, nil
}

func at(values []float64, i int) float64 {
	if i < len(values) {
		return values[i]
	}
	return 0
}

// quoteResponse is the subset of the quote API payload we consume.
type quoteResponse struct {
	QuoteResponse struct {
		Result []struct {
			Symbol                     string  `json:"symbol"`
			RegularMarketPrice         float64 `json:"regularMarketPrice"`
			RegularMarketChange        float64 `json:"regularMarketChange"`
			RegularMarketChangePercent float64 `json:"regularMarketChangePercent"`
			RegularMarketVolume        float64 `json:"regularMarketVolume"`
			TrailingPE                 float64 `json:"trailingPE"`
			MarketCap                  float64 `json:"marketCap"`
			DividendYield              float64 `json:"trailingAnnualDividendYield"`
			FiftyTwoWeekHigh           float64 `json:"fiftyTwoWeekHigh"`
			FiftyTwoWeekLow            float64 `json:"fiftyTwoWeekLow"`
		} `json:"result"`
	} `json:"quoteResponse"`
}

// Quote fetches a live quote, trying the HTML fallback scraper when
// the JSON API fails. Quotes are cached for a minute.
func (c *YahooClient) Quote(ctx context.Context, ticker string) (*contracts.Quote, error) {
	cacheKey := redis.QuoteKey(ticker)
	var cached contracts.Quote
	if hit, err := c.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return &cached, nil
	}

	q, err := c.fetchQuote(ctx, ticker)
	if err != nil {
		if c.fallback == nil {
			return nil, err
		}
		c.logger.WithError(err).WithField("ticker", ticker).Warn("quote API failed, trying scrape fallback")
		q, err = c.fallback.Quote(ctx, ticker)
		if err != nil {
			return nil, err
		}
	}

	if err := c.cache.Set(ctx, cacheKey, q, redis.TTLQuote); err != nil {
		c.logger.WithError(err).Warn("quote cache write failed")
	}
	return q, nil
}

func (c *YahooClient) fetchQuote(ctx context.Context, ticker string) (*contracts.Quote, error) {
	parsed, err := c.fetchQuotePayload(ctx, ticker)
	if err != nil {
		return nil, err
	}

	r := parsed.QuoteResponse.Result[0]
	return &contracts.Quote{
		Ticker:        ticker,
		Price:         r.RegularMarketPrice,
		Change:        r.RegularMarketChange,
		ChangePercent: r.RegularMarketChangePercent,
		Volume:        r.RegularMarketVolume,
		Timestamp:     time.Now().UTC(),
	}, nil
}

// Fundamentals fetches the scalar fundamentals from the quote API.
func (c *YahooClient) Fundamentals(ctx context.Context, ticker string) (*contracts.Fundamentals, error) {
	parsed, err := c.fetchQuotePayload(ctx, ticker)
	if err != nil {
		return nil, err
	}

	r := parsed.QuoteResponse.Result[0]
	return &contracts.Fundamentals{
		Ticker:        ticker,
		PERatio:       r.TrailingPE,
		MarketCap:     r.MarketCap,
		DividendYield: r.DividendYield,
		High52W:       r.FiftyTwoWeekHigh,
		Low52W:        r.FiftyTwoWeekLow,
	}, nil
}

func (c *YahooClient) fetchQuotePayload(ctx context.Context, ticker string) (*quoteResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	reqURL := fmt.Sprintf("%s?symbols=%s", c.quoteBaseURL, url.QueryEscape(ticker))
	resp, err := c.http.Get(ctx, reqURL)
	if err != nil {
		return nil, fmt.Errorf("%w: quote fetch for %s: %v", ErrUnavailable, ticker, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: quote fetch for %s: status %d", ErrUnavailable, ticker, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: quote read for %s: %v", ErrUnavailable, ticker, err)
	}

	var parsed quoteResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: quote decode for %s: %v", ErrUnavailable, ticker, err)
	}
	if len(parsed.QuoteResponse.Result) == 0 {
		return nil, fmt.Errorf("%w: no quote data for %s", ErrUnavailable, ticker)
	}
	return &parsed, nil
}
