// Package marketdata fetches OHLCV history, live quotes and scalar
// fundamentals from external providers.
package marketdata

import (
	"context"
	"errors"

	"github.com/wonny/vantage/backend/internal/contracts"
)

// ErrUnavailable marks a ticker whose data could not be fetched.
// Callers drop the ticker from the run instead of aborting.
var ErrUnavailable = errors.New("marketdata: unavailable")

// HistoryProvider fetches OHLCV series.
type HistoryProvider interface {
	History(ctx context.Context, ticker, period, interval string) (*contracts.PriceSeries, error)
}

// QuoteProvider fetches point-in-time quotes.
type QuoteProvider interface {
	Quote(ctx context.Context, ticker string) (*contracts.Quote, error)
}

// FundamentalsProvider fetches scalar fundamentals.
type FundamentalsProvider interface {
	Fundamentals(ctx context.Context, ticker string) (*contracts.Fundamentals, error)
}

// Provider bundles the three data concerns one source serves.
type Provider interface {
	HistoryProvider
	QuoteProvider
	FundamentalsProvider
}
