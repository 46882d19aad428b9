package research

import (
	"context"
	"fmt"
	"sync"

	"github.com/wonny/vantage/backend/internal/contracts"
)

const (
	historyPeriod   = "1y"
	historyInterval = "1d"
)

type fetchResult struct {
	Ticker string
	Data   AssetData
	Error  error
}

// runFetch gathers quote, fundamentals, and price history for every
// ticker in the universe through a bounded worker pool. Tickers that
// fail are dropped from the run, never aborting it.
func (p *Pipeline) runFetch(ctx context.Context, state State) (State, error) {
	universe := state.Universe

	workers := p.cfg.Pipeline.FetchWorkers
	if workers < 1 {
		workers = 1
	}
	if workers > len(universe) {
		workers = len(universe)
	}

	tickerCh := make(chan string, len(universe))
	resultCh := make(chan fetchResult, len(universe))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for ticker := range tickerCh {
				fetchCtx, cancel := context.WithTimeout(ctx, p.cfg.Pipeline.FetchTimeout)
				data, err := p.fetchOne(fetchCtx, ticker)
				cancel()

				resultCh <- fetchResult{Ticker: ticker, Data: data, Error: err}
			}
		}(w)
	}

	for _, ticker := range universe {
		tickerCh <- ticker
	}
	close(tickerCh)

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	state.Data = make(map[string]AssetData, len(universe))
	state.Dropped = nil
	for result := range resultCh {
		if result.Error != nil {
			p.logger.WithError(result.Error).WithField("ticker", result.Ticker).Warn("dropping ticker")
			state.Dropped = append(state.Dropped, result.Ticker)
			continue
		}
		state.Data[result.Ticker] = result.Data
	}

	if err := ctx.Err(); err != nil {
		return state, err
	}
	if len(state.Data) == 0 && len(universe) > 0 {
		p.logger.Warn("no market data for any ticker, run will produce an empty result")
	}

	p.logger.WithFields(map[string]interface{}{
		"success": len(state.Data),
		"failed":  len(state.Dropped),
		"workers": workers,
	}).Info("market data fetch complete")

	p.emit(StageFetch, 2, "fetched %d of %d assets", len(state.Data), len(universe))
	return state, nil
}

// fetchOne collects everything the analysts need for one ticker.
// History is mandatory. A failed quote falls back to the last close,
// and missing fundamentals degrade to an empty record so crypto and
// ETFs still score on their technicals.
func (p *Pipeline) fetchOne(ctx context.Context, ticker string) (AssetData, error) {
	history, err := p.provider.History(ctx, ticker, historyPeriod, historyInterval)
	if err != nil {
		return AssetData{}, fmt.Errorf("history: %w", err)
	}
	if history.Len() < 2 {
		return AssetData{}, fmt.Errorf("history too short for %s: %d candles", ticker, history.Len())
	}

	quote, err := p.provider.Quote(ctx, ticker)
	if err != nil {
		p.logger.WithError(err).WithField("ticker", ticker).Warn("quote failed, using last close")
		quote = &contracts.Quote{
			Ticker:    ticker,
			Price:     history.LastClose(),
			Timestamp: history.Candles[history.Len()-1].Date,
		}
	}

	fundamentals, err := p.provider.Fundamentals(ctx, ticker)
	if err != nil {
		p.logger.WithError(err).WithField("ticker", ticker).Debug("fundamentals unavailable")
		fundamentals = &contracts.Fundamentals{Ticker: ticker}
	}

	return AssetData{
		Ticker:       ticker,
		Quote:        quote,
		Fundamentals: fundamentals,
		History:      history,
	}, nil
}
