package contracts

import "time"

// Candle is a single OHLCV bar.
type Candle struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// PriceSeries is an ordered-by-date OHLCV history for one ticker.
// ⭐ SSOT: every indicator, signal and backtest consumes this shape
// Dates are strictly increasing; missing sessions are simply absent.
// Immutable once fetched.
type PriceSeries struct {
	Ticker  string   `json:"ticker"`
	Candles []Candle `json:"candles"`
}

// Len returns the number of bars in the series
func (p *PriceSeries) Len() int {
	return len(p.Candles)
}

// Closes extracts the close column
func (p *PriceSeries) Closes() []float64 {
	closes := make([]float64, len(p.Candles))
	for i, c := range p.Candles {
		closes[i] = c.Close
	}
	return closes
}

// Highs extracts the high column
func (p *PriceSeries) Highs() []float64 {
	highs := make([]float64, len(p.Candles))
	for i, c := range p.Candles {
		highs[i] = c.High
	}
	return highs
}

// Lows extracts the low column
func (p *PriceSeries) Lows() []float64 {
	lows := make([]float64, len(p.Candles))
	for i, c := range p.Candles {
		lows[i] = c.Low
	}
	return lows
}

// LastClose returns the most recent close, or 0 on an empty series
func (p *PriceSeries) LastClose() float64 {
	if len(p.Candles) == 0 {
		return 0
	}
	return p.Candles[len(p.Candles)-1].Close
}

// Quote is a point-in-time snapshot for one ticker.
type Quote struct {
	Ticker        string    `json:"ticker"`
	Price         float64   `json:"price"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"change_percent"`
	Volume        float64   `json:"volume"`
	Timestamp     time.Time `json:"timestamp"`
}

// Fundamentals holds the scalar fundamentals the analysts consume.
// A zero field means the provider had no value; scorers must treat
// zero as "absent", never as a real reading.
type Fundamentals struct {
	Ticker        string  `json:"ticker"`
	PERatio       float64 `json:"pe_ratio"`
	MarketCap     float64 `json:"market_cap"`
	DividendYield float64 `json:"dividend_yield"`
	High52W       float64 `json:"high_52w"`
	Low52W        float64 `json:"low_52w"`
}

// HasPE reports whether a P/E reading is present
func (f *Fundamentals) HasPE() bool {
	return f.PERatio != 0
}

// RangePosition returns where price sits inside the 52-week range,
// 0 at the low and 1 at the high. Returns 0.5 when the range is
// degenerate or missing.
func (f *Fundamentals) RangePosition(price float64) float64 {
	span := f.High52W - f.Low52W
	if span <= 0 {
		return 0.5
	}
	pos := (price - f.Low52W) / span
	if pos < 0 {
		return 0
	}
	if pos > 1 {
		return 1
	}
	return pos
}
