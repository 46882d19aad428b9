package marketdata

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/vantage/backend/internal/contracts"
	"github.com/wonny/vantage/backend/pkg/config"
	"github.com/wonny/vantage/backend/pkg/httputil"
	"github.com/wonny/vantage/backend/pkg/logger"
)

// ScrapeFallback extracts a quote from the provider's HTML quote
// page when the JSON API is unavailable.
type ScrapeFallback struct {
	http    *httputil.Client
	logger  *logger.Logger
	baseURL string
}

// NewScrapeFallback creates the HTML fallback quote source.
func NewScrapeFallback(cfg *config.Config, log *logger.Logger) *ScrapeFallback {
	return &ScrapeFallback{
		http:    httputil.New(log, cfg.Provider.Timeout),
		logger:  log,
		baseURL: cfg.Provider.ScrapeURL,
	}
}

// Quote scrapes the quote page. The price lives in a streaming
// element tagged with its data field name.
func (s *ScrapeFallback) Quote(ctx context.Context, ticker string) (*contracts.Quote, error) {
	reqURL := fmt.Sprintf("%s/%s", s.baseURL, url.PathEscape(ticker))

	resp, err := s.http.Get(ctx, reqURL)
	if err != nil {
		return nil, fmt.Errorf("%w: scrape fetch for %s: %v", ErrUnavailable, ticker, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: scrape fetch for %s: status %d", ErrUnavailable, ticker, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: scrape parse for %s: %v", ErrUnavailable, ticker, err)
	}

	price, err := s.streamerValue(doc, ticker, "regularMarketPrice")
	if err != nil {
		return nil, err
	}

	// Change fields are best-effort; a missing element leaves zero.
	change, _ := s.streamerValue(doc, ticker, "regularMarketChange")
	changePct, _ := s.streamerValue(doc, ticker, "regularMarketChangePercent")

	return &contracts.Quote{
		Ticker:        ticker,
		Price:         price,
		Change:        change,
		ChangePercent: changePct,
		Timestamp:     time.Now().UTC(),
	}, nil
}

func (s *ScrapeFallback) streamerValue(doc *goquery.Document, ticker, field string) (float64, error) {
	sel := doc.Find(fmt.Sprintf(`fin-streamer[data-symbol=%q][data-field=%q]`, ticker, field)).First()
	if sel.Length() == 0 {
		sel = doc.Find(fmt.Sprintf(`fin-streamer[data-field=%q]`, field)).First()
	}
	if sel.Length() == 0 {
		return 0, fmt.Errorf("%w: no %s element for %s", ErrUnavailable, field, ticker)
	}

	raw, ok := sel.Attr("data-value")
	if !ok {
		raw = sel.Text()
	}
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", "")

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad %s value %q for %s", ErrUnavailable, field, raw, ticker)
	}
	return value, nil
}
