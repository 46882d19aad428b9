package marketdata

import "strings"

// Static tradable universes, mirrored from the retail broker's
// supported asset lists.
var (
	TopStocks = []string{
		"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA", "META", "TSLA", "BRK-B",
		"UNH", "JNJ", "V", "XOM", "JPM", "MA", "PG", "HD", "CVX", "MRK",
		"ABBV", "LLY", "PEP", "KO", "COST", "AVGO", "TMO", "MCD", "WMT",
		"CSCO", "ACN", "ABT", "DHR", "NEE", "VZ", "ADBE", "NKE", "TXN",
		"PM", "CMCSA", "INTC", "AMD", "QCOM", "UPS", "HON", "LOW", "COP",
	}

	MajorETFs = []string{
		"SPY", "QQQ", "IWM", "DIA", "VTI", "VOO", "VEA", "VWO", "BND", "GLD", "SLV", "USO",
	}

	CryptoAssets = []string{
		"BTC", "ETH", "DOGE", "SOL", "LTC", "AVAX", "LINK", "SHIB", "XLM", "ETC",
	}
)

// Universe builds the tradable ticker list for the requested asset
// classes, deduplicated in order. Crypto tickers get the -USD suffix
// the quote provider expects.
func Universe(assetClasses []string) []string {
	var tickers []string

	for _, class := range assetClasses {
		switch strings.ToLower(class) {
		case "stock", "stocks":
			tickers = append(tickers, TopStocks...)
		case "etf", "etfs":
			tickers = append(tickers, MajorETFs...)
		case "crypto":
			for _, c := range CryptoAssets {
				tickers = append(tickers, c+"-USD")
			}
		}
	}

	seen := make(map[string]bool, len(tickers))
	out := tickers[:0]
	for _, t := range tickers {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

// FilterUniverse keeps only the requested tickers that are part of
// the tradable universe, preserving the requested order.
func FilterUniverse(universe, requested []string) []string {
	if len(requested) == 0 {
		return universe
	}

	allowed := make(map[string]bool, len(universe))
	for _, t := range universe {
		allowed[t] = true
	}

	var out []string
	for _, t := range requested {
		if allowed[t] {
			out = append(out, t)
		}
	}
	return out
}
