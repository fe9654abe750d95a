package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	yahooQuoteURL = "https://query1.finance.yahoo.com/v7/finance/quote"
	yahooChartURL = "https://query1.finance.yahoo.com/v8/finance/chart"
	yahooBatchMax = 50
	yahooUA       = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)"
)

// yahooQuoteResponse is the top-level Yahoo Finance quote API response.
type yahooQuoteResponse struct {
	QuoteResponse struct {
		Result []yahooQuoteResult `json:"result"`
		Error  *json.RawMessage   `json:"error"`
	} `json:"quoteResponse"`
}

// yahooQuoteResult is a single quote result from Yahoo Finance.
type yahooQuoteResult struct {
	Symbol                     string  `json:"symbol"`
	RegularMarketPrice         float64 `json:"regularMarketPrice"`
	RegularMarketPreviousClose float64 `json:"regularMarketPreviousClose"`
	Currency                   string  `json:"currency"`
}

// yahooChartResponse is the chart API response used for forex pairs.
type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// YahooProvider fetches quotes and forex rates from Yahoo Finance.
type YahooProvider struct {
	httpClient *http.Client
	quoteURL   string // overridable for tests
	chartURL   string // overridable for tests
}

// NewYahooProvider creates a new Yahoo Finance provider.
func NewYahooProvider(httpClient *http.Client) *YahooProvider {
	return &YahooProvider{
		httpClient: httpClient,
		quoteURL:   yahooQuoteURL,
		chartURL:   yahooChartURL,
	}
}

// FetchQuotes fetches current quotes in batches of up to 50 symbols.
func (p *YahooProvider) FetchQuotes(ctx context.Context, symbols []string) (map[string]Quote, error) {
	if len(symbols) == 0 {
		return map[string]Quote{}, nil
	}

	quotes := make(map[string]Quote, len(symbols))
	for i := 0; i < len(symbols); i += yahooBatchMax {
		end := min(i+yahooBatchMax, len(symbols))
		if err := p.fetchBatch(ctx, symbols[i:end], quotes); err != nil {
			return nil, err
		}
	}
	return quotes, nil
}

// fetchBatch fetches one batch of symbols into quotes.
func (p *YahooProvider) fetchBatch(ctx context.Context, symbols []string, quotes map[string]Quote) error {
	url := p.quoteURL + "?symbols=" + strings.Join(symbols, ",")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", yahooUA)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if isRateLimit(resp.StatusCode) {
		return fmt.Errorf("quote request: %w", ErrRateLimited)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("quote request: unexpected status %d", resp.StatusCode)
	}

	var quoteResp yahooQuoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&quoteResp); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	for _, r := range quoteResp.QuoteResponse.Result {
		if r.RegularMarketPrice == 0 {
			continue
		}
		quotes[r.Symbol] = Quote{
			Symbol:        r.Symbol,
			Price:         decimal.NewFromFloat(r.RegularMarketPrice),
			PreviousClose: decimal.NewFromFloat(r.RegularMarketPreviousClose),
			Currency:      r.Currency,
		}
	}
	return nil
}

// FetchFxRate fetches the current rate for a pair such as "USDCAD" via
// the chart API, which Yahoo addresses as "USDCAD=X".
func (p *YahooProvider) FetchFxRate(ctx context.Context, pair string) (decimal.Decimal, error) {
	ticker := strings.ToUpper(pair) + "=X"
	url := p.chartURL + "/" + ticker + "?interval=1d&range=1d"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("building forex request: %w", err)
	}
	req.Header.Set("User-Agent", yahooUA)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("forex http request for %s: %w", ticker, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if isRateLimit(resp.StatusCode) {
		return decimal.Zero, fmt.Errorf("forex request for %s: %w", ticker, ErrRateLimited)
	}
	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("forex request for %s: unexpected status %d", ticker, resp.StatusCode)
	}

	var chartResp yahooChartResponse
	if err := json.NewDecoder(resp.Body).Decode(&chartResp); err != nil {
		return decimal.Zero, fmt.Errorf("decoding forex response for %s: %w", ticker, err)
	}

	if chartResp.Chart.Error != nil {
		return decimal.Zero, fmt.Errorf("forex chart error for %s: %s: %s",
			ticker, chartResp.Chart.Error.Code, chartResp.Chart.Error.Description)
	}
	if len(chartResp.Chart.Result) == 0 {
		return decimal.Zero, fmt.Errorf("no forex results for %s", ticker)
	}

	rate := chartResp.Chart.Result[0].Meta.RegularMarketPrice
	if rate <= 0 {
		return decimal.Zero, fmt.Errorf("invalid forex rate for %s: %f", ticker, rate)
	}
	return decimal.NewFromFloat(rate), nil
}

// isRateLimit reports whether a status code is a provider throttle
// signal. Yahoo uses 999 in addition to the standard 429.
func isRateLimit(status int) bool {
	return status == http.StatusTooManyRequests || status == 999
}
