// Package marketdata supplies current quotes and the USD/CAD exchange
// rate through a persistent TTL cache backed by a rate-limited external
// provider. Provider failures are absorbed here: callers get nil quotes
// or a default rate, never an error they must handle.
package marketdata

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// FxPairUSDCAD is the single exchange-rate pair tracked by this system.
const FxPairUSDCAD = "USDCAD"

// ErrRateLimited signals a transient provider throttle. The cache retries
// on it internally with backoff; it never escapes this package.
var ErrRateLimited = errors.New("market data provider rate limited")

// Quote is a fresh price result from a provider.
type Quote struct {
	Symbol        string
	Price         decimal.Decimal
	PreviousClose decimal.Decimal
	Currency      string
}

// Provider fetches current market data from an external source. Both
// methods are allowed to fail or rate-limit; the Service is the sole
// caller and owns retry and fallback policy.
type Provider interface {
	// FetchQuotes returns quotes for as many of the given symbols as
	// possible, keyed by symbol. Missing symbols are simply absent.
	FetchQuotes(ctx context.Context, symbols []string) (map[string]Quote, error)

	// FetchFxRate returns the current rate for a currency pair such as
	// "USDCAD".
	FetchFxRate(ctx context.Context, pair string) (decimal.Decimal, error)
}
