// Package equity reconstructs a portfolio's historical value as a time
// series by replaying the ledger at a sequence of as-of dates and valuing
// each reconstruction with current market data. Past buckets use the
// current quote, a deliberate approximation: per-symbol historical
// pricing is unavailable in this system.
package equity

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"divtrack/internal/marketdata"
	"divtrack/internal/models"
	"divtrack/internal/portfolio"
)

// Point is one bucket of the equity curve.
type Point struct {
	Date        time.Time       `json:"date"`
	Equity      decimal.Decimal `json:"equity"`
	NetDeposits decimal.Decimal `json:"net_deposits"`
}

// MarketData is the quote and FX access the builder needs; satisfied by
// *marketdata.Service.
type MarketData interface {
	GetQuotes(ctx context.Context, symbols []string) map[string]*marketdata.CachedQuote
	GetFxRate(ctx context.Context) marketdata.FxRate
}

// Builder produces equity curves from a transaction ledger.
type Builder struct {
	market MarketData
	now    func() time.Time
}

// NewBuilder creates a curve builder over the given market data source.
func NewBuilder(market MarketData) *Builder {
	return &Builder{market: market, now: time.Now}
}

// Build replays the ledger at each bucket date and emits an ascending
// series of equity and cumulative net deposits, both in CAD. The
// transaction list must be in replay order. The cost of the walk is
// O(buckets x transactions); the interval widening in Period bounds it
// for long histories.
func (b *Builder) Build(ctx context.Context, txs []models.Transaction, period Period) ([]Point, error) {
	now := b.now()

	var firstSettlement *time.Time
	if len(txs) > 0 {
		firstSettlement = &txs[0].SettlementDate
	}
	start := period.startDate(now, firstSettlement)
	interval := period.interval(start, now)

	// One market data round for the whole curve: every bucket is valued
	// with the same current quotes and FX rate.
	quotes := b.market.GetQuotes(ctx, ledgerSymbols(txs))
	fx := b.market.GetFxRate(ctx)

	var points []Point
	for d := start; !d.After(now); d = d.Add(interval) {
		asOf := endOfDay(d)

		state, err := portfolio.Replay(txsUntil(txs, asOf))
		if err != nil {
			return nil, err
		}

		points = append(points, Point{
			Date:        d,
			Equity:      valueInCAD(state, quotes, fx.Rate),
			NetDeposits: portfolio.NetDeposits(txs, asOf),
		})
	}
	return points, nil
}

// txsUntil returns the prefix of the replay-ordered list settling at or
// before the as-of moment.
func txsUntil(txs []models.Transaction, asOf time.Time) []models.Transaction {
	n := sort.Search(len(txs), func(i int) bool {
		return txs[i].SettlementDate.After(asOf)
	})
	return txs[:n]
}

// ledgerSymbols collects every distinct position symbol in the ledger.
func ledgerSymbols(txs []models.Transaction) []string {
	seen := make(map[string]bool)
	var symbols []string
	for i := range txs {
		sym := txs[i].EffectiveSymbol()
		if sym == "" || seen[sym] {
			continue
		}
		seen[sym] = true
		symbols = append(symbols, sym)
	}
	return symbols
}

// valueInCAD sums positions and cash into a single CAD equity figure.
// A position with no available quote is valued at its average cost, a
// silent precision degradation rather than a failure.
func valueInCAD(state *portfolio.State, quotes map[string]*marketdata.CachedQuote, fxRate decimal.Decimal) decimal.Decimal {
	equity := decimal.Zero

	for sym, pos := range state.Positions {
		price := pos.AvgCost
		if q := quotes[sym]; q != nil {
			price = q.Price
		}
		value := pos.Quantity.Mul(price)
		if NeedsFxConversion(sym, pos.Currency) {
			value = value.Mul(fxRate)
		}
		equity = equity.Add(value)
	}

	for currency, balance := range state.Cash {
		if currency == "USD" {
			balance = balance.Mul(fxRate)
		}
		equity = equity.Add(balance)
	}
	return equity
}

// NeedsFxConversion reports whether a holding's value is USD-denominated
// and must be converted to CAD. Toronto-listed symbols (".TO" suffix)
// already trade in CAD whatever currency the broker row carries.
func NeedsFxConversion(symbol, currency string) bool {
	return currency == "USD" && !strings.HasSuffix(symbol, ".TO")
}
