package equity

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"divtrack/internal/marketdata"
	"divtrack/internal/models"
	"divtrack/internal/testutil"
)

// fakeMarket serves canned quotes and a fixed FX rate.
type fakeMarket struct {
	quotes map[string]*marketdata.CachedQuote
	fx     decimal.Decimal
}

func (f *fakeMarket) GetQuotes(ctx context.Context, symbols []string) map[string]*marketdata.CachedQuote {
	out := make(map[string]*marketdata.CachedQuote)
	for _, s := range symbols {
		if q, ok := f.quotes[s]; ok {
			out[s] = q
		}
	}
	return out
}

func (f *fakeMarket) GetFxRate(ctx context.Context) marketdata.FxRate {
	return marketdata.FxRate{Rate: f.fx}
}

func newTestBuilder(t *testing.T, market *fakeMarket, now time.Time) *Builder {
	t.Helper()

	b := NewBuilder(market)
	b.now = func() time.Time { return now }
	return b
}

func quote(t *testing.T, price, currency string) *marketdata.CachedQuote {
	t.Helper()

	return &marketdata.CachedQuote{
		Price:    testutil.Dec(t, price),
		Currency: currency,
	}
}

func buyTx(t *testing.T, symbol, quantity, price, currency string, date time.Time) models.Transaction {
	t.Helper()

	qty := testutil.Dec(t, quantity)
	px := testutil.Dec(t, price)
	return models.Transaction{
		ID:             models.NewID(),
		AccountID:      "acct-1",
		Action:         models.ActionBuy,
		Symbol:         symbol,
		Quantity:       qty,
		Price:          px,
		NetAmount:      qty.Mul(px).Neg(),
		Currency:       currency,
		SettlementDate: date,
	}
}

func depositTx(t *testing.T, amount string, date time.Time) models.Transaction {
	t.Helper()

	return models.Transaction{
		ID:             models.NewID(),
		AccountID:      "acct-1",
		Action:         models.ActionDEP,
		NetAmount:      testutil.Dec(t, amount),
		Currency:       "CAD",
		SettlementDate: date,
	}
}

func TestBuildDailyCurve(t *testing.T) {
	now := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)
	market := &fakeMarket{
		quotes: map[string]*marketdata.CachedQuote{
			"XEQT.TO": quote(t, "35", "CAD"),
		},
		fx: testutil.Dec(t, "1.35"),
	}
	builder := newTestBuilder(t, market, now)

	// Deposit and buy ten days before now; the first buckets predate both.
	txs := []models.Transaction{
		depositTx(t, "1000", now.AddDate(0, 0, -10)),
		buyTx(t, "XEQT.TO", "20", "30", "CAD", now.AddDate(0, 0, -10)),
	}

	points, err := builder.Build(context.Background(), txs, Period15D)
	testutil.AssertNoError(t, err)

	if len(points) != 16 {
		t.Fatalf("expected 16 daily points, got %d", len(points))
	}

	// Before any activity: zero equity and zero deposits.
	testutil.AssertDecimalEqual(t, points[0].Equity, "0")
	testutil.AssertDecimalEqual(t, points[0].NetDeposits, "0")

	// After the buy: 20 shares at the current 35 quote plus 400 residual
	// cash (1000 deposit minus the 600 purchase).
	last := points[len(points)-1]
	testutil.AssertDecimalEqual(t, last.Equity, "1100")
	testutil.AssertDecimalEqual(t, last.NetDeposits, "1000")

	// Points ascend by exactly one day.
	for i := 1; i < len(points); i++ {
		if got := points[i].Date.Sub(points[i-1].Date); got != 24*time.Hour {
			t.Fatalf("bucket %d gap = %v, want 24h", i, got)
		}
	}
}

func TestBuildValuesMissingQuoteAtCost(t *testing.T) {
	now := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)
	market := &fakeMarket{quotes: map[string]*marketdata.CachedQuote{}, fx: testutil.Dec(t, "1.35")}
	builder := newTestBuilder(t, market, now)

	txs := []models.Transaction{
		buyTx(t, "OBSCURE.TO", "10", "50", "CAD", now.AddDate(0, 0, -5)),
	}

	points, err := builder.Build(context.Background(), txs, Period15D)
	testutil.AssertNoError(t, err)

	// Valued at average cost: 10 x 50 positions, -500 cash from the buy.
	last := points[len(points)-1]
	testutil.AssertDecimalEqual(t, last.Equity, "0")
}

func TestBuildConvertsUSDHoldings(t *testing.T) {
	now := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)
	market := &fakeMarket{
		quotes: map[string]*marketdata.CachedQuote{
			"VOO": quote(t, "500", "USD"),
		},
		fx: testutil.Dec(t, "1.40"),
	}
	builder := newTestBuilder(t, market, now)

	buy := buyTx(t, "VOO", "2", "450", "USD", now.AddDate(0, 0, -5))
	points, err := builder.Build(context.Background(), []models.Transaction{buy}, Period15D)
	testutil.AssertNoError(t, err)

	// Position: 2 x 500 x 1.40 = 1400. USD cash: -900 x 1.40 = -1260.
	last := points[len(points)-1]
	testutil.AssertDecimalEqual(t, last.Equity, "140")
}

func TestBuildEmptyLedger(t *testing.T) {
	now := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)
	market := &fakeMarket{quotes: map[string]*marketdata.CachedQuote{}, fx: testutil.Dec(t, "1.35")}
	builder := newTestBuilder(t, market, now)

	points, err := builder.Build(context.Background(), nil, PeriodInception)
	testutil.AssertNoError(t, err)

	if len(points) == 0 {
		t.Fatal("expected fallback one-year span for empty ledger")
	}
	for _, p := range points {
		if !p.Equity.IsZero() {
			t.Errorf("empty ledger bucket %v has non-zero equity %s", p.Date, p.Equity)
		}
	}
}

func TestTxsUntil(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	txs := []models.Transaction{
		depositTx(t, "100", base),
		depositTx(t, "100", base.AddDate(0, 0, 5)),
		depositTx(t, "100", base.AddDate(0, 0, 10)),
	}

	if got := len(txsUntil(txs, base.AddDate(0, 0, 7))); got != 2 {
		t.Errorf("prefix length = %d, want 2", got)
	}
	if got := len(txsUntil(txs, base.AddDate(0, 0, -1))); got != 0 {
		t.Errorf("prefix length = %d, want 0", got)
	}
	if got := len(txsUntil(txs, base.AddDate(1, 0, 0))); got != 3 {
		t.Errorf("prefix length = %d, want 3", got)
	}
}

func TestNeedsFxConversion(t *testing.T) {
	tests := []struct {
		symbol   string
		currency string
		want     bool
	}{
		{"VOO", "USD", true},
		{"XEQT.TO", "CAD", false},
		{"VDY.TO", "USD", false}, // Toronto listing trades in CAD
		{"AAPL", "CAD", false},
	}

	for _, tt := range tests {
		if got := NeedsFxConversion(tt.symbol, tt.currency); got != tt.want {
			t.Errorf("NeedsFxConversion(%q, %q) = %v, want %v", tt.symbol, tt.currency, got, tt.want)
		}
	}
}
