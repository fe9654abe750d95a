package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"divtrack/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// Dec parses a decimal literal, failing the test on malformed input.
func Dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()

	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("invalid decimal literal %q: %v", s, err)
	}
	return d
}

// CreateTestAccount creates an active CAD brokerage account with a unique
// name and number.
func CreateTestAccount(t *testing.T, db *gorm.DB) *models.Account {
	t.Helper()

	n := nextID()
	account := &models.Account{
		Name:     fmt.Sprintf("Test Account %d", n),
		Number:   fmt.Sprintf("ACC-%06d", n),
		Broker:   "Test Broker",
		Currency: "CAD",
		IsActive: true,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
	return account
}

// CreateTestTrade creates a Buy or Sell row. Quantity, price, and
// commission are decimal literals; the net amount is derived the way a
// broker export states it, negative for buys and positive for sells.
func CreateTestTrade(t *testing.T, db *gorm.DB, accountID string, action models.Action, symbol string, quantity, price, commission string, date time.Time) *models.Transaction {
	t.Helper()

	qty := Dec(t, quantity)
	px := Dec(t, price)
	comm := Dec(t, commission)

	net := qty.Mul(px).Abs().Add(comm.Abs())
	if action == models.ActionBuy {
		net = net.Neg()
	}

	tx := &models.Transaction{
		AccountID:      accountID,
		Action:         action,
		Symbol:         symbol,
		Quantity:       qty,
		Price:          px,
		Commission:     comm,
		NetAmount:      net,
		Currency:       "CAD",
		SettlementDate: date,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test trade: %v", err)
	}
	return tx
}

// CreateTestCashflow creates a cash-only row (deposit, withdrawal,
// dividend, interest, fee). NetAmount carries the sign from the literal.
func CreateTestCashflow(t *testing.T, db *gorm.DB, accountID string, action models.Action, symbol, netAmount string, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		AccountID:      accountID,
		Action:         action,
		Symbol:         symbol,
		NetAmount:      Dec(t, netAmount),
		Currency:       "CAD",
		SettlementDate: date,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test cashflow: %v", err)
	}
	return tx
}

// CreateTestQuote seeds a cached quote that expires at the given time.
func CreateTestQuote(t *testing.T, db *gorm.DB, symbol, price, currency string, fetchedAt, expiresAt time.Time) *models.QuoteCache {
	t.Helper()

	quote := &models.QuoteCache{
		Symbol:    symbol,
		Price:     Dec(t, price),
		Currency:  currency,
		FetchedAt: fetchedAt,
		ExpiresAt: expiresAt,
	}
	if err := db.Create(quote).Error; err != nil {
		t.Fatalf("failed to create test quote: %v", err)
	}
	return quote
}
