package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuoteCache is a persisted price quote with an expiry. Entries are
// upserted last-writer-wins keyed by symbol and treated as a miss once
// expired.
type QuoteCache struct {
	Symbol        string          `gorm:"primaryKey" json:"symbol"`
	Price         decimal.Decimal `gorm:"type:numeric(20,6);not null" json:"price"`
	PreviousClose decimal.Decimal `gorm:"type:numeric(20,6);not null;default:0" json:"previous_close"`
	Currency      string          `gorm:"not null;default:'USD'" json:"currency"`
	FetchedAt     time.Time       `gorm:"not null" json:"fetched_at"`
	ExpiresAt     time.Time       `gorm:"not null;index" json:"expires_at"`
}

// TableName overrides the default pluralization.
func (QuoteCache) TableName() string { return "quote_cache" }

// FxRateCache is a persisted exchange rate with an expiry, keyed by
// currency pair (a single pair, USDCAD, in this system).
type FxRateCache struct {
	Pair      string          `gorm:"primaryKey" json:"pair"`
	Rate      decimal.Decimal `gorm:"type:numeric(20,6);not null" json:"rate"`
	FetchedAt time.Time       `gorm:"not null" json:"fetched_at"`
	ExpiresAt time.Time       `gorm:"not null" json:"expires_at"`
}

// TableName overrides the default pluralization.
func (FxRateCache) TableName() string { return "fx_rate_cache" }
