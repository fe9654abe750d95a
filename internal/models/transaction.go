package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Action is the closed set of brokerage transaction actions the replay
// engine understands.
type Action string

const (
	ActionBuy  Action = "Buy"
	ActionSell Action = "Sell"
	ActionREI  Action = "REI" // reinvested dividend
	ActionDIV  Action = "DIV" // cash dividend
	ActionCON  Action = "CON" // contribution (cash or in-kind)
	ActionTFI  Action = "TFI" // transfer in
	ActionDEP  Action = "DEP" // deposit
	ActionWDR  Action = "WDR" // withdrawal
	ActionTFO  Action = "TFO" // transfer out
	ActionDIS  Action = "DIS" // distribution / split
	ActionFXT  Action = "FXT" // currency conversion
	ActionADJ  Action = "ADJ" // adjustment
	ActionINT  Action = "INT" // interest
	ActionFCH  Action = "FCH" // fee charge
	ActionEXP  Action = "EXP" // expiry
	ActionBRW  Action = "BRW" // borrow
)

// actions is the membership set for Valid.
var actions = map[Action]bool{
	ActionBuy: true, ActionSell: true, ActionREI: true, ActionDIV: true,
	ActionCON: true, ActionTFI: true, ActionDEP: true, ActionWDR: true,
	ActionTFO: true, ActionDIS: true, ActionFXT: true, ActionADJ: true,
	ActionINT: true, ActionFCH: true, ActionEXP: true, ActionBRW: true,
}

// Valid reports whether a is a known action.
func (a Action) Valid() bool { return actions[a] }

// IsDeposit reports whether a is an external contribution of cash or
// in-kind assets.
func (a Action) IsDeposit() bool {
	return a == ActionCON || a == ActionTFI || a == ActionDEP
}

// IsWithdrawal reports whether a removes cash or assets from the account.
func (a Action) IsWithdrawal() bool {
	return a == ActionWDR || a == ActionTFO
}

// Transaction is one row of the append-only brokerage ledger. Rows are
// immutable time-series data: no Base embed, no soft deletes, never
// updated after ingestion.
type Transaction struct {
	ID             string              `gorm:"type:uuid;primaryKey" json:"id"`
	AccountID      string              `gorm:"type:uuid;not null;index" json:"account_id"`
	Action         Action              `gorm:"not null;index" json:"action"`
	Symbol         string              `gorm:"index" json:"symbol,omitempty"`
	SymbolMapped   string              `json:"symbol_mapped,omitempty"`
	Quantity       decimal.Decimal     `gorm:"type:numeric(20,6);not null;default:0" json:"quantity"`
	Price          decimal.Decimal     `gorm:"type:numeric(20,6);not null;default:0" json:"price"`
	Commission     decimal.Decimal     `gorm:"type:numeric(20,6);not null;default:0" json:"commission"`
	NetAmount      decimal.Decimal     `gorm:"type:numeric(20,6);not null;default:0" json:"net_amount"`
	CadEquivalent  decimal.NullDecimal `gorm:"type:numeric(20,6)" json:"cad_equivalent,omitempty"`
	Currency       string              `gorm:"not null;default:'CAD'" json:"currency"`
	SettlementDate time.Time           `gorm:"not null;index" json:"settlement_date"`
	CreatedAt      time.Time           `json:"created_at"`

	// Relationships
	Account Account `gorm:"foreignKey:AccountID" json:"account,omitempty"`
}

// BeforeCreate generates a UUIDv7 so insertion order is embedded in the
// primary key.
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = NewID()
	}
	return nil
}

// EffectiveSymbol returns the normalized symbol used for positions and
// quotes: the mapped symbol when the importer resolved one, otherwise the
// raw broker symbol.
func (t *Transaction) EffectiveSymbol() string {
	if t.SymbolMapped != "" {
		return t.SymbolMapped
	}
	return t.Symbol
}

// DepositAmount returns the CAD contribution value of a deposit or
// withdrawal row: the importer-computed CAD equivalent when present,
// otherwise the absolute net amount.
func (t *Transaction) DepositAmount() decimal.Decimal {
	if t.CadEquivalent.Valid {
		return t.CadEquivalent.Decimal
	}
	return t.NetAmount.Abs()
}
