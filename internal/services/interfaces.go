package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"divtrack/internal/dividend"
	"divtrack/internal/equity"
	"divtrack/internal/ledger"
	"divtrack/internal/models"
	"divtrack/internal/pagination"
	"divtrack/internal/portfolio"
)

// CashBalance is a per-currency cash total in replay output.
type CashBalance struct {
	Currency string          `json:"currency"`
	Balance  decimal.Decimal `json:"balance"`
}

// ReplayResult is the outcome of a ledger replay: open positions and
// cash balances, sorted for stable responses.
type ReplayResult struct {
	AsOf      *time.Time           `json:"as_of,omitempty"`
	Positions []portfolio.Position `json:"positions"`
	Cash      []CashBalance        `json:"cash"`
}

// PositionValue is a position with its current market valuation in CAD.
// MarketPrice is nil when no quote was available and the position is
// valued at cost.
type PositionValue struct {
	portfolio.Position
	MarketPrice *decimal.Decimal `json:"market_price,omitempty"`
	MarketValue decimal.Decimal  `json:"market_value"`
	CostCAD     decimal.Decimal  `json:"cost_cad"`
	GainLoss    decimal.Decimal  `json:"gain_loss"`
}

// Summary is the market-valued portfolio overview in CAD.
type Summary struct {
	Positions     []PositionValue `json:"positions"`
	Cash          []CashBalance   `json:"cash"`
	TotalValue    decimal.Decimal `json:"total_value"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	TotalGainLoss decimal.Decimal `json:"total_gain_loss"`
	GainLossPct   float64         `json:"gain_loss_pct"`
	TotalEquity   decimal.Decimal `json:"total_equity"`
	FxRate        decimal.Decimal `json:"fx_rate"`
	FxStale       bool            `json:"fx_stale"`
}

// PortfolioServicer defines the contract for replay and valuation queries.
type PortfolioServicer interface {
	Replay(accountID *string, asOf *time.Time) (*ReplayResult, error)
	Summary(ctx context.Context, accountID *string) (*Summary, error)
}

// EquityServicer defines the contract for equity-curve queries.
type EquityServicer interface {
	Curve(ctx context.Context, accountID *string, period equity.Period) ([]equity.Point, error)
}

// DividendServicer defines the contract for dividend projection queries.
type DividendServicer interface {
	Projections(accountID *string, year int) (*dividend.Result, error)
}

// TransactionFilter holds optional filter parameters for listing ledger
// transactions.
type TransactionFilter struct {
	AccountID *string
	Action    *models.Action
	Symbol    *string
	Currency  *string
	FromDate  *time.Time
	ToDate    *time.Time
}

// LedgerServicer defines the contract for browsing the ledger.
type LedgerServicer interface {
	ListAccounts() ([]models.Account, error)
	ListTransactions(page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
}

// MarketDataServicer defines the contract for the cache refresh path.
type MarketDataServicer interface {
	Refresh(ctx context.Context) (int, error)
}

// ledgerReader is the ledger access the engines need; satisfied by
// *ledger.Store.
type ledgerReader interface {
	List(filter ledger.Filter) ([]models.Transaction, error)
	FirstSettlementDate(accountID *string) (*time.Time, error)
	DistinctSymbols(accountID *string) ([]string, error)
	GetAccount(accountID string) (*models.Account, error)
	ListAccounts() ([]models.Account, error)
}
