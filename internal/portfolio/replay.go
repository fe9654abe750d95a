// Package portfolio implements the position and cash replay engine: a pure
// pass over ledger transactions in settlement order that reconstructs
// per-symbol positions under average-cost accounting and per-currency cash
// balances, optionally as of an arbitrary date.
package portfolio

import (
	"time"

	"github.com/shopspring/decimal"

	apperrors "divtrack/internal/errors"
	"divtrack/internal/logger"
	"divtrack/internal/models"
)

// positionEpsilon is the closed-position threshold. Fractional-share
// ledgers accumulate rounding residue, so anything at or below this
// quantity is treated as fully closed.
var positionEpsilon = decimal.New(1, -4) // 1e-4

// Position is a derived holding: all shares of a symbol share one blended
// average cost.
type Position struct {
	Symbol    string          `json:"symbol"`
	Quantity  decimal.Decimal `json:"quantity"`
	AvgCost   decimal.Decimal `json:"avg_cost"`
	TotalCost decimal.Decimal `json:"total_cost"`
	Currency  string          `json:"currency"`
	AccountID string          `json:"account_id"`
}

// State is the result of replaying a transaction list: open positions
// keyed by symbol and cash balances keyed by currency.
type State struct {
	Positions map[string]Position        `json:"positions"`
	Cash      map[string]decimal.Decimal `json:"cash"`
}

// running tracks the in-flight quantity and cost basis for one symbol
// during a replay pass.
type running struct {
	quantity  decimal.Decimal
	totalCost decimal.Decimal
	currency  string
	accountID string
}

// Replay applies the per-action mutation rules to an ordered transaction
// list and returns the resulting state. The input must already be sorted
// ascending by settlement date with a stable tiebreak; given the same
// list, Replay is deterministic.
//
// An unknown action is a data-integrity failure (rows are validated at
// ingestion) and aborts the computation with ErrInvalidLedgerRow.
func Replay(txs []models.Transaction) (*State, error) {
	book := make(map[string]*running)
	cash := make(map[string]decimal.Decimal)

	for i := range txs {
		tx := &txs[i]
		if !tx.Action.Valid() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidLedgerRow,
				"unknown action "+string(tx.Action)+" on transaction "+tx.ID)
		}

		if sym := tx.EffectiveSymbol(); sym != "" {
			applyPosition(book, sym, tx)
		}

		// Every transaction with a non-zero net amount moves cash in its
		// currency, regardless of action.
		if !tx.NetAmount.IsZero() {
			cash[tx.Currency] = cash[tx.Currency].Add(tx.NetAmount)
		}
	}

	state := &State{
		Positions: make(map[string]Position),
		Cash:      cash,
	}
	for sym, r := range book {
		if r.quantity.LessThanOrEqual(positionEpsilon) {
			continue // fully closed, tolerating rounding residue
		}
		state.Positions[sym] = Position{
			Symbol:    sym,
			Quantity:  r.quantity,
			AvgCost:   r.totalCost.Div(r.quantity),
			TotalCost: r.totalCost,
			Currency:  r.currency,
			AccountID: r.accountID,
		}
	}
	return state, nil
}

// applyPosition mutates the running book for one symbol-bearing row.
func applyPosition(book map[string]*running, sym string, tx *models.Transaction) {
	r := book[sym]
	if r == nil {
		r = &running{}
		book[sym] = r
	}
	r.currency = tx.Currency
	r.accountID = tx.AccountID

	switch tx.Action {
	case models.ActionBuy:
		r.quantity = r.quantity.Add(tx.Quantity)
		r.totalCost = r.totalCost.Add(tx.Quantity.Mul(tx.Price).Abs()).Add(tx.Commission.Abs())

	case models.ActionREI:
		// Reinvested dividends sometimes omit the price; fall back to the
		// row's net amount for the cost contribution.
		r.quantity = r.quantity.Add(tx.Quantity)
		if tx.Price.IsPositive() {
			r.totalCost = r.totalCost.Add(tx.Quantity.Mul(tx.Price).Abs())
		} else {
			r.totalCost = r.totalCost.Add(tx.NetAmount.Abs())
		}

	case models.ActionSell, models.ActionWDR, models.ActionTFO:
		reduce(r, tx)

	case models.ActionCON, models.ActionTFI, models.ActionDEP:
		// In-kind contribution: the CAD-equivalent value carries the cost
		// basis in. Cash-only deposits never reach here (no symbol).
		r.quantity = r.quantity.Add(tx.Quantity)
		if tx.CadEquivalent.Valid {
			r.totalCost = r.totalCost.Add(tx.CadEquivalent.Decimal)
		} else {
			r.totalCost = r.totalCost.Add(tx.NetAmount)
		}

	case models.ActionDIS:
		// Distribution / split: free shares, cost basis unchanged.
		r.quantity = r.quantity.Add(tx.Quantity)
	}
	// All other actions affect cash only.
}

// reduce applies an average-cost disposal: quantity drops by the sold
// amount and the cost basis scales by the same factor, leaving the
// average cost untouched.
//
// A disposal exceeding the held quantity clamps the position to zero
// rather than going negative or aborting: ledgers legitimately withdraw
// in-kind assets the engine never saw acquired, and short positions are
// out of scope.
func reduce(r *running, tx *models.Transaction) {
	if !r.quantity.IsPositive() {
		return
	}
	avgCost := r.totalCost.Div(r.quantity)
	sold := tx.Quantity.Abs()
	if sold.GreaterThan(r.quantity) {
		logger.Get().Warnw("disposal exceeds held quantity, clamping position to zero",
			"symbol", tx.EffectiveSymbol(),
			"action", tx.Action,
			"held", r.quantity.String(),
			"sold", sold.String(),
		)
		sold = r.quantity
	}
	r.quantity = r.quantity.Sub(sold)
	r.totalCost = r.quantity.Mul(avgCost)
}

// NetDeposits returns the cumulative external contributions minus
// withdrawals over all rows settling at or before the given date. Each
// row contributes its importer-computed CAD equivalent when present,
// otherwise its absolute net amount.
func NetDeposits(txs []models.Transaction, until time.Time) decimal.Decimal {
	total := decimal.Zero
	for i := range txs {
		tx := &txs[i]
		if tx.SettlementDate.After(until) {
			continue
		}
		switch {
		case tx.Action.IsDeposit():
			total = total.Add(tx.DepositAmount())
		case tx.Action.IsWithdrawal():
			total = total.Sub(tx.DepositAmount())
		}
	}
	return total
}
