package services

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"divtrack/internal/equity"
	"divtrack/internal/ledger"
	"divtrack/internal/marketdata"
	"divtrack/internal/portfolio"
)

// portfolioService answers replay and valuation queries.
type portfolioService struct {
	store  ledgerReader
	market *marketdata.Service
}

// NewPortfolioService creates a new PortfolioServicer.
func NewPortfolioService(store ledgerReader, market *marketdata.Service) PortfolioServicer {
	return &portfolioService{store: store, market: market}
}

// Replay reconstructs positions and cash balances, optionally scoped to
// one account and bounded by an as-of date. An empty ledger yields an
// empty result, not an error.
func (s *portfolioService) Replay(accountID *string, asOf *time.Time) (*ReplayResult, error) {
	if accountID != nil {
		if _, err := s.store.GetAccount(*accountID); err != nil {
			return nil, err
		}
	}

	txs, err := s.store.List(ledger.Filter{AccountID: accountID, Until: asOf})
	if err != nil {
		return nil, err
	}

	state, err := portfolio.Replay(txs)
	if err != nil {
		return nil, err
	}

	return &ReplayResult{
		AsOf:      asOf,
		Positions: sortedPositions(state),
		Cash:      sortedCash(state),
	}, nil
}

// Summary values the current portfolio with cached market data. Missing
// quotes degrade that position to cost-basis valuation; the response
// stays best-effort.
func (s *portfolioService) Summary(ctx context.Context, accountID *string) (*Summary, error) {
	replay, err := s.Replay(accountID, nil)
	if err != nil {
		return nil, err
	}

	symbols := make([]string, len(replay.Positions))
	for i := range replay.Positions {
		symbols[i] = replay.Positions[i].Symbol
	}
	quotes := s.market.GetQuotes(ctx, symbols)
	fx := s.market.GetFxRate(ctx)

	summary := &Summary{
		Cash:    replay.Cash,
		FxRate:  fx.Rate,
		FxStale: fx.Stale,
	}

	for _, pos := range replay.Positions {
		pv := PositionValue{Position: pos}

		price := pos.AvgCost
		if q := quotes[pos.Symbol]; q != nil {
			price = q.Price
			pv.MarketPrice = &q.Price
		}

		value := pos.Quantity.Mul(price)
		cost := pos.TotalCost
		if equity.NeedsFxConversion(pos.Symbol, pos.Currency) {
			value = value.Mul(fx.Rate)
			cost = cost.Mul(fx.Rate)
		}
		pv.MarketValue = value
		pv.CostCAD = cost
		pv.GainLoss = value.Sub(cost)

		summary.Positions = append(summary.Positions, pv)
		summary.TotalValue = summary.TotalValue.Add(value)
		summary.TotalCost = summary.TotalCost.Add(cost)
	}

	summary.TotalGainLoss = summary.TotalValue.Sub(summary.TotalCost)
	if summary.TotalCost.IsPositive() {
		pct, _ := summary.TotalGainLoss.Div(summary.TotalCost).Mul(decimal.NewFromInt(100)).Float64()
		summary.GainLossPct = pct
	}

	summary.TotalEquity = summary.TotalValue
	for _, cb := range replay.Cash {
		balance := cb.Balance
		if cb.Currency == "USD" {
			balance = balance.Mul(fx.Rate)
		}
		summary.TotalEquity = summary.TotalEquity.Add(balance)
	}

	return summary, nil
}

// sortedPositions flattens the replay map into a symbol-ordered slice.
func sortedPositions(state *portfolio.State) []portfolio.Position {
	positions := make([]portfolio.Position, 0, len(state.Positions))
	for _, pos := range state.Positions {
		positions = append(positions, pos)
	}
	sort.Slice(positions, func(i, j int) bool {
		return positions[i].Symbol < positions[j].Symbol
	})
	return positions
}

// sortedCash flattens the cash map into a currency-ordered slice.
func sortedCash(state *portfolio.State) []CashBalance {
	cash := make([]CashBalance, 0, len(state.Cash))
	for currency, balance := range state.Cash {
		cash = append(cash, CashBalance{Currency: currency, Balance: balance})
	}
	sort.Slice(cash, func(i, j int) bool {
		return cash[i].Currency < cash[j].Currency
	})
	return cash
}
