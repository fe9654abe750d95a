package services

import (
	"context"

	apperrors "divtrack/internal/errors"
	"divtrack/internal/marketdata"
)

// marketDataService drives the cache refresh path: warm every symbol the
// ledger references plus the FX rate.
type marketDataService struct {
	store  ledgerReader
	market *marketdata.Service
}

// NewMarketDataService creates a new MarketDataServicer.
func NewMarketDataService(store ledgerReader, market *marketdata.Service) MarketDataServicer {
	return &marketDataService{store: store, market: market}
}

// Refresh force-fetches quotes for every distinct ledger symbol and the
// FX rate, returning how many quotes were stored.
func (s *marketDataService) Refresh(ctx context.Context) (int, error) {
	symbols, err := s.store.DistinctSymbols(nil)
	if err != nil {
		return 0, err
	}
	if len(symbols) == 0 {
		return 0, nil
	}

	count, err := s.market.RefreshAll(ctx, symbols)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrMarketDataUnavailable, err)
	}
	return count, nil
}
