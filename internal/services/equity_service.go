package services

import (
	"context"

	"divtrack/internal/equity"
	"divtrack/internal/ledger"
)

// equityService answers equity-curve queries, memoizing computed curves.
type equityService struct {
	store   ledgerReader
	builder *equity.Builder
	cache   *equity.CurveCache
}

// NewEquityService creates a new EquityServicer. The cache may be nil to
// disable memoization (tests).
func NewEquityService(store ledgerReader, builder *equity.Builder, cache *equity.CurveCache) EquityServicer {
	return &equityService{store: store, builder: builder, cache: cache}
}

// Curve returns the equity time series for the requested period,
// optionally scoped to one account.
func (s *equityService) Curve(ctx context.Context, accountID *string, period equity.Period) ([]equity.Point, error) {
	if accountID != nil {
		if _, err := s.store.GetAccount(*accountID); err != nil {
			return nil, err
		}
	}

	key := equity.Key{Period: period}
	if accountID != nil {
		key.Account = *accountID
	}
	if s.cache != nil {
		if points, ok := s.cache.Get(key); ok {
			return points, nil
		}
	}

	txs, err := s.store.List(ledger.Filter{AccountID: accountID})
	if err != nil {
		return nil, err
	}

	points, err := s.builder.Build(ctx, txs, period)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(key, points)
	}
	return points, nil
}
