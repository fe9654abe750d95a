package services

import (
	"time"

	"divtrack/internal/dividend"
	"divtrack/internal/ledger"
	"divtrack/internal/models"
)

// dividendService answers dividend projection queries.
type dividendService struct {
	store ledgerReader
	now   func() time.Time
}

// NewDividendService creates a new DividendServicer.
func NewDividendService(store ledgerReader) DividendServicer {
	return &dividendService{store: store, now: time.Now}
}

// Projections builds per-symbol dividend projections and the monthly
// forecast for the target year (the current year when zero).
func (s *dividendService) Projections(accountID *string, year int) (*dividend.Result, error) {
	if accountID != nil {
		if _, err := s.store.GetAccount(*accountID); err != nil {
			return nil, err
		}
	}

	now := s.now()
	if year == 0 {
		year = now.Year()
	}

	txs, err := s.store.List(ledger.Filter{
		AccountID: accountID,
		Actions:   []models.Action{models.ActionDIV},
	})
	if err != nil {
		return nil, err
	}

	return dividend.Project(txs, year, now), nil
}
