package services

import (
	"gorm.io/gorm"

	apperrors "divtrack/internal/errors"
	"divtrack/internal/models"
	"divtrack/internal/pagination"
)

// ledgerService exposes read-only ledger browsing.
type ledgerService struct {
	db    *gorm.DB
	store ledgerReader
}

// NewLedgerService creates a new LedgerServicer.
func NewLedgerService(db *gorm.DB, store ledgerReader) LedgerServicer {
	return &ledgerService{db: db, store: store}
}

// ListAccounts returns all active accounts.
func (s *ledgerService) ListAccounts() ([]models.Account, error) {
	return s.store.ListAccounts()
}

// ListTransactions returns a filtered, paginated page of ledger rows,
// newest settlement first for browsing.
func (s *ledgerService) ListTransactions(page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	if filter.AccountID != nil {
		if _, err := s.store.GetAccount(*filter.AccountID); err != nil {
			return nil, err
		}
	}

	page.Defaults()

	q := s.db.Model(&models.Transaction{})
	if filter.AccountID != nil {
		q = q.Where("account_id = ?", *filter.AccountID)
	}
	if filter.Action != nil {
		q = q.Where("action = ?", *filter.Action)
	}
	if filter.Symbol != nil {
		q = q.Where("symbol = ? OR symbol_mapped = ?", *filter.Symbol, *filter.Symbol)
	}
	if filter.Currency != nil {
		q = q.Where("currency = ?", *filter.Currency)
	}
	if filter.FromDate != nil {
		q = q.Where("settlement_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		q = q.Where("settlement_date <= ?", *filter.ToDate)
	}

	var totalItems int64
	if err := q.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var txs []models.Transaction
	if err := q.Order("settlement_date DESC, id DESC").
		Scopes(pagination.Paginate(page)).Find(&txs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(txs, page.Page, page.PageSize, totalItems)
	return &result, nil
}
