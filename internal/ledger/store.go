// Package ledger provides read access to the append-only transaction
// ledger. The engine never writes transactions; rows are created by the
// ingestion pipeline and only removed by explicit account deletion.
package ledger

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "divtrack/internal/errors"
	"divtrack/internal/models"
)

// Filter is the closed set of ledger query criteria. An empty filter
// matches the whole ledger.
type Filter struct {
	AccountID *string
	Actions   []models.Action
	Until     *time.Time
}

// Store reads accounts and transactions from the persistent ledger.
type Store struct {
	db *gorm.DB
}

// NewStore creates a ledger store backed by the given database.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// List returns transactions matching the filter in replay order:
// ascending settlement date, ties broken by insertion order (time-ordered
// UUIDv7 primary keys).
func (s *Store) List(filter Filter) ([]models.Transaction, error) {
	q := s.db.Model(&models.Transaction{})
	if filter.AccountID != nil {
		q = q.Where("account_id = ?", *filter.AccountID)
	}
	if len(filter.Actions) > 0 {
		q = q.Where("action IN ?", filter.Actions)
	}
	if filter.Until != nil {
		q = q.Where("settlement_date <= ?", *filter.Until)
	}

	var txs []models.Transaction
	if err := q.Order("settlement_date ASC, id ASC").Find(&txs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return txs, nil
}

// FirstSettlementDate returns the earliest settlement date in scope, or
// nil if the ledger is empty (a valid empty result, not an error).
func (s *Store) FirstSettlementDate(accountID *string) (*time.Time, error) {
	q := s.db.Model(&models.Transaction{})
	if accountID != nil {
		q = q.Where("account_id = ?", *accountID)
	}

	var tx models.Transaction
	err := q.Order("settlement_date ASC, id ASC").First(&tx).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &tx.SettlementDate, nil
}

// DistinctSymbols returns every symbol that appears on position-affecting
// rows in scope, using the mapped symbol where the importer resolved one.
func (s *Store) DistinctSymbols(accountID *string) ([]string, error) {
	filter := Filter{
		AccountID: accountID,
		Actions: []models.Action{
			models.ActionBuy, models.ActionSell, models.ActionREI,
			models.ActionCON, models.ActionTFI, models.ActionDEP,
			models.ActionWDR, models.ActionTFO, models.ActionDIS,
		},
	}
	txs, err := s.List(filter)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var symbols []string
	for i := range txs {
		sym := txs[i].EffectiveSymbol()
		if sym == "" || seen[sym] {
			continue
		}
		seen[sym] = true
		symbols = append(symbols, sym)
	}
	return symbols, nil
}

// GetAccount returns the account with the given ID.
func (s *Store) GetAccount(accountID string) (*models.Account, error) {
	var account models.Account
	if err := s.db.First(&account, "id = ?", accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &account, nil
}

// ListAccounts returns all active accounts.
func (s *Store) ListAccounts() ([]models.Account, error) {
	var accounts []models.Account
	if err := s.db.Where("is_active = ?", true).Order("name ASC").Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return accounts, nil
}
