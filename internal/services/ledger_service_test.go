package services

import (
	"testing"
	"time"

	"divtrack/internal/ledger"
	"divtrack/internal/models"
	"divtrack/internal/pagination"
	"divtrack/internal/testutil"
)

func TestLedgerServiceListTransactions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	account := testutil.CreateTestAccount(t, db)
	svc := NewLedgerService(db, ledger.NewStore(db))

	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		testutil.CreateTestTrade(t, db, account.ID, models.ActionBuy, "XEQT.TO", "1", "100", "0",
			start.AddDate(0, 0, i))
	}
	testutil.CreateTestCashflow(t, db, account.ID, models.ActionDIV, "XEQT.TO", "12",
		start.AddDate(0, 1, 0))

	t.Run("newest_first_with_pagination", func(t *testing.T) {
		page := pagination.PageRequest{Page: 1, PageSize: 4}
		result, err := svc.ListTransactions(page, TransactionFilter{})
		testutil.AssertNoError(t, err)

		if result.TotalItems != 6 {
			t.Errorf("total items = %d, want 6", result.TotalItems)
		}
		if result.TotalPages != 2 {
			t.Errorf("total pages = %d, want 2", result.TotalPages)
		}
		if len(result.Data) != 4 {
			t.Fatalf("page size = %d, want 4", len(result.Data))
		}
		if result.Data[0].Action != models.ActionDIV {
			t.Errorf("first row = %s, want the newest (DIV)", result.Data[0].Action)
		}
	})

	t.Run("action_filter", func(t *testing.T) {
		action := models.ActionDIV
		page := pagination.PageRequest{}
		result, err := svc.ListTransactions(page, TransactionFilter{Action: &action})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 1 {
			t.Errorf("total items = %d, want 1", result.TotalItems)
		}
	})

	t.Run("date_range_filter", func(t *testing.T) {
		from := start.AddDate(0, 0, 1)
		to := start.AddDate(0, 0, 3)
		result, err := svc.ListTransactions(pagination.PageRequest{}, TransactionFilter{
			FromDate: &from,
			ToDate:   &to,
		})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 3 {
			t.Errorf("total items = %d, want 3", result.TotalItems)
		}
	})

	t.Run("symbol_matches_mapped_too", func(t *testing.T) {
		raw := testutil.CreateTestTrade(t, db, account.ID, models.ActionBuy, "VANGUARD DIV ETF", "1", "45", "0", start)
		testutil.AssertNoError(t, db.Model(raw).Update("symbol_mapped", "VDY.TO").Error)

		symbol := "VDY.TO"
		result, err := svc.ListTransactions(pagination.PageRequest{}, TransactionFilter{Symbol: &symbol})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 1 {
			t.Errorf("total items = %d, want 1 via mapped symbol", result.TotalItems)
		}
	})

	t.Run("currency_filter", func(t *testing.T) {
		usd := testutil.CreateTestTrade(t, db, account.ID, models.ActionBuy, "VTI", "1", "250", "0", start)
		testutil.AssertNoError(t, db.Model(usd).Update("currency", "USD").Error)

		currency := "USD"
		result, err := svc.ListTransactions(pagination.PageRequest{}, TransactionFilter{Currency: &currency})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 1 {
			t.Errorf("total items = %d, want 1 USD row", result.TotalItems)
		}
	})

	t.Run("unknown_account", func(t *testing.T) {
		id := models.NewID()
		_, err := svc.ListTransactions(pagination.PageRequest{}, TransactionFilter{AccountID: &id})
		testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
	})
}

func TestLedgerServiceListAccounts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	svc := NewLedgerService(db, ledger.NewStore(db))
	testutil.CreateTestAccount(t, db)
	testutil.CreateTestAccount(t, db)

	accounts, err := svc.ListAccounts()
	testutil.AssertNoError(t, err)
	if len(accounts) != 2 {
		t.Errorf("expected 2 accounts, got %d", len(accounts))
	}
}
