package services

import (
	"testing"
	"time"

	"divtrack/internal/dividend"
	"divtrack/internal/ledger"
	"divtrack/internal/models"
	"divtrack/internal/testutil"
)

func TestDividendServiceProjections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	account := testutil.CreateTestAccount(t, db)
	now := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	svc := &dividendService{
		store: ledger.NewStore(db),
		now:   func() time.Time { return now },
	}

	// Quarterly $25 payer across 2023 and 2024.
	for _, y := range []int{2023, 2024} {
		for _, m := range []time.Month{time.March, time.June, time.September, time.December} {
			testutil.CreateTestCashflow(t, db, account.ID, models.ActionDIV, "VDY.TO", "25",
				time.Date(y, m, 15, 0, 0, 0, 0, time.UTC))
		}
	}
	// A buy row for the same symbol must not count as a payment.
	testutil.CreateTestTrade(t, db, account.ID, models.ActionBuy, "VDY.TO", "10", "45", "0",
		time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))

	t.Run("defaults_to_current_year", func(t *testing.T) {
		result, err := svc.Projections(nil, 0)
		testutil.AssertNoError(t, err)

		if result.Year != 2025 {
			t.Errorf("year = %d, want 2025", result.Year)
		}
		if len(result.Projections) != 1 {
			t.Fatalf("expected 1 projection, got %d", len(result.Projections))
		}
		p := result.Projections[0]
		if p.Frequency != dividend.FrequencyQuarterly {
			t.Errorf("frequency = %q, want quarterly", p.Frequency)
		}
		testutil.AssertDecimalEqual(t, p.ProjectedAnnual, "100")
	})

	t.Run("explicit_year", func(t *testing.T) {
		result, err := svc.Projections(nil, 2024)
		testutil.AssertNoError(t, err)

		p := result.Projections[0]
		// All four 2024 payments are on the books already.
		if p.RemainingPayments != 0 {
			t.Errorf("remaining payments = %d, want 0", p.RemainingPayments)
		}
	})

	t.Run("unknown_account", func(t *testing.T) {
		id := models.NewID()
		_, err := svc.Projections(&id, 0)
		testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
	})
}
