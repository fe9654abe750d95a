package dividend

import (
	"testing"
	"time"

	"divtrack/internal/models"
	"divtrack/internal/testutil"
)

func div(t *testing.T, symbol, amount string, date time.Time) models.Transaction {
	t.Helper()

	return models.Transaction{
		ID:             models.NewID(),
		AccountID:      "acct-1",
		Action:         models.ActionDIV,
		Symbol:         symbol,
		NetAmount:      testutil.Dec(t, amount),
		Currency:       "CAD",
		SettlementDate: date,
	}
}

func TestClassify(t *testing.T) {
	base := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	datesFromGaps := func(gaps ...int) []time.Time {
		dates := []time.Time{base}
		for _, g := range gaps {
			dates = append(dates, dates[len(dates)-1].AddDate(0, 0, g))
		}
		return dates
	}

	tests := []struct {
		name  string
		dates []time.Time
		want  Frequency
	}{
		{"quarterly_with_drift", datesFromGaps(90, 91, 89), FrequencyQuarterly},
		{"monthly", datesFromGaps(30, 31, 30), FrequencyMonthly},
		{"annual", datesFromGaps(365), FrequencyAnnual},
		{"too_frequent_is_irregular", datesFromGaps(10, 10), FrequencyIrregular},
		{"single_payment_is_irregular", []time.Time{base}, FrequencyIrregular},
		{"empty_is_irregular", nil, FrequencyIrregular},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.dates); got != tt.want {
				t.Errorf("Classify() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPaymentsPerYear(t *testing.T) {
	if got := FrequencyMonthly.PaymentsPerYear(7); got != 12 {
		t.Errorf("monthly = %d, want 12", got)
	}
	if got := FrequencyQuarterly.PaymentsPerYear(4); got != 4 {
		t.Errorf("quarterly = %d, want 4", got)
	}
	if got := FrequencyAnnual.PaymentsPerYear(1); got != 1 {
		t.Errorf("annual = %d, want 1", got)
	}
	if got := FrequencyIrregular.PaymentsPerYear(3); got != 3 {
		t.Errorf("irregular should pass through the observed count, got %d", got)
	}
}

// quarterlyHistory builds $25 payments on Mar/Jun/Sep/Dec 15 for the
// given years.
func quarterlyHistory(t *testing.T, symbol string, years ...int) []models.Transaction {
	t.Helper()

	var txs []models.Transaction
	for _, y := range years {
		for _, m := range []time.Month{time.March, time.June, time.September, time.December} {
			txs = append(txs, div(t, symbol, "25", time.Date(y, m, 15, 0, 0, 0, 0, time.UTC)))
		}
	}
	return txs
}

func TestProjectQuarterlyPayer(t *testing.T) {
	txs := quarterlyHistory(t, "VDY.TO", 2022, 2023, 2024)

	t.Run("full_year_ahead", func(t *testing.T) {
		now := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
		result := Project(txs, 2025, now)

		if len(result.Projections) != 1 {
			t.Fatalf("expected 1 projection, got %d", len(result.Projections))
		}
		p := result.Projections[0]

		if p.Frequency != FrequencyQuarterly {
			t.Errorf("frequency = %q, want quarterly", p.Frequency)
		}
		if p.PaymentCount != 4 {
			t.Errorf("payment count = %d, want 4", p.PaymentCount)
		}
		testutil.AssertDecimalEqual(t, p.TotalPastYear, "100")
		testutil.AssertDecimalEqual(t, p.AvgPayment, "25")
		testutil.AssertDecimalEqual(t, p.ProjectedAnnual, "100")
		if p.RemainingPayments != 4 {
			t.Errorf("remaining payments = %d, want 4", p.RemainingPayments)
		}
		testutil.AssertDecimalEqual(t, p.ProjectedRemaining, "100")
		// Three distinct years of history with a known cadence.
		if p.Confidence != 95 {
			t.Errorf("confidence = %d, want 95", p.Confidence)
		}
	})

	t.Run("mid_year_counts_paid", func(t *testing.T) {
		now := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
		result := Project(txs, 2024, now)

		p := result.Projections[0]
		if p.RemainingPayments != 2 {
			t.Errorf("remaining payments = %d, want 2", p.RemainingPayments)
		}
		testutil.AssertDecimalEqual(t, p.ProjectedRemaining, "50")
	})

	t.Run("future_dated_rows_are_not_paid", func(t *testing.T) {
		// All four 2024 rows sit after now, so none counts as paid yet.
		now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		result := Project(txs, 2024, now)

		p := result.Projections[0]
		if p.RemainingPayments != 4 {
			t.Errorf("remaining payments = %d, want 4", p.RemainingPayments)
		}
		testutil.AssertDecimalEqual(t, p.ProjectedRemaining, "100")
	})
}

func TestProjectSinglePaymentIsIrregular(t *testing.T) {
	now := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	txs := []models.Transaction{
		div(t, "ONCE.TO", "12.34", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)),
	}

	result := Project(txs, 2024, now)
	if len(result.Projections) != 1 {
		t.Fatalf("expected 1 projection, got %d", len(result.Projections))
	}
	p := result.Projections[0]

	if p.Frequency != FrequencyIrregular {
		t.Errorf("frequency = %q, want irregular", p.Frequency)
	}
	// One observation, already paid this year.
	if p.RemainingPayments != 0 {
		t.Errorf("remaining payments = %d, want 0", p.RemainingPayments)
	}
	// One distinct year, irregular cadence.
	if p.Confidence != 60 {
		t.Errorf("confidence = %d, want 60", p.Confidence)
	}
}

func TestProjectOmitsDormantSymbols(t *testing.T) {
	now := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	// All payments fell out of the trailing window years ago.
	txs := quarterlyHistory(t, "GONE.TO", 2020, 2021)

	result := Project(txs, 2025, now)
	if len(result.Projections) != 0 {
		t.Errorf("expected no projections for dormant symbol, got %d", len(result.Projections))
	}
}

func TestProjectIgnoresNonDividendRows(t *testing.T) {
	now := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	buy := div(t, "XEQT.TO", "100", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	buy.Action = models.ActionBuy

	result := Project([]models.Transaction{buy}, 2024, now)
	if len(result.Projections) != 0 {
		t.Errorf("expected non-DIV rows to be ignored, got %d projections", len(result.Projections))
	}
}

func TestProjectUsesMappedSymbol(t *testing.T) {
	now := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	raw := div(t, "VANGUARD DIV ETF", "25", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))
	raw.SymbolMapped = "VDY.TO"
	mapped := div(t, "VDY.TO", "25", time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC))

	result := Project([]models.Transaction{raw, mapped}, 2024, now)
	if len(result.Projections) != 1 {
		t.Fatalf("expected rows to merge under the mapped symbol, got %d projections", len(result.Projections))
	}
	if result.Projections[0].Symbol != "VDY.TO" {
		t.Errorf("symbol = %q, want VDY.TO", result.Projections[0].Symbol)
	}
	testutil.AssertDecimalEqual(t, result.Projections[0].TotalPastYear, "50")
}

func TestMonthlyForecast(t *testing.T) {
	now := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	txs := quarterlyHistory(t, "VDY.TO", 2023, 2024)

	result := Project(txs, 2025, now)

	if len(result.Monthly) != 12 {
		t.Fatalf("expected 12 monthly entries, got %d", len(result.Monthly))
	}

	payMonths := map[time.Month]bool{
		time.March: true, time.June: true, time.September: true, time.December: true,
	}
	for _, entry := range result.Monthly {
		if payMonths[entry.Month] {
			testutil.AssertDecimalEqual(t, entry.Total, "25")
			testutil.AssertDecimalEqual(t, entry.Amounts["CAD"], "25")
		} else if !entry.Total.IsZero() {
			t.Errorf("month %s total = %s, want 0", entry.Month, entry.Total)
		}
	}
}

func TestTypicalMonthsThinHistory(t *testing.T) {
	// Two payments, both in distinct months: thin history accepts a
	// single occurrence per month.
	h := &history{all: []models.Transaction{
		div(t, "NEW.TO", "10", time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC)),
		div(t, "NEW.TO", "10", time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC)),
	}}

	months := h.typicalMonths()
	if len(months) != 2 || months[0] != time.April || months[1] != time.July {
		t.Errorf("typical months = %v, want [April July]", months)
	}
}
