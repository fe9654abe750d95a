package equity

import (
	"testing"
	"time"

	"divtrack/internal/testutil"
)

func TestParsePeriod(t *testing.T) {
	for _, token := range []string{"15d", "1m", "3m", "6m", "1y", "inception"} {
		if _, err := ParsePeriod(token); err != nil {
			t.Errorf("ParsePeriod(%q) unexpected error: %v", token, err)
		}
	}

	_, err := ParsePeriod("2w")
	testutil.AssertAppError(t, err, "INVALID_PERIOD")
}

func TestStartDate(t *testing.T) {
	now := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)
	first := time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		period Period
		first  *time.Time
		want   time.Time
	}{
		{"fifteen_days", Period15D, nil, now.AddDate(0, 0, -15)},
		{"one_month", Period1M, nil, now.AddDate(0, -1, 0)},
		{"one_year", Period1Y, nil, now.AddDate(-1, 0, 0)},
		{"inception_from_ledger", PeriodInception, &first, first},
		{"inception_empty_ledger", PeriodInception, nil, now.AddDate(-1, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.period.startDate(now, tt.first); !got.Equal(tt.want) {
				t.Errorf("startDate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInterval(t *testing.T) {
	now := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		period Period
		start  time.Time
		want   time.Duration
	}{
		{"short_spans_daily", Period15D, now.AddDate(0, 0, -15), dailyInterval},
		{"three_months_daily", Period3M, now.AddDate(0, -3, 0), dailyInterval},
		{"six_months_weekly", Period6M, now.AddDate(0, -6, 0), weeklyInterval},
		{"one_year_weekly", Period1Y, now.AddDate(-1, 0, 0), weeklyInterval},
		{"young_inception_daily", PeriodInception, now.AddDate(0, 0, -60), dailyInterval},
		{"old_inception_weekly", PeriodInception, now.AddDate(-2, 0, 0), weeklyInterval},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.period.interval(tt.start, now); got != tt.want {
				t.Errorf("interval() = %v, want %v", got, tt.want)
			}
		})
	}
}
