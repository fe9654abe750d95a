package equity

import (
	"time"

	apperrors "divtrack/internal/errors"
)

// Period is a requested equity-curve span.
type Period string

const (
	Period15D       Period = "15d"
	Period1M        Period = "1m"
	Period3M        Period = "3m"
	Period6M        Period = "6m"
	Period1Y        Period = "1y"
	PeriodInception Period = "inception"
)

// Bucket intervals. Short spans get daily resolution; long spans widen
// to weekly buckets to bound the number of replay passes.
const (
	dailyInterval  = 24 * time.Hour
	weeklyInterval = 7 * 24 * time.Hour

	// inceptionDailyMaxDays is the longest inception span still bucketed
	// daily.
	inceptionDailyMaxDays = 90
)

// ParsePeriod validates a period token.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case Period15D, Period1M, Period3M, Period6M, Period1Y, PeriodInception:
		return Period(s), nil
	default:
		return "", apperrors.WithMessage(apperrors.ErrInvalidPeriod,
			"period must be one of 15d, 1m, 3m, 6m, 1y, inception")
	}
}

// startDate resolves the curve's first bucket date. For inception the
// caller supplies the ledger's first settlement date; nil means an empty
// ledger and falls back to one year ago.
func (p Period) startDate(now time.Time, firstSettlement *time.Time) time.Time {
	switch p {
	case Period15D:
		return now.AddDate(0, 0, -15)
	case Period1M:
		return now.AddDate(0, -1, 0)
	case Period3M:
		return now.AddDate(0, -3, 0)
	case Period6M:
		return now.AddDate(0, -6, 0)
	case Period1Y:
		return now.AddDate(-1, 0, 0)
	default: // inception
		if firstSettlement != nil {
			return *firstSettlement
		}
		return now.AddDate(-1, 0, 0)
	}
}

// interval chooses the bucket width for the span starting at start.
func (p Period) interval(start, now time.Time) time.Duration {
	switch p {
	case Period6M, Period1Y:
		return weeklyInterval
	case PeriodInception:
		if now.Sub(start) > inceptionDailyMaxDays*24*time.Hour {
			return weeklyInterval
		}
		return dailyInterval
	default:
		return dailyInterval
	}
}

// endOfDay returns the last instant of d's calendar day, the as-of moment
// for a bucket's replay.
func endOfDay(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, 0, d.Location())
}
