package dividend

import (
	"time"

	"github.com/shopspring/decimal"
)

// Frequency is a detected dividend payment cadence.
type Frequency string

const (
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyAnnual    Frequency = "annual"
	FrequencyIrregular Frequency = "irregular"
)

// Cadence classification thresholds, in days between consecutive
// payments. These are tuned heuristics for noisy real-world pay dates
// (a "quarterly" payer drifts between 85 and 95 days), not a precise
// model.
const (
	monthlyGapMin   = 20
	monthlyGapMax   = 45
	quarterlyGapMin = 75
	quarterlyGapMax = 120
	annualGapMin    = 300
	annualGapMax    = 400
)

// minPaymentsForCadence is the minimum observation count before any
// cadence other than irregular can be claimed.
const minPaymentsForCadence = 2

// Classify infers a payment cadence from payment dates sorted ascending.
// It is a pure function of the gaps between consecutive dates: the mean
// gap in days is matched against the threshold windows above.
func Classify(dates []time.Time) Frequency {
	if len(dates) < minPaymentsForCadence {
		return FrequencyIrregular
	}

	var totalDays float64
	for i := 1; i < len(dates); i++ {
		totalDays += dates[i].Sub(dates[i-1]).Hours() / 24
	}
	meanGap := totalDays / float64(len(dates)-1)

	switch {
	case meanGap >= monthlyGapMin && meanGap <= monthlyGapMax:
		return FrequencyMonthly
	case meanGap >= quarterlyGapMin && meanGap <= quarterlyGapMax:
		return FrequencyQuarterly
	case meanGap >= annualGapMin && meanGap <= annualGapMax:
		return FrequencyAnnual
	default:
		return FrequencyIrregular
	}
}

// PaymentsPerYear returns the expected annual payment count for a
// cadence. Irregular payers have no model, so the observed trailing
// count stands in.
func (f Frequency) PaymentsPerYear(observed int) int {
	switch f {
	case FrequencyMonthly:
		return 12
	case FrequencyQuarterly:
		return 4
	case FrequencyAnnual:
		return 1
	default:
		return observed
	}
}

// Confidence scoring: a base score plus bonuses for history depth and a
// recognizable cadence, capped at 100.
const (
	confidenceBase         = 50
	confidenceThreeYears   = 35
	confidenceTwoYears     = 25
	confidenceOneYear      = 10
	confidenceKnownCadence = 10
	confidenceCap          = 100
)

// confidenceScore computes the projection confidence from the number of
// distinct calendar years of dividend history and the detected cadence.
func confidenceScore(distinctYears int, freq Frequency) int {
	score := confidenceBase
	switch {
	case distinctYears >= 3:
		score += confidenceThreeYears
	case distinctYears >= 2:
		score += confidenceTwoYears
	case distinctYears >= 1:
		score += confidenceOneYear
	}
	if freq != FrequencyIrregular {
		score += confidenceKnownCadence
	}
	if score > confidenceCap {
		score = confidenceCap
	}
	return score
}

// meanPayment returns total divided by count, or zero for an empty set.
func meanPayment(total decimal.Decimal, count int) decimal.Decimal {
	if count == 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(count)))
}
