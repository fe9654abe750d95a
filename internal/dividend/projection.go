// Package dividend infers recurring payment patterns from cash-dividend
// ledger rows and projects forward annual and remaining income, plus a
// month-by-month distribution forecast.
package dividend

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"divtrack/internal/models"
)

// trailingWindow is the observation window for amounts and cadence.
const trailingWindow = 12 // months

// minPaymentsForMonthRecurrence: below this many total observations a
// single occurrence of a month is enough to call it a typical pay month.
const minPaymentsForMonthRecurrence = 5

// Projection is the forward-looking dividend estimate for one symbol.
type Projection struct {
	Symbol             string          `json:"symbol"`
	Currency           string          `json:"currency"`
	TotalPastYear      decimal.Decimal `json:"total_past_year"`
	PaymentCount       int             `json:"payment_count"`
	AvgPayment         decimal.Decimal `json:"avg_payment"`
	Frequency          Frequency       `json:"frequency"`
	ProjectedAnnual    decimal.Decimal `json:"projected_annual"`
	RemainingPayments  int             `json:"remaining_payments"`
	ProjectedRemaining decimal.Decimal `json:"projected_remaining"`
	Confidence         int             `json:"confidence"`
}

// MonthlyProjection is the forecast for one calendar month of the target
// year, split by currency.
type MonthlyProjection struct {
	Month   time.Month                 `json:"month"`
	Amounts map[string]decimal.Decimal `json:"amounts"`
	Total   decimal.Decimal            `json:"total"`
}

// Result bundles per-symbol projections with the monthly forecast.
type Result struct {
	Year        int                 `json:"year"`
	Projections []Projection        `json:"projections"`
	Monthly     []MonthlyProjection `json:"monthly"`
}

// history is the per-symbol view of all DIV rows.
type history struct {
	symbol   string
	currency string
	all      []models.Transaction // sorted by settlement date
	trailing []models.Transaction // within the trailing window
}

// Project builds projections from cash-dividend rows. Amounts and cadence
// come from the trailing twelve months; history depth (confidence) and
// typical payment months consider the full row set. Symbols with no
// payment inside the trailing window are omitted.
func Project(txs []models.Transaction, year int, now time.Time) *Result {
	windowStart := now.AddDate(0, -trailingWindow, 0)

	bySymbol := make(map[string]*history)
	for i := range txs {
		tx := &txs[i]
		if tx.Action != models.ActionDIV {
			continue
		}
		sym := tx.EffectiveSymbol()
		if sym == "" {
			continue
		}
		h := bySymbol[sym]
		if h == nil {
			h = &history{symbol: sym}
			bySymbol[sym] = h
		}
		h.all = append(h.all, *tx)
	}

	result := &Result{Year: year}
	monthly := newMonthlyForecast()

	for _, h := range bySymbol {
		sort.SliceStable(h.all, func(i, j int) bool {
			return h.all[i].SettlementDate.Before(h.all[j].SettlementDate)
		})
		h.currency = h.all[len(h.all)-1].Currency

		for i := range h.all {
			d := h.all[i].SettlementDate
			if d.After(windowStart) && !d.After(now) {
				h.trailing = append(h.trailing, h.all[i])
			}
		}
		if len(h.trailing) == 0 {
			continue
		}

		p := h.project(year, now)
		result.Projections = append(result.Projections, p)
		monthly.add(h, p.AvgPayment)
	}

	sort.Slice(result.Projections, func(i, j int) bool {
		return result.Projections[i].Symbol < result.Projections[j].Symbol
	})
	result.Monthly = monthly.entries()
	return result
}

// project computes the forward estimate for one symbol.
func (h *history) project(year int, now time.Time) Projection {
	total := decimal.Zero
	var dates []time.Time
	for i := range h.trailing {
		total = total.Add(h.trailing[i].NetAmount.Abs())
		dates = append(dates, h.trailing[i].SettlementDate)
	}
	count := len(h.trailing)
	avg := meanPayment(total, count)
	freq := Classify(dates)

	perYear := freq.PaymentsPerYear(count)
	paidThisYear := 0
	years := make(map[int]bool)
	for i := range h.all {
		d := h.all[i].SettlementDate
		years[d.Year()] = true
		// Rows settling after now have not been paid yet, even when the
		// ledger already carries them for the target year.
		if d.Year() == year && !d.After(now) {
			paidThisYear++
		}
	}

	remaining := perYear - paidThisYear
	if remaining < 0 {
		remaining = 0
	}

	return Projection{
		Symbol:             h.symbol,
		Currency:           h.currency,
		TotalPastYear:      total,
		PaymentCount:       count,
		AvgPayment:         avg,
		Frequency:          freq,
		ProjectedAnnual:    avg.Mul(decimal.NewFromInt(int64(perYear))),
		RemainingPayments:  remaining,
		ProjectedRemaining: avg.Mul(decimal.NewFromInt(int64(remaining))),
		Confidence:         confidenceScore(len(years), freq),
	}
}

// typicalMonths returns the calendar months this symbol habitually pays
// in: months seen at least twice across the full history, or at least
// once when the history is thin.
func (h *history) typicalMonths() []time.Month {
	counts := make(map[time.Month]int)
	for i := range h.all {
		counts[h.all[i].SettlementDate.Month()]++
	}

	required := 2
	if len(h.all) < minPaymentsForMonthRecurrence {
		required = 1
	}

	var months []time.Month
	for m := time.January; m <= time.December; m++ {
		if counts[m] >= required {
			months = append(months, m)
		}
	}
	return months
}

// monthlyForecast accumulates per-month, per-currency projected amounts.
type monthlyForecast struct {
	amounts [12]map[string]decimal.Decimal
}

func newMonthlyForecast() *monthlyForecast {
	f := &monthlyForecast{}
	for i := range f.amounts {
		f.amounts[i] = make(map[string]decimal.Decimal)
	}
	return f
}

func (f *monthlyForecast) add(h *history, avgPayment decimal.Decimal) {
	for _, m := range h.typicalMonths() {
		idx := int(m) - 1
		f.amounts[idx][h.currency] = f.amounts[idx][h.currency].Add(avgPayment)
	}
}

func (f *monthlyForecast) entries() []MonthlyProjection {
	out := make([]MonthlyProjection, 12)
	for i := range f.amounts {
		total := decimal.Zero
		for _, v := range f.amounts[i] {
			total = total.Add(v)
		}
		out[i] = MonthlyProjection{
			Month:   time.Month(i + 1),
			Amounts: f.amounts[i],
			Total:   total,
		}
	}
	return out
}
