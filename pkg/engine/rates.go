// Package engine implements the ledger accrual engine: a set of pure
// functions that rebuild a day-by-day simulation of principal and accrued
// interest from a transaction history and a rate schedule. Nothing here
// performs I/O, reads the clock, or mutates its inputs; every call
// recomputes from scratch and identical inputs always produce identical
// output.
package engine

import (
	"github.com/shopspring/decimal"

	"github.com/rdelacruz/lendbook/pkg/dates"
	"github.com/rdelacruz/lendbook/pkg/models"
)

var (
	// DefaultAnnualRate applies on any day not covered by a rate rule.
	DefaultAnnualRate = decimal.NewFromFloat(0.14)

	// 360-day convention, not 365.
	daysInYear = decimal.NewFromInt(360)
)

// ResolveRate returns the annual rate in force on a day: the rule with the
// latest effective date not after that day, or DefaultAnnualRate when no
// rule qualifies. The schedule does not need to be sorted.
func ResolveRate(schedule []models.RateRule, on dates.Day) decimal.Decimal {
	var active *models.RateRule
	for i := range schedule {
		r := &schedule[i]
		if r.EffectiveDate.IsZero() || r.EffectiveDate.After(on) {
			continue
		}
		if active == nil || r.EffectiveDate.After(active.EffectiveDate) {
			active = r
		}
	}
	if active == nil {
		return DefaultAnnualRate
	}
	return active.AnnualRate
}

// DailyRate converts an annual rate to the per-day rate.
func DailyRate(annual decimal.Decimal) decimal.Decimal {
	return annual.Div(daysInYear)
}
