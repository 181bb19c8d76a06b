package engine

import (
	"github.com/shopspring/decimal"

	"github.com/rdelacruz/lendbook/pkg/dates"
	"github.com/rdelacruz/lendbook/pkg/models"
)

// Statements cut on the 5th of every month.
const billingDayOfMonth = 5

// NextBillingDate returns the billing boundary a day belongs to: the 5th
// of the same month when the day-of-month is on or before the 5th,
// otherwise the 5th of the following month.
func NextBillingDate(from dates.Day) dates.Day {
	fifth := from.AddDays(billingDayOfMonth - from.DayOfMonth())
	if from.DayOfMonth() <= billingDayOfMonth {
		return fifth
	}
	return fifth.AddMonths(1)
}

// GroupByBillingCycle buckets a ledger's daily interest into statement
// periods. It enumerates every billing boundary from fromDate through
// toDate plus one trailing boundary for the still-open cycle, then sums
// each day's accrued and paid interest into the boundary that day maps to.
//
// InterestDue is clamped at zero per bucket, so the breakdown is not
// required to reconcile with the running accrued-interest balance: a
// negative bucket (more paid than accrued) rolls over only through the
// running balance in the ledger itself.
func GroupByBillingCycle(ledger []models.LedgerEntry, fromDate, toDate dates.Day) []models.BillingCycle {
	if len(ledger) == 0 {
		return nil
	}

	type bucket struct {
		accrued decimal.Decimal
		paid    decimal.Decimal
	}
	buckets := make(map[string]*bucket)
	var boundaries []dates.Day

	addBoundary := func(d dates.Day) {
		buckets[d.String()] = &bucket{accrued: decimal.Zero, paid: decimal.Zero}
		boundaries = append(boundaries, d)
	}

	cursor := NextBillingDate(fromDate)
	for !cursor.After(toDate) {
		addBoundary(cursor)
		cursor = NextBillingDate(cursor.AddDays(1))
	}
	// The current partial period, past toDate.
	addBoundary(cursor)

	for _, day := range ledger {
		b, ok := buckets[NextBillingDate(day.Date).String()]
		if !ok {
			continue
		}
		b.accrued = b.accrued.Add(day.DailyInterestAdded)
		b.paid = b.paid.Add(day.InterestPaid)
	}

	// boundaries were generated in ascending order
	cycles := make([]models.BillingCycle, 0, len(boundaries))
	for _, d := range boundaries {
		b := buckets[d.String()]
		due := decimal.Max(decimal.Zero, b.accrued.Sub(b.paid))
		cycles = append(cycles, models.BillingCycle{
			BillingDate:     d,
			InterestAccrued: b.accrued.Round(2),
			InterestPaid:    b.paid.Round(2),
			InterestDue:     due.Round(2),
		})
	}
	return cycles
}
