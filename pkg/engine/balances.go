package engine

import (
	"github.com/shopspring/decimal"

	"github.com/rdelacruz/lendbook/pkg/dates"
	"github.com/rdelacruz/lendbook/pkg/models"
)

// CurrentBalances reads the tail of a ledger into the current state.
//
// Principal and accrued interest come from the last entry, rounded to two
// decimal places at this boundary only. The accrual start date is the day
// after the most recent day on which accrued interest sat at zero with no
// interest payment perturbing it; if the ledger never reached that state
// the window starts at the first ledger day. DaysSinceLastPayment is the
// inclusive day count from the accrual start to the last ledger day.
//
// An empty ledger means no history, not a zero debt: balances are zero and
// the accrual start falls back to earliestTxDate.
func CurrentBalances(ledger []models.LedgerEntry, earliestTxDate dates.Day) models.Balances {
	if len(ledger) == 0 {
		return models.Balances{
			Principal:        decimal.Zero,
			AccruedInterest:  decimal.Zero,
			AccrualStartDate: earliestTxDate,
		}
	}

	last := ledger[len(ledger)-1]

	accrualStart := earliestTxDate
	days := 0

	for i := len(ledger) - 1; i >= 0; i-- {
		days++
		if ledger[i].AccruedInterest.IsZero() && ledger[i].InterestPaid.IsZero() {
			if i+1 < len(ledger) {
				// The window restarts the day after interest was last zero.
				accrualStart = ledger[i+1].Date
				days = dates.DiffDays(ledger[i+1].Date, last.Date) + 1
			} else {
				// Interest is zero today; nothing is accruing yet.
				accrualStart = ledger[i].Date
				days = 0
			}
			break
		}
		if i == 0 {
			accrualStart = ledger[0].Date
			days = len(ledger)
		}
	}

	return models.Balances{
		Principal:            last.Principal.Round(2),
		AccruedInterest:      last.AccruedInterest.Round(2),
		AccrualStartDate:     accrualStart,
		DaysSinceLastPayment: days,
	}
}
