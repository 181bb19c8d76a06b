package engine

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rdelacruz/lendbook/pkg/dates"
	"github.com/rdelacruz/lendbook/pkg/models"
)

// One unit of tolerance on the ceiling absorbs rounding drift between the
// rounded balances and the amount a user types in.
var overpaymentTolerance = decimal.NewFromInt(1)

// EarliestTransactionDate returns the date of the first transaction for a
// group (empty group means any), or fallback when the group has none. It
// anchors the start of a ledger walk.
func EarliestTransactionDate(txs []models.Transaction, group string, fallback dates.Day) dates.Day {
	var earliest dates.Day
	for _, tx := range txs {
		if group != "" && tx.GroupName != group {
			continue
		}
		if tx.Date.IsZero() {
			continue
		}
		if earliest.IsZero() || tx.Date.Before(earliest) {
			earliest = tx.Date
		}
	}
	if earliest.IsZero() {
		return fallback
	}
	return earliest
}

// IsPaymentSafe reports whether a payment of amount against a group stays
// within the group's current total owed (principal plus accrued interest,
// plus the tolerance). It rebuilds the group's ledger from its earliest
// transaction through today and reads the ceiling off the current
// balances.
//
// Payments to the aggregate group are always safe: that view mixes every
// group's flow, so a per-group ceiling is meaningless there.
//
// When editing an existing payment, pass its ID as editingID (uuid.Nil for
// a new entry). The edited transaction's original amount is added back
// into the ceiling, since the ledger being compared against already
// includes its effect.
func IsPaymentSafe(txs []models.Transaction, schedule []models.RateRule, group string, amount decimal.Decimal, editingID uuid.UUID, today dates.Day) bool {
	if group == models.AggregateGroup {
		return true
	}

	earliest := EarliestTransactionDate(txs, group, today)
	ledger := GenerateLedger(txs, group, earliest, today, schedule)
	current := CurrentBalances(ledger, earliest)

	ceiling := current.Principal.Add(current.AccruedInterest)

	if editingID != uuid.Nil {
		for _, tx := range txs {
			if tx.ID == editingID && tx.Type == models.TransactionTypePayment && tx.GroupName == group {
				ceiling = ceiling.Add(tx.Amount)
				break
			}
		}
	}

	return !amount.GreaterThan(ceiling.Add(overpaymentTolerance))
}
