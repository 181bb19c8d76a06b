package engine

import (
	"github.com/shopspring/decimal"

	"github.com/rdelacruz/lendbook/pkg/dates"
	"github.com/rdelacruz/lendbook/pkg/models"
)

// GenerateLedger walks every calendar day from fromDate to toDate
// inclusive and simulates the group's balances. Each day it resolves the
// annual rate, accrues interest on the principal carried in from the
// previous day, then posts that day's transactions: withdrawals add to
// principal, payments pay down accrued interest first and principal with
// the remainder.
//
// An empty group means no filter: every transaction participates, which is
// how the aggregate credit-line view is built. A zero fromDate yields a
// nil ledger ("no history"), not an error. Transactions with a zero date
// never match any day of the walk and are skipped.
//
// The walk never clamps: a payment larger than the tracked balance drives
// principal negative. Rejecting such payments is the overpayment guard's
// job, not the simulator's. Balances stay at full precision here; rounding
// happens only in CurrentBalances and GroupByBillingCycle.
func GenerateLedger(txs []models.Transaction, group string, fromDate, toDate dates.Day, schedule []models.RateRule) []models.LedgerEntry {
	if fromDate.IsZero() {
		return nil
	}

	byDay := make(map[string][]models.Transaction)
	for _, tx := range txs {
		if group != "" && tx.GroupName != group {
			continue
		}
		if tx.Date.IsZero() {
			continue
		}
		byDay[tx.Date.String()] = append(byDay[tx.Date.String()], tx)
	}

	principal := decimal.Zero
	accruedInterest := decimal.Zero
	var ledger []models.LedgerEntry

	for cursor := fromDate; !cursor.After(toDate); cursor = cursor.AddDays(1) {
		annualRate := ResolveRate(schedule, cursor)

		// Accrue on the principal carried in from yesterday, before any
		// of today's transactions post.
		dailyInterestAdded := principal.Mul(DailyRate(annualRate))
		accruedInterest = accruedInterest.Add(dailyInterestAdded)

		principalPaid := decimal.Zero
		interestPaid := decimal.Zero

		todays := byDay[cursor.String()]

		// Withdrawals post before payments on the same day, so a draw is
		// never absorbed by a payment that happened to sort ahead of it.
		for _, tx := range todays {
			if tx.Type == models.TransactionTypeWithdrawal {
				principal = principal.Add(tx.Amount)
			}
		}
		for _, tx := range todays {
			if tx.Type != models.TransactionTypePayment && tx.Type != models.TransactionTypeBank {
				continue
			}
			payment := tx.Amount
			paidToInterest := decimal.Min(payment, accruedInterest)
			accruedInterest = accruedInterest.Sub(paidToInterest)
			interestPaid = interestPaid.Add(paidToInterest)
			payment = payment.Sub(paidToInterest)

			principal = principal.Sub(payment)
			principalPaid = principalPaid.Add(payment)
		}

		ledger = append(ledger, models.LedgerEntry{
			Date:               cursor,
			Principal:          principal,
			AccruedInterest:    accruedInterest,
			DailyInterestAdded: dailyInterestAdded,
			PrincipalPaid:      principalPaid,
			InterestPaid:       interestPaid,
			AppliedRate:        annualRate,
		})
	}

	return ledger
}
