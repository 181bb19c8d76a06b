package engine

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/rdelacruz/lendbook/pkg/models"
)

func TestCurrentBalances_EmptyLedger(t *testing.T) {
	earliest := day(t, "2024-01-01")
	got := CurrentBalances(nil, earliest)

	if !got.Principal.IsZero() || !got.AccruedInterest.IsZero() {
		t.Errorf("Expected zero balances, got %s / %s", got.Principal, got.AccruedInterest)
	}
	if !got.AccrualStartDate.Equal(earliest) {
		t.Errorf("Expected accrual start %s, got %s", earliest, got.AccrualStartDate)
	}
	if got.DaysSinceLastPayment != 0 {
		t.Errorf("Expected 0 days, got %d", got.DaysSinceLastPayment)
	}
}

func TestCurrentBalances_RoundsAtBoundary(t *testing.T) {
	txs := []models.Transaction{tx(t, "2024-01-01", models.TransactionTypeWithdrawal, 10000, "Jomar")}

	ledger := GenerateLedger(txs, "Jomar", day(t, "2024-01-01"), day(t, "2024-01-11"), nil)
	got := CurrentBalances(ledger, day(t, "2024-01-01"))

	if !got.Principal.Equal(decimal.NewFromInt(10000)) {
		t.Errorf("Expected principal 10000, got %s", got.Principal)
	}
	// 10 accrual days at 10000 * 0.14/360 = 38.89 rounded.
	want := decimal.NewFromFloat(38.89)
	if !got.AccruedInterest.Equal(want) {
		t.Errorf("Expected accrued interest %s, got %s", want, got.AccruedInterest)
	}
}

// The accrual window restarts the day after interest last sat at zero.
// The draw day itself has zero interest and no interest payment, so the
// window starts the following day.
func TestCurrentBalances_AccrualWindow(t *testing.T) {
	txs := []models.Transaction{tx(t, "2024-01-01", models.TransactionTypeWithdrawal, 1000, "Jomar")}

	ledger := GenerateLedger(txs, "Jomar", day(t, "2024-01-01"), day(t, "2024-01-10"), nil)
	got := CurrentBalances(ledger, day(t, "2024-01-01"))

	if !got.AccrualStartDate.Equal(day(t, "2024-01-02")) {
		t.Errorf("Expected accrual start 2024-01-02, got %s", got.AccrualStartDate)
	}
	if got.DaysSinceLastPayment != 9 {
		t.Errorf("Expected 9 days since last zero, got %d", got.DaysSinceLastPayment)
	}
}

// A full payoff zeroes the window: the payoff day itself has an interest
// payment, but every quiet day after it qualifies as a restart point.
func TestCurrentBalances_AfterFullPayoff(t *testing.T) {
	daily := decimal.NewFromInt(1000).Mul(DailyRate(DefaultAnnualRate))
	payoff := decimal.NewFromInt(1000).Add(daily.Mul(decimal.NewFromInt(4)))

	txs := []models.Transaction{
		tx(t, "2024-01-01", models.TransactionTypeWithdrawal, 1000, "Jomar"),
		{
			Date:      day(t, "2024-01-05"),
			Type:      models.TransactionTypePayment,
			Amount:    payoff,
			GroupName: "Jomar",
		},
	}

	ledger := GenerateLedger(txs, "Jomar", day(t, "2024-01-01"), day(t, "2024-01-10"), nil)
	got := CurrentBalances(ledger, day(t, "2024-01-01"))

	if !got.Principal.IsZero() || !got.AccruedInterest.IsZero() {
		t.Errorf("Expected zero balances after payoff, got %s / %s", got.Principal, got.AccruedInterest)
	}
	if got.DaysSinceLastPayment != 0 {
		t.Errorf("Expected 0 days after payoff, got %d", got.DaysSinceLastPayment)
	}
	if !got.AccrualStartDate.Equal(day(t, "2024-01-10")) {
		t.Errorf("Expected accrual start at the last day, got %s", got.AccrualStartDate)
	}
}

// With interest never zeroed and no quiet day anywhere, the window spans
// the whole ledger.
func TestCurrentBalances_NoRestartPoint(t *testing.T) {
	// Withdrawal before the walk starts: principal enters on day one and
	// interest accrues from the very first entry.
	txs := []models.Transaction{tx(t, "2024-01-01", models.TransactionTypeWithdrawal, 1000, "Jomar")}

	ledger := GenerateLedger(txs, "Jomar", day(t, "2024-01-01"), day(t, "2024-01-10"), nil)
	// Drop the quiet draw day so no zero-interest day remains.
	ledger = ledger[1:]

	got := CurrentBalances(ledger, day(t, "2023-12-01"))
	if !got.AccrualStartDate.Equal(day(t, "2024-01-02")) {
		t.Errorf("Expected accrual start at first ledger day, got %s", got.AccrualStartDate)
	}
	if got.DaysSinceLastPayment != len(ledger) {
		t.Errorf("Expected %d days, got %d", len(ledger), got.DaysSinceLastPayment)
	}
}
