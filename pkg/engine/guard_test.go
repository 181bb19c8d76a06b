package engine

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rdelacruz/lendbook/pkg/models"
)

// Ceiling of exactly 1000: a draw today with no accrual days yet.
func TestIsPaymentSafe_ToleranceBoundary(t *testing.T) {
	today := day(t, "2024-01-01")
	txs := []models.Transaction{tx(t, "2024-01-01", models.TransactionTypeWithdrawal, 1000, "Jomar")}

	if !IsPaymentSafe(txs, nil, "Jomar", decimal.NewFromFloat(1000.50), uuid.Nil, today) {
		t.Error("Expected 1000.50 accepted within the 1-unit tolerance")
	}
	if IsPaymentSafe(txs, nil, "Jomar", decimal.NewFromFloat(1001.01), uuid.Nil, today) {
		t.Error("Expected 1001.01 rejected beyond the tolerance")
	}
}

func TestIsPaymentSafe_AggregateGroupExempt(t *testing.T) {
	today := day(t, "2024-01-01")
	// No transactions at all: any per-group ceiling would be zero.
	if !IsPaymentSafe(nil, nil, models.AggregateGroup, decimal.NewFromInt(1000000), uuid.Nil, today) {
		t.Error("Expected aggregate group payments to bypass the ceiling")
	}
}

func TestIsPaymentSafe_CeilingIncludesInterest(t *testing.T) {
	today := day(t, "2024-01-11")
	txs := []models.Transaction{tx(t, "2024-01-01", models.TransactionTypeWithdrawal, 10000, "Jomar")}

	// Principal 10000 plus 38.89 accrued plus 1 tolerance.
	if !IsPaymentSafe(txs, nil, "Jomar", decimal.NewFromFloat(10039.89), uuid.Nil, today) {
		t.Error("Expected payment up to principal+interest+tolerance accepted")
	}
	if IsPaymentSafe(txs, nil, "Jomar", decimal.NewFromFloat(10041), uuid.Nil, today) {
		t.Error("Expected payment beyond principal+interest+tolerance rejected")
	}
}

// Editing an existing payment adds its original amount back into the
// ceiling so it is not double-counted against itself.
func TestIsPaymentSafe_EditingExistingPayment(t *testing.T) {
	today := day(t, "2024-01-01")
	existing := tx(t, "2024-01-01", models.TransactionTypePayment, 800, "Jomar")
	txs := []models.Transaction{
		tx(t, "2024-01-01", models.TransactionTypeWithdrawal, 1000, "Jomar"),
		existing,
	}

	// Remaining balance is 200; a new 600 payment is an overpayment.
	if IsPaymentSafe(txs, nil, "Jomar", decimal.NewFromInt(600), uuid.Nil, today) {
		t.Error("Expected new 600 payment rejected against remaining 200")
	}
	// But changing the existing 800 payment to 600 is fine: the original
	// amount returns to the ceiling first, making 600 <= 200+800+1.
	if !IsPaymentSafe(txs, nil, "Jomar", decimal.NewFromInt(600), existing.ID, today) {
		t.Error("Expected edited payment accepted once its own amount is excluded")
	}
}

func TestEarliestTransactionDate(t *testing.T) {
	fallback := day(t, "2024-06-01")
	txs := []models.Transaction{
		tx(t, "2024-03-10", models.TransactionTypeWithdrawal, 100, "Jomar"),
		tx(t, "2024-01-15", models.TransactionTypePayment, 50, "Jomar"),
		tx(t, "2023-11-01", models.TransactionTypeWithdrawal, 75, "Ramil"),
	}

	got := EarliestTransactionDate(txs, "Jomar", fallback)
	if !got.Equal(day(t, "2024-01-15")) {
		t.Errorf("Expected 2024-01-15, got %s", got)
	}

	// Unfiltered spans all groups.
	got = EarliestTransactionDate(txs, "", fallback)
	if !got.Equal(day(t, "2023-11-01")) {
		t.Errorf("Expected 2023-11-01, got %s", got)
	}

	// No transactions for the group: fall back.
	got = EarliestTransactionDate(txs, "Nobody", fallback)
	if !got.Equal(fallback) {
		t.Errorf("Expected fallback %s, got %s", fallback, got)
	}
}
