package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rdelacruz/lendbook/pkg/dates"
)

// AggregateGroup is the sentinel group for the credit-line-wide view. It
// mixes every group's cash flow, so per-group validation does not apply
// to it.
const AggregateGroup = "Bank"

type TransactionType string

const (
	// TransactionTypeWithdrawal is a draw against the line; it increases
	// principal.
	TransactionTypeWithdrawal TransactionType = "Withdrawal"
	// TransactionTypePayment reduces accrued interest first, then principal.
	TransactionTypePayment TransactionType = "Payment"
	// TransactionTypeBank is a repayment on the aggregate credit line.
	// The ledger treats it exactly like a Payment; the distinction exists
	// only for reporting.
	TransactionTypeBank TransactionType = "Bank"
)

// Transaction is an immutable financial event effective on a calendar day.
type Transaction struct {
	ID           uuid.UUID       `json:"id"`
	Date         dates.Day       `json:"date"`
	Type         TransactionType `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	GroupName    string          `json:"group_name"`
	IsCreditLine bool            `json:"is_credit_line"`
	Notes        string          `json:"notes"`
	// CreatedAt is a display tie-breaker for same-day transactions; the
	// ledger math never reads it.
	CreatedAt time.Time `json:"created_at"`
}

// RateRule is one step of the annual-rate schedule. The rate in force on a
// day is the rule with the latest EffectiveDate not after that day.
type RateRule struct {
	ID            uuid.UUID       `json:"id"`
	EffectiveDate dates.Day       `json:"effective_date"`
	AnnualRate    decimal.Decimal `json:"annual_rate"`
}

// Group is a borrower account. Multiplier is a legacy per-group interest
// adjustment; the engine applies the global rate schedule uniformly and
// ignores it.
type Group struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	Multiplier decimal.Decimal `json:"multiplier"`
	CreatedAt  time.Time       `json:"created_at"`
}

// LedgerEntry is one simulated day of balances. Entries are derived, never
// persisted.
type LedgerEntry struct {
	Date               dates.Day       `json:"date"`
	Principal          decimal.Decimal `json:"principal"`
	AccruedInterest    decimal.Decimal `json:"accrued_interest"`
	DailyInterestAdded decimal.Decimal `json:"daily_interest_added"`
	PrincipalPaid      decimal.Decimal `json:"principal_paid"`
	InterestPaid       decimal.Decimal `json:"interest_paid"`
	AppliedRate        decimal.Decimal `json:"applied_rate"`
}

// Balances is the current state read off the tail of a ledger, rounded to
// two decimal places at this boundary.
type Balances struct {
	Principal            decimal.Decimal `json:"principal"`
	AccruedInterest      decimal.Decimal `json:"accrued_interest"`
	AccrualStartDate     dates.Day       `json:"accrual_start_date"`
	DaysSinceLastPayment int             `json:"days_since_last_payment"`
}

// BillingCycle is one statement period's interest breakdown. InterestDue
// is clamped at zero for display; rollover lives in the running balance.
type BillingCycle struct {
	BillingDate     dates.Day       `json:"billing_date"`
	InterestAccrued decimal.Decimal `json:"interest_accrued"`
	InterestPaid    decimal.Decimal `json:"interest_paid"`
	InterestDue     decimal.Decimal `json:"interest_due"`
}
