// Package ledger wires the storage layer to the accrual engine. It owns
// the write path (validation, normalization, the overpayment guard) and
// the read path (balances, billing breakdowns, full ledgers) that the API
// surface exposes.
package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rdelacruz/lendbook/pkg/dates"
	"github.com/rdelacruz/lendbook/pkg/engine"
	"github.com/rdelacruz/lendbook/pkg/models"
	"github.com/rdelacruz/lendbook/pkg/store"
)

var (
	ErrInvalidAmount = errors.New("amount must be positive")
	ErrMissingDate   = errors.New("date is required")
	ErrInvalidType   = errors.New("unknown transaction type")
	ErrEmptyName     = errors.New("name can't be empty")
	ErrInvalidRate   = errors.New("annual rate must be a positive fraction")
	// ErrOverpayment is a validation verdict, not a failure: the payment
	// exceeds the group's current total owed.
	ErrOverpayment = errors.New("payment exceeds the group's current balance")
)

// Ledger handles the business logic for transactions, rate rules and
// groups over a Storage implementation.
type Ledger struct {
	storage store.Storage
	today   func() dates.Day // Injectable clock for tests
}

// NewLedger creates a new Ledger with a given Storage implementation.
func NewLedger(s store.Storage) *Ledger {
	return &Ledger{
		storage: s,
		today:   dates.Today,
	}
}

// GroupSummary is one group's current standing for the dashboard view.
type GroupSummary struct {
	Group           string          `json:"group"`
	Balances        models.Balances `json:"balances"`
	TotalOwed       decimal.Decimal `json:"total_owed"`
	NextBillingDate dates.Day       `json:"next_billing_date"`
}

func validateTransaction(tx *models.Transaction) error {
	if tx.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if tx.Date.IsZero() {
		return ErrMissingDate
	}
	switch tx.Type {
	case models.TransactionTypeWithdrawal, models.TransactionTypePayment, models.TransactionTypeBank:
		return nil
	default:
		return ErrInvalidType
	}
}

// normalize applies the funding-source rules: Bank entries always belong
// to the aggregate group, and repayments always come off the credit line.
func normalize(tx *models.Transaction) {
	if tx.Type == models.TransactionTypeBank {
		tx.GroupName = models.AggregateGroup
	}
	if tx.Type == models.TransactionTypePayment || tx.Type == models.TransactionTypeBank {
		tx.IsCreditLine = true
	}
}

// guardPayment rejects Payment transactions that would overdraw the
// group's balance. editingID is the transaction being edited, or uuid.Nil
// for a new entry. Bank entries and aggregate-group payments pass
// unchecked.
func (l *Ledger) guardPayment(tx *models.Transaction, editingID uuid.UUID) error {
	if tx.Type != models.TransactionTypePayment {
		return nil
	}
	txs, err := l.storage.GetTransactions("")
	if err != nil {
		return fmt.Errorf("failed to load transactions: %w", err)
	}
	schedule, err := l.storage.GetRateRules()
	if err != nil {
		return fmt.Errorf("failed to load rate schedule: %w", err)
	}
	if !engine.IsPaymentSafe(txs, schedule, tx.GroupName, tx.Amount, editingID, l.today()) {
		return ErrOverpayment
	}
	return nil
}

// RecordTransaction validates, normalizes and stores a new transaction.
func (l *Ledger) RecordTransaction(tx *models.Transaction) error {
	if err := validateTransaction(tx); err != nil {
		return err
	}
	normalize(tx)
	if err := l.guardPayment(tx, uuid.Nil); err != nil {
		return err
	}

	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	tx.CreatedAt = time.Now()

	if err := l.storage.CreateTransaction(tx); err != nil {
		return fmt.Errorf("failed to store transaction: %w", err)
	}
	return nil
}

// UpdateTransaction validates, normalizes and stores changes to an
// existing transaction. The overpayment check excludes the transaction's
// own prior amount from the ceiling.
func (l *Ledger) UpdateTransaction(tx *models.Transaction) error {
	if err := validateTransaction(tx); err != nil {
		return err
	}
	normalize(tx)
	if err := l.guardPayment(tx, tx.ID); err != nil {
		return err
	}
	return l.storage.UpdateTransaction(tx)
}

// DeleteTransaction deletes a transaction.
func (l *Ledger) DeleteTransaction(id uuid.UUID) error {
	return l.storage.DeleteTransaction(id)
}

// GetTransaction retrieves a transaction by its ID.
func (l *Ledger) GetTransaction(id uuid.UUID) (*models.Transaction, error) {
	return l.storage.GetTransaction(id)
}

// Transactions retrieves transactions, optionally scoped to a group.
func (l *Ledger) Transactions(group string) ([]models.Transaction, error) {
	return l.storage.GetTransactions(group)
}

// AddRateRule stores a new step of the rate schedule.
func (l *Ledger) AddRateRule(rule *models.RateRule) error {
	if rule.EffectiveDate.IsZero() {
		return ErrMissingDate
	}
	if rule.AnnualRate.LessThanOrEqual(decimal.Zero) || rule.AnnualRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return ErrInvalidRate
	}
	if rule.ID == uuid.Nil {
		rule.ID = uuid.New()
	}
	return l.storage.CreateRateRule(rule)
}

// UpdateRateRule stores changes to an existing rate rule.
func (l *Ledger) UpdateRateRule(rule *models.RateRule) error {
	if rule.EffectiveDate.IsZero() {
		return ErrMissingDate
	}
	if rule.AnnualRate.LessThanOrEqual(decimal.Zero) || rule.AnnualRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return ErrInvalidRate
	}
	return l.storage.UpdateRateRule(rule)
}

// DeleteRateRule deletes a rate rule.
func (l *Ledger) DeleteRateRule(id uuid.UUID) error {
	return l.storage.DeleteRateRule(id)
}

// RateSchedule retrieves the full rate schedule.
func (l *Ledger) RateSchedule() ([]models.RateRule, error) {
	return l.storage.GetRateRules()
}

// CreateGroup stores a new borrower group.
func (l *Ledger) CreateGroup(group *models.Group) error {
	if group.Name == "" {
		return ErrEmptyName
	}
	if group.ID == uuid.Nil {
		group.ID = uuid.New()
	}
	if group.Multiplier.IsZero() {
		group.Multiplier = decimal.NewFromInt(1)
	}
	group.CreatedAt = time.Now()
	return l.storage.CreateGroup(group)
}

// DeleteGroup deletes a group.
func (l *Ledger) DeleteGroup(id uuid.UUID) error {
	return l.storage.DeleteGroup(id)
}

// Groups retrieves all groups.
func (l *Ledger) Groups() ([]models.Group, error) {
	return l.storage.GetGroups()
}

// scope maps the API's group name onto the engine's filter: the aggregate
// group means no filter at all.
func scope(group string) string {
	if group == models.AggregateGroup {
		return ""
	}
	return group
}

// GroupLedger rebuilds a group's full day-by-day ledger from its earliest
// transaction through asOf.
func (l *Ledger) GroupLedger(group string, asOf dates.Day) ([]models.LedgerEntry, error) {
	txs, err := l.storage.GetTransactions("")
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	schedule, err := l.storage.GetRateRules()
	if err != nil {
		return nil, fmt.Errorf("failed to load rate schedule: %w", err)
	}

	filter := scope(group)
	earliest := engine.EarliestTransactionDate(txs, filter, asOf)
	return engine.GenerateLedger(txs, filter, earliest, asOf, schedule), nil
}

// GroupBalances reduces a group's ledger to its current standing.
func (l *Ledger) GroupBalances(group string, asOf dates.Day) (*GroupSummary, error) {
	txs, err := l.storage.GetTransactions("")
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	schedule, err := l.storage.GetRateRules()
	if err != nil {
		return nil, fmt.Errorf("failed to load rate schedule: %w", err)
	}
	return l.summarize(group, txs, schedule, asOf), nil
}

func (l *Ledger) summarize(group string, txs []models.Transaction, schedule []models.RateRule, asOf dates.Day) *GroupSummary {
	filter := scope(group)
	earliest := engine.EarliestTransactionDate(txs, filter, asOf)
	led := engine.GenerateLedger(txs, filter, earliest, asOf, schedule)
	balances := engine.CurrentBalances(led, earliest)

	return &GroupSummary{
		Group:           group,
		Balances:        balances,
		TotalOwed:       balances.Principal.Add(balances.AccruedInterest),
		NextBillingDate: engine.NextBillingDate(asOf),
	}
}

// BillingBreakdown buckets a group's ledger into statement periods.
func (l *Ledger) BillingBreakdown(group string, asOf dates.Day) ([]models.BillingCycle, error) {
	txs, err := l.storage.GetTransactions("")
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	schedule, err := l.storage.GetRateRules()
	if err != nil {
		return nil, fmt.Errorf("failed to load rate schedule: %w", err)
	}

	filter := scope(group)
	earliest := engine.EarliestTransactionDate(txs, filter, asOf)
	led := engine.GenerateLedger(txs, filter, earliest, asOf, schedule)
	return engine.GroupByBillingCycle(led, earliest, asOf), nil
}

// Summary reports every group's current standing in one pass, the way the
// dashboard shows them, with the aggregate view appended last.
func (l *Ledger) Summary(asOf dates.Day) ([]GroupSummary, error) {
	groups, err := l.storage.GetGroups()
	if err != nil {
		return nil, fmt.Errorf("failed to load groups: %w", err)
	}
	txs, err := l.storage.GetTransactions("")
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	schedule, err := l.storage.GetRateRules()
	if err != nil {
		return nil, fmt.Errorf("failed to load rate schedule: %w", err)
	}

	summaries := make([]GroupSummary, 0, len(groups)+1)
	for _, g := range groups {
		summaries = append(summaries, *l.summarize(g.Name, txs, schedule, asOf))
	}
	summaries = append(summaries, *l.summarize(models.AggregateGroup, txs, schedule, asOf))
	return summaries, nil
}
