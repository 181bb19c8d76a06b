package store

import (
	"errors"

	"github.com/google/uuid"

	"github.com/rdelacruz/lendbook/pkg/models"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrRateRuleNotFound    = errors.New("rate rule not found")
	ErrGroupNotFound       = errors.New("group not found")
)

// Storage defines the interface for database operations on transactions,
// rate rules and groups. The engine never touches storage; it computes
// over whatever snapshot the caller selects through this interface.
type Storage interface {
	CreateTransaction(tx *models.Transaction) error
	GetTransaction(id uuid.UUID) (*models.Transaction, error)
	UpdateTransaction(tx *models.Transaction) error
	DeleteTransaction(id uuid.UUID) error
	// GetTransactions returns transactions ordered by date then creation
	// time. An empty group returns all of them.
	GetTransactions(group string) ([]models.Transaction, error)

	CreateRateRule(rule *models.RateRule) error
	UpdateRateRule(rule *models.RateRule) error
	DeleteRateRule(id uuid.UUID) error
	GetRateRules() ([]models.RateRule, error)

	CreateGroup(group *models.Group) error
	DeleteGroup(id uuid.UUID) error
	GetGroups() ([]models.Group, error)

	Close() error
}
