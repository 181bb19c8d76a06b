package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rdelacruz/lendbook/pkg/models"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore manages the database connection and operations for SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLiteStore and initializes the database.
func NewSQLiteStore(dataSourceName string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL;"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("could not connect to database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("could not initialize schema: %w", err)
	}
	slog.Info("Database connection established", "dsn", dataSourceName)
	return s, nil
}

// initSchema creates the tables if they don't already exist. Money and
// rate columns are TEXT so no decimal precision is lost in SQLite.
func (s *SQLiteStore) initSchema() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS transactions (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		type TEXT NOT NULL,
		amount TEXT NOT NULL,
		group_name TEXT NOT NULL,
		is_credit_line INTEGER NOT NULL DEFAULT 0,
		notes TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL
	);
	CREATE TABLE IF NOT EXISTS rate_changes (
		id TEXT PRIMARY KEY,
		effective_date TEXT NOT NULL,
		annual_rate TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS groups (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		multiplier TEXT NOT NULL DEFAULT '1',
		created_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_transactions_group ON transactions(group_name);
	CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(date);
	`
	_, err := s.db.Exec(schema)
	return err
}

// CreateTransaction inserts a new transaction into the database.
func (s *SQLiteStore) CreateTransaction(tx *models.Transaction) error {
	_, err := s.db.Exec(
		`INSERT INTO transactions (id, date, type, amount, group_name, is_credit_line, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.ID.String(), tx.Date, string(tx.Type), tx.Amount, tx.GroupName, tx.IsCreditLine, tx.Notes, tx.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// GetTransaction retrieves a transaction by its ID.
func (s *SQLiteStore) GetTransaction(id uuid.UUID) (*models.Transaction, error) {
	row := s.db.QueryRow(
		`SELECT id, date, type, amount, group_name, is_credit_line, notes, created_at
		FROM transactions WHERE id = ?`, id.String())

	tx, err := scanTransaction(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return tx, nil
}

// UpdateTransaction updates an existing transaction in the database.
func (s *SQLiteStore) UpdateTransaction(tx *models.Transaction) error {
	result, err := s.db.Exec(
		`UPDATE transactions SET date = ?, type = ?, amount = ?, group_name = ?, is_credit_line = ?, notes = ?
		WHERE id = ?`,
		tx.Date, string(tx.Type), tx.Amount, tx.GroupName, tx.IsCreditLine, tx.Notes, tx.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	return checkAffected(result, ErrTransactionNotFound)
}

// DeleteTransaction removes a transaction from the database.
func (s *SQLiteStore) DeleteTransaction(id uuid.UUID) error {
	result, err := s.db.Exec(`DELETE FROM transactions WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return checkAffected(result, ErrTransactionNotFound)
}

// GetTransactions retrieves transactions ordered by date then creation
// time, optionally filtered to one group.
func (s *SQLiteStore) GetTransactions(group string) ([]models.Transaction, error) {
	query := `SELECT id, date, type, amount, group_name, is_credit_line, notes, created_at
		FROM transactions`
	args := []any{}
	if group != "" {
		query += ` WHERE group_name = ?`
		args = append(args, group)
	}
	query += ` ORDER BY date ASC, created_at ASC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		txs = append(txs, *tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration: %w", err)
	}
	return txs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*models.Transaction, error) {
	var tx models.Transaction
	var idStr, typ string
	var created time.Time
	if err := row.Scan(&idStr, &tx.Date, &typ, &tx.Amount, &tx.GroupName, &tx.IsCreditLine, &tx.Notes, &created); err != nil {
		return nil, err
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid transaction id %q: %w", idStr, err)
	}
	tx.ID = id
	tx.Type = models.TransactionType(typ)
	tx.CreatedAt = created
	return &tx, nil
}

// CreateRateRule inserts a new rate rule into the database.
func (s *SQLiteStore) CreateRateRule(rule *models.RateRule) error {
	_, err := s.db.Exec(
		`INSERT INTO rate_changes (id, effective_date, annual_rate) VALUES (?, ?, ?)`,
		rule.ID.String(), rule.EffectiveDate, rule.AnnualRate,
	)
	if err != nil {
		return fmt.Errorf("failed to create rate rule: %w", err)
	}
	return nil
}

// UpdateRateRule updates an existing rate rule.
func (s *SQLiteStore) UpdateRateRule(rule *models.RateRule) error {
	result, err := s.db.Exec(
		`UPDATE rate_changes SET effective_date = ?, annual_rate = ? WHERE id = ?`,
		rule.EffectiveDate, rule.AnnualRate, rule.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update rate rule: %w", err)
	}
	return checkAffected(result, ErrRateRuleNotFound)
}

// DeleteRateRule removes a rate rule from the database.
func (s *SQLiteStore) DeleteRateRule(id uuid.UUID) error {
	result, err := s.db.Exec(`DELETE FROM rate_changes WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete rate rule: %w", err)
	}
	return checkAffected(result, ErrRateRuleNotFound)
}

// GetRateRules retrieves the full rate schedule ordered by effective date.
func (s *SQLiteStore) GetRateRules() ([]models.RateRule, error) {
	rows, err := s.db.Query(`SELECT id, effective_date, annual_rate FROM rate_changes ORDER BY effective_date ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to get rate rules: %w", err)
	}
	defer rows.Close()

	var rules []models.RateRule
	for rows.Next() {
		var rule models.RateRule
		var idStr string
		if err := rows.Scan(&idStr, &rule.EffectiveDate, &rule.AnnualRate); err != nil {
			return nil, fmt.Errorf("failed to scan rate rule row: %w", err)
		}
		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("invalid rate rule id %q: %w", idStr, err)
		}
		rule.ID = id
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration: %w", err)
	}
	return rules, nil
}

// CreateGroup inserts a new group into the database.
func (s *SQLiteStore) CreateGroup(group *models.Group) error {
	_, err := s.db.Exec(
		`INSERT INTO groups (id, name, multiplier, created_at) VALUES (?, ?, ?, ?)`,
		group.ID.String(), group.Name, group.Multiplier, group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create group: %w", err)
	}
	return nil
}

// DeleteGroup removes a group from the database.
func (s *SQLiteStore) DeleteGroup(id uuid.UUID) error {
	result, err := s.db.Exec(`DELETE FROM groups WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	return checkAffected(result, ErrGroupNotFound)
}

// GetGroups retrieves all groups ordered by name.
func (s *SQLiteStore) GetGroups() ([]models.Group, error) {
	rows, err := s.db.Query(`SELECT id, name, multiplier, created_at FROM groups ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to get groups: %w", err)
	}
	defer rows.Close()

	var groups []models.Group
	for rows.Next() {
		var group models.Group
		var idStr string
		var created time.Time
		if err := rows.Scan(&idStr, &group.Name, &group.Multiplier, &created); err != nil {
			return nil, fmt.Errorf("failed to scan group row: %w", err)
		}
		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("invalid group id %q: %w", idStr, err)
		}
		group.ID = id
		group.CreatedAt = created
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration: %w", err)
	}
	return groups, nil
}

func checkAffected(result sql.Result, notFound error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return notFound
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
