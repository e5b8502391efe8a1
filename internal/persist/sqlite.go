package persist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/solari/internal/ledger"
	"github.com/Veraticus/solari/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore archives snapshots in a single SQLite database, for books
// that should stay queryable with ordinary tools. It speaks the same
// whole-snapshot contract as the file store: Save clears every table and
// re-inserts the snapshot inside one transaction. The XOR mask does not
// apply to this backend.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore opens (and if needed creates) the archive database.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		return nil, errors.New("database path cannot be empty")
	}

	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &SQLiteStore{db: db, dbPath: dbPath}
	if err := s.createSchema(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) createSchema(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS categories (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS transactions (
			id INTEGER PRIMARY KEY,
			date TEXT NOT NULL,
			kind INTEGER NOT NULL,
			amount TEXT NOT NULL,
			category_id INTEGER NOT NULL,
			note TEXT NOT NULL DEFAULT ''
		);
		CREATE TABLE IF NOT EXISTS budgets (
			category_id INTEGER NOT NULL,
			year INTEGER NOT NULL,
			month INTEGER NOT NULL,
			amount TEXT NOT NULL,
			PRIMARY KEY (category_id, year, month)
		)`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Save replaces the archive's contents with snap.
func (s *SQLiteStore) Save(ctx context.Context, snap ledger.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	for _, table := range []string{"categories", "transactions", "budgets"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for _, c := range snap.Categories {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO categories (id, name) VALUES (?, ?)",
			c.ID, c.Name); err != nil {
			return fmt.Errorf("failed to insert category %d: %w", c.ID, err)
		}
	}
	for _, t := range snap.Transactions {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO transactions (id, date, kind, amount, category_id, note) VALUES (?, ?, ?, ?, ?, ?)",
			t.ID, t.Date.String(), int(t.Kind), t.Amount.String(), t.CategoryID, t.Note); err != nil {
			return fmt.Errorf("failed to insert transaction %d: %w", t.ID, err)
		}
	}
	for _, b := range snap.Budgets {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO budgets (category_id, year, month, amount) VALUES (?, ?, ?, ?)",
			b.CategoryID, b.Year, b.Month, b.Amount.String()); err != nil {
			return fmt.Errorf("failed to insert budget %d/%d-%d: %w", b.CategoryID, b.Year, b.Month, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	slog.Debug("archived snapshot",
		"path", s.dbPath,
		"categories", len(snap.Categories),
		"transactions", len(snap.Transactions),
		"budgets", len(snap.Budgets))
	return nil
}

// Load reads the whole archive back into a snapshot.
func (s *SQLiteStore) Load(ctx context.Context) (ledger.Snapshot, error) {
	var snap ledger.Snapshot

	cats, err := s.loadCategories(ctx)
	if err != nil {
		return ledger.Snapshot{}, err
	}
	snap.Categories = cats

	txns, err := s.loadTransactions(ctx)
	if err != nil {
		return ledger.Snapshot{}, err
	}
	snap.Transactions = txns

	budgets, err := s.loadBudgets(ctx)
	if err != nil {
		return ledger.Snapshot{}, err
	}
	snap.Budgets = budgets

	return snap, nil
}

func (s *SQLiteStore) loadCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name FROM categories ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var out []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) loadTransactions(ctx context.Context) ([]model.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, date, kind, amount, category_id, note FROM transactions ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var out []model.Transaction
	for rows.Next() {
		var (
			t      model.Transaction
			date   string
			kind   int
			amount string
		)
		if err := rows.Scan(&t.ID, &date, &kind, &amount, &t.CategoryID, &t.Note); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		if t.Date, err = model.ParseDate(date); err != nil {
			return nil, fmt.Errorf("transaction %d: %w", t.ID, err)
		}
		if t.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("transaction %d amount: %w", t.ID, err)
		}
		t.Kind = model.Kind(kind)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) loadBudgets(ctx context.Context) ([]model.BudgetEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT category_id, year, month, amount FROM budgets ORDER BY category_id, year, month")
	if err != nil {
		return nil, fmt.Errorf("failed to query budgets: %w", err)
	}
	defer rows.Close()

	var out []model.BudgetEntry
	for rows.Next() {
		var (
			b      model.BudgetEntry
			amount string
		)
		if err := rows.Scan(&b.CategoryID, &b.Year, &b.Month, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		if b.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("budget %d/%d-%d amount: %w", b.CategoryID, b.Year, b.Month, err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating budgets: %w", err)
	}
	return out, nil
}
