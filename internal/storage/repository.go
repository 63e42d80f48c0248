package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"expensetracker/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository persists expenses in a single SQLite table using
// hand-written SQL statements.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const expenseColumns = "id, description, amount_cents, date, category, notes"

// CreateExpense inserts a new record and returns it with the assigned ID.
func (r *SQLiteRepository) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (description, amount_cents, date, category, notes) VALUES (?, ?, ?, ?, ?)`,
		e.Description, e.Amount.Cents, e.Date.String(), e.Category, e.Notes)
	if err != nil {
		return core.Expense{}, fmt.Errorf("insert expense: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.Expense{}, fmt.Errorf("last insert id: %w", err)
	}
	e.ID = id

	slog.InfoContext(ctx, "expense saved",
		"id", e.ID,
		"description", e.Description,
		"amount_cents", e.Amount.Cents,
		"date", e.Date.String(),
		"category", e.Category)

	return e, nil
}

// UpdateExpense rewrites an existing record. It returns sql.ErrNoRows
// (wrapped) when no record carries the given ID.
func (r *SQLiteRepository) UpdateExpense(ctx context.Context, e core.Expense) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE expenses SET description = ?, amount_cents = ?, date = ?, category = ?, notes = ? WHERE id = ?`,
		e.Description, e.Amount.Cents, e.Date.String(), e.Category, e.Notes, e.ID)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update expense rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update expense id=%d: %w", e.ID, sql.ErrNoRows)
	}

	slog.InfoContext(ctx, "expense updated", "id", e.ID, "amount_cents", e.Amount.Cents)
	return nil
}

// GetExpense retrieves a single expense by ID. It returns sql.ErrNoRows
// (wrapped) when the ID is absent.
func (r *SQLiteRepository) GetExpense(ctx context.Context, id int64) (core.Expense, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE id = ?`, id)
	e, err := scanExpense(row)
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense id=%d: %w", id, err)
	}
	return e, nil
}

// ListExpenses returns all records in insertion (id) order.
func (r *SQLiteRepository) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	return collectExpenses(rows)
}

// DeleteExpense removes a record by ID. Deleting a missing ID is a no-op.
func (r *SQLiteRepository) DeleteExpense(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}

	if affected, err := res.RowsAffected(); err == nil && affected > 0 {
		slog.InfoContext(ctx, "expense deleted", "id", id)
	}
	return nil
}

// ListByDateRange returns records whose date falls inside [start, end],
// inclusive on both endpoints. Dates are stored as YYYY-MM-DD text, so
// lexicographic comparison matches chronological order.
func (r *SQLiteRepository) ListByDateRange(ctx context.Context, start, end core.Date) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE date >= ? AND date <= ? ORDER BY id`,
		start.String(), end.String())
	if err != nil {
		return nil, fmt.Errorf("list expenses by date range: %w", err)
	}
	defer rows.Close()

	return collectExpenses(rows)
}

// ListByCategory returns records with the exact category value.
func (r *SQLiteRepository) ListByCategory(ctx context.Context, category string) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE category = ? ORDER BY id`,
		category)
	if err != nil {
		return nil, fmt.Errorf("list expenses by category: %w", err)
	}
	defer rows.Close()

	return collectExpenses(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (core.Expense, error) {
	var (
		e       core.Expense
		dateStr string
	)
	if err := row.Scan(&e.ID, &e.Description, &e.Amount.Cents, &dateStr, &e.Category, &e.Notes); err != nil {
		return core.Expense{}, err
	}
	date, err := core.ParseDate(dateStr)
	if err != nil {
		return core.Expense{}, fmt.Errorf("parse stored date %q: %w", dateStr, err)
	}
	e.Date = date
	return e, nil
}

func collectExpenses(rows *sql.Rows) ([]core.Expense, error) {
	var expenses []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return expenses, nil
}
