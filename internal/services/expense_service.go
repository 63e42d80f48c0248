package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"expensetracker/internal/core"
	"expensetracker/internal/storage"
)

// ErrExpenseNotFound is returned by lookups and updates targeting an ID
// that is not in the store. It is the only error this layer synthesizes;
// everything else is surfaced from validation or storage.
var ErrExpenseNotFound = errors.New("expense not found")

// ExpenseService enforces the business rules between the HTTP boundary and
// storage: the date default on save and the not-found translation on lookup.
type ExpenseService struct {
	storage *storage.SQLiteRepository
}

func NewExpenseService(storage *storage.SQLiteRepository) *ExpenseService {
	return &ExpenseService{storage: storage}
}

// List returns every persisted expense in insertion (id) order.
func (s *ExpenseService) List(ctx context.Context) ([]core.Expense, error) {
	expenses, err := s.storage.ListExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return expenses, nil
}

// Save persists an expense: insert when it carries no ID, update otherwise.
// A zero date is defaulted to today before persistence; no other field is
// defaulted. The returned record carries the server-assigned ID.
func (s *ExpenseService) Save(ctx context.Context, e core.Expense) (core.Expense, error) {
	if e.Date.IsZero() {
		e.Date = core.Today()
		slog.DebugContext(ctx, "expense date defaulted", "date", e.Date.String())
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, fmt.Errorf("validate expense: %w", err)
	}

	if e.ID == 0 {
		saved, err := s.storage.CreateExpense(ctx, e)
		if err != nil {
			return core.Expense{}, fmt.Errorf("save expense: %w", err)
		}
		return saved, nil
	}

	if err := s.storage.UpdateExpense(ctx, e); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Expense{}, fmt.Errorf("save expense id=%d: %w", e.ID, ErrExpenseNotFound)
		}
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}
	return e, nil
}

// GetByID returns the expense with the given ID, or ErrExpenseNotFound.
func (s *ExpenseService) GetByID(ctx context.Context, id int64) (core.Expense, error) {
	e, err := s.storage.GetExpense(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Expense{}, fmt.Errorf("get expense id=%d: %w", id, ErrExpenseNotFound)
		}
		return core.Expense{}, fmt.Errorf("get expense: %w", err)
	}
	return e, nil
}

// DeleteByID removes the expense with the given ID. Deleting an absent ID
// succeeds silently, matching idempotent-delete semantics.
func (s *ExpenseService) DeleteByID(ctx context.Context, id int64) error {
	if err := s.storage.DeleteExpense(ctx, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return nil
}

// FindByDateRange returns expenses dated inside [start, end], both
// endpoints included.
func (s *ExpenseService) FindByDateRange(ctx context.Context, start, end core.Date) ([]core.Expense, error) {
	expenses, err := s.storage.ListByDateRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("find expenses by date range: %w", err)
	}
	return expenses, nil
}

// FindByCategory returns expenses whose category exactly equals the value.
func (s *ExpenseService) FindByCategory(ctx context.Context, category string) ([]core.Expense, error) {
	expenses, err := s.storage.ListByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("find expenses by category: %w", err)
	}
	return expenses, nil
}

// Close releases the underlying storage handle.
func (s *ExpenseService) Close() error {
	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			return fmt.Errorf("close expense service: %w", err)
		}
	}
	return nil
}
