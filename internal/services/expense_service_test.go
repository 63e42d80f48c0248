package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"expensetracker/internal/core"
	"expensetracker/internal/storage"
)

func newTestService(t *testing.T) *ExpenseService {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "expenses.db"))
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}
	svc := NewExpenseService(repo)
	t.Cleanup(func() { svc.Close() })
	return svc
}

func validExpense() core.Expense {
	return core.Expense{
		Date:        core.NewDate(2024, 1, 5),
		Description: "Coffee",
		Amount:      core.Money{Cents: 350},
		Category:    "Food",
	}
}

func TestSaveRoundTrip(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	saved, err := svc.Save(ctx, validExpense())
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.ID == 0 {
		t.Fatalf("expected server-assigned id")
	}

	got, err := svc.GetByID(ctx, saved.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != saved {
		t.Fatalf("round-trip mismatch:\nsaved %+v\ngot   %+v", saved, got)
	}
}

func TestSaveDefaultsMissingDate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	e := validExpense()
	e.Date = core.Date{}
	saved, err := svc.Save(ctx, e)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.Date.String() != core.Today().String() {
		t.Fatalf("expected today's date, got %s", saved.Date)
	}

	// A provided date is left untouched.
	e2 := validExpense()
	saved2, err := svc.Save(ctx, e2)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved2.Date.String() != "2024-01-05" {
		t.Fatalf("date changed: %s", saved2.Date)
	}
}

func TestSaveRejectsInvalidRecord(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	cases := []core.Expense{
		{Date: core.NewDate(2024, 1, 5), Description: "", Amount: core.Money{Cents: 100}, Category: "Food"},
		{Date: core.NewDate(2024, 1, 5), Description: "x", Amount: core.Money{Cents: 0}, Category: "Food"},
		{Date: core.NewDate(2024, 1, 5), Description: "x", Amount: core.Money{Cents: -10}, Category: "Food"},
		{Date: core.NewDate(2024, 1, 5), Description: "x", Amount: core.Money{Cents: 100}, Category: " "},
	}
	for i, e := range cases {
		if _, err := svc.Save(ctx, e); err == nil {
			t.Fatalf("case %d expected validation error", i)
		}
	}

	all, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("rejected saves must not persist, found %d records", len(all))
	}
}

func TestSaveUpdatesExistingRecord(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	saved, err := svc.Save(ctx, validExpense())
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	saved.Amount = core.Money{Cents: 400}
	updated, err := svc.Save(ctx, saved)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != saved.ID {
		t.Fatalf("id changed on update: %d -> %d", saved.ID, updated.ID)
	}

	got, err := svc.GetByID(ctx, saved.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Amount.Cents != 400 || got.Description != "Coffee" {
		t.Fatalf("unexpected record after update: %+v", got)
	}

	all, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("update must not create records, found %d", len(all))
	}
}

func TestSaveUpdateMissingIDFails(t *testing.T) {
	svc := newTestService(t)

	e := validExpense()
	e.ID = 999
	_, err := svc.Save(context.Background(), e)
	if !errors.Is(err, ErrExpenseNotFound) {
		t.Fatalf("expected ErrExpenseNotFound, got %v", err)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.GetByID(context.Background(), 42)
	if !errors.Is(err, ErrExpenseNotFound) {
		t.Fatalf("expected ErrExpenseNotFound, got %v", err)
	}
}

func TestDeleteByIDIdempotent(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	r1, _ := svc.Save(ctx, validExpense())
	r2, _ := svc.Save(ctx, validExpense())
	r3, _ := svc.Save(ctx, validExpense())

	if err := svc.DeleteByID(ctx, r2.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	// Missing id: silent success, record set untouched.
	if err := svc.DeleteByID(ctx, 9999); err != nil {
		t.Fatalf("delete missing id: %v", err)
	}

	all, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 || all[0].ID != r1.ID || all[1].ID != r3.ID {
		t.Fatalf("expected exactly {r1, r3}, got %+v", all)
	}
}

func TestFindByDateRangeInclusive(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, d := range []core.Date{
		core.NewDate(2024, 1, 1),
		core.NewDate(2024, 1, 15),
		core.NewDate(2024, 1, 31),
		core.NewDate(2024, 2, 5),
	} {
		e := validExpense()
		e.Date = d
		if _, err := svc.Save(ctx, e); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	got, err := svc.FindByDateRange(ctx, core.NewDate(2024, 1, 1), core.NewDate(2024, 1, 31))
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 records inside January, got %d", len(got))
	}
}

func TestFindByCategoryExact(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, cat := range []string{"Food", "Bills", "Food"} {
		e := validExpense()
		e.Category = cat
		if _, err := svc.Save(ctx, e); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	got, err := svc.FindByCategory(ctx, "Food")
	if err != nil {
		t.Fatalf("category: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}

	none, err := svc.FindByCategory(ctx, "Travel")
	if err != nil {
		t.Fatalf("category: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected no records, got %d", len(none))
	}
}
