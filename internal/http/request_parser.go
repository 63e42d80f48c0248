// Package http provides the HTTP server and handler implementations.
//
// This file implements form binding and validation for expense submissions.
// Validation happens here, before the business rule layer is invoked, and
// produces field-level messages; a rejected submission never reaches
// persistence.
package http

import (
	"net/url"
	"strings"

	"expensetracker/internal/core"
)

// FieldErrors maps a form field name to its validation message.
type FieldErrors map[string]string

// ExpenseForm carries the raw submitted values so an invalid submission can
// be redisplayed exactly as the user typed it.
type ExpenseForm struct {
	Description string
	Amount      string
	Date        string
	Category    string
	Notes       string
}

// FormFromExpense pre-fills a form with an existing record's values (edit view).
func FormFromExpense(e core.Expense) ExpenseForm {
	return ExpenseForm{
		Description: e.Description,
		Amount:      formatCents(e.Amount.Cents),
		Date:        e.Date.String(),
		Category:    e.Category,
		Notes:       e.Notes,
	}
}

// ParseExpenseForm binds form values to an expense record, validating the
// constraints of the data model. On failure it returns the original values
// plus field-level errors; the record is only usable when errors is empty.
func ParseExpenseForm(form url.Values) (core.Expense, ExpenseForm, FieldErrors) {
	f := ExpenseForm{
		Description: sanitizeInput(form.Get("description")),
		Amount:      strings.TrimSpace(form.Get("amount")),
		Date:        strings.TrimSpace(form.Get("date")),
		Category:    sanitizeInput(form.Get("category")),
		Notes:       sanitizeInput(form.Get("notes")),
	}

	errs := FieldErrors{}
	e := core.Expense{
		Description: f.Description,
		Category:    f.Category,
		Notes:       f.Notes,
	}

	if f.Description == "" {
		errs["description"] = "Description is required"
	} else if len(f.Description) > core.MaxDescriptionLength {
		errs["description"] = "Description must be 200 characters or fewer"
	}

	if f.Amount == "" {
		errs["amount"] = "Amount is required"
	} else if cents, err := core.ParseDecimalToCents(f.Amount); err != nil {
		errs["amount"] = "Amount must be a positive number"
	} else {
		e.Amount = core.Money{Cents: cents}
	}

	if f.Date == "" {
		errs["date"] = "Date is required"
	} else if d, err := core.ParseDate(f.Date); err != nil {
		errs["date"] = "Date must be a valid date (YYYY-MM-DD)"
	} else {
		e.Date = d
	}

	if f.Category == "" {
		errs["category"] = "Category is required"
	}

	if len(errs) > 0 {
		return core.Expense{}, f, errs
	}
	return e, f, nil
}
