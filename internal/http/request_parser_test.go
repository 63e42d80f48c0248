package http

import (
	"net/url"
	"strings"
	"testing"

	"expensetracker/internal/core"
)

func TestParseExpenseFormValid(t *testing.T) {
	form := url.Values{
		"description": {"Coffee"},
		"amount":      {"3.50"},
		"date":        {"2024-01-05"},
		"category":    {"Food"},
		"notes":       {"morning"},
	}

	e, f, errs := ParseExpenseForm(form)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if e.Description != "Coffee" || e.Amount.Cents != 350 || e.Category != "Food" || e.Notes != "morning" {
		t.Fatalf("unexpected record: %+v", e)
	}
	if e.Date.String() != "2024-01-05" {
		t.Fatalf("unexpected date: %s", e.Date)
	}
	if f.Amount != "3.50" {
		t.Fatalf("form values not preserved: %+v", f)
	}
}

func TestParseExpenseFormFieldErrors(t *testing.T) {
	tests := []struct {
		name  string
		form  url.Values
		field string
	}{
		{
			name:  "missing description",
			form:  url.Values{"amount": {"1.00"}, "date": {"2024-01-05"}, "category": {"Food"}},
			field: "description",
		},
		{
			name:  "whitespace description",
			form:  url.Values{"description": {"   "}, "amount": {"1.00"}, "date": {"2024-01-05"}, "category": {"Food"}},
			field: "description",
		},
		{
			name:  "missing amount",
			form:  url.Values{"description": {"x"}, "date": {"2024-01-05"}, "category": {"Food"}},
			field: "amount",
		},
		{
			name:  "non-numeric amount",
			form:  url.Values{"description": {"x"}, "amount": {"abc"}, "date": {"2024-01-05"}, "category": {"Food"}},
			field: "amount",
		},
		{
			name:  "description over length cap",
			form:  url.Values{"description": {strings.Repeat("a", 201)}, "amount": {"1.00"}, "date": {"2024-01-05"}, "category": {"Food"}},
			field: "description",
		},
		{
			name:  "zero amount",
			form:  url.Values{"description": {"x"}, "amount": {"0"}, "date": {"2024-01-05"}, "category": {"Food"}},
			field: "amount",
		},
		{
			name:  "negative amount",
			form:  url.Values{"description": {"x"}, "amount": {"-5"}, "date": {"2024-01-05"}, "category": {"Food"}},
			field: "amount",
		},
		{
			name:  "missing date",
			form:  url.Values{"description": {"x"}, "amount": {"1.00"}, "category": {"Food"}},
			field: "date",
		},
		{
			name:  "malformed date",
			form:  url.Values{"description": {"x"}, "amount": {"1.00"}, "date": {"05/01/2024"}, "category": {"Food"}},
			field: "date",
		},
		{
			name:  "missing category",
			form:  url.Values{"description": {"x"}, "amount": {"1.00"}, "date": {"2024-01-05"}},
			field: "category",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, errs := ParseExpenseForm(tt.form)
			if len(errs) == 0 {
				t.Fatalf("expected field errors")
			}
			if _, ok := errs[tt.field]; !ok {
				t.Fatalf("expected error on %q, got %v", tt.field, errs)
			}
		})
	}
}

func TestParseExpenseFormDescriptionLengthBoundary(t *testing.T) {
	form := url.Values{
		"description": {strings.Repeat("a", 201)},
		"amount":      {"1.00"},
		"date":        {"2024-01-05"},
		"category":    {"Food"},
	}
	_, _, errs := ParseExpenseForm(form)
	if errs["description"] != "Description must be 200 characters or fewer" {
		t.Fatalf("expected length error, got %v", errs)
	}

	// Exactly at the cap is still accepted.
	form.Set("description", strings.Repeat("a", 200))
	e, _, errs := ParseExpenseForm(form)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(e.Description) != 200 {
		t.Fatalf("unexpected description length %d", len(e.Description))
	}
}

func TestParseExpenseFormAmountMessage(t *testing.T) {
	form := url.Values{
		"description": {"x"},
		"amount":      {"abc"},
		"date":        {"2024-01-05"},
		"category":    {"Food"},
	}
	_, _, errs := ParseExpenseForm(form)
	if errs["amount"] != "Amount must be a positive number" {
		t.Fatalf("unexpected amount message: %v", errs)
	}
}

func TestParseExpenseFormNotesOptional(t *testing.T) {
	form := url.Values{
		"description": {"Coffee"},
		"amount":      {"3.50"},
		"date":        {"2024-01-05"},
		"category":    {"Food"},
	}
	e, _, errs := ParseExpenseForm(form)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if e.Notes != "" {
		t.Fatalf("expected empty notes, got %q", e.Notes)
	}
}

func TestFormFromExpense(t *testing.T) {
	e := core.Expense{
		ID:          7,
		Date:        core.NewDate(2024, 1, 5),
		Description: "Coffee",
		Amount:      core.Money{Cents: 350},
		Category:    "Food",
		Notes:       "n",
	}
	f := FormFromExpense(e)
	if f.Amount != "3.50" || f.Date != "2024-01-05" || f.Description != "Coffee" {
		t.Fatalf("unexpected form: %+v", f)
	}
}

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{350, "$3.50"},
		{1, "$0.01"},
		{123456, "$1234.56"},
		{-350, "-$3.50"},
		{0, "$0.00"},
	}
	for _, tc := range cases {
		if got := formatAmount(tc.cents); got != tc.want {
			t.Fatalf("%d: expected %s, got %s", tc.cents, tc.want, got)
		}
	}
}
