package http

import (
	"errors"
	"net/http"
	"strings"

	"expensetracker/internal/core"
	"expensetracker/internal/log"
	"expensetracker/internal/services"
)

type expenseRow struct {
	ID          int64
	Date        string
	Description string
	Amount      string
	Category    string
	Notes       string
}

type listPage struct {
	Expenses   []expenseRow
	Count      int
	Total      string
	Form       ExpenseForm
	Errors     FieldErrors
	Categories []string

	FilterFrom     string
	FilterTo       string
	FilterCategory string
}

type editPage struct {
	ID         int64
	Form       ExpenseForm
	Errors     FieldErrors
	Categories []string
}

// handleListExpenses renders the list view: all records (optionally
// filtered), the derived total and count, and the add form.
func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.filteredExpenses(r)
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "list expenses failed", log.FieldError, err)
		s.renderServerError(w, r)
		return
	}
	s.renderListPage(w, r, http.StatusOK, expenses, ExpenseForm{}, nil)
}

// handleCreateExpense validates the submission; on success it saves and
// redirects to the list view so a reload does not resubmit. On validation
// failure it redisplays the list with field errors and the original values,
// without touching persistence.
func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	logger := log.FromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		logger.WarnContext(r.Context(), "parse form failed", log.FieldError, err)
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	e, form, fieldErrs := ParseExpenseForm(r.Form)
	if len(fieldErrs) > 0 {
		expenses, err := s.expenses.List(r.Context())
		if err != nil {
			logger.ErrorContext(r.Context(), "list expenses failed", log.FieldError, err)
			s.renderServerError(w, r)
			return
		}
		s.renderListPage(w, r, http.StatusUnprocessableEntity, expenses, form, fieldErrs)
		return
	}

	saved, err := s.expenses.Save(r.Context(), e)
	if err != nil {
		logger.ErrorContext(r.Context(), "save expense failed",
			log.FieldError, err,
			log.FieldDescription, e.Description,
			log.FieldAmountCents, e.Amount.Cents)
		s.renderServerError(w, r)
		return
	}

	logger.InfoContext(r.Context(), "expense created",
		log.FieldExpenseID, saved.ID,
		log.FieldAmountCents, saved.Amount.Cents,
		log.FieldCategory, saved.Category)

	http.Redirect(w, r, "/expenses", http.StatusSeeOther)
}

// handleEditExpense renders the edit form pre-filled with the record's
// current values. A missing id is a 404, not a server failure.
func (s *Server) handleEditExpense(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(r)
	if err != nil {
		s.renderNotFound(w, r)
		return
	}

	e, err := s.expenses.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrExpenseNotFound) {
			s.renderNotFound(w, r)
			return
		}
		log.FromContext(r.Context()).ErrorContext(r.Context(), "get expense failed",
			log.FieldError, err, log.FieldExpenseID, id)
		s.renderServerError(w, r)
		return
	}

	s.renderEditPage(w, r, http.StatusOK, id, FormFromExpense(e), nil)
}

// handleUpdateExpense validates the submission and re-saves under the path
// id; a body-supplied id cannot change which record is updated.
func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	logger := log.FromContext(r.Context())
	id, err := parsePathID(r)
	if err != nil {
		s.renderNotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		logger.WarnContext(r.Context(), "parse form failed", log.FieldError, err)
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	e, form, fieldErrs := ParseExpenseForm(r.Form)
	if len(fieldErrs) > 0 {
		s.renderEditPage(w, r, http.StatusUnprocessableEntity, id, form, fieldErrs)
		return
	}

	e.ID = id
	if _, err := s.expenses.Save(r.Context(), e); err != nil {
		if errors.Is(err, services.ErrExpenseNotFound) {
			s.renderNotFound(w, r)
			return
		}
		logger.ErrorContext(r.Context(), "update expense failed",
			log.FieldError, err, log.FieldExpenseID, id)
		s.renderServerError(w, r)
		return
	}

	logger.InfoContext(r.Context(), "expense updated", log.FieldExpenseID, id)
	http.Redirect(w, r, "/expenses", http.StatusSeeOther)
}

// handleDeleteExpense deletes by id and redirects unconditionally; deleting
// a missing id is a silent success.
func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(r)
	if err != nil {
		s.renderNotFound(w, r)
		return
	}

	if err := s.expenses.DeleteByID(r.Context(), id); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "delete expense failed",
			log.FieldError, err, log.FieldExpenseID, id)
		s.renderServerError(w, r)
		return
	}

	http.Redirect(w, r, "/expenses", http.StatusSeeOther)
}

// filteredExpenses picks the read operation from the query string: an
// inclusive date range when both endpoints parse, otherwise an exact
// category match, otherwise the full list.
func (s *Server) filteredExpenses(r *http.Request) ([]core.Expense, error) {
	q := r.URL.Query()
	from := strings.TrimSpace(q.Get("from"))
	to := strings.TrimSpace(q.Get("to"))
	if from != "" && to != "" {
		start, errFrom := core.ParseDate(from)
		end, errTo := core.ParseDate(to)
		if errFrom == nil && errTo == nil {
			return s.expenses.FindByDateRange(r.Context(), start, end)
		}
	}
	if category := strings.TrimSpace(q.Get("category")); category != "" {
		return s.expenses.FindByCategory(r.Context(), category)
	}
	return s.expenses.List(r.Context())
}

func (s *Server) renderListPage(w http.ResponseWriter, r *http.Request, status int, expenses []core.Expense, form ExpenseForm, fieldErrs FieldErrors) {
	summary := core.Summarize(expenses)
	q := r.URL.Query()

	page := listPage{
		Expenses:       make([]expenseRow, 0, len(expenses)),
		Count:          summary.Count,
		Total:          formatAmount(summary.Total.Cents),
		Form:           form,
		Errors:         fieldErrs,
		Categories:     core.Categories,
		FilterFrom:     strings.TrimSpace(q.Get("from")),
		FilterTo:       strings.TrimSpace(q.Get("to")),
		FilterCategory: strings.TrimSpace(q.Get("category")),
	}
	for _, e := range expenses {
		page.Expenses = append(page.Expenses, expenseRow{
			ID:          e.ID,
			Date:        e.Date.String(),
			Description: e.Description,
			Amount:      formatAmount(e.Amount.Cents),
			Category:    e.Category,
			Notes:       e.Notes,
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.templates.ExecuteTemplate(w, "list.html", page); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "render list failed", log.FieldError, err)
	}
}

func (s *Server) renderEditPage(w http.ResponseWriter, r *http.Request, status int, id int64, form ExpenseForm, fieldErrs FieldErrors) {
	page := editPage{
		ID:         id,
		Form:       form,
		Errors:     fieldErrs,
		Categories: core.Categories,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.templates.ExecuteTemplate(w, "edit.html", page); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "render edit failed", log.FieldError, err)
	}
}

type errorPage struct {
	Title   string
	Message string
}

func (s *Server) renderNotFound(w http.ResponseWriter, r *http.Request) {
	s.renderErrorPage(w, r, http.StatusNotFound, errorPage{
		Title:   "Not Found",
		Message: "Expense not found.",
	})
}

func (s *Server) renderServerError(w http.ResponseWriter, r *http.Request) {
	s.renderErrorPage(w, r, http.StatusInternalServerError, errorPage{
		Title:   "Server Error",
		Message: "Something went wrong.",
	})
}

func (s *Server) renderErrorPage(w http.ResponseWriter, r *http.Request, status int, page errorPage) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.templates.ExecuteTemplate(w, "error.html", page); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "render error page failed", log.FieldError, err)
	}
}
