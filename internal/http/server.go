package http

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"expensetracker/internal/core"
	"expensetracker/internal/log"
	appweb "expensetracker/web"
)

// ExpenseService is the boundary's view of the business rule layer.
type ExpenseService interface {
	List(ctx context.Context) ([]core.Expense, error)
	Save(ctx context.Context, e core.Expense) (core.Expense, error)
	GetByID(ctx context.Context, id int64) (core.Expense, error)
	DeleteByID(ctx context.Context, id int64) error
	FindByDateRange(ctx context.Context, start, end core.Date) ([]core.Expense, error)
	FindByCategory(ctx context.Context, category string) ([]core.Expense, error)
}

type Server struct {
	http.Server
	templates *template.Template
	expenses  ExpenseService
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
func NewServer(addr string, svc ExpenseService, logger *log.Logger) (*Server, error) {
	mux := http.NewServeMux()

	s := &Server{
		Server:   http.Server{Addr: addr},
		expenses: svc,
	}

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600")
			static.ServeHTTP(w, r)
		}))
	}

	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /expenses", s.handleListExpenses)
	mux.HandleFunc("POST /expenses", s.handleCreateExpense)
	mux.HandleFunc("GET /expenses/edit/{id}", s.handleEditExpense)
	mux.HandleFunc("POST /expenses/update/{id}", s.handleUpdateExpense)
	mux.HandleFunc("GET /expenses/delete/{id}", s.handleDeleteExpense)
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	s.Handler = log.Middleware(logger)(withSecurityHeaders(mux))

	return s, nil
}

// withSecurityHeaders adds standard security headers to every response.
func withSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/expenses", http.StatusSeeOther)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
