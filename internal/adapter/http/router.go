package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/etudesn/notacompta/internal/adapter/http/handler"
	"github.com/etudesn/notacompta/internal/adapter/http/middleware"
	"github.com/etudesn/notacompta/internal/infrastructure/metrics"
	"github.com/etudesn/notacompta/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	BaremeHandler         *handler.BaremeHandler
	ChartHandler          *handler.ChartHandler
	ClientAccountHandler  *handler.ClientAccountHandler
	EntryHandler          *handler.EntryHandler
	PostingHandler        *handler.PostingHandler
	InvoiceHandler        *handler.InvoiceHandler
	StatementHandler      *handler.StatementHandler
	ReconciliationHandler *handler.ReconciliationHandler
	HealthHandler         *handler.HealthHandler
	IdempotencyStore      usecase.IdempotencyStore
	Metrics               *metrics.Metrics
	Logger                zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	if cfg.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(cfg.Metrics).Wrap)
	}

	// Operational endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Barème
		r.Post("/bareme/provisions", cfg.BaremeHandler.Calculate)

		// Chart of accounts
		r.Route("/accounts", func(r chi.Router) {
			r.Get("/", cfg.ChartHandler.List)
			r.Get("/{code}", cfg.ChartHandler.Get)
			r.Get("/{code}/children", cfg.ChartHandler.Children)
			r.Get("/{code}/validate", cfg.ChartHandler.Validate)
			r.Get("/{code}/entries", cfg.EntryHandler.ListByAccount)
		})
		r.Get("/journals", cfg.ChartHandler.Journals)

		// Client sub-ledger
		r.Get("/clients/accounts", cfg.ClientAccountHandler.List)
		r.Route("/clients/{clientId}", func(r chi.Router) {
			r.Post("/account", cfg.ClientAccountHandler.Create)
			r.Put("/account", cfg.ClientAccountHandler.Rename)
			r.Delete("/account", cfg.ClientAccountHandler.Deactivate)
			r.Get("/balance", cfg.ClientAccountHandler.Balance)
			r.Get("/invoices", cfg.InvoiceHandler.ListByClient)
		})

		// Journal entries
		r.Route("/entries", func(r chi.Router) {
			r.Post("/", cfg.EntryHandler.Create)
			r.Get("/", cfg.EntryHandler.List)
			r.Get("/{id}", cfg.EntryHandler.Get)
			r.Post("/{id}/validate", cfg.EntryHandler.Validate)
			r.Post("/{id}/reverse", cfg.EntryHandler.Reverse)
		})

		// Posting generators
		r.Route("/postings", func(r chi.Router) {
			r.Post("/fee-receipts", cfg.PostingHandler.FeeReceipt)
			r.Post("/expenses", cfg.PostingHandler.Expense)
			r.Post("/client-payments", cfg.PostingHandler.ClientPayment)
			r.Post("/treasury-movements", cfg.PostingHandler.TreasuryMovement)
			r.Get("/classify", cfg.PostingHandler.ClassifyExpense)
			r.Get("/split-ttc", cfg.PostingHandler.SplitTTC)
		})

		// Invoices
		r.Route("/invoices", func(r chi.Router) {
			r.Post("/", cfg.InvoiceHandler.Create)
			r.Get("/{id}", cfg.InvoiceHandler.Get)
			r.Post("/{id}/post", cfg.InvoiceHandler.Post)
			r.Post("/{id}/payments", cfg.InvoiceHandler.Pay)
		})

		// Financial statements
		r.Route("/reports", func(r chi.Router) {
			r.Get("/ledger", cfg.StatementHandler.Ledger)
			r.Get("/balance", cfg.StatementHandler.Balance)
			r.Get("/bilan", cfg.StatementHandler.Bilan)
			r.Get("/compte-resultat", cfg.StatementHandler.CompteResultat)
			r.Get("/tafire", cfg.StatementHandler.Tafire)
		})

		// Bank reconciliation
		r.Route("/reconciliations", func(r chi.Router) {
			r.Post("/", cfg.ReconciliationHandler.Create)
			r.Get("/", cfg.ReconciliationHandler.List)
			r.Get("/{id}", cfg.ReconciliationHandler.Get)
			r.Post("/{id}/auto-match", cfg.ReconciliationHandler.AutoMatch)
			r.Post("/{id}/matches", cfg.ReconciliationHandler.ManualMatch)
			r.Get("/{id}/unmatched", cfg.ReconciliationHandler.Unmatched)
			r.Post("/{id}/complete", cfg.ReconciliationHandler.Complete)
			r.Post("/{id}/cancel", cfg.ReconciliationHandler.Cancel)
		})
	})

	return r
}
