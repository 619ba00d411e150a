package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/etudesn/notacompta/internal/adapter/http/dto"
	"github.com/etudesn/notacompta/internal/domain"
	"github.com/etudesn/notacompta/internal/usecase"
)

// ChartService defines the behavior needed by ChartHandler.
type ChartService interface {
	GetAllAccounts(ctx context.Context) ([]*domain.Account, error)
	GetAccount(ctx context.Context, code string) (*domain.Account, error)
	SearchAccounts(ctx context.Context, query string) ([]*domain.Account, error)
	GetAccountsByClass(ctx context.Context, classCode string) ([]*domain.Account, error)
	GetImputableAccounts(ctx context.Context) ([]*domain.Account, error)
	GetChildAccounts(ctx context.Context, code string) ([]*domain.Account, error)
	ValidateAccount(ctx context.Context, code string) (usecase.ValidationResult, error)
}

// ChartHandler handles chart-of-accounts HTTP requests.
type ChartHandler struct {
	chartUC ChartService
}

// NewChartHandler creates a new ChartHandler.
func NewChartHandler(chartUC ChartService) *ChartHandler {
	return &ChartHandler{chartUC: chartUC}
}

// List lists accounts, optionally filtered by class, search query or
// imputability.
func (h *ChartHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	var (
		accounts []*domain.Account
		err      error
	)
	switch {
	case q.Get("class") != "":
		accounts, err = h.chartUC.GetAccountsByClass(ctx, q.Get("class"))
	case q.Get("q") != "":
		accounts, err = h.chartUC.SearchAccounts(ctx, q.Get("q"))
	case q.Get("imputable") == "true":
		accounts, err = h.chartUC.GetImputableAccounts(ctx)
	default:
		accounts, err = h.chartUC.GetAllAccounts(ctx)
	}
	if err != nil {
		writeDomainError(w, err, "failed to list accounts")
		return
	}

	writeJSON(w, http.StatusOK, dto.ListAccountsResponse{
		Accounts: accounts,
		Total:    len(accounts),
	})
}

// Get retrieves an account by code.
func (h *ChartHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	account, err := h.chartUC.GetAccount(r.Context(), code)
	if err != nil {
		writeDomainError(w, err, "failed to get account")
		return
	}

	writeJSON(w, http.StatusOK, account)
}

// Children lists the direct sub-accounts of an account.
func (h *ChartHandler) Children(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	accounts, err := h.chartUC.GetChildAccounts(r.Context(), code)
	if err != nil {
		writeDomainError(w, err, "failed to list child accounts")
		return
	}

	writeJSON(w, http.StatusOK, dto.ListAccountsResponse{
		Accounts: accounts,
		Total:    len(accounts),
	})
}

// Validate reports whether an account may receive postings.
func (h *ChartHandler) Validate(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	result, err := h.chartUC.ValidateAccount(r.Context(), code)
	if err != nil {
		writeDomainError(w, err, "failed to validate account")
		return
	}

	writeJSON(w, http.StatusOK, dto.ValidationResponse{
		Code:    code,
		Valid:   result.Valid,
		Message: result.Error,
	})
}

// Journals lists the static ledger books.
func (h *ChartHandler) Journals(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.JournalsResponse{Journals: domain.Journals})
}
