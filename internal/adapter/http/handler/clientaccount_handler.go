package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/etudesn/notacompta/internal/adapter/http/dto"
	"github.com/etudesn/notacompta/internal/domain"
	"github.com/etudesn/notacompta/internal/infrastructure/metrics"
)

// ClientAccountService defines the behavior needed by ClientAccountHandler.
type ClientAccountService interface {
	CreateClientAccount(ctx context.Context, clientID, clientName string) (*domain.Account, error)
	RenameClientAccount(ctx context.Context, clientID, clientName string) (*domain.Account, error)
	DeactivateClientAccount(ctx context.Context, clientID string) error
	GetClientBalance(ctx context.Context, clientID string) (decimal.Decimal, error)
	ListClientAccounts(ctx context.Context) ([]*domain.Account, error)
}

// ClientAccountHandler handles client sub-ledger HTTP requests.
type ClientAccountHandler struct {
	clientUC ClientAccountService
	metrics  *metrics.Metrics
}

// NewClientAccountHandler creates a new ClientAccountHandler.
func NewClientAccountHandler(clientUC ClientAccountService, m *metrics.Metrics) *ClientAccountHandler {
	return &ClientAccountHandler{clientUC: clientUC, metrics: m}
}

// Create opens (or returns) the sub-account of a client.
func (h *ClientAccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "clientId")

	var req dto.CreateClientAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	account, err := h.clientUC.CreateClientAccount(r.Context(), clientID, req.ClientName)
	if err != nil {
		writeDomainError(w, err, "failed to create client account")
		return
	}

	if h.metrics != nil {
		h.metrics.ClientAccountsCreated.Inc()
	}

	writeJSON(w, http.StatusCreated, account)
}

// Rename relabels the sub-account of a client.
func (h *ClientAccountHandler) Rename(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "clientId")

	var req dto.CreateClientAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	account, err := h.clientUC.RenameClientAccount(r.Context(), clientID, req.ClientName)
	if err != nil {
		writeDomainError(w, err, "failed to rename client account")
		return
	}

	writeJSON(w, http.StatusOK, account)
}

// Deactivate closes the sub-account of a client. The account and its
// history stay in place.
func (h *ClientAccountHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "clientId")

	if err := h.clientUC.DeactivateClientAccount(r.Context(), clientID); err != nil {
		writeDomainError(w, err, "failed to deactivate client account")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Balance reports the signed balance of a client sub-account.
func (h *ClientAccountHandler) Balance(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "clientId")

	balance, err := h.clientUC.GetClientBalance(r.Context(), clientID)
	if err != nil {
		writeDomainError(w, err, "failed to get client balance")
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceResponse{
		ClientID: clientID,
		Balance:  balance.String(),
	})
}

// List lists all client sub-accounts.
func (h *ClientAccountHandler) List(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.clientUC.ListClientAccounts(r.Context())
	if err != nil {
		writeDomainError(w, err, "failed to list client accounts")
		return
	}

	writeJSON(w, http.StatusOK, dto.ListAccountsResponse{
		Accounts: accounts,
		Total:    len(accounts),
	})
}
