package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/etudesn/notacompta/internal/usecase"
)

// StatementService defines the behavior needed by StatementHandler.
type StatementService interface {
	GenerateLedger(ctx context.Context, accountCode string, startDate, endDate time.Time) (*usecase.Ledger, error)
	GenerateBalance(ctx context.Context, startDate, endDate time.Time) (*usecase.TrialBalance, error)
	GenerateBilan(ctx context.Context, startDate, endDate time.Time) (*usecase.Bilan, error)
	GenerateCompteResultat(ctx context.Context, startDate, endDate time.Time) (*usecase.CompteResultat, error)
	GenerateTafire(ctx context.Context, startDate, endDate time.Time) (*usecase.Tafire, error)
}

// StatementHandler handles financial statement HTTP requests. All routes
// take start and end query parameters in YYYY-MM-DD form.
type StatementHandler struct {
	statementUC StatementService
}

// NewStatementHandler creates a new StatementHandler.
func NewStatementHandler(statementUC StatementService) *StatementHandler {
	return &StatementHandler{statementUC: statementUC}
}

// Ledger renders the ledger of one account over a period.
func (h *StatementHandler) Ledger(w http.ResponseWriter, r *http.Request) {
	start, end, err := parsePeriodQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid period", err.Error())
		return
	}

	accountCode := r.URL.Query().Get("account")
	if accountCode == "" {
		writeError(w, http.StatusBadRequest, "missing account parameter", "")
		return
	}

	ledger, err := h.statementUC.GenerateLedger(r.Context(), accountCode, start, end)
	if err != nil {
		writeDomainError(w, err, "failed to generate ledger")
		return
	}

	writeJSON(w, http.StatusOK, ledger)
}

// Balance renders the trial balance over a period.
func (h *StatementHandler) Balance(w http.ResponseWriter, r *http.Request) {
	start, end, err := parsePeriodQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid period", err.Error())
		return
	}

	balance, err := h.statementUC.GenerateBalance(r.Context(), start, end)
	if err != nil {
		writeDomainError(w, err, "failed to generate balance")
		return
	}

	writeJSON(w, http.StatusOK, balance)
}

// Bilan renders the simplified balance sheet.
func (h *StatementHandler) Bilan(w http.ResponseWriter, r *http.Request) {
	start, end, err := parsePeriodQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid period", err.Error())
		return
	}

	bilan, err := h.statementUC.GenerateBilan(r.Context(), start, end)
	if err != nil {
		writeDomainError(w, err, "failed to generate bilan")
		return
	}

	writeJSON(w, http.StatusOK, bilan)
}

// CompteResultat renders the simplified income statement.
func (h *StatementHandler) CompteResultat(w http.ResponseWriter, r *http.Request) {
	start, end, err := parsePeriodQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid period", err.Error())
		return
	}

	resultat, err := h.statementUC.GenerateCompteResultat(r.Context(), start, end)
	if err != nil {
		writeDomainError(w, err, "failed to generate compte de résultat")
		return
	}

	writeJSON(w, http.StatusOK, resultat)
}

// Tafire renders the simplified cash flow statement.
func (h *StatementHandler) Tafire(w http.ResponseWriter, r *http.Request) {
	start, end, err := parsePeriodQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid period", err.Error())
		return
	}

	tafire, err := h.statementUC.GenerateTafire(r.Context(), start, end)
	if err != nil {
		writeDomainError(w, err, "failed to generate tafire")
		return
	}

	writeJSON(w, http.StatusOK, tafire)
}
