package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/etudesn/notacompta/internal/adapter/http/dto"
	"github.com/etudesn/notacompta/internal/domain"
	"github.com/etudesn/notacompta/internal/infrastructure/metrics"
	"github.com/etudesn/notacompta/internal/usecase"
)

// ReconciliationService defines the behavior needed by
// ReconciliationHandler.
type ReconciliationService interface {
	CreateSession(ctx context.Context, input usecase.CreateSessionInput) (*domain.ReconciliationSession, error)
	GetSession(ctx context.Context, id string) (*domain.ReconciliationSession, error)
	ListSessions(ctx context.Context) ([]*domain.ReconciliationSession, error)
	FindAutomaticMatches(ctx context.Context, sessionID string) (*domain.ReconciliationSession, error)
	AddManualMatch(ctx context.Context, sessionID, lineID, entryID string) (*domain.ReconciliationSession, error)
	GetUnmatchedLines(ctx context.Context, sessionID string) (*usecase.UnmatchedResult, error)
	CompleteReconciliation(ctx context.Context, sessionID, userID string) (*domain.ReconciliationSession, error)
	CancelReconciliation(ctx context.Context, sessionID string) (*domain.ReconciliationSession, error)
}

// ReconciliationHandler handles bank reconciliation HTTP requests.
type ReconciliationHandler struct {
	reconciliationUC ReconciliationService
	metrics          *metrics.Metrics
}

// NewReconciliationHandler creates a new ReconciliationHandler.
func NewReconciliationHandler(reconciliationUC ReconciliationService, m *metrics.Metrics) *ReconciliationHandler {
	return &ReconciliationHandler{reconciliationUC: reconciliationUC, metrics: m}
}

// Create opens a reconciliation session over an imported statement.
func (h *ReconciliationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	session, err := h.reconciliationUC.CreateSession(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, err, "failed to create session")
		return
	}

	writeJSON(w, http.StatusCreated, session)
}

// Get retrieves a session.
func (h *ReconciliationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	session, err := h.reconciliationUC.GetSession(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, "failed to get session")
		return
	}

	writeJSON(w, http.StatusOK, session)
}

// List lists sessions.
func (h *ReconciliationHandler) List(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.reconciliationUC.ListSessions(r.Context())
	if err != nil {
		writeDomainError(w, err, "failed to list sessions")
		return
	}

	writeJSON(w, http.StatusOK, dto.ListSessionsResponse{
		Sessions: sessions,
		Total:    len(sessions),
	})
}

// AutoMatch runs the automatic matching pass.
func (h *ReconciliationHandler) AutoMatch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	session, err := h.reconciliationUC.FindAutomaticMatches(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, "failed to run automatic matching")
		return
	}

	if h.metrics != nil {
		h.metrics.ReconciliationMatches.WithLabelValues(string(domain.MatchTypeExact)).Add(float64(len(session.Matches)))
	}

	writeJSON(w, http.StatusOK, session)
}

// ManualMatch records a hand-picked match.
func (h *ReconciliationHandler) ManualMatch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.ManualMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	session, err := h.reconciliationUC.AddManualMatch(r.Context(), id, req.StatementLineID, req.JournalEntryID)
	if err != nil {
		writeDomainError(w, err, "failed to add manual match")
		return
	}

	if h.metrics != nil {
		h.metrics.ReconciliationMatches.WithLabelValues(string(domain.MatchTypeManual)).Inc()
	}

	writeJSON(w, http.StatusOK, session)
}

// Unmatched lists the statement lines and entries still unmatched.
func (h *ReconciliationHandler) Unmatched(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.reconciliationUC.GetUnmatchedLines(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, "failed to get unmatched lines")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Complete freezes the session and flags matched entries as reconciled.
func (h *ReconciliationHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.CompleteSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	session, err := h.reconciliationUC.CompleteReconciliation(r.Context(), id, req.CompletedBy)
	if err != nil {
		writeDomainError(w, err, "failed to complete session")
		return
	}

	if h.metrics != nil {
		h.metrics.ReconciliationSessions.WithLabelValues(string(session.Status)).Inc()
	}

	writeJSON(w, http.StatusOK, session)
}

// Cancel cancels the session and clears reconciliation flags.
func (h *ReconciliationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	session, err := h.reconciliationUC.CancelReconciliation(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, "failed to cancel session")
		return
	}

	if h.metrics != nil {
		h.metrics.ReconciliationSessions.WithLabelValues(string(session.Status)).Inc()
	}

	writeJSON(w, http.StatusOK, session)
}
