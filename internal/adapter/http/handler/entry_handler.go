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

// EntryService defines the behavior needed by EntryHandler.
type EntryService interface {
	CreateEntry(ctx context.Context, input usecase.CreateEntryInput) (*domain.JournalEntry, error)
	ValidateEntry(ctx context.Context, id string) (*domain.JournalEntry, error)
	ReverseEntry(ctx context.Context, id, userID string) (*domain.JournalEntry, error)
	GetEntry(ctx context.Context, id string) (*domain.JournalEntry, error)
	ListEntries(ctx context.Context) ([]*domain.JournalEntry, error)
	ListEntriesByAccount(ctx context.Context, accountCode string) ([]*domain.JournalEntry, error)
}

// EntryHandler handles journal entry HTTP requests.
type EntryHandler struct {
	entryUC EntryService
	metrics *metrics.Metrics
}

// NewEntryHandler creates a new EntryHandler.
func NewEntryHandler(entryUC EntryService, m *metrics.Metrics) *EntryHandler {
	return &EntryHandler{entryUC: entryUC, metrics: m}
}

// Create posts a new draft journal entry.
func (h *EntryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	entry, err := h.entryUC.CreateEntry(r.Context(), req.ToUseCaseInput())
	if err != nil {
		if h.metrics != nil {
			h.metrics.EntryErrors.WithLabelValues(errorType(err)).Inc()
		}
		writeDomainError(w, err, "failed to create entry")
		return
	}

	if h.metrics != nil {
		h.metrics.EntriesCreated.WithLabelValues(entry.JournalID).Inc()
	}

	writeJSON(w, http.StatusCreated, entry)
}

// Validate flips an entry from draft to validated, exactly once.
func (h *EntryHandler) Validate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	entry, err := h.entryUC.ValidateEntry(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, "failed to validate entry")
		return
	}

	if h.metrics != nil {
		h.metrics.EntriesValidated.Inc()
	}

	writeJSON(w, http.StatusOK, entry)
}

// Reverse posts a compensating entry for a validated entry.
func (h *EntryHandler) Reverse(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req struct {
		CreatedBy string `json:"createdBy"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	reversal, err := h.entryUC.ReverseEntry(r.Context(), id, req.CreatedBy)
	if err != nil {
		writeDomainError(w, err, "failed to reverse entry")
		return
	}

	if h.metrics != nil {
		h.metrics.EntriesReversed.Inc()
	}

	writeJSON(w, http.StatusCreated, reversal)
}

// Get retrieves a journal entry.
func (h *EntryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	entry, err := h.entryUC.GetEntry(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, "failed to get entry")
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

// List lists journal entries.
func (h *EntryHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.entryUC.ListEntries(r.Context())
	if err != nil {
		writeDomainError(w, err, "failed to list entries")
		return
	}

	writeJSON(w, http.StatusOK, dto.ListEntriesResponse{
		Entries: entries,
		Total:   len(entries),
	})
}

// ListByAccount lists the entries touching an account.
func (h *EntryHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	entries, err := h.entryUC.ListEntriesByAccount(r.Context(), code)
	if err != nil {
		writeDomainError(w, err, "failed to list entries")
		return
	}

	writeJSON(w, http.StatusOK, dto.ListEntriesResponse{
		Entries: entries,
		Total:   len(entries),
	})
}

// errorType buckets entry errors for metrics.
func errorType(err error) string {
	switch mapDomainError(err) {
	case http.StatusNotFound:
		return "not_found"
	case http.StatusBadRequest:
		return "invalid"
	case http.StatusConflict:
		return "conflict"
	default:
		return "internal"
	}
}
