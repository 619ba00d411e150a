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
	"github.com/etudesn/notacompta/internal/usecase"
)

// InvoiceService defines the invoice lifecycle behavior needed by
// InvoiceHandler.
type InvoiceService interface {
	CreateInvoice(ctx context.Context, input usecase.CreateInvoiceInput) (*domain.Invoice, error)
	GetInvoice(ctx context.Context, id string) (*domain.Invoice, error)
	ListClientInvoices(ctx context.Context, clientID string) ([]*domain.Invoice, error)
}

// InvoicePostingService defines the ledger-side invoice operations.
type InvoicePostingService interface {
	PostInvoice(ctx context.Context, invoiceID, userID string) (*domain.JournalEntry, error)
	RecordInvoicePayment(ctx context.Context, invoiceID string, amount decimal.Decimal, method usecase.PaymentMethod, userID string) (*domain.JournalEntry, error)
}

// InvoiceHandler handles invoice HTTP requests.
type InvoiceHandler struct {
	invoiceUC InvoiceService
	postingUC InvoicePostingService
	metrics   *metrics.Metrics
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(invoiceUC InvoiceService, postingUC InvoicePostingService, m *metrics.Metrics) *InvoiceHandler {
	return &InvoiceHandler{invoiceUC: invoiceUC, postingUC: postingUC, metrics: m}
}

// Create numbers and stores a new invoice.
func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	invoice, err := h.invoiceUC.CreateInvoice(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, err, "failed to create invoice")
		return
	}

	writeJSON(w, http.StatusCreated, invoice)
}

// Get retrieves an invoice.
func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	invoice, err := h.invoiceUC.GetInvoice(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, "failed to get invoice")
		return
	}

	writeJSON(w, http.StatusOK, invoice)
}

// ListByClient lists the invoices of a client.
func (h *InvoiceHandler) ListByClient(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "clientId")

	invoices, err := h.invoiceUC.ListClientInvoices(r.Context(), clientID)
	if err != nil {
		writeDomainError(w, err, "failed to list invoices")
		return
	}

	writeJSON(w, http.StatusOK, dto.ListInvoicesResponse{
		Invoices: invoices,
		Total:    len(invoices),
	})
}

// Post posts the invoice to the ledger against the client sub-account.
func (h *InvoiceHandler) Post(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req struct {
		CreatedBy string `json:"createdBy"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	entry, err := h.postingUC.PostInvoice(r.Context(), id, req.CreatedBy)
	if err != nil {
		writeDomainError(w, err, "failed to post invoice")
		return
	}

	if h.metrics != nil {
		h.metrics.InvoicesPosted.Inc()
	}

	writeJSON(w, http.StatusCreated, entry)
}

// Pay records a payment against the invoice and posts it.
func (h *InvoiceHandler) Pay(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.InvoicePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	entry, err := h.postingUC.RecordInvoicePayment(r.Context(), id, req.Amount, usecase.PaymentMethod(req.Method), req.CreatedBy)
	if err != nil {
		writeDomainError(w, err, "failed to record invoice payment")
		return
	}

	if h.metrics != nil {
		h.metrics.PaymentsRecorded.WithLabelValues(req.Method).Inc()
	}

	writeJSON(w, http.StatusCreated, entry)
}
