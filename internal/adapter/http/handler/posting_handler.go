package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/etudesn/notacompta/internal/adapter/http/dto"
	"github.com/etudesn/notacompta/internal/domain"
	"github.com/etudesn/notacompta/internal/usecase"
)

// PostingService defines the behavior needed by PostingHandler.
type PostingService interface {
	RecordFeeReceipt(ctx context.Context, input usecase.FeeReceiptInput) (*domain.JournalEntry, error)
	RecordExpense(ctx context.Context, input usecase.ExpenseInput) (*domain.JournalEntry, error)
	RecordClientPayment(ctx context.Context, input usecase.ClientPaymentInput) (*domain.JournalEntry, error)
	RecordTreasuryMovement(ctx context.Context, input usecase.TreasuryMovementInput) (*domain.JournalEntry, error)
}

// PostingHandler handles posting-generator HTTP requests.
type PostingHandler struct {
	postingUC PostingService
}

// NewPostingHandler creates a new PostingHandler.
func NewPostingHandler(postingUC PostingService) *PostingHandler {
	return &PostingHandler{postingUC: postingUC}
}

// FeeReceipt posts a fee receipt.
func (h *PostingHandler) FeeReceipt(w http.ResponseWriter, r *http.Request) {
	var req dto.FeeReceiptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	entry, err := h.postingUC.RecordFeeReceipt(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, err, "failed to record fee receipt")
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

// Expense posts a classified expense.
func (h *PostingHandler) Expense(w http.ResponseWriter, r *http.Request) {
	var req dto.ExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	entry, err := h.postingUC.RecordExpense(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, err, "failed to record expense")
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

// ClientPayment posts a client payment.
func (h *PostingHandler) ClientPayment(w http.ResponseWriter, r *http.Request) {
	var req dto.ClientPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	entry, err := h.postingUC.RecordClientPayment(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, err, "failed to record client payment")
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

// TreasuryMovement posts a bank/cash movement or internal transfer.
func (h *PostingHandler) TreasuryMovement(w http.ResponseWriter, r *http.Request) {
	var req dto.TreasuryMovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	entry, err := h.postingUC.RecordTreasuryMovement(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, err, "failed to record treasury movement")
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

// ClassifyExpense previews the charge account inferred from a description.
func (h *PostingHandler) ClassifyExpense(w http.ResponseWriter, r *http.Request) {
	description := r.URL.Query().Get("description")
	account, label := usecase.ClassifyExpense(description)

	writeJSON(w, http.StatusOK, map[string]string{
		"accountCode": account,
		"label":       label,
	})
}

// SplitTTC previews the HT/VAT split of a tax-inclusive amount.
func (h *PostingHandler) SplitTTC(w http.ResponseWriter, r *http.Request) {
	amount, err := decimal.NewFromString(r.URL.Query().Get("amount"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount", err.Error())
		return
	}

	ht, tva := usecase.SplitTTC(amount)
	writeJSON(w, http.StatusOK, map[string]string{
		"ttc": amount.String(),
		"ht":  ht.String(),
		"tva": tva.String(),
	})
}
