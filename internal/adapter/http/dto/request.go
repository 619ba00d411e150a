package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/etudesn/notacompta/internal/usecase"
)

// ProvisionRequest selects a barème formula by act type. Only the
// parameters relevant to the chosen type need to be set.
type ProvisionRequest struct {
	TypeActe string `json:"typeActe"`

	// Sociétés
	Capital          decimal.Decimal `json:"capital"`
	CapitalNature    decimal.Decimal `json:"capitalNature"`
	CapitalNumeraire decimal.Decimal `json:"capitalNumeraire"`
	AncienCapital    decimal.Decimal `json:"ancienCapital"`
	NouveauCapital   decimal.Decimal `json:"nouveauCapital"`
	PartNature       decimal.Decimal `json:"partNature"`

	// Immobilier
	Prix         decimal.Decimal `json:"prix"`
	ValeurSecond decimal.Decimal `json:"valeurSecond"`
	LoyerMensuel decimal.Decimal `json:"loyerMensuel"`
	DureeMois    int             `json:"dureeMois,omitempty"`

	// Fiscal
	PrixAcquisition  decimal.Decimal `json:"prixAcquisition"`
	AnneeAcquisition int             `json:"anneeAcquisition,omitempty"`
	PrixVente        decimal.Decimal `json:"prixVente"`
	AnneeCession     int             `json:"anneeCession,omitempty"`
	DepensesTravaux  decimal.Decimal `json:"depensesTravaux"`
}

// EntryLineRequest is one line of a journal entry request.
type EntryLineRequest struct {
	AccountCode string          `json:"accountCode"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Label       string          `json:"label"`
}

// CreateEntryRequest represents a request to post a journal entry.
type CreateEntryRequest struct {
	JournalCode string             `json:"journalCode"`
	Date        time.Time          `json:"date"`
	Label       string             `json:"label"`
	DossierID   string             `json:"dossierId,omitempty"`
	CreatedBy   string             `json:"createdBy"`
	Lines       []EntryLineRequest `json:"lines"`
	Metadata    map[string]any     `json:"metadata,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateEntryRequest) ToUseCaseInput() usecase.CreateEntryInput {
	lines := make([]usecase.EntryLineInput, len(r.Lines))
	for i, l := range r.Lines {
		lines[i] = usecase.EntryLineInput{
			AccountCode: l.AccountCode,
			Debit:       l.Debit,
			Credit:      l.Credit,
			Label:       l.Label,
		}
	}
	return usecase.CreateEntryInput{
		JournalCode: r.JournalCode,
		Date:        r.Date,
		Label:       r.Label,
		DossierID:   r.DossierID,
		CreatedBy:   r.CreatedBy,
		Lines:       lines,
		Metadata:    r.Metadata,
	}
}

// CreateClientAccountRequest represents a request to open a client
// sub-account.
type CreateClientAccountRequest struct {
	ClientName string `json:"clientName"`
}

// FeeReceiptRequest represents a fee receipt posting.
type FeeReceiptRequest struct {
	AmountTTC decimal.Decimal `json:"amountTTC"`
	Label     string          `json:"label"`
	Date      time.Time       `json:"date"`
	DossierID string          `json:"dossierId,omitempty"`
	CreatedBy string          `json:"createdBy"`
}

// ToUseCaseInput converts to use case input.
func (r *FeeReceiptRequest) ToUseCaseInput() usecase.FeeReceiptInput {
	return usecase.FeeReceiptInput{
		AmountTTC: r.AmountTTC,
		Label:     r.Label,
		Date:      r.Date,
		DossierID: r.DossierID,
		CreatedBy: r.CreatedBy,
	}
}

// ExpenseRequest represents an expense posting.
type ExpenseRequest struct {
	AmountTTC   decimal.Decimal `json:"amountTTC"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
	DossierID   string          `json:"dossierId,omitempty"`
	CreatedBy   string          `json:"createdBy"`
}

// ToUseCaseInput converts to use case input.
func (r *ExpenseRequest) ToUseCaseInput() usecase.ExpenseInput {
	return usecase.ExpenseInput{
		AmountTTC:   r.AmountTTC,
		Description: r.Description,
		Date:        r.Date,
		DossierID:   r.DossierID,
		CreatedBy:   r.CreatedBy,
	}
}

// ClientPaymentRequest represents a client payment posting.
type ClientPaymentRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Label     string          `json:"label"`
	Date      time.Time       `json:"date"`
	CreatedBy string          `json:"createdBy"`
}

// ToUseCaseInput converts to use case input.
func (r *ClientPaymentRequest) ToUseCaseInput() usecase.ClientPaymentInput {
	return usecase.ClientPaymentInput{
		Amount:    r.Amount,
		Method:    usecase.PaymentMethod(r.Method),
		Label:     r.Label,
		Date:      r.Date,
		CreatedBy: r.CreatedBy,
	}
}

// TreasuryMovementRequest represents a treasury movement posting.
type TreasuryMovementRequest struct {
	Type            string          `json:"type"`
	Method          string          `json:"method"`
	TargetMethod    string          `json:"targetMethod,omitempty"`
	CounterpartCode string          `json:"counterpartCode,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	Label           string          `json:"label"`
	Date            time.Time       `json:"date"`
	CreatedBy       string          `json:"createdBy"`
}

// ToUseCaseInput converts to use case input.
func (r *TreasuryMovementRequest) ToUseCaseInput() usecase.TreasuryMovementInput {
	return usecase.TreasuryMovementInput{
		Type:            usecase.MovementType(r.Type),
		Method:          usecase.PaymentMethod(r.Method),
		TargetMethod:    usecase.PaymentMethod(r.TargetMethod),
		CounterpartCode: r.CounterpartCode,
		Amount:          r.Amount,
		Label:           r.Label,
		Date:            r.Date,
		CreatedBy:       r.CreatedBy,
	}
}

// CreateInvoiceRequest represents a request to create an invoice.
type CreateInvoiceRequest struct {
	ClientID   string          `json:"clientId"`
	ClientName string          `json:"clientName"`
	Date       time.Time       `json:"date"`
	DossierID  string          `json:"dossierId,omitempty"`
	Honoraires decimal.Decimal `json:"honoraires"`
	Debours    decimal.Decimal `json:"debours"`
	Droits     decimal.Decimal `json:"droits"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateInvoiceRequest) ToUseCaseInput() usecase.CreateInvoiceInput {
	return usecase.CreateInvoiceInput{
		ClientID:   r.ClientID,
		ClientName: r.ClientName,
		Date:       r.Date,
		DossierID:  r.DossierID,
		Honoraires: r.Honoraires,
		Debours:    r.Debours,
		Droits:     r.Droits,
	}
}

// InvoicePaymentRequest represents a payment against an invoice.
type InvoicePaymentRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	CreatedBy string          `json:"createdBy"`
}

// StatementLineRequest is one imported bank statement line.
type StatementLineRequest struct {
	Date      time.Time       `json:"date"`
	Label     string          `json:"label"`
	Reference string          `json:"reference,omitempty"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
}

// CreateSessionRequest represents a request to open a reconciliation
// session.
type CreateSessionRequest struct {
	AccountCode string                 `json:"accountCode"`
	StartDate   time.Time              `json:"startDate"`
	EndDate     time.Time              `json:"endDate"`
	Lines       []StatementLineRequest `json:"lines"`
	CreatedBy   string                 `json:"createdBy"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateSessionRequest) ToUseCaseInput() usecase.CreateSessionInput {
	lines := make([]usecase.StatementLineInput, len(r.Lines))
	for i, l := range r.Lines {
		lines[i] = usecase.StatementLineInput{
			Date:      l.Date,
			Label:     l.Label,
			Reference: l.Reference,
			Debit:     l.Debit,
			Credit:    l.Credit,
		}
	}
	return usecase.CreateSessionInput{
		AccountCode: r.AccountCode,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		Lines:       lines,
		CreatedBy:   r.CreatedBy,
	}
}

// ManualMatchRequest pairs a statement line with a journal entry.
type ManualMatchRequest struct {
	StatementLineID string `json:"statementLineId"`
	JournalEntryID  string `json:"journalEntryId"`
}

// CompleteSessionRequest closes a reconciliation session.
type CompleteSessionRequest struct {
	CompletedBy string `json:"completedBy"`
}
