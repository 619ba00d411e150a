package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/etudesn/notacompta/internal/domain"
)

var tauxTVA = decimal.RequireFromString("0.18")

// InvoiceUseCase manages the lifecycle of client invoices.
type InvoiceUseCase struct {
	invoiceRepo InvoiceRepository
	seqRepo     SequenceRepository
	idGen       IDGenerator
}

// NewInvoiceUseCase creates a new InvoiceUseCase.
func NewInvoiceUseCase(invoiceRepo InvoiceRepository, seqRepo SequenceRepository, idGen IDGenerator) *InvoiceUseCase {
	return &InvoiceUseCase{
		invoiceRepo: invoiceRepo,
		seqRepo:     seqRepo,
		idGen:       idGen,
	}
}

// CreateInvoiceInput carries the pre-aggregated amounts of a new invoice,
// all tax-exclusive. VAT applies to honoraires only.
type CreateInvoiceInput struct {
	ClientID   string
	ClientName string
	Date       time.Time
	DossierID  string
	Honoraires decimal.Decimal
	Debours    decimal.Decimal
	Droits     decimal.Decimal
}

// CreateInvoice numbers and persists an invoice. Débours and droits are
// pass-through amounts, so VAT is computed on honoraires alone.
func (uc *InvoiceUseCase) CreateInvoice(ctx context.Context, input CreateInvoiceInput) (*domain.Invoice, error) {
	if err := domain.ValidateMontantPositif("honoraires", input.Honoraires); err != nil {
		return nil, err
	}

	number, err := uc.nextNumber(ctx, input.Date)
	if err != nil {
		return nil, err
	}

	tva := input.Honoraires.Mul(tauxTVA).Round(2)
	total := input.Honoraires.Add(input.Debours).Add(input.Droits).Add(tva)

	now := time.Now().UTC()
	invoice := &domain.Invoice{
		ID:              uc.idGen.Generate(),
		Number:          number,
		ClientID:        input.ClientID,
		ClientName:      input.ClientName,
		Date:            input.Date,
		DossierID:       input.DossierID,
		Honoraires:      input.Honoraires,
		Debours:         input.Debours,
		Droits:          input.Droits,
		TVA:             tva,
		TotalTTC:        total,
		PaidAmount:      decimal.Zero,
		RemainingAmount: total,
		Status:          domain.InvoiceStatusSent,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := uc.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, err
	}

	return invoice, nil
}

func (uc *InvoiceUseCase) nextNumber(ctx context.Context, date time.Time) (string, error) {
	series := fmt.Sprintf("FAC-%d", date.Year())
	n, err := uc.seqRepo.Next(ctx, series)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%04d", series, n), nil
}

// GetInvoice retrieves an invoice by ID.
func (uc *InvoiceUseCase) GetInvoice(ctx context.Context, id string) (*domain.Invoice, error) {
	return uc.invoiceRepo.GetByID(ctx, id)
}

// ListClientInvoices retrieves the invoices of a client.
func (uc *InvoiceUseCase) ListClientInvoices(ctx context.Context, clientID string) ([]*domain.Invoice, error) {
	return uc.invoiceRepo.ListByClient(ctx, clientID)
}
