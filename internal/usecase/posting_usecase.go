package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/etudesn/notacompta/internal/domain"
)

var unTVA = decimal.RequireFromString("1.18")

// SplitTTC splits a tax-inclusive amount into its HT and VAT parts.
// HT is rounded to the centime and VAT takes the remainder, so the two
// always sum exactly to the input.
func SplitTTC(amountTTC decimal.Decimal) (ht, tva decimal.Decimal) {
	ht = amountTTC.Div(unTVA).Round(2)
	tva = amountTTC.Sub(ht)
	return ht, tva
}

// expenseRule maps description keywords to an expense account. Rules are
// evaluated in declaration order and the first match wins; order them from
// most specific to most generic.
type expenseRule struct {
	Account  string
	Label    string
	Keywords []string
}

var expenseRules = []expenseRule{
	{Account: CompteFraisBancaires, Label: "Frais bancaires", Keywords: []string{"frais bancaire", "agios", "commission bancaire"}},
	{Account: CompteFournituresBureau, Label: "Fournitures de bureau", Keywords: []string{"fourniture", "papeterie", "bureau"}},
	{Account: CompteLoyers, Label: "Locations et charges locatives", Keywords: []string{"loyer", "location"}},
	{Account: CompteAssurances, Label: "Primes d'assurance", Keywords: []string{"assurance", "prime"}},
	{Account: CompteHonorairesVerses, Label: "Honoraires versés", Keywords: []string{"honoraire", "avocat", "expert", "conseil"}},
	{Account: CompteRemunerations, Label: "Rémunérations du personnel", Keywords: []string{"salaire", "paie", "rémunération"}},
	{Account: CompteTransports, Label: "Transports", Keywords: []string{"transport", "carburant", "taxi", "déplacement"}},
	{Account: CompteEntretien, Label: "Entretien et réparations", Keywords: []string{"entretien", "réparation", "maintenance"}},
}

// ClassifyExpense returns the charge account for a free-text expense
// description. Unmatched descriptions fall back to the generic purchases
// account.
func ClassifyExpense(description string) (accountCode, label string) {
	desc := strings.ToLower(description)
	for _, rule := range expenseRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(desc, kw) {
				return rule.Account, rule.Label
			}
		}
	}
	return CompteAutresAchats, "Autres achats"
}

// PostingUseCase turns business events into balanced journal entries.
// Every generator goes through the journal engine's validated write path.
type PostingUseCase struct {
	entries     *EntryUseCase
	clients     *ClientAccountUseCase
	invoiceRepo InvoiceRepository
}

// NewPostingUseCase creates a new PostingUseCase.
func NewPostingUseCase(entries *EntryUseCase, clients *ClientAccountUseCase, invoiceRepo InvoiceRepository) *PostingUseCase {
	return &PostingUseCase{
		entries:     entries,
		clients:     clients,
		invoiceRepo: invoiceRepo,
	}
}

// FeeReceiptInput describes a received fee, tax included.
type FeeReceiptInput struct {
	AmountTTC decimal.Decimal
	Label     string
	Date      time.Time
	DossierID string
	CreatedBy string
}

// RecordFeeReceipt posts a fee receipt: the client owes the full amount,
// income takes the HT part and collected VAT the rest.
func (uc *PostingUseCase) RecordFeeReceipt(ctx context.Context, input FeeReceiptInput) (*domain.JournalEntry, error) {
	if err := domain.ValidateMontantPositif("amountTTC", input.AmountTTC); err != nil {
		return nil, err
	}

	ht, tva := SplitTTC(input.AmountTTC)

	return uc.entries.CreateEntry(ctx, CreateEntryInput{
		JournalCode: domain.JournalVentes,
		Date:        input.Date,
		Label:       input.Label,
		DossierID:   input.DossierID,
		CreatedBy:   input.CreatedBy,
		Lines: []EntryLineInput{
			{AccountCode: CompteClients, Debit: input.AmountTTC, Label: input.Label},
			{AccountCode: CompteHonoraires, Credit: ht, Label: input.Label},
			{AccountCode: CompteTVACollectee, Credit: tva, Label: "TVA collectée 18%"},
		},
	})
}

// ExpenseInput describes a supplier expense, tax included.
type ExpenseInput struct {
	AmountTTC   decimal.Decimal
	Description string
	Date        time.Time
	DossierID   string
	CreatedBy   string
}

// RecordExpense posts an expense against the charge account inferred from
// the description, with recoverable VAT split out.
func (uc *PostingUseCase) RecordExpense(ctx context.Context, input ExpenseInput) (*domain.JournalEntry, error) {
	if err := domain.ValidateMontantPositif("amountTTC", input.AmountTTC); err != nil {
		return nil, err
	}

	chargeAccount, chargeLabel := ClassifyExpense(input.Description)
	ht, tva := SplitTTC(input.AmountTTC)

	return uc.entries.CreateEntry(ctx, CreateEntryInput{
		JournalCode: domain.JournalAchats,
		Date:        input.Date,
		Label:       input.Description,
		DossierID:   input.DossierID,
		CreatedBy:   input.CreatedBy,
		Metadata:    map[string]any{domain.MetaExpenseAccount: chargeAccount},
		Lines: []EntryLineInput{
			{AccountCode: chargeAccount, Debit: ht, Label: chargeLabel},
			{AccountCode: CompteTVADeductible, Debit: tva, Label: "TVA récupérable 18%"},
			{AccountCode: CompteFournisseurs, Credit: input.AmountTTC, Label: input.Description},
		},
	})
}

// ClientPaymentInput describes a payment received from a client.
type ClientPaymentInput struct {
	Amount    decimal.Decimal
	Method    PaymentMethod
	Label     string
	Date      time.Time
	CreatedBy string
}

// RecordClientPayment posts a client payment into bank or cash.
func (uc *PostingUseCase) RecordClientPayment(ctx context.Context, input ClientPaymentInput) (*domain.JournalEntry, error) {
	if err := domain.ValidateMontantPositif("amount", input.Amount); err != nil {
		return nil, err
	}

	journal := domain.JournalBanque
	if input.Method == PaymentCash {
		journal = domain.JournalCaisse
	}

	return uc.entries.CreateEntry(ctx, CreateEntryInput{
		JournalCode: journal,
		Date:        input.Date,
		Label:       input.Label,
		CreatedBy:   input.CreatedBy,
		Lines: []EntryLineInput{
			{AccountCode: TreasuryAccount(input.Method), Debit: input.Amount, Label: input.Label},
			{AccountCode: CompteClients, Credit: input.Amount, Label: input.Label},
		},
	})
}

// PostInvoice posts an invoice against the client's own sub-account,
// crediting each income category only when its total is non-zero.
func (uc *PostingUseCase) PostInvoice(ctx context.Context, invoiceID, userID string) (*domain.JournalEntry, error) {
	invoice, err := uc.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	clientAccount, err := uc.clients.CreateClientAccount(ctx, invoice.ClientID, invoice.ClientName)
	if err != nil {
		return nil, err
	}

	label := fmt.Sprintf("Facture %s - %s", invoice.Number, invoice.ClientName)
	lines := []EntryLineInput{
		{AccountCode: clientAccount.Code, Debit: invoice.TotalTTC, Label: label},
	}

	credits := []struct {
		account string
		amount  decimal.Decimal
		label   string
	}{
		{CompteHonoraires, invoice.Honoraires, "Honoraires"},
		{CompteDeboursRefactures, invoice.Debours, "Débours refacturés"},
		{CompteDroitsRefactures, invoice.Droits, "Droits et taxes refacturés"},
		{CompteTVACollectee, invoice.TVA, "TVA collectée"},
	}
	for _, c := range credits {
		if c.amount.IsZero() {
			continue
		}
		lines = append(lines, EntryLineInput{AccountCode: c.account, Credit: c.amount, Label: c.label})
	}

	return uc.entries.CreateEntry(ctx, CreateEntryInput{
		JournalCode:   domain.JournalVentes,
		Date:          invoice.Date,
		Label:         label,
		TransactionID: invoice.ID,
		DossierID:     invoice.DossierID,
		CreatedBy:     userID,
		Lines:         lines,
	})
}

// RecordInvoicePayment advances the invoice settlement state, then posts
// the payment against the client's sub-account.
func (uc *PostingUseCase) RecordInvoicePayment(ctx context.Context, invoiceID string, amount decimal.Decimal, method PaymentMethod, userID string) (*domain.JournalEntry, error) {
	if err := domain.ValidateMontantPositif("amount", amount); err != nil {
		return nil, err
	}

	invoice, err := uc.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.Status == domain.InvoiceStatusPaid {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvoiceAlreadyPaid, invoice.Number)
	}
	if amount.GreaterThan(invoice.RemainingAmount) {
		return nil, fmt.Errorf("%w: %s > %s", domain.ErrPaymentExceedsDue, amount.String(), invoice.RemainingAmount.String())
	}

	clientAccount, err := uc.clients.CreateClientAccount(ctx, invoice.ClientID, invoice.ClientName)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	invoice.ApplyPayment(amount, now)
	if err := uc.invoiceRepo.Update(ctx, invoice); err != nil {
		return nil, err
	}

	journal := domain.JournalBanque
	if method == PaymentCash {
		journal = domain.JournalCaisse
	}

	label := fmt.Sprintf("Règlement facture %s", invoice.Number)
	return uc.entries.CreateEntry(ctx, CreateEntryInput{
		JournalCode:   journal,
		Date:          now,
		Label:         label,
		TransactionID: invoice.ID,
		DossierID:     invoice.DossierID,
		CreatedBy:     userID,
		Lines: []EntryLineInput{
			{AccountCode: TreasuryAccount(method), Debit: amount, Label: label},
			{AccountCode: clientAccount.Code, Credit: amount, Label: label},
		},
	})
}

// TreasuryMovementInput describes a bank/cash inflow, outflow or internal
// transfer.
type TreasuryMovementInput struct {
	Type            MovementType
	Method          PaymentMethod
	TargetMethod    PaymentMethod
	CounterpartCode string
	Amount          decimal.Decimal
	Label           string
	Date            time.Time
	CreatedBy       string
}

// RecordTreasuryMovement posts a symmetric debit/credit pair between a
// treasury account and its counterpart, tagged with the movement type.
func (uc *PostingUseCase) RecordTreasuryMovement(ctx context.Context, input TreasuryMovementInput) (*domain.JournalEntry, error) {
	if err := domain.ValidateMontantPositif("amount", input.Amount); err != nil {
		return nil, err
	}

	journal := domain.JournalBanque
	if input.Method == PaymentCash {
		journal = domain.JournalCaisse
	}

	treasury := TreasuryAccount(input.Method)
	var lines []EntryLineInput
	switch input.Type {
	case MovementIn:
		lines = []EntryLineInput{
			{AccountCode: treasury, Debit: input.Amount, Label: input.Label},
			{AccountCode: input.CounterpartCode, Credit: input.Amount, Label: input.Label},
		}
	case MovementOut:
		lines = []EntryLineInput{
			{AccountCode: input.CounterpartCode, Debit: input.Amount, Label: input.Label},
			{AccountCode: treasury, Credit: input.Amount, Label: input.Label},
		}
	case MovementTransfer:
		lines = []EntryLineInput{
			{AccountCode: TreasuryAccount(input.TargetMethod), Debit: input.Amount, Label: input.Label},
			{AccountCode: treasury, Credit: input.Amount, Label: input.Label},
		}
	default:
		return nil, fmt.Errorf("unknown movement type %q", input.Type)
	}

	return uc.entries.CreateEntry(ctx, CreateEntryInput{
		JournalCode: journal,
		Date:        input.Date,
		Label:       input.Label,
		CreatedBy:   input.CreatedBy,
		Metadata:    map[string]any{domain.MetaMovementType: string(input.Type)},
		Lines:       lines,
	})
}
