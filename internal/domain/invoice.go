package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus is the settlement state of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusDraft         InvoiceStatus = "DRAFT"
	InvoiceStatusSent          InvoiceStatus = "SENT"
	InvoiceStatusPartiallyPaid InvoiceStatus = "PARTIALLY_PAID"
	InvoiceStatusPaid          InvoiceStatus = "PAID"
)

// Invoice is a client invoice whose line items are pre-aggregated per
// posting category. Amounts are tax-exclusive except TotalTTC.
type Invoice struct {
	ID              string          `json:"id"`
	Number          string          `json:"number"`
	ClientID        string          `json:"clientId"`
	ClientName      string          `json:"clientName"`
	Date            time.Time       `json:"date"`
	DossierID       string          `json:"dossierId,omitempty"`
	Honoraires      decimal.Decimal `json:"honoraires"`
	Debours         decimal.Decimal `json:"debours"`
	Droits          decimal.Decimal `json:"droits"`
	TVA             decimal.Decimal `json:"tva"`
	TotalTTC        decimal.Decimal `json:"totalTTC"`
	PaidAmount      decimal.Decimal `json:"paidAmount"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
	Status          InvoiceStatus   `json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// ApplyPayment advances the paid and remaining amounts and derives the
// settlement status. The caller validates the amount beforehand.
func (i *Invoice) ApplyPayment(amount decimal.Decimal, at time.Time) {
	i.PaidAmount = i.PaidAmount.Add(amount)
	i.RemainingAmount = i.TotalTTC.Sub(i.PaidAmount)
	if i.RemainingAmount.LessThanOrEqual(decimal.Zero) {
		i.Status = InvoiceStatusPaid
	} else {
		i.Status = InvoiceStatusPartiallyPaid
	}
	i.UpdatedAt = at
}
