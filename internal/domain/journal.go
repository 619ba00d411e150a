package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// BalanceTolerance is the maximum accepted difference between total debits
// and total credits of a journal entry, in currency units.
var BalanceTolerance = decimal.RequireFromString("0.01")

// Journal is a named book of original entry.
type Journal struct {
	Code     string `json:"code"`
	Label    string `json:"label"`
	Type     string `json:"type"`
	IsActive bool   `json:"isActive"`
}

// Reference journal codes.
const (
	JournalVentes   = "VT"
	JournalAchats   = "AC"
	JournalBanque   = "BQ"
	JournalCaisse   = "CS"
	JournalDivers   = "OD"
	JournalANouveau = "AN"
)

// Journals is the static list of ledger books.
var Journals = []Journal{
	{Code: JournalVentes, Label: "Journal des ventes", Type: "VENTES", IsActive: true},
	{Code: JournalAchats, Label: "Journal des achats", Type: "ACHATS", IsActive: true},
	{Code: JournalBanque, Label: "Journal de banque", Type: "BANQUE", IsActive: true},
	{Code: JournalCaisse, Label: "Journal de caisse", Type: "CAISSE", IsActive: true},
	{Code: JournalDivers, Label: "Opérations diverses", Type: "DIVERS", IsActive: true},
	{Code: JournalANouveau, Label: "Reports à nouveau", Type: "A_NOUVEAU", IsActive: true},
}

// JournalByCode returns the static journal with the given code.
func JournalByCode(code string) (Journal, error) {
	for _, j := range Journals {
		if j.Code == code {
			return j, nil
		}
	}
	return Journal{}, fmt.Errorf("%w: %s", ErrJournalNotFound, code)
}

// AccountEntry is a single debit or credit line of a journal entry.
// AccountLabel is a denormalized snapshot taken at posting time.
type AccountEntry struct {
	ID             string          `json:"id"`
	JournalEntryID string          `json:"journalEntryId"`
	AccountCode    string          `json:"accountCode"`
	AccountLabel   string          `json:"accountLabel"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	Label          string          `json:"label"`
}

// Metadata keys attached to journal entries.
const (
	MetaReconciled     = "reconciled"
	MetaReconciledAt   = "reconciledAt"
	MetaReconciledBy   = "reconciledBy"
	MetaMovementType   = "movementType"
	MetaReversalOf     = "reversalOf"
	MetaReversedBy     = "reversedBy"
	MetaExpenseAccount = "expenseAccount"
)

// JournalEntry is an atomic, balanced accounting transaction.
// Lifecycle: created as draft, validated exactly once, then immutable
// except for reconciliation metadata.
type JournalEntry struct {
	ID            string          `json:"id"`
	JournalID     string          `json:"journalId"`
	Date          time.Time       `json:"date"`
	Reference     string          `json:"reference"`
	Label         string          `json:"label"`
	TransactionID string          `json:"transactionId,omitempty"`
	DossierID     string          `json:"dossierId,omitempty"`
	Entries       []AccountEntry  `json:"entries"`
	Validated     bool            `json:"validated"`
	ValidatedAt   *time.Time      `json:"validatedAt,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	CreatedBy     string          `json:"createdBy"`
	Metadata      map[string]any  `json:"metadata,omitempty"`
}

// TotalDebit sums the debit side of all lines.
func (e *JournalEntry) TotalDebit() decimal.Decimal {
	total := decimal.Zero
	for _, line := range e.Entries {
		total = total.Add(line.Debit)
	}
	return total
}

// TotalCredit sums the credit side of all lines.
func (e *JournalEntry) TotalCredit() decimal.Decimal {
	total := decimal.Zero
	for _, line := range e.Entries {
		total = total.Add(line.Credit)
	}
	return total
}

// Validate enforces the double-entry invariant: total debits equal total
// credits within BalanceTolerance, and at least one line is non-zero.
func (e *JournalEntry) Validate() error {
	debit := e.TotalDebit()
	credit := e.TotalCredit()

	if debit.IsZero() && credit.IsZero() {
		return ErrEntryEmpty
	}

	if diff := debit.Sub(credit).Abs(); diff.GreaterThan(BalanceTolerance) {
		return fmt.Errorf("%w: debit=%s credit=%s", ErrEntryUnbalanced, debit.String(), credit.String())
	}

	return nil
}

// IsReconciled reports whether the entry is flagged as reconciled.
func (e *JournalEntry) IsReconciled() bool {
	if e.Metadata == nil {
		return false
	}
	v, ok := e.Metadata[MetaReconciled].(bool)
	return ok && v
}

// TouchesAccount reports whether any line posts to the given account code.
func (e *JournalEntry) TouchesAccount(code string) bool {
	for _, line := range e.Entries {
		if line.AccountCode == code {
			return true
		}
	}
	return false
}
