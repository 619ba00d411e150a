package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MatchType records the provenance of a reconciliation match.
type MatchType string

const (
	MatchTypeExact   MatchType = "EXACT"
	MatchTypePartial MatchType = "PARTIAL"
	MatchTypeManual  MatchType = "MANUAL"
)

// SessionStatus is the lifecycle state of a reconciliation session.
type SessionStatus string

const (
	SessionEnCours   SessionStatus = "EN_COURS"
	SessionCompleted SessionStatus = "COMPLETED"
	SessionCancelled SessionStatus = "CANCELLED"
)

// StatementLine is one line of an imported bank statement.
type StatementLine struct {
	ID        string          `json:"id"`
	Date      time.Time       `json:"date"`
	Label     string          `json:"label"`
	Reference string          `json:"reference"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
}

// Amount is the signed movement of the line, debit minus credit.
func (l *StatementLine) Amount() decimal.Decimal {
	return l.Debit.Sub(l.Credit)
}

// ReconciliationMatch pairs a statement line with a journal entry.
type ReconciliationMatch struct {
	ID              string    `json:"id"`
	StatementLineID string    `json:"statementLineId"`
	JournalEntryID  string    `json:"journalEntryId"`
	MatchType       MatchType `json:"matchType"`
	MatchedAt       time.Time `json:"matchedAt"`
}

// ReconciliationSession owns the imported statement lines and the matches
// recorded against one treasury account over a period.
type ReconciliationSession struct {
	ID               string                `json:"id"`
	AccountCode      string                `json:"accountCode"`
	StartDate        time.Time             `json:"startDate"`
	EndDate          time.Time             `json:"endDate"`
	Lines            []StatementLine       `json:"lines"`
	Matches          []ReconciliationMatch `json:"matches"`
	StatementBalance decimal.Decimal       `json:"statementBalance"`
	LedgerBalance    decimal.Decimal       `json:"ledgerBalance"`
	Difference       decimal.Decimal       `json:"difference"`
	Status           SessionStatus         `json:"status"`
	CreatedAt        time.Time             `json:"createdAt"`
	CreatedBy        string                `json:"createdBy"`
	CompletedAt      *time.Time            `json:"completedAt,omitempty"`
}

// MatchedLineIDs returns the set of statement line IDs already matched.
func (s *ReconciliationSession) MatchedLineIDs() map[string]bool {
	ids := make(map[string]bool, len(s.Matches))
	for _, m := range s.Matches {
		ids[m.StatementLineID] = true
	}
	return ids
}

// MatchedEntryIDs returns the set of journal entry IDs already matched.
func (s *ReconciliationSession) MatchedEntryIDs() map[string]bool {
	ids := make(map[string]bool, len(s.Matches))
	for _, m := range s.Matches {
		ids[m.JournalEntryID] = true
	}
	return ids
}
