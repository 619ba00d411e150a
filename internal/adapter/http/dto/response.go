package dto

import (
	"github.com/etudesn/notacompta/internal/domain"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// ListAccountsResponse wraps a list of accounts.
type ListAccountsResponse struct {
	Accounts []*domain.Account `json:"accounts"`
	Total    int               `json:"total"`
}

// ListEntriesResponse wraps a list of journal entries.
type ListEntriesResponse struct {
	Entries []*domain.JournalEntry `json:"entries"`
	Total   int                    `json:"total"`
}

// ListInvoicesResponse wraps a list of invoices.
type ListInvoicesResponse struct {
	Invoices []*domain.Invoice `json:"invoices"`
	Total    int               `json:"total"`
}

// ListSessionsResponse wraps a list of reconciliation sessions.
type ListSessionsResponse struct {
	Sessions []*domain.ReconciliationSession `json:"sessions"`
	Total    int                             `json:"total"`
}

// ValidationResponse reports whether an account may receive postings.
type ValidationResponse struct {
	Code    string `json:"code"`
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// BalanceResponse reports a client balance.
type BalanceResponse struct {
	ClientID string `json:"clientId"`
	Balance  string `json:"balance"`
}

// JournalsResponse lists the static ledger books.
type JournalsResponse struct {
	Journals []domain.Journal `json:"journals"`
}
