package domain

import "errors"

var (
	// Chart of accounts errors
	ErrAccountNotFound  = errors.New("account not found")
	ErrAccountInactive  = errors.New("account is inactive")
	ErrAccountSummary   = errors.New("account is a summary account and cannot receive postings")
	ErrAccountExists    = errors.New("account code already exists")
	ErrInvalidClassCode = errors.New("invalid account class code")

	// Journal entry errors
	ErrEntryUnbalanced       = errors.New("journal entry is not balanced")
	ErrEntryEmpty            = errors.New("journal entry has no non-zero line")
	ErrEntryNotFound         = errors.New("journal entry not found")
	ErrEntryAlreadyValidated = errors.New("journal entry is already validated")
	ErrJournalNotFound       = errors.New("journal not found")

	// Barème errors
	ErrMontantInvalide   = errors.New("amount must be positive")
	ErrCapitalIncoherent = errors.New("nature and numéraire contributions must sum to the total capital")
	ErrDureeInvalide     = errors.New("duration must be positive")
	ErrAnneeIncoherente  = errors.New("acquisition year must not be after the sale year")

	// Billing errors
	ErrInvoiceNotFound    = errors.New("invoice not found")
	ErrInvoiceAlreadyPaid = errors.New("invoice is already fully paid")
	ErrPaymentExceedsDue  = errors.New("payment exceeds the remaining amount due")

	// Reconciliation errors
	ErrSessionNotFound       = errors.New("reconciliation session not found")
	ErrSessionNotOpen        = errors.New("reconciliation session is not open")
	ErrSessionGapNotZero     = errors.New("reconciliation gap is not zero")
	ErrStatementLineMatched  = errors.New("statement line is already matched")
	ErrStatementLineNotFound = errors.New("statement line not found")
)
