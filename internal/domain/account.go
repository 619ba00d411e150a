package domain

import (
	"strings"
	"time"
)

// AccountType classifies an account within the OHADA chart.
type AccountType string

const (
	AccountTypeActif    AccountType = "ACTIF"
	AccountTypePassif   AccountType = "PASSIF"
	AccountTypeCharge   AccountType = "CHARGE"
	AccountTypeProduit  AccountType = "PRODUIT"
	AccountTypeResultat AccountType = "RESULTAT"
)

// AccountNature is the expected balance side of an account.
type AccountNature string

const (
	NatureDebit  AccountNature = "DEBIT"
	NatureCredit AccountNature = "CREDIT"
)

// ClientAccountPrefix is the code prefix of client sub-ledger accounts.
const ClientAccountPrefix = "411."

// Account is a node in the OHADA chart of accounts.
// Summary accounts group sub-accounts and never receive postings directly.
type Account struct {
	Code        string        `json:"code"`
	Label       string        `json:"label"`
	ClassCode   string        `json:"classCode"`
	Type        AccountType   `json:"type"`
	Nature      AccountNature `json:"nature"`
	Parent      string        `json:"parent,omitempty"`
	Description string        `json:"description,omitempty"`
	ClientID    string        `json:"clientId,omitempty"`
	IsActive    bool          `json:"isActive"`
	IsSummary   bool          `json:"isSummary"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// IsImputable reports whether the account may receive postings.
func (a *Account) IsImputable() bool {
	return a.IsActive && !a.IsSummary
}

// IsClientAccount reports whether the account belongs to the client sub-ledger.
func (a *Account) IsClientAccount() bool {
	return strings.HasPrefix(a.Code, ClientAccountPrefix)
}

// Level is the depth of the account in the chart, measured as the
// length of its code without separator dots.
func (a *Account) Level() int {
	return len(strings.ReplaceAll(a.Code, ".", ""))
}
