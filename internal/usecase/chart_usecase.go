package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/etudesn/notacompta/internal/domain"
)

// ChartUseCase serves the OHADA chart of accounts and gatekeeps postings.
type ChartUseCase struct {
	accountRepo AccountRepository
}

// NewChartUseCase creates a new ChartUseCase.
func NewChartUseCase(accountRepo AccountRepository) *ChartUseCase {
	return &ChartUseCase{accountRepo: accountRepo}
}

// GetAllAccounts returns the full chart.
func (uc *ChartUseCase) GetAllAccounts(ctx context.Context) ([]*domain.Account, error) {
	return uc.accountRepo.List(ctx)
}

// GetAccount returns one account by code.
func (uc *ChartUseCase) GetAccount(ctx context.Context, code string) (*domain.Account, error) {
	return uc.accountRepo.GetByCode(ctx, code)
}

// SearchAccounts matches the query against code, label and description,
// case-insensitive for text.
func (uc *ChartUseCase) SearchAccounts(ctx context.Context, query string) ([]*domain.Account, error) {
	accounts, err := uc.accountRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return accounts, nil
	}

	var result []*domain.Account
	for _, a := range accounts {
		if strings.Contains(a.Code, q) ||
			strings.Contains(strings.ToLower(a.Label), q) ||
			strings.Contains(strings.ToLower(a.Description), q) {
			result = append(result, a)
		}
	}

	return result, nil
}

// GetAccountsByClass returns accounts whose class digit matches.
func (uc *ChartUseCase) GetAccountsByClass(ctx context.Context, classCode string) ([]*domain.Account, error) {
	if len(classCode) != 1 || classCode[0] < '1' || classCode[0] > '9' {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidClassCode, classCode)
	}

	accounts, err := uc.accountRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	var result []*domain.Account
	for _, a := range accounts {
		if a.ClassCode == classCode {
			result = append(result, a)
		}
	}

	return result, nil
}

// GetAccountsByType returns accounts of the given type.
func (uc *ChartUseCase) GetAccountsByType(ctx context.Context, accountType domain.AccountType) ([]*domain.Account, error) {
	accounts, err := uc.accountRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	var result []*domain.Account
	for _, a := range accounts {
		if a.Type == accountType {
			result = append(result, a)
		}
	}

	return result, nil
}

// GetImputableAccounts returns the postable accounts.
func (uc *ChartUseCase) GetImputableAccounts(ctx context.Context) ([]*domain.Account, error) {
	accounts, err := uc.accountRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	var result []*domain.Account
	for _, a := range accounts {
		if a.IsImputable() {
			result = append(result, a)
		}
	}

	return result, nil
}

// GetAccountsByLevel returns accounts whose code depth equals level.
func (uc *ChartUseCase) GetAccountsByLevel(ctx context.Context, level int) ([]*domain.Account, error) {
	accounts, err := uc.accountRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	var result []*domain.Account
	for _, a := range accounts {
		if a.Level() == level {
			result = append(result, a)
		}
	}

	return result, nil
}

// GetParentAccount returns the parent of the given account, if any.
func (uc *ChartUseCase) GetParentAccount(ctx context.Context, code string) (*domain.Account, error) {
	account, err := uc.accountRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if account.Parent == "" {
		return nil, nil
	}
	return uc.accountRepo.GetByCode(ctx, account.Parent)
}

// GetChildAccounts returns the direct children of the given account.
func (uc *ChartUseCase) GetChildAccounts(ctx context.Context, code string) ([]*domain.Account, error) {
	accounts, err := uc.accountRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	var result []*domain.Account
	for _, a := range accounts {
		if a.Parent == code {
			result = append(result, a)
		}
	}

	return result, nil
}

// ValidationResult is the outcome of a posting gate check.
type ValidationResult struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// ValidateAccount is the gatekeeping operation used by the journal engine:
// unknown, inactive and summary accounts are rejected with a message.
func (uc *ChartUseCase) ValidateAccount(ctx context.Context, code string) (ValidationResult, error) {
	account, err := uc.accountRepo.GetByCode(ctx, code)
	if errors.Is(err, domain.ErrAccountNotFound) {
		return ValidationResult{Valid: false, Error: fmt.Sprintf("compte %s inconnu", code)}, nil
	}
	if err != nil {
		return ValidationResult{}, err
	}
	if !account.IsActive {
		return ValidationResult{Valid: false, Error: fmt.Sprintf("compte %s inactif", code)}, nil
	}
	if account.IsSummary {
		return ValidationResult{Valid: false, Error: fmt.Sprintf("compte %s collectif, non imputable", code)}, nil
	}
	return ValidationResult{Valid: true}, nil
}
