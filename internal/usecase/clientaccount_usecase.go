package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/etudesn/notacompta/internal/domain"
)

// ClientAccountSequence is the sequence series backing 411.xxxx allocation.
const ClientAccountSequence = "client_account"

// ClientAccountUseCase provisions and serves the client sub-ledger.
type ClientAccountUseCase struct {
	accountRepo AccountRepository
	entryRepo   EntryRepository
	seqRepo     SequenceRepository
}

// NewClientAccountUseCase creates a new ClientAccountUseCase.
func NewClientAccountUseCase(
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	seqRepo SequenceRepository,
) *ClientAccountUseCase {
	return &ClientAccountUseCase{
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		seqRepo:     seqRepo,
	}
}

// CreateClientAccount returns the sub-account linked to clientID, creating
// it on first call. Idempotent: the lookup is by stored client link, never
// by code guessing. Codes come from an atomic sequence so concurrent
// callers cannot allocate duplicates.
func (uc *ClientAccountUseCase) CreateClientAccount(ctx context.Context, clientID, clientName string) (*domain.Account, error) {
	if clientID == "" {
		return nil, fmt.Errorf("clientID is required")
	}

	existing, err := uc.accountRepo.GetByClientID(ctx, clientID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, err
	}

	code, err := uc.nextAccountCode(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	account := &domain.Account{
		Code:      code,
		Label:     fmt.Sprintf("Client - %s", clientName),
		ClassCode: "4",
		Type:      domain.AccountTypeActif,
		Nature:    domain.NatureDebit,
		Parent:    CompteClients,
		ClientID:  clientID,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// nextAccountCode draws numbers from the atomic sequence until one is free.
// Codes taken by accounts imported ahead of the counter are skipped.
func (uc *ClientAccountUseCase) nextAccountCode(ctx context.Context) (string, error) {
	for {
		seq, err := uc.seqRepo.Next(ctx, ClientAccountSequence)
		if err != nil {
			return "", fmt.Errorf("allocating client account number: %w", err)
		}

		code := fmt.Sprintf("%s%04d", domain.ClientAccountPrefix, seq)
		_, err = uc.accountRepo.GetByCode(ctx, code)
		if errors.Is(err, domain.ErrAccountNotFound) {
			return code, nil
		}
		if err != nil {
			return "", err
		}
	}
}

// RenameClientAccount refreshes the sub-account label after a client rename.
func (uc *ClientAccountUseCase) RenameClientAccount(ctx context.Context, clientID, clientName string) (*domain.Account, error) {
	account, err := uc.accountRepo.GetByClientID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	label := fmt.Sprintf("Client - %s", clientName)
	now := time.Now().UTC()
	if err := uc.accountRepo.UpdateLabel(ctx, account.Code, label, now); err != nil {
		return nil, err
	}

	account.Label = label
	account.UpdatedAt = now
	return account, nil
}

// DeactivateClientAccount disables the sub-account. Client accounts are
// never deleted so historical postings stay resolvable.
func (uc *ClientAccountUseCase) DeactivateClientAccount(ctx context.Context, clientID string) error {
	account, err := uc.accountRepo.GetByClientID(ctx, clientID)
	if err != nil {
		return err
	}
	return uc.accountRepo.SetActive(ctx, account.Code, false, time.Now().UTC())
}

// GetClientBalance sums debit minus credit across every entry touching the
// client's sub-account. Positive means the client owes money.
func (uc *ClientAccountUseCase) GetClientBalance(ctx context.Context, clientID string) (decimal.Decimal, error) {
	account, err := uc.accountRepo.GetByClientID(ctx, clientID)
	if err != nil {
		return decimal.Zero, err
	}

	entries, err := uc.entryRepo.ListByAccount(ctx, account.Code)
	if err != nil {
		return decimal.Zero, err
	}

	balance := decimal.Zero
	for _, entry := range entries {
		for _, line := range entry.Entries {
			if line.AccountCode == account.Code {
				balance = balance.Add(line.Debit).Sub(line.Credit)
			}
		}
	}

	return balance, nil
}

// ListClientAccounts returns every client sub-account.
func (uc *ClientAccountUseCase) ListClientAccounts(ctx context.Context) ([]*domain.Account, error) {
	return uc.accountRepo.ListByPrefix(ctx, domain.ClientAccountPrefix)
}
