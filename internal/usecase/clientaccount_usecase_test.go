package usecase_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/etudesn/notacompta/internal/domain"
	"github.com/etudesn/notacompta/internal/usecase"
	"github.com/etudesn/notacompta/internal/usecase/mocks"
)

func newTestClientAccounts(t *testing.T) (*usecase.ClientAccountUseCase, *mocks.MockAccountRepository, *mocks.MockEntryRepository) {
	t.Helper()
	accountRepo := mocks.NewMockAccountRepository()
	entryRepo := mocks.NewMockEntryRepository()
	uc := usecase.NewClientAccountUseCase(accountRepo, entryRepo, mocks.NewMockSequenceRepository())
	return uc, accountRepo, entryRepo
}

func TestClientAccountUseCase_CreateClientAccount(t *testing.T) {
	t.Run("first account gets 411.0001", func(t *testing.T) {
		uc, _, _ := newTestClientAccounts(t)

		account, err := uc.CreateClientAccount(context.Background(), "client-1", "SCI Horizon")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if account.Code != "411.0001" {
			t.Errorf("expected 411.0001, got %s", account.Code)
		}
		if account.Label != "Client - SCI Horizon" {
			t.Errorf("unexpected label %q", account.Label)
		}
		if account.Parent != "411" || !account.IsActive {
			t.Errorf("unexpected account shape: %+v", account)
		}
	})

	t.Run("idempotent per client", func(t *testing.T) {
		uc, _, _ := newTestClientAccounts(t)
		ctx := context.Background()

		first, err := uc.CreateClientAccount(ctx, "client-1", "SCI Horizon")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		again, err := uc.CreateClientAccount(ctx, "client-1", "SCI Horizon")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if first.Code != again.Code {
			t.Errorf("expected the same account, got %s and %s", first.Code, again.Code)
		}

		accounts, err := uc.ListClientAccounts(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(accounts) != 1 {
			t.Errorf("expected exactly one sub-account, got %d", len(accounts))
		}
	})

	t.Run("codes taken by imported accounts are skipped", func(t *testing.T) {
		uc, accountRepo, _ := newTestClientAccounts(t)
		ctx := context.Background()

		for i := 1; i <= 5; i++ {
			seedAccount(t, accountRepo, fmt.Sprintf("411.%04d", i), func(a *domain.Account) {
				a.ClientID = fmt.Sprintf("imported-%d", i)
			})
		}

		account, err := uc.CreateClientAccount(ctx, "client-6", "Maître Diallo")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if account.Code != "411.0006" {
			t.Errorf("expected 411.0006, got %s", account.Code)
		}
	})

	t.Run("distinct clients get distinct codes", func(t *testing.T) {
		uc, _, _ := newTestClientAccounts(t)
		ctx := context.Background()

		seen := make(map[string]bool)
		for i := 1; i <= 10; i++ {
			account, err := uc.CreateClientAccount(ctx, fmt.Sprintf("client-%d", i), "Client")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if seen[account.Code] {
				t.Fatalf("duplicate code %s", account.Code)
			}
			seen[account.Code] = true
		}
	})

	t.Run("missing clientID rejected", func(t *testing.T) {
		uc, _, _ := newTestClientAccounts(t)
		if _, err := uc.CreateClientAccount(context.Background(), "", "X"); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestClientAccountUseCase_Lifecycle(t *testing.T) {
	uc, accountRepo, _ := newTestClientAccounts(t)
	ctx := context.Background()

	account, err := uc.CreateClientAccount(ctx, "client-1", "SCI Horizon")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	renamed, err := uc.RenameClientAccount(ctx, "client-1", "SCI Horizon Plus")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if renamed.Label != "Client - SCI Horizon Plus" {
		t.Errorf("unexpected label %q", renamed.Label)
	}

	if err := uc.DeactivateClientAccount(ctx, "client-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stored, err := accountRepo.GetByCode(ctx, account.Code)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.IsActive {
		t.Error("expected account to be deactivated, not deleted")
	}
}

func TestClientAccountUseCase_GetClientBalance(t *testing.T) {
	uc, _, entryRepo := newTestClientAccounts(t)
	ctx := context.Background()

	account, err := uc.CreateClientAccount(ctx, "client-1", "SCI Horizon")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	post := func(debit, credit int64) {
		entry := &domain.JournalEntry{
			ID:   fmt.Sprintf("e-%d-%d", debit, credit),
			Date: time.Now(),
			Entries: []domain.AccountEntry{
				{AccountCode: account.Code, Debit: decimal.NewFromInt(debit), Credit: decimal.NewFromInt(credit)},
				{AccountCode: "7061", Debit: decimal.NewFromInt(credit), Credit: decimal.NewFromInt(debit)},
			},
		}
		if err := entryRepo.Create(ctx, nil, entry); err != nil {
			t.Fatalf("posting entry: %v", err)
		}
	}

	post(1_180_000, 0)
	post(0, 500_000)

	balance, err := uc.GetClientBalance(ctx, "client-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !balance.Equal(decimal.NewFromInt(680_000)) {
		t.Errorf("expected balance 680000, got %s", balance)
	}
}
