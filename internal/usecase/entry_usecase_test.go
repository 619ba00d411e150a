package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/etudesn/notacompta/internal/domain"
	"github.com/etudesn/notacompta/internal/usecase"
	"github.com/etudesn/notacompta/internal/usecase/mocks"
)

func seedAccount(t *testing.T, repo *mocks.MockAccountRepository, code string, opts func(*domain.Account)) {
	t.Helper()
	acc := &domain.Account{
		Code:      code,
		Label:     "Compte " + code,
		ClassCode: code[:1],
		IsActive:  true,
	}
	if opts != nil {
		opts(acc)
	}
	if err := repo.Create(context.Background(), acc); err != nil {
		t.Fatalf("seeding account %s: %v", code, err)
	}
}

func newTestLedger(t *testing.T) (*usecase.EntryUseCase, *mocks.MockAccountRepository, *mocks.MockEntryRepository) {
	t.Helper()
	accountRepo := mocks.NewMockAccountRepository()
	for _, code := range []string{"401", "443", "445", "521", "57", "7061", "7078", "7088", "6055", "631", "6088", "622", "411.0001"} {
		seedAccount(t, accountRepo, code, nil)
	}
	seedAccount(t, accountRepo, "411", func(a *domain.Account) { a.IsSummary = true })
	seedAccount(t, accountRepo, "6325", func(a *domain.Account) { a.IsActive = false })

	entryRepo := mocks.NewMockEntryRepository()
	chart := usecase.NewChartUseCase(accountRepo)
	uc := usecase.NewEntryUseCase(
		mocks.NewMockTransactionManager(),
		entryRepo,
		mocks.NewMockSequenceRepository(),
		chart,
		mocks.NewMockIDGenerator(),
		mocks.NewMockRetrier(),
	)
	return uc, accountRepo, entryRepo
}

func balancedInput(amount int64) usecase.CreateEntryInput {
	ttc := decimal.NewFromInt(amount)
	ht := ttc.Div(decimal.RequireFromString("1.18")).Round(2)
	tva := ttc.Sub(ht)
	return usecase.CreateEntryInput{
		JournalCode: domain.JournalVentes,
		Date:        time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		Label:       "Provision sur acte",
		Lines: []usecase.EntryLineInput{
			{AccountCode: "411.0001", Debit: ttc},
			{AccountCode: "7061", Credit: ht},
			{AccountCode: "443", Credit: tva},
		},
	}
}

func TestEntryUseCase_CreateEntry(t *testing.T) {
	tests := []struct {
		name    string
		input   usecase.CreateEntryInput
		wantErr error
	}{
		{
			name:  "balanced entry accepted",
			input: balancedInput(1_180_000),
		},
		{
			name: "unbalanced entry rejected",
			input: usecase.CreateEntryInput{
				JournalCode: domain.JournalVentes,
				Lines: []usecase.EntryLineInput{
					{AccountCode: "411.0001", Debit: decimal.NewFromInt(1_000_000)},
					{AccountCode: "7061", Credit: decimal.NewFromInt(900_000)},
				},
			},
			wantErr: domain.ErrEntryUnbalanced,
		},
		{
			name: "unknown account rejected",
			input: usecase.CreateEntryInput{
				JournalCode: domain.JournalVentes,
				Lines: []usecase.EntryLineInput{
					{AccountCode: "411.9999", Debit: decimal.NewFromInt(100)},
					{AccountCode: "7061", Credit: decimal.NewFromInt(100)},
				},
			},
			wantErr: domain.ErrAccountNotFound,
		},
		{
			name: "summary account rejected",
			input: usecase.CreateEntryInput{
				JournalCode: domain.JournalVentes,
				Lines: []usecase.EntryLineInput{
					{AccountCode: "411", Debit: decimal.NewFromInt(100)},
					{AccountCode: "7061", Credit: decimal.NewFromInt(100)},
				},
			},
			wantErr: domain.ErrAccountNotFound,
		},
		{
			name: "inactive account rejected",
			input: usecase.CreateEntryInput{
				JournalCode: domain.JournalVentes,
				Lines: []usecase.EntryLineInput{
					{AccountCode: "6325", Debit: decimal.NewFromInt(100)},
					{AccountCode: "521", Credit: decimal.NewFromInt(100)},
				},
			},
			wantErr: domain.ErrAccountNotFound,
		},
		{
			name: "unknown journal rejected",
			input: usecase.CreateEntryInput{
				JournalCode: "XX",
				Lines: []usecase.EntryLineInput{
					{AccountCode: "411.0001", Debit: decimal.NewFromInt(100)},
					{AccountCode: "7061", Credit: decimal.NewFromInt(100)},
				},
			},
			wantErr: domain.ErrJournalNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, _, entryRepo := newTestLedger(t)

			entry, err := uc.CreateEntry(context.Background(), tt.input)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				stored, _ := entryRepo.List(context.Background())
				if len(stored) != 0 {
					t.Errorf("rejected entry must not be persisted, found %d", len(stored))
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !entry.TotalDebit().Equal(entry.TotalCredit()) {
				t.Errorf("persisted entry unbalanced: %s vs %s", entry.TotalDebit(), entry.TotalCredit())
			}
			if entry.Entries[0].AccountLabel == "" {
				t.Error("expected account label snapshot on lines")
			}
		})
	}
}

func TestEntryUseCase_ReferenceSequence(t *testing.T) {
	uc, _, _ := newTestLedger(t)
	ctx := context.Background()

	first, err := uc.CreateEntry(ctx, balancedInput(118_000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := uc.CreateEntry(ctx, balancedInput(236_000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.Reference != "VT-2026-03-0001" {
		t.Errorf("expected VT-2026-03-0001, got %s", first.Reference)
	}
	if second.Reference != "VT-2026-03-0002" {
		t.Errorf("expected VT-2026-03-0002, got %s", second.Reference)
	}
}

func TestEntryUseCase_ValidateEntry(t *testing.T) {
	uc, _, _ := newTestLedger(t)
	ctx := context.Background()

	entry, err := uc.CreateEntry(ctx, balancedInput(118_000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Validated {
		t.Fatal("new entry must start as draft")
	}

	validated, err := uc.ValidateEntry(ctx, entry.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !validated.Validated || validated.ValidatedAt == nil {
		t.Error("expected entry to be validated with a timestamp")
	}

	if _, err := uc.ValidateEntry(ctx, entry.ID); !errors.Is(err, domain.ErrEntryAlreadyValidated) {
		t.Fatalf("expected ErrEntryAlreadyValidated, got %v", err)
	}
}

func TestEntryUseCase_ReverseEntry(t *testing.T) {
	uc, _, entryRepo := newTestLedger(t)
	ctx := context.Background()

	original, err := uc.CreateEntry(ctx, balancedInput(1_180_000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reversal, err := uc.ReverseEntry(ctx, original.ID, "clerc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(reversal.Entries) != len(original.Entries) {
		t.Fatalf("expected %d lines, got %d", len(original.Entries), len(reversal.Entries))
	}
	for i, line := range reversal.Entries {
		if !line.Debit.Equal(original.Entries[i].Credit) || !line.Credit.Equal(original.Entries[i].Debit) {
			t.Errorf("line %d: sides not swapped", i)
		}
	}
	if !strings.HasPrefix(reversal.Label, "Extourne de ") {
		t.Errorf("unexpected reversal label %q", reversal.Label)
	}
	if reversal.Metadata[domain.MetaReversalOf] != original.ID {
		t.Error("reversal must reference the original entry")
	}

	stored, err := entryRepo.GetByID(ctx, original.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.Metadata[domain.MetaReversedBy] != reversal.ID {
		t.Error("original entry must reference its reversal")
	}
}

func TestEntryUseCase_CreateEntryRetriesTransientCommitFailure(t *testing.T) {
	accountRepo := mocks.NewMockAccountRepository()
	for _, code := range []string{"411.0001", "7061", "443"} {
		seedAccount(t, accountRepo, code, nil)
	}

	// The first commit fails the way a serialization conflict would, the
	// second attempt goes through.
	commits := 0
	txManager := mocks.NewMockTransactionManager()
	txManager.BeginFunc = func(ctx context.Context) (usecase.Transaction, error) {
		return &mocks.MockTransaction{
			CommitFunc: func(ctx context.Context) error {
				commits++
				if commits == 1 {
					return errors.New("deadlock detected")
				}
				return nil
			},
		}, nil
	}

	retrier := mocks.NewMockRetrier()
	retrier.RetryFunc = func(ctx context.Context, op func() error) error {
		if err := op(); err != nil {
			return op()
		}
		return nil
	}

	uc := usecase.NewEntryUseCase(
		txManager,
		mocks.NewMockEntryRepository(),
		mocks.NewMockSequenceRepository(),
		usecase.NewChartUseCase(accountRepo),
		mocks.NewMockIDGenerator(),
		retrier,
	)

	entry, err := uc.CreateEntry(context.Background(), balancedInput(118_000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry == nil {
		t.Fatal("expected an entry after the retried commit")
	}
	if commits != 2 {
		t.Errorf("expected 2 commit attempts, got %d", commits)
	}
	if retrier.Calls() != 1 {
		t.Errorf("expected the write to go through the retrier once, got %d", retrier.Calls())
	}
}
