package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/etudesn/notacompta/internal/domain"
)

// EntryUseCase is the journal engine: the single write path for journal
// entries. Every posting generator routes through CreateEntry so the
// balance invariant is enforced uniformly.
type EntryUseCase struct {
	txManager TransactionManager
	entryRepo EntryRepository
	seqRepo   SequenceRepository
	chart     *ChartUseCase
	idGen     IDGenerator
	retrier   Retrier
}

// NewEntryUseCase creates a new EntryUseCase. retrier may be nil, in which
// case transactional writes run without retry.
func NewEntryUseCase(
	txManager TransactionManager,
	entryRepo EntryRepository,
	seqRepo SequenceRepository,
	chart *ChartUseCase,
	idGen IDGenerator,
	retrier Retrier,
) *EntryUseCase {
	return &EntryUseCase{
		txManager: txManager,
		entryRepo: entryRepo,
		seqRepo:   seqRepo,
		chart:     chart,
		idGen:     idGen,
		retrier:   retrier,
	}
}

// EntryLineInput is one debit/credit line of a new entry.
type EntryLineInput struct {
	AccountCode string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Label       string
}

// CreateEntryInput carries everything needed to post a journal entry.
type CreateEntryInput struct {
	JournalCode   string
	Date          time.Time
	Label         string
	Lines         []EntryLineInput
	Reference     string
	TransactionID string
	DossierID     string
	CreatedBy     string
	Metadata      map[string]any
	Validated     bool
}

// CreateEntry validates and persists a balanced journal entry. The entry is
// rejected as a whole if it is unbalanced, empty, or if any line posts to an
// unknown, inactive or summary account.
func (uc *EntryUseCase) CreateEntry(ctx context.Context, input CreateEntryInput) (*domain.JournalEntry, error) {
	var entry *domain.JournalEntry

	err := retryTx(ctx, uc.retrier, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		created, err := uc.createInTx(ctx, tx, input)
		if err != nil {
			return err
		}
		if err := tx.Commit(ctx); err != nil {
			return err
		}

		entry = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	return entry, nil
}

func (uc *EntryUseCase) createInTx(ctx context.Context, tx Transaction, input CreateEntryInput) (*domain.JournalEntry, error) {
	journal, err := domain.JournalByCode(input.JournalCode)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	date := input.Date
	if date.IsZero() {
		date = now
	}

	entry := &domain.JournalEntry{
		ID:            uc.idGen.Generate(),
		JournalID:     journal.Code,
		Date:          date,
		Label:         input.Label,
		Reference:     input.Reference,
		TransactionID: input.TransactionID,
		DossierID:     input.DossierID,
		Validated:     input.Validated,
		CreatedAt:     now,
		CreatedBy:     input.CreatedBy,
		Metadata:      input.Metadata,
	}

	for _, line := range input.Lines {
		result, err := uc.chart.ValidateAccount(ctx, line.AccountCode)
		if err != nil {
			return nil, err
		}
		if !result.Valid {
			return nil, fmt.Errorf("%w: %s", domain.ErrAccountNotFound, result.Error)
		}

		account, err := uc.chart.GetAccount(ctx, line.AccountCode)
		if err != nil {
			return nil, err
		}

		entry.Entries = append(entry.Entries, domain.AccountEntry{
			ID:             uc.idGen.Generate(),
			JournalEntryID: entry.ID,
			AccountCode:    line.AccountCode,
			AccountLabel:   account.Label,
			Debit:          line.Debit,
			Credit:         line.Credit,
			Label:          line.Label,
		})
	}

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	if entry.Reference == "" {
		ref, err := uc.nextReference(ctx, journal.Code, date)
		if err != nil {
			return nil, err
		}
		entry.Reference = ref
	}

	if err := uc.entryRepo.Create(ctx, tx, entry); err != nil {
		return nil, err
	}

	return entry, nil
}

// nextReference builds {journal}-{year}-{month}-{seq} from an atomic
// per (journal, year, month) sequence.
func (uc *EntryUseCase) nextReference(ctx context.Context, journalCode string, date time.Time) (string, error) {
	series := fmt.Sprintf("ref:%s:%d-%02d", journalCode, date.Year(), int(date.Month()))
	seq, err := uc.seqRepo.Next(ctx, series)
	if err != nil {
		return "", fmt.Errorf("allocating entry reference: %w", err)
	}
	return fmt.Sprintf("%s-%d-%02d-%04d", journalCode, date.Year(), int(date.Month()), seq), nil
}

// ValidateEntry transitions an entry from draft to validated. The
// transition is one-way: a validated entry can never return to draft.
func (uc *EntryUseCase) ValidateEntry(ctx context.Context, id string) (*domain.JournalEntry, error) {
	entry, err := uc.entryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry.Validated {
		return nil, fmt.Errorf("%w: %s", domain.ErrEntryAlreadyValidated, entry.Reference)
	}

	now := time.Now().UTC()
	if err := uc.entryRepo.MarkValidated(ctx, id, now); err != nil {
		return nil, err
	}

	entry.Validated = true
	entry.ValidatedAt = &now
	return entry, nil
}

// ReverseEntry posts a new entry with the debit and credit sides swapped,
// linked to the original through metadata. Corrections are modeled this way
// to preserve the audit trail; the original entry is never amended.
func (uc *EntryUseCase) ReverseEntry(ctx context.Context, id, userID string) (*domain.JournalEntry, error) {
	original, err := uc.entryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	lines := make([]EntryLineInput, 0, len(original.Entries))
	for _, line := range original.Entries {
		lines = append(lines, EntryLineInput{
			AccountCode: line.AccountCode,
			Debit:       line.Credit,
			Credit:      line.Debit,
			Label:       fmt.Sprintf("Extourne - %s", line.Label),
		})
	}

	var reversal *domain.JournalEntry

	err = retryTx(ctx, uc.retrier, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		created, err := uc.createInTx(ctx, tx, CreateEntryInput{
			JournalCode: original.JournalID,
			Date:        time.Now().UTC(),
			Label:       fmt.Sprintf("Extourne de %s", original.Reference),
			Lines:       lines,
			DossierID:   original.DossierID,
			CreatedBy:   userID,
			Metadata:    map[string]any{domain.MetaReversalOf: original.ID},
		})
		if err != nil {
			return err
		}

		metadata := original.Metadata
		if metadata == nil {
			metadata = make(map[string]any)
		}
		metadata[domain.MetaReversedBy] = created.ID
		if err := uc.entryRepo.UpdateMetadata(ctx, tx, original.ID, metadata); err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		reversal = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	return reversal, nil
}

// GetEntry returns one journal entry by ID.
func (uc *EntryUseCase) GetEntry(ctx context.Context, id string) (*domain.JournalEntry, error) {
	return uc.entryRepo.GetByID(ctx, id)
}

// ListEntries returns every journal entry.
func (uc *EntryUseCase) ListEntries(ctx context.Context) ([]*domain.JournalEntry, error) {
	return uc.entryRepo.List(ctx)
}

// ListEntriesByAccount returns the entries touching an account.
func (uc *EntryUseCase) ListEntriesByAccount(ctx context.Context, accountCode string) ([]*domain.JournalEntry, error) {
	return uc.entryRepo.ListByAccount(ctx, accountCode)
}
