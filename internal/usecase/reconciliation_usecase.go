package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/etudesn/notacompta/internal/domain"
)

// matchDateWindow is how far apart a statement line and a journal entry may
// be dated and still match on amount.
const matchDateWindow = 72 * time.Hour

// ReconciliationUseCase matches bank-statement lines against journal
// entries and controls the session lifecycle.
type ReconciliationUseCase struct {
	txManager   TransactionManager
	sessionRepo ReconciliationRepository
	entryRepo   EntryRepository
	idGen       IDGenerator
	retrier     Retrier
}

// NewReconciliationUseCase creates a new ReconciliationUseCase. retrier may
// be nil, in which case transactional writes run without retry.
func NewReconciliationUseCase(
	txManager TransactionManager,
	sessionRepo ReconciliationRepository,
	entryRepo EntryRepository,
	idGen IDGenerator,
	retrier Retrier,
) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		txManager:   txManager,
		sessionRepo: sessionRepo,
		entryRepo:   entryRepo,
		idGen:       idGen,
		retrier:     retrier,
	}
}

// StatementLineInput is one imported bank-statement line.
type StatementLineInput struct {
	Date      time.Time
	Label     string
	Reference string
	Debit     decimal.Decimal
	Credit    decimal.Decimal
}

// CreateSessionInput opens a reconciliation over one treasury account.
type CreateSessionInput struct {
	AccountCode string
	StartDate   time.Time
	EndDate     time.Time
	Lines       []StatementLineInput
	CreatedBy   string
}

// CreateSession snapshots the statement, computes the statement and ledger
// balances over the period and records their difference.
func (uc *ReconciliationUseCase) CreateSession(ctx context.Context, input CreateSessionInput) (*domain.ReconciliationSession, error) {
	statementBalance := decimal.Zero
	lines := make([]domain.StatementLine, 0, len(input.Lines))
	for _, l := range input.Lines {
		line := domain.StatementLine{
			ID:        uc.idGen.Generate(),
			Date:      l.Date,
			Label:     l.Label,
			Reference: l.Reference,
			Debit:     l.Debit,
			Credit:    l.Credit,
		}
		lines = append(lines, line)
		statementBalance = statementBalance.Add(line.Amount())
	}

	ledgerBalance, err := uc.accountBalance(ctx, input.AccountCode, input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}

	session := &domain.ReconciliationSession{
		ID:               uc.idGen.Generate(),
		AccountCode:      input.AccountCode,
		StartDate:        input.StartDate,
		EndDate:          input.EndDate,
		Lines:            lines,
		StatementBalance: statementBalance,
		LedgerBalance:    ledgerBalance,
		Difference:       statementBalance.Sub(ledgerBalance),
		Status:           domain.SessionEnCours,
		CreatedAt:        time.Now().UTC(),
		CreatedBy:        input.CreatedBy,
	}

	if err := uc.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

func (uc *ReconciliationUseCase) accountBalance(ctx context.Context, accountCode string, start, end time.Time) (decimal.Decimal, error) {
	entries, err := uc.entryRepo.ListByAccountPeriod(ctx, accountCode, start, end)
	if err != nil {
		return decimal.Zero, err
	}

	balance := decimal.Zero
	for _, entry := range entries {
		balance = balance.Add(accountLegAmount(entry, accountCode))
	}
	return balance, nil
}

// accountLegAmount is the signed movement of an entry on one account.
func accountLegAmount(entry *domain.JournalEntry, accountCode string) decimal.Decimal {
	amount := decimal.Zero
	for _, line := range entry.Entries {
		if line.AccountCode == accountCode {
			amount = amount.Add(line.Debit).Sub(line.Credit)
		}
	}
	return amount
}

// GetSession returns a reconciliation session by ID.
func (uc *ReconciliationUseCase) GetSession(ctx context.Context, id string) (*domain.ReconciliationSession, error) {
	return uc.sessionRepo.GetByID(ctx, id)
}

// ListSessions returns every reconciliation session.
func (uc *ReconciliationUseCase) ListSessions(ctx context.Context) ([]*domain.ReconciliationSession, error) {
	return uc.sessionRepo.List(ctx)
}

// FindAutomaticMatches pairs unmatched statement lines with journal
// entries: first by amount on the same debit/credit side within the date
// window, then by reference equality or containment. Both are recorded as
// EXACT matches.
func (uc *ReconciliationUseCase) FindAutomaticMatches(ctx context.Context, sessionID string) (*domain.ReconciliationSession, error) {
	session, err := uc.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != domain.SessionEnCours {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotOpen, session.Status)
	}

	entries, err := uc.entryRepo.ListByAccountPeriod(ctx, session.AccountCode,
		session.StartDate.Add(-matchDateWindow), session.EndDate.Add(matchDateWindow))
	if err != nil {
		return nil, err
	}

	matchedLines := session.MatchedLineIDs()
	matchedEntries := session.MatchedEntryIDs()
	now := time.Now().UTC()

	for _, line := range session.Lines {
		if matchedLines[line.ID] {
			continue
		}

		entry := findAmountMatch(entries, matchedEntries, session.AccountCode, line)
		if entry == nil {
			entry = findReferenceMatch(entries, matchedEntries, line)
		}
		if entry == nil {
			continue
		}

		session.Matches = append(session.Matches, domain.ReconciliationMatch{
			ID:              uc.idGen.Generate(),
			StatementLineID: line.ID,
			JournalEntryID:  entry.ID,
			MatchType:       domain.MatchTypeExact,
			MatchedAt:       now,
		})
		matchedLines[line.ID] = true
		matchedEntries[entry.ID] = true
	}

	if err := uc.sessionRepo.Update(ctx, nil, session); err != nil {
		return nil, err
	}

	return session, nil
}

func findAmountMatch(entries []*domain.JournalEntry, matched map[string]bool, accountCode string, line domain.StatementLine) *domain.JournalEntry {
	for _, entry := range entries {
		if matched[entry.ID] {
			continue
		}

		gap := entry.Date.Sub(line.Date)
		if gap < 0 {
			gap = -gap
		}
		if gap > matchDateWindow {
			continue
		}

		for _, leg := range entry.Entries {
			if leg.AccountCode != accountCode {
				continue
			}
			if line.Debit.IsPositive() && leg.Debit.Sub(line.Debit).Abs().LessThanOrEqual(domain.BalanceTolerance) {
				return entry
			}
			if line.Credit.IsPositive() && leg.Credit.Sub(line.Credit).Abs().LessThanOrEqual(domain.BalanceTolerance) {
				return entry
			}
		}
	}
	return nil
}

func findReferenceMatch(entries []*domain.JournalEntry, matched map[string]bool, line domain.StatementLine) *domain.JournalEntry {
	ref := strings.ToLower(strings.TrimSpace(line.Reference))
	if ref == "" {
		return nil
	}

	for _, entry := range entries {
		if matched[entry.ID] {
			continue
		}

		entryRef := strings.ToLower(entry.Reference)
		if entryRef == "" {
			continue
		}
		if entryRef == ref || strings.Contains(entryRef, ref) || strings.Contains(ref, entryRef) {
			return entry
		}
	}
	return nil
}

// AddManualMatch records a user-confirmed match. A statement line may
// appear in at most one match.
func (uc *ReconciliationUseCase) AddManualMatch(ctx context.Context, sessionID, lineID, entryID string) (*domain.ReconciliationSession, error) {
	session, err := uc.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != domain.SessionEnCours {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotOpen, session.Status)
	}

	found := false
	for _, line := range session.Lines {
		if line.ID == lineID {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", domain.ErrStatementLineNotFound, lineID)
	}
	if session.MatchedLineIDs()[lineID] {
		return nil, fmt.Errorf("%w: %s", domain.ErrStatementLineMatched, lineID)
	}

	if _, err := uc.entryRepo.GetByID(ctx, entryID); err != nil {
		return nil, err
	}

	session.Matches = append(session.Matches, domain.ReconciliationMatch{
		ID:              uc.idGen.Generate(),
		StatementLineID: lineID,
		JournalEntryID:  entryID,
		MatchType:       domain.MatchTypeManual,
		MatchedAt:       time.Now().UTC(),
	})

	if err := uc.sessionRepo.Update(ctx, nil, session); err != nil {
		return nil, err
	}

	return session, nil
}

// UnmatchedResult lists what remains on both sides of a session.
type UnmatchedResult struct {
	StatementLines []domain.StatementLine `json:"statementLines"`
	JournalEntries []*domain.JournalEntry `json:"journalEntries"`
	StatementTotal decimal.Decimal        `json:"statementTotal"`
	LedgerTotal    decimal.Decimal        `json:"ledgerTotal"`
	Gap            decimal.Decimal        `json:"gap"`
}

// GetUnmatchedLines recomputes the unmatched statement lines and journal
// entries by subtracting the matched ID sets.
func (uc *ReconciliationUseCase) GetUnmatchedLines(ctx context.Context, sessionID string) (*UnmatchedResult, error) {
	session, err := uc.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return uc.unmatched(ctx, session)
}

func (uc *ReconciliationUseCase) unmatched(ctx context.Context, session *domain.ReconciliationSession) (*UnmatchedResult, error) {
	entries, err := uc.entryRepo.ListByAccountPeriod(ctx, session.AccountCode, session.StartDate, session.EndDate)
	if err != nil {
		return nil, err
	}

	matchedLines := session.MatchedLineIDs()
	matchedEntries := session.MatchedEntryIDs()

	result := &UnmatchedResult{
		StatementTotal: decimal.Zero,
		LedgerTotal:    decimal.Zero,
	}
	for _, line := range session.Lines {
		if matchedLines[line.ID] {
			continue
		}
		result.StatementLines = append(result.StatementLines, line)
		result.StatementTotal = result.StatementTotal.Add(line.Amount())
	}
	for _, entry := range entries {
		if matchedEntries[entry.ID] {
			continue
		}
		result.JournalEntries = append(result.JournalEntries, entry)
		result.LedgerTotal = result.LedgerTotal.Add(accountLegAmount(entry, session.AccountCode))
	}

	result.Gap = result.StatementTotal.Sub(result.LedgerTotal)
	return result, nil
}

// CompleteReconciliation closes a session. It fails while the unmatched gap
// exceeds the tolerance; on success every matched entry is flagged as
// reconciled and the session is frozen.
func (uc *ReconciliationUseCase) CompleteReconciliation(ctx context.Context, sessionID, userID string) (*domain.ReconciliationSession, error) {
	session, err := uc.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != domain.SessionEnCours {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotOpen, session.Status)
	}

	unmatched, err := uc.unmatched(ctx, session)
	if err != nil {
		return nil, err
	}
	if unmatched.Gap.Abs().GreaterThan(domain.BalanceTolerance) {
		return nil, fmt.Errorf("%w: écart %s", domain.ErrSessionGapNotZero, unmatched.Gap.String())
	}

	err = retryTx(ctx, uc.retrier, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		now := time.Now().UTC()
		for _, match := range session.Matches {
			if err := uc.setReconciled(ctx, tx, match.JournalEntryID, true, now, userID); err != nil {
				return err
			}
		}

		session.Status = domain.SessionCompleted
		session.CompletedAt = &now
		if err := uc.sessionRepo.Update(ctx, tx, session); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	return session, nil
}

// CancelReconciliation reopens the matched entries by clearing their
// reconciled flag and marks the session cancelled.
func (uc *ReconciliationUseCase) CancelReconciliation(ctx context.Context, sessionID string) (*domain.ReconciliationSession, error) {
	session, err := uc.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status == domain.SessionCancelled {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotOpen, session.Status)
	}

	err = retryTx(ctx, uc.retrier, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		now := time.Now().UTC()
		for _, match := range session.Matches {
			if err := uc.setReconciled(ctx, tx, match.JournalEntryID, false, now, ""); err != nil {
				return err
			}
		}

		session.Status = domain.SessionCancelled
		session.CompletedAt = nil
		if err := uc.sessionRepo.Update(ctx, tx, session); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	return session, nil
}

func (uc *ReconciliationUseCase) setReconciled(ctx context.Context, tx Transaction, entryID string, reconciled bool, at time.Time, userID string) error {
	entry, err := uc.entryRepo.GetByID(ctx, entryID)
	if err != nil {
		return err
	}

	metadata := entry.Metadata
	if metadata == nil {
		metadata = make(map[string]any)
	}

	if reconciled {
		metadata[domain.MetaReconciled] = true
		metadata[domain.MetaReconciledAt] = at.Format(time.RFC3339)
		metadata[domain.MetaReconciledBy] = userID
	} else {
		metadata[domain.MetaReconciled] = false
		delete(metadata, domain.MetaReconciledAt)
		delete(metadata, domain.MetaReconciledBy)
	}

	return uc.entryRepo.UpdateMetadata(ctx, tx, entryID, metadata)
}
