package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/etudesn/notacompta/internal/domain"
	"github.com/etudesn/notacompta/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository. Journal entries are
// stored across two tables: journal_entries for the header and metadata,
// account_entries for the debit and credit lines.
type EntryRepository struct {
	pool *pgxpool.Pool
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{pool: pool}
}

const entryColumns = `id, journal_id, entry_date, reference, label, transaction_id,
	dossier_id, validated, validated_at, created_at, created_by, metadata`

// Create inserts a journal entry and its lines.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.JournalEntry) error {
	q := txQuerier(tx, r.pool)

	metadata, err := marshalMetadata(entry.Metadata)
	if err != nil {
		return err
	}

	_, err = q.Exec(ctx, `
		INSERT INTO journal_entries (`+entryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		entry.ID,
		entry.JournalID,
		entry.Date,
		entry.Reference,
		entry.Label,
		entry.TransactionID,
		entry.DossierID,
		entry.Validated,
		entry.ValidatedAt,
		entry.CreatedAt,
		entry.CreatedBy,
		metadata,
	)
	if err != nil {
		return fmt.Errorf("inserting journal entry: %w", err)
	}

	for i, line := range entry.Entries {
		_, err = q.Exec(ctx, `
			INSERT INTO account_entries
				(id, journal_entry_id, account_code, account_label, debit, credit, label, line_order)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			line.ID,
			entry.ID,
			line.AccountCode,
			line.AccountLabel,
			decimalToNumeric(line.Debit),
			decimalToNumeric(line.Credit),
			line.Label,
			i,
		)
		if err != nil {
			return fmt.Errorf("inserting account entry: %w", err)
		}
	}

	return nil
}

// GetByID retrieves a journal entry with its lines.
func (r *EntryRepository) GetByID(ctx context.Context, id string) (*domain.JournalEntry, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+entryColumns+`
		FROM journal_entries
		WHERE id = $1`, id)

	entry, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}

		return nil, err
	}

	if err := r.loadLines(ctx, []*domain.JournalEntry{entry}); err != nil {
		return nil, err
	}

	return entry, nil
}

// List retrieves all journal entries ordered by date then creation.
func (r *EntryRepository) List(ctx context.Context) ([]*domain.JournalEntry, error) {
	return r.list(ctx, `
		SELECT `+entryColumns+`
		FROM journal_entries
		ORDER BY entry_date, created_at`)
}

// ListByAccount retrieves entries with at least one line on the account.
func (r *EntryRepository) ListByAccount(ctx context.Context, accountCode string) ([]*domain.JournalEntry, error) {
	return r.list(ctx, `
		SELECT `+entryColumns+`
		FROM journal_entries
		WHERE id IN (SELECT journal_entry_id FROM account_entries WHERE account_code = $1)
		ORDER BY entry_date, created_at`, accountCode)
}

// ListByAccountPeriod retrieves entries on the account dated within [start, end].
func (r *EntryRepository) ListByAccountPeriod(ctx context.Context, accountCode string, start, end time.Time) ([]*domain.JournalEntry, error) {
	return r.list(ctx, `
		SELECT `+entryColumns+`
		FROM journal_entries
		WHERE id IN (SELECT journal_entry_id FROM account_entries WHERE account_code = $1)
		  AND entry_date >= $2 AND entry_date <= $3
		ORDER BY entry_date, created_at`, accountCode, start, end)
}

// MarkValidated flags an entry as validated.
func (r *EntryRepository) MarkValidated(ctx context.Context, id string, at time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE journal_entries
		SET validated = TRUE, validated_at = $2
		WHERE id = $1`, id, at)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrEntryNotFound
	}

	return nil
}

// UpdateMetadata replaces the metadata document of an entry.
func (r *EntryRepository) UpdateMetadata(ctx context.Context, tx usecase.Transaction, id string, metadata map[string]any) error {
	q := txQuerier(tx, r.pool)

	doc, err := marshalMetadata(metadata)
	if err != nil {
		return err
	}

	tag, err := q.Exec(ctx, `
		UPDATE journal_entries
		SET metadata = $2
		WHERE id = $1`, id, doc)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrEntryNotFound
	}

	return nil
}

func (r *EntryRepository) list(ctx context.Context, sql string, args ...any) ([]*domain.JournalEntry, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.JournalEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadLines(ctx, entries); err != nil {
		return nil, err
	}

	return entries, nil
}

// loadLines fetches the account lines of all given entries in one query.
func (r *EntryRepository) loadLines(ctx context.Context, entries []*domain.JournalEntry) error {
	if len(entries) == 0 {
		return nil
	}

	byID := make(map[string]*domain.JournalEntry, len(entries))
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		byID[entry.ID] = entry
		ids = append(ids, entry.ID)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, journal_entry_id, account_code, account_label, debit, credit, label
		FROM account_entries
		WHERE journal_entry_id = ANY($1)
		ORDER BY journal_entry_id, line_order`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			line          domain.AccountEntry
			debit, credit pgtype.Numeric
		)

		err := rows.Scan(
			&line.ID,
			&line.JournalEntryID,
			&line.AccountCode,
			&line.AccountLabel,
			&debit,
			&credit,
			&line.Label,
		)
		if err != nil {
			return err
		}

		line.Debit = numericToDecimal(debit)
		line.Credit = numericToDecimal(credit)

		entry := byID[line.JournalEntryID]
		entry.Entries = append(entry.Entries, line)
	}

	return rows.Err()
}

func scanEntry(row pgx.Row) (*domain.JournalEntry, error) {
	var (
		entry    domain.JournalEntry
		metadata []byte
	)

	err := row.Scan(
		&entry.ID,
		&entry.JournalID,
		&entry.Date,
		&entry.Reference,
		&entry.Label,
		&entry.TransactionID,
		&entry.DossierID,
		&entry.Validated,
		&entry.ValidatedAt,
		&entry.CreatedAt,
		&entry.CreatedBy,
		&metadata,
	)
	if err != nil {
		return nil, err
	}

	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &entry.Metadata); err != nil {
			return nil, fmt.Errorf("decoding entry metadata: %w", err)
		}
	}

	return &entry, nil
}

func marshalMetadata(metadata map[string]any) ([]byte, error) {
	if metadata == nil {
		return nil, nil
	}

	doc, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("encoding entry metadata: %w", err)
	}

	return doc, nil
}
