package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/etudesn/notacompta/internal/domain"
	"github.com/etudesn/notacompta/internal/usecase"
)

// ReconciliationRepository implements usecase.ReconciliationRepository.
// Statement lines and matches are documents owned by the session, stored
// as JSONB rather than normalized rows.
type ReconciliationRepository struct {
	pool *pgxpool.Pool
}

// NewReconciliationRepository creates a new ReconciliationRepository.
func NewReconciliationRepository(pool *pgxpool.Pool) *ReconciliationRepository {
	return &ReconciliationRepository{pool: pool}
}

const sessionColumns = `id, account_code, start_date, end_date, lines, matches,
	statement_balance, ledger_balance, difference, status, created_at, created_by,
	completed_at`

// Create inserts a new reconciliation session.
func (r *ReconciliationRepository) Create(ctx context.Context, session *domain.ReconciliationSession) error {
	lines, matches, err := marshalSessionDocs(session)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO reconciliation_sessions (`+sessionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		session.ID,
		session.AccountCode,
		session.StartDate,
		session.EndDate,
		lines,
		matches,
		decimalToNumeric(session.StatementBalance),
		decimalToNumeric(session.LedgerBalance),
		decimalToNumeric(session.Difference),
		string(session.Status),
		session.CreatedAt,
		session.CreatedBy,
		session.CompletedAt,
	)

	return err
}

// GetByID retrieves a reconciliation session by ID.
func (r *ReconciliationRepository) GetByID(ctx context.Context, id string) (*domain.ReconciliationSession, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+sessionColumns+`
		FROM reconciliation_sessions
		WHERE id = $1`, id)

	session, err := scanSession(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}

		return nil, err
	}

	return session, nil
}

// Update persists the matches and lifecycle state of a session. A nil
// transaction runs the statement directly on the pool.
func (r *ReconciliationRepository) Update(ctx context.Context, tx usecase.Transaction, session *domain.ReconciliationSession) error {
	q := txQuerier(tx, r.pool)

	lines, matches, err := marshalSessionDocs(session)
	if err != nil {
		return err
	}

	tag, err := q.Exec(ctx, `
		UPDATE reconciliation_sessions
		SET lines = $2, matches = $3, statement_balance = $4, ledger_balance = $5,
			difference = $6, status = $7, completed_at = $8
		WHERE id = $1`,
		session.ID,
		lines,
		matches,
		decimalToNumeric(session.StatementBalance),
		decimalToNumeric(session.LedgerBalance),
		decimalToNumeric(session.Difference),
		string(session.Status),
		session.CompletedAt,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrSessionNotFound
	}

	return nil
}

// List retrieves all sessions, most recent first.
func (r *ReconciliationRepository) List(ctx context.Context) ([]*domain.ReconciliationSession, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+sessionColumns+`
		FROM reconciliation_sessions
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*domain.ReconciliationSession
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}

	return sessions, rows.Err()
}

func scanSession(row pgx.Row) (*domain.ReconciliationSession, error) {
	var (
		session        domain.ReconciliationSession
		status         string
		lines, matches []byte

		statementBalance, ledgerBalance, difference pgtype.Numeric
	)

	err := row.Scan(
		&session.ID,
		&session.AccountCode,
		&session.StartDate,
		&session.EndDate,
		&lines,
		&matches,
		&statementBalance,
		&ledgerBalance,
		&difference,
		&status,
		&session.CreatedAt,
		&session.CreatedBy,
		&session.CompletedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(lines, &session.Lines); err != nil {
		return nil, fmt.Errorf("decoding statement lines: %w", err)
	}
	if err := json.Unmarshal(matches, &session.Matches); err != nil {
		return nil, fmt.Errorf("decoding matches: %w", err)
	}

	session.StatementBalance = numericToDecimal(statementBalance)
	session.LedgerBalance = numericToDecimal(ledgerBalance)
	session.Difference = numericToDecimal(difference)
	session.Status = domain.SessionStatus(status)

	return &session, nil
}

func marshalSessionDocs(session *domain.ReconciliationSession) (lines, matches []byte, err error) {
	lines, err = json.Marshal(session.Lines)
	if err != nil {
		return nil, nil, fmt.Errorf("encoding statement lines: %w", err)
	}

	if session.Matches == nil {
		matches = []byte("[]")
	} else {
		matches, err = json.Marshal(session.Matches)
		if err != nil {
			return nil, nil, fmt.Errorf("encoding matches: %w", err)
		}
	}

	return lines, matches, nil
}
