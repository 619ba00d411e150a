package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/etudesn/notacompta/internal/domain"
)

const pgErrUniqueViolation = "23505"

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

const accountColumns = `code, label, class_code, type, nature, parent, description,
	client_id, is_active, is_summary, created_at, updated_at`

// Create inserts a new account.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO accounts (`+accountColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		account.Code,
		account.Label,
		account.ClassCode,
		string(account.Type),
		string(account.Nature),
		account.Parent,
		account.Description,
		account.ClientID,
		account.IsActive,
		account.IsSummary,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation {
			return domain.ErrAccountExists
		}

		return err
	}

	return nil
}

// GetByCode retrieves an account by its code.
func (r *AccountRepository) GetByCode(ctx context.Context, code string) (*domain.Account, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE code = $1`, code)

	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return account, nil
}

// GetByClientID retrieves the sub-ledger account of a client.
func (r *AccountRepository) GetByClientID(ctx context.Context, clientID string) (*domain.Account, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE client_id = $1`, clientID)

	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return account, nil
}

// List retrieves all accounts ordered by code.
func (r *AccountRepository) List(ctx context.Context) ([]*domain.Account, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAccounts(rows)
}

// ListByPrefix retrieves accounts whose code starts with the given prefix.
func (r *AccountRepository) ListByPrefix(ctx context.Context, prefix string) ([]*domain.Account, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE code LIKE $1 || '%'
		ORDER BY code`, prefix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAccounts(rows)
}

// UpdateLabel renames an account.
func (r *AccountRepository) UpdateLabel(ctx context.Context, code, label string, updatedAt time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE accounts
		SET label = $2, updated_at = $3
		WHERE code = $1`, code, label, updatedAt)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// SetActive activates or deactivates an account.
func (r *AccountRepository) SetActive(ctx context.Context, code string, active bool, updatedAt time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE accounts
		SET is_active = $2, updated_at = $3
		WHERE code = $1`, code, active, updatedAt)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// Seed inserts reference accounts, skipping codes that already exist.
func (r *AccountRepository) Seed(ctx context.Context, accounts []*domain.Account) error {
	batch := &pgx.Batch{}
	for _, account := range accounts {
		batch.Queue(`
			INSERT INTO accounts (`+accountColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			ON CONFLICT (code) DO NOTHING`,
			account.Code,
			account.Label,
			account.ClassCode,
			string(account.Type),
			string(account.Nature),
			account.Parent,
			account.Description,
			account.ClientID,
			account.IsActive,
			account.IsSummary,
			account.CreatedAt,
			account.UpdatedAt,
		)
	}

	return r.pool.SendBatch(ctx, batch).Close()
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		account     domain.Account
		typ, nature string
	)

	err := row.Scan(
		&account.Code,
		&account.Label,
		&account.ClassCode,
		&typ,
		&nature,
		&account.Parent,
		&account.Description,
		&account.ClientID,
		&account.IsActive,
		&account.IsSummary,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	account.Type = domain.AccountType(typ)
	account.Nature = domain.AccountNature(nature)

	return &account, nil
}

func scanAccounts(rows pgx.Rows) ([]*domain.Account, error) {
	var accounts []*domain.Account

	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}
