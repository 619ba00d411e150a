package usecase

import (
	"context"
	"time"

	"github.com/etudesn/notacompta/internal/domain"
)

// AccountRepository defines data access for the chart of accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByCode(ctx context.Context, code string) (*domain.Account, error)
	GetByClientID(ctx context.Context, clientID string) (*domain.Account, error)
	List(ctx context.Context) ([]*domain.Account, error)
	ListByPrefix(ctx context.Context, prefix string) ([]*domain.Account, error)
	UpdateLabel(ctx context.Context, code, label string, updatedAt time.Time) error
	SetActive(ctx context.Context, code string, active bool, updatedAt time.Time) error
	// Seed inserts reference accounts, skipping codes that already exist.
	Seed(ctx context.Context, accounts []*domain.Account) error
}

// EntryRepository defines data access for journal entries.
type EntryRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.JournalEntry) error
	GetByID(ctx context.Context, id string) (*domain.JournalEntry, error)
	List(ctx context.Context) ([]*domain.JournalEntry, error)
	ListByAccount(ctx context.Context, accountCode string) ([]*domain.JournalEntry, error)
	ListByAccountPeriod(ctx context.Context, accountCode string, start, end time.Time) ([]*domain.JournalEntry, error)
	MarkValidated(ctx context.Context, id string, at time.Time) error
	UpdateMetadata(ctx context.Context, tx Transaction, id string, metadata map[string]any) error
}

// SequenceRepository hands out atomic, monotonically increasing numbers per
// named series (entry references, client account numbers).
type SequenceRepository interface {
	Next(ctx context.Context, name string) (int64, error)
}

// InvoiceRepository defines data access for invoices.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *domain.Invoice) error
	GetByID(ctx context.Context, id string) (*domain.Invoice, error)
	Update(ctx context.Context, invoice *domain.Invoice) error
	ListByClient(ctx context.Context, clientID string) ([]*domain.Invoice, error)
}

// ReconciliationRepository defines data access for reconciliation sessions.
type ReconciliationRepository interface {
	Create(ctx context.Context, session *domain.ReconciliationSession) error
	GetByID(ctx context.Context, id string) (*domain.ReconciliationSession, error)
	Update(ctx context.Context, tx Transaction, session *domain.ReconciliationSession) error
	List(ctx context.Context) ([]*domain.ReconciliationSession, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs a transactional operation that failed with a transient
// database error, such as a deadlock or serialization failure. The whole
// operation is repeated, so it must be safe to run more than once.
type Retrier interface {
	Retry(ctx context.Context, op func() error) error
}

// retryTx runs op through the retrier. A nil retrier runs it once.
func retryTx(ctx context.Context, r Retrier, op func() error) error {
	if r == nil {
		return op()
	}
	return r.Retry(ctx, op)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations for report snapshots.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage for mutating API calls.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
