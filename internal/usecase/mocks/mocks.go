package mocks

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/etudesn/notacompta/internal/domain"
	"github.com/etudesn/notacompta/internal/usecase"
)

// MockAccountRepository is a mock implementation of AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	CreateFunc        func(ctx context.Context, account *domain.Account) error
	GetByCodeFunc     func(ctx context.Context, code string) (*domain.Account, error)
	GetByClientIDFunc func(ctx context.Context, clientID string) (*domain.Account, error)
	ListFunc          func(ctx context.Context) ([]*domain.Account, error)
	ListByPrefixFunc  func(ctx context.Context, prefix string) ([]*domain.Account, error)
	UpdateLabelFunc   func(ctx context.Context, code, label string, updatedAt time.Time) error
	SetActiveFunc     func(ctx context.Context, code string, active bool, updatedAt time.Time) error
	SeedFunc          func(ctx context.Context, accounts []*domain.Account) error
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[string]*domain.Account),
	}
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[account.Code]; ok {
		return domain.ErrAccountExists
	}
	m.accounts[account.Code] = account
	return nil
}

func (m *MockAccountRepository) GetByCode(ctx context.Context, code string) (*domain.Account, error) {
	if m.GetByCodeFunc != nil {
		return m.GetByCodeFunc(ctx, code)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[code]; ok {
		return acc, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByClientID(ctx context.Context, clientID string) (*domain.Account, error) {
	if m.GetByClientIDFunc != nil {
		return m.GetByClientIDFunc(ctx, clientID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, acc := range m.accounts {
		if acc.ClientID == clientID {
			return acc, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) List(ctx context.Context) ([]*domain.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	accounts := make([]*domain.Account, 0, len(m.accounts))
	for _, acc := range m.accounts {
		accounts = append(accounts, acc)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Code < accounts[j].Code })
	return accounts, nil
}

func (m *MockAccountRepository) ListByPrefix(ctx context.Context, prefix string) ([]*domain.Account, error) {
	if m.ListByPrefixFunc != nil {
		return m.ListByPrefixFunc(ctx, prefix)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, acc := range m.accounts {
		if strings.HasPrefix(acc.Code, prefix) {
			accounts = append(accounts, acc)
		}
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Code < accounts[j].Code })
	return accounts, nil
}

func (m *MockAccountRepository) UpdateLabel(ctx context.Context, code, label string, updatedAt time.Time) error {
	if m.UpdateLabelFunc != nil {
		return m.UpdateLabelFunc(ctx, code, label, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[code]
	if !ok {
		return domain.ErrAccountNotFound
	}
	acc.Label = label
	acc.UpdatedAt = updatedAt
	return nil
}

func (m *MockAccountRepository) SetActive(ctx context.Context, code string, active bool, updatedAt time.Time) error {
	if m.SetActiveFunc != nil {
		return m.SetActiveFunc(ctx, code, active, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[code]
	if !ok {
		return domain.ErrAccountNotFound
	}
	acc.IsActive = active
	acc.UpdatedAt = updatedAt
	return nil
}

func (m *MockAccountRepository) Seed(ctx context.Context, accounts []*domain.Account) error {
	if m.SeedFunc != nil {
		return m.SeedFunc(ctx, accounts)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, acc := range accounts {
		if _, ok := m.accounts[acc.Code]; !ok {
			m.accounts[acc.Code] = acc
		}
	}
	return nil
}

// MockEntryRepository is a mock implementation of EntryRepository.
type MockEntryRepository struct {
	mu      sync.RWMutex
	entries map[string]*domain.JournalEntry
	order   []string

	CreateFunc              func(ctx context.Context, tx usecase.Transaction, entry *domain.JournalEntry) error
	GetByIDFunc             func(ctx context.Context, id string) (*domain.JournalEntry, error)
	ListFunc                func(ctx context.Context) ([]*domain.JournalEntry, error)
	ListByAccountFunc       func(ctx context.Context, accountCode string) ([]*domain.JournalEntry, error)
	ListByAccountPeriodFunc func(ctx context.Context, accountCode string, start, end time.Time) ([]*domain.JournalEntry, error)
	MarkValidatedFunc       func(ctx context.Context, id string, at time.Time) error
	UpdateMetadataFunc      func(ctx context.Context, tx usecase.Transaction, id string, metadata map[string]any) error
}

func NewMockEntryRepository() *MockEntryRepository {
	return &MockEntryRepository{
		entries: make(map[string]*domain.JournalEntry),
	}
}

func (m *MockEntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.JournalEntry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[entry.ID] = entry
	m.order = append(m.order, entry.ID)
	return nil
}

func (m *MockEntryRepository) GetByID(ctx context.Context, id string) (*domain.JournalEntry, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.entries[id]; ok {
		return e, nil
	}
	return nil, domain.ErrEntryNotFound
}

func (m *MockEntryRepository) List(ctx context.Context) ([]*domain.JournalEntry, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	entries := make([]*domain.JournalEntry, 0, len(m.order))
	for _, id := range m.order {
		entries = append(entries, m.entries[id])
	}
	return entries, nil
}

func (m *MockEntryRepository) ListByAccount(ctx context.Context, accountCode string) ([]*domain.JournalEntry, error) {
	if m.ListByAccountFunc != nil {
		return m.ListByAccountFunc(ctx, accountCode)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var entries []*domain.JournalEntry
	for _, id := range m.order {
		if m.entries[id].TouchesAccount(accountCode) {
			entries = append(entries, m.entries[id])
		}
	}
	return entries, nil
}

func (m *MockEntryRepository) ListByAccountPeriod(ctx context.Context, accountCode string, start, end time.Time) ([]*domain.JournalEntry, error) {
	if m.ListByAccountPeriodFunc != nil {
		return m.ListByAccountPeriodFunc(ctx, accountCode, start, end)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var entries []*domain.JournalEntry
	for _, id := range m.order {
		e := m.entries[id]
		if !e.TouchesAccount(accountCode) {
			continue
		}
		if e.Date.Before(start) || e.Date.After(end) {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (m *MockEntryRepository) MarkValidated(ctx context.Context, id string, at time.Time) error {
	if m.MarkValidatedFunc != nil {
		return m.MarkValidatedFunc(ctx, id, at)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		return domain.ErrEntryNotFound
	}
	e.Validated = true
	e.ValidatedAt = &at
	return nil
}

func (m *MockEntryRepository) UpdateMetadata(ctx context.Context, tx usecase.Transaction, id string, metadata map[string]any) error {
	if m.UpdateMetadataFunc != nil {
		return m.UpdateMetadataFunc(ctx, tx, id, metadata)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		return domain.ErrEntryNotFound
	}
	e.Metadata = metadata
	return nil
}

// MockSequenceRepository is a mock implementation of SequenceRepository.
type MockSequenceRepository struct {
	mu       sync.Mutex
	counters map[string]int64

	NextFunc func(ctx context.Context, name string) (int64, error)
}

func NewMockSequenceRepository() *MockSequenceRepository {
	return &MockSequenceRepository{
		counters: make(map[string]int64),
	}
}

func (m *MockSequenceRepository) Next(ctx context.Context, name string) (int64, error) {
	if m.NextFunc != nil {
		return m.NextFunc(ctx, name)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[name]++
	return m.counters[name], nil
}

// MockInvoiceRepository is a mock implementation of InvoiceRepository.
type MockInvoiceRepository struct {
	mu       sync.RWMutex
	invoices map[string]*domain.Invoice

	CreateFunc       func(ctx context.Context, invoice *domain.Invoice) error
	GetByIDFunc      func(ctx context.Context, id string) (*domain.Invoice, error)
	UpdateFunc       func(ctx context.Context, invoice *domain.Invoice) error
	ListByClientFunc func(ctx context.Context, clientID string) ([]*domain.Invoice, error)
}

func NewMockInvoiceRepository() *MockInvoiceRepository {
	return &MockInvoiceRepository{
		invoices: make(map[string]*domain.Invoice),
	}
}

func (m *MockInvoiceRepository) Create(ctx context.Context, invoice *domain.Invoice) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, invoice)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invoices[invoice.ID] = invoice
	return nil
}

func (m *MockInvoiceRepository) GetByID(ctx context.Context, id string) (*domain.Invoice, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if inv, ok := m.invoices[id]; ok {
		return inv, nil
	}
	return nil, domain.ErrInvoiceNotFound
}

func (m *MockInvoiceRepository) Update(ctx context.Context, invoice *domain.Invoice) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, invoice)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.invoices[invoice.ID]; !ok {
		return domain.ErrInvoiceNotFound
	}
	m.invoices[invoice.ID] = invoice
	return nil
}

func (m *MockInvoiceRepository) ListByClient(ctx context.Context, clientID string) ([]*domain.Invoice, error) {
	if m.ListByClientFunc != nil {
		return m.ListByClientFunc(ctx, clientID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var invoices []*domain.Invoice
	for _, inv := range m.invoices {
		if inv.ClientID == clientID {
			invoices = append(invoices, inv)
		}
	}
	return invoices, nil
}

// MockReconciliationRepository is a mock implementation of ReconciliationRepository.
type MockReconciliationRepository struct {
	mu       sync.RWMutex
	sessions map[string]*domain.ReconciliationSession

	CreateFunc  func(ctx context.Context, session *domain.ReconciliationSession) error
	GetByIDFunc func(ctx context.Context, id string) (*domain.ReconciliationSession, error)
	UpdateFunc  func(ctx context.Context, tx usecase.Transaction, session *domain.ReconciliationSession) error
	ListFunc    func(ctx context.Context) ([]*domain.ReconciliationSession, error)
}

func NewMockReconciliationRepository() *MockReconciliationRepository {
	return &MockReconciliationRepository{
		sessions: make(map[string]*domain.ReconciliationSession),
	}
}

func (m *MockReconciliationRepository) Create(ctx context.Context, session *domain.ReconciliationSession) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, session)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.ID] = session
	return nil
}

func (m *MockReconciliationRepository) GetByID(ctx context.Context, id string) (*domain.ReconciliationSession, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, domain.ErrSessionNotFound
}

func (m *MockReconciliationRepository) Update(ctx context.Context, tx usecase.Transaction, session *domain.ReconciliationSession) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, session)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[session.ID]; !ok {
		return domain.ErrSessionNotFound
	}
	m.sessions[session.ID] = session
	return nil
}

func (m *MockReconciliationRepository) List(ctx context.Context) ([]*domain.ReconciliationSession, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	sessions := make([]*domain.ReconciliationSession, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	return sessions, nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	return nil
}

// MockRetrier is a mock implementation of Retrier. By default it runs the
// operation exactly once and counts invocations.
type MockRetrier struct {
	mu    sync.Mutex
	calls int

	RetryFunc func(ctx context.Context, op func() error) error
}

func NewMockRetrier() *MockRetrier {
	return &MockRetrier{}
}

func (m *MockRetrier) Retry(ctx context.Context, op func() error) error {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, op)
	}
	return op()
}

// Calls reports how many operations went through the retrier.
func (m *MockRetrier) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%04d", m.counter)
}

// MockCache is a mock implementation of Cache.
type MockCache struct {
	mu   sync.RWMutex
	data map[string][]byte

	GetFunc    func(ctx context.Context, key string) ([]byte, error)
	SetFunc    func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error
}

func NewMockCache() *MockCache {
	return &MockCache{
		data: make(map[string][]byte),
	}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("cache miss: %s", key)
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		m.data[key] = response
	} else {
		m.data[key] = []byte("processing")
	}
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}
