package tests

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"dispatch/internal/domain"
	"dispatch/internal/repository"
	"dispatch/internal/settlement"
)

// ──────────────────────────────────────────────
// MOCK CLIENT REPOSITORY
// ──────────────────────────────────────────────

// MockClientRepository is a mock implementation of ClientRepository.
type MockClientRepository struct {
	mu      sync.RWMutex
	nextID  int64
	clients map[int64]*domain.Client

	// Counters for verification
	CreateCallCount int32

	// Error injection
	CreateError error
}

// NewMockClientRepository creates a new mock client repository.
func NewMockClientRepository() *MockClientRepository {
	return &MockClientRepository{clients: make(map[int64]*domain.Client)}
}

// AddClient adds a client to the mock repository.
func (m *MockClientRepository) AddClient(client *domain.Client) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if client.ID == 0 {
		m.nextID++
		client.ID = m.nextID
	} else if client.ID > m.nextID {
		m.nextID = client.ID
	}
	m.clients[client.ID] = client
}

func (m *MockClientRepository) Create(ctx context.Context, client *domain.Client) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.AddClient(client)
	return nil
}

func (m *MockClientRepository) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	client, ok := m.clients[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *client
	return &copy, nil
}

func (m *MockClientRepository) GetByPhone(ctx context.Context, phone string) (*domain.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, cl := range m.clients {
		if cl.Phone == phone {
			copy := *cl
			return &copy, nil
		}
	}
	return nil, nil
}

func (m *MockClientRepository) GetAll(ctx context.Context, activeOnly bool) ([]*domain.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Client, 0, len(m.clients))
	for _, cl := range m.clients {
		if activeOnly && !cl.IsActive {
			continue
		}
		copy := *cl
		result = append(result, &copy)
	}
	return result, nil
}

// ──────────────────────────────────────────────
// MOCK RIDER REPOSITORY
// ──────────────────────────────────────────────

// MockRiderRepository is a mock implementation of RiderRepository.
type MockRiderRepository struct {
	mu     sync.RWMutex
	nextID int64
	riders map[int64]*domain.Rider

	// Counters for verification
	CreateCallCount int32

	// Error injection
	CreateError error
}

// NewMockRiderRepository creates a new mock rider repository.
func NewMockRiderRepository() *MockRiderRepository {
	return &MockRiderRepository{riders: make(map[int64]*domain.Rider)}
}

// AddRider adds a rider to the mock repository.
func (m *MockRiderRepository) AddRider(rider *domain.Rider) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rider.ID == 0 {
		m.nextID++
		rider.ID = m.nextID
	} else if rider.ID > m.nextID {
		m.nextID = rider.ID
	}
	m.riders[rider.ID] = rider
}

func (m *MockRiderRepository) Create(ctx context.Context, rider *domain.Rider) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.AddRider(rider)
	return nil
}

func (m *MockRiderRepository) GetByID(ctx context.Context, id int64) (*domain.Rider, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rider, ok := m.riders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *rider
	return &copy, nil
}

func (m *MockRiderRepository) GetByName(ctx context.Context, name string) (*domain.Rider, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.riders {
		if r.Name == name {
			copy := *r
			return &copy, nil
		}
	}
	return nil, nil
}

func (m *MockRiderRepository) GetAll(ctx context.Context, activeOnly bool) ([]*domain.Rider, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Rider, 0, len(m.riders))
	for _, r := range m.riders {
		if activeOnly && !r.IsActive {
			continue
		}
		copy := *r
		result = append(result, &copy)
	}
	return result, nil
}

// ──────────────────────────────────────────────
// MOCK DELIVERY REPOSITORY
// ──────────────────────────────────────────────

// MockDeliveryRepository is a mock implementation of DeliveryRepository.
type MockDeliveryRepository struct {
	mu         sync.RWMutex
	nextID     int64
	deliveries map[int64]*domain.Delivery

	// Counters for verification
	CreateCallCount int32
	UpdateCallCount int32

	// Error injection
	CreateError error
	UpdateError error
}

// NewMockDeliveryRepository creates a new mock delivery repository.
func NewMockDeliveryRepository() *MockDeliveryRepository {
	return &MockDeliveryRepository{deliveries: make(map[int64]*domain.Delivery)}
}

// AddDelivery adds a delivery to the mock repository.
func (m *MockDeliveryRepository) AddDelivery(delivery *domain.Delivery) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if delivery.ID == 0 {
		m.nextID++
		delivery.ID = m.nextID
	} else if delivery.ID > m.nextID {
		m.nextID = delivery.ID
	}
	m.deliveries[delivery.ID] = delivery
}

func (m *MockDeliveryRepository) Create(ctx context.Context, delivery *domain.Delivery) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.AddDelivery(delivery)
	return nil
}

func (m *MockDeliveryRepository) GetByID(ctx context.Context, id int64) (*domain.Delivery, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	delivery, ok := m.deliveries[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *delivery
	return &copy, nil
}

func (m *MockDeliveryRepository) Update(ctx context.Context, delivery *domain.Delivery) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.deliveries[delivery.ID]; !ok {
		return repository.ErrNotFound
	}
	copy := *delivery
	m.deliveries[delivery.ID] = &copy
	return nil
}

func (m *MockDeliveryRepository) List(ctx context.Context, filter repository.DeliveryFilter) ([]*domain.Delivery, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Delivery, 0, len(m.deliveries))
	for _, d := range m.deliveries {
		if filter.State != "" && d.State != filter.State {
			continue
		}
		if filter.ClientID != 0 && d.ClientID != filter.ClientID {
			continue
		}
		if filter.RiderID != 0 && d.RiderID != filter.RiderID {
			continue
		}
		if !filter.From.IsZero() && d.CreatedAt.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && d.CreatedAt.After(filter.To) {
			continue
		}
		copy := *d
		result = append(result, &copy)
	}
	return result, nil
}

// GetDelivery returns the stored delivery for test assertions.
func (m *MockDeliveryRepository) GetDelivery(id int64) *domain.Delivery {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.deliveries[id]
}

// ──────────────────────────────────────────────
// MOCK PAYMENT REPOSITORY
// ──────────────────────────────────────────────

// MockPaymentRepository is a mock implementation of PaymentRepository. It
// stores whole settlement rows so calculator-facing listings carry the
// delivery and party columns a real join would.
type MockPaymentRepository struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]*settlement.Row

	// Counters for verification
	CreateCallCount int32
	UpdateCallCount int32
	DeleteCallCount int32

	// Error injection
	CreateError error
	UpdateError error
	DeleteError error
}

// NewMockPaymentRepository creates a new mock payment repository.
func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{rows: make(map[int64]*settlement.Row)}
}

// AddRow adds a full settlement row to the mock repository.
func (m *MockPaymentRepository) AddRow(row settlement.Row) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if row.Payment.ID == 0 {
		m.nextID++
		row.Payment.ID = m.nextID
	} else if row.Payment.ID > m.nextID {
		m.nextID = row.Payment.ID
	}
	m.rows[row.Payment.ID] = &row
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if payment.ID == 0 {
		m.nextID++
		payment.ID = m.nextID
	}
	m.rows[payment.ID] = &settlement.Row{Payment: *payment}
	return nil
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id int64) (*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	row, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := row.Payment
	return &copy, nil
}

func (m *MockPaymentRepository) Update(ctx context.Context, payment *domain.Payment) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[payment.ID]
	if !ok {
		return repository.ErrNotFound
	}
	row.Payment = *payment
	return nil
}

func (m *MockPaymentRepository) Delete(ctx context.Context, id int64) error {
	atomic.AddInt32(&m.DeleteCallCount, 1)
	if m.DeleteError != nil {
		return m.DeleteError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *MockPaymentRepository) ListRows(ctx context.Context, filter repository.RowFilter) ([]settlement.Row, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]settlement.Row, 0, len(m.rows))
	for _, row := range m.rows {
		p := &row.Payment
		if filter.RiderID != 0 && row.RiderID != filter.RiderID {
			continue
		}
		if filter.ClientID != 0 && row.ClientID != filter.ClientID {
			continue
		}
		if filter.SettlementStatus != "" && p.SettlementStatus != filter.SettlementStatus {
			continue
		}
		if filter.PaymentStatus != "" && p.PaymentStatus != filter.PaymentStatus {
			continue
		}
		if !filter.From.IsZero() && p.CreatedAt.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && p.CreatedAt.After(filter.To) {
			continue
		}
		result = append(result, *row)
	}
	return result, nil
}

func (m *MockPaymentRepository) GetBatchByRider(ctx context.Context, ids []int64, riderID int64) ([]*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Payment, 0, len(ids))
	for _, id := range ids {
		row, ok := m.rows[id]
		if !ok || row.RiderID != riderID {
			continue
		}
		copy := row.Payment
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockPaymentRepository) GetBatchByClient(ctx context.Context, ids []int64, clientID int64) ([]*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Payment, 0, len(ids))
	for _, id := range ids {
		row, ok := m.rows[id]
		if !ok || row.ClientID != clientID {
			continue
		}
		copy := row.Payment
		result = append(result, &copy)
	}
	return result, nil
}

// GetPayment returns the stored payment for test assertions.
func (m *MockPaymentRepository) GetPayment(id int64) *domain.Payment {
	m.mu.RLock()
	defer m.mu.RUnlock()
	row, ok := m.rows[id]
	if !ok {
		return nil
	}
	copy := row.Payment
	return &copy
}

// CountPayments returns how many payments are stored.
func (m *MockPaymentRepository) CountPayments() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rows)
}

// ──────────────────────────────────────────────
// MOCK STORE
// ──────────────────────────────────────────────

// MockStore is an in-memory Store. InTx hands the callback the same mock
// repositories; there is no rollback, so tests asserting "no writes on
// rejection" rely on services validating before mutating, which is exactly
// the contract under test.
type MockStore struct {
	PaymentRepo  *MockPaymentRepository
	DeliveryRepo *MockDeliveryRepository

	// Counters for verification
	InTxCallCount int32

	// Error injection
	InTxError error
}

// NewMockStore creates a new mock store over the given repositories.
func NewMockStore(payments *MockPaymentRepository, deliveries *MockDeliveryRepository) *MockStore {
	return &MockStore{PaymentRepo: payments, DeliveryRepo: deliveries}
}

func (m *MockStore) InTx(ctx context.Context, fn func(tx repository.StoreTx) error) error {
	atomic.AddInt32(&m.InTxCallCount, 1)
	if m.InTxError != nil {
		return m.InTxError
	}
	return fn(m)
}

func (m *MockStore) Payments() repository.PaymentRepository { return m.PaymentRepo }

func (m *MockStore) Deliveries() repository.DeliveryRepository { return m.DeliveryRepo }

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of LockStoreInterface.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]bool

	// Counters for verification
	AcquireCallCount int32
	ReleaseCallCount int32

	// Error injection
	AcquireError error
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{locks: make(map[string]bool)}
}

func (m *MockLockStore) AcquireSettlementLock(ctx context.Context, party string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locks[party] {
		return false, nil
	}
	m.locks[party] = true
	return true, nil
}

func (m *MockLockStore) ReleaseSettlementLock(ctx context.Context, party string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, party)
	return nil
}

// HoldLock pre-acquires a lock so a test can simulate a concurrent batch.
func (m *MockLockStore) HoldLock(party string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locks[party] = true
}

// ──────────────────────────────────────────────
// MOCK CACHE STORE
// ──────────────────────────────────────────────

// MockCacheStore is a mock implementation of CacheStoreInterface.
type MockCacheStore struct {
	mu   sync.Mutex
	data []byte

	// Counters for verification
	GetCallCount        int32
	SetCallCount        int32
	InvalidateCallCount int32
}

// NewMockCacheStore creates a new mock cache store.
func NewMockCacheStore() *MockCacheStore {
	return &MockCacheStore{}
}

func (m *MockCacheStore) GetDashboard(ctx context.Context) ([]byte, error) {
	atomic.AddInt32(&m.GetCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data, nil
}

func (m *MockCacheStore) SetDashboard(ctx context.Context, data []byte) error {
	atomic.AddInt32(&m.SetCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = data
	return nil
}

func (m *MockCacheStore) InvalidateDashboard(ctx context.Context) error {
	atomic.AddInt32(&m.InvalidateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = nil
	return nil
}
