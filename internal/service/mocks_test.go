package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Mega4Real/ednascollectionnew/internal/cache"
	"github.com/Mega4Real/ednascollectionnew/internal/domain"
	"github.com/Mega4Real/ednascollectionnew/internal/repository"
)

// mockProductRepo implements repository.ProductRepository with an in-memory
// map, mirroring the position bookkeeping the real schema does.
type mockProductRepo struct {
	products   map[int64]*domain.Product
	nextID     int64
	soldCalls  [][]int64
	soldErr    error
	reorderErr error
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{products: make(map[int64]*domain.Product)}
}

func (m *mockProductRepo) ListProducts(_ context.Context) ([]domain.Product, error) {
	list := make([]domain.Product, 0, len(m.products))
	for _, p := range m.products {
		list = append(list, *p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Position < list[j].Position })
	return list, nil
}

func (m *mockProductRepo) GetProduct(_ context.Context, id int64) (*domain.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	copied := *p
	return &copied, nil
}

func (m *mockProductRepo) CreateProduct(_ context.Context, p *domain.Product) error {
	m.nextID++
	p.ID = m.nextID
	maxPos := 0
	for _, existing := range m.products {
		if existing.Position > maxPos {
			maxPos = existing.Position
		}
	}
	p.Position = maxPos + 1
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	copied := *p
	m.products[p.ID] = &copied
	return nil
}

func (m *mockProductRepo) UpdateProduct(_ context.Context, p *domain.Product) error {
	existing, ok := m.products[p.ID]
	if !ok {
		return repository.ErrProductNotFound
	}
	p.Position = existing.Position
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = time.Now()
	copied := *p
	m.products[p.ID] = &copied
	return nil
}

func (m *mockProductRepo) DeleteProduct(_ context.Context, id int64) error {
	if _, ok := m.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *mockProductRepo) ReorderProducts(_ context.Context, ids []int64) error {
	if m.reorderErr != nil {
		return m.reorderErr
	}
	for _, id := range ids {
		if _, ok := m.products[id]; !ok {
			return repository.ErrProductNotFound
		}
	}
	for i, id := range ids {
		m.products[id].Position = i + 1
	}
	return nil
}

func (m *mockProductRepo) MarkProductsSold(_ context.Context, ids []int64) error {
	m.soldCalls = append(m.soldCalls, ids)
	if m.soldErr != nil {
		return m.soldErr
	}
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			p.IsSold = true
		}
	}
	return nil
}

// mockOrderRepo implements repository.OrderRepository in memory.
type mockOrderRepo struct {
	orders    map[int64]*domain.Order
	nextID    int64
	createErr error
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[int64]*domain.Order)}
}

func (m *mockOrderRepo) CreateOrder(_ context.Context, order *domain.Order) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	order.ID = m.nextID
	order.CreatedAt = time.Now().Add(time.Duration(m.nextID) * time.Millisecond)
	order.UpdatedAt = order.CreatedAt
	for i := range order.Items {
		order.Items[i].ID = int64(i + 1)
	}
	copied := *order
	copied.Items = append([]domain.OrderItem(nil), order.Items...)
	m.orders[order.ID] = &copied
	return nil
}

func (m *mockOrderRepo) ListOrders(_ context.Context) ([]*domain.Order, error) {
	list := make([]*domain.Order, 0, len(m.orders))
	for _, o := range m.orders {
		copied := *o
		list = append(list, &copied)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (m *mockOrderRepo) GetOrder(_ context.Context, id int64) (*domain.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	copied := *o
	return &copied, nil
}

func (m *mockOrderRepo) GetOrderByPaymentReference(_ context.Context, reference string) (*domain.Order, error) {
	for _, o := range m.orders {
		if o.PaymentReference == reference {
			copied := *o
			return &copied, nil
		}
	}
	return nil, repository.ErrOrderNotFound
}

func (m *mockOrderRepo) UpdateOrderStatus(_ context.Context, id int64, status domain.OrderStatus, paymentReference string) (*domain.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	o.Status = status
	if paymentReference != "" {
		o.PaymentReference = paymentReference
	}
	o.UpdatedAt = time.Now()
	copied := *o
	return &copied, nil
}

func (m *mockOrderRepo) DeleteOrder(_ context.Context, id int64) error {
	if _, ok := m.orders[id]; !ok {
		return repository.ErrOrderNotFound
	}
	delete(m.orders, id)
	return nil
}

// mockOutbox records enqueued events.
type mockOutbox struct {
	events     []*repository.OutboxEvent
	enqueueErr error
}

func (m *mockOutbox) EnqueueEvent(_ context.Context, event *repository.OutboxEvent) error {
	if m.enqueueErr != nil {
		return m.enqueueErr
	}
	m.events = append(m.events, event)
	return nil
}

func (m *mockOutbox) GetUnprocessedEvents(_ context.Context, limit int) ([]*repository.OutboxEvent, error) {
	var pending []*repository.OutboxEvent
	for _, e := range m.events {
		if !e.Processed {
			pending = append(pending, e)
		}
		if len(pending) == limit {
			break
		}
	}
	return pending, nil
}

func (m *mockOutbox) MarkEventProcessed(_ context.Context, id uuid.UUID) error {
	for _, e := range m.events {
		if e.ID == id {
			e.Processed = true
		}
	}
	return nil
}

// mockCache implements cache.ProductCache.
type mockCache struct {
	mu          sync.Mutex
	stored      []domain.Product
	hasValue    bool
	getErr      error
	setErr      error
	invalidated int
}

func (m *mockCache) Get(_ context.Context) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	if !m.hasValue {
		return nil, cache.ErrCacheMiss
	}
	return m.stored, nil
}

func (m *mockCache) Set(_ context.Context, products []domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.stored = products
	m.hasValue = true
	return nil
}

func (m *mockCache) Invalidate(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invalidated++
	m.stored = nil
	m.hasValue = false
	return nil
}

func (m *mockCache) invalidatedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.invalidated
}

// mockDiscountRepo implements repository.DiscountRepository in memory with
// the same uppercase-unique code constraint as the schema.
type mockDiscountRepo struct {
	discounts map[int64]*domain.DiscountCode
	nextID    int64
}

func newMockDiscountRepo() *mockDiscountRepo {
	return &mockDiscountRepo{discounts: make(map[int64]*domain.DiscountCode)}
}

func (m *mockDiscountRepo) ListDiscounts(_ context.Context) ([]domain.DiscountCode, error) {
	list := make([]domain.DiscountCode, 0, len(m.discounts))
	for _, d := range m.discounts {
		list = append(list, *d)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })
	return list, nil
}

func (m *mockDiscountRepo) GetDiscountByCode(_ context.Context, code string) (*domain.DiscountCode, error) {
	for _, d := range m.discounts {
		if d.Code == code {
			copied := *d
			return &copied, nil
		}
	}
	return nil, repository.ErrDiscountNotFound
}

func (m *mockDiscountRepo) CreateDiscount(_ context.Context, d *domain.DiscountCode) error {
	for _, existing := range m.discounts {
		if existing.Code == d.Code {
			return repository.ErrDiscountCodeExists
		}
	}
	m.nextID++
	d.ID = m.nextID
	d.CreatedAt = time.Now()
	copied := *d
	m.discounts[d.ID] = &copied
	return nil
}

func (m *mockDiscountRepo) DeleteDiscount(_ context.Context, id int64) error {
	if _, ok := m.discounts[id]; !ok {
		return repository.ErrDiscountNotFound
	}
	delete(m.discounts, id)
	return nil
}

func (m *mockDiscountRepo) ToggleDiscount(_ context.Context, id int64) (*domain.DiscountCode, error) {
	d, ok := m.discounts[id]
	if !ok {
		return nil, repository.ErrDiscountNotFound
	}
	d.IsActive = !d.IsActive
	copied := *d
	return &copied, nil
}

// mockSettingsRepo implements repository.SettingsRepository.
type mockSettingsRepo struct {
	values map[string]string
}

func newMockSettingsRepo() *mockSettingsRepo {
	return &mockSettingsRepo{values: make(map[string]string)}
}

func (m *mockSettingsRepo) GetSetting(_ context.Context, key string) (string, error) {
	value, ok := m.values[key]
	if !ok {
		return "", repository.ErrSettingNotFound
	}
	return value, nil
}

func (m *mockSettingsRepo) UpsertSetting(_ context.Context, key, value string) error {
	m.values[key] = value
	return nil
}
