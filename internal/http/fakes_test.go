package http

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/Mega4Real/ednascollectionnew/internal/cache"
	"github.com/Mega4Real/ednascollectionnew/internal/domain"
	"github.com/Mega4Real/ednascollectionnew/internal/repository"
)

// fakeStore backs the handler tests with one in-memory implementation of
// the repository interfaces the services need.
type fakeStore struct {
	products  map[int64]*domain.Product
	nextProd  int64
	orders    map[int64]*domain.Order
	nextOrder int64
	events    []*repository.OutboxEvent
	settings  map[string]string
	admins    map[string]*repository.Admin
	discounts map[int64]*domain.DiscountCode
	nextDisc  int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products:  make(map[int64]*domain.Product),
		orders:    make(map[int64]*domain.Order),
		settings:  make(map[string]string),
		admins:    make(map[string]*repository.Admin),
		discounts: make(map[int64]*domain.DiscountCode),
	}
}

func (f *fakeStore) ListProducts(_ context.Context) ([]domain.Product, error) {
	list := make([]domain.Product, 0, len(f.products))
	for _, p := range f.products {
		list = append(list, *p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Position < list[j].Position })
	return list, nil
}

func (f *fakeStore) GetProduct(_ context.Context, id int64) (*domain.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	copied := *p
	return &copied, nil
}

func (f *fakeStore) CreateProduct(_ context.Context, p *domain.Product) error {
	f.nextProd++
	p.ID = f.nextProd
	maxPos := 0
	for _, existing := range f.products {
		if existing.Position > maxPos {
			maxPos = existing.Position
		}
	}
	p.Position = maxPos + 1
	copied := *p
	f.products[p.ID] = &copied
	return nil
}

func (f *fakeStore) UpdateProduct(_ context.Context, p *domain.Product) error {
	existing, ok := f.products[p.ID]
	if !ok {
		return repository.ErrProductNotFound
	}
	p.Position = existing.Position
	copied := *p
	f.products[p.ID] = &copied
	return nil
}

func (f *fakeStore) DeleteProduct(_ context.Context, id int64) error {
	if _, ok := f.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(f.products, id)
	return nil
}

func (f *fakeStore) ReorderProducts(_ context.Context, ids []int64) error {
	for _, id := range ids {
		if _, ok := f.products[id]; !ok {
			return repository.ErrProductNotFound
		}
	}
	for i, id := range ids {
		f.products[id].Position = i + 1
	}
	return nil
}

func (f *fakeStore) MarkProductsSold(_ context.Context, ids []int64) error {
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			p.IsSold = true
		}
	}
	return nil
}

func (f *fakeStore) CreateOrder(_ context.Context, order *domain.Order) error {
	f.nextOrder++
	order.ID = f.nextOrder
	order.CreatedAt = time.Now()
	copied := *order
	copied.Items = append([]domain.OrderItem(nil), order.Items...)
	f.orders[order.ID] = &copied
	return nil
}

func (f *fakeStore) ListOrders(_ context.Context) ([]*domain.Order, error) {
	list := make([]*domain.Order, 0, len(f.orders))
	for _, o := range f.orders {
		copied := *o
		list = append(list, &copied)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })
	return list, nil
}

func (f *fakeStore) GetOrder(_ context.Context, id int64) (*domain.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	copied := *o
	return &copied, nil
}

func (f *fakeStore) GetOrderByPaymentReference(_ context.Context, reference string) (*domain.Order, error) {
	for _, o := range f.orders {
		if o.PaymentReference == reference {
			copied := *o
			return &copied, nil
		}
	}
	return nil, repository.ErrOrderNotFound
}

func (f *fakeStore) UpdateOrderStatus(_ context.Context, id int64, status domain.OrderStatus, paymentReference string) (*domain.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	o.Status = status
	if paymentReference != "" {
		o.PaymentReference = paymentReference
	}
	copied := *o
	return &copied, nil
}

func (f *fakeStore) DeleteOrder(_ context.Context, id int64) error {
	if _, ok := f.orders[id]; !ok {
		return repository.ErrOrderNotFound
	}
	delete(f.orders, id)
	return nil
}

func (f *fakeStore) EnqueueEvent(_ context.Context, event *repository.OutboxEvent) error {
	f.events = append(f.events, event)
	return nil
}

func (f *fakeStore) GetUnprocessedEvents(_ context.Context, _ int) ([]*repository.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeStore) MarkEventProcessed(_ context.Context, _ uuid.UUID) error {
	return nil
}

func (f *fakeStore) ListDiscounts(_ context.Context) ([]domain.DiscountCode, error) {
	list := make([]domain.DiscountCode, 0, len(f.discounts))
	for _, d := range f.discounts {
		list = append(list, *d)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })
	return list, nil
}

func (f *fakeStore) GetDiscountByCode(_ context.Context, code string) (*domain.DiscountCode, error) {
	for _, d := range f.discounts {
		if d.Code == code {
			copied := *d
			return &copied, nil
		}
	}
	return nil, repository.ErrDiscountNotFound
}

func (f *fakeStore) CreateDiscount(_ context.Context, d *domain.DiscountCode) error {
	for _, existing := range f.discounts {
		if existing.Code == d.Code {
			return repository.ErrDiscountCodeExists
		}
	}
	f.nextDisc++
	d.ID = f.nextDisc
	d.CreatedAt = time.Now()
	copied := *d
	f.discounts[d.ID] = &copied
	return nil
}

func (f *fakeStore) DeleteDiscount(_ context.Context, id int64) error {
	if _, ok := f.discounts[id]; !ok {
		return repository.ErrDiscountNotFound
	}
	delete(f.discounts, id)
	return nil
}

func (f *fakeStore) ToggleDiscount(_ context.Context, id int64) (*domain.DiscountCode, error) {
	d, ok := f.discounts[id]
	if !ok {
		return nil, repository.ErrDiscountNotFound
	}
	d.IsActive = !d.IsActive
	copied := *d
	return &copied, nil
}

func (f *fakeStore) GetSetting(_ context.Context, key string) (string, error) {
	value, ok := f.settings[key]
	if !ok {
		return "", repository.ErrSettingNotFound
	}
	return value, nil
}

func (f *fakeStore) UpsertSetting(_ context.Context, key, value string) error {
	f.settings[key] = value
	return nil
}

func (f *fakeStore) GetAdminByUsername(_ context.Context, username string) (*repository.Admin, error) {
	admin, ok := f.admins[username]
	if !ok {
		return nil, repository.ErrAdminNotFound
	}
	return admin, nil
}

// noopCache always misses; handler tests exercise the repo path.
type noopCache struct{}

func (noopCache) Get(_ context.Context) ([]domain.Product, error) { return nil, cache.ErrCacheMiss }
func (noopCache) Set(_ context.Context, _ []domain.Product) error { return nil }
func (noopCache) Invalidate(_ context.Context) error              { return nil }
