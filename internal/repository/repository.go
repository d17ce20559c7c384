package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Mega4Real/ednascollectionnew/internal/domain"
)

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrSettingNotFound    = errors.New("setting not found")
	ErrAdminNotFound      = errors.New("admin not found")
	ErrDiscountNotFound   = errors.New("discount code not found")
	ErrDiscountCodeExists = errors.New("discount code already exists")
)

type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

// Admin is a back-office credential row. Passwords are stored as bcrypt hashes.
type Admin struct {
	ID           int64
	Username     string
	PasswordHash string
}

// OutboxEvent is a pending side effect (currently only order receipts)
// recorded for the publisher to pick up.
type OutboxEvent struct {
	ID        uuid.UUID
	OrderID   int64
	EventType string
	Payload   []byte
	Processed bool
	CreatedAt time.Time
}

type ProductRepository interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	CreateProduct(ctx context.Context, p *domain.Product) error
	UpdateProduct(ctx context.Context, p *domain.Product) error
	DeleteProduct(ctx context.Context, id int64) error
	ReorderProducts(ctx context.Context, ids []int64) error
	MarkProductsSold(ctx context.Context, ids []int64) error
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	ListOrders(ctx context.Context) ([]*domain.Order, error)
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
	GetOrderByPaymentReference(ctx context.Context, reference string) (*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status domain.OrderStatus, paymentReference string) (*domain.Order, error)
	DeleteOrder(ctx context.Context, id int64) error
}

type OutboxRepository interface {
	EnqueueEvent(ctx context.Context, event *OutboxEvent) error
	GetUnprocessedEvents(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkEventProcessed(ctx context.Context, id uuid.UUID) error
}

type DiscountRepository interface {
	ListDiscounts(ctx context.Context) ([]domain.DiscountCode, error)
	GetDiscountByCode(ctx context.Context, code string) (*domain.DiscountCode, error)
	CreateDiscount(ctx context.Context, d *domain.DiscountCode) error
	DeleteDiscount(ctx context.Context, id int64) error
	ToggleDiscount(ctx context.Context, id int64) (*domain.DiscountCode, error)
}

type SettingsRepository interface {
	GetSetting(ctx context.Context, key string) (string, error)
	UpsertSetting(ctx context.Context, key, value string) error
}

type AdminRepository interface {
	GetAdminByUsername(ctx context.Context, username string) (*Admin, error)
}
