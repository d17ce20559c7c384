package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/Mega4Real/ednascollectionnew/internal/domain"
	"github.com/Mega4Real/ednascollectionnew/internal/paystack"
	"github.com/Mega4Real/ednascollectionnew/internal/publisher"
	"github.com/Mega4Real/ednascollectionnew/internal/repository"
)

type OrderItemInput struct {
	ProductID int64   `json:"productId"`
	Size      string  `json:"size"`
	Price     float64 `json:"price"`
}

type CreateOrderInput struct {
	CustomerName     string               `json:"customerName"`
	Email            string               `json:"email"`
	Phone            string               `json:"phone"`
	Address          string               `json:"address"`
	City             string               `json:"city"`
	PaymentMethod    domain.PaymentMethod `json:"paymentMethod"`
	PaymentReference string               `json:"paymentReference"`
	Items            []OrderItemInput     `json:"items"`
}

type OrderService struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	outbox   repository.OutboxRepository
}

func NewOrderService(orders repository.OrderRepository, products repository.ProductRepository, outbox repository.OutboxRepository) *OrderService {
	return &OrderService{
		orders:   orders,
		products: products,
		outbox:   outbox,
	}
}

// CreateOrder persists a new order with its item snapshots. The total is the
// sum of the item prices supplied by the caller; the products' current prices
// are deliberately not consulted, since they may have changed or the product
// may be gone by the time an admin looks at the order.
//
// A Paystack order that already carries a payment reference was charged
// before it reached us, so it starts out PAID.
func (s *OrderService) CreateOrder(ctx context.Context, input CreateOrderInput) (*domain.Order, error) {
	if err := validateCreateOrder(input); err != nil {
		return nil, err
	}

	var total float64
	items := make([]domain.OrderItem, len(input.Items))
	for i, item := range input.Items {
		items[i] = domain.OrderItem{
			ProductID: item.ProductID,
			Size:      item.Size,
			Price:     item.Price,
		}
		total += item.Price
	}

	status := domain.OrderStatusPending
	reference := input.PaymentReference
	switch input.PaymentMethod {
	case domain.PaymentMethodPaystack:
		if reference != "" {
			status = domain.OrderStatusPaid
		}
	case domain.PaymentMethodWhatsApp:
		if reference == "" {
			reference = "WA-" + uuid.NewString()
		}
	}

	order := &domain.Order{
		CustomerName:     input.CustomerName,
		Email:            input.Email,
		Phone:            input.Phone,
		Address:          input.Address,
		City:             input.City,
		TotalAmount:      total,
		PaymentMethod:    input.PaymentMethod,
		PaymentReference: reference,
		Status:           status,
		Items:            items,
	}

	if err := s.orders.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	if order.Status == domain.OrderStatusPaid {
		s.finalizePaid(ctx, order)
	}

	return order, nil
}

// ListOrders returns every order, newest first, items included.
func (s *OrderService) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	return s.orders.ListOrders(ctx)
}

// UpdateStatus sets the order's status. Transitions are unconstrained: the
// admin panel is trusted to move orders freely, including backwards. Moving
// into PAID marks the referenced products sold and queues a receipt.
func (s *OrderService) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus, paymentReference string) (*domain.Order, error) {
	if !domain.ValidStatus(status) {
		return nil, fmt.Errorf("%w: unknown order status %q", ErrValidation, status)
	}

	order, err := s.orders.UpdateOrderStatus(ctx, id, status, paymentReference)
	if err != nil {
		return nil, err
	}

	if status == domain.OrderStatusPaid {
		s.finalizePaid(ctx, order)
	}

	return order, nil
}

func (s *OrderService) DeleteOrder(ctx context.Context, id int64) error {
	return s.orders.DeleteOrder(ctx, id)
}

// HandlePaystackEvent processes an already signature-verified webhook event.
// Unknown references are logged and dropped so the provider gets its success
// response and stops retrying.
func (s *OrderService) HandlePaystackEvent(ctx context.Context, event *paystack.Event) error {
	if event.Event != paystack.EventChargeSuccess {
		return nil
	}

	order, err := s.orders.GetOrderByPaymentReference(ctx, event.Data.Reference)
	if errors.Is(err, repository.ErrOrderNotFound) {
		log.Printf("webhook: no order with payment reference %q", event.Data.Reference)
		return nil
	}
	if err != nil {
		return fmt.Errorf("look up order by payment reference: %w", err)
	}

	_, err = s.UpdateStatus(ctx, order.ID, domain.OrderStatusPaid, event.Data.Reference)
	return err
}

// finalizePaid runs the side effects of a PAID transition. Both are
// best-effort: a failure here never fails the transition itself.
func (s *OrderService) finalizePaid(ctx context.Context, order *domain.Order) {
	if err := s.products.MarkProductsSold(ctx, order.ProductIDs()); err != nil {
		log.Printf("failed to mark products sold for order %d: %v", order.ID, err)
	}

	payload, err := json.Marshal(map[string]any{"orderId": order.ID})
	if err != nil {
		log.Printf("failed to marshal receipt event for order %d: %v", order.ID, err)
		return
	}
	event := &repository.OutboxEvent{
		ID:        uuid.New(),
		OrderID:   order.ID,
		EventType: publisher.EventOrderPaid,
		Payload:   payload,
	}
	if err := s.outbox.EnqueueEvent(ctx, event); err != nil {
		log.Printf("failed to enqueue receipt event for order %d: %v", order.ID, err)
	}
}

func validateCreateOrder(input CreateOrderInput) error {
	if len(input.Items) == 0 {
		return fmt.Errorf("%w: order must contain at least one item", ErrValidation)
	}
	if !domain.ValidPaymentMethod(input.PaymentMethod) {
		return fmt.Errorf("%w: unknown payment method %q", ErrValidation, input.PaymentMethod)
	}
	if input.CustomerName == "" {
		return fmt.Errorf("%w: customerName is required", ErrValidation)
	}
	for _, item := range input.Items {
		if item.ProductID <= 0 {
			return fmt.Errorf("%w: item productId is required", ErrValidation)
		}
		if item.Price < 0 {
			return fmt.Errorf("%w: item price must be a non-negative number", ErrValidation)
		}
		if item.Size == "" {
			return fmt.Errorf("%w: item size is required", ErrValidation)
		}
	}
	return nil
}
