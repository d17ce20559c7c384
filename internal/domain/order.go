package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusCancelled OrderStatus = "CANCELLED"
	OrderStatusCompleted OrderStatus = "COMPLETED"
)

// ValidStatus reports whether s is one of the known order states.
func ValidStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusCancelled, OrderStatusCompleted:
		return true
	}
	return false
}

type PaymentMethod string

const (
	// PaymentMethodWhatsApp is the manual flow: the customer finalizes
	// payment over WhatsApp and an admin confirms it later.
	PaymentMethodWhatsApp PaymentMethod = "WHATSAPP"
	// PaymentMethodPaystack is the online card / mobile-money flow.
	PaymentMethodPaystack PaymentMethod = "PAYSTACK"
)

func ValidPaymentMethod(m PaymentMethod) bool {
	return m == PaymentMethodWhatsApp || m == PaymentMethodPaystack
}

// OrderItem snapshots the size and price the customer agreed to at order
// time. Product is filled on reads when the referenced product still
// exists; it stays nil once the product has been deleted.
type OrderItem struct {
	ID        int64    `json:"id"`
	ProductID int64    `json:"productId"`
	Size      string   `json:"size"`
	Price     float64  `json:"price"`
	Product   *Product `json:"product,omitempty"`
}

type Order struct {
	ID               int64         `json:"id"`
	CustomerName     string        `json:"customerName"`
	Email            string        `json:"email"`
	Phone            string        `json:"phone"`
	Address          string        `json:"address"`
	City             string        `json:"city"`
	TotalAmount      float64       `json:"totalAmount"`
	PaymentMethod    PaymentMethod `json:"paymentMethod"`
	PaymentReference string        `json:"paymentReference,omitempty"`
	Status           OrderStatus   `json:"status"`
	Items            []OrderItem   `json:"items"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`
}

// ProductIDs returns the distinct product ids referenced by the order's items.
func (o *Order) ProductIDs() []int64 {
	seen := make(map[int64]struct{}, len(o.Items))
	ids := make([]int64, 0, len(o.Items))
	for _, item := range o.Items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}
