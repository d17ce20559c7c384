package email

import (
	"context"

	"github.com/Mega4Real/ednascollectionnew/internal/domain"
)

// ReceiptSender delivers an order receipt to the customer. Delivery is
// best-effort; callers log failures and move on.
type ReceiptSender interface {
	SendOrderReceipt(ctx context.Context, order *domain.Order) error
}
