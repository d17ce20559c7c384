package publisher

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/Mega4Real/ednascollectionnew/internal/email"
	"github.com/Mega4Real/ednascollectionnew/internal/repository"
)

// EventOrderPaid is recorded when an order transitions into PAID and the
// customer should receive a receipt.
const EventOrderPaid = "order.paid"

// OutboxPoller drains pending order events and dispatches their side effects.
// Failures leave the event unprocessed so it is retried on the next tick; the
// order flow that enqueued it is never affected.
type OutboxPoller struct {
	tick      time.Duration
	batchSize int
	outbox    repository.OutboxRepository
	orders    repository.OrderRepository
	sender    email.ReceiptSender
}

func NewOutboxPoller(outbox repository.OutboxRepository, orders repository.OrderRepository, sender email.ReceiptSender) *OutboxPoller {
	return &OutboxPoller{
		tick:      time.Second,
		batchSize: 100,
		outbox:    outbox,
		orders:    orders,
		sender:    sender,
	}
}

func (p *OutboxPoller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			p.processUnprocessedEvents(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (p *OutboxPoller) processUnprocessedEvents(ctx context.Context) {
	events, err := p.outbox.GetUnprocessedEvents(ctx, p.batchSize)
	if err != nil {
		log.Printf("failed to fetch outbox events: %v", err)
		return
	}

	for _, event := range events {
		if errDispatch := p.dispatch(ctx, event); errDispatch != nil {
			log.Printf("failed to dispatch event id = %v with error %v", event.ID, errDispatch)
			continue
		}

		if errMark := p.outbox.MarkEventProcessed(ctx, event.ID); errMark != nil {
			log.Printf("failed to mark event as processed id = %v with error %v", event.ID, errMark)
		}
	}
}

func (p *OutboxPoller) dispatch(ctx context.Context, event *repository.OutboxEvent) error {
	if event.EventType != EventOrderPaid {
		log.Printf("skipping unknown event type %q id = %v", event.EventType, event.ID)
		return nil
	}

	order, err := p.orders.GetOrder(ctx, event.OrderID)
	if errors.Is(err, repository.ErrOrderNotFound) {
		// The order was deleted before the receipt went out; nothing to send.
		log.Printf("order %d gone before receipt dispatch, dropping event %v", event.OrderID, event.ID)
		return nil
	}
	if err != nil {
		return err
	}

	return p.sender.SendOrderReceipt(ctx, order)
}
