package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

func (r *Repository) EnqueueEvent(ctx context.Context, event *OutboxEvent) error {
	query := `INSERT INTO order_events (id, order_id, event_type, payload, processed)
	          VALUES ($1, $2, $3, $4, FALSE)
	          RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		event.ID,
		event.OrderID,
		event.EventType,
		event.Payload,
	).Scan(&event.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert outbox event: %w", err)
	}
	return nil
}

func (r *Repository) GetUnprocessedEvents(ctx context.Context, limit int) ([]*OutboxEvent, error) {
	query := `SELECT id, order_id, event_type, payload, processed, created_at
	          FROM order_events
	          WHERE processed = FALSE
	          ORDER BY created_at ASC
	          LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query outbox events: %w", err)
	}
	defer rows.Close()

	var events []*OutboxEvent
	for rows.Next() {
		var e OutboxEvent
		if err := rows.Scan(&e.ID, &e.OrderID, &e.EventType, &e.Payload, &e.Processed, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan outbox event row: %w", err)
		}
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return events, nil
}

func (r *Repository) MarkEventProcessed(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE order_events SET processed = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark outbox event processed: %w", err)
	}
	return nil
}
