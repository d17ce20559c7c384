package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/Mega4Real/ednascollectionnew/internal/domain"
)

const orderColumns = `id, customer_name, email, phone, address, city, total_amount,
	payment_method, COALESCE(payment_reference, ''), status, created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }, o *domain.Order) error {
	return row.Scan(
		&o.ID,
		&o.CustomerName,
		&o.Email,
		&o.Phone,
		&o.Address,
		&o.City,
		&o.TotalAmount,
		&o.PaymentMethod,
		&o.PaymentReference,
		&o.Status,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
}

// CreateOrder persists the order and its items in a single transaction and
// fills in the generated ids and timestamps.
func (r *Repository) CreateOrder(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create order tx: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO orders (customer_name, email, phone, address, city, total_amount,
	                              payment_method, payment_reference, status)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9)
	          RETURNING id, created_at, updated_at`

	err = tx.QueryRowContext(ctx, query,
		order.CustomerName,
		order.Email,
		order.Phone,
		order.Address,
		order.City,
		order.TotalAmount,
		order.PaymentMethod,
		order.PaymentReference,
		order.Status,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for i := range order.Items {
		item := &order.Items[i]
		err = tx.QueryRowContext(ctx,
			`INSERT INTO order_items (order_id, product_id, size, price)
			 VALUES ($1, $2, $3, $4) RETURNING id`,
			order.ID, item.ProductID, item.Size, item.Price,
		).Scan(&item.ID)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create order tx: %w", err)
	}
	return nil
}

func (r *Repository) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	orders := make([]*domain.Order, 0)
	byID := make(map[int64]*domain.Order)
	ids := make([]int64, 0)
	for rows.Next() {
		var o domain.Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		o.Items = []domain.OrderItem{}
		orders = append(orders, &o)
		byID[o.ID] = &o
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	if len(orders) == 0 {
		return orders, nil
	}

	items, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for orderID, orderItems := range items {
		byID[orderID].Items = orderItems
	}
	return orders, nil
}

func (r *Repository) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	return r.getOrderWhere(ctx, `id = $1`, id)
}

func (r *Repository) GetOrderByPaymentReference(ctx context.Context, reference string) (*domain.Order, error) {
	return r.getOrderWhere(ctx, `payment_reference = $1`, reference)
}

func (r *Repository) getOrderWhere(ctx context.Context, where string, arg any) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE ` + where

	var o domain.Order
	err := scanOrder(r.db.QueryRowContext(ctx, query, arg), &o)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order: %w", err)
	}

	items, err := r.loadItems(ctx, []int64{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = items[o.ID]
	if o.Items == nil {
		o.Items = []domain.OrderItem{}
	}
	return &o, nil
}

// loadItems fetches items for the given order ids, joining the referenced
// product when it still exists. Deleted products leave Item.Product nil.
func (r *Repository) loadItems(ctx context.Context, orderIDs []int64) (map[int64][]domain.OrderItem, error) {
	query := `SELECT oi.order_id, oi.id, oi.product_id, oi.size, oi.price,
	                 p.id, p.image_url, COALESCE(p.video_url, ''), p.price, p.sizes,
	                 p.position, p.is_sold, p.created_at, p.updated_at
	          FROM order_items oi
	          LEFT JOIN products p ON p.id = oi.product_id
	          WHERE oi.order_id = ANY($1)
	          ORDER BY oi.id ASC`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(orderIDs))
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	result := make(map[int64][]domain.OrderItem)
	for rows.Next() {
		var (
			orderID int64
			item    domain.OrderItem
			p       domain.Product
			pID     sql.NullInt64
			pImage  sql.NullString
			pVideo  sql.NullString
			pPrice  sql.NullFloat64
			pPos    sql.NullInt64
			pSold   sql.NullBool
			pCreate sql.NullTime
			pUpdate sql.NullTime
		)
		err := rows.Scan(
			&orderID,
			&item.ID,
			&item.ProductID,
			&item.Size,
			&item.Price,
			&pID,
			&pImage,
			&pVideo,
			&pPrice,
			pq.Array(&p.Sizes),
			&pPos,
			&pSold,
			&pCreate,
			&pUpdate,
		)
		if err != nil {
			return nil, fmt.Errorf("scan order item row: %w", err)
		}
		if pID.Valid {
			p.ID = pID.Int64
			p.ImageURL = pImage.String
			p.VideoURL = pVideo.String
			p.Price = pPrice.Float64
			p.Position = int(pPos.Int64)
			p.IsSold = pSold.Bool
			p.CreatedAt = pCreate.Time
			p.UpdatedAt = pUpdate.Time
			item.Product = &p
		}
		result[orderID] = append(result[orderID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return result, nil
}

// UpdateOrderStatus sets the status (and, when non-empty, the payment
// reference) and returns the refreshed order with its items.
func (r *Repository) UpdateOrderStatus(ctx context.Context, id int64, status domain.OrderStatus, paymentReference string) (*domain.Order, error) {
	query := `UPDATE orders
	          SET status = $2,
	              payment_reference = COALESCE(NULLIF($3, ''), payment_reference),
	              updated_at = NOW()
	          WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, status, paymentReference)
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update order status rows affected: %w", err)
	}
	if affected == 0 {
		return nil, ErrOrderNotFound
	}

	return r.GetOrder(ctx, id)
}

// DeleteOrder removes the order and its items as one transaction.
func (r *Repository) DeleteOrder(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete order tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = $1`, id); err != nil {
		return fmt.Errorf("delete order items: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete order rows affected: %w", err)
	}
	if affected == 0 {
		return ErrOrderNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete order tx: %w", err)
	}
	return nil
}
