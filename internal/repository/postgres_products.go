package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/Mega4Real/ednascollectionnew/internal/domain"
)

const productColumns = `id, image_url, COALESCE(video_url, ''), price, sizes, position, is_sold, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }, p *domain.Product) error {
	return row.Scan(
		&p.ID,
		&p.ImageURL,
		&p.VideoURL,
		&p.Price,
		pq.Array(&p.Sizes),
		&p.Position,
		&p.IsSold,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
}

func (r *Repository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY position ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		var p domain.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return products, nil
}

func (r *Repository) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	var p domain.Product
	err := scanProduct(r.db.QueryRowContext(ctx, query, id), &p)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query product by id: %w", err)
	}
	return &p, nil
}

// CreateProduct inserts p at the tail of the display order (max position + 1)
// and fills in its generated id, position and timestamps.
func (r *Repository) CreateProduct(ctx context.Context, p *domain.Product) error {
	query := `INSERT INTO products (image_url, video_url, price, sizes, position, is_sold)
	          VALUES ($1, NULLIF($2, ''), $3, $4,
	                  (SELECT COALESCE(MAX(position), 0) + 1 FROM products), $5)
	          RETURNING id, position, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		p.ImageURL,
		p.VideoURL,
		p.Price,
		pq.Array(p.Sizes),
		p.IsSold,
	).Scan(&p.ID, &p.Position, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *Repository) UpdateProduct(ctx context.Context, p *domain.Product) error {
	query := `UPDATE products
	          SET image_url = $2, video_url = NULLIF($3, ''), price = $4, sizes = $5,
	              is_sold = $6, updated_at = NOW()
	          WHERE id = $1
	          RETURNING position, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		p.ID,
		p.ImageURL,
		p.VideoURL,
		p.Price,
		pq.Array(p.Sizes),
		p.IsSold,
	).Scan(&p.Position, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrProductNotFound
	}
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

func (r *Repository) DeleteProduct(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete product rows affected: %w", err)
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// ReorderProducts assigns position = index + 1 for every id in ids, in one
// transaction. An unknown id aborts the whole operation.
func (r *Repository) ReorderProducts(ctx context.Context, ids []int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reorder tx: %w", err)
	}
	defer tx.Rollback()

	var known int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM products WHERE id = ANY($1)`,
		pq.Array(ids),
	).Scan(&known)
	if err != nil {
		return fmt.Errorf("count reorder ids: %w", err)
	}
	if known != len(ids) {
		return ErrProductNotFound
	}

	for i, id := range ids {
		if _, err := tx.ExecContext(ctx,
			`UPDATE products SET position = $2, updated_at = NOW() WHERE id = $1`,
			id, i+1,
		); err != nil {
			return fmt.Errorf("update position for product %d: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reorder tx: %w", err)
	}
	return nil
}

// MarkProductsSold flips is_sold on every listed product. Ids that no longer
// exist are skipped silently; historical orders may reference deleted products.
func (r *Repository) MarkProductsSold(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE products SET is_sold = TRUE, updated_at = NOW() WHERE id = ANY($1)`,
		pq.Array(ids),
	)
	if err != nil {
		return fmt.Errorf("mark products sold: %w", err)
	}
	return nil
}
