package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/Mega4Real/ednascollectionnew/internal/domain"
)

const discountColumns = `id, code, type, value, min_quantity, usage_limit, used_count,
	is_active, expires_at, created_at`

func scanDiscount(row interface{ Scan(...any) error }, d *domain.DiscountCode) error {
	var (
		usageLimit sql.NullInt64
		expiresAt  sql.NullTime
	)
	err := row.Scan(
		&d.ID,
		&d.Code,
		&d.Type,
		&d.Value,
		&d.MinQuantity,
		&usageLimit,
		&d.UsedCount,
		&d.IsActive,
		&expiresAt,
		&d.CreatedAt,
	)
	if err != nil {
		return err
	}
	if usageLimit.Valid {
		limit := int(usageLimit.Int64)
		d.UsageLimit = &limit
	}
	if expiresAt.Valid {
		t := expiresAt.Time
		d.ExpiresAt = &t
	}
	return nil
}

func (r *Repository) ListDiscounts(ctx context.Context) ([]domain.DiscountCode, error) {
	query := `SELECT ` + discountColumns + ` FROM discount_codes ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query discounts: %w", err)
	}
	defer rows.Close()

	discounts := make([]domain.DiscountCode, 0)
	for rows.Next() {
		var d domain.DiscountCode
		if err := scanDiscount(rows, &d); err != nil {
			return nil, fmt.Errorf("scan discount row: %w", err)
		}
		discounts = append(discounts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return discounts, nil
}

func (r *Repository) GetDiscountByCode(ctx context.Context, code string) (*domain.DiscountCode, error) {
	query := `SELECT ` + discountColumns + ` FROM discount_codes WHERE code = $1`

	var d domain.DiscountCode
	err := scanDiscount(r.db.QueryRowContext(ctx, query, code), &d)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDiscountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query discount: %w", err)
	}
	return &d, nil
}

// CreateDiscount inserts the code and fills in the generated fields. A code
// collision surfaces as ErrDiscountCodeExists.
func (r *Repository) CreateDiscount(ctx context.Context, d *domain.DiscountCode) error {
	query := `INSERT INTO discount_codes (code, type, value, min_quantity, usage_limit, is_active, expires_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id, used_count, created_at`

	var usageLimit sql.NullInt64
	if d.UsageLimit != nil {
		usageLimit = sql.NullInt64{Int64: int64(*d.UsageLimit), Valid: true}
	}
	var expiresAt sql.NullTime
	if d.ExpiresAt != nil {
		expiresAt = sql.NullTime{Time: *d.ExpiresAt, Valid: true}
	}

	err := r.db.QueryRowContext(ctx, query,
		d.Code, d.Type, d.Value, d.MinQuantity, usageLimit, d.IsActive, expiresAt,
	).Scan(&d.ID, &d.UsedCount, &d.CreatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrDiscountCodeExists
	}
	if err != nil {
		return fmt.Errorf("insert discount: %w", err)
	}
	return nil
}

func (r *Repository) DeleteDiscount(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM discount_codes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete discount: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete discount rows affected: %w", err)
	}
	if affected == 0 {
		return ErrDiscountNotFound
	}
	return nil
}

// ToggleDiscount flips the active flag and returns the updated row.
func (r *Repository) ToggleDiscount(ctx context.Context, id int64) (*domain.DiscountCode, error) {
	query := `UPDATE discount_codes SET is_active = NOT is_active WHERE id = $1
	          RETURNING ` + discountColumns

	var d domain.DiscountCode
	err := scanDiscount(r.db.QueryRowContext(ctx, query, id), &d)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDiscountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("toggle discount: %w", err)
	}
	return &d, nil
}
