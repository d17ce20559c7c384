package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

func (r *Repository) GetAdminByUsername(ctx context.Context, username string) (*Admin, error) {
	var a Admin
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash FROM admins WHERE username = $1`,
		username).Scan(&a.ID, &a.Username, &a.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAdminNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query admin by username: %w", err)
	}
	return &a, nil
}
