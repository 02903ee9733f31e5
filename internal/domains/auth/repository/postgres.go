package repository

import (
	"context"
	"fmt"

	"addressbook-backend/internal/domains/auth"
	"addressbook-backend/internal/infrastructure/database"
)

type postgresRepository struct {
	db database.Querier
}

func NewPostgresRepository(db database.Querier) auth.Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) GetByEmail(ctx context.Context, email string) (*auth.AdminUser, error) {
	var a auth.AdminUser
	err := r.db.QueryRow(ctx,
		`SELECT id, username, email, password_hash, created_at FROM admin_users WHERE lower(email) = lower($1)`,
		email,
	).Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, auth.ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to get admin by email: %w", err)
	}
	return &a, nil
}

func (r *postgresRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM admin_users WHERE lower(email) = lower($1))`,
		email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check admin email: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) Create(ctx context.Context, admin *auth.AdminUser) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO admin_users (username, email, password_hash) VALUES ($1, $2, $3) RETURNING id, created_at`,
		admin.Username, admin.Email, admin.PasswordHash,
	).Scan(&admin.ID, &admin.CreatedAt)
	if err != nil {
		if database.PgErrorCode(err) == database.UniqueViolation {
			return auth.ErrEmailAlreadyExists
		}
		return fmt.Errorf("failed to create admin: %w", err)
	}
	return nil
}
