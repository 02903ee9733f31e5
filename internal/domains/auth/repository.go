package auth

import "context"

// Repository persists admin accounts.
type Repository interface {
	// GetByEmail returns ErrAdminNotFound when no account uses email.
	GetByEmail(ctx context.Context, email string) (*AdminUser, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Create fills ID and CreatedAt. A duplicate email yields ErrEmailAlreadyExists.
	Create(ctx context.Context, admin *AdminUser) error
}
