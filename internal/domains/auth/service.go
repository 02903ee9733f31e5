package auth

import (
	"context"
	"time"
)

type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Register(ctx context.Context, req RegisterRequest) (*AdminUser, error)
}

// TokenIssuer is implemented by jwt.Manager.
type TokenIssuer interface {
	GenerateAccessToken(adminID int64, email string) (string, time.Time, error)
}
