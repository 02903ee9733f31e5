package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"addressbook-backend/internal/domains/auth"
)

// DefaultBcryptCost is used for admin passwords unless overridden.
const DefaultBcryptCost = 12

type authService struct {
	repo       auth.Repository
	tokens     auth.TokenIssuer
	bcryptCost int
}

func NewAuthService(repo auth.Repository, tokens auth.TokenIssuer, bcryptCost int) auth.Service {
	if bcryptCost == 0 {
		bcryptCost = DefaultBcryptCost
	}
	return &authService{
		repo:       repo,
		tokens:     tokens,
		bcryptCost: bcryptCost,
	}
}

// Login never tells an unknown email apart from a wrong password.
func (s *authService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	admin, err := s.repo.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, auth.ErrAdminNotFound) {
			return nil, auth.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		return nil, auth.ErrInvalidCredentials
	}

	token, _, err := s.tokens.GenerateAccessToken(admin.ID, admin.Email)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	log.Info().Int64("admin_id", admin.ID).Msg("[AUTH] Admin logged in")
	return &auth.LoginResponse{Token: token}, nil
}

func (s *authService) Register(ctx context.Context, req auth.RegisterRequest) (*auth.AdminUser, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = normalizeEmail(req.Email)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email exists: %w", err)
	}
	if exists {
		return nil, auth.ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	admin := &auth.AdminUser{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	// a concurrent registration surfaces as ErrEmailAlreadyExists from the unique constraint
	if err := s.repo.Create(ctx, admin); err != nil {
		return nil, err
	}

	log.Info().Int64("admin_id", admin.ID).Str("email", admin.Email).Msg("[AUTH] Admin registered")
	return admin, nil
}

// Emails are compared case-insensitively; admin_users has a unique index on lower(email).
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
