package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"addressbook-backend/internal/domains/auth"
)

type stubService struct {
	loginErr    error
	registerErr error
}

func (s *stubService) Login(_ context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return &auth.LoginResponse{Token: "token-for-" + req.Email}, nil
}

func (s *stubService) Register(_ context.Context, req auth.RegisterRequest) (*auth.AdminUser, error) {
	if s.registerErr != nil {
		return nil, s.registerErr
	}
	return &auth.AdminUser{ID: 1, Username: req.Username, Email: req.Email}, nil
}

func serve(svc auth.Service, path, body string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewAuthHandler(svc).RegisterRoutes(r.Group("/api"))

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLogin(t *testing.T) {
	w := serve(&stubService{}, "/api/auth/login", `{"email":"a@example.com","password":"x"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"token":"token-for-a@example.com"}`, w.Body.String())

	w = serve(&stubService{loginErr: auth.ErrInvalidCredentials}, "/api/auth/login", `{"email":"a@example.com","password":"x"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"code":"INVALID_CREDENTIALS","message":"invalid email or password"}`, w.Body.String())

	w = serve(&stubService{}, "/api/auth/login", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegister(t *testing.T) {
	body := `{"username":"admin","email":"a@example.com","password":"x"}`

	w := serve(&stubService{}, "/api/auth/register", body)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Registration successful"}`, w.Body.String())

	w = serve(&stubService{registerErr: auth.ErrEmailAlreadyExists}, "/api/auth/register", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"code":"EMAIL_ALREADY_EXISTS","message":"email already exists"}`, w.Body.String())

	w = serve(&stubService{registerErr: errors.New("db down")}, "/api/auth/register", body)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
