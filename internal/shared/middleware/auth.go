package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"addressbook-backend/internal/shared/response"
	"addressbook-backend/pkg/jwt"
)

// Context keys set by AuthMiddleware.
const (
	ContextAdminID = "admin_id"
	ContextEmail   = "email"
)

// TokenValidator is satisfied by *jwt.Manager.
type TokenValidator interface {
	ValidateToken(tokenString string) (*jwt.Claims, error)
}

// AuthMiddleware requires a valid "Authorization: Bearer <token>" header.
func AuthMiddleware(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "missing authorization header")
			return
		}

		scheme, token, found := strings.Cut(authHeader, " ")
		token = strings.TrimSpace(token)
		if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
			response.Unauthorized(c, "invalid authorization header format")
			return
		}

		claims, err := tokens.ValidateToken(token)
		if err != nil {
			log.Debug().
				Err(err).
				Str("request_id", c.GetString(ContextRequestID)).
				Msg("[AUTH] Token rejected")

			if errors.Is(err, jwt.ErrTokenExpired) {
				response.Unauthorized(c, "token has expired")
				return
			}
			response.Unauthorized(c, "invalid token")
			return
		}

		if claims.AdminID <= 0 {
			response.Unauthorized(c, "invalid admin id in token")
			return
		}

		c.Set(ContextAdminID, claims.AdminID)
		c.Set(ContextEmail, claims.Email)

		c.Next()
	}
}

// GetAdminID returns the authenticated admin id, if any.
func GetAdminID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(ContextAdminID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
