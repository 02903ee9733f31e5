package middleware

import (
	"github.com/gin-gonic/gin"

	"addressbook-backend/internal/shared/utils"
)

const ContextClientIP = "client_ip"

// ClientIPMiddleware resolves the caller's address once per request.
func ClientIPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextClientIP, utils.ExtractClientIP(c))
		c.Next()
	}
}

// GetClientIP falls back to gin's ClientIP when the middleware did not run.
func GetClientIP(c *gin.Context) string {
	if ip := c.GetString(ContextClientIP); ip != "" {
		return ip
	}
	return c.ClientIP()
}
