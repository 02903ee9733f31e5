package middleware

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS allows the configured origins. "*" allows any origin without credentials.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Authorization", "Content-Type", HeaderRequestID},
		ExposeHeaders: []string{"Content-Disposition", "Location", HeaderRequestID},
		MaxAge:        10 * time.Minute,
	}

	if len(allowedOrigins) == 0 || slices.Contains(allowedOrigins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		for _, o := range allowedOrigins {
			cfg.AllowOrigins = append(cfg.AllowOrigins, strings.TrimRight(o, "/"))
		}
		cfg.AllowCredentials = true
	}

	return cors.New(cfg)
}
