package middleware

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
)

const (
	ContextRequestID = "request_id"
	HeaderRequestID  = "X-Request-ID"
)

// RequestID reuses an incoming X-Request-ID or generates a UUID, echoes it
// in the response and stores it under ContextRequestID for the loggers.
func RequestID() gin.HandlerFunc {
	return requestid.New(
		requestid.WithCustomHeaderStrKey(requestid.HeaderStrKey(HeaderRequestID)),
		requestid.WithHandler(func(c *gin.Context, id string) {
			c.Set(ContextRequestID, id)
		}),
	)
}
