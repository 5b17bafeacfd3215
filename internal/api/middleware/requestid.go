package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader is the response header carrying the per-request
// correlation id.
const RequestIDHeader = "X-Request-ID"

// requestIDKey is the gin context key RequestIDFrom reads.
const requestIDKey = "request_id"

// RequestID assigns every request a correlation id: the caller's own
// X-Request-ID if it sent one, a fresh UUID otherwise. The id is echoed
// back on the response and stored in the gin context so handlers can
// attach it to their log lines.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.Request.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(RequestIDHeader, requestID)
		c.Next()
	}
}

// RequestIDFrom returns the correlation id RequestID stored for this
// request, or "" if the middleware is not installed.
func RequestIDFrom(c *gin.Context) string {
	if id, ok := c.Get(requestIDKey); ok {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return ""
}
