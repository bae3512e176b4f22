package middleware

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/gin-gonic/gin"
)

// RequestIDHeaderKey is the header carrying the request ID
const RequestIDHeaderKey = "X-Request-ID"

// RequestID attaches a request ID to every request, reusing the
// caller's ID when one is supplied
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeaderKey)
		if requestID == "" {
			requestID = generateRequestID()
		}
		c.Set(RequestIDHeaderKey, requestID)
		c.Writer.Header().Set(RequestIDHeaderKey, requestID)
		c.Next()
	}
}

// generateRequestID creates a random hex request ID
func generateRequestID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "unknown"
	}
	return hex.EncodeToString(buf)
}
