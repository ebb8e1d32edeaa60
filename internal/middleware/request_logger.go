package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RequestIDHeader is the response header carrying the generated request ID.
const RequestIDHeader = "X-Request-ID"

// RequestLogger tags each request with a UUID and logs method, path, status
// and latency once the handler chain completes.
func RequestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.NewString()
		c.Set("requestID", requestID)
		c.Header(RequestIDHeader, requestID)

		start := time.Now()
		c.Next()

		logger.Info().
			Str("requestId", requestID).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("Request handled")
	}
}
