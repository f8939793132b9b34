package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/azeem8271/trek-tours/internal/pkg/logger"
)

// RequestLogger logs each request with method, path, status and duration.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("ip", c.ClientIP()).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("Request handled")
	}
}
