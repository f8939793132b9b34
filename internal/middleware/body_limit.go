package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// MaxBodyBytes caps request body size. Payloads here are small JSON
// documents; anything larger is rejected before binding.
const MaxBodyBytes = 1 << 20 // 1 MiB

// BodyLimit wraps the request body so reads past MaxBodyBytes fail.
// Oversized bodies surface as a bind error and are reported as 400.
func BodyLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)
		c.Next()
	}
}
