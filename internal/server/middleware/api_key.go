package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	"github.com/go-taken/ocr-worker/internal/ocrerr"
	"github.com/go-taken/ocr-worker/internal/server/respond"
)

// InternalKeyHeader carries the shared secret between the API and the worker.
const InternalKeyHeader = "X-INTERNAL-KEY"

// WithAPIKey enforces the X-INTERNAL-KEY header when key is non-empty.
// Rejected requests never reach the engine.
func WithAPIKey(key string) gin.HandlerFunc {
	expected := []byte(key)
	return func(c *gin.Context) {
		if key == "" {
			c.Next()
			return
		}

		provided := []byte(c.GetHeader(InternalKeyHeader))
		if subtle.ConstantTimeCompare(provided, expected) != 1 {
			respond.Failure(c, GetRequestID(c), ocrerr.New(ocrerr.Unauthorized, ocrerr.MsgUnauthorized))
			return
		}

		c.Next()
	}
}
