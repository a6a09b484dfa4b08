package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/go-taken/ocr-worker/internal/ocrerr"
	"github.com/go-taken/ocr-worker/internal/server/respond"
)

// Recovery turns a handler panic into an OCR_FAILED response.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		log.Error().
			Str("request_id", GetRequestID(c)).
			Interface("panic", recovered).
			Str("path", c.Request.URL.Path).
			Msg("handler panic")
		respond.Failure(c, GetRequestID(c), ocrerr.New(ocrerr.OCRFailed, ocrerr.MsgOCRFailed))
	})
}
