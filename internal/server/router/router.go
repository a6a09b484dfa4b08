package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/go-taken/ocr-worker/internal/server/middleware"
)

// OCRHandler defines the interface for the OCR handler.
type OCRHandler interface {
	HandleOCR(c *gin.Context)
}

// New wires up handlers to the Gin engine. metrics may be nil.
func New(apiKey string, ocrHandler OCRHandler, metrics http.Handler) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.AccessLog("/health", "/healthz", "/metrics"),
		middleware.Recovery(),
	)

	// Health checks (no auth)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	if metrics != nil {
		r.GET("/metrics", gin.WrapH(metrics))
	}

	r.POST("/ocr", middleware.WithAPIKey(apiKey), ocrHandler.HandleOCR)

	return r
}
