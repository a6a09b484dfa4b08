package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/go-taken/ocr-worker/internal/imaging"
	"github.com/go-taken/ocr-worker/internal/ocr"
	"github.com/go-taken/ocr-worker/internal/ocrerr"
	"github.com/go-taken/ocr-worker/internal/server/middleware"
	"github.com/go-taken/ocr-worker/internal/server/respond"
)

// ImageField is the multipart part carrying the upload.
const ImageField = "image"

// multipartOverhead leaves room for boundaries and part headers on top of
// the image limit.
const multipartOverhead = 1 << 20

// OCRService defines the behavior consumed by the handler.
type OCRService interface {
	Process(ctx context.Context, requestID string, data []byte) (*ocr.Result, error)
}

// OCRHandler manages OCR HTTP interactions.
type OCRHandler struct {
	service  OCRService
	maxBytes int64
}

// NewOCRHandler builds the handler. maxBytes bounds how much of the upload
// is read; non-positive selects the default limit.
func NewOCRHandler(svc OCRService, maxBytes int64) *OCRHandler {
	if maxBytes <= 0 {
		maxBytes = imaging.DefaultMaxBytes
	}
	return &OCRHandler{service: svc, maxBytes: maxBytes}
}

// HandleOCR recognizes text in the uploaded image.
func (h *OCRHandler) HandleOCR(c *gin.Context) {
	requestID := middleware.GetRequestID(c)

	data, err := h.readImage(c)
	if err != nil {
		respond.Failure(c, requestID, err)
		return
	}

	res, err := h.service.Process(c.Request.Context(), requestID, data)
	if err != nil {
		respond.Failure(c, requestID, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// readImage returns the bytes of the image part. A request that is not
// multipart or lacks the part yields empty input, which validation rejects.
func (h *OCRHandler) readImage(c *gin.Context) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+multipartOverhead)

	header, err := c.FormFile(ImageField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, ocrerr.Wrap(ocrerr.ImageTooLarge, ocrerr.MsgImageTooLarge, err)
		}
		return nil, nil
	}

	file, err := header.Open()
	if err != nil {
		return nil, ocrerr.Wrap(ocrerr.InvalidImage, ocrerr.MsgInvalidImage, err)
	}
	defer file.Close()

	// One byte past the limit is enough for the size check to fire.
	data, err := io.ReadAll(io.LimitReader(file, h.maxBytes+1))
	if err != nil {
		return nil, ocrerr.Wrap(ocrerr.InvalidImage, ocrerr.MsgInvalidImage, err)
	}
	return data, nil
}
