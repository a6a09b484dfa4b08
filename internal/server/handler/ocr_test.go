package handler

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/go-taken/ocr-worker/internal/ocr"
	"github.com/go-taken/ocr-worker/internal/ocrerr"
	"github.com/go-taken/ocr-worker/internal/server/middleware"
)

const handlerExpectedText = "TEST LINE"

type fakeService struct {
	result *ocr.Result
	err    error
	data   []byte
	id     string
	called bool
}

func (f *fakeService) Process(ctx context.Context, requestID string, data []byte) (*ocr.Result, error) {
	f.called = true
	f.id = requestID
	f.data = data
	if f.err != nil {
		return nil, f.err
	}
	res := *f.result
	res.RequestID = requestID
	return &res, nil
}

func newRouter(h *OCRHandler) *gin.Engine {
	_, r := gin.CreateTestContext(httptest.NewRecorder())
	r.Use(middleware.RequestID())
	r.POST("/ocr", h.HandleOCR)
	return r
}

func TestOCRHandler_Success(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeService{result: &ocr.Result{
		Engine:     "fake",
		Confidence: 0.9,
		Lines:      []ocr.Line{{Text: handlerExpectedText, Confidence: 0.9}},
	}}
	r := newRouter(NewOCRHandler(svc, 0))

	w := httptest.NewRecorder()
	req := newMultipartRequest(t, ImageField, []byte("image-bytes"))
	req.Header.Set(middleware.RequestIDHeader, "req-1")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "application/json") {
		t.Fatalf("expected json content type got %s", ct)
	}
	body := w.Body.String()
	for _, want := range []string{handlerExpectedText, `"requestId":"req-1"`, `"engine":"fake"`, `"processingTimeMs":0`} {
		if !strings.Contains(body, want) {
			t.Fatalf("body missing %s: %s", want, body)
		}
	}
	if strings.Contains(body, "rawText") {
		t.Fatalf("rawText must be omitted when unset: %s", body)
	}
	if string(svc.data) != "image-bytes" || svc.id != "req-1" {
		t.Fatalf("service got id=%q data=%q", svc.id, svc.data)
	}
}

func TestOCRHandler_MethodNotAllowed(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := newRouter(NewOCRHandler(&fakeService{}, 0))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ocr", nil))

	// Gin returns 404 for method not allowed on unregistered routes
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", w.Code)
	}
}

func TestOCRHandler_EmptyInputForwarded(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := map[string]func(t *testing.T) *http.Request{
		"not multipart": func(t *testing.T) *http.Request {
			return httptest.NewRequest(http.MethodPost, "/ocr", bytes.NewBufferString("invalid"))
		},
		"missing part": func(t *testing.T) *http.Request {
			return newMultipartRequest(t, "file", []byte("image-bytes"))
		},
	}

	for name, build := range tests {
		t.Run(name, func(t *testing.T) {
			svc := &fakeService{err: ocrerr.New(ocrerr.InvalidImage, ocrerr.MsgInvalidImage)}
			r := newRouter(NewOCRHandler(svc, 0))

			w := httptest.NewRecorder()
			r.ServeHTTP(w, build(t))

			if !svc.called || len(svc.data) != 0 {
				t.Fatalf("expected service to receive empty input, called=%v len=%d", svc.called, len(svc.data))
			}
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400 got %d", w.Code)
			}
			if !strings.Contains(w.Body.String(), `"code":"INVALID_IMAGE"`) {
				t.Fatalf("unexpected body: %s", w.Body.String())
			}
		})
	}
}

func TestOCRHandler_OversizedBody(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeService{}
	r := newRouter(NewOCRHandler(svc, 10))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, newMultipartRequest(t, ImageField, bytes.Repeat([]byte("x"), 2*multipartOverhead)))

	if svc.called {
		t.Fatal("service must not run for a body past the transport limit")
	}
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413 got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"code":"IMAGE_TOO_LARGE"`) {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestOCRHandler_ReadsOnePastLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeService{err: ocrerr.New(ocrerr.ImageTooLarge, ocrerr.MsgImageTooLarge)}
	r := newRouter(NewOCRHandler(svc, 10))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, newMultipartRequest(t, ImageField, bytes.Repeat([]byte("x"), 500)))

	if len(svc.data) != 11 {
		t.Fatalf("expected 11 bytes forwarded, got %d", len(svc.data))
	}
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413 got %d", w.Code)
	}
}

func TestOCRHandler_ServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"unavailable", ocrerr.Unavailable("Vision OCR is disabled.", nil), http.StatusServiceUnavailable, "OCR_UNAVAILABLE"},
		{"unsupported", ocrerr.New(ocrerr.UnsupportedEngine, "Unsupported OCR engine: paddle"), http.StatusBadRequest, "UNSUPPORTED_ENGINE"},
		{"unclassified", errors.New("boom"), http.StatusInternalServerError, "OCR_FAILED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(NewOCRHandler(&fakeService{err: tt.err}, 0))

			w := httptest.NewRecorder()
			r.ServeHTTP(w, newMultipartRequest(t, ImageField, []byte("image-bytes")))

			if w.Code != tt.status {
				t.Fatalf("expected %d got %d", tt.status, w.Code)
			}
			if !strings.Contains(w.Body.String(), `"code":"`+tt.code+`"`) {
				t.Fatalf("unexpected body: %s", w.Body.String())
			}
			if strings.Contains(w.Body.String(), "boom") {
				t.Fatalf("internal detail leaked: %s", w.Body.String())
			}
		})
	}
}

func newMultipartRequest(t *testing.T, field string, data []byte) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile(field, "scan.png")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part: %v", err)
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/ocr", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}
