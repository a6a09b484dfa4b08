package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/go-taken/ocr-worker/internal/config"
	"github.com/go-taken/ocr-worker/internal/logging"
	"github.com/go-taken/ocr-worker/internal/metrics"
	"github.com/go-taken/ocr-worker/internal/ocr"
	"github.com/go-taken/ocr-worker/internal/server/handler"
	"github.com/go-taken/ocr-worker/internal/server/router"
	"github.com/go-taken/ocr-worker/internal/server/service"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// Run starts the HTTP server and blocks until SIGINT or SIGTERM.
func Run() error {
	config.LoadDotEnv()
	cfg := config.Load()
	logging.Setup(cfg.LogLevel, cfg.IsProd())

	// Set Gin mode based on environment
	if cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	if cfg.InternalKey == "" {
		log.Warn().Msg("X_INTERNAL_KEY is empty; POST /ocr accepts unauthenticated requests")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Build dependency chain
	m := metrics.New()
	resolver := ocr.NewResolver(func() ocr.Config { return config.Load().Engine() })
	defer func() {
		if err := resolver.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close ocr engine")
		}
	}()
	warmUp(ctx, resolver)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           NewHandler(cfg, resolver, m),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("engine", cfg.EngineName).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// NewHandler assembles the service graph on top of resolver.
func NewHandler(cfg *config.Config, resolver service.EngineResolver, m *metrics.Metrics) http.Handler {
	opts := service.Options{
		MaxImageBytes: cfg.MaxImageBytes,
		RawText:       cfg.EnableRawText,
	}
	var metricsHandler http.Handler
	if m != nil {
		opts.Recorder = m
		metricsHandler = m.Handler()
	}

	ocrService := service.NewOCRService(resolver, opts)
	ocrHandler := handler.NewOCRHandler(ocrService, cfg.MaxImageBytes)
	return router.New(cfg.InternalKey, ocrHandler, metricsHandler)
}

// warmUp builds the engine ahead of the first request. Failures are logged
// and retried on demand.
func warmUp(ctx context.Context, resolver service.EngineResolver) {
	engine, err := resolver.Resolve(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("ocr engine warm-up failed")
		return
	}
	log.Info().Str("engine", engine.Name()).Msg("ocr engine ready")
}
