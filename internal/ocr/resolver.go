package ocr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/go-taken/ocr-worker/internal/ocrerr"
)

// ConfigSource returns the configuration to resolve against. It is consulted
// only when no engine is cached.
type ConfigSource func() Config

// Factory turns a configuration into a ready engine.
type Factory func(ctx context.Context, cfg Config) (Engine, error)

// Resolver lazily builds a single engine and caches it until Invalidate.
type Resolver struct {
	source  ConfigSource
	factory Factory

	mu     sync.Mutex
	engine Engine
}

// ResolverOption customizes a Resolver.
type ResolverOption func(*Resolver)

// WithFactory replaces the engine factory, typically with a stub in tests.
func WithFactory(f Factory) ResolverOption {
	return func(r *Resolver) {
		r.factory = f
	}
}

// NewResolver returns a resolver reading its configuration from source.
func NewResolver(source ConfigSource, opts ...ResolverOption) *Resolver {
	r := &Resolver{source: source, factory: Build}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the cached engine, building it on first use. Construction
// happens at most once even with concurrent callers. Failed constructions
// are not cached.
func (r *Resolver) Resolve(ctx context.Context) (Engine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.engine != nil {
		return r.engine, nil
	}

	cfg := r.source()
	e, err := r.factory(context.WithoutCancel(ctx), cfg)
	if err != nil {
		return nil, err
	}
	log.Info().Str("engine", e.Name()).Msg("ocr engine resolved")
	r.engine = e
	return e, nil
}

// Invalidate drops the cached engine so the next Resolve re-reads the
// configuration. The dropped engine is not closed since in-flight requests
// may still hold it.
func (r *Resolver) Invalidate() {
	r.mu.Lock()
	r.engine = nil
	r.mu.Unlock()
}

// Close releases the cached engine, if it holds resources.
func (r *Resolver) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := r.engine
	r.engine = nil
	if c, ok := e.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Build constructs the engine named by cfg. Names are matched
// case-insensitively and default to tesseract.
//
// Unknown names fail immediately with UNSUPPORTED_ENGINE. Flag-gated
// providers that are switched off or lack credentials resolve to a
// DisabledEngine, deferring OCR_UNAVAILABLE to invocation time.
func Build(ctx context.Context, cfg Config) (Engine, error) {
	name := strings.ToLower(strings.TrimSpace(cfg.EngineName))
	if name == "" {
		name = EngineTesseract
	}

	switch name {
	case EngineTesseract:
		e, err := NewTesseractEngine(cfg.Tesseract)
		if err != nil {
			log.Error().Err(err).Msg("tesseract engine unavailable")
			return nil, ocrerr.Unavailable("Tesseract OCR is not installed.", err)
		}
		return e, nil

	case EngineTesseractCLI:
		e, err := NewCLIEngine(cfg.Tesseract)
		if err != nil {
			log.Error().Err(err).Msg("tesseract cli engine unavailable")
			return nil, ocrerr.Unavailable("Tesseract OCR is not installed.", err)
		}
		return e, nil

	case EngineVision:
		if !cfg.EnableVision {
			return NewDisabledEngine(EngineVision, "Vision OCR is disabled."), nil
		}
		e, err := NewVisionEngine(ctx, cfg.Vision)
		if err != nil {
			return disabledFor(EngineVision, "Vision", err), nil
		}
		return e, nil

	case EngineTextract:
		if !cfg.EnableTextract {
			return NewDisabledEngine(EngineTextract, "Textract OCR is disabled."), nil
		}
		e, err := NewTextractEngine(cfg.Textract)
		if err != nil {
			return disabledFor(EngineTextract, "Textract", err), nil
		}
		return e, nil
	}

	return nil, ocrerr.New(ocrerr.UnsupportedEngine, fmt.Sprintf("Unsupported OCR engine: %s", cfg.EngineName))
}

func disabledFor(name, label string, err error) *DisabledEngine {
	log.Warn().Err(err).Str("engine", name).Msg("ocr engine not configured")
	if errors.Is(err, ErrNotConfigured) {
		return NewDisabledEngine(name, label+" OCR is not configured.")
	}
	return NewDisabledEngine(name, label+" OCR is unavailable.")
}
