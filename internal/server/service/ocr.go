package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/go-taken/ocr-worker/internal/imaging"
	"github.com/go-taken/ocr-worker/internal/ocr"
	"github.com/go-taken/ocr-worker/internal/ocrerr"
)

// EngineResolver provides the active OCR engine.
type EngineResolver interface {
	Resolve(ctx context.Context) (ocr.Engine, error)
}

// Recorder receives per-request outcomes.
type Recorder interface {
	ObserveSuccess(engine string, elapsed time.Duration, confidence float64)
	ObserveFailure(engine, code string)
}

// Options tune request handling.
type Options struct {
	MaxImageBytes int64
	RawText       bool
	Recorder      Recorder
}

// OCRService orchestrates validation, engine resolution and recognition.
type OCRService struct {
	resolver EngineResolver
	opts     Options
	now      func() time.Time
}

// NewOCRService creates OCRService.
func NewOCRService(resolver EngineResolver, opts Options) *OCRService {
	return &OCRService{resolver: resolver, opts: opts, now: time.Now}
}

// Process validates data, runs the resolved engine on it and assembles the
// result. Every returned error is an *ocrerr.Error.
func (s *OCRService) Process(ctx context.Context, requestID string, data []byte) (res *ocr.Result, err error) {
	var engineName string
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("request_id", requestID).Interface("panic", r).Msg("ocr pipeline panic")
			res, err = nil, ocrerr.New(ocrerr.OCRFailed, ocrerr.MsgOCRFailed)
		}
		if err != nil {
			s.fail(requestID, engineName, err)
		}
	}()

	img, err := imaging.Validate(data, s.opts.MaxImageBytes)
	if err != nil {
		return nil, ocrerr.From(err)
	}

	engine, err := s.resolver.Resolve(ctx)
	if err != nil {
		return nil, ocrerr.From(err)
	}
	engineName = engine.Name()

	start := s.now()
	lines, err := engine.Run(ctx, img)
	elapsed := s.now().Sub(start)
	if err != nil {
		return nil, ocrerr.From(err)
	}
	if lines == nil {
		lines = []ocr.Line{}
	}

	confidence := ocr.AggregateConfidence(lines)
	res = &ocr.Result{
		RequestID:        requestID,
		Engine:           engineName,
		Confidence:       confidence,
		Lines:            lines,
		ProcessingTimeMs: elapsed.Milliseconds(),
	}
	if s.opts.RawText {
		raw := ocr.RawText(lines)
		res.RawText = &raw
	}

	if s.opts.Recorder != nil {
		s.opts.Recorder.ObserveSuccess(engineName, elapsed, confidence)
	}
	log.Info().
		Str("request_id", requestID).
		Str("engine", engineName).
		Float64("confidence", confidence).
		Int64("processing_time_ms", res.ProcessingTimeMs).
		Int("lines", len(lines)).
		Msg("ocr_complete")

	return res, nil
}

func (s *OCRService) fail(requestID, engine string, err error) {
	e := ocrerr.From(err)
	ev := log.Warn()
	if e.Kind == ocrerr.OCRFailed {
		ev = log.Error()
	}
	ev.Err(err).
		Str("request_id", requestID).
		Str("engine", engine).
		Str("code", string(e.Kind)).
		Msg("ocr_failed")
	if s.opts.Recorder != nil {
		s.opts.Recorder.ObserveFailure(engine, string(e.Kind))
	}
}
