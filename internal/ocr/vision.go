package ocr

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"
	"time"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/googleapis/gax-go/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"

	"github.com/go-taken/ocr-worker/internal/imaging"
	"github.com/go-taken/ocr-worker/internal/ocrerr"
)

// ErrNotConfigured marks a provider whose credentials or settings are absent.
var ErrNotConfigured = errors.New("provider not configured")

const (
	defaultVisionTimeout = 20 * time.Second
	msgVisionFailed      = "Vision OCR failed."
)

// imageAnnotator is the subset of the Vision client used here.
type imageAnnotator interface {
	BatchAnnotateImages(ctx context.Context, req *visionpb.BatchAnnotateImagesRequest, opts ...gax.CallOption) (*visionpb.BatchAnnotateImagesResponse, error)
	Close() error
}

// VisionEngine calls Google Cloud Vision document text detection.
type VisionEngine struct {
	client  imageAnnotator
	timeout time.Duration
}

// NewVisionEngine looks up Application Default Credentials and builds a
// client. Missing credentials yield ErrNotConfigured.
func NewVisionEngine(ctx context.Context, cfg VisionConfig) (*VisionEngine, error) {
	creds, err := google.FindDefaultCredentials(ctx, vision.DefaultAuthScopes()...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotConfigured, err)
	}
	client, err := vision.NewImageAnnotatorClient(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("create vision client: %w", err)
	}
	return newVisionEngine(client, cfg), nil
}

func newVisionEngine(client imageAnnotator, cfg VisionConfig) *VisionEngine {
	return &VisionEngine{client: client, timeout: timeoutOr(cfg.Timeout, defaultVisionTimeout)}
}

func (e *VisionEngine) Name() string { return EngineVision }

// Close releases the underlying gRPC connection.
func (e *VisionEngine) Close() error {
	return e.client.Close()
}

// Run sends img as JPEG and rebuilds lines from the returned word layout.
func (e *VisionEngine) Run(ctx context.Context, img image.Image) ([]Line, error) {
	data, err := imaging.EncodeJPEG(img)
	if err != nil {
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	resp, err := e.client.BatchAnnotateImages(callCtx, &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{{
			Image:    &visionpb.Image{Content: data},
			Features: []*visionpb.Feature{{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION}},
		}},
	})
	if err != nil {
		log.Warn().Err(err).Str("type", fmt.Sprintf("%T", err)).Msg("vision_ocr_error")
		return nil, ocrerr.Unavailable(msgVisionFailed, err)
	}

	responses := resp.GetResponses()
	if len(responses) == 0 {
		return []Line{}, nil
	}
	r := responses[0]
	if apiErr := r.GetError(); apiErr != nil && apiErr.GetMessage() != "" {
		log.Warn().Int32("code", apiErr.GetCode()).Msg("vision_ocr_api_error")
		return nil, ocrerr.Unavailable(msgVisionFailed, errors.New(apiErr.GetMessage()))
	}
	return visionLines(r.GetFullTextAnnotation()), nil
}

// visionLines walks pages, blocks, paragraphs and words, closing a line on
// each line-ending break. A line scores the unweighted mean of its word
// confidences. Without any word layout the plain text is split on newlines.
func visionLines(ann *visionpb.TextAnnotation) []Line {
	var b lineBuilder
	if ann == nil {
		return b.result()
	}

	var (
		text     strings.Builder
		confs    []float64
		sawWords bool
	)
	flush := func() {
		if text.Len() > 0 {
			b.add(text.String(), mean(confs))
		}
		text.Reset()
		confs = confs[:0]
	}

	for _, page := range ann.GetPages() {
		for _, block := range page.GetBlocks() {
			for _, para := range block.GetParagraphs() {
				for _, word := range para.GetWords() {
					sawWords = true
					confs = append(confs, float64(word.GetConfidence()))
					endOfLine := false
					for _, sym := range word.GetSymbols() {
						text.WriteString(sym.GetText())
						switch sym.GetProperty().GetDetectedBreak().GetType() {
						case visionpb.TextAnnotation_DetectedBreak_SPACE,
							visionpb.TextAnnotation_DetectedBreak_SURE_SPACE:
							text.WriteByte(' ')
						case visionpb.TextAnnotation_DetectedBreak_HYPHEN:
							text.WriteByte('-')
							endOfLine = true
						case visionpb.TextAnnotation_DetectedBreak_EOL_SURE_SPACE,
							visionpb.TextAnnotation_DetectedBreak_LINE_BREAK:
							endOfLine = true
						}
					}
					if endOfLine {
						flush()
					}
				}
				flush()
			}
		}
	}
	if sawWords {
		return b.result()
	}

	for _, line := range strings.Split(ann.GetText(), "\n") {
		b.add(line, 0)
	}
	return b.result()
}
