package ocr

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/textract"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"
	"github.com/aws/smithy-go"
	"github.com/rs/zerolog/log"

	"github.com/go-taken/ocr-worker/internal/imaging"
	"github.com/go-taken/ocr-worker/internal/ocrerr"
)

const (
	defaultTextractTimeout = 20 * time.Second
	msgTextractFailed      = "Textract OCR failed."
)

// textractAPI is the subset of the Textract client used here.
type textractAPI interface {
	DetectDocumentText(ctx context.Context, params *textract.DetectDocumentTextInput, optFns ...func(*textract.Options)) (*textract.DetectDocumentTextOutput, error)
}

// TextractEngine calls AWS Textract synchronous text detection.
type TextractEngine struct {
	client  textractAPI
	timeout time.Duration
}

// NewTextractEngine builds a client from static credentials. A missing
// region or key pair yields ErrNotConfigured.
func NewTextractEngine(cfg TextractConfig) (*TextractEngine, error) {
	if cfg.Region == "" {
		return nil, fmt.Errorf("%w: AWS region is required", ErrNotConfigured)
	}
	if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
		return nil, fmt.Errorf("%w: AWS access key and secret are required", ErrNotConfigured)
	}

	awsConfig := aws.Config{
		Region: cfg.Region,
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		),
	}
	return newTextractEngine(textract.NewFromConfig(awsConfig), cfg), nil
}

func newTextractEngine(client textractAPI, cfg TextractConfig) *TextractEngine {
	return &TextractEngine{client: client, timeout: timeoutOr(cfg.Timeout, defaultTextractTimeout)}
}

func (e *TextractEngine) Name() string { return EngineTextract }

// Run sends img as JPEG and keeps LINE blocks in response order. Textract
// reports confidence on a 0-100 scale.
func (e *TextractEngine) Run(ctx context.Context, img image.Image) ([]Line, error) {
	data, err := imaging.EncodeJPEG(img)
	if err != nil {
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	out, err := e.client.DetectDocumentText(callCtx, &textract.DetectDocumentTextInput{
		Document: &types.Document{Bytes: data},
	})
	if err != nil {
		ev := log.Warn().Err(err)
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			ev = ev.Str("code", apiErr.ErrorCode())
		}
		ev.Msg("textract_ocr_error")
		return nil, ocrerr.Unavailable(msgTextractFailed, err)
	}

	var b lineBuilder
	for _, block := range out.Blocks {
		if block.BlockType != types.BlockTypeLine {
			continue
		}
		b.add(aws.ToString(block.Text), float64(aws.ToFloat32(block.Confidence))/100)
	}
	return b.result(), nil
}
