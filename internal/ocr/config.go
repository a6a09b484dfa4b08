package ocr

import (
	"errors"
	"time"
)

// ErrTesseractNotCompiled is returned when the binary was built without the
// "ocr" build tag. Rebuild with -tags ocr and libtesseract installed.
var ErrTesseractNotCompiled = errors.New("tesseract support not compiled in; rebuild with -tags ocr")

// Config selects and parameterizes the active provider.
type Config struct {
	EngineName     string
	EnableVision   bool
	EnableTextract bool
	MaxImageBytes  int64

	Tesseract TesseractConfig
	Vision    VisionConfig
	Textract  TextractConfig
}

// TesseractConfig is shared by the in-process and CLI tesseract engines.
type TesseractConfig struct {
	Languages []string
	Binary    string
	Timeout   time.Duration
}

// VisionConfig configures the Google Cloud Vision provider. Credentials come
// from Application Default Credentials.
type VisionConfig struct {
	Timeout time.Duration
}

// TextractConfig configures the AWS Textract provider.
type TextractConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Timeout         time.Duration
}

func (c TesseractConfig) languages() []string {
	if len(c.Languages) == 0 {
		return []string{"eng"}
	}
	return c.Languages
}

func timeoutOr(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}
