package ocr

import (
	"context"
	"image"
	"strings"
)

// Line is a single recognized line of text. Confidence is the raw score
// reported by the provider and may fall outside [0,1].
type Line struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// Result is the engine-agnostic outcome of one recognition request.
type Result struct {
	RequestID        string  `json:"requestId"`
	Engine           string  `json:"engine"`
	Confidence       float64 `json:"confidence"`
	Lines            []Line  `json:"lines"`
	ProcessingTimeMs int64   `json:"processingTimeMs"`
	RawText          *string `json:"rawText,omitempty"`
}

// Engine is implemented by every OCR provider.
type Engine interface {
	// Name identifies the concrete provider in results and logs.
	Name() string
	// Run recognizes text in img and returns lines in reading order.
	Run(ctx context.Context, img image.Image) ([]Line, error)
}

// Engine names accepted in configuration.
const (
	EngineTesseract    = "tesseract"
	EngineTesseractCLI = "tesseract-cli"
	EngineVision       = "vision"
	EngineTextract     = "textract"
)

// lineBuilder collects normalized lines, dropping blank ones.
type lineBuilder struct {
	lines []Line
}

func (b *lineBuilder) add(text string, confidence float64) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	b.lines = append(b.lines, Line{Text: text, Confidence: confidence})
}

func (b *lineBuilder) result() []Line {
	if b.lines == nil {
		return []Line{}
	}
	return b.lines
}

// RawText joins line texts with newlines in emission order.
func RawText(lines []Line) string {
	texts := make([]string, len(lines))
	for i, l := range lines {
		texts[i] = l.Text
	}
	return strings.Join(texts, "\n")
}
