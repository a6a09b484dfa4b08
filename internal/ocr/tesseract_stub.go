//go:build !cgo || !ocr

package ocr

import (
	"context"
	"image"
)

// TesseractAvailable reports whether libtesseract was linked in.
const TesseractAvailable = false

// TesseractEngine is a placeholder that can never be constructed.
type TesseractEngine struct{}

func NewTesseractEngine(TesseractConfig) (*TesseractEngine, error) {
	return nil, ErrTesseractNotCompiled
}

func (e *TesseractEngine) Name() string { return EngineTesseract }

func (e *TesseractEngine) Run(context.Context, image.Image) ([]Line, error) {
	return nil, ErrTesseractNotCompiled
}
