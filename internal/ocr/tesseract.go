//go:build cgo && ocr

package ocr

import (
	"context"
	"fmt"
	"image"

	"github.com/otiai10/gosseract/v2"
	"github.com/rs/zerolog/log"

	"github.com/go-taken/ocr-worker/internal/imaging"
)

// TesseractAvailable reports whether libtesseract was linked in.
const TesseractAvailable = true

// TesseractEngine runs libtesseract in-process. A fresh client is created per
// call since gosseract clients are not safe for concurrent use.
type TesseractEngine struct {
	languages []string
}

// NewTesseractEngine verifies the library can be initialized with the
// configured languages.
func NewTesseractEngine(cfg TesseractConfig) (*TesseractEngine, error) {
	langs := cfg.languages()

	client := gosseract.NewClient()
	defer client.Close()
	if err := client.SetLanguage(langs...); err != nil {
		return nil, fmt.Errorf("set language: %w", err)
	}

	log.Debug().
		Str("version", gosseract.Version()).
		Strs("languages", langs).
		Msg("tesseract engine initialized")

	return &TesseractEngine{languages: langs}, nil
}

func (e *TesseractEngine) Name() string { return EngineTesseract }

// Run recognizes img line by line. Tesseract reports confidence on a 0-100
// scale.
func (e *TesseractEngine) Run(ctx context.Context, img image.Image) ([]Line, error) {
	data, err := imaging.EncodePNG(img)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(e.languages...); err != nil {
		return nil, fmt.Errorf("set language: %w", err)
	}
	if err := client.SetImageFromBytes(data); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}
	boxes, err := client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, fmt.Errorf("recognize lines: %w", err)
	}

	var b lineBuilder
	for _, box := range boxes {
		b.add(box.Word, box.Confidence/100)
	}
	return b.result(), nil
}
