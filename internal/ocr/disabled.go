package ocr

import (
	"context"
	"image"

	"github.com/go-taken/ocr-worker/internal/ocrerr"
)

// DisabledEngine stands in for a provider that is switched off or missing
// its configuration. Resolution succeeds; every Run fails.
type DisabledEngine struct {
	name    string
	message string
}

// NewDisabledEngine returns a placeholder for provider name.
func NewDisabledEngine(name, message string) *DisabledEngine {
	return &DisabledEngine{name: name, message: message}
}

func (d *DisabledEngine) Name() string { return d.name }

// Run never looks at img.
func (d *DisabledEngine) Run(context.Context, image.Image) ([]Line, error) {
	return nil, ocrerr.Unavailable(d.message, nil)
}
