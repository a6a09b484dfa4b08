// Package imaging validates uploaded bytes and decodes them into an RGB image
// ready for recognition.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/go-taken/ocr-worker/internal/ocrerr"
)

// DefaultMaxBytes is applied when no positive limit is configured.
const DefaultMaxBytes int64 = 10 << 20

// MaxPixels bounds width*height before pixel data is allocated.
const MaxPixels = 178956970

// Validate enforces the byte limit, decodes data and returns an opaque RGB
// copy of it. The size check always runs before any decoding.
func Validate(data []byte, maxBytes int64) (*image.RGBA, error) {
	if len(data) == 0 {
		return nil, ocrerr.New(ocrerr.InvalidImage, ocrerr.MsgInvalidImage)
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if int64(len(data)) > maxBytes {
		return nil, ocrerr.Wrap(ocrerr.ImageTooLarge, ocrerr.MsgImageTooLarge,
			fmt.Errorf("%d bytes exceeds limit of %d", len(data), maxBytes))
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, ocrerr.Wrap(ocrerr.InvalidImage, ocrerr.MsgInvalidImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, ocrerr.Wrap(ocrerr.InvalidImage, ocrerr.MsgInvalidImage,
			fmt.Errorf("image dimensions %dx%d rejected", cfg.Width, cfg.Height))
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ocrerr.Wrap(ocrerr.InvalidImage, ocrerr.MsgInvalidImage, err)
	}
	return toRGB(img), nil
}

// toRGB drops the alpha channel: color values are kept and every pixel is
// made fully opaque.
func toRGB(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	if rgba, ok := src.(*image.RGBA); ok && rgba.Opaque() {
		draw.Draw(dst, dst.Bounds(), rgba, b.Min, draw.Src)
		return dst
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
			dst.SetRGBA(x-b.Min.X, y-b.Min.Y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff})
		}
	}
	return dst
}
