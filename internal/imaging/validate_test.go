package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-taken/ocr-worker/internal/ocrerr"
)

func pngBytes(t *testing.T, w, h int, fill color.Color) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, fill)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestValidate_Empty(t *testing.T) {
	for _, data := range [][]byte{nil, {}} {
		_, err := Validate(data, 10)
		assert.Equal(t, ocrerr.InvalidImage, ocrerr.KindOf(err))
	}
}

func TestValidate_TooLargeBeforeDecode(t *testing.T) {
	// Not an image at all: the size check must win.
	_, err := Validate(bytes.Repeat([]byte("0"), 11), 10)
	require.Error(t, err)
	assert.Equal(t, ocrerr.ImageTooLarge, ocrerr.KindOf(err))
	assert.Equal(t, ocrerr.MsgImageTooLarge, ocrerr.From(err).Message)
}

func TestValidate_ExactLimitIsAccepted(t *testing.T) {
	data := pngBytes(t, 10, 10, color.White)
	img, err := Validate(data, int64(len(data)))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 10, 10), img.Bounds())
}

func TestValidate_DefaultLimitWhenNonPositive(t *testing.T) {
	data := pngBytes(t, 4, 4, color.White)
	for _, limit := range []int64{0, -5} {
		_, err := Validate(data, limit)
		assert.NoError(t, err)
	}
}

func TestValidate_Corrupt(t *testing.T) {
	_, err := Validate([]byte("definitely not an image"), DefaultMaxBytes)
	assert.Equal(t, ocrerr.InvalidImage, ocrerr.KindOf(err))

	data := pngBytes(t, 10, 10, color.White)
	truncated := data[:len(data)/2]
	_, err = Validate(truncated, DefaultMaxBytes)
	assert.Equal(t, ocrerr.InvalidImage, ocrerr.KindOf(err))
}

func TestValidate_DropsAlpha(t *testing.T) {
	data := pngBytes(t, 2, 2, color.NRGBA{R: 200, G: 100, B: 50, A: 0})
	img, err := Validate(data, DefaultMaxBytes)
	require.NoError(t, err)

	got := img.RGBAAt(1, 1)
	assert.Equal(t, color.RGBA{R: 200, G: 100, B: 50, A: 0xff}, got)
	assert.True(t, img.Opaque())
}

func TestValidate_JPEG(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 8, 6))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, src, nil))

	img, err := Validate(buf.Bytes(), DefaultMaxBytes)
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())
	assert.Equal(t, 6, img.Bounds().Dy())
}

func TestEncodeRoundTrip(t *testing.T) {
	img, err := Validate(pngBytes(t, 3, 3, color.Black), DefaultMaxBytes)
	require.NoError(t, err)

	p, err := EncodePNG(img)
	require.NoError(t, err)
	_, format, err := image.DecodeConfig(bytes.NewReader(p))
	require.NoError(t, err)
	assert.Equal(t, "png", format)

	j, err := EncodeJPEG(img)
	require.NoError(t, err)
	_, format, err = image.DecodeConfig(bytes.NewReader(j))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}
