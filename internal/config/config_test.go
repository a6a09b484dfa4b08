package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/go-taken/ocr-worker/internal/imaging"
)

func TestEnvBool(t *testing.T) {
	truthy := []string{"1", "true", "TRUE", " yes ", "On"}
	falsy := []string{"", "0", "false", "no", "off", "enabled", "t"}

	for _, v := range truthy {
		assert.True(t, EnvBool(v), "expected %q to be true", v)
	}
	for _, v := range falsy {
		assert.False(t, EnvBool(v), "expected %q to be false", v)
	}
}

func TestParseMaxImageBytes(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"", imaging.DefaultMaxBytes},
		{"10", 10},
		{" 2048 ", 2048},
		{"0", imaging.DefaultMaxBytes},
		{"-1", imaging.DefaultMaxBytes},
		{"ten", imaging.DefaultMaxBytes},
		{"1.5", imaging.DefaultMaxBytes},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseMaxImageBytes(tt.in), "input %q", tt.in)
	}
}

func TestLoad_Defaults(t *testing.T) {
	for _, k := range keys {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "tesseract", cfg.EngineName)
	assert.False(t, cfg.EnableVision)
	assert.False(t, cfg.EnableTextract)
	assert.False(t, cfg.EnableRawText)
	assert.Equal(t, imaging.DefaultMaxBytes, cfg.MaxImageBytes)
	assert.Equal(t, []string{"eng"}, cfg.TesseractLanguages)
	assert.Equal(t, 2*time.Minute, cfg.TesseractTimeout)
	assert.Equal(t, 20*time.Second, cfg.VisionTimeout)
	assert.Empty(t, cfg.InternalKey)
	assert.False(t, cfg.IsProd())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("MODE", "PROD")
	t.Setenv("X_INTERNAL_KEY", "secret")
	t.Setenv("OCR_ENGINE", "Vision")
	t.Setenv("ENABLE_VISION_OCR", "yes")
	t.Setenv("ENABLE_TEXTRACT_OCR", "off")
	t.Setenv("ENABLE_OCR_RAW_TEXT", "1")
	t.Setenv("MAX_IMAGE_BYTES", "10")
	t.Setenv("TESSERACT_LANG", "eng+deu")
	t.Setenv("TESSERACT_TIMEOUT", "45s")
	t.Setenv("AWS_REGION", "eu-west-1")
	t.Setenv("AWS_ACCESS_KEY_ID", "AKIA")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "shh")

	cfg := Load()
	assert.Equal(t, "9000", cfg.Port)
	assert.True(t, cfg.IsProd())
	assert.Equal(t, "secret", cfg.InternalKey)
	assert.True(t, cfg.EnableRawText)
	assert.Equal(t, int64(10), cfg.MaxImageBytes)

	eng := cfg.Engine()
	assert.Equal(t, "Vision", eng.EngineName)
	assert.True(t, eng.EnableVision)
	assert.False(t, eng.EnableTextract)
	assert.Equal(t, int64(10), eng.MaxImageBytes)
	assert.Equal(t, []string{"eng", "deu"}, eng.Tesseract.Languages)
	assert.Equal(t, 45*time.Second, eng.Tesseract.Timeout)
	assert.Equal(t, "eu-west-1", eng.Textract.Region)
	assert.Equal(t, "AKIA", eng.Textract.AccessKeyID)
	assert.Equal(t, "shh", eng.Textract.SecretAccessKey)
}
