// Package config loads worker settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/go-taken/ocr-worker/internal/imaging"
	"github.com/go-taken/ocr-worker/internal/ocr"
)

// Config holds worker configuration.
type Config struct {
	Port     string
	Mode     string
	LogLevel string

	// InternalKey guards POST /ocr. Empty disables the check.
	InternalKey string

	EngineName     string
	EnableVision   bool
	EnableTextract bool
	EnableRawText  bool
	MaxImageBytes  int64

	TesseractLanguages []string
	TesseractBinary    string
	TesseractTimeout   time.Duration

	VisionTimeout time.Duration

	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	TextractTimeout    time.Duration
}

var keys = []string{
	"PORT", "MODE", "LOG_LEVEL", "X_INTERNAL_KEY",
	"OCR_ENGINE", "ENABLE_VISION_OCR", "ENABLE_TEXTRACT_OCR", "ENABLE_OCR_RAW_TEXT", "MAX_IMAGE_BYTES",
	"TESSERACT_LANG", "TESSERACT_BINARY", "TESSERACT_TIMEOUT",
	"VISION_TIMEOUT",
	"AWS_REGION", "AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY", "TEXTRACT_TIMEOUT",
}

// LoadDotEnv reads .env from the working directory when present. Variables
// already set in the environment win.
func LoadDotEnv() {
	if _, err := os.Stat(".env"); err != nil {
		return
	}
	if err := godotenv.Load(".env"); err != nil {
		log.Warn().Err(err).Msg("failed to load .env file")
		return
	}
	log.Info().Str("file", ".env").Msg("environment file loaded")
}

// Load reads configuration from environment variables.
func Load() *Config {
	v := viper.New()
	for _, k := range keys {
		_ = v.BindEnv(k)
	}
	v.SetDefault("PORT", "8080")
	v.SetDefault("MODE", "dev")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("OCR_ENGINE", ocr.EngineTesseract)
	v.SetDefault("TESSERACT_LANG", "eng")
	v.SetDefault("TESSERACT_BINARY", "tesseract")
	v.SetDefault("TESSERACT_TIMEOUT", "2m")
	v.SetDefault("VISION_TIMEOUT", "20s")
	v.SetDefault("TEXTRACT_TIMEOUT", "20s")

	return &Config{
		Port:     v.GetString("PORT"),
		Mode:     strings.ToLower(strings.TrimSpace(v.GetString("MODE"))),
		LogLevel: v.GetString("LOG_LEVEL"),

		InternalKey: v.GetString("X_INTERNAL_KEY"),

		EngineName:     v.GetString("OCR_ENGINE"),
		EnableVision:   EnvBool(v.GetString("ENABLE_VISION_OCR")),
		EnableTextract: EnvBool(v.GetString("ENABLE_TEXTRACT_OCR")),
		EnableRawText:  EnvBool(v.GetString("ENABLE_OCR_RAW_TEXT")),
		MaxImageBytes:  ParseMaxImageBytes(v.GetString("MAX_IMAGE_BYTES")),

		TesseractLanguages: splitLanguages(v.GetString("TESSERACT_LANG")),
		TesseractBinary:    v.GetString("TESSERACT_BINARY"),
		TesseractTimeout:   v.GetDuration("TESSERACT_TIMEOUT"),

		VisionTimeout: v.GetDuration("VISION_TIMEOUT"),

		AWSRegion:          v.GetString("AWS_REGION"),
		AWSAccessKeyID:     v.GetString("AWS_ACCESS_KEY_ID"),
		AWSSecretAccessKey: v.GetString("AWS_SECRET_ACCESS_KEY"),
		TextractTimeout:    v.GetDuration("TEXTRACT_TIMEOUT"),
	}
}

// Engine projects the provider-related settings.
func (c *Config) Engine() ocr.Config {
	return ocr.Config{
		EngineName:     c.EngineName,
		EnableVision:   c.EnableVision,
		EnableTextract: c.EnableTextract,
		MaxImageBytes:  c.MaxImageBytes,
		Tesseract: ocr.TesseractConfig{
			Languages: c.TesseractLanguages,
			Binary:    c.TesseractBinary,
			Timeout:   c.TesseractTimeout,
		},
		Vision: ocr.VisionConfig{Timeout: c.VisionTimeout},
		Textract: ocr.TextractConfig{
			Region:          c.AWSRegion,
			AccessKeyID:     c.AWSAccessKeyID,
			SecretAccessKey: c.AWSSecretAccessKey,
			Timeout:         c.TextractTimeout,
		},
	}
}

// IsProd reports whether the worker runs in production mode.
func (c *Config) IsProd() bool {
	return c.Mode == "prod"
}

// EnvBool accepts 1, true, yes and on (any case). Everything else is false.
func EnvBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// ParseMaxImageBytes falls back to the 10 MiB default for empty,
// non-positive or unparsable values.
func ParseMaxImageBytes(value string) int64 {
	parsed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || parsed <= 0 {
		return imaging.DefaultMaxBytes
	}
	return parsed
}

func splitLanguages(value string) []string {
	var langs []string
	for _, part := range strings.FieldsFunc(value, func(r rune) bool { return r == '+' || r == ',' }) {
		if p := strings.TrimSpace(part); p != "" {
			langs = append(langs, p)
		}
	}
	return langs
}
