package ocr

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-taken/ocr-worker/internal/imaging"
	"github.com/go-taken/ocr-worker/internal/ocrerr"
)

const defaultCLITimeout = 2 * time.Minute

// CLIEngine wraps the tesseract executable and reads its TSV output.
type CLIEngine struct {
	Binary    string
	Languages []string
	Timeout   time.Duration
}

// NewCLIEngine resolves the tesseract binary on PATH and returns an engine
// with sane defaults.
func NewCLIEngine(cfg TesseractConfig) (*CLIEngine, error) {
	binary, err := ResolveBinary(cfg.Binary)
	if err != nil {
		return nil, fmt.Errorf("tesseract binary not found (%s): %w", cfg.Binary, err)
	}
	return &CLIEngine{
		Binary:    binary,
		Languages: cfg.languages(),
		Timeout:   timeoutOr(cfg.Timeout, defaultCLITimeout),
	}, nil
}

func (e *CLIEngine) Name() string { return EngineTesseractCLI }

// Run pipes img as PNG into tesseract and groups the recognized words into
// lines.
func (e *CLIEngine) Run(ctx context.Context, img image.Image) ([]Line, error) {
	data, err := imaging.EncodePNG(img)
	if err != nil {
		return nil, err
	}

	args := []string{"stdin", "stdout", "--psm", "3"}
	if len(e.Languages) > 0 {
		args = append(args, "-l", strings.Join(e.Languages, "+"))
	}
	args = append(args, "tsv")

	cmdCtx, cancel := context.WithTimeout(ctx, timeoutOr(e.Timeout, defaultCLITimeout))
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, e.Binary, args...)
	cmd.Stdin = bytes.NewReader(data)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(cmdCtx.Err(), context.DeadlineExceeded) {
			return nil, ocrerr.Unavailable("Tesseract OCR timed out.", err)
		}
		return nil, fmt.Errorf("tesseract: %w - %s", err, stderr.String())
	}
	return parseTSV(stdout.Bytes()), nil
}

// tsvKey identifies a text line in tesseract's TSV layout.
type tsvKey struct {
	page, block, par, line int
}

type tsvLine struct {
	words []string
	confs []float64
}

// parseTSV turns word rows into lines, in first-seen order. Rows with a
// negative confidence are layout rows (page, block, paragraph, line) and
// carry no text.
func parseTSV(data []byte) []Line {
	var order []tsvKey
	grouped := make(map[tsvKey]*tsvLine)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	header := true
	for scanner.Scan() {
		row := scanner.Text()
		if header {
			header = false
			if strings.HasPrefix(row, "level") {
				continue
			}
		}
		cols := strings.SplitN(row, "\t", 12)
		if len(cols) < 12 {
			continue
		}
		conf, err := strconv.ParseFloat(strings.TrimSpace(cols[10]), 64)
		if err != nil || conf < 0 {
			continue
		}
		word := strings.TrimSpace(cols[11])
		if word == "" {
			continue
		}
		key := tsvKey{
			page:  atoi(cols[1]),
			block: atoi(cols[2]),
			par:   atoi(cols[3]),
			line:  atoi(cols[4]),
		}
		l, ok := grouped[key]
		if !ok {
			l = &tsvLine{}
			grouped[key] = l
			order = append(order, key)
		}
		l.words = append(l.words, word)
		l.confs = append(l.confs, conf/100)
	}

	var b lineBuilder
	for _, key := range order {
		l := grouped[key]
		b.add(strings.Join(l.words, " "), mean(l.confs))
	}
	return b.result()
}

func atoi(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}

// ResolveBinary returns the absolute binary path if available on PATH.
func ResolveBinary(binary string) (string, error) {
	if binary == "" {
		binary = "tesseract"
	}
	path, err := exec.LookPath(binary)
	if err != nil {
		return "", err
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs, nil
	}
	return path, nil
}
