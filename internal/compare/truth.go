package compare

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ErrNoGroundTruth is returned when the dataset has no labelled records.
var ErrNoGroundTruth = errors.New("no ground truth files found")

// Case is one labelled image.
type Case struct {
	ID        string
	ImagePath string
	Expected  map[string]any
}

type truthFile struct {
	Image  string         `json:"image"`
	Fields map[string]any `json:"fields"`
}

// LoadCases reads <root>/ground_truth/*.json in name order. Records without
// an image are skipped; records whose image is absent are reported through
// warn and skipped.
func LoadCases(root string, warn func(format string, args ...any)) ([]Case, error) {
	truthDir := filepath.Join(root, "ground_truth")
	if _, err := os.Stat(truthDir); err != nil {
		return nil, fmt.Errorf("ground truth folder not found: %s", truthDir)
	}

	files, err := filepath.Glob(filepath.Join(truthDir, "*.json"))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoGroundTruth, truthDir)
	}
	sort.Strings(files)

	cases := make([]Case, 0, len(files))
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}
		var truth truthFile
		if err := json.Unmarshal(data, &truth); err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		if truth.Image == "" {
			continue
		}

		imagePath := filepath.Join(root, truth.Image)
		if _, err := os.Stat(imagePath); err != nil {
			if warn != nil {
				warn("Missing image: %s", imagePath)
			}
			continue
		}

		expected := truth.Fields
		if expected == nil {
			expected = map[string]any{}
		}
		cases = append(cases, Case{
			ID:        filepath.Base(file),
			ImagePath: imagePath,
			Expected:  expected,
		})
	}
	return cases, nil
}
