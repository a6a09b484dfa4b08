package compare

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// Options configures a comparison run.
type Options struct {
	APIURL            string
	Dataset           string
	Timeout           time.Duration
	IncludeCategories bool
	Concurrency       int
	RPS               float64
	APIKey            string
	// Warn receives skipped-record notices. Nil discards them.
	Warn func(format string, args ...any)
}

// Result is the per-image outcome.
type Result struct {
	ID         string              `json:"id"`
	Image      string              `json:"image"`
	Mismatches map[string]Mismatch `json:"mismatches"`
	Expected   map[string]any      `json:"expected"`
	Actual     map[string]any      `json:"actual"`
}

// Report aggregates a run.
type Report struct {
	Results []Result `json:"results"`
	Stats   Stats    `json:"stats"`
}

// Run scans every labelled image and scores the answers. Results keep the
// ground-truth order regardless of concurrency. The first transport error
// aborts the run.
func Run(ctx context.Context, opts Options) (*Report, error) {
	cases, err := LoadCases(opts.Dataset, opts.Warn)
	if err != nil {
		return nil, err
	}

	client := NewClient(opts.APIURL, opts.APIKey, opts.Timeout, opts.RPS)
	results := make([]Result, len(cases))
	stats := make([]Stats, len(cases))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.Concurrency, 1))
	for i, tc := range cases {
		i, tc := i, tc
		g.Go(func() error {
			resp, err := client.Scan(gctx, tc.ImagePath)
			if err != nil {
				return err
			}
			actual := fieldsOf(resp)
			mismatches, st := CompareFields(tc.Expected, actual, opts.IncludeCategories)
			results[i] = Result{
				ID:         tc.ID,
				Image:      tc.ImagePath,
				Mismatches: mismatches,
				Expected:   tc.Expected,
				Actual:     actual,
			}
			stats[i] = st
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{Results: results, Stats: make(Stats)}
	for _, st := range stats {
		report.Stats.Merge(st)
	}
	return report, nil
}

func fieldsOf(resp map[string]any) map[string]any {
	if fields, ok := resp["fields"].(map[string]any); ok {
		return fields
	}
	return map[string]any{}
}
