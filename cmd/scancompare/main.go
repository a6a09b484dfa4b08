// Command scancompare scores /license/scan output against labelled images.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/go-taken/ocr-worker/internal/compare"
	"github.com/go-taken/ocr-worker/pkg"
)

var (
	apiURL            string
	dataset           string
	timeoutSeconds    int
	includeCategories bool
	outPath           string
	concurrency       int
	rps               float64
	apiKey            string
	printReport       bool
)

var rootCmd = &cobra.Command{
	Use:          "scancompare",
	Short:        "Compare /license/scan outputs against ground truth",
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	v := viper.New()
	_ = v.BindEnv("api_url", "SCAN_API_URL")
	_ = v.BindEnv("dataset", "EVAL_DATASET_DIR")
	v.SetDefault("api_url", "http://localhost:8080/license/scan")
	v.SetDefault("dataset", "docs/images")

	flags := rootCmd.Flags()
	flags.StringVar(&apiURL, "api-url", v.GetString("api_url"), "scan endpoint (env SCAN_API_URL)")
	flags.StringVar(&dataset, "dataset", v.GetString("dataset"), "dataset root containing ground_truth/ (env EVAL_DATASET_DIR)")
	flags.IntVar(&timeoutSeconds, "timeout", 30, "per-request timeout in seconds")
	flags.BoolVar(&includeCategories, "include-categories", false, "also compare licence categories")
	flags.StringVar(&outPath, "out", "reports/scan_output_diff.json", "report destination")
	flags.IntVar(&concurrency, "concurrency", 1, "parallel requests")
	flags.Float64Var(&rps, "rps", 0, "request rate limit per second (0 = unlimited)")
	flags.StringVar(&apiKey, "api-key", "", "value for the X-INTERNAL-KEY header")
	flags.BoolVar(&printReport, "print", false, "also print the report JSON to stdout")
}

func run(cmd *cobra.Command, args []string) error {
	stderr := cmd.ErrOrStderr()
	stdout := cmd.OutOrStdout()

	report, err := compare.Run(cmd.Context(), compare.Options{
		APIURL:            apiURL,
		Dataset:           dataset,
		Timeout:           time.Duration(timeoutSeconds) * time.Second,
		IncludeCategories: includeCategories,
		Concurrency:       concurrency,
		RPS:               rps,
		APIKey:            apiKey,
		Warn: func(format string, args ...any) {
			fmt.Fprintf(stderr, format+"\n", args...)
		},
	})
	if err != nil {
		return err
	}

	if err := report.WriteJSON(outPath); err != nil {
		return err
	}
	if printReport {
		if err := pkg.Print(stdout, report); err != nil {
			return err
		}
	}

	fmt.Fprintf(stdout, "Wrote report: %s\n", outPath)
	fmt.Fprintln(stdout, "Field accuracy summary:")
	report.PrintSummary(stdout, includeCategories)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
