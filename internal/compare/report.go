package compare

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/olekukonko/tablewriter"
)

// WriteJSON stores the report as indented JSON, creating parent
// directories.
func (r *Report) WriteJSON(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// PrintSummary renders per-field accuracy as a table.
func (r *Report) PrintSummary(w io.Writer, includeCategories bool) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Field", "Accuracy", "Correct", "Total", "Missing", "Mismatch"})
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)

	for _, field := range Fields(includeCategories) {
		st, ok := r.Stats[field]
		if !ok {
			continue
		}
		table.Append([]string{
			field,
			fmt.Sprintf("%.1f%%", st.Accuracy()),
			fmt.Sprint(st.Correct),
			fmt.Sprint(st.Total),
			fmt.Sprint(st.Missing),
			fmt.Sprint(st.Mismatch),
		})
	}
	table.Render()
}
