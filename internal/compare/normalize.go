package compare

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// NormalizeText collapses whitespace and upper-cases.
func NormalizeText(value string) string {
	return strings.ToUpper(strings.Join(strings.Fields(value), " "))
}

// NormalizeAddress is NormalizeText that also ignores space before commas.
func NormalizeAddress(value string) string {
	normalized := strings.Join(strings.Fields(value), " ")
	normalized = strings.ReplaceAll(normalized, " ,", ",")
	return strings.ToUpper(normalized)
}

// NormalizeLicence keeps letters and digits only, upper-cased.
func NormalizeLicence(value string) string {
	var b strings.Builder
	for _, r := range value {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return strings.ToUpper(b.String())
}

// NormalizeCategories trims and upper-cases each entry, drops blanks and
// sorts so that order does not matter.
func NormalizeCategories(value any) []string {
	var items []any
	switch v := value.(type) {
	case nil:
		return []string{}
	case []any:
		items = v
	case []string:
		for _, s := range v {
			items = append(items, s)
		}
	default:
		items = []any{v}
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := strings.ToUpper(strings.TrimSpace(stringify(item))); s != "" {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

func stringify(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}

// isEmpty reports whether a decoded JSON value carries nothing.
func isEmpty(v any) bool {
	switch s := v.(type) {
	case nil:
		return true
	case string:
		return s == ""
	case []any:
		return len(s) == 0
	case map[string]any:
		return len(s) == 0
	case bool:
		return !s
	case float64:
		return s == 0
	}
	return false
}
