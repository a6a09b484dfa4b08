// Package compare scores scan API output against labelled ground truth.
package compare

import "slices"

// RequiredFields are always compared. Categories are opt-in.
var RequiredFields = []string{
	"firstName",
	"lastName",
	"dateOfBirth",
	"addressLine",
	"licenceNumber",
	"expiryDate",
}

// CategoriesField holds the licence classes.
const CategoriesField = "categories"

// Mismatch records a field whose normalized values differ.
type Mismatch struct {
	Expected any `json:"expected"`
	Actual   any `json:"actual"`
}

// FieldStats counts outcomes for one field.
type FieldStats struct {
	Total    int `json:"total"`
	Correct  int `json:"correct"`
	Missing  int `json:"missing"`
	Mismatch int `json:"mismatch"`
}

// Accuracy is the share of correct values in percent.
func (s FieldStats) Accuracy() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Total) * 100
}

// Stats maps field names to their counts.
type Stats map[string]*FieldStats

// Merge adds other into s.
func (s Stats) Merge(other Stats) {
	for field, part := range other {
		bucket, ok := s[field]
		if !ok {
			bucket = &FieldStats{}
			s[field] = bucket
		}
		bucket.Total += part.Total
		bucket.Correct += part.Correct
		bucket.Missing += part.Missing
		bucket.Mismatch += part.Mismatch
	}
}

// Fields returns the compared field names in report order.
func Fields(includeCategories bool) []string {
	fields := slices.Clone(RequiredFields)
	if includeCategories {
		fields = append(fields, CategoriesField)
	}
	return fields
}

// CompareFields compares expected against actual field by field. A differing
// field counts as missing when actual has no value and as a mismatch
// otherwise.
func CompareFields(expected, actual map[string]any, includeCategories bool) (map[string]Mismatch, Stats) {
	mismatches := make(map[string]Mismatch)
	stats := make(Stats)

	for _, field := range Fields(includeCategories) {
		exp, act := expected[field], actual[field]

		st := &FieldStats{Total: 1}
		stats[field] = st

		if fieldMatches(field, exp, act) {
			st.Correct++
			continue
		}
		if isEmpty(act) {
			st.Missing++
		} else {
			st.Mismatch++
		}
		mismatches[field] = Mismatch{Expected: exp, Actual: act}
	}
	return mismatches, stats
}

func fieldMatches(field string, exp, act any) bool {
	switch field {
	case "addressLine":
		return NormalizeAddress(stringify(exp)) == NormalizeAddress(stringify(act))
	case "licenceNumber":
		return NormalizeLicence(stringify(exp)) == NormalizeLicence(stringify(act))
	case CategoriesField:
		return slices.Equal(NormalizeCategories(exp), NormalizeCategories(act))
	default:
		return NormalizeText(stringify(exp)) == NormalizeText(stringify(act))
	}
}
