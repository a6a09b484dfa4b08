package ocr

import "math"

// AggregateConfidence returns the mean of the per-line confidences, each
// clipped to [0,1] first. An empty slice yields 0.
func AggregateConfidence(lines []Line) float64 {
	if len(lines) == 0 {
		return 0
	}
	var total float64
	for _, l := range lines {
		total += clamp01(l.Confidence)
	}
	return total / float64(len(lines))
}

// mean is the unweighted average used to lift word-level scores to a line.
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var total float64
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
