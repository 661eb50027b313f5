// Package stats buckets values against a reference distribution.
package stats

import "slices"

// Intensity is a tertile bucket relative to sibling values.
type Intensity string

const (
	IntensityLow    Intensity = "low"
	IntensityMedium Intensity = "medium"
	IntensityHigh   Intensity = "high"
)

// Rank orders intensities low < medium < high.
func (i Intensity) Rank() int {
	switch i {
	case IntensityLow:
		return 0
	case IntensityMedium:
		return 1
	case IntensityHigh:
		return 2
	}
	return -1
}

// Cuts returns the values at the 33rd and 66th percentile positions of the
// sorted reference set. reference must not be empty.
func Cuts(reference []int) (cut33, cut66 int) {
	if len(reference) == 0 {
		panic("stats: empty reference distribution")
	}
	sorted := slices.Clone(reference)
	slices.Sort(sorted)
	n := float64(len(sorted))
	return sorted[int(n*0.33)], sorted[int(n*0.66)]
}

// Classify places value into a tertile of reference. Values equal to a cut
// point fall into the lower bucket. reference must not be empty.
func Classify(value int, reference []int) Intensity {
	cut33, cut66 := Cuts(reference)
	switch {
	case value <= cut33:
		return IntensityLow
	case value <= cut66:
		return IntensityMedium
	default:
		return IntensityHigh
	}
}

// Classifier classifies many values against one reference set without
// re-sorting it each time.
type Classifier struct {
	cut33, cut66 int
}

func NewClassifier(reference []int) Classifier {
	c33, c66 := Cuts(reference)
	return Classifier{cut33: c33, cut66: c66}
}

func (c Classifier) Classify(value int) Intensity {
	switch {
	case value <= c.cut33:
		return IntensityLow
	case value <= c.cut66:
		return IntensityMedium
	default:
		return IntensityHigh
	}
}
