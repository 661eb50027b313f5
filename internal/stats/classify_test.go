package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCuts(t *testing.T) {
	ref := []int{90, 10, 50, 70, 30, 20, 80, 40, 60, 100}
	c33, c66 := Cuts(ref)
	// sorted: 10..100, idx floor(3.3)=3 and floor(6.6)=6
	assert.Equal(t, 40, c33)
	assert.Equal(t, 70, c66)
	assert.Equal(t, []int{90, 10, 50, 70, 30, 20, 80, 40, 60, 100}, ref, "reference must not be reordered")
}

func TestClassify(t *testing.T) {
	ref := []int{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}
	tests := []struct {
		value int
		want  Intensity
	}{
		{0, IntensityLow},
		{40, IntensityLow},
		{41, IntensityMedium},
		{70, IntensityMedium},
		{71, IntensityHigh},
		{1000, IntensityHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.value, ref), "value=%d", tt.value)
		assert.Equal(t, tt.want, NewClassifier(ref).Classify(tt.value), "value=%d", tt.value)
	}
}

func TestClassifySingleValue(t *testing.T) {
	assert.Equal(t, IntensityLow, Classify(5, []int{5}))
	assert.Equal(t, IntensityHigh, Classify(6, []int{5}))
}

func TestClassifyMonotonic(t *testing.T) {
	ref := []int{3, 3, 8, 1, 12, 40, 40, 7, 2, 19, 25}
	prev := -1
	for v := -5; v <= 50; v++ {
		rank := Classify(v, ref).Rank()
		require.GreaterOrEqual(t, rank, prev, "value=%d", v)
		prev = rank
	}
}

func TestClassifyEmptyReferencePanics(t *testing.T) {
	assert.Panics(t, func() { Classify(1, nil) })
}

func TestIntensityRank(t *testing.T) {
	assert.Less(t, IntensityLow.Rank(), IntensityMedium.Rank())
	assert.Less(t, IntensityMedium.Rank(), IntensityHigh.Rank())
	assert.Equal(t, -1, Intensity("bogus").Rank())
}
