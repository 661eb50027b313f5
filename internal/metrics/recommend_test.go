package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pulse-analytics/internal/ingest"
	"pulse-analytics/internal/stats"
)

func TestRecommendForSeverityThreshold(t *testing.T) {
	high, ok := recommendFor(SubRegionSummary{Region: "Goa", SubRegion: "A", Adult: 250, Total: 250}, 100, 100)
	require.True(t, ok)
	assert.Equal(t, SeverityHigh, high.Severity)
	assert.Equal(t, impactHigh, high.ExpectedImpact)

	medium, ok := recommendFor(SubRegionSummary{Region: "Goa", SubRegion: "B", Adult: 180, Total: 180}, 100, 100)
	require.True(t, ok)
	assert.Equal(t, SeverityMedium, medium.Severity)
	assert.Equal(t, impactMedium, medium.ExpectedImpact)
}

func TestRecommendForRules(t *testing.T) {
	rec, ok := recommendFor(SubRegionSummary{Region: "Goa", SubRegion: "A", Child: 50, Youth: 40, Adult: 10, Total: 100}, 100, 100)
	require.True(t, ok)
	assert.Equal(t, 1.0, rec.Multiplier)
	// child and youth rules fire, adult and multiplier do not
	assert.Len(t, rec.Reasons, 2)
	assert.Equal(t, []string{
		"Run enrolment camps at anganwadi centres and hospitals",
		"Coordinate with birth registration offices",
		"Schedule school-based biometric update camps",
	}, rec.Actions)
}

func TestRecommendForMultiplierOnly(t *testing.T) {
	rec, ok := recommendFor(SubRegionSummary{Region: "Goa", SubRegion: "A", Child: 25, Youth: 30, Adult: 45, Total: 100}, 50, 100)
	require.True(t, ok)
	assert.Equal(t, 2.0, rec.Multiplier)
	require.Len(t, rec.Reasons, 1)
	assert.Contains(t, rec.Reasons[0], "2.0x the Goa district average")
	assert.Equal(t, []string{defaultAction}, rec.Actions)
	assert.Equal(t, SeverityMedium, rec.Severity)
}

func TestRecommendForCapacityActions(t *testing.T) {
	rec, ok := recommendFor(SubRegionSummary{Region: "Goa", SubRegion: "A", Child: 25, Youth: 30, Adult: 45, Total: 100}, 50, 60)
	require.True(t, ok)
	assert.Equal(t, []string{"Open temporary update centres", "Reassign operators from low-load districts"}, rec.Actions)
}

func TestRecommendForNoReason(t *testing.T) {
	_, ok := recommendFor(SubRegionSummary{Region: "Goa", SubRegion: "A", Child: 25, Youth: 30, Adult: 45, Total: 100}, 100, 10)
	assert.False(t, ok)
}

func TestRecommend(t *testing.T) {
	recs := []ingest.Record{
		rec("2024-01", "Goa", "A", 0, 0, 500),
		rec("2024-01", "Goa", "B", 10, 10, 10),
		rec("2024-01", "Goa", "C", 5, 5, 5),
		rec("2024-01", "Kerala", "D", 100, 20, 80),
		rec("2024-01", "Kerala", "E", 1, 1, 1),
		rec("2024-01", "Kerala", "F", 2, 2, 2),
	}
	out := Recommend(AggregateByPeriod(recs, "2024-01"))
	require.Len(t, out, 2)

	assert.Equal(t, "A", out[0].SubRegion)
	assert.Equal(t, SeverityHigh, out[0].Severity)
	assert.Equal(t, 2.8, out[0].Multiplier)
	assert.Len(t, out[0].Reasons, 2)
	assert.Len(t, out[0].Actions, 4)

	assert.Equal(t, "D", out[1].SubRegion)
	assert.Equal(t, SeverityMedium, out[1].Severity)
	assert.Equal(t, 2.9, out[1].Multiplier)
	assert.Len(t, out[1].Actions, 4)
}

func TestRecommendOrdersHighFirstAndTruncates(t *testing.T) {
	sub := func(name string, total int) SubRegionSummary {
		return SubRegionSummary{Region: "Goa", SubRegion: name, Adult: total, Total: total, Intensity: stats.IntensityHigh}
	}
	regions := []RegionSummary{{
		Region: "Goa",
		SubRegions: []SubRegionSummary{
			sub("m1", 100), sub("m2", 100), sub("m3", 100), sub("m4", 100), sub("m5", 100), sub("h", 1000),
		},
	}}
	out := Recommend(regions)
	require.Len(t, out, 4)
	got := []string{out[0].SubRegion, out[1].SubRegion, out[2].SubRegion, out[3].SubRegion}
	assert.Equal(t, []string{"h", "m1", "m2", "m3"}, got)
	assert.Equal(t, SeverityHigh, out[0].Severity)
}

func TestRecommendSkipsNonHighIntensity(t *testing.T) {
	regions := []RegionSummary{{
		Region: "Goa",
		SubRegions: []SubRegionSummary{
			{Region: "Goa", SubRegion: "A", Adult: 900, Total: 900, Intensity: stats.IntensityMedium},
			{Region: "Goa", SubRegion: "B", Adult: 10, Total: 10, Intensity: stats.IntensityLow},
		},
	}}
	assert.Empty(t, Recommend(regions))
	assert.Empty(t, Recommend(nil))
}

func TestPlaceholderInsight(t *testing.T) {
	n := len(placeholderPool)
	assert.Equal(t, placeholderPool[0], PlaceholderInsight(0))
	assert.Equal(t, placeholderPool[0], PlaceholderInsight(n))
	assert.Equal(t, placeholderPool[n-1], PlaceholderInsight(-1))
	assert.Equal(t, PlaceholderInsight(3), PlaceholderInsight(3))
}
