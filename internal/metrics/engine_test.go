package metrics

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pulse-analytics/internal/ingest"
)

func TestEngineMemoizes(t *testing.T) {
	e, err := NewEngine(2)
	require.NoError(t, err)
	ds := ingest.Dataset{ID: "ds1", Records: sampleRecords()}

	assert.False(t, e.Cached(ds, "2024-01"))
	first := e.Regions(ds, "2024-01")
	assert.True(t, e.Cached(ds, "2024-01"))
	if diff := cmp.Diff(AggregateByPeriod(ds.Records, "2024-01"), first); diff != "" {
		t.Fatalf("memoized result differs (-want +got):\n%s", diff)
	}
	assert.Equal(t, first, e.Regions(ds, "2024-01"))

	other := ingest.Dataset{ID: "ds2", Records: sampleRecords()[:1]}
	assert.Len(t, e.Regions(other, "2024-01"), 1)
	assert.True(t, e.Cached(ds, "2024-01"))

	e.Regions(ds, "2024-02")
	assert.False(t, e.Cached(ds, "2024-01"), "oldest entry evicted")
}

func TestBuildReport(t *testing.T) {
	e, err := NewEngine(4)
	require.NoError(t, err)
	ds := ingest.Dataset{ID: "ds", Records: sampleRecords()}

	r := e.BuildReport(ds, "", 2)
	assert.Equal(t, "2024-02", r.Period)
	assert.Equal(t, []string{"2024-02", "2024-01"}, r.Periods)
	assert.Equal(t, 27, r.Overview.TotalUpdates)
	require.Len(t, r.Regions, 1)

	r = e.BuildReport(ds, "2024-01", 2)
	assert.Len(t, r.Top, 2)
	assert.Equal(t, "ds", r.DatasetID)
	assert.Equal(t, 5, r.Overview.SubRegions)

	r = e.BuildReport(ds, "2030-01", 2)
	assert.Empty(t, r.Regions)
	assert.Equal(t, "0", r.Overview.Display())
}
