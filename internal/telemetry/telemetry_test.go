package telemetry

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsTextfile(t *testing.T) {
	m := New()
	m.RowsParsed.Add(12)
	m.RowsRejected.WithLabelValues("child").Inc()
	m.Alerts.WithLabelValues("high").Set(2)
	m.ObserveSince(time.Now())

	assert.Equal(t, 12.0, testutil.ToFloat64(m.RowsParsed))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RowsRejected.WithLabelValues("child")))

	path := filepath.Join(t.TempDir(), "pulse.prom")
	require.NoError(t, m.WriteTextfile(path))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(b)
	assert.Contains(t, out, "pulse_rows_parsed_total 12")
	assert.Contains(t, out, `pulse_rows_rejected_total{field="child"} 1`)
	assert.Contains(t, out, `pulse_alerts{severity="high"} 2`)
	assert.Contains(t, out, "pulse_aggregate_duration_seconds_count 1")
}
