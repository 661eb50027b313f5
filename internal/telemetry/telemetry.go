// Package telemetry records batch-run metrics and writes them in the
// node_exporter textfile format.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the counters for one CLI run.
type Metrics struct {
	registry *prometheus.Registry

	RowsParsed        prometheus.Counter
	RowsRejected      *prometheus.CounterVec
	AggregateDuration prometheus.Histogram
	Alerts            *prometheus.GaugeVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RowsParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pulse_rows_parsed_total",
			Help: "Data rows accepted by the parser",
		}),
		RowsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pulse_rows_rejected_total",
			Help: "Data rows rejected by the parser, by offending field",
		}, []string{"field"}),
		AggregateDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "pulse_aggregate_duration_seconds",
			Help:    "Time spent building a period report",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		Alerts: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "pulse_alerts",
			Help: "Alerts raised for the reported period, by severity",
		}, []string{"severity"}),
	}
	m.registry.MustRegister(m.RowsParsed, m.RowsRejected, m.AggregateDuration, m.Alerts)
	return m
}

// Registry exposes the private registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// ObserveSince records the aggregate duration from start.
func (m *Metrics) ObserveSince(start time.Time) {
	m.AggregateDuration.Observe(time.Since(start).Seconds())
}

// WriteTextfile writes all metrics to path atomically.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
