// Package metrics exposes Prometheus collectors for uploads and pipeline runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Upload results.
const (
	ResultOK          = "ok"
	ResultMissing     = "missing_input"
	ResultSchemaError = "schema_error"
	ResultLoadError   = "load_error"
	ResultError       = "error"
)

// Metrics groups the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	Uploads          *prometheus.CounterVec
	PipelineDuration *prometheus.HistogramVec
	Rows             *prometheus.CounterVec
	ActiveSessions   prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lanes",
			Name:      "uploads_total",
			Help:      "Uploaded spreadsheets by result.",
		}, []string{"result"}),
		PipelineDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "lanes",
			Name:      "pipeline_duration_seconds",
			Help:      "Time spent aggregating one upload.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"engine"}),
		Rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lanes",
			Name:      "rows_total",
			Help:      "Rows seen by pipeline stage.",
		}, []string{"stage"}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "lanes",
			Name:      "active_sessions",
			Help:      "Report sessions currently held in memory.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Uploads, m.PipelineDuration, m.Rows, m.ActiveSessions)
	}
	return m
}

// ObserveUpload counts one upload with the given result.
func (m *Metrics) ObserveUpload(result string) {
	if m == nil {
		return
	}
	m.Uploads.WithLabelValues(result).Inc()
}

// ObserveRun records a pipeline run.
func (m *Metrics) ObserveRun(engine string, elapsed time.Duration, loaded, kept int) {
	if m == nil {
		return
	}
	m.PipelineDuration.WithLabelValues(engine).Observe(elapsed.Seconds())
	m.Rows.WithLabelValues("loaded").Add(float64(loaded))
	m.Rows.WithLabelValues("kept").Add(float64(kept))
}

// SetActiveSessions reports the number of sessions held.
func (m *Metrics) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.ActiveSessions.Set(float64(n))
}
