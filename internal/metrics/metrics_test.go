package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveUpload(ResultOK)
	m.ObserveUpload(ResultOK)
	m.ObserveUpload(ResultSchemaError)
	m.ObserveRun("memory", 5*time.Millisecond, 10, 7)
	m.SetActiveSessions(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Uploads.WithLabelValues(ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Uploads.WithLabelValues(ResultSchemaError)))
	assert.Equal(t, 10.0, testutil.ToFloat64(m.Rows.WithLabelValues("loaded")))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.Rows.WithLabelValues("kept")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.ActiveSessions))
	assert.Equal(t, 1, testutil.CollectAndCount(m.PipelineDuration))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveUpload(ResultOK)
		m.ObserveRun("memory", time.Second, 1, 1)
		m.SetActiveSessions(1)
	})
}
