package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestDashboardMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewDashboardMetrics(reg)

	m.ObserveTransition("publish", nil)
	m.ObserveTransition("publish", errors.New("boom"))
	m.ObserveUpload("image_1", nil)
	m.ObserveSubmission("edit", nil)
	m.ObserveRemote("update_specialist", 0.2)
	m.SessionOpened()
	m.SessionOpened()
	m.SessionClosed()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.transitionsTotal.WithLabelValues("publish", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transitionsTotal.WithLabelValues("publish", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.openSessions))
}

func TestDashboardMetricsNilSafe(t *testing.T) {
	var m *DashboardMetrics
	m.ObserveTransition("publish", nil)
	m.ObserveUpload("image_1", nil)
	m.ObserveSubmission("edit", nil)
	m.ObserveRemote("op", 0.1)
	m.SessionOpened()
	m.SessionClosed()
}
