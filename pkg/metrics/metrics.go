package metrics

import "github.com/prometheus/client_golang/prometheus"

// DashboardMetrics counts the remote operations issued by the dashboard.
type DashboardMetrics struct {
	transitionsTotal *prometheus.CounterVec
	uploadsTotal     *prometheus.CounterVec
	submissionsTotal *prometheus.CounterVec
	remoteLatency    *prometheus.HistogramVec
	openSessions     prometheus.Gauge
}

func NewDashboardMetrics(reg prometheus.Registerer) *DashboardMetrics {
	m := &DashboardMetrics{
		transitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cosecdesk",
			Subsystem: "specialists",
			Name:      "transitions_total",
			Help:      "Status transitions by action and outcome",
		}, []string{"action", "result"}),
		uploadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cosecdesk",
			Subsystem: "media",
			Name:      "uploads_total",
			Help:      "Image uploads by slot and outcome",
		}, []string{"slot", "result"}),
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cosecdesk",
			Subsystem: "edit_sessions",
			Name:      "submissions_total",
			Help:      "Edit/create submissions by mode and outcome",
		}, []string{"mode", "result"}),
		remoteLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "cosecdesk",
			Subsystem: "backend",
			Name:      "request_duration_seconds",
			Help:      "Latency of calls to the remote REST API",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		openSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "cosecdesk",
			Subsystem: "edit_sessions",
			Name:      "open",
			Help:      "Edit sessions currently open",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.transitionsTotal, m.uploadsTotal, m.submissionsTotal, m.remoteLatency, m.openSessions)
	return m
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (m *DashboardMetrics) ObserveTransition(action string, err error) {
	if m == nil {
		return
	}
	m.transitionsTotal.WithLabelValues(action, result(err)).Inc()
}

func (m *DashboardMetrics) ObserveUpload(slot string, err error) {
	if m == nil {
		return
	}
	m.uploadsTotal.WithLabelValues(slot, result(err)).Inc()
}

func (m *DashboardMetrics) ObserveSubmission(mode string, err error) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(mode, result(err)).Inc()
}

func (m *DashboardMetrics) ObserveRemote(operation string, seconds float64) {
	if m == nil {
		return
	}
	m.remoteLatency.WithLabelValues(operation).Observe(seconds)
}

func (m *DashboardMetrics) SessionOpened() {
	if m == nil {
		return
	}
	m.openSessions.Inc()
}

func (m *DashboardMetrics) SessionClosed() {
	if m == nil {
		return
	}
	m.openSessions.Dec()
}
