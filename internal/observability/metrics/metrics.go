package metrics

import "github.com/prometheus/client_golang/prometheus"

// RefreshMetrics exposes counters/histograms for refresh cycles.
type RefreshMetrics struct {
	refreshTotal    *prometheus.CounterVec
	upstreamLatency *prometheus.HistogramVec
	sessionsTotal   prometheus.Counter
}

func NewRefreshMetrics(reg prometheus.Registerer) *RefreshMetrics {
	m := &RefreshMetrics{
		refreshTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agenda",
			Subsystem: "engine",
			Name:      "refresh_total",
			Help:      "Refresh cycles by version and outcome (applied, empty, failed, stale)",
		}, []string{"version", "outcome"}),
		upstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "agenda",
			Subsystem: "engine",
			Name:      "upstream_latency_seconds",
			Help:      "Latency of schedule backend fetches",
			Buckets:   prometheus.DefBuckets,
		}, []string{"version"}),
		sessionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "agenda",
			Subsystem: "engine",
			Name:      "sessions_total",
			Help:      "Total browsing sessions created",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.refreshTotal, m.upstreamLatency, m.sessionsTotal)
	return m
}

func (m *RefreshMetrics) ObserveRefresh(version, outcome string) {
	if m == nil {
		return
	}
	m.refreshTotal.WithLabelValues(version, outcome).Inc()
}

func (m *RefreshMetrics) ObserveUpstreamLatency(version string, seconds float64) {
	if m == nil {
		return
	}
	m.upstreamLatency.WithLabelValues(version).Observe(seconds)
}

func (m *RefreshMetrics) SessionCreated() {
	if m == nil {
		return
	}
	m.sessionsTotal.Inc()
}
