package metrics

import "github.com/prometheus/client_golang/prometheus"

// UpstreamMetrics counts and times calls made to external APIs.
type UpstreamMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	slotsFound      prometheus.Counter
}

func NewUpstreamMetrics(reg prometheus.Registerer) *UpstreamMetrics {
	m := &UpstreamMetrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "slotfinder",
			Subsystem: "upstream",
			Name:      "requests_total",
			Help:      "Total requests sent to external APIs",
		}, []string{"endpoint", "outcome"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "slotfinder",
			Subsystem: "upstream",
			Name:      "request_duration_seconds",
			Help:      "Latency of requests sent to external APIs",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
		slotsFound: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "slotfinder",
			Subsystem: "finder",
			Name:      "slots_found_total",
			Help:      "Appointment slots returned to callers",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.requestsTotal, m.requestDuration, m.slotsFound)
	return m
}

// ObserveRequest records one call and its outcome label.
func (m *UpstreamMetrics) ObserveRequest(endpoint, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(endpoint, outcome).Inc()
	m.requestDuration.WithLabelValues(endpoint).Observe(seconds)
}

func (m *UpstreamMetrics) AddSlots(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.slotsFound.Add(float64(n))
}
