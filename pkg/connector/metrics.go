package connector

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors updated by the connector
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vapil",
			Name:      "requests_total",
			Help:      "Vault API requests by HTTP method and status code.",
		}, []string{"method", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "vapil",
			Name:      "request_duration_seconds",
			Help:      "Vault API request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}

	if reg != nil {
		for _, c := range []prometheus.Collector{m.requests, m.duration} {
			if err := reg.Register(c); err != nil {
				return nil, fmt.Errorf("failed to register metrics: %w", err)
			}
		}
	}
	return m, nil
}

// Requests returns the request counter
func (m *Metrics) Requests() *prometheus.CounterVec {
	return m.requests
}

func (m *Metrics) observe(method, code string, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, code).Inc()
	m.duration.WithLabelValues(method).Observe(d.Seconds())
}
