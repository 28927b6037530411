package apiclient

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total number of backend API calls broken down by method and status class.",
		}, []string{"method", "status"}),
		latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "latency_seconds",
			Help:      "Latency distribution for backend API calls.",
			Buckets: []float64{
				0.005, 0.01, 0.02, 0.05,
				0.1, 0.2, 0.5, 1,
				2, 5, 10, 30,
			},
		}, []string{"method", "status"}),
	}
}

func (m *Metrics) observe(method string, status int, canceled bool, latency time.Duration) {
	if m == nil {
		return
	}
	labels := prometheus.Labels{
		"method": method,
		"status": statusClass(status, canceled),
	}
	m.requests.With(labels).Inc()
	m.latency.With(labels).Observe(latency.Seconds())
}

func statusClass(status int, canceled bool) string {
	switch {
	case canceled:
		return "canceled"
	case status == 0:
		return "network"
	default:
		return strconv.Itoa(status/100) + "xx"
	}
}
