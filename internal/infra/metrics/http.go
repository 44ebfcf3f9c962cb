package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() { register(httpRequestsTotal, httpLatencyMs) }

var httpRequestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "API requests, labeled by method and status code.",
	},
	[]string{"method", "status"},
)

var httpLatencyMs = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "http_request_latency_ms",
		Help:    "API request latency distribution in milliseconds.",
		Buckets: []float64{5, 10, 25, 50, 100, 200, 400, 800, 1600, 3000},
	},
	[]string{"method"},
)

func ObserveHTTPRequest(method string, status int, latencyMs float64) {
	httpRequestsTotal.WithLabelValues(norm(method), strconv.Itoa(status)).Inc()
	httpLatencyMs.WithLabelValues(norm(method)).Observe(latencyMs)
}
