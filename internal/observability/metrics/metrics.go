package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricPrefix = "shedule_"

var (
	registerOnce sync.Once

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
)

// Init registers the HTTP request metrics. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		httpRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "http_requests_total",
				Help: "Total HTTP requests by method and status",
			},
			[]string{"method", "status"},
		)
		httpLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "http_request_duration_seconds",
				Help:    "HTTP request latency by method and status",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "status"},
		)
		prometheus.MustRegister(httpRequests, httpLatency)
	})
}

// ObserveRequest records one handled request.
func ObserveRequest(method string, status int, elapsed time.Duration) {
	if httpRequests == nil {
		return
	}
	code := strconv.Itoa(status)
	httpRequests.WithLabelValues(method, code).Inc()
	httpLatency.WithLabelValues(method, code).Observe(elapsed.Seconds())
}
