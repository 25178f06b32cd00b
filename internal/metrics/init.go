package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initHTTPMetrics() {
	r.HTTPRequestsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobb_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	r.HTTPRequestDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jobb_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
}

func (r *Registry) initHandlelisteMetrics() {
	r.HandlelisteItems = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "jobb_handleliste_items",
			Help:    "Number of items in generated handlelister",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
	)

	r.HandlelisteErrors = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobb_handleliste_errors_total",
			Help: "Rejected handleliste requests",
		},
		[]string{"reason"}, // component, line_index, transition, brand, request
	)

	r.FittingWritesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobb_fitting_writes_total",
			Help: "Fitting insert/update attempts",
		},
		[]string{"status"}, // success, invalid, error
	)
}
