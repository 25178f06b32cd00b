package metrics

import "time"

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordHandleliste records the size of a generated list.
func (r *Registry) RecordHandleliste(items int) {
	r.HandlelisteItems.Observe(float64(items))
}

// RecordHandlelisteError counts a rejected request by reason.
func (r *Registry) RecordHandlelisteError(reason string) {
	r.HandlelisteErrors.WithLabelValues(reason).Inc()
}

// RecordFittingWrite counts a fitting write by outcome.
func (r *Registry) RecordFittingWrite(status string) {
	r.FittingWritesTotal.WithLabelValues(status).Inc()
}
