// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "market_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
	authAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "market_auth_attempts_total",
			Help: "Signup and login attempts by outcome",
		},
		[]string{"event", "success"},
	)
	uploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "market_profile_uploads_total",
			Help: "Profile picture uploads by outcome",
		},
		[]string{"success"},
	)
)

// ObserveRequest records one served request.
func ObserveRequest(method, route string, status int, d time.Duration) {
	httpRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

// RecordAuthAttempt counts a signup/login/logout outcome.
func RecordAuthAttempt(event string, success bool) {
	authAttempts.WithLabelValues(event, strconv.FormatBool(success)).Inc()
}

// RecordUpload counts a profile picture upload outcome.
func RecordUpload(success bool) {
	uploads.WithLabelValues(strconv.FormatBool(success)).Inc()
}
