package api

import (
	"errors"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blogwire",
		Subsystem: "api",
		Name:      "requests_total",
		Help:      "API requests by endpoint and outcome.",
	}, []string{"endpoint", "outcome"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "blogwire",
		Subsystem: "api",
		Name:      "request_duration_seconds",
		Help:      "API request latency by endpoint.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint"})
)

// observeRequest records one completed round trip.
func observeRequest(endpoint string, err error, elapsed time.Duration) {
	requestsTotal.WithLabelValues(endpoint, outcomeLabel(err)).Inc()
	requestDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrUnreachable):
		return "unreachable"
	default:
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return string(apiErr.Kind)
		}
		return "error"
	}
}

// metricPath collapses resource IDs so endpoint labels stay bounded:
// /api/posts/42/like becomes /api/posts/:id/like.
func metricPath(path string) string {
	parts := strings.Split(path, "/")
	for i := 0; i < len(parts); i++ {
		if parts[i] == "posts" && i+1 < len(parts) && parts[i+1] != "" {
			parts[i+1] = ":id"
		}
	}
	return strings.Join(parts, "/")
}
