package transport

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gpucloud_client_requests_total",
		Help: "Outbound API requests by method and status class.",
	}, []string{"method", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gpucloud_client_request_duration_seconds",
		Help:    "Outbound API request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})

	tokenRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gpucloud_client_token_refreshes_total",
		Help: "Access-token refresh attempts by outcome.",
	}, []string{"outcome"})

	sessionExpiries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gpucloud_client_session_expiries_total",
		Help: "Terminal auth failures that forced a logout.",
	})
)

func statusClass(status int) string {
	switch {
	case status < 200:
		return "1xx"
	case status < 300:
		return "2xx"
	case status < 400:
		return "3xx"
	case status < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
