package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "promptgrid_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "promptgrid_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	generationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "promptgrid_generations_total",
			Help: "Total number of grid generation requests by outcome",
		},
		[]string{"status"},
	)

	generationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "promptgrid_generation_duration_seconds",
			Help:    "End-to-end grid generation duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		},
	)

	creditsDeniedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "promptgrid_credits_denied_total",
			Help: "Total number of requests denied for exhausted credits",
		},
		[]string{"tier"},
	)

	creditsDebitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "promptgrid_credits_debited_total",
			Help: "Total number of credits debited",
		},
		[]string{"tier"},
	)

	upstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "promptgrid_upstream_requests_total",
			Help: "Total number of upstream model API calls by outcome",
		},
		[]string{"status"},
	)
)

// records a grid generation outcome (ok, invalid, quota, timeout, upstream, malformed)
func RecordGeneration(status string, duration time.Duration) {
	generationsTotal.WithLabelValues(status).Inc()
	generationDuration.Observe(duration.Seconds())
}

// records a request denied because the identity was out of credits
func RecordCreditDenied(tier string) {
	creditsDeniedTotal.WithLabelValues(tier).Inc()
}

// records one consumed credit
func RecordCreditDebited(tier string) {
	creditsDebitedTotal.WithLabelValues(tier).Inc()
}

// records an upstream model API call outcome
func RecordUpstreamRequest(status string) {
	upstreamRequestsTotal.WithLabelValues(status).Inc()
}

// gin middleware recording request counts and latency per route
func RequestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		httpRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// gin handler serving the prometheus scrape endpoint
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
