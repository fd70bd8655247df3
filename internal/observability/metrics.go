package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	httpRequestsTotal     *prometheus.CounterVec
	httpLatencySeconds    *prometheus.HistogramVec
	submissionsTotal      *prometheus.CounterVec
	gradingLatencySeconds prometheus.Histogram
	noticeCacheRequests   *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "denik_http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "denik_http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		submissionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "denik_submissions_total",
			Help: "Total number of recorded submissions by effective kind and status.",
		}, []string{"kind", "status"})

		gradingLatencySeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "denik_grading_latency_seconds",
			Help:    "Latency distribution of synchronous grading runs.",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		})

		noticeCacheRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "denik_notice_cache_requests_total",
			Help: "Notice board cache lookups by outcome.",
		}, []string{"result"})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			submissionsTotal,
			gradingLatencySeconds,
			noticeCacheRequests,
		)
	})
}

// HTTPRequests exposes the request counter.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the request latency histogram.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// Submissions exposes the submission counter.
func Submissions() *prometheus.CounterVec {
	RegisterMetrics()
	return submissionsTotal
}

// GradingLatency exposes the grading latency histogram.
func GradingLatency() prometheus.Histogram {
	RegisterMetrics()
	return gradingLatencySeconds
}

// NoticeCacheRequests exposes the notice cache counter.
func NoticeCacheRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return noticeCacheRequests
}
