package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce         sync.Once
	apiRequestsTotal     *prometheus.CounterVec
	apiLatencySeconds    *prometheus.HistogramVec
	apiErrorsTotal       *prometheus.CounterVec
	evaluationsSubmitted prometheus.Counter
	evaluationsRejected  *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used for API observability.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "peereval_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "peereval_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "peereval_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		evaluationsSubmitted = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "peereval_evaluations_submitted_total",
			Help: "Total number of peer evaluations accepted.",
		})

		evaluationsRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "peereval_evaluations_rejected_total",
			Help: "Total number of peer evaluation submissions rejected, by reason.",
		}, []string{"reason"})

		prometheus.MustRegister(apiRequestsTotal, apiLatencySeconds, apiErrorsTotal, evaluationsSubmitted, evaluationsRejected)
	})
}

// APIRequests exposes the counter for API requests.
func APIRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// APILatency exposes the latency histogram for API requests.
func APILatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// APIErrors exposes the counter for API error responses.
func APIErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return apiErrorsTotal
}

// EvaluationsSubmitted exposes the counter for accepted evaluations.
func EvaluationsSubmitted() prometheus.Counter {
	RegisterMetrics()
	return evaluationsSubmitted
}

// EvaluationsRejected exposes the counter for rejected evaluation submissions.
func EvaluationsRejected() *prometheus.CounterVec {
	RegisterMetrics()
	return evaluationsRejected
}
