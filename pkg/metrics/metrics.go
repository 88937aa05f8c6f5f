package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	SOSRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sos_requests_total",
			Help: "Total number of SOS alert requests by terminal status (count)",
		},
		[]string{"status"},
	)

	SOSRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sos_request_duration_ms",
			Help:    "End-to-end SOS request duration in milliseconds",
			Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
		},
		[]string{"status"},
	)

	DispatchAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_attempts_total",
			Help: "Total number of channel delivery attempts (count)",
		},
		[]string{"channel", "outcome"},
	)

	DispatchChannelLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dispatch_channel_latency_ms",
			Help:    "Latency of individual channel send calls in milliseconds",
			Buckets: []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		},
		[]string{"channel"},
	)

	DispatchExhaustedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dispatch_exhausted_total",
			Help: "Total number of dispatches that failed on every configured channel (count)",
		},
	)

	RateLimitRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limit_requests_total",
			Help: "Total number of requests checked against the rate limit (count)",
		},
		[]string{"status"},
	)

	RateLimitStoreErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rate_limit_store_errors_total",
			Help: "Total number of rate-limit store failures that fell back to allow (count)",
		},
	)

	LocationSamplesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "location_samples_total",
			Help: "Total number of location sampling ticks by outcome (count)",
		},
		[]string{"status"},
	)

	LocationTimelineSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "location_timeline_size",
			Help: "Number of samples currently retained in the location timeline (count)",
		},
	)

	HistoryWritesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_history_writes_total",
			Help: "Total number of dispatch history writes (count)",
		},
		[]string{"status"},
	)

	DispatchEventsPublishedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_events_published_total",
			Help: "Total number of dispatch events published to the broker (count)",
		},
		[]string{"status"},
	)

	ErrorReportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "error_reports_total",
			Help: "Total number of redacted error reports sent to the collector (count)",
		},
		[]string{"status"},
	)

	CircuitBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open) (state code)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker (count)",
		},
		[]string{"name", "state"},
	)

	CircuitBreakerFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_failures_total",
			Help: "Total number of failures through circuit breaker (count)",
		},
		[]string{"name"},
	)
)

func RegisterAlertMetrics() {
	prometheus.MustRegister(SOSRequestsTotal)
	prometheus.MustRegister(SOSRequestDuration)
	prometheus.MustRegister(DispatchAttemptsTotal)
	prometheus.MustRegister(DispatchChannelLatency)
	prometheus.MustRegister(DispatchExhaustedTotal)
	prometheus.MustRegister(RateLimitRequestsTotal)
	prometheus.MustRegister(RateLimitStoreErrorsTotal)
	prometheus.MustRegister(HistoryWritesTotal)
	prometheus.MustRegister(DispatchEventsPublishedTotal)
	prometheus.MustRegister(ErrorReportsTotal)
}

func RegisterTrackerMetrics() {
	prometheus.MustRegister(LocationSamplesTotal)
	prometheus.MustRegister(LocationTimelineSize)
}

func RegisterCircuitBreakerMetrics() {
	prometheus.MustRegister(CircuitBreakerState)
	prometheus.MustRegister(CircuitBreakerRequests)
	prometheus.MustRegister(CircuitBreakerFailures)
}

func ObserveSOSRequest(duration time.Duration, status string) {
	SOSRequestsTotal.WithLabelValues(status).Inc()
	SOSRequestDuration.WithLabelValues(status).Observe(float64(duration.Milliseconds()))
}

func ObserveDispatchAttempt(channel, outcome string, latency time.Duration) {
	DispatchAttemptsTotal.WithLabelValues(channel, outcome).Inc()
	DispatchChannelLatency.WithLabelValues(channel).Observe(float64(latency.Milliseconds()))
}
