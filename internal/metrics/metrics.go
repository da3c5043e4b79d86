package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "http_in_flight_requests",
		Help: "In-flight HTTP requests.",
	})

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// LogAppendFailures counts access-log writes that failed after the
	// primary registry operation had already succeeded.
	LogAppendFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "access_log_append_failures_total",
		Help: "Access log appends that failed.",
	})

	// DegradedReads counts reads served by the fallback query.
	DegradedReads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "degraded_reads_total",
			Help: "Reads that fell back to the degraded query.",
		},
		[]string{"query"},
	)

	AccessEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "access_events_total",
			Help: "Access log entries appended, by action.",
		},
		[]string{"action"},
	)
)

var initOnce sync.Once

// Init registers all collectors in the default registry. Safe to call more than once.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			HTTPInFlight, HTTPRequestsTotal, HTTPRequestDuration,
			LogAppendFailures, DegradedReads, AccessEvents,
		)
	})
}
