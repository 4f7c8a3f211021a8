// Package metrics provides Prometheus metrics for the place names service.
// HTTP metrics:
//   - http_request_total: Counter with method, path, and status labels
//   - http_request_duration_seconds: Histogram with method and path labels
//   - http_request_in_flight: Gauge for concurrent requests
//
// Data package metrics:
//   - datapackage_fetch_total: Counter with kind (manifest/resource) and status labels
//   - datapackage_fetch_duration_seconds: Histogram with kind label
//   - placenames_last_refresh_timestamp_seconds and placenames_names_total gauges
//
// All metrics are registered with the Prometheus default registry during
// package initialization.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	RateLimiterBucketsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rate_limiter_buckets_total",
			Help: "Total number of rate limiter buckets",
		},
	)

	FetchTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "datapackage_fetch_total",
			Help: "Total data package downloads",
		},
		[]string{"kind", "status"},
	)

	FetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "datapackage_fetch_duration_seconds",
			Help:    "Data package download latency",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"kind"},
	)

	LastRefreshTimestamp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "placenames_last_refresh_timestamp_seconds",
			Help: "Unix time of the last successful refresh",
		},
	)

	NamesTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "placenames_names_total",
			Help: "Number of names currently served, by kind",
		},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(RateLimiterBucketsTotal)
	prometheus.MustRegister(FetchTotals)
	prometheus.MustRegister(FetchDuration)
	prometheus.MustRegister(LastRefreshTimestamp)
	prometheus.MustRegister(NamesTotal)
}
