package metrics

import "time"

// ObserveFetch records one data package download.
func ObserveFetch(kind string, status string, elapsed time.Duration) {
	FetchTotals.WithLabelValues(kind, status).Inc()
	FetchDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}
