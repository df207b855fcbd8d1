// Package metrics defines the Prometheus metrics for the button and its
// Clockify client. Metrics register with the default registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "clockify"

// APIRequestsTotal counts calls made against the Clockify API.
// Labels:
//   - method: HTTP method
//   - status: response status code, or "error" for network failures
var APIRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_requests_total",
		Help:      "Total number of Clockify API requests.",
	},
	[]string{"method", "status"},
)

// APIRequestDuration measures Clockify API round trips.
var APIRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "api_request_duration_seconds",
		Help:      "Duration of Clockify API requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method"},
)

// ButtonRunsTotal counts toggle runs by terminal state.
var ButtonRunsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "button_runs_total",
		Help:      "Total number of button runs, by terminal state.",
	},
	[]string{"state"},
)

// SyncedRowsTotal counts rows upserted into the reporting sink.
var SyncedRowsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "synced_rows_total",
		Help:      "Total number of rows upserted by the reporting sync.",
	},
	[]string{"table"},
)
