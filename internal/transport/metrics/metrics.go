// Package metrics defines and registers all custom Prometheus metrics for
// the pipeline client's transport layer. It is the single source of truth
// for metric names, labels, and help strings.
//
// Metrics use promauto and the default registry; expose them with
// promhttp.Handler() when the embedding process serves HTTP.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "pipeline_client"

// RequestsTotal counts completed backend round-trips.
// Labels:
//   - method: HTTP method of the request (e.g. "GET", "PATCH")
//   - outcome: "ok", "validation", "unauthorized", "forbidden", "remote_error", "network_error"
var RequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_total",
		Help:      "Total number of backend requests, by method and outcome.",
	},
	[]string{"method", "outcome"},
)

// RequestDuration measures the wall-clock duration of a backend round-trip.
// Label:
//   - method: HTTP method of the request
var RequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "request_duration_seconds",
		Help:      "Duration of backend round-trips from send to decoded response.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method"},
)

// ForcedLogoutsTotal counts sessions destroyed by the response fault handler
// after a 401 on a non-auth endpoint.
var ForcedLogoutsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "forced_logouts_total",
		Help:      "Total number of sessions cleared after an authentication failure.",
	},
)
