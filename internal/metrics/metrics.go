// Package metrics registers the Prometheus metrics used by the dispatch
// service. Import it from the server entry point so all metrics are
// registered before the /metrics handler is mounted.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DispatchesTotal counts completed dispatches labelled by target and
	// HTTP status.
	DispatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "modelgate_dispatches_total",
			Help: "Total number of dispatch requests processed.",
		},
		[]string{"target", "status"},
	)

	// DispatchDuration observes end-to-end dispatch latency in seconds.
	DispatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "modelgate_dispatch_duration_seconds",
			Help:    "End-to-end dispatch duration in seconds.",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"target"},
	)

	// DispatchErrors counts failures by pipeline stage ("credentials",
	// "provider", "internal"). The HTTP envelope does not distinguish
	// these; the metric does.
	DispatchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "modelgate_dispatch_errors_total",
			Help: "Total dispatch failures by pipeline stage.",
		},
		[]string{"target", "stage"},
	)
)
