package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Operation results used as the "result" label of ShowOperationsTotal.
const (
	ResultSuccess  = "success"
	ResultNotFound = "not_found"
	ResultInvalid  = "invalid"
)

// Show registry metrics
var (
	ShowOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "show_operations_total",
			Help: "Total number of show registry operations by operation and result.",
		},
		[]string{"operation", "result"},
	)

	RegistryEntries = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "show_registry_entries",
			Help: "Current number of shows in the registry.",
		},
	)
)

// HTTP metrics
var (
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests by method, route pattern and status code.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

func init() {
	prometheus.MustRegister(
		ShowOperationsTotal,
		RegistryEntries,
		HTTPRequestDuration,
	)
}
