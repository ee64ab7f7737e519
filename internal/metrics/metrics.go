// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label names.
const (
	LabelMethod = "method"
	LabelRoute  = "route"
	LabelStatus = "status"
	LabelOp     = "op"
	LabelList   = "list"
)

// HTTP metrics.
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zbirka_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		},
		[]string{LabelMethod, LabelRoute, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "zbirka_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{LabelMethod, LabelRoute},
	)
)

// Store metrics.
var (
	StoreOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zbirka_store_operations_total",
			Help: "Item store mutations by operation.",
		},
		[]string{LabelOp},
	)

	PersistFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "zbirka_store_persist_failures_total",
			Help: "Writes of the item list that failed and were dropped.",
		},
	)

	Items = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "zbirka_items",
			Help: "Items currently held, by list.",
		},
		[]string{LabelList},
	)
)
