// File: metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// CGRBuilds counts condensed graphs built, by cgr_type
	CGRBuilds = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cgr_builds_total",
			Help: "Total number of condensed reaction graphs built",
		},
		[]string{"mode"},
	)

	// CGRDecompositions counts condensed graphs split back into reactions
	CGRDecompositions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cgr_decompositions_total",
			Help: "Total number of condensed graphs decomposed",
		},
	)

	// ReactorCandidates counts patched candidates per template index
	ReactorCandidates = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reactor_candidates_total",
			Help: "Total number of candidates produced, by template",
		},
		[]string{"template"},
	)

	// ReactorSearches counts template searches by outcome (hit or miss)
	ReactorSearches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reactor_searches_total",
			Help: "Total number of template searches, by result",
		},
		[]string{"result"},
	)

	// RequestDuration tracks HTTP handler latency per route
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
)

func init() {
	// Register metrics with the default registry
	prometheus.MustRegister(CGRBuilds)
	prometheus.MustRegister(CGRDecompositions)
	prometheus.MustRegister(ReactorCandidates)
	prometheus.MustRegister(ReactorSearches)
	prometheus.MustRegister(RequestDuration)
}
