package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SearchRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_requests_total",
			Help: "Total number of search orchestrations by outcome",
		},
		[]string{"outcome"},
	)

	ResolverDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "resolver_duration_seconds",
			Help:    "Duration of each resolver in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"resolver"},
	)

	ResolverDegraded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resolver_degraded_total",
			Help: "Resolver outputs that fell back to a default facet",
		},
		[]string{"resolver", "reason"},
	)

	VenueFallback = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "venue_fallback_total",
			Help: "Venue resolution strategy attempts by outcome",
		},
		[]string{"strategy", "outcome"},
	)

	SearchResultsCount = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "search_results_count",
			Help:    "Number of restaurants returned per search",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 200},
		},
	)

	SearchesInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "searches_in_flight",
			Help: "Number of search orchestrations currently running",
		},
	)
)
