package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DirectionsRequests counts proxied directions requests by outcome
	// (ok, cached, invalid, upstream_error).
	DirectionsRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "careassist_directions_requests_total",
			Help: "Number of directions proxy requests by outcome",
		},
		[]string{"outcome"},
	)

	// DirectionsUpstreamSeconds observes the routing provider latency
	DirectionsUpstreamSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "careassist_directions_upstream_seconds",
		Help:    "Latency of routing provider requests",
		Buckets: prometheus.DefBuckets,
	})
)

var (
	// HospitalQueries counts POI index queries by outcome (ok, error)
	HospitalQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "careassist_hospital_queries_total",
			Help: "Number of nearby hospital POI queries by outcome",
		},
		[]string{"outcome"},
	)

	// HospitalsReturned observes how many candidates a query produced
	HospitalsReturned = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "careassist_hospitals_returned",
		Help:    "Number of hospital candidates returned per query",
		Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
	})

	// LocationFallbacks counts acquisitions that ended on the fallback coordinate
	LocationFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "careassist_location_fallbacks_total",
		Help: "Number of location acquisitions that used the fallback coordinate",
	})
)
