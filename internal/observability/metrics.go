// README: Prometheus metrics for routing, quoting, and trip flow.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RouteResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "ridehub", Name: "route_resolutions_total", Help: "Route resolutions by outcome"},
		[]string{"outcome"},
	)
	RouteFallbacksTotal = promauto.NewCounter(
		prometheus.CounterOpts{Namespace: "ridehub", Name: "route_fallbacks_total", Help: "Resolutions that used the snap-to-road fallback"},
	)
	RouteResolveDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{Namespace: "ridehub", Name: "route_resolve_duration_seconds", Help: "Route resolution latency", Buckets: prometheus.DefBuckets},
	)

	FareQuotesTotal = promauto.NewCounter(
		prometheus.CounterOpts{Namespace: "ridehub", Name: "fare_quotes_total", Help: "Fare quote computations"},
	)

	TripTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "ridehub", Name: "trip_transitions_total", Help: "Trip status transitions by target status"},
		[]string{"to"},
	)
	TripTransitionRejects = promauto.NewCounter(
		prometheus.CounterOpts{Namespace: "ridehub", Name: "trip_transition_rejects_total", Help: "Rejected trip transitions"},
	)

	OffersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "ridehub", Name: "dispatch_offers_total", Help: "Dispatch offers by outcome"},
		[]string{"outcome"},
	)
)
