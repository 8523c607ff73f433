// README: Route resolver with a bounded snap-to-road recovery policy.
package routing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"ridehub/internal/maps"
	"ridehub/internal/observability"
	"ridehub/internal/types"
)

var (
	// ErrNoRouteFound is terminal for a given coordinate pair: the primary
	// call and the single snapped retry both failed to produce a route.
	ErrNoRouteFound = errors.New("no route found")
	// ErrServiceUnavailable covers timeouts and transport failures; the
	// caller may retry later with the same inputs.
	ErrServiceUnavailable = errors.New("routing service unavailable")
)

// coordTolerance is the float tolerance below which two coordinates are the
// same point (~0.1m at the equator). Retrying the route call with inputs
// inside this tolerance would just reproduce the failure.
const coordTolerance = 1e-6

type Resolver struct {
	provider maps.RoutingProvider
	logger   *slog.Logger
}

func NewResolver(provider maps.RoutingProvider, logger *slog.Logger) *Resolver {
	return &Resolver{provider: provider, logger: logger}
}

// Resolve turns a pickup/dropoff pair into a Result. On a "no route"
// response it makes exactly one recovery attempt: both endpoints are
// snapped to the road network concurrently and the route call is retried
// once, but only if snapping actually moved at least one endpoint.
func (r *Resolver) Resolve(ctx context.Context, pickup, dropoff types.Point) (Result, error) {
	start := time.Now()
	res, err := r.resolve(ctx, pickup, dropoff)
	observability.RouteResolveDuration.Observe(time.Since(start).Seconds())
	switch {
	case err == nil:
		observability.RouteResolutionsTotal.WithLabelValues("ok").Inc()
	case errors.Is(err, ErrNoRouteFound):
		observability.RouteResolutionsTotal.WithLabelValues("no_route").Inc()
	default:
		observability.RouteResolutionsTotal.WithLabelValues("unavailable").Inc()
	}
	return res, err
}

func (r *Resolver) resolve(ctx context.Context, pickup, dropoff types.Point) (Result, error) {
	route, err := r.provider.Route(ctx, pickup, dropoff)
	if err == nil {
		return fromRoute(route, false), nil
	}
	if !errors.Is(err, maps.ErrNoRoute) {
		return Result{}, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}

	snappedPickup, snappedDropoff := r.snapBoth(ctx, pickup, dropoff)
	if samePoint(snappedPickup, pickup) && samePoint(snappedDropoff, dropoff) {
		// Snapping changed nothing; a retry would fail identically.
		return Result{}, ErrNoRouteFound
	}

	r.logger.Info("retrying route with snapped endpoints",
		"pickup_moved", !samePoint(snappedPickup, pickup),
		"dropoff_moved", !samePoint(snappedDropoff, dropoff))

	route, err = r.provider.Route(ctx, snappedPickup, snappedDropoff)
	if err != nil {
		if errors.Is(err, maps.ErrNoRoute) {
			return Result{}, ErrNoRouteFound
		}
		return Result{}, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	observability.RouteFallbacksTotal.Inc()
	return fromRoute(route, true), nil
}

// snapBoth looks up the nearest road position for both endpoints
// concurrently. A failed lookup keeps the original coordinate.
func (r *Resolver) snapBoth(ctx context.Context, pickup, dropoff types.Point) (types.Point, types.Point) {
	snapped := [2]types.Point{pickup, dropoff}
	var wg sync.WaitGroup
	for i, pt := range snapped {
		wg.Add(1)
		go func(i int, pt types.Point) {
			defer wg.Done()
			if p, err := r.provider.Nearest(ctx, pt); err == nil {
				snapped[i] = p
			} else {
				r.logger.Warn("nearest-point lookup failed, keeping original", "err", err)
			}
		}(i, pt)
	}
	wg.Wait()
	return snapped[0], snapped[1]
}

func fromRoute(route maps.Route, usedFallback bool) Result {
	return Result{
		Geometry:        route.Geometry,
		DistanceMeters:  route.DistanceMeters,
		DurationSeconds: route.DurationSeconds,
		UsedFallback:    usedFallback,
	}
}

func samePoint(a, b types.Point) bool {
	return math.Abs(a.Lat-b.Lat) < coordTolerance && math.Abs(a.Lng-b.Lng) < coordTolerance
}
