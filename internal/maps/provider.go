// README: Routing and geocoding collaborator contracts.
package maps

import (
	"context"
	"errors"

	"ridehub/internal/types"
)

var (
	// ErrNoRoute means the service could not find a drivable path between
	// the given points. Distinct from transport failures.
	ErrNoRoute = errors.New("no route found")
	// ErrNoNearbyRoad means the nearest-point lookup found nothing to snap to.
	ErrNoNearbyRoad = errors.New("no nearby road")
)

// Route is a raw routing response, already normalized to (lat,lng) order.
type Route struct {
	Geometry        []types.Point
	DistanceMeters  float64
	DurationSeconds float64
}

// Suggestion is a ranked autocomplete result.
type Suggestion struct {
	Label    string
	Position types.Point
}

// RoutingProvider is the external routing collaborator.
type RoutingProvider interface {
	// Route returns the drivable path between pickup and dropoff, or
	// ErrNoRoute when the service reports no route for the pair.
	Route(ctx context.Context, pickup, dropoff types.Point) (Route, error)
	// Nearest snaps a point to the closest position on the road network.
	Nearest(ctx context.Context, p types.Point) (types.Point, error)
}

// GeocodingProvider is the external geocoding collaborator.
type GeocodingProvider interface {
	ReverseGeocode(ctx context.Context, p types.Point) (string, error)
	Autocomplete(ctx context.Context, query string, focus *types.Point) ([]Suggestion, error)
}

// NoGeocoder is used when no geocoding backend is configured. Callers fall
// back to coordinate placeholders.
type NoGeocoder struct{}

var errGeocoderUnconfigured = errors.New("no geocoding backend configured")

func (NoGeocoder) ReverseGeocode(context.Context, types.Point) (string, error) {
	return "", errGeocoderUnconfigured
}

func (NoGeocoder) Autocomplete(context.Context, string, *types.Point) ([]Suggestion, error) {
	return nil, errGeocoderUnconfigured
}
