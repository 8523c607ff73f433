// README: Google Maps implementation of the routing and geocoding collaborators.
package maps

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"googlemaps.github.io/maps"

	"ridehub/internal/types"
)

// GoogleProvider serves routing, snap-to-road, and geocoding through the
// Google Maps web services.
type GoogleProvider struct {
	client   *maps.Client
	language string
}

// NewGoogleProvider creates a provider with the given API key. The timeout
// bounds every outbound call so a slow service surfaces as an error instead
// of a hang.
func NewGoogleProvider(apiKey, language string, timeout time.Duration) (*GoogleProvider, error) {
	client, err := maps.NewClient(
		maps.WithAPIKey(apiKey),
		maps.WithHTTPClient(&http.Client{Timeout: timeout}),
	)
	if err != nil {
		return nil, fmt.Errorf("create maps client: %w", err)
	}
	return &GoogleProvider{client: client, language: language}, nil
}

func (p *GoogleProvider) Route(ctx context.Context, pickup, dropoff types.Point) (Route, error) {
	r := &maps.DirectionsRequest{
		Origin:      latLngString(pickup),
		Destination: latLngString(dropoff),
		Mode:        maps.TravelModeDriving,
		Language:    p.language,
	}
	routes, _, err := p.client.Directions(ctx, r)
	if err != nil {
		return Route{}, fmt.Errorf("directions: %w", err)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		// ZERO_RESULTS comes back as an empty route list, not an error.
		return Route{}, ErrNoRoute
	}

	best := routes[0]
	path, err := best.OverviewPolyline.Decode()
	if err != nil {
		return Route{}, fmt.Errorf("decode polyline: %w", err)
	}
	geometry := make([]types.Point, 0, len(path))
	for _, ll := range path {
		geometry = append(geometry, types.Point{Lat: ll.Lat, Lng: ll.Lng})
	}

	var distance float64
	var duration time.Duration
	for _, leg := range best.Legs {
		distance += float64(leg.Distance.Meters)
		duration += leg.Duration
	}
	return Route{
		Geometry:        geometry,
		DistanceMeters:  distance,
		DurationSeconds: duration.Seconds(),
	}, nil
}

func (p *GoogleProvider) Nearest(ctx context.Context, pt types.Point) (types.Point, error) {
	resp, err := p.client.SnapToRoad(ctx, &maps.SnapToRoadRequest{
		Path: []maps.LatLng{{Lat: pt.Lat, Lng: pt.Lng}},
	})
	if err != nil {
		return types.Point{}, fmt.Errorf("snap to road: %w", err)
	}
	if len(resp.SnappedPoints) == 0 {
		return types.Point{}, ErrNoNearbyRoad
	}
	loc := resp.SnappedPoints[0].Location
	return types.Point{Lat: loc.Lat, Lng: loc.Lng}, nil
}

func (p *GoogleProvider) ReverseGeocode(ctx context.Context, pt types.Point) (string, error) {
	results, err := p.client.ReverseGeocode(ctx, &maps.GeocodingRequest{
		LatLng:   &maps.LatLng{Lat: pt.Lat, Lng: pt.Lng},
		Language: p.language,
	})
	if err != nil {
		return "", fmt.Errorf("reverse geocode: %w", err)
	}
	if len(results) == 0 {
		return "", fmt.Errorf("reverse geocode: no results for %s", latLngString(pt))
	}
	return results[0].FormattedAddress, nil
}

func (p *GoogleProvider) Autocomplete(ctx context.Context, query string, focus *types.Point) ([]Suggestion, error) {
	r := &maps.TextSearchRequest{
		Query:    query,
		Language: p.language,
	}
	if focus != nil {
		r.Location = &maps.LatLng{Lat: focus.Lat, Lng: focus.Lng}
		r.Radius = 50000
	}
	resp, err := p.client.TextSearch(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("text search: %w", err)
	}
	suggestions := make([]Suggestion, 0, len(resp.Results))
	for _, result := range resp.Results {
		label := result.Name
		if result.FormattedAddress != "" {
			label = result.Name + ", " + result.FormattedAddress
		}
		suggestions = append(suggestions, Suggestion{
			Label: label,
			Position: types.Point{
				Lat: result.Geometry.Location.Lat,
				Lng: result.Geometry.Location.Lng,
			},
		})
	}
	return suggestions, nil
}

func latLngString(p types.Point) string {
	return fmt.Sprintf("%f,%f", p.Lat, p.Lng)
}
