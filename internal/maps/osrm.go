// README: OSRM implementation of the routing collaborator.
package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"ridehub/internal/types"
)

// OSRMProvider routes against a self-hosted OSRM server. It only implements
// RoutingProvider; OSRM does not geocode.
type OSRMProvider struct {
	endpoint string
	client   *http.Client
}

func NewOSRMProvider(endpoint string, timeout time.Duration) *OSRMProvider {
	return &OSRMProvider{endpoint: endpoint, client: &http.Client{Timeout: timeout}}
}

func (o *OSRMProvider) Route(ctx context.Context, pickup, dropoff types.Point) (Route, error) {
	// OSRM takes lng,lat pairs on the wire; geometry comes back GeoJSON
	// (also lng,lat) and is normalized to (lat,lng) here.
	url := fmt.Sprintf("%s/route/v1/driving/%f,%f;%f,%f?overview=full&geometries=geojson",
		o.endpoint, pickup.Lng, pickup.Lat, dropoff.Lng, dropoff.Lat)

	var out struct {
		Code   string `json:"code"`
		Routes []struct {
			Distance float64 `json:"distance"`
			Duration float64 `json:"duration"`
			Geometry struct {
				Coordinates [][]float64 `json:"coordinates"`
			} `json:"geometry"`
		} `json:"routes"`
	}
	if err := o.getJSON(ctx, url, &out); err != nil {
		return Route{}, err
	}
	if out.Code == "NoRoute" || (out.Code == "Ok" && len(out.Routes) == 0) {
		return Route{}, ErrNoRoute
	}
	if out.Code != "Ok" {
		return Route{}, fmt.Errorf("osrm route: code %s", out.Code)
	}

	best := out.Routes[0]
	geometry := make([]types.Point, 0, len(best.Geometry.Coordinates))
	for _, pair := range best.Geometry.Coordinates {
		if len(pair) < 2 {
			continue
		}
		geometry = append(geometry, types.Point{Lat: pair[1], Lng: pair[0]})
	}
	return Route{
		Geometry:        geometry,
		DistanceMeters:  best.Distance,
		DurationSeconds: best.Duration,
	}, nil
}

func (o *OSRMProvider) Nearest(ctx context.Context, pt types.Point) (types.Point, error) {
	url := fmt.Sprintf("%s/nearest/v1/driving/%f,%f?number=1", o.endpoint, pt.Lng, pt.Lat)

	var out struct {
		Code      string `json:"code"`
		Waypoints []struct {
			Location []float64 `json:"location"`
		} `json:"waypoints"`
	}
	if err := o.getJSON(ctx, url, &out); err != nil {
		return types.Point{}, err
	}
	if out.Code != "Ok" || len(out.Waypoints) == 0 || len(out.Waypoints[0].Location) < 2 {
		return types.Point{}, ErrNoNearbyRoad
	}
	loc := out.Waypoints[0].Location
	return types.Point{Lat: loc[1], Lng: loc[0]}, nil
}

func (o *OSRMProvider) getJSON(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := o.client.Do(req)
	if err != nil {
		return fmt.Errorf("osrm request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusBadRequest {
		// OSRM reports NoRoute with a 400 and a code field, so 400 bodies
		// are still decoded.
		return fmt.Errorf("osrm request: status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
