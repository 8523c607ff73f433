// README: Integration tests for the trip HTTP surface.
package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	httptransport "ridehub/internal/http"
	"ridehub/internal/maps"
	"ridehub/internal/modules/dispatch"
	"ridehub/internal/modules/notify"
	"ridehub/internal/modules/places"
	"ridehub/internal/modules/pricing"
	"ridehub/internal/modules/routing"
	"ridehub/internal/modules/trip"
	"ridehub/internal/service"
	"ridehub/internal/types"
)

// fakeRouter is a test double for maps.RoutingProvider.
type fakeRouter struct {
	noRoute bool
}

func (f *fakeRouter) Route(_ context.Context, pickup, dropoff types.Point) (maps.Route, error) {
	if f.noRoute {
		return maps.Route{}, maps.ErrNoRoute
	}
	return maps.Route{
		Geometry:        []types.Point{pickup, dropoff},
		DistanceMeters:  5000,
		DurationSeconds: 900,
	}, nil
}

func (f *fakeRouter) Nearest(_ context.Context, p types.Point) (types.Point, error) {
	return p, nil
}

// stubSettings is a test double for pricing.SettingsStore.
type stubSettings struct{ cfg pricing.Config }

func (s *stubSettings) Load(context.Context) (pricing.Config, error) { return s.cfg, nil }
func (s *stubSettings) Save(_ context.Context, cfg pricing.Config) error {
	s.cfg = cfg
	return nil
}

// acceptAllGateway offers always succeed.
type acceptAllGateway struct{}

func (acceptAllGateway) Offer(context.Context, types.ID, *trip.Trip) (dispatch.Outcome, error) {
	return dispatch.OutcomeAccepted, nil
}

// fixedPool returns a static candidate list.
type fixedPool struct{ drivers []types.ID }

func (p *fixedPool) Nearby(context.Context, types.Point, int) ([]types.ID, error) {
	return p.drivers, nil
}

func buildTestRouter(t *testing.T, provider maps.RoutingProvider, drivers ...types.ID) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	settings := &stubSettings{cfg: pricing.Config{
		BaseFare:  2000,
		PerKmFare: 500,
		VehicleMultipliers: map[pricing.VehicleClass]float64{
			pricing.ClassRegular: 1.0,
			pricing.ClassVIP:     2.0,
		},
		Currency: "BDT",
	}}
	pricingSvc := pricing.NewService(settings, logger)
	if err := pricingSvc.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh pricing: %v", err)
	}

	resolver := routing.NewResolver(provider, logger)
	placesSvc := places.NewService(maps.NoGeocoder{}, logger)
	tripSvc := trip.NewService(trip.NewMemStore(), notify.Noop{}, logger)
	coordinator := dispatch.NewCoordinator(&fixedPool{drivers: drivers}, acceptAllGateway{}, tripSvc, logger, time.Second, 0)
	booker := service.NewBooker(resolver, pricingSvc, placesSvc, tripSvc, logger)

	return httptransport.NewRouter(httptransport.RouterDeps{
		Booker:   booker,
		Trips:    tripSvc,
		Dispatch: coordinator,
		Pricing:  pricingSvc,
		Places:   placesSvc,
		Sessions: routing.NewSessionRegistry(resolver),
		Logger:   logger,
	})
}

func doRequest(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createTrip(t *testing.T, r http.Handler) string {
	t.Helper()
	w := doRequest(r, http.MethodPost, "/api/trips", map[string]any{
		"customer_id": "cust-1",
		"pickup_lat":  23.7808, "pickup_lng": 90.4172,
		"dropoff_lat": 23.7515, "dropoff_lng": 90.3931,
		"vehicle_class": "regular",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create trip: expected 201, got %d (%s)", w.Code, w.Body.String())
	}
	var resp struct {
		TripID string `json:"trip_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	return resp.TripID
}

func TestCreateTrip_QuotesFromRoute(t *testing.T) {
	r := buildTestRouter(t, &fakeRouter{})
	w := doRequest(r, http.MethodPost, "/api/trips", map[string]any{
		"customer_id": "cust-1",
		"pickup_lat":  23.7808, "pickup_lng": 90.4172,
		"dropoff_lat": 23.7515, "dropoff_lng": 90.3931,
		"vehicle_class": "regular",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", w.Code, w.Body.String())
	}
	var resp struct {
		Status      string `json:"status"`
		QuotedPrice struct {
			Amount   int64  `json:"amount"`
			Currency string `json:"currency"`
		} `json:"quoted_price"`
		DistanceMeters float64 `json:"distance_meters"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != "requested" {
		t.Errorf("expected requested, got %s", resp.Status)
	}
	if resp.QuotedPrice.Amount != 4500 || resp.QuotedPrice.Currency != "BDT" {
		t.Errorf("expected 4500 BDT, got %d %s", resp.QuotedPrice.Amount, resp.QuotedPrice.Currency)
	}
	if resp.DistanceMeters != 5000 {
		t.Errorf("expected 5000m, got %v", resp.DistanceMeters)
	}
}

func TestCreateTrip_NoRoute(t *testing.T) {
	r := buildTestRouter(t, &fakeRouter{noRoute: true})
	w := doRequest(r, http.MethodPost, "/api/trips", map[string]any{
		"customer_id": "cust-1",
		"pickup_lat":  23.7808, "pickup_lng": 90.4172,
		"dropoff_lat": 23.7515, "dropoff_lng": 90.3931,
		"vehicle_class": "regular",
	})
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d (%s)", w.Code, w.Body.String())
	}
}

func TestCreateTrip_UnknownClass(t *testing.T) {
	r := buildTestRouter(t, &fakeRouter{})
	w := doRequest(r, http.MethodPost, "/api/trips", map[string]any{
		"customer_id": "cust-1",
		"pickup_lat":  23.7808, "pickup_lng": 90.4172,
		"dropoff_lat": 23.7515, "dropoff_lng": 90.3931,
		"vehicle_class": "hovercraft",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d (%s)", w.Code, w.Body.String())
	}
}

func TestTripLifecycleOverHTTP(t *testing.T) {
	r := buildTestRouter(t, &fakeRouter{})
	id := createTrip(t, r)

	steps := []struct {
		path string
		want int
	}{
		{fmt.Sprintf("/api/trips/%s/accept?driver_id=drv-1", id), http.StatusOK},
		{fmt.Sprintf("/api/trips/%s/arrive", id), http.StatusOK},
		{fmt.Sprintf("/api/trips/%s/start", id), http.StatusOK},
		{fmt.Sprintf("/api/trips/%s/complete", id), http.StatusOK},
	}
	for _, step := range steps {
		if w := doRequest(r, http.MethodPost, step.path, nil); w.Code != step.want {
			t.Fatalf("%s: expected %d, got %d (%s)", step.path, step.want, w.Code, w.Body.String())
		}
	}

	w := doRequest(r, http.MethodGet, "/api/trips/"+id, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get trip: expected 200, got %d", w.Code)
	}
	var resp struct {
		Status     string `json:"status"`
		DriverID   string `json:"driver_id"`
		FinalPrice *struct {
			Amount int64 `json:"amount"`
		} `json:"final_price"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != "completed" {
		t.Errorf("expected completed, got %s", resp.Status)
	}
	if resp.DriverID != "drv-1" {
		t.Errorf("expected drv-1, got %q", resp.DriverID)
	}
	if resp.FinalPrice == nil || resp.FinalPrice.Amount != 4500 {
		t.Errorf("expected final price 4500, got %+v", resp.FinalPrice)
	}
}

func TestIllegalTransitionIsConflict(t *testing.T) {
	r := buildTestRouter(t, &fakeRouter{})
	id := createTrip(t, r)

	// Start before accept skips two states.
	if w := doRequest(r, http.MethodPost, fmt.Sprintf("/api/trips/%s/start", id), nil); w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d (%s)", w.Code, w.Body.String())
	}
}

func TestCancelAfterArriveIsConflict(t *testing.T) {
	r := buildTestRouter(t, &fakeRouter{})
	id := createTrip(t, r)
	doRequest(r, http.MethodPost, fmt.Sprintf("/api/trips/%s/accept?driver_id=drv-1", id), nil)
	doRequest(r, http.MethodPost, fmt.Sprintf("/api/trips/%s/arrive", id), nil)

	w := doRequest(r, http.MethodPost, fmt.Sprintf("/api/trips/%s/cancel", id), map[string]any{
		"actor_type": "customer",
		"reason":     "changed my mind",
	})
	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d (%s)", w.Code, w.Body.String())
	}
}

func TestGetMissingTrip(t *testing.T) {
	r := buildTestRouter(t, &fakeRouter{})
	w := doRequest(r, http.MethodGet, "/api/trips/nope", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestQuoteEndpoint(t *testing.T) {
	r := buildTestRouter(t, &fakeRouter{})
	w := doRequest(r, http.MethodPost, "/api/quotes", map[string]any{
		"pickup_lat": 23.7808, "pickup_lng": 90.4172,
		"dropoff_lat": 23.7515, "dropoff_lng": 90.3931,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	var resp struct {
		Fares map[string]struct {
			Amount int64 `json:"amount"`
		} `json:"fares"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Fares["regular"].Amount != 4500 {
		t.Errorf("regular: expected 4500, got %d", resp.Fares["regular"].Amount)
	}
	if resp.Fares["vip"].Amount != 9000 {
		t.Errorf("vip: expected 9000, got %d", resp.Fares["vip"].Amount)
	}
}

func TestDispatchEndpoint(t *testing.T) {
	r := buildTestRouter(t, &fakeRouter{}, "drv-7")
	id := createTrip(t, r)

	w := doRequest(r, http.MethodPost, fmt.Sprintf("/api/trips/%s/dispatch", id), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	var resp struct {
		DriverID string `json:"driver_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.DriverID != "drv-7" {
		t.Errorf("expected drv-7, got %q", resp.DriverID)
	}
}

func TestPricingPatchEndpoint(t *testing.T) {
	r := buildTestRouter(t, &fakeRouter{})
	w := doRequest(r, http.MethodPatch, "/api/pricing", map[string]any{"base_fare": 3000})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	var resp struct {
		BaseFare int64 `json:"base_fare"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.BaseFare != 3000 {
		t.Errorf("expected 3000, got %d", resp.BaseFare)
	}

	// Invalid updates are rejected.
	w = doRequest(r, http.MethodPatch, "/api/pricing", map[string]any{"commission_percent": 140})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d (%s)", w.Code, w.Body.String())
	}
}

func TestRoutePreviewEndpoint(t *testing.T) {
	r := buildTestRouter(t, &fakeRouter{})

	body := map[string]any{
		"pickup_lat": 23.7808, "pickup_lng": 90.4172,
		"dropoff_lat": 23.7515, "dropoff_lng": 90.3931,
	}
	w := doRequest(r, http.MethodPost, "/api/customers/cust-1/route", body)
	if w.Code != http.StatusOK {
		t.Fatalf("recompute: expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	var resp struct {
		DistanceMeters float64 `json:"distance_meters"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.DistanceMeters != 5000 {
		t.Errorf("expected 5000m, got %v", resp.DistanceMeters)
	}

	// The committed route is readable back for the same customer.
	w = doRequest(r, http.MethodGet, "/api/customers/cust-1/route", nil)
	if w.Code != http.StatusOK {
		t.Errorf("current: expected 200, got %d", w.Code)
	}

	// A customer with no resolution yet has no current route.
	w = doRequest(r, http.MethodGet, "/api/customers/cust-2/route", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}
