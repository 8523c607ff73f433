// README: Booking orchestrator tests.
package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"ridehub/internal/maps"
	"ridehub/internal/modules/notify"
	"ridehub/internal/modules/places"
	"ridehub/internal/modules/pricing"
	"ridehub/internal/modules/routing"
	"ridehub/internal/modules/trip"
	"ridehub/internal/types"
)

type fakeRouter struct{}

func (fakeRouter) Route(_ context.Context, pickup, dropoff types.Point) (maps.Route, error) {
	return maps.Route{
		Geometry:        []types.Point{pickup, dropoff},
		DistanceMeters:  5000,
		DurationSeconds: 900,
	}, nil
}

func (fakeRouter) Nearest(_ context.Context, p types.Point) (types.Point, error) {
	return p, nil
}

type fakeGeocoder struct{}

func (fakeGeocoder) ReverseGeocode(context.Context, types.Point) (string, error) {
	return "12 Gulshan Avenue", nil
}

func (fakeGeocoder) Autocomplete(context.Context, string, *types.Point) ([]maps.Suggestion, error) {
	return nil, nil
}

type stubSettings struct{ cfg pricing.Config }

func (s *stubSettings) Load(context.Context) (pricing.Config, error)   { return s.cfg, nil }
func (s *stubSettings) Save(_ context.Context, c pricing.Config) error { s.cfg = c; return nil }

func newTestBooker(t *testing.T, geocoder maps.GeocodingProvider) (*Booker, *trip.MemStore) {
	t.Helper()
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
	store := trip.NewMemStore()
	tripSvc := trip.NewService(store, notify.Noop{}, logger)
	booker := NewBooker(
		routing.NewResolver(fakeRouter{}, logger),
		pricingSvc,
		places.NewService(geocoder, logger),
		tripSvc,
		logger,
	)
	return booker, store
}

var (
	pickup  = types.Point{Lat: 23.7808, Lng: 90.4172}
	dropoff = types.Point{Lat: 23.7515, Lng: 90.3931}
)

func TestBookCreatesRequestedTrip(t *testing.T) {
	booker, _ := newTestBooker(t, fakeGeocoder{})
	got, err := booker.Book(context.Background(), BookingRequest{
		CustomerID:   "cust-1",
		Pickup:       pickup,
		Dropoff:      dropoff,
		VehicleClass: pricing.ClassRegular,
	})
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if got.Status != trip.StatusRequested {
		t.Errorf("expected requested, got %s", got.Status)
	}
	if got.QuotedPrice.Amount != 4500 {
		t.Errorf("expected quote 4500, got %d", got.QuotedPrice.Amount)
	}
	if got.Pickup.Address != "12 Gulshan Avenue" {
		t.Errorf("expected geocoded pickup address, got %q", got.Pickup.Address)
	}
	if got.Route.DistanceMeters != 5000 {
		t.Errorf("expected 5000m route, got %v", got.Route.DistanceMeters)
	}
}

func TestBookFallsBackToPlaceholderAddress(t *testing.T) {
	booker, _ := newTestBooker(t, maps.NoGeocoder{})
	got, err := booker.Book(context.Background(), BookingRequest{
		CustomerID:   "cust-1",
		Pickup:       pickup,
		Dropoff:      dropoff,
		VehicleClass: pricing.ClassRegular,
	})
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if got.Pickup.Address != places.Placeholder(pickup) {
		t.Errorf("expected placeholder address, got %q", got.Pickup.Address)
	}
}

func TestBookScheduledTrip(t *testing.T) {
	booker, _ := newTestBooker(t, fakeGeocoder{})
	at := time.Now().Add(2 * time.Hour)
	got, err := booker.Book(context.Background(), BookingRequest{
		CustomerID:   "cust-1",
		Pickup:       pickup,
		Dropoff:      dropoff,
		VehicleClass: pricing.ClassVIP,
		ScheduledAt:  &at,
	})
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if got.Status != trip.StatusScheduled {
		t.Errorf("expected scheduled, got %s", got.Status)
	}
	if got.ScheduledAt == nil || !got.ScheduledAt.Equal(at) {
		t.Errorf("expected scheduled_at %v, got %v", at, got.ScheduledAt)
	}
}

func TestBookUnknownClassCreatesNothing(t *testing.T) {
	booker, store := newTestBooker(t, fakeGeocoder{})
	_, err := booker.Book(context.Background(), BookingRequest{
		CustomerID:   "cust-1",
		Pickup:       pickup,
		Dropoff:      dropoff,
		VehicleClass: "hovercraft",
	})
	if !errors.Is(err, pricing.ErrUnknownVehicleClass) {
		t.Fatalf("expected ErrUnknownVehicleClass, got %v", err)
	}
	if events := store.Events("any"); len(events) != 0 {
		t.Errorf("expected no events, got %d", len(events))
	}
}

func TestQuotePricesAllClasses(t *testing.T) {
	booker, _ := newTestBooker(t, fakeGeocoder{})
	est, err := booker.Quote(context.Background(), pickup, dropoff)
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if est.Fares[pricing.ClassRegular].Amount != 4500 {
		t.Errorf("regular: expected 4500, got %d", est.Fares[pricing.ClassRegular].Amount)
	}
	if est.Fares[pricing.ClassVIP].Amount != 9000 {
		t.Errorf("vip: expected 9000, got %d", est.Fares[pricing.ClassVIP].Amount)
	}
	if est.Route.DurationSeconds != 900 {
		t.Errorf("expected 900s, got %v", est.Route.DurationSeconds)
	}
}
