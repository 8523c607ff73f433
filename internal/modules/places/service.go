// README: Address suggestions and reverse geocoding with placeholder fallback.
package places

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"ridehub/internal/maps"
	"ridehub/internal/types"
)

var (
	// ErrGeocodingUnavailable is non-fatal: callers substitute a
	// coordinate placeholder rather than blocking the flow.
	ErrGeocodingUnavailable = errors.New("geocoding unavailable")
	// ErrSuperseded means a newer suggestion fetch was issued while this
	// one was in flight; its result must be discarded.
	ErrSuperseded = errors.New("suggestion fetch superseded")
)

type Service struct {
	geocoder maps.GeocodingProvider
	logger   *slog.Logger

	// seq is the generation counter behind last-request-wins: each fetch
	// takes a ticket and only the holder of the newest ticket may deliver.
	seq atomic.Uint64
}

func NewService(geocoder maps.GeocodingProvider, logger *slog.Logger) *Service {
	return &Service{geocoder: geocoder, logger: logger}
}

// Suggest fetches ranked address suggestions for a partial query, biased
// around the focus point when given. Concurrent calls race safely: a fetch
// that completes after a newer one was issued returns ErrSuperseded instead
// of stale results.
func (s *Service) Suggest(ctx context.Context, query string, focus *types.Point) ([]maps.Suggestion, error) {
	ticket := s.seq.Add(1)

	suggestions, err := s.geocoder.Autocomplete(ctx, query, focus)

	if s.seq.Load() != ticket {
		return nil, ErrSuperseded
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeocodingUnavailable, err)
	}
	return suggestions, nil
}

// ReverseGeocode resolves a display address for a point.
func (s *Service) ReverseGeocode(ctx context.Context, p types.Point) (string, error) {
	address, err := s.geocoder.ReverseGeocode(ctx, p)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeocodingUnavailable, err)
	}
	return address, nil
}

// Address is ReverseGeocode with the documented fallback: a geocoding
// failure yields a coordinate-literal placeholder so route and fare
// computation are never blocked on an address label.
func (s *Service) Address(ctx context.Context, p types.Point) string {
	address, err := s.ReverseGeocode(ctx, p)
	if err != nil {
		s.logger.Warn("reverse geocode failed, using placeholder", "err", err)
		return Placeholder(p)
	}
	return address
}

// Placeholder is the coordinate-literal address used when geocoding fails.
func Placeholder(p types.Point) string {
	return fmt.Sprintf("%.5f, %.5f", p.Lat, p.Lng)
}
