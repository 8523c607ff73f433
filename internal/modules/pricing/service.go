// README: Pricing service holds the config snapshot and computes quotes.
package pricing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/go-playground/validator/v10"

	"ridehub/internal/observability"
	"ridehub/internal/types"
)

// SettingsStore is the external settings collaborator.
type SettingsStore interface {
	Load(ctx context.Context) (Config, error)
	Save(ctx context.Context, cfg Config) error
}

// Patch carries partial settings updates; nil fields are left unchanged.
type Patch struct {
	BaseFare           *int64
	PerKmFare          *int64
	CommissionPercent  *float64
	VehicleMultipliers map[VehicleClass]float64
	ManagerContact     *string
}

// Service owns the read-only cached Config snapshot. Many concurrent fare
// computations read the same snapshot; Refresh replaces it wholesale.
type Service struct {
	store    SettingsStore
	logger   *slog.Logger
	validate *validator.Validate

	snapshot atomic.Pointer[Config]
}

func NewService(store SettingsStore, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger, validate: validator.New()}
}

// Refresh loads the settings and atomically swaps in the new snapshot.
func (s *Service) Refresh(ctx context.Context) error {
	cfg, err := s.store.Load(ctx)
	if err != nil {
		// Schema-outdated keeps its own identity; callers act on it
		// differently than on a transient load failure.
		if errors.Is(err, ErrConfigSchemaOutdated) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrConfigUnavailable, err)
	}
	if err := s.validate.Struct(cfg); err != nil {
		return fmt.Errorf("%w: invalid settings: %v", ErrConfigUnavailable, err)
	}
	s.snapshot.Store(&cfg)
	s.logger.Info("pricing config refreshed",
		"base_fare", cfg.BaseFare, "per_km", cfg.PerKmFare, "classes", len(cfg.VehicleMultipliers))
	return nil
}

// Snapshot returns the current config. Quoting is blocked until the first
// successful Refresh.
func (s *Service) Snapshot() (Config, error) {
	cfg := s.snapshot.Load()
	if cfg == nil {
		return Config{}, ErrConfigUnavailable
	}
	return *cfg, nil
}

// QuoteClass prices a single vehicle class for the given route distance.
func (s *Service) QuoteClass(distanceMeters float64, class VehicleClass) (types.Money, error) {
	cfg, err := s.Snapshot()
	if err != nil {
		return types.Money{}, err
	}
	amount, err := Quote(distanceMeters, class, cfg)
	if err != nil {
		return types.Money{}, err
	}
	observability.FareQuotesTotal.Inc()
	return types.Money{Amount: amount, Currency: cfg.Currency}, nil
}

// QuoteAll prices every offered vehicle class. Classes missing from the
// multiplier mapping are skipped, not treated as a failure.
func (s *Service) QuoteAll(distanceMeters float64) (map[VehicleClass]types.Money, error) {
	cfg, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	quotes := make(map[VehicleClass]types.Money, len(AllClasses))
	for _, class := range AllClasses {
		amount, err := Quote(distanceMeters, class, cfg)
		if err != nil {
			continue // class not offered
		}
		quotes[class] = types.Money{Amount: amount, Currency: cfg.Currency}
	}
	observability.FareQuotesTotal.Inc()
	return quotes, nil
}

// Apply writes a partial settings update through the collaborator and
// refreshes the snapshot so new quotes see it immediately.
func (s *Service) Apply(ctx context.Context, patch Patch) error {
	cfg, err := s.store.Load(ctx)
	if err != nil {
		if errors.Is(err, ErrConfigSchemaOutdated) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrConfigUnavailable, err)
	}
	if patch.BaseFare != nil {
		cfg.BaseFare = *patch.BaseFare
	}
	if patch.PerKmFare != nil {
		cfg.PerKmFare = *patch.PerKmFare
	}
	if patch.CommissionPercent != nil {
		cfg.CommissionPercent = *patch.CommissionPercent
	}
	if patch.ManagerContact != nil {
		cfg.ManagerContact = *patch.ManagerContact
	}
	if patch.VehicleMultipliers != nil {
		merged := make(map[VehicleClass]float64, len(cfg.VehicleMultipliers))
		for k, v := range cfg.VehicleMultipliers {
			merged[k] = v
		}
		for k, v := range patch.VehicleMultipliers {
			merged[k] = v
		}
		cfg.VehicleMultipliers = merged
	}
	if err := s.validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid settings update: %w", err)
	}
	if err := s.store.Save(ctx, cfg); err != nil {
		return err
	}
	s.snapshot.Store(&cfg)
	return nil
}
