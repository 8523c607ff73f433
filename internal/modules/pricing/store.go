// README: Settings store backed by PostgreSQL.
package pricing

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// supportedSchemaVersion is bumped together with settings migrations. A
// stored version ahead of this build means the admin app wrote a newer
// schema and this service must be updated before quoting again.
const supportedSchemaVersion = 2

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Load(ctx context.Context) (Config, error) {
	row := s.db.QueryRow(ctx, `
		SELECT schema_version, base_fare, per_km_fare, commission_percent, manager_contact, currency
		FROM pricing_settings
		ORDER BY updated_at DESC
		LIMIT 1`)

	var cfg Config
	var version int
	err := row.Scan(&version, &cfg.BaseFare, &cfg.PerKmFare, &cfg.CommissionPercent, &cfg.ManagerContact, &cfg.Currency)
	if errors.Is(err, pgx.ErrNoRows) {
		return Config{}, fmt.Errorf("pricing settings not seeded: %w", err)
	}
	if err != nil {
		return Config{}, err
	}
	if version > supportedSchemaVersion {
		return Config{}, fmt.Errorf("%w: stored version %d, supported %d", ErrConfigSchemaOutdated, version, supportedSchemaVersion)
	}

	rows, err := s.db.Query(ctx, `SELECT class, multiplier FROM vehicle_multipliers`)
	if err != nil {
		return Config{}, err
	}
	defer rows.Close()

	cfg.VehicleMultipliers = make(map[VehicleClass]float64)
	for rows.Next() {
		var class string
		var mult float64
		if err := rows.Scan(&class, &mult); err != nil {
			return Config{}, err
		}
		cfg.VehicleMultipliers[VehicleClass(class)] = mult
	}
	return cfg, rows.Err()
}

func (s *Store) Save(ctx context.Context, cfg Config) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		UPDATE pricing_settings
		SET base_fare = $1, per_km_fare = $2, commission_percent = $3,
		    manager_contact = $4, currency = $5, updated_at = NOW()
		WHERE schema_version = $6`,
		cfg.BaseFare, cfg.PerKmFare, cfg.CommissionPercent,
		cfg.ManagerContact, cfg.Currency, supportedSchemaVersion)
	if err != nil {
		return err
	}
	for class, mult := range cfg.VehicleMultipliers {
		_, err = tx.Exec(ctx, `
			INSERT INTO vehicle_multipliers (class, multiplier)
			VALUES ($1, $2)
			ON CONFLICT (class) DO UPDATE SET multiplier = EXCLUDED.multiplier`,
			string(class), mult)
		if err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
