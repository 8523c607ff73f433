// README: Trip store backed by PostgreSQL.
package trip

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ridehub/internal/types"
)

type PGStore struct {
	db *pgxpool.Pool
}

func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) Create(ctx context.Context, t *Trip) error {
	geometry, err := json.Marshal(t.Route.Geometry)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO trips (
			id, customer_id, driver_id, status, status_version,
			pickup_lat, pickup_lng, pickup_address,
			dropoff_lat, dropoff_lng, dropoff_address,
			route_geometry, route_distance_m, route_duration_s, route_used_fallback,
			vehicle_class, quoted_price, currency, created_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8,
			$9, $10, $11,
			$12, $13, $14, $15,
			$16, $17, $18, $19
		)`,
		string(t.ID), string(t.CustomerID), idPtr(t.DriverID), string(t.Status), t.StatusVersion,
		t.Pickup.Position.Lat, t.Pickup.Position.Lng, t.Pickup.Address,
		t.Dropoff.Position.Lat, t.Dropoff.Position.Lng, t.Dropoff.Address,
		geometry, t.Route.DistanceMeters, t.Route.DurationSeconds, t.Route.UsedFallback,
		string(t.VehicleClass), t.QuotedPrice.Amount, t.QuotedPrice.Currency, t.CreatedAt,
	)
	return err
}

func (s *PGStore) Get(ctx context.Context, id types.ID) (*Trip, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, customer_id, driver_id, status, status_version,
		       pickup_lat, pickup_lng, pickup_address,
		       dropoff_lat, dropoff_lng, dropoff_address,
		       route_geometry, route_distance_m, route_duration_s, route_used_fallback,
		       vehicle_class, quoted_price, final_price, currency,
		       scheduled_at, created_at, accepted_at, started_at, completed_at, cancelled_at, cancel_reason
		FROM trips
		WHERE id = $1`, string(id),
	)

	var t Trip
	var driverID, cancelReason sql.NullString
	var finalPrice sql.NullInt64
	var geometry []byte
	var scheduledAt, acceptedAt, startedAt, completedAt, cancelledAt sql.NullTime

	err := row.Scan(
		&t.ID, &t.CustomerID, &driverID, &t.Status, &t.StatusVersion,
		&t.Pickup.Position.Lat, &t.Pickup.Position.Lng, &t.Pickup.Address,
		&t.Dropoff.Position.Lat, &t.Dropoff.Position.Lng, &t.Dropoff.Address,
		&geometry, &t.Route.DistanceMeters, &t.Route.DurationSeconds, &t.Route.UsedFallback,
		&t.VehicleClass, &t.QuotedPrice.Amount, &finalPrice, &t.QuotedPrice.Currency,
		&scheduledAt, &t.CreatedAt, &acceptedAt, &startedAt, &completedAt, &cancelledAt, &cancelReason,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if len(geometry) > 0 {
		if err := json.Unmarshal(geometry, &t.Route.Geometry); err != nil {
			return nil, err
		}
	}
	if driverID.Valid {
		d := types.ID(driverID.String)
		t.DriverID = &d
	}
	if finalPrice.Valid {
		p := types.Money{Amount: finalPrice.Int64, Currency: t.QuotedPrice.Currency}
		t.FinalPrice = &p
	}
	t.ScheduledAt = timePtr(scheduledAt)
	t.AcceptedAt = timePtr(acceptedAt)
	t.StartedAt = timePtr(startedAt)
	t.CompletedAt = timePtr(completedAt)
	t.CancelledAt = timePtr(cancelledAt)
	if cancelReason.Valid {
		t.CancelReason = &cancelReason.String
	}
	return &t, nil
}

func (s *PGStore) UpdateStatus(ctx context.Context, id types.ID, from, to Status, version int, mut Mutation) (bool, error) {
	var finalPrice *int64
	if mut.FinalPrice != nil {
		finalPrice = &mut.FinalPrice.Amount
	}
	tag, err := s.db.Exec(ctx, `
		UPDATE trips
		SET status = $1,
		    status_version = status_version + 1,
		    driver_id = COALESCE($2, driver_id),
		    final_price = COALESCE($3, final_price),
		    scheduled_at = COALESCE($4, scheduled_at),
		    cancel_reason = COALESCE($5, cancel_reason),
		    accepted_at = CASE WHEN $1 = 'accepted' THEN NOW() ELSE accepted_at END,
		    started_at = CASE WHEN $1 = 'in_progress' THEN NOW() ELSE started_at END,
		    completed_at = CASE WHEN $1 = 'completed' THEN NOW() ELSE completed_at END,
		    cancelled_at = CASE WHEN $1 = 'cancelled' THEN NOW() ELSE cancelled_at END
		WHERE id = $6 AND status = $7 AND status_version = $8`,
		string(to),
		idPtr(mut.DriverID),
		finalPrice,
		mut.ScheduledAt,
		mut.CancelReason,
		string(id),
		string(from),
		version,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *PGStore) AppendEvent(ctx context.Context, e *Event) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO trip_state_events (
			trip_id, from_status, to_status, actor_type, actor_id, created_at
		) VALUES ($1, $2, $3, $4, $5, $6)`,
		string(e.TripID), string(e.FromStatus), string(e.ToStatus),
		e.ActorType, idPtr(e.ActorID), e.CreatedAt,
	)
	return err
}

func idPtr(v *types.ID) *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}

func timePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}
