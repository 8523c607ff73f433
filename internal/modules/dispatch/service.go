// README: Dispatch coordinator offers trips to one candidate at a time.
package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"ridehub/internal/modules/trip"
	"ridehub/internal/observability"
	"ridehub/internal/types"
)

// DriverGateway presents an offer to a single driver and reports the
// reaction. Implementations own the delivery channel (push, websocket, or a
// simulation); a gateway error counts as a timeout, never an acceptance.
type DriverGateway interface {
	Offer(ctx context.Context, driverID types.ID, t *trip.Trip) (Outcome, error)
}

// CandidatePool supplies candidate driver IDs near a pickup point, closest
// first. The ordering is whatever the pool's backend provides; the
// coordinator does no ranking of its own.
type CandidatePool interface {
	Nearby(ctx context.Context, p types.Point, limit int) ([]types.ID, error)
}

type Coordinator struct {
	pool          CandidatePool
	gateway       DriverGateway
	trips         *trip.Service
	logger        *slog.Logger
	offerTimeout  time.Duration
	maxCandidates int
}

func NewCoordinator(pool CandidatePool, gateway DriverGateway, trips *trip.Service, logger *slog.Logger, offerTimeout time.Duration, maxCandidates int) *Coordinator {
	if maxCandidates <= 0 {
		maxCandidates = 5
	}
	return &Coordinator{
		pool:          pool,
		gateway:       gateway,
		trips:         trips,
		logger:        logger,
		offerTimeout:  offerTimeout,
		maxCandidates: maxCandidates,
	}
}

// Offer presents the trip to exactly one candidate and commits the Accepted
// transition on acceptance. On decline or timeout the trip stays in
// Requested with no driver bound; there is never a phantom assignment to
// undo because the binding only happens inside the accept transition.
func (c *Coordinator) Offer(ctx context.Context, t *trip.Trip, driverID types.ID) (Outcome, error) {
	offerCtx, cancel := context.WithTimeout(ctx, c.offerTimeout)
	defer cancel()

	outcome, err := c.gateway.Offer(offerCtx, driverID, t)
	if err != nil {
		if !errors.Is(err, context.DeadlineExceeded) {
			c.logger.Warn("offer delivery failed", "trip_id", t.ID, "driver_id", driverID, "err", err)
		}
		outcome = OutcomeTimedOut
	}
	observability.OffersTotal.WithLabelValues(string(outcome)).Inc()

	if outcome != OutcomeAccepted {
		return outcome, nil
	}
	if err := c.trips.Accept(ctx, trip.AcceptCommand{TripID: t.ID, DriverID: driverID}); err != nil {
		// The trip moved under us (customer cancelled, another accept won).
		return OutcomeDeclined, err
	}
	return OutcomeAccepted, nil
}

// Dispatch walks nearby candidates sequentially until one accepts. Failing
// everyone, it reports ErrNoDriversAvailable and leaves the trip Requested.
func (c *Coordinator) Dispatch(ctx context.Context, tripID types.ID) (types.ID, error) {
	t, err := c.trips.Get(ctx, tripID)
	if err != nil {
		return "", err
	}
	if t.Status != trip.StatusRequested {
		return "", &trip.InvalidTransitionError{From: t.Status, To: trip.StatusAccepted}
	}

	candidates, err := c.pool.Nearby(ctx, t.Pickup.Position, c.maxCandidates)
	if err != nil {
		return "", err
	}
	if len(candidates) == 0 {
		return "", ErrNoDriversAvailable
	}

	for _, driverID := range candidates {
		outcome, err := c.Offer(ctx, t, driverID)
		if outcome == OutcomeAccepted {
			return driverID, nil
		}
		if err != nil && !errors.Is(err, trip.ErrConflict) {
			// Trip left Requested while the offer was out (cancel, or a
			// competing accept); stop dispatching instead of offering a
			// dead trip to the next candidate.
			return "", err
		}
		c.logger.Info("candidate passed on trip", "trip_id", t.ID, "driver_id", driverID, "outcome", outcome)
	}
	return "", ErrNoDriversAvailable
}
