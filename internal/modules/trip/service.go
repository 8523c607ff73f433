// README: Trip service drives the lifecycle state machine.
package trip

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"ridehub/internal/modules/notify"
	"ridehub/internal/modules/pricing"
	"ridehub/internal/modules/routing"
	"ridehub/internal/observability"
	"ridehub/internal/types"
)

var (
	ErrNotFound   = errors.New("trip not found")
	ErrConflict   = errors.New("trip state conflict")
	ErrTerminal   = errors.New("trip already terminal")
	ErrBadRequest = errors.New("bad request")
)

// Mutation carries the field changes a transition applies together with the
// status flip, so the store can commit them in one compare-and-swap.
type Mutation struct {
	DriverID     *types.ID
	FinalPrice   *types.Money
	ScheduledAt  *time.Time
	CancelReason *string
}

// Store is the persistence collaborator. UpdateStatus must be atomic: it
// flips the status only when the current (status, version) still matches,
// which serializes concurrent transitions on the same trip.
type Store interface {
	Create(ctx context.Context, t *Trip) error
	Get(ctx context.Context, id types.ID) (*Trip, error)
	UpdateStatus(ctx context.Context, id types.ID, from, to Status, version int, mut Mutation) (bool, error)
	AppendEvent(ctx context.Context, e *Event) error
}

type Service struct {
	store    Store
	notifier notify.Notifier
	logger   *slog.Logger
}

func NewService(store Store, notifier notify.Notifier, logger *slog.Logger) *Service {
	return &Service{store: store, notifier: notifier, logger: logger}
}

type CreateCommand struct {
	CustomerID   types.ID
	Pickup       Stop
	Dropoff      Stop
	Route        routing.Result
	VehicleClass pricing.VehicleClass
	QuotedPrice  types.Money
}

type ScheduleCommand struct {
	TripID types.ID
	At     time.Time
}

type AcceptCommand struct {
	TripID   types.ID
	DriverID types.ID
}

type ArriveCommand struct {
	TripID types.ID
}

type StartCommand struct {
	TripID types.ID
}

type CompleteCommand struct {
	TripID types.ID
	// FinalPrice overrides the quoted price when a distinct final
	// calculation exists; nil keeps the quote.
	FinalPrice *types.Money
}

type CancelCommand struct {
	TripID    types.ID
	ActorType string
	Reason    string
}

// Create opens a new trip in Requested with the resolved route and quote
// already bound to it.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (types.ID, error) {
	if cmd.CustomerID == "" || cmd.VehicleClass == "" {
		return "", ErrBadRequest
	}
	if len(cmd.Route.Geometry) < 2 {
		return "", fmt.Errorf("%w: route has no geometry", ErrBadRequest)
	}

	id := types.ID(uuid.NewString())
	now := time.Now()
	t := &Trip{
		ID:           id,
		CustomerID:   cmd.CustomerID,
		Status:       StatusRequested,
		Pickup:       cmd.Pickup,
		Dropoff:      cmd.Dropoff,
		Route:        cmd.Route,
		VehicleClass: cmd.VehicleClass,
		QuotedPrice:  cmd.QuotedPrice,
		CreatedAt:    now,
	}
	if err := s.store.Create(ctx, t); err != nil {
		return "", err
	}
	_ = s.store.AppendEvent(ctx, &Event{
		TripID:     id,
		FromStatus: StatusNone,
		ToStatus:   StatusRequested,
		ActorType:  "customer",
		ActorID:    &cmd.CustomerID,
		CreatedAt:  now,
	})
	observability.TripTransitionsTotal.WithLabelValues(string(StatusRequested)).Inc()
	return id, nil
}

// Schedule moves a fresh request to the future-dated entry path.
func (s *Service) Schedule(ctx context.Context, cmd ScheduleCommand) error {
	if cmd.At.Before(time.Now()) {
		return fmt.Errorf("%w: scheduled time is in the past", ErrBadRequest)
	}
	at := cmd.At
	return s.transition(ctx, cmd.TripID, StatusScheduled, "customer", nil, Mutation{ScheduledAt: &at})
}

// Accept binds the driver and moves the trip to Accepted. Valid from both
// Requested and Scheduled.
func (s *Service) Accept(ctx context.Context, cmd AcceptCommand) error {
	if cmd.DriverID == "" {
		return ErrBadRequest
	}
	did := cmd.DriverID
	return s.transition(ctx, cmd.TripID, StatusAccepted, "driver", &did, Mutation{DriverID: &did})
}

func (s *Service) Arrive(ctx context.Context, cmd ArriveCommand) error {
	return s.transition(ctx, cmd.TripID, StatusDriverArrived, "driver", nil, Mutation{})
}

func (s *Service) Start(ctx context.Context, cmd StartCommand) error {
	return s.transition(ctx, cmd.TripID, StatusInProgress, "driver", nil, Mutation{})
}

// Complete ends the trip and fixes the final price, defaulting to the quote.
func (s *Service) Complete(ctx context.Context, cmd CompleteCommand) error {
	t, err := s.store.Get(ctx, cmd.TripID)
	if err != nil {
		return err
	}
	final := t.QuotedPrice
	if cmd.FinalPrice != nil {
		final = *cmd.FinalPrice
	}
	return s.transition(ctx, cmd.TripID, StatusCompleted, "driver", nil, Mutation{FinalPrice: &final})
}

func (s *Service) Cancel(ctx context.Context, cmd CancelCommand) error {
	mut := Mutation{}
	if cmd.Reason != "" {
		reason := cmd.Reason
		mut.CancelReason = &reason
	}
	return s.transition(ctx, cmd.TripID, StatusCancelled, cmd.ActorType, nil, mut)
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Trip, error) {
	return s.store.Get(ctx, id)
}

// transition validates the edge against the table and commits it with a
// compare-and-swap. The trip is left untouched on any rejection.
func (s *Service) transition(ctx context.Context, id types.ID, to Status, actorType string, actorID *types.ID, mut Mutation) error {
	t, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if t.Status.Terminal() {
		observability.TripTransitionRejects.Inc()
		return fmt.Errorf("%w: %s", ErrTerminal, t.Status)
	}
	if !CanTransition(t.Status, to) {
		observability.TripTransitionRejects.Inc()
		return &InvalidTransitionError{From: t.Status, To: to}
	}

	ok, err := s.store.UpdateStatus(ctx, t.ID, t.Status, to, t.StatusVersion, mut)
	if err != nil {
		return err
	}
	if !ok {
		// Someone else won the race; the table may no longer allow this
		// edge from the new state, so the caller must re-read.
		return ErrConflict
	}

	_ = s.store.AppendEvent(ctx, &Event{
		TripID:     t.ID,
		FromStatus: t.Status,
		ToStatus:   to,
		ActorType:  actorType,
		ActorID:    actorID,
		CreatedAt:  time.Now(),
	})
	observability.TripTransitionsTotal.WithLabelValues(string(to)).Inc()
	s.notifyTransition(t, to)
	return nil
}

// notifyTransition informs the affected parties. Delivery is the
// notification collaborator's problem; the state machine never blocks on it.
func (s *Service) notifyTransition(t *Trip, to Status) {
	messages := map[Status]string{
		StatusAccepted:      "A driver accepted your trip",
		StatusDriverArrived: "Your driver has arrived at the pickup point",
		StatusInProgress:    "Your trip has started",
		StatusCompleted:     "Your trip is complete",
		StatusCancelled:     "The trip was cancelled",
	}
	msg, ok := messages[to]
	if !ok {
		return
	}
	s.notifier.Notify(t.CustomerID, msg)
	if t.DriverID != nil && to == StatusCancelled {
		s.notifier.Notify(*t.DriverID, "The trip was cancelled")
	}
}
