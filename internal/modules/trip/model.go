// README: Trip aggregate, status enum, and the transition table.
package trip

import (
	"fmt"
	"time"

	"ridehub/internal/modules/pricing"
	"ridehub/internal/modules/routing"
	"ridehub/internal/types"
)

type Status string

const (
	StatusNone          Status = "none"
	StatusRequested     Status = "requested"
	StatusScheduled     Status = "scheduled"
	StatusAccepted      Status = "accepted"
	StatusDriverArrived Status = "driver_arrived"
	StatusInProgress    Status = "in_progress"
	StatusCompleted     Status = "completed"
	StatusCancelled     Status = "cancelled"
)

// AllowedTransitions is the trip lifecycle graph as code. Anything not
// listed here is rejected; a trip only ever moves forward along these edges.
var AllowedTransitions = map[Status][]Status{
	StatusRequested:     {StatusAccepted, StatusScheduled, StatusCancelled},
	StatusScheduled:     {StatusAccepted, StatusCancelled},
	StatusAccepted:      {StatusDriverArrived, StatusCancelled},
	StatusDriverArrived: {StatusInProgress},
	StatusInProgress:    {StatusCompleted},
}

func CanTransition(from, to Status) bool {
	for _, next := range AllowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal reports whether the status has no outgoing transitions.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// InvalidTransitionError reports a rejected (from, to) pair. These indicate
// a race or stale client state, never a normal flow.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition %s -> %s", e.From, e.To)
}

// Stop is one end of a trip: a coordinate plus its display address.
type Stop struct {
	Position types.Point
	Address  string
}

// Trip is owned by exactly one state machine instance; customer and driver
// IDs are foreign references.
type Trip struct {
	ID            types.ID
	CustomerID    types.ID
	DriverID      *types.ID
	Status        Status
	StatusVersion int
	Pickup        Stop
	Dropoff       Stop
	Route         routing.Result
	VehicleClass  pricing.VehicleClass
	QuotedPrice   types.Money
	FinalPrice    *types.Money
	ScheduledAt   *time.Time
	CreatedAt     time.Time
	AcceptedAt    *time.Time
	StartedAt     *time.Time
	CompletedAt   *time.Time
	CancelledAt   *time.Time
	CancelReason  *string
}

// Event is an audit record of one status transition.
type Event struct {
	ID         int64
	TripID     types.ID
	FromStatus Status
	ToStatus   Status
	ActorType  string
	ActorID    *types.ID
	CreatedAt  time.Time
}
