// README: In-memory trip store for tests and single-node runs.
package trip

import (
	"context"
	"sync"
	"time"

	"ridehub/internal/types"
)

// MemStore keeps trips in a map with the same compare-and-swap semantics as
// the Postgres store, so the state machine behaves identically in tests.
type MemStore struct {
	mu     sync.RWMutex
	trips  map[types.ID]*Trip
	events []Event
	nextID int64
}

func NewMemStore() *MemStore {
	return &MemStore{trips: make(map[types.ID]*Trip)}
}

func (m *MemStore) Create(_ context.Context, t *Trip) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *t
	m.trips[t.ID] = &cp
	return nil
}

func (m *MemStore) Get(_ context.Context, id types.ID) (*Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.trips[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *MemStore) UpdateStatus(_ context.Context, id types.ID, from, to Status, version int, mut Mutation) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.trips[id]
	if !ok {
		return false, ErrNotFound
	}
	if t.Status != from || t.StatusVersion != version {
		return false, nil
	}

	now := time.Now()
	t.Status = to
	t.StatusVersion++
	if mut.DriverID != nil {
		t.DriverID = mut.DriverID
	}
	if mut.FinalPrice != nil {
		t.FinalPrice = mut.FinalPrice
	}
	if mut.ScheduledAt != nil {
		t.ScheduledAt = mut.ScheduledAt
	}
	if mut.CancelReason != nil {
		t.CancelReason = mut.CancelReason
	}
	switch to {
	case StatusAccepted:
		t.AcceptedAt = &now
	case StatusInProgress:
		t.StartedAt = &now
	case StatusCompleted:
		t.CompletedAt = &now
	case StatusCancelled:
		t.CancelledAt = &now
	}
	return true, nil
}

func (m *MemStore) AppendEvent(_ context.Context, e *Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	ev := *e
	ev.ID = m.nextID
	m.events = append(m.events, ev)
	return nil
}

// Events returns a copy of the audit log, oldest first.
func (m *MemStore) Events(tripID types.ID) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Event
	for _, e := range m.events {
		if e.TripID == tripID {
			out = append(out, e)
		}
	}
	return out
}
