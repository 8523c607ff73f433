// README: Per-customer route session with last-request-wins supersession.
package routing

import (
	"context"
	"errors"
	"sync"

	"ridehub/internal/types"
)

// ErrSuperseded means a newer recompute was issued while this one was in
// flight; its result was discarded.
var ErrSuperseded = errors.New("route recompute superseded")

// Session owns the current route for one customer's planning flow. Every
// marker move issues a new generation token; a resolution only commits if
// its token is still the newest when it completes, so a stale in-flight
// resolution can never overwrite a fresher one.
type Session struct {
	resolver *Resolver

	mu      sync.Mutex
	gen     uint64
	pickup  types.Point
	dropoff types.Point
	current *Result
}

func NewSession(resolver *Resolver) *Session {
	return &Session{resolver: resolver}
}

// Recompute resolves the route for the new pickup/dropoff pair. It blocks
// for this caller but concurrent recomputes race safely: only the latest
// issued wins.
func (s *Session) Recompute(ctx context.Context, pickup, dropoff types.Point) (Result, error) {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.pickup, s.dropoff = pickup, dropoff
	s.mu.Unlock()

	res, err := s.resolver.Resolve(ctx, pickup, dropoff)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return Result{}, ErrSuperseded
	}
	if err != nil {
		return Result{}, err
	}
	s.current = &res
	return res, nil
}

// Current returns the latest committed route, or false if none resolved yet.
func (s *Session) Current() (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return Result{}, false
	}
	return *s.current, true
}
