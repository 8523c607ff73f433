// README: Per-customer route session registry.
package routing

import (
	"sync"

	"ridehub/internal/types"
)

// SessionRegistry hands out one Session per customer so concurrent route
// previews from the same planning flow share a generation counter, while
// different customers never contend.
type SessionRegistry struct {
	resolver *Resolver

	mu       sync.Mutex
	sessions map[types.ID]*Session
}

func NewSessionRegistry(resolver *Resolver) *SessionRegistry {
	return &SessionRegistry{
		resolver: resolver,
		sessions: make(map[types.ID]*Session),
	}
}

// Session returns the customer's session, creating it on first use.
func (r *SessionRegistry) Session(customerID types.ID) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[customerID]
	if !ok {
		s = NewSession(r.resolver)
		r.sessions[customerID] = s
	}
	return s
}

// Drop forgets a customer's session, e.g. after booking completes.
func (r *SessionRegistry) Drop(customerID types.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, customerID)
}
