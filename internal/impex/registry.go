package impex

import (
	"fmt"
	"sync"
	"time"
)

// Registry tracks the import sessions currently in flight, keyed by
// session id.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	// ttl is how long an idle session survives before Sweep reclaims
	// it. Closing the dialog mid-flow simply abandons the session;
	// there is nothing to clean up beyond memory.
	ttl time.Duration
}

// NewRegistry creates an empty registry whose Sweep reclaims sessions
// idle for longer than ttl.
func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{sessions: make(map[string]*Session), ttl: ttl}
}

// Open creates and tracks a fresh session.
func (r *Registry) Open() *Session {
	s := NewSession()
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return s
}

// Get returns a tracked session.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("unknown import session %q", id)
	}
	return s, nil
}

// Close drops a session, whatever state it is in.
func (r *Registry) Close(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// Sweep removes sessions older than the registry TTL and finished
// ones. Returns how many were reclaimed.
func (r *Registry) Sweep() int {
	cutoff := time.Now().Add(-r.ttl)
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for id, s := range r.sessions {
		if s.created.Before(cutoff) || s.State() == StateDone {
			delete(r.sessions, id)
			n++
		}
	}
	return n
}
