package session

import (
	"sync"
	"time"
)

// Registry holds the live contexts of one process. It is owned by the caller
// and never shared through package state.
type Registry struct {
	mu       sync.Mutex
	contexts map[string]*Context
	ttl      time.Duration
	now      func() time.Time
}

// NewRegistry creates a registry that expires contexts idle for longer than
// ttl. A zero ttl disables expiry.
func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{
		contexts: make(map[string]*Context),
		ttl:      ttl,
		now:      time.Now,
	}
}

// GetOrCreate returns the context for sessionID, creating it if needed. The
// second result is true when a new context was created.
func (r *Registry) GetOrCreate(sessionID string) (*Context, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.contexts[sessionID]; ok {
		c.touch()
		return c, false
	}
	c := newContext(sessionID, r.now)
	r.contexts[sessionID] = c
	return c, true
}

// Get returns the context for sessionID if it is live.
func (r *Registry) Get(sessionID string) (*Context, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.contexts[sessionID]
	return c, ok
}

// Discard drops the context for sessionID.
func (r *Registry) Discard(sessionID string) {
	r.mu.Lock()
	delete(r.contexts, sessionID)
	r.mu.Unlock()
}

// Len returns the number of live contexts.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.contexts)
}

// Sweep discards contexts idle since before now minus the TTL and returns
// the ids it removed.
func (r *Registry) Sweep(now time.Time) []string {
	if r.ttl <= 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var expired []string
	for id, c := range r.contexts {
		if now.Sub(c.lastTouched()) > r.ttl {
			delete(r.contexts, id)
			expired = append(expired, id)
		}
	}
	return expired
}
