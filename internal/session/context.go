// Package session tracks what has happened within a single chat session.
package session

import (
	"sync"
	"time"

	"github.com/capitalize-ai/travel-concierge/internal/intent"
)

// Interaction is one handled intent and a summary of the reply.
type Interaction struct {
	Intent  intent.Intent `json:"intent"`
	Summary string        `json:"summary"`
	At      time.Time     `json:"at"`
}

// Context is the per-session interaction log. Entries are only ever
// appended; a context is discarded as a whole when the session ends.
type Context struct {
	mu        sync.RWMutex
	sessionID string
	log       []Interaction
	seen      map[intent.Intent]struct{}
	touched   time.Time
	now       func() time.Time
}

// New creates an empty context for sessionID.
func New(sessionID string) *Context {
	return newContext(sessionID, time.Now)
}

func newContext(sessionID string, now func() time.Time) *Context {
	return &Context{
		sessionID: sessionID,
		seen:      make(map[intent.Intent]struct{}),
		touched:   now(),
		now:       now,
	}
}

// SessionID returns the session the context belongs to.
func (c *Context) SessionID() string {
	return c.sessionID
}

// AddInteraction records that in was handled.
func (c *Context) AddInteraction(in intent.Intent, summary string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.now()
	c.log = append(c.log, Interaction{Intent: in, Summary: summary, At: t})
	c.seen[in] = struct{}{}
	c.touched = t
}

// HasInteracted reports whether in was recorded at any point.
func (c *Context) HasInteracted(in intent.Intent) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.seen[in]
	return ok
}

// Interactions returns a copy of the log in insertion order.
func (c *Context) Interactions() []Interaction {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Interaction, len(c.log))
	copy(out, c.log)
	return out
}

// Len returns the number of recorded interactions.
func (c *Context) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.log)
}

func (c *Context) lastTouched() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.touched
}

func (c *Context) touch() {
	c.mu.Lock()
	c.touched = c.now()
	c.mu.Unlock()
}
