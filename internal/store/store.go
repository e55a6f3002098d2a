// Package store persists conversation state behind a single interface with
// memory, Redis, Postgres and HTTP backends.
package store

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/capitalize-ai/travel-concierge/internal/model"
	"github.com/capitalize-ai/travel-concierge/pkg/metrics"
)

// ErrNotFound is returned when a conversation id does not exist.
var ErrNotFound = errors.New("conversation not found")

// DefaultListLimit is used when List is called with a non-positive limit.
const DefaultListLimit = 50

// Store persists conversations. Implementations must be safe for concurrent
// use and must round-trip a ConversationState without loss.
type Store interface {
	// Save inserts or replaces the conversation. It re-derives
	// Metadata.MessageCount before writing.
	Save(ctx context.Context, c *model.ConversationState) error
	// List returns up to limit conversations, most recently updated first.
	List(ctx context.Context, limit int) ([]model.ConversationState, error)
	// Find returns up to q.Limit conversations matching q, most recently
	// updated first.
	Find(ctx context.Context, q Query) ([]model.ConversationState, error)
	Get(ctx context.Context, id string) (*model.ConversationState, error)
	Delete(ctx context.Context, id string) error
}

// Query narrows a listing. Zero fields match everything.
type Query struct {
	UserID string
	Status model.Status
	// UpdatedBefore keeps conversations last updated strictly before it.
	UpdatedBefore time.Time
	Limit         int
}

// Match reports whether c passes every filter of q.
func (q Query) Match(c *model.ConversationState) bool {
	if q.UserID != "" && c.UserID != q.UserID {
		return false
	}
	if q.Status != "" && c.Status != q.Status {
		return false
	}
	if !q.UpdatedBefore.IsZero() && !c.UpdatedAt.Before(q.UpdatedBefore) {
		return false
	}
	return true
}

// Select sorts convs newest first and keeps the first q.Limit matches. It
// serves backends that scan every conversation.
func Select(convs []model.ConversationState, q Query) []model.ConversationState {
	sort.Slice(convs, func(i, j int) bool {
		if convs[i].UpdatedAt.Equal(convs[j].UpdatedAt) {
			return convs[i].ID < convs[j].ID
		}
		return convs[i].UpdatedAt.After(convs[j].UpdatedAt)
	})

	n := listLimit(q.Limit)
	out := make([]model.ConversationState, 0, min(n, len(convs)))
	for i := range convs {
		if len(out) == n {
			break
		}
		if q.Match(&convs[i]) {
			out = append(out, convs[i])
		}
	}
	return out
}

func listLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}

// Instrumented wraps s so that every call is counted and timed under the
// given backend label.
func Instrumented(backend string, s Store) Store {
	return &instrumented{backend: backend, next: s}
}

type instrumented struct {
	backend string
	next    Store
}

func (i *instrumented) record(op string, start time.Time, err error) {
	if errors.Is(err, ErrNotFound) {
		err = nil
	}
	metrics.RecordStoreOp(i.backend, op, err, time.Since(start).Seconds())
}

func (i *instrumented) Save(ctx context.Context, c *model.ConversationState) (err error) {
	defer func(start time.Time) { i.record("save", start, err) }(time.Now())
	return i.next.Save(ctx, c)
}

func (i *instrumented) List(ctx context.Context, limit int) (_ []model.ConversationState, err error) {
	defer func(start time.Time) { i.record("list", start, err) }(time.Now())
	return i.next.List(ctx, limit)
}

func (i *instrumented) Find(ctx context.Context, q Query) (_ []model.ConversationState, err error) {
	defer func(start time.Time) { i.record("find", start, err) }(time.Now())
	return i.next.Find(ctx, q)
}

func (i *instrumented) Get(ctx context.Context, id string) (_ *model.ConversationState, err error) {
	defer func(start time.Time) { i.record("get", start, err) }(time.Now())
	return i.next.Get(ctx, id)
}

func (i *instrumented) Delete(ctx context.Context, id string) (err error) {
	defer func(start time.Time) { i.record("delete", start, err) }(time.Now())
	return i.next.Delete(ctx, id)
}
