package store

import (
	"context"
	"sync"

	"github.com/capitalize-ai/travel-concierge/internal/model"
)

// MemoryStore keeps conversations in process memory. Values are cloned on the
// way in and out so callers never share state with the store.
type MemoryStore struct {
	mu            sync.RWMutex
	conversations map[string]*model.ConversationState
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		conversations: make(map[string]*model.ConversationState),
	}
}

func (s *MemoryStore) Save(ctx context.Context, c *model.ConversationState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.SyncCount()
	cp := c.Clone()

	s.mu.Lock()
	s.conversations[cp.ID] = cp
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) List(ctx context.Context, limit int) ([]model.ConversationState, error) {
	return s.Find(ctx, Query{Limit: limit})
}

func (s *MemoryStore) Find(ctx context.Context, q Query) ([]model.ConversationState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	convs := make([]model.ConversationState, 0, len(s.conversations))
	for _, c := range s.conversations {
		if q.Match(c) {
			convs = append(convs, *c.Clone())
		}
	}
	s.mu.RUnlock()

	return Select(convs, q), nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*model.ConversationState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	c, ok := s.conversations[id]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}
	return c.Clone(), nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.conversations[id]; !ok {
		return ErrNotFound
	}
	delete(s.conversations, id)
	return nil
}
