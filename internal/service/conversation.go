package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/capitalize-ai/travel-concierge/internal/model"
	"github.com/capitalize-ai/travel-concierge/internal/store"
	"github.com/capitalize-ai/travel-concierge/pkg/metrics"
)

// sweepBatch is how many idle candidates AbandonIdle loads per query.
const sweepBatch = 1000

// Conversations lists the user's conversations, most recent first. An empty
// userID lists every conversation.
func (s *ConciergeService) Conversations(ctx context.Context, userID string, limit int) ([]model.ConversationState, error) {
	convs, err := s.store.Find(ctx, store.Query{UserID: userID, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	return convs, nil
}

// Conversation returns one conversation if the user may see it.
func (s *ConciergeService) Conversation(ctx context.Context, id, userID string) (*model.ConversationState, error) {
	c, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !owns(c, userID) {
		return nil, ErrForbidden
	}
	return c, nil
}

// Save stores a client-supplied conversation on behalf of userID.
func (s *ConciergeService) Save(ctx context.Context, c *model.ConversationState, userID string) error {
	if c.ID == "" {
		c.ID = newID()
	}
	if c.SessionID == "" {
		c.SessionID = c.ID
	}
	if c.UserID == "" {
		c.UserID = userID
	}
	if !owns(c, userID) {
		return ErrForbidden
	}
	if c.Status == "" {
		c.Status = model.StatusActive
	}
	now := s.now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = now
	}

	unlock := s.lock(c.SessionID)
	defer unlock()

	existing, err := s.Conversation(ctx, c.ID, userID)
	switch {
	case errors.Is(err, ErrForbidden):
		return err
	case err == nil && existing.UserID != c.UserID:
		return ErrForbidden
	}

	if err := s.store.Save(ctx, c); err != nil {
		return fmt.Errorf("save conversation %s: %w", c.ID, err)
	}
	return nil
}

// locked returns a fresh copy of the conversation read while holding its
// session lock. The caller must call unlock.
func (s *ConciergeService) locked(ctx context.Context, id, userID string) (_ *model.ConversationState, unlock func(), err error) {
	c, err := s.Conversation(ctx, id, userID)
	if err != nil {
		return nil, nil, err
	}

	unlock = s.lock(c.SessionID)
	fresh, err := s.Conversation(ctx, id, userID)
	if err != nil {
		unlock()
		return nil, nil, err
	}
	return fresh, unlock, nil
}

// Delete removes a conversation and its live context.
func (s *ConciergeService) Delete(ctx context.Context, id, userID string) error {
	c, unlock, err := s.locked(ctx, id, userID)
	if err != nil {
		return err
	}
	defer unlock()

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.sessions.Discard(c.SessionID)
	metrics.ActiveSessions.Set(float64(s.sessions.Len()))
	s.logger.Info("conversation deleted", zap.String("conversation_id", id))
	return nil
}

// Complete marks a conversation completed, typically after a booking is
// confirmed.
func (s *ConciergeService) Complete(ctx context.Context, id, userID string) (*model.ConversationState, error) {
	c, unlock, err := s.locked(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if c.Status == model.StatusCompleted {
		return c, nil
	}
	c.Complete(s.now())
	if err := s.store.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("save conversation %s: %w", id, err)
	}
	s.sessions.Discard(c.SessionID)
	metrics.ActiveSessions.Set(float64(s.sessions.Len()))
	s.publish(ctx, s.statusEvent(c))
	return c, nil
}

// AbandonIdle marks active conversations idle for at least threshold as
// abandoned and expires stale session contexts. It returns the number of
// conversations abandoned.
func (s *ConciergeService) AbandonIdle(ctx context.Context, threshold time.Duration) (int, error) {
	now := s.now()

	for _, id := range s.sessions.Sweep(now) {
		s.logger.Debug("session context expired", zap.String("session_id", id))
	}
	metrics.ActiveSessions.Set(float64(s.sessions.Len()))

	q := store.Query{
		Status:        model.StatusActive,
		UpdatedBefore: now.Add(-threshold).Add(time.Nanosecond),
		Limit:         sweepBatch,
	}
	abandoned := 0
	for {
		batch, err := s.store.Find(ctx, q)
		if err != nil {
			return abandoned, fmt.Errorf("list idle conversations: %w", err)
		}

		progress := 0
		for i := range batch {
			ok, err := s.abandon(ctx, &batch[i], now, threshold)
			if err != nil {
				return abandoned, err
			}
			if ok {
				progress++
			}
		}
		abandoned += progress

		if len(batch) < sweepBatch {
			break
		}
		// Abandoned conversations leave the active set, so the same window
		// is read again until a batch makes no progress.
		if progress == 0 {
			q.UpdatedBefore = batch[len(batch)-1].UpdatedAt
		}
	}

	if abandoned > 0 {
		s.logger.Info("abandoned idle conversations", zap.Int("count", abandoned))
	}
	return abandoned, nil
}

// abandon re-reads c under its session lock and abandons it if it is still
// idle.
func (s *ConciergeService) abandon(ctx context.Context, c *model.ConversationState, now time.Time, threshold time.Duration) (bool, error) {
	unlock := s.lock(c.SessionID)
	defer unlock()

	fresh, err := s.store.Get(ctx, c.ID)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get conversation %s: %w", c.ID, err)
	}
	if !fresh.IdleSince(now, threshold) {
		return false, nil
	}

	fresh.Abandon(now)
	if err := s.store.Save(ctx, fresh); err != nil {
		return false, fmt.Errorf("abandon conversation %s: %w", c.ID, err)
	}
	s.sessions.Discard(fresh.SessionID)
	s.publish(ctx, s.statusEvent(fresh))
	return true, nil
}

// RunJanitor calls AbandonIdle every interval until ctx is done.
func (s *ConciergeService) RunJanitor(ctx context.Context, interval, threshold time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.AbandonIdle(ctx, threshold); err != nil {
				s.logger.Error("idle sweep failed", zap.Error(err))
			}
		}
	}
}

// Ping checks that the conversation store answers.
func (s *ConciergeService) Ping(ctx context.Context) error {
	if _, err := s.store.List(ctx, 1); err != nil {
		return fmt.Errorf("conversation store: %w", err)
	}
	return nil
}
