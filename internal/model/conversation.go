// Package model defines data structures for the concierge engine.
package model

import (
	"errors"
	"time"
)

// ErrConversationClosed is returned when appending to a conversation that is
// no longer active.
var ErrConversationClosed = errors.New("conversation is not active")

// Status is the lifecycle status of a persisted conversation.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusAbandoned Status = "abandoned"
)

// Metadata holds derived conversation attributes.
type Metadata struct {
	StartedAt    int64  `json:"startedAt"` // epoch ms
	MessageCount int    `json:"messageCount"`
	Platform     string `json:"platform"`
}

// ConversationState is the persisted form of a conversation.
type ConversationState struct {
	ID        string                `json:"id"`
	SessionID string                `json:"sessionId"`
	UserID    string                `json:"userId,omitempty"`
	Messages  []ConversationMessage `json:"messages"`
	Status    Status                `json:"status"`
	Metadata  Metadata              `json:"metadata"`
	CreatedAt time.Time             `json:"createdAt"`
	UpdatedAt time.Time             `json:"updatedAt"`
}

// NewConversationState creates an active, empty conversation.
func NewConversationState(id, sessionID, userID, platform string, now time.Time) *ConversationState {
	return &ConversationState{
		ID:        id,
		SessionID: sessionID,
		UserID:    userID,
		Messages:  []ConversationMessage{},
		Status:    StatusActive,
		Metadata: Metadata{
			StartedAt: now.UnixMilli(),
			Platform:  platform,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Append adds messages and keeps Metadata.MessageCount in sync.
func (s *ConversationState) Append(msgs ...ConversationMessage) error {
	if s.Status != StatusActive {
		return ErrConversationClosed
	}
	s.Messages = append(s.Messages, msgs...)
	s.Metadata.MessageCount = len(s.Messages)
	if n := len(msgs); n > 0 {
		s.UpdatedAt = msgs[n-1].Time()
	}
	return nil
}

// SyncCount re-derives Metadata.MessageCount from the message list.
func (s *ConversationState) SyncCount() {
	s.Metadata.MessageCount = len(s.Messages)
}

// Complete marks the conversation as completed after a booking confirmation.
func (s *ConversationState) Complete(now time.Time) {
	s.Status = StatusCompleted
	s.UpdatedAt = now
}

// Abandon marks the conversation as abandoned.
func (s *ConversationState) Abandon(now time.Time) {
	s.Status = StatusAbandoned
	s.UpdatedAt = now
}

// IdleSince reports whether an active conversation has had no activity for
// at least threshold.
func (s *ConversationState) IdleSince(now time.Time, threshold time.Duration) bool {
	if s.Status != StatusActive {
		return false
	}
	return now.Sub(s.LastActivity()) >= threshold
}

// LastActivity returns the timestamp of the latest message, or UpdatedAt.
func (s *ConversationState) LastActivity() time.Time {
	if n := len(s.Messages); n > 0 {
		return s.Messages[n-1].Time()
	}
	return s.UpdatedAt
}

// Clone returns a deep copy safe to hand across goroutines.
func (s *ConversationState) Clone() *ConversationState {
	c := *s
	c.Messages = make([]ConversationMessage, len(s.Messages))
	for i, m := range s.Messages {
		if m.Consultant != nil {
			ref := *m.Consultant
			m.Consultant = &ref
		}
		c.Messages[i] = m
	}
	return &c
}

// ListConversationsResponse is the response for listing conversations.
type ListConversationsResponse struct {
	Conversations []ConversationState `json:"conversations"`
}

// ConversationResponse wraps a single conversation.
type ConversationResponse struct {
	Success      bool               `json:"success"`
	Conversation *ConversationState `json:"conversation"`
}
