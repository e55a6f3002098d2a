package model

import (
	"time"
)

// EventType represents the type of conversation event.
type EventType string

const (
	EventTypeTurn    EventType = "turn"
	EventTypeHandoff EventType = "handoff"
	EventTypeStatus  EventType = "status"
)

// TurnEvent is published for every processed turn, handoff and status change.
type TurnEvent struct {
	ID             string    `json:"id"`
	SessionID      string    `json:"sessionId"`
	ConversationID string    `json:"conversationId"`
	Type           EventType `json:"type"`
	Intent         string    `json:"intent,omitempty"`
	Topics         []string  `json:"topics,omitempty"`
	Emotion        string    `json:"emotion,omitempty"`
	FromTeam       TeamType  `json:"fromTeam,omitempty"`
	ToTeam         TeamType  `json:"toTeam,omitempty"`
	Status         Status    `json:"status,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	Sequence       uint64    `json:"sequence,omitempty"`
}
