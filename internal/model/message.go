package model

import (
	"time"
)

// Role represents the role of a message sender.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// ConsultantRef identifies the persona that authored an assistant message.
type ConsultantRef struct {
	Name string   `json:"name"`
	Team TeamType `json:"team"`
}

// ConversationMessage is a single turn in a conversation. Messages are
// immutable once appended and their order is significant.
type ConversationMessage struct {
	Role       Role           `json:"role"`
	Content    string         `json:"content"`
	Timestamp  int64          `json:"timestamp"` // epoch ms
	Consultant *ConsultantRef `json:"consultant,omitempty"`
}

// NewUserMessage creates a user message stamped with t.
func NewUserMessage(content string, t time.Time) ConversationMessage {
	return ConversationMessage{
		Role:      RoleUser,
		Content:   content,
		Timestamp: t.UnixMilli(),
	}
}

// NewAssistantMessage creates an assistant message attributed to a consultant.
func NewAssistantMessage(content string, consultant ConsultantRef, t time.Time) ConversationMessage {
	ref := consultant
	return ConversationMessage{
		Role:       RoleAssistant,
		Content:    content,
		Timestamp:  t.UnixMilli(),
		Consultant: &ref,
	}
}

// Time returns the message timestamp as a time.Time.
func (m ConversationMessage) Time() time.Time {
	return time.UnixMilli(m.Timestamp)
}

// ChatRequest is the request body for a single chat turn.
type ChatRequest struct {
	SessionID string `json:"sessionId,omitempty"`
	Message   string `json:"message"`
	Platform  string `json:"platform,omitempty"`
}

// AnalyzeRequest is the request body for stateless analysis.
type AnalyzeRequest struct {
	Message string                `json:"message"`
	History []ConversationMessage `json:"history,omitempty"`
}
