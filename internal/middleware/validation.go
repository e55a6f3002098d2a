package middleware

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// MaxMessageLength is the longest chat message accepted, in characters.
const MaxMessageLength = 4000

const maxIDLength = 128

// ValidateMessageContent validates a chat message before analysis.
func ValidateMessageContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return errors.New("Message is required")
	}
	if !utf8.ValidString(content) {
		return errors.New("Message must be valid UTF-8")
	}
	if utf8.RuneCountInString(content) > MaxMessageLength {
		return errors.New("Message is too long")
	}
	return nil
}

// ValidateSessionID validates a client supplied session ID. An empty ID is
// allowed on chat requests and means "start a new session".
func ValidateSessionID(id string) error {
	return validateID(id, "Session ID")
}

// ValidateConversationID validates a conversation ID.
func ValidateConversationID(id string) error {
	if id == "" {
		return errors.New("Conversation ID is required")
	}
	return validateID(id, "Conversation ID")
}

// IDs end up in NATS subjects and Redis keys, so only a conservative
// character set is accepted.
func validateID(id, what string) error {
	if len(id) > maxIDLength {
		return errors.New(what + " is too long")
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '.', r == ':':
		default:
			return errors.New(what + " contains invalid characters")
		}
	}
	return nil
}
