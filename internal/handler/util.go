package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/capitalize-ai/travel-concierge/internal/model"
	"github.com/capitalize-ai/travel-concierge/internal/service"
	"github.com/capitalize-ai/travel-concierge/internal/store"
)

// maxBodyBytes bounds request bodies. Saved conversations carry their full
// message history, so this is well above a single chat message.
const maxBodyBytes = 1 << 20

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// writeError writes a JSON error response. details is optional.
func writeError(w http.ResponseWriter, status int, message string, details ...string) {
	body := errorBody{Error: message}
	if len(details) > 0 {
		body.Details = details[0]
	}
	writeJSON(w, status, body)
}

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// serviceError maps a domain error to a status and public message. ok is
// false for unexpected errors.
func serviceError(err error) (status int, message string, ok bool) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "Conversation not found", true
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, "Forbidden", true
	case errors.Is(err, model.ErrConversationClosed):
		return http.StatusConflict, "Conversation is closed", true
	case errors.Is(err, service.ErrEmptyMessage):
		return http.StatusBadRequest, "Message is required", true
	}
	return http.StatusInternalServerError, "", false
}
