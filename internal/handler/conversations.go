// Package handler provides HTTP handlers for the API.
package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/capitalize-ai/travel-concierge/internal/middleware"
	"github.com/capitalize-ai/travel-concierge/internal/model"
	"github.com/capitalize-ai/travel-concierge/internal/service"
	"github.com/capitalize-ai/travel-concierge/internal/store"
	"github.com/capitalize-ai/travel-concierge/pkg/logger"
)

const maxListLimit = 100

// ConversationHandler handles conversation endpoints.
type ConversationHandler struct {
	service *service.ConciergeService
	logger  *logger.Logger
}

// NewConversationHandler creates a new conversation handler.
func NewConversationHandler(svc *service.ConciergeService, log *logger.Logger) *ConversationHandler {
	return &ConversationHandler{
		service: svc,
		logger:  log,
	}
}

// List handles GET /api/ai/conversation/list
func (h *ConversationHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := store.DefaultListLimit
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = min(parsed, maxListLimit)
		}
	}

	convs, err := h.service.Conversations(ctx, middleware.GetUserID(ctx), limit)
	if err != nil {
		h.logger.Error("failed to list conversations", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to load conversations", err.Error())
		return
	}
	if convs == nil {
		convs = []model.ConversationState{}
	}

	writeJSON(w, http.StatusOK, model.ListConversationsResponse{Conversations: convs})
}

// Get handles GET /api/ai/conversation/{id}
func (h *ConversationHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	if id == "" {
		writeError(w, http.StatusBadRequest, "Session ID is required")
		return
	}
	if err := middleware.ValidateConversationID(id); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	conv, err := h.service.Conversation(ctx, id, middleware.GetUserID(ctx))
	if err != nil {
		if status, msg, ok := serviceError(err); ok {
			writeError(w, status, msg)
			return
		}
		h.logger.Error("failed to load conversation", zap.Error(err), zap.String("conversation_id", id))
		writeError(w, http.StatusInternalServerError, "Failed to load conversation", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, model.ConversationResponse{Success: true, Conversation: conv})
}

// Save handles POST /api/ai/conversation
func (h *ConversationHandler) Save(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var conv model.ConversationState
	if err := decodeJSON(w, r, &conv); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if conv.ID != "" {
		if err := middleware.ValidateConversationID(conv.ID); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if err := middleware.ValidateSessionID(conv.SessionID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.Save(ctx, &conv, middleware.GetUserID(ctx)); err != nil {
		if status, msg, ok := serviceError(err); ok {
			writeError(w, status, msg)
			return
		}
		h.logger.Error("failed to save conversation", zap.Error(err), zap.String("conversation_id", conv.ID))
		writeError(w, http.StatusInternalServerError, "Failed to save conversation", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, model.ConversationResponse{Success: true, Conversation: &conv})
}

// Delete handles DELETE /api/ai/conversation/{id}
func (h *ConversationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	if err := middleware.ValidateConversationID(id); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.Delete(ctx, id, middleware.GetUserID(ctx)); err != nil {
		if status, msg, ok := serviceError(err); ok {
			writeError(w, status, msg)
			return
		}
		h.logger.Error("failed to delete conversation", zap.Error(err), zap.String("conversation_id", id))
		writeError(w, http.StatusInternalServerError, "Failed to delete conversation", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Conversation deleted successfully",
	})
}

// Complete handles POST /api/ai/conversation/{id}/complete
func (h *ConversationHandler) Complete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	if err := middleware.ValidateConversationID(id); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	conv, err := h.service.Complete(ctx, id, middleware.GetUserID(ctx))
	if err != nil {
		if status, msg, ok := serviceError(err); ok {
			writeError(w, status, msg)
			return
		}
		h.logger.Error("failed to complete conversation", zap.Error(err), zap.String("conversation_id", id))
		writeError(w, http.StatusInternalServerError, "Failed to complete conversation", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, model.ConversationResponse{Success: true, Conversation: conv})
}
