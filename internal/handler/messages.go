package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/capitalize-ai/travel-concierge/internal/middleware"
	"github.com/capitalize-ai/travel-concierge/internal/model"
	"github.com/capitalize-ai/travel-concierge/internal/service"
	"github.com/capitalize-ai/travel-concierge/pkg/logger"
)

// MessageHandler handles chat endpoints.
type MessageHandler struct {
	service *service.ConciergeService
	logger  *logger.Logger
}

// NewMessageHandler creates a new message handler.
func NewMessageHandler(svc *service.ConciergeService, log *logger.Logger) *MessageHandler {
	return &MessageHandler{
		service: svc,
		logger:  log,
	}
}

// ChatRequest is one user message. An empty session id starts a new session.
type ChatRequest struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
	Platform  string `json:"platform,omitempty"`
}

// Chat handles POST /api/ai/chat
func (h *MessageHandler) Chat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ChatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := middleware.ValidateMessageContent(req.Message); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := middleware.ValidateSessionID(req.SessionID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.service.ProcessTurn(ctx, service.TurnRequest{
		SessionID: req.SessionID,
		UserID:    middleware.GetUserID(ctx),
		Message:   req.Message,
		Platform:  req.Platform,
	})
	if err != nil {
		if status, msg, ok := serviceError(err); ok {
			writeError(w, status, msg)
			return
		}
		h.logger.Error("failed to process turn",
			zap.Error(err),
			zap.String("session_id", req.SessionID),
			zap.String("correlation_id", middleware.GetCorrelationID(ctx)),
		)
		writeError(w, http.StatusInternalServerError, "Failed to process message")
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// AnalyzeRequest asks how a message would be handled given a history.
type AnalyzeRequest struct {
	Message string                      `json:"message"`
	History []model.ConversationMessage `json:"history,omitempty"`
}

// Analyze handles POST /api/ai/analyze
func (h *MessageHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := middleware.ValidateMessageContent(req.Message); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, h.service.Analyze(req.Message, req.History))
}
