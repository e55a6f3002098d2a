package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/capitalize-ai/travel-concierge/internal/middleware"
	"github.com/capitalize-ai/travel-concierge/internal/model"
	"github.com/capitalize-ai/travel-concierge/internal/service"
	"github.com/capitalize-ai/travel-concierge/pkg/logger"
	"github.com/capitalize-ai/travel-concierge/pkg/metrics"
)

const (
	replayBatch      = 50
	defaultPollEvery = 2 * time.Second
	defaultHeartbeat = 30 * time.Second
)

// EventSource replays the events of one session after a stream sequence.
// The NATS stream manager implements it.
type EventSource interface {
	Events(ctx context.Context, sessionID string, afterSequence uint64, limit int) ([]model.TurnEvent, bool, error)
}

// StreamHandler serves conversation events as server-sent events.
type StreamHandler struct {
	service   *service.ConciergeService
	events    EventSource
	logger    *logger.Logger
	pollEvery time.Duration
	heartbeat time.Duration
}

// NewStreamHandler creates a new stream handler. A nil source disables the
// endpoint.
func NewStreamHandler(svc *service.ConciergeService, events EventSource, log *logger.Logger) *StreamHandler {
	return &StreamHandler{
		service:   svc,
		events:    events,
		logger:    log,
		pollEvery: defaultPollEvery,
		heartbeat: defaultHeartbeat,
	}
}

// ReplayCompleteEvent marks the end of the backlog.
type ReplayCompleteEvent struct {
	LastSequence uint64 `json:"lastSequence"`
	EventCount   int    `json:"eventCount"`
}

// HeartbeatEvent keeps idle connections open through proxies.
type HeartbeatEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

// Stream handles GET /api/ai/conversation/{id}/events
// Supports ?after_sequence=N for resuming from a specific point.
func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	if h.events == nil {
		writeError(w, http.StatusServiceUnavailable, "Event stream is not enabled")
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
		writeError(w, http.StatusInternalServerError, "Failed to load conversation", err.Error())
		return
	}

	var cursor uint64
	if seqStr := r.URL.Query().Get("after_sequence"); seqStr != "" {
		if seq, err := strconv.ParseUint(seqStr, 10, 64); err == nil {
			cursor = seq
		}
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	// The stream outlives the server write timeout.
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	metrics.IncrementSSEConnections()
	defer metrics.DecrementSSEConnections()

	log := h.logger.With(zap.String("conversation_id", id))
	sendSSEEvent(w, flusher, "connected", map[string]string{"conversationId": id})

	// Backlog.
	replayed := 0
	for {
		events, more, err := h.events.Events(ctx, conv.SessionID, cursor, replayBatch)
		if err != nil {
			log.Error("failed to replay events", zap.Error(err))
			sendSSEEvent(w, flusher, "error", errorBody{Error: "Failed to replay events"})
			return
		}
		for i := range events {
			if ctx.Err() != nil {
				return
			}
			sendSSEEvent(w, flusher, string(events[i].Type), &events[i])
			cursor = events[i].Sequence
			replayed++
		}
		if !more || len(events) == 0 {
			break
		}
	}
	sendSSEEvent(w, flusher, "replay_complete", &ReplayCompleteEvent{
		LastSequence: cursor,
		EventCount:   replayed,
	})
	log.Info("event replay complete", zap.Int("events_replayed", replayed), zap.Uint64("last_sequence", cursor))

	// Live tail.
	poll := time.NewTicker(h.pollEvery)
	defer poll.Stop()
	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("SSE client disconnected")
			return

		case <-poll.C:
			events, _, err := h.events.Events(ctx, conv.SessionID, cursor, replayBatch)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Warn("failed to poll events", zap.Error(err))
				continue
			}
			for i := range events {
				sendSSEEvent(w, flusher, string(events[i].Type), &events[i])
				cursor = events[i].Sequence
			}

		case <-heartbeat.C:
			sendSSEEvent(w, flusher, "heartbeat", &HeartbeatEvent{Timestamp: time.Now().UTC()})
		}
	}
}

func sendSSEEvent(w http.ResponseWriter, flusher http.Flusher, event string, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "event: %s\n", event)
	fmt.Fprintf(w, "data: %s\n\n", jsonData)
	flusher.Flush()

	return nil
}
