package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/capitalize-ai/travel-concierge/internal/emotion"
	"github.com/capitalize-ai/travel-concierge/internal/handoff"
	"github.com/capitalize-ai/travel-concierge/internal/intent"
	"github.com/capitalize-ai/travel-concierge/internal/model"
	"github.com/capitalize-ai/travel-concierge/internal/store"
	"github.com/capitalize-ai/travel-concierge/pkg/metrics"
)

// TurnRequest is one user message.
type TurnRequest struct {
	SessionID string
	UserID    string
	Message   string
	Platform  string
}

// TurnResult is the consultant's response to one user message.
type TurnResult struct {
	SessionID     string             `json:"sessionId"`
	Reply         string             `json:"reply"`
	Consultant    handoff.Consultant `json:"consultant"`
	Intent        intent.Result      `json:"intent"`
	Emotion       emotion.Result     `json:"emotion"`
	Handoff       *handoff.Message   `json:"handoff,omitempty"`
	Trip          *model.TripParams  `json:"trip,omitempty"`
	TypingDelayMs int64              `json:"typingDelayMs"`
	MessageCount  int                `json:"messageCount"`
}

// ProcessTurn handles one user message end to end.
func (s *ConciergeService) ProcessTurn(ctx context.Context, req TurnRequest) (_ *TurnResult, err error) {
	text := strings.TrimSpace(req.Message)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = newID()
	}

	ctx, span := s.tracer.Start(ctx, "concierge.ProcessTurn")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(attribute.String("session.id", sessionID))

	unlock := s.lock(sessionID)
	defer unlock()

	log := s.logger.WithSession(sessionID)

	state, err := s.load(ctx, sessionID, req)
	if err != nil {
		return nil, err
	}
	if state.Status != model.StatusActive {
		return nil, model.ErrConversationClosed
	}

	sc, created := s.sessions.GetOrCreate(sessionID)
	if created {
		s.replay(sc, state.Messages)
		metrics.ActiveSessions.Set(float64(s.sessions.Len()))
	}

	// Analysis
	start := time.Now()
	emo := s.detector.Detect(text)
	res := s.analyzer.Analyze(text, state.Messages)
	trip := intent.ExtractTripAt(text, s.now())
	metrics.RecordTurn(string(res.Intent), string(emo.Emotion), time.Since(start).Seconds())

	rt := s.route(text, res, state.Messages, trip)
	next, consultant := rt.team, s.router.ConsultantInfo(rt.team)
	if rt.handoff != nil {
		metrics.RecordHandoff(string(rt.previous), string(next))
		log.Info("consultant handoff",
			zap.String("from", string(rt.previous)),
			zap.String("to", string(next)),
			zap.String("intent", string(res.Intent)),
		)
	}

	body, err := s.responder.Respond(ctx, ReplyInput{
		Message:    text,
		Intent:     res,
		Emotion:    emo,
		Consultant: consultant,
		Trip:       trip,
		History:    state.Messages,
		Session:    sc,
		Introduced: rt.handoff != nil,
	})
	if err != nil {
		return nil, fmt.Errorf("compose reply: %w", err)
	}
	reply := joinParagraphs(append(rt.lead, body)...)

	now := s.now()
	if err := state.Append(
		model.NewUserMessage(text, now),
		model.NewAssistantMessage(reply, consultant.Ref(), now),
	); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("save conversation %s: %w", state.ID, err)
	}
	sc.AddInteraction(res.Intent, summarize(reply))

	s.publish(ctx, &model.TurnEvent{
		ID:             newID(),
		SessionID:      sessionID,
		ConversationID: state.ID,
		Type:           model.EventTypeTurn,
		Intent:         string(res.Intent),
		Topics:         res.TopicStrings(),
		Emotion:        string(emo.Emotion),
		ToTeam:         next,
		CreatedAt:      now.UTC(),
	})
	if rt.handoff != nil {
		s.publish(ctx, &model.TurnEvent{
			ID:             newID(),
			SessionID:      sessionID,
			ConversationID: state.ID,
			Type:           model.EventTypeHandoff,
			FromTeam:       rt.previous,
			ToTeam:         next,
			CreatedAt:      now.UTC(),
		})
	}

	span.SetAttributes(
		attribute.String("intent", string(res.Intent)),
		attribute.String("emotion", string(emo.Emotion)),
		attribute.String("team", string(next)),
		attribute.Bool("handoff", rt.handoff != nil),
	)
	log.Debug("turn processed",
		zap.String("intent", string(res.Intent)),
		zap.Strings("topics", res.TopicStrings()),
		zap.String("emotion", string(emo.Emotion)),
		zap.String("team", string(next)),
	)

	result := &TurnResult{
		SessionID:     sessionID,
		Reply:         reply,
		Consultant:    consultant,
		Intent:        res,
		Emotion:       emo,
		Handoff:       rt.handoff,
		TypingDelayMs: emotion.TypingDelay(s.typingDelay, emo).Milliseconds(),
		MessageCount:  len(state.Messages),
	}
	if !trip.IsZero() {
		result.Trip = &trip
	}
	return result, nil
}

// load fetches the session's conversation or starts a new one.
func (s *ConciergeService) load(ctx context.Context, sessionID string, req TurnRequest) (*model.ConversationState, error) {
	state, err := s.store.Get(ctx, sessionID)
	if errors.Is(err, store.ErrNotFound) {
		platform := req.Platform
		if platform == "" {
			platform = s.platform
		}
		return model.NewConversationState(sessionID, sessionID, req.UserID, platform, s.now()), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load conversation %s: %w", sessionID, err)
	}
	if !owns(state, req.UserID) {
		return nil, ErrForbidden
	}
	return state, nil
}

// owns reports whether userID may access c. Anonymous conversations and
// anonymous callers are not checked.
func owns(c *model.ConversationState, userID string) bool {
	return c.UserID == "" || userID == "" || c.UserID == userID
}

func joinParagraphs(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "\n\n")
}
