// Package service orchestrates chat turns: analysis, routing, reply
// composition, persistence and event publishing.
package service

import (
	"context"
	"errors"
	"hash/fnv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/capitalize-ai/travel-concierge/internal/emotion"
	"github.com/capitalize-ai/travel-concierge/internal/handoff"
	"github.com/capitalize-ai/travel-concierge/internal/intent"
	"github.com/capitalize-ai/travel-concierge/internal/model"
	"github.com/capitalize-ai/travel-concierge/internal/session"
	"github.com/capitalize-ai/travel-concierge/internal/store"
	"github.com/capitalize-ai/travel-concierge/pkg/logger"
	"github.com/capitalize-ai/travel-concierge/pkg/metrics"
)

var (
	// ErrEmptyMessage is returned for turns without any text.
	ErrEmptyMessage = errors.New("message is required")
	// ErrForbidden is returned when a user touches another user's conversation.
	ErrForbidden = errors.New("forbidden - not your conversation")
)

const (
	defaultTypingDelay = 1500 * time.Millisecond
	lockStripes        = 64
)

// ConciergeService is the turn orchestrator. It is safe for concurrent use;
// turns of the same session are serialized.
type ConciergeService struct {
	store     store.Store
	sessions  *session.Registry
	responder Responder
	events    EventPublisher
	logger    *logger.Logger

	analyzer *intent.Analyzer
	detector *emotion.Detector
	router   *handoff.Router
	tracer   trace.Tracer

	platform    string
	typingDelay time.Duration
	now         func() time.Time

	locks [lockStripes]sync.Mutex
}

// Option customizes a ConciergeService.
type Option func(*ConciergeService)

// WithRouter replaces the default routing tables.
func WithRouter(r *handoff.Router) Option {
	return func(s *ConciergeService) { s.router = r }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *ConciergeService) { s.now = now }
}

// WithDefaultPlatform sets the platform recorded when a request names none.
func WithDefaultPlatform(p string) Option {
	return func(s *ConciergeService) { s.platform = p }
}

// WithTypingDelay sets the base typing indicator delay.
func WithTypingDelay(d time.Duration) Option {
	return func(s *ConciergeService) { s.typingDelay = d }
}

// WithTracer replaces the global tracer.
func WithTracer(t trace.Tracer) Option {
	return func(s *ConciergeService) { s.tracer = t }
}

// NewConciergeService creates the orchestrator. A nil responder uses
// templates and a nil publisher drops events.
func NewConciergeService(st store.Store, sessions *session.Registry, responder Responder, events EventPublisher, log *logger.Logger, opts ...Option) *ConciergeService {
	if responder == nil {
		responder = NewTemplateResponder()
	}
	if events == nil {
		events = NopPublisher{}
	}
	s := &ConciergeService{
		store:       st,
		sessions:    sessions,
		responder:   responder,
		events:      events,
		logger:      log,
		analyzer:    intent.NewAnalyzer(),
		detector:    emotion.NewDetector(),
		router:      handoff.NewRouter(handoff.DefaultTables()),
		tracer:      otel.Tracer("travel-concierge/service"),
		platform:    "web",
		typingDelay: defaultTypingDelay,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// lock serializes work on one session.
func (s *ConciergeService) lock(sessionID string) func() {
	h := fnv.New32a()
	h.Write([]byte(sessionID))
	mu := &s.locks[h.Sum32()%lockStripes]
	mu.Lock()
	return mu.Unlock
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func (s *ConciergeService) publish(ctx context.Context, ev *model.TurnEvent) {
	err := s.events.Publish(ctx, ev)
	metrics.RecordEvent(string(ev.Type), err)
	if err != nil {
		s.logger.Warn("failed to publish event",
			zap.String("session_id", ev.SessionID),
			zap.String("type", string(ev.Type)),
			zap.Error(err),
		)
	}
}

func (s *ConciergeService) statusEvent(c *model.ConversationState) *model.TurnEvent {
	return &model.TurnEvent{
		ID:             newID(),
		SessionID:      c.SessionID,
		ConversationID: c.ID,
		Type:           model.EventTypeStatus,
		Status:         c.Status,
		CreatedAt:      s.now().UTC(),
	}
}

// Resume rebuilds the in-memory context of a stored conversation by
// replaying its user messages through the analyzer.
func (s *ConciergeService) Resume(ctx context.Context, sessionID string) (*session.Context, error) {
	state, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	s.sessions.Discard(sessionID)
	sc, _ := s.sessions.GetOrCreate(sessionID)
	s.replay(sc, state.Messages)
	metrics.ActiveSessions.Set(float64(s.sessions.Len()))
	return sc, nil
}

func (s *ConciergeService) replay(sc *session.Context, msgs []model.ConversationMessage) {
	for i, m := range msgs {
		if m.Role != model.RoleUser {
			continue
		}
		res := s.analyzer.Analyze(m.Content, msgs[:i])
		summary := ""
		if i+1 < len(msgs) && msgs[i+1].Role == model.RoleAssistant {
			summary = summarize(msgs[i+1].Content)
		}
		sc.AddInteraction(res.Intent, summary)
	}
}

const summaryLen = 120

func summarize(reply string) string {
	r := []rune(reply)
	if len(r) <= summaryLen {
		return reply
	}
	return string(r[:summaryLen-1]) + "…"
}
