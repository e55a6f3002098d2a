package nats

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/capitalize-ai/travel-concierge/internal/model"
	"github.com/capitalize-ai/travel-concierge/pkg/metrics"
)

const (
	// StreamName is the name of the conversation events stream.
	StreamName = "CONCIERGE"

	// SubjectPrefix is the prefix for all event subjects.
	SubjectPrefix = "concierge"
)

// StreamManager publishes and replays conversation events.
type StreamManager struct {
	js jetstream.JetStream
}

// NewStreamManager creates a new stream manager.
func NewStreamManager(client *Client) *StreamManager {
	return &StreamManager{js: client.JetStream()}
}

// EnsureStream creates the events stream if it does not exist.
func (m *StreamManager) EnsureStream(ctx context.Context) error {
	_, err := m.js.Stream(ctx, StreamName)
	if err == nil {
		return nil
	}
	if !errors.Is(err, jetstream.ErrStreamNotFound) {
		return fmt.Errorf("failed to look up stream: %w", err)
	}

	_, err = m.js.CreateStream(ctx, jetstream.StreamConfig{
		Name:        StreamName,
		Subjects:    []string{SubjectPrefix + ".>"},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      90 * 24 * time.Hour,
		MaxBytes:    10 * 1024 * 1024 * 1024,
		Storage:     jetstream.FileStorage,
		Replicas:    1,
		Compression: jetstream.S2Compression,
		Description: "Concierge turn, handoff and status events",
	})
	if err != nil {
		return fmt.Errorf("failed to create stream: %w", err)
	}
	return nil
}

// subjectToken maps a session id onto one subject token. Ids made only of
// letters, digits, '-' and ':' are used as is; anything else is base64url
// encoded behind an "id_" marker, which plain ids cannot contain, so distinct
// ids never share a subject.
func subjectToken(s string) string {
	if s == "" {
		return "_"
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == ':':
			continue
		}
		return "id_" + base64.RawURLEncoding.EncodeToString([]byte(s))
	}
	return s
}

// EventSubject returns the subject for an event.
func EventSubject(sessionID string, eventType model.EventType) string {
	return fmt.Sprintf("%s.%s.%s", SubjectPrefix, subjectToken(sessionID), eventType)
}

// SessionFilter returns the filter subject for all events of a session.
func SessionFilter(sessionID string) string {
	return fmt.Sprintf("%s.%s.>", SubjectPrefix, subjectToken(sessionID))
}

// Publish sends ev to the stream and records the assigned sequence on it.
func (m *StreamManager) Publish(ctx context.Context, ev *model.TurnEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	ack, err := m.js.Publish(ctx, EventSubject(ev.SessionID, ev.Type), data, jetstream.WithMsgID(ev.ID))
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	ev.Sequence = ack.Sequence
	return nil
}

// Events replays the events of a session after the given stream sequence.
// The boolean result reports whether more events may be available.
func (m *StreamManager) Events(ctx context.Context, sessionID string, afterSequence uint64, limit int) ([]model.TurnEvent, bool, error) {
	if limit <= 0 {
		limit = 100
	}
	cfg := jetstream.OrderedConsumerConfig{
		FilterSubjects: []string{SessionFilter(sessionID)},
		DeliverPolicy:  jetstream.DeliverAllPolicy,
	}
	if afterSequence > 0 {
		cfg.DeliverPolicy = jetstream.DeliverByStartSequencePolicy
		cfg.OptStartSeq = afterSequence + 1
	}

	consumer, err := m.js.OrderedConsumer(ctx, StreamName, cfg)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create consumer: %w", err)
	}

	batch, err := consumer.FetchNoWait(limit)
	if err != nil {
		return nil, false, fmt.Errorf("failed to fetch events: %w", err)
	}

	events := []model.TurnEvent{}
	for msg := range batch.Messages() {
		var ev model.TurnEvent
		if err := json.Unmarshal(msg.Data(), &ev); err != nil {
			continue
		}
		if meta, err := msg.Metadata(); err == nil {
			ev.Sequence = meta.Sequence.Stream
		}
		events = append(events, ev)
	}
	if err := batch.Error(); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return nil, false, fmt.Errorf("batch error: %w", err)
	}

	return events, len(events) == limit, nil
}

// Check verifies the events stream is reachable and refreshes the stream
// size gauge.
func (m *StreamManager) Check(ctx context.Context) error {
	s, err := m.js.Stream(ctx, StreamName)
	if err != nil {
		return fmt.Errorf("failed to look up stream: %w", err)
	}
	info, err := s.Info(ctx)
	if err != nil {
		return fmt.Errorf("failed to read stream info: %w", err)
	}
	metrics.NATSStreamMessages.WithLabelValues(StreamName).Set(float64(info.State.Msgs))
	return nil
}
