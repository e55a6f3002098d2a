package service

import (
	"context"

	"github.com/capitalize-ai/travel-concierge/internal/model"
)

// EventPublisher emits conversation events. The NATS stream manager is the
// production implementation.
type EventPublisher interface {
	Publish(ctx context.Context, ev *model.TurnEvent) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, *model.TurnEvent) error { return nil }
