package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/capitalize-ai/travel-concierge/internal/emotion"
	"github.com/capitalize-ai/travel-concierge/internal/handoff"
	"github.com/capitalize-ai/travel-concierge/internal/intent"
	"github.com/capitalize-ai/travel-concierge/internal/llm"
	"github.com/capitalize-ai/travel-concierge/internal/model"
	"github.com/capitalize-ai/travel-concierge/internal/session"
	"github.com/capitalize-ai/travel-concierge/pkg/logger"
)

func input(message string, team model.TeamType) ReplyInput {
	return ReplyInput{
		Message:    message,
		Intent:     intent.Analyze(message, nil),
		Emotion:    emotion.Detect(message),
		Consultant: handoff.ConsultantInfo(team),
		Trip:       intent.ExtractTrip(message),
	}
}

func TestTemplateResponder(t *testing.T) {
	tests := []struct {
		name string
		in   ReplyInput
		want string
	}{
		{"greeting", input("Hello", model.TeamCustomerService), "Lisa Thompson"},
		{"how are you", input("How are you?", model.TeamCustomerService), "doing great"},
		{"gratitude", input("Thank you!", model.TeamFlightOperations), "welcome"},
		{"farewell", input("Goodbye", model.TeamFlightOperations), "Safe travels"},
		{"flight with destination", input("I need a flight to Tokyo", model.TeamFlightOperations), "Tokyo"},
		{"hotel city", input("Find me a hotel in Barcelona", model.TeamHotelAccommodations), "Barcelona"},
		{"frustrated", input("This is ridiculous, the hotel lost our reservation", model.TeamHotelAccommodations), "sorry"},
		{"beach", input("Can you recommend a beach destination?", model.TeamCustomerService), "Cancún"},
		{"booking", input("I want to cancel my booking", model.TeamCustomerService), "confirmation code"},
	}

	r := NewTemplateResponder()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Respond(context.Background(), tt.in)
			if err != nil {
				t.Fatalf("Respond() error = %v", err)
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("Respond() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestTemplateResponder_GreetingOnce(t *testing.T) {
	sc := session.New("s")
	in := input("Hello", model.TeamCustomerService)
	in.Session = sc

	first, _ := NewTemplateResponder().Respond(context.Background(), in)
	sc.AddInteraction(intent.Greeting, first)
	second, _ := NewTemplateResponder().Respond(context.Background(), in)

	if first == second || strings.Contains(second, "Hello") {
		t.Errorf("greeted twice: %q then %q", first, second)
	}

	in.Introduced = true
	if got, _ := NewTemplateResponder().Respond(context.Background(), in); got != "" {
		t.Errorf("introduced greeting = %q, want empty", got)
	}
}

type fakeLLM struct {
	reply string
	err   error
	got   *llm.CompletionRequest
}

func (f *fakeLLM) Name() string { return "fake" }

func (f *fakeLLM) Complete(_ context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &llm.CompletionResponse{Content: f.reply}, nil
}

func TestLLMResponder(t *testing.T) {
	client := &fakeLLM{reply: "  Let me find you a great flight to Tokyo!  "}
	r := NewLLMResponder(client, "", logger.Nop())

	in := input("I need a flight to Tokyo", model.TeamFlightOperations)
	in.History = []model.ConversationMessage{
		{Role: model.RoleAssistant, Content: "orphan assistant turn"},
		{Role: model.RoleUser, Content: "Hi"},
		{Role: model.RoleAssistant, Content: "Welcome!"},
	}

	got, err := r.Respond(context.Background(), in)
	if err != nil {
		t.Fatalf("Respond() error = %v", err)
	}
	if got != "Let me find you a great flight to Tokyo!" {
		t.Errorf("Respond() = %q", got)
	}

	req := client.got
	if !strings.Contains(req.System, "Sarah Chen") || !strings.Contains(req.System, "Tokyo") {
		t.Errorf("System = %q", req.System)
	}
	if len(req.Messages) != 3 || req.Messages[0].Role != "user" || req.Messages[2].Content != "I need a flight to Tokyo" {
		t.Errorf("Messages = %+v", req.Messages)
	}
}

func TestLLMResponder_Fallback(t *testing.T) {
	tests := []struct {
		name   string
		client *fakeLLM
	}{
		{"error", &fakeLLM{err: errors.New("rate limited")}},
		{"blank", &fakeLLM{reply: "   "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewLLMResponder(tt.client, "", logger.Nop())
			got, err := r.Respond(context.Background(), input("Thank you!", model.TeamCustomerService))
			if err != nil {
				t.Fatalf("Respond() error = %v", err)
			}
			if !strings.Contains(got, "welcome") {
				t.Errorf("Respond() = %q, want template fallback", got)
			}
		})
	}
}

func TestLLMResponder_SkipsIntroducedGreeting(t *testing.T) {
	client := &fakeLLM{reply: "Hello!"}
	in := input("Hi", model.TeamCustomerService)
	in.Introduced = true

	got, err := NewLLMResponder(client, "", logger.Nop()).Respond(context.Background(), in)
	if err != nil || got != "" || client.got != nil {
		t.Errorf("Respond() = %q, %v; client called = %v", got, err, client.got != nil)
	}
}
