package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/capitalize-ai/travel-concierge/internal/emotion"
	"github.com/capitalize-ai/travel-concierge/internal/handoff"
	"github.com/capitalize-ai/travel-concierge/internal/intent"
	"github.com/capitalize-ai/travel-concierge/internal/llm"
	"github.com/capitalize-ai/travel-concierge/internal/model"
	"github.com/capitalize-ai/travel-concierge/internal/session"
	"github.com/capitalize-ai/travel-concierge/pkg/logger"
	"github.com/capitalize-ai/travel-concierge/pkg/metrics"
)

// ReplyInput is everything a Responder may use to compose a reply.
type ReplyInput struct {
	Message    string
	Intent     intent.Result
	Emotion    emotion.Result
	Consultant handoff.Consultant
	Trip       model.TripParams
	History    []model.ConversationMessage
	Session    *session.Context
	// Introduced is set when the consultant has just introduced themselves
	// in this turn.
	Introduced bool
}

// Responder composes the consultant's reply to one user message.
type Responder interface {
	Respond(ctx context.Context, in ReplyInput) (string, error)
}

// TemplateResponder renders fixed persona lines. It never fails.
type TemplateResponder struct{}

// NewTemplateResponder creates a template responder.
func NewTemplateResponder() *TemplateResponder {
	return &TemplateResponder{}
}

func (TemplateResponder) Respond(_ context.Context, in ReplyInput) (string, error) {
	return templateReply(in), nil
}

func templateReply(in ReplyInput) string {
	c := in.Consultant
	greeted := in.Session != nil && in.Session.HasInteracted(intent.Greeting)

	switch in.Intent.Intent {
	case intent.Greeting:
		if in.Introduced {
			return ""
		}
		if greeted {
			return "What else can I help you with?"
		}
		return fmt.Sprintf("Hello! I'm %s. Where are you dreaming of going?", c.Name)

	case intent.HowAreYou:
		return "I'm doing great, thanks for asking! How can I help with your travels today?"

	case intent.PersonalQuestion:
		return fmt.Sprintf("I'm %s, %s. I've helped a lot of travelers get where they want to go, and I'd love to help you too.", c.Name, c.Title)

	case intent.Gratitude:
		return "You're very welcome! Is there anything else I can do for you?"

	case intent.Farewell:
		return "Safe travels! I'm here whenever you need me."

	case intent.ServiceRequest, intent.BookingManagement:
		return joinLines(empathy(in.Emotion), serviceLine(in))

	case intent.DestinationRecommendation:
		return joinLines(empathy(in.Emotion), recommendationLine(in.Intent))

	case intent.Casual:
		return "Take your time. I'm here when you're ready."
	}
	return "I'd be happy to help. Could you tell me a bit more about your trip?"
}

func empathy(r emotion.Result) string {
	if r.Emotion == emotion.Neutral || r.Emotion == emotion.Casual {
		return ""
	}
	return emotion.EmpathyMarker(r.Emotion)
}

func serviceLine(in ReplyInput) string {
	t := in.Trip
	if in.Intent.Intent == intent.BookingManagement {
		return "Let me pull up your booking. Could you share your confirmation code?"
	}

	switch in.Consultant.Team {
	case model.TeamFlightOperations:
		if t.Destination != "" {
			return fmt.Sprintf("I'm checking the best flights to %s for you now.", t.Destination)
		}
		return "Where are you flying from and to, and on which dates?"
	case model.TeamHotelAccommodations:
		if city := firstNonEmpty(t.City, t.Destination); city != "" {
			return fmt.Sprintf("I'm looking at the best places to stay in %s.", city)
		}
		return "Which city will you be staying in, and for which dates?"
	case model.TeamCarRental:
		return "Where would you like to pick up the car, and for which dates?"
	case model.TeamPaymentBilling:
		return "I can help with that. Which booking is this payment about?"
	case model.TeamVisaDocumentation:
		return "Let's check the entry requirements. Which passport do you hold, and where are you traveling?"
	case model.TeamAccessibilityServices:
		return "Tell me exactly what you need and I'll make sure it's arranged with the airline and hotel."
	case model.TeamEmergencyResponse:
		return "Tell me where you are right now and what happened. I'll start working on this immediately."
	case model.TeamLegalCompliance:
		return "Let's look at your rights for this trip. Which airline and route were you on?"
	case model.TeamTravelInsurance:
		return "I'll walk you through the coverage options for your trip."
	case model.TeamLoyaltyRewards:
		return "Let's check your points balance and the best ways to use them."
	case model.TeamTechnicalSupport:
		return "Sorry about the trouble. Which device and browser are you using?"
	}
	return "I'd be happy to help. Could you tell me a bit more about what you need?"
}

func recommendationLine(r intent.Result) string {
	switch {
	case r.HasTopic(intent.TopicBeach):
		return "For sun and sand, I love Cancún, Bali and the Algarve. What time of year are you thinking?"
	case r.HasTopic(intent.TopicRomantic):
		return "For a romantic getaway, Paris, Santorini and the Maldives are hard to beat. How long will you be away?"
	case r.HasTopic(intent.TopicFamily):
		return "Orlando, Barcelona and Costa Rica are wonderful with kids. How old are your little travelers?"
	case r.HasTopic(intent.TopicBudget):
		return "Lisbon, Mexico City and Budapest offer amazing value. What's your budget per person?"
	case r.HasTopic(intent.TopicCity):
		return "Tokyo, New York and Barcelona are fantastic city breaks. What do you enjoy most when you travel?"
	case r.HasTopic(intent.TopicNewYears):
		return "Rio de Janeiro, Sydney and Edinburgh throw unforgettable New Year's parties. Where are you leaving from?"
	}
	return "I'd love to help you choose. What kind of trip do you have in mind: beach, city, adventure or something relaxing?"
}

func joinLines(parts ...string) string {
	var out []string
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// historyTurns is how many earlier messages are sent to the model.
const historyTurns = 10

// LLMResponder asks a language model to write the reply in the consultant's
// voice and falls back to templates when the call fails.
type LLMResponder struct {
	client   llm.Client
	model    string
	timeout  time.Duration
	fallback TemplateResponder
	logger   *logger.Logger
}

// NewLLMResponder creates a responder on client. An empty model uses the
// provider default.
func NewLLMResponder(client llm.Client, model string, log *logger.Logger) *LLMResponder {
	return &LLMResponder{
		client:  client,
		model:   model,
		timeout: 20 * time.Second,
		logger:  log,
	}
}

func (r *LLMResponder) Respond(ctx context.Context, in ReplyInput) (string, error) {
	if in.Intent.Intent == intent.Greeting && in.Introduced {
		return "", nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	resp, err := r.client.Complete(ctx, &llm.CompletionRequest{
		Model:       r.model,
		System:      systemPrompt(in),
		Messages:    chatHistory(in.History, in.Message),
		MaxTokens:   400,
		Temperature: 0.7,
	})
	metrics.RecordLLM(r.client.Name(), err, time.Since(start).Seconds())

	if err != nil || strings.TrimSpace(resp.Content) == "" {
		if err == nil {
			err = fmt.Errorf("empty completion")
		}
		r.logger.Warn("llm reply failed, using template",
			zap.String("provider", r.client.Name()),
			zap.Error(err),
		)
		return r.fallback.Respond(ctx, in)
	}
	return strings.TrimSpace(resp.Content), nil
}

func systemPrompt(in ReplyInput) string {
	c := in.Consultant
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s, %s at a travel booking company. ", c.Name, c.Title)
	b.WriteString("Reply in the user's language, warmly and concisely, in at most three sentences. ")
	fmt.Fprintf(&b, "The user's message was classified as %s", in.Intent.Intent)
	if len(in.Intent.Topics) > 0 {
		fmt.Fprintf(&b, " about %s", strings.Join(in.Intent.TopicStrings(), ", "))
	}
	fmt.Fprintf(&b, ". They sound %s; use a %s tone.", in.Emotion.Emotion, in.Emotion.Strategy)
	if in.Introduced {
		b.WriteString(" You have already introduced yourself, so do not greet or introduce yourself again.")
	} else if in.Session != nil && in.Session.HasInteracted(intent.Greeting) {
		b.WriteString(" You have already greeted the user in this conversation.")
	}
	if !in.Trip.IsZero() {
		fmt.Fprintf(&b, " Known trip details: %s.", tripSummary(in.Trip))
	}
	b.WriteString(" Never invent prices, availability or booking references.")
	return b.String()
}

func tripSummary(t model.TripParams) string {
	var parts []string
	add := func(label, v string) {
		if v != "" {
			parts = append(parts, label+" "+v)
		}
	}
	add("from", t.Origin)
	add("to", t.Destination)
	add("city", t.City)
	add("departing", t.DepartureDate)
	add("returning", t.ReturnDate)
	add("check-in", t.CheckIn)
	add("check-out", t.CheckOut)
	add("cabin", t.CabinClass)
	if t.Passengers > 0 {
		parts = append(parts, fmt.Sprintf("%d passengers", t.Passengers))
	}
	return strings.Join(parts, ", ")
}

func chatHistory(history []model.ConversationMessage, message string) []llm.ChatMessage {
	if len(history) > historyTurns {
		history = history[len(history)-historyTurns:]
	}
	// Anthropic requires the first turn to come from the user.
	for len(history) > 0 && history[0].Role != model.RoleUser {
		history = history[1:]
	}

	msgs := make([]llm.ChatMessage, 0, len(history)+1)
	for _, m := range history {
		if m.Role != model.RoleUser && m.Role != model.RoleAssistant {
			continue
		}
		msgs = append(msgs, llm.ChatMessage{Role: string(m.Role), Content: m.Content})
	}
	return append(msgs, llm.ChatMessage{Role: string(model.RoleUser), Content: message})
}
