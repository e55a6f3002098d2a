package service

import (
	"strings"

	"github.com/capitalize-ai/travel-concierge/internal/emotion"
	"github.com/capitalize-ai/travel-concierge/internal/handoff"
	"github.com/capitalize-ai/travel-concierge/internal/intent"
	"github.com/capitalize-ai/travel-concierge/internal/model"
)

// routing is the outcome of team resolution for one turn.
type routing struct {
	previous model.TeamType
	team     model.TeamType
	handoff  *handoff.Message
	// lead holds the paragraphs shown before the consultant's reply.
	lead []string
}

// route picks the team for a turn given the conversation so far. Small talk
// stays with whoever is already helping, and the very first customer-service
// turn is an introduction without a transfer announcement.
func (s *ConciergeService) route(text string, res intent.Result, history []model.ConversationMessage, trip model.TripParams) routing {
	rt := routing{
		previous: handoff.PreviousConsultantTeam(history),
		team:     s.router.Team(res.Topics),
	}
	if rt.team == model.TeamCustomerService && rt.previous != model.TeamNone && !res.IsServiceRequest {
		rt.team = rt.previous
	}
	if !handoff.NeedsHandoff(rt.previous, rt.team) {
		return rt
	}

	from := rt.previous
	if from == model.TeamNone {
		from = model.TeamCustomerService
	}
	m := s.router.Message(from, rt.team, text, &trip)
	rt.handoff = &m

	if rt.previous == model.TeamNone && rt.team == model.TeamCustomerService {
		rt.lead = append(rt.lead, m.Introduction)
	} else {
		rt.lead = append(rt.lead, m.TransferAnnouncement, m.Introduction)
	}
	if m.Context != "" {
		rt.lead = append(rt.lead, m.Context)
	}
	return rt
}

// Analysis is the stateless view of how a message would be handled.
type Analysis struct {
	Intent        intent.Result      `json:"intent"`
	Emotion       emotion.Result     `json:"emotion"`
	Team          model.TeamType     `json:"team"`
	Consultant    handoff.Consultant `json:"consultant"`
	PreviousTeam  model.TeamType     `json:"previousTeam,omitempty"`
	NeedsHandoff  bool               `json:"needsHandoff"`
	Handoff       *handoff.Message   `json:"handoff,omitempty"`
	Trip          *model.TripParams  `json:"trip,omitempty"`
	TypingDelayMs int64              `json:"typingDelayMs"`
}

// Analyze runs detection and routing for message against history without
// touching any conversation. It never fails.
func (s *ConciergeService) Analyze(message string, history []model.ConversationMessage) *Analysis {
	text := strings.TrimSpace(message)
	emo := s.detector.Detect(text)
	res := s.analyzer.Analyze(text, history)
	trip := intent.ExtractTripAt(text, s.now())
	rt := s.route(text, res, history, trip)

	a := &Analysis{
		Intent:        res,
		Emotion:       emo,
		Team:          rt.team,
		Consultant:    s.router.ConsultantInfo(rt.team),
		PreviousTeam:  rt.previous,
		NeedsHandoff:  rt.handoff != nil,
		Handoff:       rt.handoff,
		TypingDelayMs: emotion.TypingDelay(s.typingDelay, emo).Milliseconds(),
	}
	if !trip.IsZero() {
		a.Trip = &trip
	}
	return a
}

// Handoff renders the transfer from one team to another outside of any
// conversation.
func (s *ConciergeService) Handoff(from, to model.TeamType, trigger string) handoff.Message {
	trip := intent.ExtractTripAt(trigger, s.now())
	return s.router.Message(from, to, trigger, &trip)
}

// Teams lists every consultant, customer service first.
func (s *ConciergeService) Teams() []handoff.Consultant {
	out := make([]handoff.Consultant, 0, len(model.AllTeams))
	for _, t := range model.AllTeams {
		out = append(out, s.router.ConsultantInfo(t))
	}
	return out
}
