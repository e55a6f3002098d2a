package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/capitalize-ai/travel-concierge/internal/handoff"
	"github.com/capitalize-ai/travel-concierge/internal/intent"
	"github.com/capitalize-ai/travel-concierge/internal/model"
)

func assistantFrom(team model.TeamType) model.ConversationMessage {
	ref := handoff.ConsultantInfo(team).Ref()
	return model.ConversationMessage{Role: model.RoleAssistant, Content: "ok", Consultant: &ref}
}

func TestAnalyze(t *testing.T) {
	svc := newFixture(t).svc

	tests := []struct {
		name        string
		message     string
		history     []model.ConversationMessage
		wantIntent  intent.Intent
		wantTeam    model.TeamType
		wantHandoff bool
	}{
		{"first greeting", "Hello", nil, intent.Greeting, model.TeamCustomerService, true},
		{"greeting after lisa", "Hi again", []model.ConversationMessage{assistantFrom(model.TeamCustomerService)}, intent.Greeting, model.TeamCustomerService, false},
		{"flight from lisa", "I need a flight to Paris", []model.ConversationMessage{assistantFrom(model.TeamCustomerService)}, intent.ServiceRequest, model.TeamFlightOperations, true},
		{"thanks stays with sarah", "Thanks!", []model.ConversationMessage{assistantFrom(model.TeamFlightOperations)}, intent.Gratitude, model.TeamFlightOperations, false},
		{"emergency wins", "Emergency! I lost my passport and need a hotel", nil, intent.ServiceRequest, model.TeamEmergencyResponse, true},
		{"empty input", "   ", nil, intent.GeneralInquiry, model.TeamCustomerService, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.Analyze(tt.message, tt.history)
			if got.Intent.Intent != tt.wantIntent {
				t.Errorf("Intent = %q, want %q", got.Intent.Intent, tt.wantIntent)
			}
			if got.Team != tt.wantTeam {
				t.Errorf("Team = %q, want %q", got.Team, tt.wantTeam)
			}
			if got.NeedsHandoff != tt.wantHandoff || (got.Handoff != nil) != tt.wantHandoff {
				t.Errorf("NeedsHandoff = %v, Handoff = %v, want %v", got.NeedsHandoff, got.Handoff, tt.wantHandoff)
			}
			if got.Consultant.Team != got.Team {
				t.Errorf("Consultant.Team = %q, Team = %q", got.Consultant.Team, got.Team)
			}
		})
	}
}

func TestAnalyze_Trip(t *testing.T) {
	got := newFixture(t).svc.Analyze("Book a flight from Lisbon to Tokyo", nil)
	if got.Trip == nil || got.Trip.Destination != "Tokyo" {
		t.Fatalf("Trip = %+v", got.Trip)
	}
	if got.Handoff == nil || !strings.Contains(got.Handoff.Introduction, "Tokyo") {
		t.Errorf("Handoff = %+v", got.Handoff)
	}
}

func TestTripDatesFollowServiceClock(t *testing.T) {
	f := newFixture(t)
	f.clock = time.Date(2030, time.January, 10, 9, 0, 0, 0, time.UTC)
	const message = "I need a flight from Lisbon to Tokyo on March 10"
	const want = "2030-03-10"

	if got := f.svc.Analyze(message, nil); got.Trip == nil || got.Trip.DepartureDate != want {
		t.Errorf("Analyze() Trip = %+v, want departure %s", got.Trip, want)
	}
	if got := f.svc.Handoff(model.TeamCustomerService, model.TeamFlightOperations, message); !strings.Contains(got.Context, "Mar 10") {
		t.Errorf("Handoff() Context = %q, want it to mention Mar 10", got.Context)
	}
	res := f.turn(t, "sess-1", message)
	if res.Trip == nil || res.Trip.DepartureDate != want {
		t.Errorf("ProcessTurn() Trip = %+v, want departure %s", res.Trip, want)
	}
}

func TestAnalyze_DoesNotPersist(t *testing.T) {
	f := newFixture(t)
	f.svc.Analyze("I need a flight to Paris", nil)
	saved, err := f.store.List(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(saved) != 0 || f.events.count(model.EventTypeTurn) != 0 {
		t.Error("Analyze must not save or publish")
	}
}

func TestTeams(t *testing.T) {
	teams := newFixture(t).svc.Teams()
	if len(teams) != len(model.AllTeams) {
		t.Fatalf("len = %d", len(teams))
	}
	if teams[0].Name != "Lisa Thompson" {
		t.Errorf("first = %+v", teams[0])
	}
}

func TestHandoffPreview(t *testing.T) {
	m := newFixture(t).svc.Handoff(model.TeamCustomerService, model.TeamHotelAccommodations, "hotel in Lisbon")
	if m.ToConsultant.Name != "Marcus Rodriguez" || !strings.HasSuffix(m.TransferAnnouncement, "You're in great hands.") {
		t.Errorf("Handoff() = %+v", m)
	}
}
