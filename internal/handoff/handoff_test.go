package handoff

import (
	"regexp"
	"strings"
	"testing"

	"github.com/capitalize-ai/travel-concierge/internal/intent"
	"github.com/capitalize-ai/travel-concierge/internal/model"
)

func TestConsultantInfo(t *testing.T) {
	tests := []struct {
		team  model.TeamType
		name  string
		title string
		emoji string
	}{
		{model.TeamCustomerService, "Lisa Thompson", "Customer Experience Manager", "🎧"},
		{model.TeamFlightOperations, "Sarah Chen", "Senior Flight Operations Specialist", "✈️"},
		{model.TeamHotelAccommodations, "Marcus Rodriguez", "Hotel & Accommodations Advisor", "🏨"},
		{model.TeamPaymentBilling, "David Park", "Payment & Billing Specialist", "💳"},
		{model.TeamVisaDocumentation, "Sophia Nguyen", "Immigration & Documentation Consultant", "📄"},
		{model.TeamAccessibilityServices, "Nina Davis", "Accessibility & Special Needs Coordinator", "♿"},
		{model.TeamEmergencyResponse, "Captain Mike Johnson", "Emergency Response Coordinator", "🚨"},
		{model.TeamLegalCompliance, "Dr. Emily Watson", "Travel Law & Compliance Consultant", "⚖️"},
		{model.TeamTravelInsurance, "Robert Martinez", "Travel Insurance Advisor", "🛡️"},
		{model.TeamCarRental, "James Anderson", "Ground Transportation Specialist", "🚗"},
		{model.TeamLoyaltyRewards, "Amanda Foster", "Loyalty & Rewards Manager", "🎁"},
		{model.TeamTechnicalSupport, "Alex Kumar", "Technical Support Specialist", "💻"},
	}

	for _, tt := range tests {
		t.Run(string(tt.team), func(t *testing.T) {
			c := ConsultantInfo(tt.team)
			if c.Team != tt.team || c.Name != tt.name || c.Title != tt.title || c.Emoji != tt.emoji {
				t.Errorf("ConsultantInfo(%q) = %+v", tt.team, c)
			}
		})
	}
}

func TestConsultantInfo_Bijective(t *testing.T) {
	names := make(map[string]model.TeamType)
	for _, team := range model.AllTeams {
		c := ConsultantInfo(team)
		if other, dup := names[c.Name]; dup {
			t.Errorf("%s fronts both %s and %s", c.Name, other, team)
		}
		names[c.Name] = team
		if ConsultantInfo(team) != c {
			t.Errorf("ConsultantInfo(%q) not deterministic", team)
		}
	}
	if len(names) != len(model.AllTeams) {
		t.Errorf("got %d personas for %d teams", len(names), len(model.AllTeams))
	}
}

func TestConsultantInfo_UnknownTeam(t *testing.T) {
	for _, team := range []model.TeamType{model.TeamNone, "space-tourism"} {
		if got := ConsultantInfo(team); got.Name != "Lisa Thompson" {
			t.Errorf("ConsultantInfo(%q).Name = %q, want Lisa Thompson", team, got.Name)
		}
	}
}

func TestRouter_Team(t *testing.T) {
	tests := []struct {
		name   string
		topics []intent.Topic
		want   model.TeamType
	}{
		{"none", nil, model.TeamCustomerService},
		{"unmapped only", []intent.Topic{intent.TopicPricing, intent.TopicBeach}, model.TeamCustomerService},
		{"flights", []intent.Topic{intent.TopicFlights}, model.TeamFlightOperations},
		{"baggage", []intent.Topic{intent.TopicBaggage}, model.TeamFlightOperations},
		{"refund", []intent.Topic{intent.TopicRefund}, model.TeamPaymentBilling},
		{"dietary", []intent.Topic{intent.TopicDietary}, model.TeamAccessibilityServices},
		{"flight over hotel", []intent.Topic{intent.TopicHotels, intent.TopicFlights}, model.TeamFlightOperations},
		{"emergency over everything", []intent.Topic{intent.TopicFlights, intent.TopicPayment, intent.TopicEmergency}, model.TeamEmergencyResponse},
		{"accessibility over payment", []intent.Topic{intent.TopicPayment, intent.TopicSpecialAssistance}, model.TeamAccessibilityServices},
		{"payment over visa", []intent.Topic{intent.TopicVisa, intent.TopicPayment}, model.TeamPaymentBilling},
		{"visa over flights", []intent.Topic{intent.TopicFlights, intent.TopicVisa}, model.TeamVisaDocumentation},
		{"hotel over car", []intent.Topic{intent.TopicCarRental, intent.TopicHotels}, model.TeamHotelAccommodations},
		{"legal over insurance", []intent.Topic{intent.TopicInsurance, intent.TopicLegal}, model.TeamLegalCompliance},
		{"loyalty over tech", []intent.Topic{intent.TopicTechnicalSupport, intent.TopicLoyaltyRewards}, model.TeamLoyaltyRewards},
	}

	r := NewRouter(DefaultTables())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Team(tt.topics); got != tt.want {
				t.Errorf("Team(%v) = %q, want %q", tt.topics, got, tt.want)
			}
		})
	}
}

func TestRouter_CustomTables(t *testing.T) {
	tables := DefaultTables()
	tables.Precedence = []model.TeamType{model.TeamHotelAccommodations, model.TeamFlightOperations}

	r := NewRouter(tables)
	got := r.Team([]intent.Topic{intent.TopicFlights, intent.TopicHotels})
	if got != model.TeamHotelAccommodations {
		t.Errorf("Team() = %q, want hotel-accommodations", got)
	}
	// The default router is unaffected.
	if got := TeamFor([]intent.Topic{intent.TopicFlights, intent.TopicHotels}); got != model.TeamFlightOperations {
		t.Errorf("TeamFor() = %q, want flight-operations", got)
	}
}

func TestNeedsHandoff(t *testing.T) {
	tests := []struct {
		name       string
		prev, next model.TeamType
		want       bool
	}{
		{"first specialist", model.TeamNone, model.TeamFlightOperations, true},
		{"first customer service", model.TeamNone, model.TeamCustomerService, true},
		{"same team", model.TeamFlightOperations, model.TeamFlightOperations, false},
		{"different team", model.TeamFlightOperations, model.TeamHotelAccommodations, true},
		{"unknown next normalizes", model.TeamCustomerService, "mystery", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NeedsHandoff(tt.prev, tt.next); got != tt.want {
				t.Errorf("NeedsHandoff(%q, %q) = %v, want %v", tt.prev, tt.next, got, tt.want)
			}
		})
	}
}

func TestNeedsHandoff_Symmetric(t *testing.T) {
	for _, a := range model.AllTeams {
		for _, b := range model.AllTeams {
			if NeedsHandoff(a, b) != NeedsHandoff(b, a) {
				t.Errorf("NeedsHandoff(%q, %q) != NeedsHandoff(%q, %q)", a, b, b, a)
			}
			if (a == b) == NeedsHandoff(a, b) {
				t.Errorf("NeedsHandoff(%q, %q) = %v", a, b, NeedsHandoff(a, b))
			}
		}
	}
}

func assistant(team model.TeamType) model.ConversationMessage {
	c := ConsultantInfo(team)
	return model.ConversationMessage{Role: model.RoleAssistant, Content: "ok", Consultant: &model.ConsultantRef{Name: c.Name, Team: team}}
}

func TestPreviousConsultantTeam(t *testing.T) {
	user := model.ConversationMessage{Role: model.RoleUser, Content: "hi"}
	blank := model.ConversationMessage{Role: model.RoleAssistant, Content: "ok", Consultant: &model.ConsultantRef{Name: "?"}}

	tests := []struct {
		name    string
		history []model.ConversationMessage
		want    model.TeamType
	}{
		{"empty", nil, model.TeamNone},
		{"users only", []model.ConversationMessage{user, user}, model.TeamNone},
		{"single", []model.ConversationMessage{user, assistant(model.TeamFlightOperations)}, model.TeamFlightOperations},
		{"newest wins", []model.ConversationMessage{
			assistant(model.TeamFlightOperations), user, assistant(model.TeamHotelAccommodations), user,
		}, model.TeamHotelAccommodations},
		{"skips blank team", []model.ConversationMessage{
			assistant(model.TeamPaymentBilling), user, blank, user,
		}, model.TeamPaymentBilling},
		{"skips missing consultant", []model.ConversationMessage{
			assistant(model.TeamVisaDocumentation), {Role: model.RoleAssistant, Content: "legacy"},
		}, model.TeamVisaDocumentation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PreviousConsultantTeam(tt.history); got != tt.want {
				t.Errorf("PreviousConsultantTeam() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGenerateMessage_Announcement(t *testing.T) {
	warm := regexp.MustCompile(`Perfect|Wonderful|Great|Excellent`)
	hotel := regexp.MustCompile(`great hands|wonderful`)

	triggers := []string{"", "I need a flight", "book me a hotel in Paris", "refund please", strings.Repeat("long ", 400)}
	for _, from := range model.AllTeams {
		for _, to := range model.AllTeams {
			for _, trigger := range triggers {
				m := GenerateMessage(from, to, trigger, nil)
				dst := ConsultantInfo(to)

				if !strings.Contains(m.TransferAnnouncement, dst.Name) || !strings.Contains(m.TransferAnnouncement, dst.Emoji) {
					t.Errorf("%s→%s announcement missing persona: %q", from, to, m.TransferAnnouncement)
				}
				if from == model.TeamCustomerService && !warm.MatchString(m.TransferAnnouncement) {
					t.Errorf("%s→%s announcement not warm: %q", from, to, m.TransferAnnouncement)
				}
				if to == model.TeamHotelAccommodations && !hotel.MatchString(m.TransferAnnouncement) {
					t.Errorf("%s→%s announcement: %q", from, to, m.TransferAnnouncement)
				}
				if !strings.Contains(m.Introduction, dst.Name) || !strings.Contains(m.Introduction, dst.Title) {
					t.Errorf("%s introduction missing persona: %q", to, m.Introduction)
				}
			}
		}
	}
}

func TestGenerateMessage_Deterministic(t *testing.T) {
	params := &model.TripParams{Origin: "NYC", Destination: "London", DepartureDate: "2026-06-15"}
	a := GenerateMessage(model.TeamCustomerService, model.TeamFlightOperations, "flight to London", params)
	for i := 0; i < 20; i++ {
		if b := GenerateMessage(model.TeamCustomerService, model.TeamFlightOperations, "flight to London", params); b != a {
			t.Fatalf("run %d differs:\n%+v\n%+v", i, a, b)
		}
	}
	if a.FromConsultant.Name != "Lisa Thompson" || a.ToConsultant.Name != "Sarah Chen" {
		t.Errorf("consultants = %q → %q", a.FromConsultant.Name, a.ToConsultant.Name)
	}
	if a.FromTeam != model.TeamCustomerService || a.ToTeam != model.TeamFlightOperations {
		t.Errorf("teams = %q → %q", a.FromTeam, a.ToTeam)
	}
}

func TestGenerateMessage_Introduction(t *testing.T) {
	tests := []struct {
		name   string
		to     model.TeamType
		params *model.TripParams
		want   []string
	}{
		{"flight greeting", model.TeamFlightOperations, nil, []string{"Hi!", "Sarah Chen"}},
		{"flight route", model.TeamFlightOperations, &model.TripParams{Origin: "New York", Destination: "Paris"}, []string{"New York", "Paris"}},
		{"hotel city", model.TeamHotelAccommodations, &model.TripParams{City: "São Paulo"}, []string{"🏨", "São Paulo"}},
		{"hotel destination fallback", model.TeamHotelAccommodations, &model.TripParams{Destination: "Rome"}, []string{"Rome"}},
		{"lisa", model.TeamCustomerService, nil, []string{"Welcome", "Lisa Thompson"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := GenerateMessage(model.TeamCustomerService, tt.to, "help", tt.params)
			for _, w := range tt.want {
				if !strings.Contains(m.Introduction, w) {
					t.Errorf("Introduction = %q, missing %q", m.Introduction, w)
				}
			}
		})
	}
}

func TestGenerateMessage_FlightContext(t *testing.T) {
	tests := []struct {
		name    string
		params  *model.TripParams
		want    []string
		notWant []string
	}{
		{
			name:    "one way defaults",
			params:  &model.TripParams{Origin: "NYC", Destination: "London", DepartureDate: "2026-06-15"},
			want:    []string{"NYC", "London", "Jun 15", "Passengers: 1", "Economy"},
			notWant: []string{"Return"},
		},
		{
			name:   "round trip",
			params: &model.TripParams{Origin: "NYC", Destination: "Tokyo", DepartureDate: "2026-06-15", ReturnDate: "2026-06-22", Passengers: 3, CabinClass: "Business"},
			want:   []string{"Jun 15", "Return: Jun 22", "Passengers: 3", "Business"},
		},
		{
			name:   "unparseable date verbatim",
			params: &model.TripParams{Origin: "NYC", Destination: "Paris", DepartureDate: "next Friday"},
			want:   []string{"next Friday"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := GenerateMessage(model.TeamCustomerService, model.TeamFlightOperations, "", tt.params)
			for _, w := range tt.want {
				if !strings.Contains(m.Context, w) {
					t.Errorf("Context = %q, missing %q", m.Context, w)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(m.Context, w) {
					t.Errorf("Context = %q, unexpected %q", m.Context, w)
				}
			}
		})
	}
}

func TestGenerateMessage_HotelContext(t *testing.T) {
	tests := []struct {
		name    string
		params  *model.TripParams
		want    []string
		notWant []string
	}{
		{
			name:   "four nights",
			params: &model.TripParams{City: "Paris", CheckIn: "2026-05-01", CheckOut: "2026-05-05", Guests: 2},
			want:   []string{"Paris", "May 1", "May 5", "4 nights", "Guests: 2", "Rooms: 1"},
		},
		{
			name:   "week",
			params: &model.TripParams{City: "Rome", CheckIn: "2026-07-01", CheckOut: "2026-07-08"},
			want:   []string{"7 nights"},
		},
		{
			name:    "single night",
			params:  &model.TripParams{City: "Lisbon", CheckIn: "2026-03-10", CheckOut: "2026-03-11"},
			want:    []string{"1 night"},
			notWant: []string{"nights"},
		},
		{
			name:   "guests floor",
			params: &model.TripParams{City: "Madrid", CheckIn: "2026-03-10", CheckOut: "2026-03-12", Guests: -2, Rooms: 2},
			want:   []string{"Guests: 1", "Rooms: 2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := GenerateMessage(model.TeamFlightOperations, model.TeamHotelAccommodations, "", tt.params)
			for _, w := range tt.want {
				if !strings.Contains(m.Context, w) {
					t.Errorf("Context = %q, missing %q", m.Context, w)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(m.Context, w) {
					t.Errorf("Context = %q, unexpected %q", m.Context, w)
				}
			}
		})
	}
}

func TestGenerateMessage_NoContext(t *testing.T) {
	tests := []struct {
		name   string
		params *model.TripParams
	}{
		{"nil", nil},
		{"empty", &model.TripParams{}},
		{"partial flight", &model.TripParams{Origin: "NYC", Destination: "London"}},
		{"partial hotel", &model.TripParams{City: "Paris", CheckIn: "2026-05-01"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, to := range []model.TeamType{model.TeamFlightOperations, model.TeamHotelAccommodations} {
				if m := GenerateMessage(model.TeamCustomerService, to, "", tt.params); m.Context != "" {
					t.Errorf("%s Context = %q, want empty", to, m.Context)
				}
			}
		})
	}
}

// A conversation moving customer service → flights → hotels → payment keeps
// handing off and never hands off to the team already in charge.
func TestHandoffChain(t *testing.T) {
	turns := []struct {
		message string
		want    model.TeamType
	}{
		{"Hello!", model.TeamCustomerService},
		{"I need a flight from New York to Paris", model.TeamFlightOperations},
		{"Is there a window seat on that flight?", model.TeamFlightOperations},
		{"Now I need a hotel in Paris for 3 nights", model.TeamHotelAccommodations},
		{"How do I pay with my credit card?", model.TeamPaymentBilling},
	}

	var history []model.ConversationMessage
	var handoffs int
	for i, turn := range turns {
		res := intent.Analyze(turn.message, history)
		next := TeamFor(res.Topics)
		if next != turn.want {
			t.Fatalf("turn %d %q routed to %q, want %q (topics %v)", i, turn.message, next, turn.want, res.Topics)
		}

		prev := PreviousConsultantTeam(history)
		if NeedsHandoff(prev, next) {
			handoffs++
			m := GenerateMessage(prev, next, turn.message, nil)
			if !strings.Contains(m.TransferAnnouncement, ConsultantInfo(next).Name) {
				t.Errorf("turn %d announcement %q", i, m.TransferAnnouncement)
			}
		} else if prev != next {
			t.Errorf("turn %d: no handoff from %q to %q", i, prev, next)
		}

		history = append(history, model.ConversationMessage{Role: model.RoleUser, Content: turn.message}, assistant(next))
	}

	if handoffs != 4 {
		t.Errorf("handoffs = %d, want 4", handoffs)
	}
}
