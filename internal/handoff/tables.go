// Package handoff decides which specialist team owns a turn and renders the
// messages used when a conversation moves between consultants.
package handoff

import (
	"github.com/capitalize-ai/travel-concierge/internal/intent"
	"github.com/capitalize-ai/travel-concierge/internal/model"
)

// Consultant is the persona fronting a team.
type Consultant struct {
	Team  model.TeamType `json:"team"`
	Name  string         `json:"name"`
	Title string         `json:"title"`
	Emoji string         `json:"emoji"`
}

// Ref returns the reference stored on assistant messages.
func (c Consultant) Ref() model.ConsultantRef {
	return model.ConsultantRef{Name: c.Name, Team: c.Team}
}

// Tables is the static routing configuration of a Router.
type Tables struct {
	Consultants map[model.TeamType]Consultant
	TopicTeams  map[intent.Topic]model.TeamType
	// Precedence orders teams from most to least important. When a message
	// maps to several teams the earliest one wins.
	Precedence []model.TeamType
}

// DefaultTables returns the production persona and routing tables. Each call
// returns fresh maps.
func DefaultTables() Tables {
	return Tables{
		Consultants: map[model.TeamType]Consultant{
			model.TeamCustomerService:       {model.TeamCustomerService, "Lisa Thompson", "Customer Experience Manager", "🎧"},
			model.TeamFlightOperations:      {model.TeamFlightOperations, "Sarah Chen", "Senior Flight Operations Specialist", "✈️"},
			model.TeamHotelAccommodations:   {model.TeamHotelAccommodations, "Marcus Rodriguez", "Hotel & Accommodations Advisor", "🏨"},
			model.TeamPaymentBilling:        {model.TeamPaymentBilling, "David Park", "Payment & Billing Specialist", "💳"},
			model.TeamLegalCompliance:       {model.TeamLegalCompliance, "Dr. Emily Watson", "Travel Law & Compliance Consultant", "⚖️"},
			model.TeamTravelInsurance:       {model.TeamTravelInsurance, "Robert Martinez", "Travel Insurance Advisor", "🛡️"},
			model.TeamVisaDocumentation:     {model.TeamVisaDocumentation, "Sophia Nguyen", "Immigration & Documentation Consultant", "📄"},
			model.TeamCarRental:             {model.TeamCarRental, "James Anderson", "Ground Transportation Specialist", "🚗"},
			model.TeamLoyaltyRewards:        {model.TeamLoyaltyRewards, "Amanda Foster", "Loyalty & Rewards Manager", "🎁"},
			model.TeamTechnicalSupport:      {model.TeamTechnicalSupport, "Alex Kumar", "Technical Support Specialist", "💻"},
			model.TeamAccessibilityServices: {model.TeamAccessibilityServices, "Nina Davis", "Accessibility & Special Needs Coordinator", "♿"},
			model.TeamEmergencyResponse:     {model.TeamEmergencyResponse, "Captain Mike Johnson", "Emergency Response Coordinator", "🚨"},
		},
		TopicTeams: map[intent.Topic]model.TeamType{
			intent.TopicFlights:           model.TeamFlightOperations,
			intent.TopicBaggage:           model.TeamFlightOperations,
			intent.TopicHotels:            model.TeamHotelAccommodations,
			intent.TopicCarRental:         model.TeamCarRental,
			intent.TopicPayment:           model.TeamPaymentBilling,
			intent.TopicRefund:            model.TeamPaymentBilling,
			intent.TopicVisa:              model.TeamVisaDocumentation,
			intent.TopicSpecialAssistance: model.TeamAccessibilityServices,
			intent.TopicDietary:           model.TeamAccessibilityServices,
			intent.TopicLoyaltyRewards:    model.TeamLoyaltyRewards,
			intent.TopicInsurance:         model.TeamTravelInsurance,
			intent.TopicEmergency:         model.TeamEmergencyResponse,
			intent.TopicLegal:             model.TeamLegalCompliance,
			intent.TopicTechnicalSupport:  model.TeamTechnicalSupport,
		},
		Precedence: []model.TeamType{
			model.TeamEmergencyResponse,
			model.TeamAccessibilityServices,
			model.TeamPaymentBilling,
			model.TeamVisaDocumentation,
			model.TeamFlightOperations,
			model.TeamLegalCompliance,
			model.TeamTravelInsurance,
			model.TeamHotelAccommodations,
			model.TeamCarRental,
			model.TeamLoyaltyRewards,
			model.TeamTechnicalSupport,
			model.TeamCustomerService,
		},
	}
}
