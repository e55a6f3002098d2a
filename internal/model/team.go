package model

// TeamType is a specialist queue. Each team is fronted by exactly one persona.
type TeamType string

const (
	// TeamNone means no specialist has been engaged yet.
	TeamNone TeamType = ""

	TeamCustomerService       TeamType = "customer-service"
	TeamFlightOperations      TeamType = "flight-operations"
	TeamHotelAccommodations   TeamType = "hotel-accommodations"
	TeamPaymentBilling        TeamType = "payment-billing"
	TeamLegalCompliance       TeamType = "legal-compliance"
	TeamTravelInsurance       TeamType = "travel-insurance"
	TeamVisaDocumentation     TeamType = "visa-documentation"
	TeamCarRental             TeamType = "car-rental"
	TeamLoyaltyRewards        TeamType = "loyalty-rewards"
	TeamTechnicalSupport      TeamType = "technical-support"
	TeamAccessibilityServices TeamType = "accessibility-services"
	TeamEmergencyResponse     TeamType = "emergency-response"
)

// AllTeams lists every team in declaration order.
var AllTeams = []TeamType{
	TeamCustomerService,
	TeamFlightOperations,
	TeamHotelAccommodations,
	TeamPaymentBilling,
	TeamLegalCompliance,
	TeamTravelInsurance,
	TeamVisaDocumentation,
	TeamCarRental,
	TeamLoyaltyRewards,
	TeamTechnicalSupport,
	TeamAccessibilityServices,
	TeamEmergencyResponse,
}

// Valid reports whether t is a known team.
func (t TeamType) Valid() bool {
	switch t {
	case TeamCustomerService, TeamFlightOperations, TeamHotelAccommodations,
		TeamPaymentBilling, TeamLegalCompliance, TeamTravelInsurance,
		TeamVisaDocumentation, TeamCarRental, TeamLoyaltyRewards,
		TeamTechnicalSupport, TeamAccessibilityServices, TeamEmergencyResponse:
		return true
	}
	return false
}

// ParseTeam converts s to a TeamType. Unknown values resolve to
// customer-service so every turn has a responsible team.
func ParseTeam(s string) TeamType {
	t := TeamType(s)
	if t.Valid() {
		return t
	}
	return TeamCustomerService
}
