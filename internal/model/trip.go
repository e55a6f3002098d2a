package model

// TripParams are trip details extracted from user text. They are passed
// through to handoff messages and never validated.
type TripParams struct {
	Origin        string `json:"origin,omitempty"`
	Destination   string `json:"destination,omitempty"`
	City          string `json:"city,omitempty"`
	DepartureDate string `json:"departureDate,omitempty"`
	ReturnDate    string `json:"returnDate,omitempty"`
	CheckIn       string `json:"checkIn,omitempty"`
	CheckOut      string `json:"checkOut,omitempty"`
	Passengers    int    `json:"passengers,omitempty"`
	Guests        int    `json:"guests,omitempty"`
	Rooms         int    `json:"rooms,omitempty"`
	CabinClass    string `json:"cabinClass,omitempty"`
}

// IsZero reports whether no parameter is set.
func (p TripParams) IsZero() bool {
	return p == TripParams{}
}
