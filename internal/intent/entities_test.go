package intent

import (
	"testing"
	"time"

	"github.com/capitalize-ai/travel-concierge/internal/model"
)

func TestExtractTripAt(t *testing.T) {
	now := time.Date(2026, time.January, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input string
		want  model.TripParams
	}{
		{
			name:  "flight with route, date, passengers and cabin",
			input: "I need a flight from New York to Paris on June 15 for 2 passengers in business class",
			want: model.TripParams{
				Origin:        "New York",
				Destination:   "Paris",
				City:          "Paris",
				DepartureDate: "2026-06-15",
				CheckIn:       "2026-06-15",
				Passengers:    2,
				Guests:        2,
				CabinClass:    "Business",
			},
		},
		{
			name:  "hotel stay computed from nights",
			input: "Hotel in Barcelona from 2026-07-01 for 5 nights, 2 guests",
			want: model.TripParams{
				City:          "Barcelona",
				DepartureDate: "2026-07-01",
				CheckIn:       "2026-07-01",
				CheckOut:      "2026-07-06",
				Guests:        2,
			},
		},
		{
			name:  "portuguese route",
			input: "quero um voo de São Paulo para Lisboa em 10 de março",
			want: model.TripParams{
				Origin:        "São Paulo",
				Destination:   "Lisbon",
				City:          "Lisbon",
				DepartureDate: "2026-03-10",
				CheckIn:       "2026-03-10",
			},
		},
		{
			name:  "lower-case aliases",
			input: "fly from nyc to london tomorrow",
			want: model.TripParams{
				Origin:        "New York",
				Destination:   "London",
				City:          "London",
				DepartureDate: "2026-01-11",
				CheckIn:       "2026-01-11",
			},
		},
		{
			name:  "past date rolls to next year",
			input: "a room in Rome on January 2",
			want: model.TripParams{
				City:          "Rome",
				DepartureDate: "2027-01-02",
				CheckIn:       "2027-01-02",
			},
		},
		{
			name:  "round trip dates",
			input: "to Tokyo 2026-04-01 returning 2026-04-10, three adults",
			want: model.TripParams{
				Destination:   "Tokyo",
				City:          "Tokyo",
				DepartureDate: "2026-04-01",
				ReturnDate:    "2026-04-10",
				CheckIn:       "2026-04-01",
				CheckOut:      "2026-04-10",
				Passengers:    3,
				Guests:        3,
			},
		},
		{
			name:  "month name is not a city",
			input: "Something in June",
			want:  model.TripParams{},
		},
		{
			name:  "nothing to extract",
			input: "hello there",
			want:  model.TripParams{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractTripAt(tt.input, now)
			if got != tt.want {
				t.Errorf("ExtractTripAt(%q)\n got  %+v\n want %+v", tt.input, got, tt.want)
			}
		})
	}
}
