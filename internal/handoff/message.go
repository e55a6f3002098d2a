package handoff

import (
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"github.com/capitalize-ai/travel-concierge/internal/model"
)

const dateLayout = "2006-01-02"

// Message is everything the client needs to render a consultant transfer.
type Message struct {
	FromTeam             model.TeamType `json:"fromTeam"`
	ToTeam               model.TeamType `json:"toTeam"`
	FromConsultant       Consultant     `json:"fromConsultant"`
	ToConsultant         Consultant     `json:"toConsultant"`
	TransferAnnouncement string         `json:"transferAnnouncement"`
	Introduction         string         `json:"introduction"`
	Context              string         `json:"context,omitempty"`
}

// GenerateMessage renders a transfer using the default tables.
func GenerateMessage(from, to model.TeamType, trigger string, params *model.TripParams) Message {
	return defaultRouter.Message(from, to, trigger, params)
}

// Message renders the transfer from one team to another. The output depends
// only on the arguments. params may be nil.
func (r *Router) Message(from, to model.TeamType, trigger string, params *model.TripParams) Message {
	var p model.TripParams
	if params != nil {
		p = *params
	}
	src := r.ConsultantInfo(model.ParseTeam(string(from)))
	dst := r.ConsultantInfo(model.ParseTeam(string(to)))
	seed := variantSeed(src.Team, dst.Team, trigger)

	return Message{
		FromTeam:             src.Team,
		ToTeam:               dst.Team,
		FromConsultant:       src,
		ToConsultant:         dst,
		TransferAnnouncement: announcement(src, dst, seed),
		Introduction:         introduction(dst, p, seed),
		Context:              confirmation(dst.Team, p),
	}
}

func variantSeed(from, to model.TeamType, trigger string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(from))
	h.Write([]byte{0})
	h.Write([]byte(to))
	h.Write([]byte{0})
	h.Write([]byte(trigger))
	return h.Sum32()
}

func pick(seed uint32, variants []string) string {
	return variants[seed%uint32(len(variants))]
}

func announcement(src, dst Consultant, seed uint32) string {
	who := fmt.Sprintf("%s %s", dst.Name, dst.Emoji)

	if src.Team == model.TeamCustomerService {
		line := pick(seed, []string{
			fmt.Sprintf("Perfect! Let me connect you with %s, our %s.", who, dst.Title),
			fmt.Sprintf("Wonderful! I'm bringing in %s, our %s, to help you with this.", who, dst.Title),
			fmt.Sprintf("Great! %s is our %s and the best person for this. Connecting you now.", who, dst.Title),
			fmt.Sprintf("Excellent! I'll hand you over to %s, our %s.", who, dst.Title),
		})
		if dst.Team == model.TeamHotelAccommodations {
			line += " You're in great hands."
		}
		return line
	}
	if dst.Team == model.TeamHotelAccommodations {
		return pick(seed, []string{
			fmt.Sprintf("You're in great hands with %s, who will find you the right place to stay.", who),
			fmt.Sprintf("I'm passing you to %s, who does wonderful work with accommodations.", who),
		})
	}
	return pick(seed, []string{
		fmt.Sprintf("%s here. I'm handing you over to %s, our %s, who can take it from here.", src.Name, who, dst.Title),
		fmt.Sprintf("This is a job for %s, our %s. Transferring you now.", who, dst.Title),
		fmt.Sprintf("Let me bring in %s from our %s team.", who, teamLabel(dst.Team)),
	})
}

func introduction(c Consultant, p model.TripParams, seed uint32) string {
	var b strings.Builder

	switch c.Team {
	case model.TeamCustomerService:
		fmt.Fprintf(&b, "Welcome! I'm %s, your %s %s. How can I make your trip better today?", c.Name, c.Title, c.Emoji)

	case model.TeamFlightOperations:
		fmt.Fprintf(&b, "Hi! I'm %s, %s %s.", c.Name, c.Title, c.Emoji)
		switch {
		case p.Origin != "" && p.Destination != "":
			fmt.Fprintf(&b, " I see you're looking at flights from %s to %s. Let me find you the best options.", p.Origin, p.Destination)
		case p.Destination != "":
			fmt.Fprintf(&b, " Let's get you to %s.", p.Destination)
		default:
			b.WriteString(" Where would you like to fly?")
		}

	case model.TeamHotelAccommodations:
		fmt.Fprintf(&b, "Hello! I'm %s, %s %s.", c.Name, c.Title, c.Emoji)
		if city := firstNonEmpty(p.City, p.Destination); city != "" {
			fmt.Fprintf(&b, " Let's find you the perfect place to stay in %s.", city)
		} else {
			b.WriteString(" Tell me where you'd like to stay and I'll take care of the rest.")
		}

	case model.TeamEmergencyResponse:
		fmt.Fprintf(&b, "%s %s, %s. I'm here and I'll stay with you until this is resolved.", c.Emoji, c.Name, c.Title)

	case model.TeamAccessibilityServices:
		fmt.Fprintf(&b, "Hi, I'm %s, %s %s. Tell me what you need and I'll make sure everything is arranged.", c.Name, c.Title, c.Emoji)

	default:
		opener := pick(seed>>8, []string{"Hello!", "Hi there!"})
		fmt.Fprintf(&b, "%s I'm %s, %s %s.", opener, c.Name, c.Title, c.Emoji)
		if p.Destination != "" {
			fmt.Fprintf(&b, " I'll help you with your trip to %s.", p.Destination)
		} else {
			b.WriteString(" How can I help?")
		}
	}
	return b.String()
}

// confirmation renders the trip summary shown after a transfer. Flight
// details need origin, destination and departure date; hotel details need
// city and both stay dates. Anything less renders nothing.
func confirmation(to model.TeamType, p model.TripParams) string {
	flight, hotel := flightContext(p), hotelContext(p)
	if to == model.TeamHotelAccommodations {
		return firstNonEmpty(hotel, flight)
	}
	return firstNonEmpty(flight, hotel)
}

func flightContext(p model.TripParams) string {
	if p.Origin == "" || p.Destination == "" || p.DepartureDate == "" {
		return ""
	}
	passengers := p.Passengers
	if passengers <= 0 {
		passengers = 1
	}
	cabin := p.CabinClass
	if cabin == "" {
		cabin = "Economy"
	}

	var b strings.Builder
	b.WriteString("✈️ Flight details:\n")
	fmt.Fprintf(&b, "• Route: %s → %s\n", p.Origin, p.Destination)
	fmt.Fprintf(&b, "• Departure: %s\n", displayDate(p.DepartureDate))
	if p.ReturnDate != "" {
		fmt.Fprintf(&b, "• Return: %s\n", displayDate(p.ReturnDate))
	}
	fmt.Fprintf(&b, "• Passengers: %d\n", passengers)
	fmt.Fprintf(&b, "• Class: %s", cabin)
	return b.String()
}

func hotelContext(p model.TripParams) string {
	if p.City == "" || p.CheckIn == "" || p.CheckOut == "" {
		return ""
	}
	guests := p.Guests
	if guests <= 0 {
		guests = 1
	}
	rooms := p.Rooms
	if rooms <= 0 {
		rooms = 1
	}

	var b strings.Builder
	b.WriteString("🏨 Stay details:\n")
	fmt.Fprintf(&b, "• City: %s\n", p.City)
	fmt.Fprintf(&b, "• Check-in: %s\n", displayDate(p.CheckIn))
	fmt.Fprintf(&b, "• Check-out: %s", displayDate(p.CheckOut))
	if n := nights(p.CheckIn, p.CheckOut); n == 1 {
		b.WriteString(" (1 night)")
	} else if n > 1 {
		fmt.Fprintf(&b, " (%d nights)", n)
	}
	fmt.Fprintf(&b, "\n• Guests: %d\n", guests)
	fmt.Fprintf(&b, "• Rooms: %d", rooms)
	return b.String()
}

// displayDate renders an ISO date as "Jan 2" and returns anything else as is.
func displayDate(s string) string {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return s
	}
	return t.Format("Jan 2")
}

func nights(checkIn, checkOut string) int {
	in, err := time.Parse(dateLayout, checkIn)
	if err != nil {
		return 0
	}
	out, err := time.Parse(dateLayout, checkOut)
	if err != nil {
		return 0
	}
	return int(out.Sub(in).Hours() / 24)
}

func teamLabel(t model.TeamType) string {
	return strings.ReplaceAll(string(t), "-", " ")
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
