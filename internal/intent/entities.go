package intent

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/capitalize-ai/travel-concierge/internal/model"
)

type place struct {
	canonical string
	aliases   []string
}

var places = []place{
	{"New York", []string{"new york", "nyc", "ny", "nova york", "nova iorque", "nueva york"}},
	{"Los Angeles", []string{"los angeles", "lax", "la"}},
	{"Miami", []string{"miami", "mia"}},
	{"Orlando", []string{"orlando", "mco"}},
	{"San Francisco", []string{"san francisco", "sfo", "sf"}},
	{"Chicago", []string{"chicago", "ord"}},
	{"Las Vegas", []string{"las vegas", "vegas"}},
	{"Boston", []string{"boston", "bos"}},
	{"Seattle", []string{"seattle"}},
	{"Paris", []string{"paris", "cdg"}},
	{"London", []string{"london", "lhr", "londres"}},
	{"Rome", []string{"rome", "roma", "fco"}},
	{"Barcelona", []string{"barcelona", "bcn"}},
	{"Madrid", []string{"madrid"}},
	{"Amsterdam", []string{"amsterdam", "ams"}},
	{"Berlin", []string{"berlin", "berlim"}},
	{"Lisbon", []string{"lisbon", "lisboa"}},
	{"Milan", []string{"milan", "milao", "milano"}},
	{"Munich", []string{"munich", "munique", "munchen"}},
	{"Frankfurt", []string{"frankfurt"}},
	{"Vienna", []string{"vienna", "viena", "wien"}},
	{"Prague", []string{"prague", "praga", "praha"}},
	{"Athens", []string{"athens", "atenas"}},
	{"Dublin", []string{"dublin"}},
	{"São Paulo", []string{"sao paulo", "sampa", "gru"}},
	{"Rio de Janeiro", []string{"rio de janeiro", "rio"}},
	{"Salvador", []string{"salvador"}},
	{"Tokyo", []string{"tokyo", "toquio", "tokio"}},
	{"Singapore", []string{"singapore", "singapura", "cingapura"}},
	{"Bangkok", []string{"bangkok"}},
	{"Dubai", []string{"dubai", "dxb"}},
	{"Hong Kong", []string{"hong kong", "hkg"}},
	{"Seoul", []string{"seoul", "seul"}},
	{"Bali", []string{"bali"}},
	{"Cancun", []string{"cancun"}},
	{"Mexico City", []string{"mexico city", "cdmx", "ciudad de mexico"}},
	{"Buenos Aires", []string{"buenos aires"}},
	{"Lima", []string{"lima"}},
	{"Bogota", []string{"bogota"}},
	{"Sydney", []string{"sydney"}},
	{"Toronto", []string{"toronto"}},
	{"Cairo", []string{"cairo"}},
	{"Cape Town", []string{"cape town"}},
}

// knownPlaces returns every single word used in a place alias.
func knownPlaces() []string {
	var out []string
	for _, p := range places {
		for _, a := range p.aliases {
			out = append(out, strings.Fields(a)...)
		}
	}
	return out
}

var aliasIndex = func() map[string]string {
	m := make(map[string]string)
	for _, p := range places {
		for _, a := range p.aliases {
			m[a] = p.canonical
		}
	}
	return m
}()

// isPlace rejects capitalized words that are clearly not places.
func isPlace(raw string) bool {
	n := normalize(raw)
	if n == "" {
		return false
	}
	if _, ok := months[strings.Fields(n)[0]]; ok {
		return false
	}
	return true
}

func firstPlace(re *regexp.Regexp, s string) string {
	for _, m := range re.FindAllStringSubmatch(s, -1) {
		if isPlace(m[1]) {
			return canonicalPlace(m[1])
		}
	}
	return ""
}

// canonicalPlace maps a raw place name to its canonical spelling. Unknown
// names are returned trimmed and unchanged.
func canonicalPlace(raw string) string {
	raw = strings.TrimRight(strings.TrimSpace(raw), ".'-")
	if c, ok := aliasIndex[normalize(raw)]; ok {
		return c
	}
	return raw
}

const placeExpr = `(\p{Lu}[\p{L}'.-]*(?:\s+(?:de\s+|da\s+|do\s+)?\p{Lu}[\p{L}'.-]+)*)`

var (
	fromToRe = regexp.MustCompile(`\b(?:[Ff]rom|[Dd]e|[Ss]aindo de|[Dd]esde)\s+` + placeExpr + `\s+(?:to|para|pra|a|-)\s+` + placeExpr)
	toRe     = regexp.MustCompile(`\b(?:to|para|pra)\s+` + placeExpr)
	inRe     = regexp.MustCompile(`\b(?:in|em|en)\s+` + placeExpr)

	isoDateRe   = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	monthDayRe  = regexp.MustCompile(`\b([a-z]+)\s+(\d{1,2})(?:st|nd|rd|th)?(?:,?\s+(\d{4}))?\b`)
	dayMonthRe  = regexp.MustCompile(`\b(\d{1,2})\s+(?:de\s+)?([a-z]+)(?:\s+(?:de\s+)?(\d{4}))?\b`)
	tomorrowRe  = regexp.MustCompile(`\b(tomorrow|amanha|manana)\b`)
	nextWeekRe  = regexp.MustCompile(`\b(next week|proxima semana)\b`)
	nightsRe    = regexp.MustCompile(`\b(\d+|` + numberWordExpr + `)\s+(?:nights?|noites?|noches?)\b`)
	travelersRe = regexp.MustCompile(`\b(\d+|` + numberWordExpr + `)\s+(?:passengers?|people|persons?|adults?|travell?ers?|pessoas?|adultos?|personas?|viajantes?)\b`)
	guestsRe    = regexp.MustCompile(`\b(\d+|` + numberWordExpr + `)\s+(?:guests?|hospedes|huespedes)\b`)
	roomsRe     = regexp.MustCompile(`\b(\d+|` + numberWordExpr + `)\s+(?:rooms?|quartos?|habitaciones?)\b`)
)

const numberWordExpr = `one|two|three|four|five|six|seven|eight|nine|ten|um|dois|tres|quatro|cinco|dos|cuatro`

var numberWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5, "six": 6,
	"seven": 7, "eight": 8, "nine": 9, "ten": 10,
	"um": 1, "dois": 2, "tres": 3, "quatro": 4, "cinco": 5, "dos": 2, "cuatro": 4,
}

var months = map[string]time.Month{
	"january": time.January, "jan": time.January, "janeiro": time.January, "enero": time.January,
	"february": time.February, "feb": time.February, "fevereiro": time.February, "febrero": time.February,
	"march": time.March, "mar": time.March, "marco": time.March, "marzo": time.March,
	"april": time.April, "apr": time.April, "abril": time.April,
	"may": time.May, "maio": time.May, "mayo": time.May,
	"june": time.June, "jun": time.June, "junho": time.June, "junio": time.June,
	"july": time.July, "jul": time.July, "julho": time.July, "julio": time.July,
	"august": time.August, "aug": time.August, "agosto": time.August,
	"september": time.September, "sep": time.September, "sept": time.September,
	"setembro": time.September, "septiembre": time.September,
	"october": time.October, "oct": time.October, "outubro": time.October, "octubre": time.October,
	"november": time.November, "nov": time.November, "novembro": time.November, "noviembre": time.November,
	"december": time.December, "dec": time.December, "dezembro": time.December, "diciembre": time.December,
}

// ExtractTrip pulls trip parameters out of free text, resolving relative and
// year-less dates against the current time.
func ExtractTrip(message string) model.TripParams {
	return ExtractTripAt(message, time.Now())
}

// ExtractTripAt is ExtractTrip with an explicit reference time. Year-less
// dates that already passed roll over to the next year.
func ExtractTripAt(message string, now time.Time) model.TripParams {
	var p model.TripParams

	for _, m := range fromToRe.FindAllStringSubmatch(message, -1) {
		if isPlace(m[1]) && isPlace(m[2]) {
			p.Origin = canonicalPlace(m[1])
			p.Destination = canonicalPlace(m[2])
			break
		}
	}
	if p.Destination == "" {
		p.Destination = firstPlace(toRe, message)
	}
	p.City = firstPlace(inRe, message)

	folded := fold(message)
	if p.Origin == "" {
		if o, d := lowerFromTo(folded); o != "" && d != "" {
			p.Origin, p.Destination = o, d
		}
	}
	if p.Destination == "" && p.City == "" {
		p.Destination = findPlace(folded)
	}
	if p.City == "" {
		p.City = p.Destination
	}

	dates := extractDates(folded, now)
	if len(dates) > 0 {
		p.DepartureDate = dates[0]
		p.CheckIn = dates[0]
	}
	if len(dates) > 1 {
		p.ReturnDate = dates[1]
		p.CheckOut = dates[1]
	}
	if m := nightsRe.FindStringSubmatch(folded); m != nil && p.CheckIn != "" && p.CheckOut == "" {
		if in, err := time.Parse(dateLayout, p.CheckIn); err == nil {
			p.CheckOut = in.AddDate(0, 0, atoi(m[1])).Format(dateLayout)
		}
	}

	if m := travelersRe.FindStringSubmatch(folded); m != nil {
		p.Passengers = atoi(m[1])
	}
	if m := guestsRe.FindStringSubmatch(folded); m != nil {
		p.Guests = atoi(m[1])
	} else {
		p.Guests = p.Passengers
	}
	if m := roomsRe.FindStringSubmatch(folded); m != nil {
		p.Rooms = atoi(m[1])
	}

	p.CabinClass = cabinClass(folded)
	return p
}

const dateLayout = "2006-01-02"

// findPlace scans lower-case text for a known place alias, preferring the
// earliest and then the longest alias.
func findPlace(folded string) string {
	padded := " " + normalize(folded) + " "
	best, bestAt, bestLen := "", -1, 0
	for alias, canonical := range aliasIndex {
		if len(alias) < 3 {
			continue
		}
		at := strings.Index(padded, " "+alias+" ")
		if at < 0 {
			continue
		}
		if bestAt < 0 || at < bestAt || (at == bestAt && len(alias) > bestLen) {
			best, bestAt, bestLen = canonical, at, len(alias)
		}
	}
	return best
}

// lowerFromTo resolves "from nyc to london" style routes written without
// capitals. Both ends must be known aliases.
func lowerFromTo(folded string) (string, string) {
	tokens := strings.Fields(normalize(folded))
	for i, tok := range tokens {
		if tok != "from" && tok != "de" {
			continue
		}
		for j := i + 2; j < len(tokens) && j <= i+4; j++ {
			switch tokens[j] {
			case "to", "para", "pra", "a":
			default:
				continue
			}
			origin, ok := aliasIndex[strings.Join(tokens[i+1:j], " ")]
			if !ok {
				continue
			}
			if dest := aliasPrefix(tokens[j+1:]); dest != "" {
				return origin, dest
			}
		}
	}
	return "", ""
}

// aliasPrefix returns the place named by the longest alias at the start of
// words.
func aliasPrefix(words []string) string {
	for n := min(3, len(words)); n > 0; n-- {
		if c, ok := aliasIndex[strings.Join(words[:n], " ")]; ok {
			return c
		}
	}
	return ""
}

type foundDate struct {
	at   int
	date string
}

func extractDates(folded string, now time.Time) []string {
	var found []foundDate
	add := func(at int, t time.Time) {
		found = append(found, foundDate{at: at, date: t.Format(dateLayout)})
	}

	for _, m := range isoDateRe.FindAllStringSubmatchIndex(folded, -1) {
		if t, err := time.Parse(dateLayout, folded[m[0]:m[1]]); err == nil {
			add(m[0], t)
		}
	}
	for _, m := range monthDayRe.FindAllStringSubmatchIndex(folded, -1) {
		if t, ok := resolveDate(folded, m[2], m[3], m[4], m[5], m[6], m[7], now); ok {
			add(m[0], t)
		}
	}
	for _, m := range dayMonthRe.FindAllStringSubmatchIndex(folded, -1) {
		if t, ok := resolveDate(folded, m[4], m[5], m[2], m[3], m[6], m[7], now); ok {
			add(m[0], t)
		}
	}
	if loc := tomorrowRe.FindStringIndex(folded); loc != nil {
		add(loc[0], now.AddDate(0, 0, 1))
	}
	if loc := nextWeekRe.FindStringIndex(folded); loc != nil {
		add(loc[0], now.AddDate(0, 0, 7))
	}

	sort.SliceStable(found, func(i, j int) bool { return found[i].at < found[j].at })

	var out []string
	seen := make(map[string]bool)
	for _, f := range found {
		if !seen[f.date] {
			seen[f.date] = true
			out = append(out, f.date)
		}
	}
	return out
}

// resolveDate builds a date from submatch offsets of month, day and year.
// A missing year resolves to the next occurrence on or after now.
func resolveDate(s string, ms, me, ds, de, ys, ye int, now time.Time) (time.Time, bool) {
	month, ok := months[s[ms:me]]
	if !ok {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(s[ds:de])
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, false
	}

	year := now.Year()
	explicit := ys >= 0
	if explicit {
		year, _ = strconv.Atoi(s[ys:ye])
	}

	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day {
		return time.Time{}, false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if !explicit && t.Before(today) {
		t = t.AddDate(1, 0, 0)
	}
	return t, true
}

func cabinClass(folded string) string {
	switch {
	case strings.Contains(folded, "first class"), strings.Contains(folded, "primeira classe"),
		strings.Contains(folded, "primera clase"):
		return "First"
	case strings.Contains(folded, "premium economy"):
		return "Premium Economy"
	case strings.Contains(folded, "business class"), strings.Contains(folded, "executiva"),
		strings.Contains(folded, "ejecutiva"):
		return "Business"
	case strings.Contains(folded, "economy"), strings.Contains(folded, "economica"):
		return "Economy"
	}
	return ""
}

func atoi(s string) int {
	if n, ok := numberWords[s]; ok {
		return n
	}
	n, _ := strconv.Atoi(s)
	return n
}
