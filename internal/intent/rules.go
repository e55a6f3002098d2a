package intent

// Intent is the classified purpose of a user message.
type Intent string

const (
	Greeting                  Intent = "greeting"
	HowAreYou                 Intent = "how-are-you"
	Gratitude                 Intent = "gratitude"
	PersonalQuestion          Intent = "personal-question"
	Farewell                  Intent = "farewell"
	ServiceRequest            Intent = "service-request"
	BookingManagement         Intent = "booking-management"
	DestinationRecommendation Intent = "destination-recommendation"
	Casual                    Intent = "casual"
	GeneralInquiry            Intent = "general-inquiry"
)

// AllIntents lists every intent.
var AllIntents = []Intent{
	Greeting, HowAreYou, Gratitude, PersonalQuestion, Farewell,
	ServiceRequest, BookingManagement, DestinationRecommendation,
	Casual, GeneralInquiry,
}

// IsService reports whether the intent asks for a travel service.
func (i Intent) IsService() bool {
	switch i {
	case ServiceRequest, BookingManagement, DestinationRecommendation:
		return true
	case Greeting, HowAreYou, Gratitude, PersonalQuestion, Farewell, Casual, GeneralInquiry:
		return false
	}
	return false
}

// IsSocial reports whether the intent is small talk.
func (i Intent) IsSocial() bool {
	switch i {
	case Greeting, HowAreYou, Gratitude, PersonalQuestion, Farewell, Casual:
		return true
	case ServiceRequest, BookingManagement, DestinationRecommendation, GeneralInquiry:
		return false
	}
	return false
}

// Sentiment is the tone of a user message.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentCurious  Sentiment = "curious"
	SentimentNeutral  Sentiment = "neutral"
)

// Topic is a subject tag attached to a message.
type Topic string

const (
	TopicFlights           Topic = "flights"
	TopicHotels            Topic = "hotels"
	TopicCarRental         Topic = "car-rental"
	TopicPricing           Topic = "pricing"
	TopicPayment           Topic = "payment"
	TopicVisa              Topic = "visa"
	TopicBaggage           Topic = "baggage"
	TopicSpecialAssistance Topic = "special-assistance"
	TopicDietary           Topic = "dietary"
	TopicLoyaltyRewards    Topic = "loyalty-rewards"
	TopicInsurance         Topic = "insurance"
	TopicEmergency         Topic = "emergency"
	TopicLegal             Topic = "legal"
	TopicTechnicalSupport  Topic = "technical-support"
	TopicBookingManagement Topic = "booking-management"
	TopicModification      Topic = "modification"
	TopicCancellation      Topic = "cancellation"
	TopicRefund            Topic = "refund"
	TopicRecommendation    Topic = "recommendation"
	TopicBeach             Topic = "beach"
	TopicCity              Topic = "city"
	TopicRomantic          Topic = "romantic"
	TopicFamily            Topic = "family"
	TopicBudget            Topic = "budget"
	TopicNewYears          Topic = "new-years"
)

type topicKind int

const (
	kindService topicKind = iota
	kindManagement
	kindStyle
)

type topicRule struct {
	topic Topic
	kind  topicKind
	lex   *lexicon
}

// topicRules are listed in canonical topic order; Result.Topics follows it.
// Booking management and recommendation are detected separately.
func defaultTopicRules() []topicRule {
	return []topicRule{
		{TopicFlights, kindService, newLexicon(true,
			"flight", "flights", "fly", "flying", "airline", "airlines", "airfare",
			"plane", "airport", "layover", "nonstop", "boarding", "aereo",
			"voo", "voos", "vuelo", "vuelos", "aviao", "avion",
			"one way", "round trip", "plane ticket", "boarding pass", "passagem aerea")},
		{TopicHotels, kindService, newLexicon(true,
			"hotel", "hotels", "hostel", "motel", "resort", "accommodation",
			"accommodations", "lodging", "airbnb", "room", "suite", "inn",
			"hospedagem", "pousada", "alojamiento", "hospedaje", "habitacion", "quarto",
			"place to stay", "where to stay", "bed and breakfast")},
		{TopicCarRental, kindService, newLexicon(true,
			"car", "cars", "rental", "suv", "taxi", "shuttle", "coche", "carro",
			"rent a car", "car hire", "hire a car", "aluguel de carro", "alquiler de coche")},
		{TopicPricing, kindService, newLexicon(true,
			"price", "prices", "pricing", "cost", "costs", "cheap", "cheaper", "cheapest",
			"affordable", "expensive", "fare", "fares", "deal", "deals", "discount",
			"preco", "precio", "barato", "barata", "caro",
			"how much", "quanto custa", "cuanto cuesta")},
		{TopicPayment, kindService, newLexicon(true,
			"payment", "payments", "pay", "paid", "paying", "charge", "charged",
			"billing", "bill", "invoice", "receipt", "card", "cash", "installment",
			"pagamento", "pago", "cobranca", "fatura", "factura",
			"credit card", "debit card")},
		{TopicVisa, kindService, newLexicon(true,
			"visa", "visas", "passport", "passports", "immigration", "visto",
			"pasaporte", "passaporte",
			"entry requirements", "travel documents", "work permit")},
		{TopicBaggage, kindService, newLexicon(true,
			"baggage", "luggage", "bag", "bags", "suitcase", "suitcases",
			"bagagem", "equipaje", "maleta",
			"carry on", "checked bag", "lost luggage")},
		{TopicSpecialAssistance, kindService, newLexicon(true,
			"wheelchair", "disability", "disabled", "accessibility", "accessible",
			"mobility", "blind", "deaf", "oxygen", "allergy", "allergies", "allergic",
			"special assistance", "special accommodation", "special needs",
			"service animal", "service dog", "medical condition",
			"cadeira de rodas", "silla de ruedas")},
		{TopicDietary, kindService, newLexicon(true,
			"gluten", "vegan", "vegetarian", "kosher", "halal", "dietary", "diet",
			"lactose", "meal", "allergy", "allergies", "allergic",
			"nut allergy", "special meal")},
		{TopicLoyaltyRewards, kindService, newLexicon(true,
			"loyalty", "rewards", "reward", "points", "miles", "redeem",
			"membership", "milhas", "millas", "pontos", "puntos",
			"frequent flyer", "frequent flier", "elite status")},
		{TopicInsurance, kindService, newLexicon(true,
			"insurance", "insured", "coverage", "claim", "seguro",
			"travel protection")},
		{TopicEmergency, kindService, newLexicon(true,
			"emergency", "urgent", "stranded", "stolen", "robbed", "hospital",
			"ambulance", "accident", "evacuation", "emergencia", "urgente",
			"lost my passport", "lost passport", "missed my flight",
			"missed my connection", "medical emergency")},
		{TopicLegal, kindService, newLexicon(true,
			"legal", "lawyer", "lawsuit", "compensation", "regulation",
			"regulations", "compliance", "rights", "liability", "eu261",
			"passenger rights", "consumer protection", "eu 261")},
		{TopicTechnicalSupport, kindService, newLexicon(true,
			"app", "website", "login", "password", "error", "bug", "crash",
			"crashed", "crashing", "glitch", "technical", "account", "reboot",
			"log in", "sign in", "not loading", "won t load", "doesn t work")},
		{TopicModification, kindManagement, newLexicon(true,
			"change", "changed", "changing", "modify", "modification", "reschedule",
			"rebook", "alter", "upgrade", "cancel", "alterar", "cambiar", "remarcar")},
		{TopicCancellation, kindManagement, newLexicon(true,
			"cancel", "cancelled", "canceled", "cancellation", "cancelar",
			"cancelamento", "cancelacion")},
		{TopicRefund, kindManagement, newLexicon(true,
			"refund", "refunds", "refunded", "reembolso", "devolucion", "estorno",
			"money back")},
		{TopicBeach, kindStyle, newLexicon(true,
			"beach", "beaches", "coast", "seaside", "island", "islands", "tropical",
			"caribbean", "praia", "playa")},
		{TopicCity, kindStyle, newLexicon(false,
			"urban", "cities", "metropolis", "nightlife", "museum", "museums", "sightseeing",
			"city break", "city trip", "city getaway")},
		{TopicRomantic, kindStyle, newLexicon(true,
			"romantic", "romance", "honeymoon", "anniversary", "couples", "couple",
			"romantico")},
		{TopicFamily, kindStyle, newLexicon(true,
			"family", "families", "kid", "kids", "children", "child", "toddler", "baby",
			"infant", "familia", "family friendly")},
		{TopicBudget, kindStyle, newLexicon(false,
			"budget", "economical", "budget friendly", "low cost", "on a budget")},
		{TopicNewYears, kindStyle, newLexicon(false,
			"nye", "reveillon", "nochevieja",
			"new year", "new years", "new year s eve", "ano novo", "ano nuevo")},
	}
}

// canonicalTopics fixes the output order of Result.Topics.
var canonicalTopics = []Topic{
	TopicFlights, TopicHotels, TopicCarRental, TopicPricing, TopicPayment,
	TopicVisa, TopicBaggage, TopicSpecialAssistance, TopicDietary,
	TopicLoyaltyRewards, TopicInsurance, TopicEmergency, TopicLegal,
	TopicTechnicalSupport, TopicBookingManagement, TopicModification,
	TopicCancellation, TopicRefund, TopicRecommendation, TopicBeach,
	TopicCity, TopicRomantic, TopicFamily, TopicBudget, TopicNewYears,
}

type socialRules struct {
	greeting  *lexicon
	howAreYou *lexicon
	personal  *lexicon
	gratitude *lexicon
	farewell  *lexicon
	curious   *lexicon

	recommendStrong *lexicon
	recommendWeak   *lexicon

	bookingStatus *lexicon
	manageVerbs   *lexicon
	bookingNouns  *lexicon
	followUpCue   *lexicon
}

func defaultSocialRules() socialRules {
	return socialRules{
		greeting: newLexicon(false,
			"hi", "hello", "hey", "hiya", "howdy", "heya", "hallo", "greetings",
			"hola", "ola", "oi", "sup",
			"good morning", "good afternoon", "good evening", "what s up", "whats up",
			"bom dia", "boa tarde", "boa noite", "buenos dias", "buenas tardes", "buenas noches"),
		howAreYou: newLexicon(false,
			"how are you", "how r u", "how are u", "how are ya", "how you doing",
			"how s it going", "how is it going", "hows it going", "how have you been",
			"how s your day", "how is your day", "how are things",
			"and you", "how about you", "what about you", "and yourself",
			"como vai", "tudo bem", "como estas", "que tal"),
		personal: newLexicon(false,
			"what s your name", "what is your name", "whats your name", "your name",
			"who are you", "who am i talking to", "tell me about yourself",
			"are you a bot", "are you a robot", "are you real", "are you human",
			"are you an ai", "are you ai", "are you a person", "what are you",
			"qual seu nome", "como te llamas", "quien eres"),
		gratitude: newLexicon(false,
			"thanks", "thank", "thx", "ty", "tysm", "thanx", "appreciate",
			"appreciated", "grateful", "obrigado", "obrigada", "gracias", "cheers",
			"appreciate it", "that s helpful", "that helps", "very helpful",
			"so helpful", "that was helpful", "much appreciated"),
		farewell: newLexicon(false,
			"bye", "goodbye", "farewell", "cya", "adios", "tchau", "ciao",
			"see you", "see ya", "talk later", "talk to you later", "have a good day",
			"have a nice day", "good night", "take care", "bye bye", "ate logo",
			"hasta luego"),
		curious: newLexicon(false,
			"curious", "wondering", "option", "options",
			"how does", "how do i", "how can i", "tell me more", "can you tell me",
			"i wonder", "is it possible", "could you explain", "what are my"),
		recommendStrong: newLexicon(false,
			"any ideas", "where should i", "where should we", "where to go",
			"where can i go", "where to travel", "don t know where", "dont know where",
			"recommend a destination", "suggest a destination", "suggest a place",
			"recommend a place", "destination ideas", "travel ideas", "trip ideas",
			"inspire me", "which destination", "what destination",
			"travel somewhere", "go somewhere", "para onde ir", "donde ir"),
		recommendWeak: newLexicon(true,
			"recommend", "recommendation", "recommendations", "suggest",
			"suggestion", "suggestions", "idea", "ideas", "inspiration", "somewhere",
			"vacation", "holiday", "getaway", "recomendar", "recomienda",
			"sugestao", "sugerencia"),
		bookingStatus: newLexicon(false,
			"my booking", "my bookings", "my reservation", "my reservations",
			"my itinerary", "booking status", "reservation status", "check status",
			"check the status", "flight status", "booking reference",
			"booking number", "confirmation number", "confirmation code",
			"minha reserva", "mi reserva"),
		manageVerbs: newLexicon(false,
			"check my", "view my", "show my", "see my", "find my", "manage my",
			"look up my", "where is my", "where s my", "status of my", "access my",
			"pull up my"),
		bookingNouns: newLexicon(false,
			"booking", "reservation", "trip", "itinerary", "ticket", "order",
			"flight", "hotel", "stay", "reserva"),
		followUpCue: newLexicon(false,
			"what about", "how about", "and also", "also", "as well", "e sobre",
			"y que tal"),
	}
}

// hesitations are filler words that never carry a request on their own.
var hesitations = map[string]struct{}{
	"hmm": {}, "hm": {}, "hmmm": {}, "um": {}, "umm": {}, "uh": {}, "eh": {},
	"maybe": {}, "perhaps": {}, "idk": {}, "whatever": {}, "dunno": {},
}

// acknowledgements are short replies that are ambiguous without context.
var acknowledgements = map[string]struct{}{
	"ok": {}, "okay": {}, "k": {}, "kk": {}, "sure": {}, "yes": {}, "yeah": {},
	"yep": {}, "yup": {}, "no": {}, "nope": {}, "nah": {}, "alright": {},
	"cool": {}, "fine": {}, "well": {}, "so": {}, "oh": {}, "ah": {},
	"right": {}, "lol": {}, "sim": {}, "nao": {}, "si": {}, "vale": {},
	"bueno": {},
}
