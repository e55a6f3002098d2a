// Package intent classifies user messages into intents and topics.
package intent

import (
	"strings"

	"github.com/capitalize-ai/travel-concierge/internal/emotion"
	"github.com/capitalize-ai/travel-concierge/internal/model"
)

// HistoryWindow is the number of trailing history messages consulted.
const HistoryWindow = 10

// maxFollowUpTokens bounds how long a message can be and still inherit the
// topics of an earlier request.
const maxFollowUpTokens = 6

// Result is the outcome of intent analysis.
type Result struct {
	Intent                   Intent    `json:"intent"`
	Confidence               float64   `json:"confidence"`
	Topics                   []Topic   `json:"topics"`
	IsServiceRequest         bool      `json:"isServiceRequest"`
	RequiresPersonalResponse bool      `json:"requiresPersonalResponse"`
	Sentiment                Sentiment `json:"sentiment"`
	FollowUp                 bool      `json:"followUp,omitempty"`
}

// HasTopic reports whether t was detected.
func (r Result) HasTopic(t Topic) bool {
	for _, have := range r.Topics {
		if have == t {
			return true
		}
	}
	return false
}

// TopicStrings returns the topics as plain strings.
func (r Result) TopicStrings() []string {
	out := make([]string, len(r.Topics))
	for i, t := range r.Topics {
		out[i] = string(t)
	}
	return out
}

// Analyzer classifies messages. It holds only immutable tables and is safe
// for concurrent use.
type Analyzer struct {
	topics   []topicRule
	social   socialRules
	vocab    map[string]struct{}
	emotions *emotion.Detector
}

// NewAnalyzer builds an analyzer with the built-in keyword tables.
func NewAnalyzer() *Analyzer {
	a := &Analyzer{
		topics:   defaultTopicRules(),
		social:   defaultSocialRules(),
		vocab:    make(map[string]struct{}),
		emotions: emotion.NewDetector(),
	}

	for _, w := range commonWords {
		a.vocab[stem(w)] = struct{}{}
	}
	for _, c := range knownPlaces() {
		a.vocab[stem(c)] = struct{}{}
	}
	for _, r := range a.topics {
		for w := range r.lex.words {
			a.vocab[stem(w)] = struct{}{}
		}
	}
	for _, l := range []*lexicon{
		a.social.greeting, a.social.gratitude, a.social.farewell,
		a.social.recommendWeak, a.social.bookingNouns,
	} {
		for w := range l.words {
			a.vocab[stem(w)] = struct{}{}
		}
	}
	return a
}

var defaultAnalyzer = NewAnalyzer()

// Analyze classifies message with the default analyzer.
func Analyze(message string, history []model.ConversationMessage) Result {
	return defaultAnalyzer.Analyze(message, history)
}

// Analyze classifies message. Only the last HistoryWindow entries of history
// are read and history is never modified. Analyze never fails: empty or
// unreadable input resolves to general-inquiry.
func (a *Analyzer) Analyze(message string, history []model.ConversationMessage) Result {
	d := newDocument(message)
	if d.empty() || !d.hasLetters() {
		return Result{
			Intent:     GeneralInquiry,
			Confidence: 0.3,
			Topics:     []Topic{},
			Sentiment:  SentimentNeutral,
		}
	}

	if n := len(history); n > HistoryWindow {
		history = history[n-HistoryWindow:]
	}

	res := a.classify(d)

	prior, hasPrior := a.priorRequest(history)
	switch {
	case res.Intent == ServiceRequest && hasPrior && a.social.followUpCue.match(d, nil) != noMatch:
		res.FollowUp = true
	case hasPrior && a.canInherit(d, res):
		res.Intent = prior.Intent
		res.Topics = prior.Topics
		res.Confidence = 0.8
		res.FollowUp = true
	}

	res.Sentiment = a.sentiment(message, d, res.Intent)
	res.IsServiceRequest = res.Intent.IsService()
	res.RequiresPersonalResponse = requiresPersonal(res)
	return res
}

// classify applies the precedence rules to a single message without history.
func (a *Analyzer) classify(d document) Result {
	found := make(map[Topic]bool)
	service, management, style := false, false, false
	fuzzyOnly := true

	for _, r := range a.topics {
		kind := r.lex.match(d, a.vocab)
		if kind == noMatch {
			continue
		}
		found[r.topic] = true
		switch r.kind {
		case kindService:
			service = true
			if kind == exactMatch {
				fuzzyOnly = false
			}
		case kindManagement:
			management = true
		case kindStyle:
			style = true
		}
	}

	if a.social.bookingStatus.match(d, nil) != noMatch ||
		(a.social.manageVerbs.match(d, nil) != noMatch && a.social.bookingNouns.match(d, nil) != noMatch) {
		found[TopicBookingManagement] = true
		management = true
	}

	strongRec := a.social.recommendStrong.match(d, nil) != noMatch
	weakRec := !service && a.social.recommendWeak.match(d, a.vocab) != noMatch
	if strongRec || weakRec {
		found[TopicRecommendation] = true
	}

	res := Result{Intent: GeneralInquiry, Confidence: 0.5}

	switch {
	case management:
		found[TopicBookingManagement] = true
		res.Intent, res.Confidence = BookingManagement, 0.9
	case strongRec:
		res.Intent, res.Confidence = DestinationRecommendation, 0.85
	case weakRec:
		res.Intent, res.Confidence = DestinationRecommendation, 0.8
	case service:
		res.Intent, res.Confidence = ServiceRequest, 0.9
		if fuzzyOnly {
			res.Confidence = 0.75
		}
	case a.isHowAreYou(d):
		res.Intent, res.Confidence = HowAreYou, 0.95
	case a.social.personal.match(d, nil) != noMatch:
		res.Intent, res.Confidence = PersonalQuestion, 0.9
	case a.social.gratitude.match(d, nil) != noMatch:
		res.Intent, res.Confidence = Gratitude, 0.9
	case a.social.farewell.match(d, nil) != noMatch:
		res.Intent, res.Confidence = Farewell, 0.9
	case a.social.greeting.match(d, nil) != noMatch:
		res.Intent, res.Confidence = Greeting, 0.95
	case style:
		found[TopicRecommendation] = true
		res.Intent, res.Confidence = DestinationRecommendation, 0.7
	case isFiller(d):
		res.Intent, res.Confidence = Casual, 0.6
	}

	res.Topics = orderTopics(found)
	return res
}

func (a *Analyzer) isHowAreYou(d document) bool {
	if a.social.howAreYou.match(d, nil) != noMatch {
		return true
	}
	// "Great, yourself?"
	n := len(d.tokens)
	return n > 0 && n <= 3 && d.tokens[n-1] == "yourself"
}

// priorRequest finds the latest user request in history that a short
// follow-up can build on. Short topic-less user messages are skipped; any
// other user message ends the search.
func (a *Analyzer) priorRequest(history []model.ConversationMessage) (Result, bool) {
	for i := len(history) - 1; i >= 0; i-- {
		m := history[i]
		if m.Role != model.RoleUser {
			continue
		}
		d := newDocument(m.Content)
		if d.empty() {
			continue
		}
		r := a.classify(d)
		switch r.Intent {
		case ServiceRequest, BookingManagement:
			return r, true
		case GeneralInquiry, Casual:
			if len(r.Topics) == 0 && len(d.tokens) <= maxFollowUpTokens {
				continue
			}
		}
		return Result{}, false
	}
	return Result{}, false
}

// canInherit reports whether a message is a bare continuation of an earlier
// request, like "for 2 people" or "yes please".
func (a *Analyzer) canInherit(d document, r Result) bool {
	if len(r.Topics) > 0 || len(d.tokens) > maxFollowUpTokens {
		return false
	}
	if r.Intent != GeneralInquiry && r.Intent != Casual {
		return false
	}
	for _, tok := range d.tokens {
		if _, ok := hesitations[tok]; !ok && !isHum(tok) {
			return true
		}
	}
	return false
}

func (a *Analyzer) sentiment(message string, d document, in Intent) Sentiment {
	switch in {
	case HowAreYou, PersonalQuestion:
		return SentimentCurious
	case Gratitude:
		return SentimentPositive
	}

	switch a.emotions.Detect(message).Sentiment {
	case emotion.SentimentNegative:
		return SentimentNegative
	case emotion.SentimentPositive:
		return SentimentPositive
	}

	if strings.Contains(message, "?") || a.social.curious.match(d, nil) != noMatch {
		return SentimentCurious
	}
	return SentimentNeutral
}

func requiresPersonal(r Result) bool {
	switch r.Intent {
	case Greeting, HowAreYou, Gratitude, PersonalQuestion, Farewell, Casual, DestinationRecommendation:
		return true
	}
	if r.HasTopic(TopicSpecialAssistance) || r.HasTopic(TopicEmergency) {
		return true
	}
	return r.Sentiment == SentimentNegative
}

func isFiller(d document) bool {
	if len(d.tokens) > 3 {
		return false
	}
	for _, tok := range d.tokens {
		_, h := hesitations[tok]
		_, a := acknowledgements[tok]
		if !h && !a && !isHum(tok) {
			return false
		}
	}
	return true
}

// isHum matches drawn-out "hmmm" style tokens.
func isHum(tok string) bool {
	return len(tok) >= 2 && strings.Trim(tok, "hm") == "" && strings.HasPrefix(tok, "h")
}

func orderTopics(found map[Topic]bool) []Topic {
	out := make([]Topic, 0, len(found))
	for _, t := range canonicalTopics {
		if found[t] {
			out = append(out, t)
		}
	}
	return out
}
