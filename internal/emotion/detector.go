// Package emotion classifies a single utterance into an emotional state.
package emotion

import (
	"math"
	"strings"
	"time"
	"unicode"
)

// Emotion is a detected emotional state.
type Emotion string

const (
	Urgent             Emotion = "urgent"
	Frustrated         Emotion = "frustrated"
	Worried            Emotion = "worried"
	Confused           Emotion = "confused"
	Excited            Emotion = "excited"
	Satisfied          Emotion = "satisfied"
	Casual             Emotion = "casual"
	Neutral            Emotion = "neutral"
	BusinessUrgency    Emotion = "business_urgency"
	TravelAnxiety      Emotion = "travel_anxiety"
	FirstTimeFlyer     Emotion = "first_time_flyer"
	FamilyStress       Emotion = "family_stress"
	BudgetConcerned    Emotion = "budget_concerned"
	HoneymoonBliss     Emotion = "honeymoon_bliss"
	VacationExcitement Emotion = "vacation_excitement"
)

// Sentiment is the polarity of an utterance.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// Urgency is how quickly the user expects a response.
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// Strategy is the recommended response tone.
type Strategy string

const (
	StrategyReassuring   Strategy = "reassuring"
	StrategyEnthusiastic Strategy = "enthusiastic"
	StrategyProfessional Strategy = "professional"
	StrategyEmpathetic   Strategy = "empathetic"
)

// Result is the outcome of emotion detection.
type Result struct {
	Emotion    Emotion   `json:"emotion"`
	Sentiment  Sentiment `json:"sentiment"`
	Urgency    Urgency   `json:"urgency"`
	Confidence float64   `json:"confidence"`
	Keywords   []string  `json:"keywords,omitempty"`
	Strategy   Strategy  `json:"responseStrategy"`

	typing float64
}

const maxConfidence = 0.95

// Detector classifies utterances using ordered keyword rules. A Detector is
// immutable after construction and safe for concurrent use.
type Detector struct {
	rules []rule
}

// NewDetector creates a detector with the built-in rules.
func NewDetector() *Detector {
	return &Detector{rules: defaultRules()}
}

var defaultDetector = NewDetector()

// Detect classifies text with the default detector.
func Detect(text string) Result {
	return defaultDetector.Detect(text)
}

// Detect classifies text. It never fails: empty or unmatched input yields a
// neutral, low-urgency result.
func (d *Detector) Detect(text string) Result {
	if strings.TrimSpace(text) == "" {
		return neutral()
	}

	intensity := intensityOf(text)

	for _, r := range d.rules {
		var keywords []string
		for _, p := range r.patterns {
			if m := p.FindString(text); m != "" {
				keywords = append(keywords, strings.ToLower(m))
			}
		}
		if len(keywords) == 0 {
			continue
		}

		confidence := r.confidence + float64(len(keywords)-1)*0.05
		if r.emotion == Urgent || r.emotion == Frustrated {
			confidence += float64(intensity) * 0.05
		}

		return Result{
			Emotion:    r.emotion,
			Sentiment:  r.sentiment,
			Urgency:    r.urgency,
			Confidence: round2(math.Min(confidence, maxConfidence)),
			Keywords:   keywords,
			Strategy:   r.strategy,
			typing:     r.typing,
		}
	}

	// Exclamation-heavy text with no other signal reads as excitement.
	if intensity > 0 {
		return Result{
			Emotion:    Excited,
			Sentiment:  SentimentPositive,
			Urgency:    UrgencyLow,
			Confidence: 0.6,
			Strategy:   StrategyEnthusiastic,
			typing:     1.1,
		}
	}

	return neutral()
}

func neutral() Result {
	return Result{
		Emotion:    Neutral,
		Sentiment:  SentimentNeutral,
		Urgency:    UrgencyLow,
		Confidence: 0.5,
		Strategy:   StrategyProfessional,
		typing:     1.0,
	}
}

// intensityOf scores exclamation runs and all-caps shouting, 0 to 2.
func intensityOf(text string) int {
	score := 0
	if strings.Contains(text, "!!") || strings.Count(text, "!") >= 3 {
		score++
	}

	var letters, upper int
	for _, r := range text {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		}
	}
	if letters >= 4 && float64(upper)/float64(letters) >= 0.6 {
		score++
	}
	return score
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// TypingDelay scales a base typing-indicator delay by the detected emotion.
// Urgent users get faster responses, confused users slower ones.
func TypingDelay(base time.Duration, r Result) time.Duration {
	m := r.typing
	if m <= 0 {
		m = 1.0
	}
	return time.Duration(math.Round(float64(base) / m))
}

var empathyMarkers = map[Emotion]string{
	Urgent:             "I understand the urgency.",
	Frustrated:         "I'm really sorry you're experiencing this frustration.",
	Worried:            "I understand your concerns.",
	Confused:           "No worries, let me explain this clearly.",
	Excited:            "That's wonderful!",
	Satisfied:          "I'm glad I could help!",
	Casual:             "Sure thing!",
	Neutral:            "I'd be happy to help.",
	BusinessUrgency:    "I understand this is time-sensitive. Let me find you the fastest options.",
	TravelAnxiety:      "It's completely normal to feel anxious about flying. Let me help ease your concerns.",
	FirstTimeFlyer:     "Congratulations on your first flight! I'll guide you through every step.",
	FamilyStress:       "Traveling with family can be challenging! Let me find family-friendly options.",
	BudgetConcerned:    "Let's find you the best value for your money!",
	HoneymoonBliss:     "Congratulations! Let's plan something truly special.",
	VacationExcitement: "How exciting! Let's make this trip unforgettable!",
}

// EmpathyMarker returns a short phrase acknowledging the emotion.
func EmpathyMarker(e Emotion) string {
	if m, ok := empathyMarkers[e]; ok {
		return m
	}
	return empathyMarkers[Neutral]
}
