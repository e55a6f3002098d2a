package emotion

import (
	"sync"
	"testing"
	"time"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		emotion   Emotion
		sentiment Sentiment
		urgency   Urgency
	}{
		{
			name:      "stranded traveller",
			input:     "EMERGENCY!!! I'm stranded at the airport and my flight was cancelled!!!",
			emotion:   Urgent,
			sentiment: SentimentNegative,
			urgency:   UrgencyHigh,
		},
		{
			name:      "calm policy question",
			input:     "What is your baggage policy for international flights?",
			emotion:   Neutral,
			sentiment: SentimentNeutral,
			urgency:   UrgencyLow,
		},
		{
			name:      "frustration",
			input:     "I'm really frustrated, this is the worst service",
			emotion:   Frustrated,
			sentiment: SentimentNegative,
			urgency:   UrgencyHigh,
		},
		{
			name:      "worry",
			input:     "I'm worried about my connection in Frankfurt",
			emotion:   Worried,
			sentiment: SentimentNegative,
			urgency:   UrgencyMedium,
		},
		{
			name:      "excitement",
			input:     "This is amazing!",
			emotion:   Excited,
			sentiment: SentimentPositive,
			urgency:   UrgencyLow,
		},
		{
			name:      "vacation excitement",
			input:     "I'm so excited for this trip",
			emotion:   VacationExcitement,
			sentiment: SentimentPositive,
			urgency:   UrgencyLow,
		},
		{
			name:      "gratitude",
			input:     "Thank you so much, that was helpful",
			emotion:   Satisfied,
			sentiment: SentimentPositive,
			urgency:   UrgencyLow,
		},
		{
			name:      "honeymoon",
			input:     "We're planning our honeymoon in Bali",
			emotion:   HoneymoonBliss,
			sentiment: SentimentPositive,
			urgency:   UrgencyLow,
		},
		{
			name:      "budget",
			input:     "Looking for a cheap hotel near the beach",
			emotion:   BudgetConcerned,
			sentiment: SentimentNeutral,
			urgency:   UrgencyMedium,
		},
		{
			name:      "business",
			input:     "I have an important meeting in Chicago tomorrow morning",
			emotion:   BusinessUrgency,
			sentiment: SentimentNeutral,
			urgency:   UrgencyHigh,
		},
		{
			name:      "empty",
			input:     "",
			emotion:   Neutral,
			sentiment: SentimentNeutral,
			urgency:   UrgencyLow,
		},
		{
			name:      "whitespace only",
			input:     "   \n\t",
			emotion:   Neutral,
			sentiment: SentimentNeutral,
			urgency:   UrgencyLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Detect(tt.input)
			if got.Emotion != tt.emotion {
				t.Errorf("emotion = %q, want %q", got.Emotion, tt.emotion)
			}
			if got.Sentiment != tt.sentiment {
				t.Errorf("sentiment = %q, want %q", got.Sentiment, tt.sentiment)
			}
			if got.Urgency != tt.urgency {
				t.Errorf("urgency = %q, want %q", got.Urgency, tt.urgency)
			}
			if got.Confidence <= 0 || got.Confidence > maxConfidence {
				t.Errorf("confidence %v out of range", got.Confidence)
			}
		})
	}
}

func TestDetect_NeutralDefault(t *testing.T) {
	got := Detect("")
	if got.Confidence != 0.5 {
		t.Errorf("neutral confidence = %v, want 0.5", got.Confidence)
	}
	if got.Strategy != StrategyProfessional {
		t.Errorf("neutral strategy = %q", got.Strategy)
	}
	if len(got.Keywords) != 0 {
		t.Errorf("neutral result should have no keywords, got %v", got.Keywords)
	}
}

func TestDetect_ConfidenceGrowsWithMatches(t *testing.T) {
	one := Detect("I'm stranded")
	three := Detect("Emergency, I'm stranded and my flight was delayed")

	if one.Emotion != Urgent || three.Emotion != Urgent {
		t.Fatalf("expected urgent for both, got %q and %q", one.Emotion, three.Emotion)
	}
	if one.Confidence != 0.9 {
		t.Errorf("single match confidence = %v, want 0.9", one.Confidence)
	}
	if three.Confidence != maxConfidence {
		t.Errorf("capped confidence = %v, want %v", three.Confidence, maxConfidence)
	}
}

func TestDetect_ShoutingBoostsFrustration(t *testing.T) {
	calm := Detect("this is terrible")
	loud := Detect("THIS IS TERRIBLE!!!")

	if calm.Emotion != Frustrated || loud.Emotion != Frustrated {
		t.Fatalf("expected frustrated, got %q and %q", calm.Emotion, loud.Emotion)
	}
	if loud.Confidence <= calm.Confidence {
		t.Errorf("shouting should raise confidence: calm=%v loud=%v", calm.Confidence, loud.Confidence)
	}
}

func TestDetect_ExclamationsAlone(t *testing.T) {
	got := Detect("Paris!!!")
	if got.Emotion != Excited {
		t.Errorf("emotion = %q, want %q", got.Emotion, Excited)
	}
	if got.Urgency == UrgencyHigh {
		t.Error("exclamations alone must not imply high urgency")
	}
}

func TestDetect_Deterministic(t *testing.T) {
	inputs := []string{
		"EMERGENCY! stranded in Lisbon",
		"any ideas where to go?",
		"I lost my passport",
	}

	var wg sync.WaitGroup
	for _, in := range inputs {
		want := Detect(in)
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func(in string, want Result) {
				defer wg.Done()
				got := Detect(in)
				if got.Emotion != want.Emotion || got.Confidence != want.Confidence {
					t.Errorf("Detect(%q) not deterministic: %+v vs %+v", in, got, want)
				}
			}(in, want)
		}
	}
	wg.Wait()
}

func TestTypingDelay(t *testing.T) {
	base := 1500 * time.Millisecond

	if got := TypingDelay(base, Detect("I'm stranded")); got != time.Second {
		t.Errorf("urgent delay = %v, want 1s", got)
	}
	if got := TypingDelay(base, Detect("")); got != base {
		t.Errorf("neutral delay = %v, want %v", got, base)
	}
	if got := TypingDelay(base, Result{}); got != base {
		t.Errorf("zero result delay = %v, want %v", got, base)
	}
}

func TestEmpathyMarker(t *testing.T) {
	if got := EmpathyMarker(Urgent); got != "I understand the urgency." {
		t.Errorf("unexpected urgent marker %q", got)
	}
	if got := EmpathyMarker(Emotion("unknown")); got != EmpathyMarker(Neutral) {
		t.Errorf("unknown emotion should fall back to neutral, got %q", got)
	}
}
