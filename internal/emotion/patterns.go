package emotion

import "regexp"

type rule struct {
	emotion    Emotion
	sentiment  Sentiment
	urgency    Urgency
	confidence float64
	strategy   Strategy
	typing     float64
	patterns   []*regexp.Regexp
}

func re(expr string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + expr)
}

// defaultRules are checked in order; the first rule with any match wins.
// Urgent and frustrated come first so that a stranded traveller is never
// classified by a softer rule that happens to match too.
func defaultRules() []rule {
	return []rule{
		{
			emotion: Urgent, sentiment: SentimentNegative, urgency: UrgencyHigh,
			confidence: 0.9, strategy: StrategyProfessional, typing: 1.5,
			patterns: []*regexp.Regexp{
				re(`\b(urgent|urgently|emergency|asap|immediately|right now|hurry)\b`),
				re(`\b(stranded|stuck|trapped|missed (my|our) (flight|connection))\b`),
				re(`\bflights?\b.{0,20}\b(cancell?ed|delayed)\b|\b(cancell?ed|delayed)\b.{0,20}\bflights?\b`),
				re(`\b(need.{0,10}now|happening now|lost (my|our) (passport|luggage|bags?|wallet|documents))\b`),
				re(`\b(emerg[eê]ncia|urgente)\b`),
			},
		},
		{
			emotion: Frustrated, sentiment: SentimentNegative, urgency: UrgencyHigh,
			confidence: 0.85, strategy: StrategyEmpathetic, typing: 1.3,
			patterns: []*regexp.Regexp{
				re(`\b(frustrated|frustrating|angry|upset|mad|furious|annoyed)\b`),
				re(`\b(terrible|worst|horrible|awful|pathetic|ridiculous|useless)\b`),
				re(`\b(hate|can't stand|fed up|sick of|tired of)\b`),
				re(`\b(unacceptable|disappointing|disaster|nightmare|not working)\b`),
				re(`\b(what the (hell|heck)|wtf)\b`),
				re(`\bthis is (crazy|insane|stupid|wrong)\b`),
			},
		},
		{
			emotion: BusinessUrgency, sentiment: SentimentNeutral, urgency: UrgencyHigh,
			confidence: 0.85, strategy: StrategyProfessional, typing: 1.4,
			patterns: []*regexp.Regexp{
				re(`\b(business (trip|meeting|conference)|corporate travel)\b`),
				re(`\bneed to (be there|arrive|get there) (by|before)\b`),
				re(`\bimportant (meeting|conference|presentation)\b`),
				re(`\b(time-sensitive|deadline)\b`),
				re(`\blast.{0,10}minute.{0,10}(trip|flight|travel)\b`),
				re(`\bsame.{0,10}day.{0,10}(flight|trip)\b`),
			},
		},
		{
			emotion: TravelAnxiety, sentiment: SentimentNegative, urgency: UrgencyMedium,
			confidence: 0.82, strategy: StrategyReassuring, typing: 0.9,
			patterns: []*regexp.Regexp{
				re(`\b(afraid (of|to) (fly|flying)|fear of flying)\b`),
				re(`\b(nervous|anxious|scared) (about|of|to) (fly|flying|travel)\b`),
				re(`\b(turbulence|safety concerns)\b`),
			},
		},
		{
			emotion: FirstTimeFlyer, sentiment: SentimentNeutral, urgency: UrgencyMedium,
			confidence: 0.8, strategy: StrategyReassuring, typing: 0.9,
			patterns: []*regexp.Regexp{
				re(`\bfirst (time|international) (flight|trip|flying)\b`),
				re(`\bnever (flown|traveled|travelled)( before| internationally)?\b`),
				re(`\bnew to (flying|traveling|travelling)\b`),
				re(`\bnever been (abroad|overseas|on a plane)\b`),
			},
		},
		{
			emotion: FamilyStress, sentiment: SentimentNeutral, urgency: UrgencyMedium,
			confidence: 0.76, strategy: StrategyEmpathetic, typing: 1.0,
			patterns: []*regexp.Regexp{
				re(`\btraveling with (kids|children|a baby|baby|an infant|infant|toddlers?)\b`),
				re(`\bfamily (trip|vacation|travel)\b`),
				re(`\b(stroller|car seat|diapers?|formula)\b`),
				re(`\b(multiple|several) children\b`),
			},
		},
		{
			emotion: BudgetConcerned, sentiment: SentimentNeutral, urgency: UrgencyMedium,
			confidence: 0.78, strategy: StrategyEmpathetic, typing: 1.0,
			patterns: []*regexp.Regexp{
				re(`\b(cheap|cheapest|budget|affordable)\b`),
				re(`\b(save money|good deal|best price)\b`),
				re(`\btoo (expensive|much|costly)\b`),
				re(`\b(can't afford|tight budget|limited funds)\b`),
			},
		},
		{
			emotion: HoneymoonBliss, sentiment: SentimentPositive, urgency: UrgencyLow,
			confidence: 0.85, strategy: StrategyEnthusiastic, typing: 1.0,
			patterns: []*regexp.Regexp{
				re(`\b(honeymoon|just (married|got married)|newlyweds?)\b`),
				re(`\b(wedding trip|romantic (getaway|trip)|anniversary trip)\b`),
			},
		},
		{
			emotion: Worried, sentiment: SentimentNegative, urgency: UrgencyMedium,
			confidence: 0.75, strategy: StrategyReassuring, typing: 1.0,
			patterns: []*regexp.Regexp{
				re(`\b(worried|concerned|anxious|nervous|scared|afraid)\b`),
				re(`\b(what if|worry about)\b`),
				re(`\b(problem|issue|trouble|complication)\b`),
				re(`\b(hope (everything|it)|please (help|confirm))\b`),
			},
		},
		{
			emotion: Confused, sentiment: SentimentNeutral, urgency: UrgencyMedium,
			confidence: 0.75, strategy: StrategyReassuring, typing: 0.9,
			patterns: []*regexp.Regexp{
				re(`\b(confused|don't understand|unclear|not sure)\b`),
				re(`\b(explain|clarify|help me understand)\b`),
				re(`\?\?|\b(huh|what)\?`),
			},
		},
		{
			emotion: VacationExcitement, sentiment: SentimentPositive, urgency: UrgencyLow,
			confidence: 0.8, strategy: StrategyEnthusiastic, typing: 1.1,
			patterns: []*regexp.Regexp{
				re(`\b(dream (trip|vacation|destination)|bucket list|always wanted to)\b`),
				re(`\b(so excited|really looking forward)\b.{0,40}\b(vacation|holiday|getaway|trip)\b`),
				re(`\b(vacation|holiday|getaway)\b.{0,40}\b(can't wait|so excited)\b`),
			},
		},
		{
			emotion: Excited, sentiment: SentimentPositive, urgency: UrgencyLow,
			confidence: 0.8, strategy: StrategyEnthusiastic, typing: 1.1,
			patterns: []*regexp.Regexp{
				re(`\b(excited|thrilled|amazing|awesome|wonderful)\b`),
				re(`\b(fantastic|excellent|brilliant|fabulous)\b`),
				re(`\b(love|loving|can't wait|looking forward)\b`),
				re(`\b(yay|woohoo)\b`),
			},
		},
		{
			emotion: Satisfied, sentiment: SentimentPositive, urgency: UrgencyLow,
			confidence: 0.7, strategy: StrategyProfessional, typing: 1.0,
			patterns: []*regexp.Regexp{
				re(`\b(thank you|thanks|appreciate|helpful|great service)\b`),
				re(`\b(perfect|exactly|that's great)\b`),
				re(`\b(satisfied|happy with|pleased with)\b`),
			},
		},
		{
			emotion: Casual, sentiment: SentimentNeutral, urgency: UrgencyLow,
			confidence: 0.6, strategy: StrategyProfessional, typing: 1.0,
			patterns: []*regexp.Regexp{
				re(`\b(hey|hi|hello|sup|what's up)\b`),
				re(`\bjust (wondering|curious|looking|checking)\b`),
				re(`\b(lol|haha|btw|tbh)\b`),
			},
		},
	}
}
