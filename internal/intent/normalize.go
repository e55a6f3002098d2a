package intent

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fold lower-cases s and strips diacritics so that "São", "sao" and "SAO"
// compare equal.
func fold(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// normalize folds s and replaces every run of non-alphanumerics with a single
// space. "What's up?!" becomes "what s up".
func normalize(s string) string {
	folded := fold(s)
	var b strings.Builder
	b.Grow(len(folded))
	space := true
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			space = false
			continue
		}
		if !space {
			b.WriteByte(' ')
			space = true
		}
	}
	return strings.TrimSpace(b.String())
}

// stem strips a naive English plural suffix.
func stem(w string) string {
	if len(w) > 3 && strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "ss") {
		return w[:len(w)-1]
	}
	return w
}

// document is a message prepared for keyword matching.
type document struct {
	padded string // normalized text surrounded by single spaces
	tokens []string
}

func newDocument(message string) document {
	n := normalize(message)
	d := document{padded: " " + n + " "}
	if n != "" {
		d.tokens = strings.Fields(n)
	}
	return d
}

func (d document) empty() bool {
	return len(d.tokens) == 0
}

func (d document) hasLetters() bool {
	for _, r := range d.padded {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func (d document) hasPhrase(p string) bool {
	return strings.Contains(d.padded, " "+p+" ")
}

// lexicon is a compiled keyword list. Single words match whole tokens or
// their plural, so "flight" matches "flights" but "rights" never matches
// "right". With fuzzy enabled, tokens one edit away match too. Phrases match
// on token boundaries of the normalized text.
type lexicon struct {
	words   map[string]struct{}
	fuzzy   []string
	phrases []string
}

const (
	minFuzzyToken   = 4
	minFuzzyKeyword = 5
)

func newLexicon(fuzzy bool, keywords ...string) *lexicon {
	l := &lexicon{words: make(map[string]struct{})}
	for _, k := range keywords {
		n := normalize(k)
		if n == "" {
			continue
		}
		if strings.Contains(n, " ") {
			l.phrases = append(l.phrases, n)
			continue
		}
		l.words[n] = struct{}{}
		if fuzzy && utf8.RuneCountInString(n) >= minFuzzyKeyword {
			l.fuzzy = append(l.fuzzy, n)
		}
	}
	return l
}

type matchKind int

const (
	noMatch matchKind = iota
	fuzzyMatch
	exactMatch
)

// match reports the strongest kind of hit of l in d. Tokens in vocab are
// known words and never fuzzy-match.
func (l *lexicon) match(d document, vocab map[string]struct{}) matchKind {
	for _, p := range l.phrases {
		if d.hasPhrase(p) {
			return exactMatch
		}
	}
	for _, tok := range d.tokens {
		if _, ok := l.words[tok]; ok {
			return exactMatch
		}
		if _, ok := l.words[stem(tok)]; ok {
			return exactMatch
		}
	}
	if len(l.fuzzy) == 0 {
		return noMatch
	}
	for _, tok := range d.tokens {
		if utf8.RuneCountInString(tok) < minFuzzyToken {
			continue
		}
		if _, known := vocab[stem(tok)]; known {
			continue
		}
		first, _ := utf8.DecodeRuneInString(tok)
		for _, kw := range l.fuzzy {
			if k, _ := utf8.DecodeRuneInString(kw); k != first || kw == tok+"s" {
				continue
			}
			if levenshtein.ComputeDistance(tok, kw) == 1 {
				return fuzzyMatch
			}
		}
	}
	return noMatch
}

// commonWords are frequent words that sit one edit away from a keyword and
// must never be corrected into it.
var commonWords = []string{
	"a", "about", "after", "again", "all", "also", "am", "an", "and", "any",
	"are", "as", "at", "be", "been", "before", "but", "by", "can", "change",
	"charge", "class", "clear", "could", "day", "days", "did", "do", "does",
	"done", "each", "fight", "fine", "first", "for", "from", "get", "give",
	"good", "great", "had", "has", "have", "hello", "help", "here", "home",
	"hope", "hotel", "how", "i", "if", "in", "into", "is", "it", "just",
	"know", "last", "later", "light", "like", "look", "make", "many", "may",
	"me", "more", "most", "much", "must", "my", "need", "never", "new",
	"next", "night", "nights", "no", "not", "now", "of", "off", "ok", "okay",
	"on", "once", "one", "only", "or", "other", "our", "out", "over",
	"people", "place", "plan", "planning", "plans", "please", "point",
	"rather", "report", "right", "rooms", "same", "says", "see", "seem",
	"should", "show", "sight", "some", "soon", "still", "such", "sure",
	"take", "tell", "than", "thank", "that", "the", "their", "them", "then",
	"there", "these", "they", "thing", "things", "think", "this", "those",
	"time", "to", "today", "tonight", "train", "travel", "trip", "trips",
	"under", "until", "up", "us", "very", "want", "was", "way", "we",
	"week", "well", "were", "what", "when", "where", "which", "while",
	"who", "why", "will", "with", "work", "would", "year", "yes", "yet",
	"you", "your",
	"cairo", "carry", "chance", "costa", "ideal", "malta", "model", "suit",
	"vegas", "visit", "visits", "visiting", "vista", "looking", "preciso",
	"necesito", "quero", "quiero",
}
