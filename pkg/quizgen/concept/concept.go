// Package concept derives a short noun phrase naming the subject of a
// sentence. Extraction is a fixed ordered list of rules; the first rule
// that yields a result wins, and a literal fallback guarantees a value.
package concept

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultFallback is returned when no rule yields a concept.
const DefaultFallback = "Konsep"

// minLength is the exclusive lower bound, in runes, for an accepted concept.
const minLength = 5

// Rule is one concept heuristic. Apply receives the sentence as written
// and its lower-cased copy.
type Rule struct {
	Name  string
	Apply func(original, lower string) (string, bool)
}

var (
	copulaRe    = regexp.MustCompile(`(?:adalah|merupakan|yaitu)\s+([^,.]+)`)
	keywordRe   = regexp.MustCompile(`(?:fungsi|tujuan|manfaat)\s+([^,.]+)`)
	preCopulaRe = regexp.MustCompile(`^([^,.\s]+(?:\s+[^,.\s]+)?)\s+(?:adalah|merupakan)`)
)

// patternRule captures group 1 of re on the lower-cased sentence.
func patternRule(name string, re *regexp.Regexp) Rule {
	return Rule{
		Name: name,
		Apply: func(_, lower string) (string, bool) {
			m := re.FindStringSubmatch(lower)
			if m == nil {
				return "", false
			}
			c := strings.TrimSpace(m[1])
			if utf8.RuneCountInString(c) <= minLength {
				return "", false
			}
			return c, true
		},
	}
}

// Extractor applies the concept rules in order.
type Extractor struct {
	rules     []Rule
	tokenizer *Tokenizer
	fallback  string
}

// NewExtractor creates an extractor. An empty fallback selects DefaultFallback.
func NewExtractor(tokenizer *Tokenizer, fallback string) *Extractor {
	if fallback == "" {
		fallback = DefaultFallback
	}
	e := &Extractor{
		tokenizer: tokenizer,
		fallback:  fallback,
	}
	e.rules = []Rule{
		patternRule("copula", copulaRe),
		patternRule("keyword-noun", keywordRe),
		patternRule("pre-copula", preCopulaRe),
		{Name: "long-word", Apply: e.longWord},
	}
	return e
}

// longWord picks the first non-stopword token longer than minLength runes
// from the sentence as written, capitalised.
func (e *Extractor) longWord(original, _ string) (string, bool) {
	for _, w := range e.tokenizer.Words(original) {
		if utf8.RuneCountInString(w) <= minLength || e.tokenizer.IsStopword(w) {
			continue
		}
		// Casers carry state, so one is built per call.
		return cases.Title(language.Indonesian).String(w), true
	}
	return "", false
}

// Extract returns the concept for sentence. It never fails.
func (e *Extractor) Extract(sentence string) string {
	c, _ := e.Match(sentence)
	return c
}

// Match returns the concept together with the name of the rule that
// produced it, or "fallback" when none did.
func (e *Extractor) Match(sentence string) (string, string) {
	lower := strings.ToLower(sentence)
	for _, rule := range e.rules {
		if c, ok := rule.Apply(sentence, lower); ok {
			return c, rule.Name
		}
	}
	return e.fallback, "fallback"
}

// Rules returns the rule names in evaluation order.
func (e *Extractor) Rules() []string {
	names := make([]string, len(e.rules))
	for i, r := range e.rules {
		names[i] = r.Name
	}
	return names
}
