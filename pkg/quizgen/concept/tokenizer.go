package concept

import (
	"strings"
	"unicode"

	"github.com/clipperhouse/uax29/v2/words"
)

// Tokenizer splits text into word tokens and answers stopword lookups.
type Tokenizer struct {
	stopwords map[string]struct{}
}

// NewTokenizer indexes stopwords in lower case.
func NewTokenizer(stopwords []string) *Tokenizer {
	t := &Tokenizer{stopwords: make(map[string]struct{}, len(stopwords))}
	for _, w := range stopwords {
		t.AddStopword(w)
	}
	return t
}

// Words returns the word tokens of text in order, keeping their original
// case. Whitespace and punctuation segments are dropped.
func (t *Tokenizer) Words(text string) []string {
	var out []string
	iter := words.FromString(text)
	for iter.Next() {
		tok := iter.Value()
		if !hasWordRune(tok) {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// IsStopword reports whether word, compared case-insensitively, is a stopword.
func (t *Tokenizer) IsStopword(word string) bool {
	_, ok := t.stopwords[strings.ToLower(word)]
	return ok
}

// AddStopword marks word as a stopword.
func (t *Tokenizer) AddStopword(word string) {
	t.stopwords[strings.ToLower(word)] = struct{}{}
}

// RemoveStopword unmarks word.
func (t *Tokenizer) RemoveStopword(word string) {
	delete(t.stopwords, strings.ToLower(word))
}

func hasWordRune(tok string) bool {
	for _, r := range tok {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			return true
		}
	}
	return false
}
