// Package segment splits extracted text into sentences and keeps the ones
// usable as question material.
package segment

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/clipperhouse/uax29/v2/sentences"
)

// Defaults for a usable sentence.
const (
	DefaultLimit     = 30
	DefaultMinLength = 40
	DefaultMaxLength = 300
)

// DefaultAbbreviations are titles and reference marks that precede a name or
// number and never end a sentence.
var DefaultAbbreviations = []string{
	"dr.", "drs.", "dra.", "prof.", "ir.", "hj.", "h.", "st.", "sdr.", "yth.",
	"bpk.", "ny.", "no.", "hlm.", "vol.", "jl.", "kab.", "kec.", "prov.", "pt.",
}

var (
	digitRunRe = regexp.MustCompile(`\d{2,}`)
	headingRe  = regexp.MustCompile(`(?i)^(BAB|DAFTAR|Tabel|Gambar)`)
)

// Sentence is a usable sentence and its index among all units split from
// the source text.
type Sentence struct {
	Text     string `json:"text"`
	Position int    `json:"position"`
}

// Config bounds segmentation. Zero values select the defaults. An empty,
// non-nil Abbreviations list disables abbreviation joining.
type Config struct {
	Limit         int
	MinLength     int
	MaxLength     int
	Abbreviations []string
}

func (c *Config) defaults() {
	if c.Limit <= 0 {
		c.Limit = DefaultLimit
	}
	if c.MinLength <= 0 {
		c.MinLength = DefaultMinLength
	}
	if c.MaxLength <= 0 {
		c.MaxLength = DefaultMaxLength
	}
	if c.Abbreviations == nil {
		c.Abbreviations = DefaultAbbreviations
	}
}

// Segmenter turns text into an ordered, capped list of usable sentences.
type Segmenter struct {
	cfg     Config
	abbrevs map[string]struct{}
}

// New creates a Segmenter.
func New(cfg Config) *Segmenter {
	cfg.defaults()
	abbrevs := make(map[string]struct{}, len(cfg.Abbreviations))
	for _, a := range cfg.Abbreviations {
		abbrevs[strings.ToLower(a)] = struct{}{}
	}
	return &Segmenter{cfg: cfg, abbrevs: abbrevs}
}

// Segment splits text on Unicode sentence boundaries, keeps the units that
// pass Valid in document order, and truncates the result to the limit.
// Wrapped lines are rejoined first so a sentence broken across lines by the
// source layout is seen whole.
func (s *Segmenter) Segment(text string) []Sentence {
	var out []Sentence
	pos := 0
	for _, unit := range s.units(text) {
		if s.Valid(unit) {
			out = append(out, Sentence{Text: unit, Position: pos})
			if len(out) == s.cfg.Limit {
				break
			}
		}
		pos++
	}
	return out
}

// units returns the trimmed sentence units of text. A unit ending in a known
// abbreviation is joined to the unit after it.
func (s *Segmenter) units(text string) []string {
	var out []string
	pending := ""
	iter := sentences.FromString(Unwrap(text))
	for iter.Next() {
		unit := strings.TrimSpace(iter.Value())
		if unit == "" {
			continue
		}
		if pending != "" {
			unit = pending + " " + unit
			pending = ""
		}
		if s.endsInAbbreviation(unit) {
			pending = unit
			continue
		}
		out = append(out, unit)
	}
	if pending != "" {
		out = append(out, pending)
	}
	return out
}

func (s *Segmenter) endsInAbbreviation(unit string) bool {
	fields := strings.Fields(unit)
	last := strings.TrimLeft(fields[len(fields)-1], `(["'`)
	_, ok := s.abbrevs[strings.ToLower(last)]
	return ok
}

// Valid reports whether a trimmed sentence is usable: its rune length is
// within bounds, it has no run of two or more digits and it does not open
// with a structural heading word.
func (s *Segmenter) Valid(sentence string) bool {
	n := utf8.RuneCountInString(sentence)
	if n < s.cfg.MinLength || n > s.cfg.MaxLength {
		return false
	}
	if digitRunRe.MatchString(sentence) {
		return false
	}
	return !headingRe.MatchString(sentence)
}

// Texts returns the sentence texts in order.
func Texts(ss []Sentence) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = s.Text
	}
	return out
}

// Unwrap joins a line with the next one when the line does not end in
// sentence punctuation, unless the line reads as a title and the next one
// starts in upper case. Blank lines and the remaining line breaks are kept
// and act as sentence boundaries.
func Unwrap(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	var sb strings.Builder
	sb.Grow(len(text))
	for i, line := range lines {
		if i+1 < len(lines) && continues(line, lines[i+1]) {
			sb.WriteString(strings.TrimRightFunc(line, unicode.IsSpace))
			sb.WriteByte(' ')
			lines[i+1] = strings.TrimLeftFunc(lines[i+1], unicode.IsSpace)
			continue
		}
		sb.WriteString(line)
		if i+1 < len(lines) {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func continues(prev, next string) bool {
	prev = strings.TrimRightFunc(prev, unicode.IsSpace)
	next = strings.TrimLeftFunc(next, unicode.IsSpace)
	if prev == "" || next == "" {
		return false
	}
	last, _ := utf8.DecodeLastRuneInString(prev)
	if strings.ContainsRune(".!?:;", last) {
		return false
	}
	if first, _ := utf8.DecodeRuneInString(next); unicode.IsLower(first) {
		return true
	}
	return !title(prev)
}

// title reports whether line opens with a heading word or has no word
// starting in lower case, as chapter titles, captions and list items do.
func title(line string) bool {
	if headingRe.MatchString(line) {
		return true
	}
	for _, w := range strings.Fields(line) {
		if r, _ := utf8.DecodeRuneInString(w); unicode.IsLower(r) {
			return false
		}
	}
	return true
}
