// Package category assigns a sentence to a semantic bucket by keyword
// precedence. Two schemes exist, one per question variant; they share
// category names but not rule order or vocabulary.
package category

import "strings"

// Category is a semantic bucket assigned to a sentence.
type Category string

const (
	Definition Category = "definition"
	Function   Category = "function"
	Process    Category = "process"
	Why        Category = "why"
	Purpose    Category = "purpose"
	Cause      Category = "cause"
	Concept    Category = "concept"
)

// Rule maps a set of keywords to a category. A rule matches when the
// lower-cased sentence contains any keyword as a substring.
type Rule struct {
	Category Category
	Keywords []string
}

// Matches reports whether lower contains one of the rule keywords.
// lower must already be lower-cased.
func (r Rule) Matches(lower string) bool {
	for _, kw := range r.Keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Scheme is an ordered rule list with a catch-all category.
// Rules are evaluated top to bottom and the first match wins.
type Scheme struct {
	Name    string
	Rules   []Rule
	Default Category
}

// EssayScheme returns the rule order used for essay questions.
func EssayScheme() Scheme {
	return Scheme{
		Name: "essay",
		Rules: []Rule{
			{Category: Definition, Keywords: []string{"adalah", "merupakan", "definisi"}},
			{Category: Function, Keywords: []string{"fungsi"}},
			{Category: Process, Keywords: []string{"proses", "tahap"}},
		},
		Default: Why,
	}
}

// MCQScheme returns the rule order used for multiple-choice questions.
func MCQScheme() Scheme {
	return Scheme{
		Name: "mcq",
		Rules: []Rule{
			{Category: Definition, Keywords: []string{"adalah", "merupakan"}},
			{Category: Function, Keywords: []string{"fungsi"}},
			{Category: Purpose, Keywords: []string{"tujuan"}},
			{Category: Cause, Keywords: []string{"akibat", "dampak"}},
			{Category: Process, Keywords: []string{"proses"}},
		},
		Default: Concept,
	}
}

// Classify returns the category of sentence under the scheme.
func (s Scheme) Classify(sentence string) Category {
	lower := strings.ToLower(sentence)
	for _, rule := range s.Rules {
		if rule.Matches(lower) {
			return rule.Category
		}
	}
	return s.Default
}

// Categories lists every category the scheme can produce, rules first,
// then the default.
func (s Scheme) Categories() []Category {
	seen := make(map[Category]struct{}, len(s.Rules)+1)
	out := make([]Category, 0, len(s.Rules)+1)
	for _, rule := range s.Rules {
		if _, ok := seen[rule.Category]; ok {
			continue
		}
		seen[rule.Category] = struct{}{}
		out = append(out, rule.Category)
	}
	if _, ok := seen[s.Default]; !ok {
		out = append(out, s.Default)
	}
	return out
}
