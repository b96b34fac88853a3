// Package generate builds quiz questions from usable sentences. Two
// variants exist: essay questions keyed by concept and multiple-choice
// questions keyed by category.
package generate

import (
	"fmt"
	"strings"

	"github.com/cognicore/quizgen/pkg/quizgen/category"
	"github.com/cognicore/quizgen/pkg/quizgen/internalerr"
)

// Kind identifies a question variant.
type Kind string

const (
	KindEssay Kind = "essay"
	KindMCQ   Kind = "mcq"
)

// ParseKind accepts "essay", "mcq" and the legacy alias "pg" for mcq.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "essay":
		return KindEssay, nil
	case "mcq", "pg":
		return KindMCQ, nil
	default:
		return "", fmt.Errorf("%w: %q", internalerr.ErrInvalidVariant, s)
	}
}

// Label is the human readable variant name used by renderers.
func (k Kind) Label() string {
	if k == KindMCQ {
		return "Pilihan Ganda (PG)"
	}
	return "Essay"
}

// Question is one generated quiz question. Options is empty for essays.
type Question struct {
	Prompt   string            `json:"question"`
	Options  []string          `json:"options,omitempty"`
	Answer   string            `json:"answer"`
	Kind     Kind              `json:"type"`
	Category category.Category `json:"category"`
	Concept  string            `json:"concept,omitempty"`
	Source   int               `json:"source"`
}

// QuestionSet is an ordered list of questions from one run.
type QuestionSet []Question
