package generate

import (
	"strings"
	"unicode/utf8"

	"github.com/cognicore/quizgen/pkg/quizgen/category"
	"github.com/cognicore/quizgen/pkg/quizgen/concept"
	"github.com/cognicore/quizgen/pkg/quizgen/segment"
)

// Ellipsis marks a truncated essay answer.
const Ellipsis = "..."

// EssayConfig holds the read-only tables used by the essay generator.
type EssayConfig struct {
	Scheme category.Scheme
	// Verbs maps each essay category to a directive verb.
	Verbs map[category.Category]string
	// Prompt is a template with {verb} and {concept} placeholders.
	Prompt      string
	AnswerLimit int
}

// DefaultEssayConfig returns the built-in Indonesian tables.
func DefaultEssayConfig() EssayConfig {
	return EssayConfig{
		Scheme: category.EssayScheme(),
		Verbs: map[category.Category]string{
			category.Definition: "Jelaskan",
			category.Function:   "Uraikan",
			category.Process:    "Jabarkan",
			category.Why:        "Analisis",
		},
		Prompt:      "{verb} {concept} berdasarkan materi di atas!",
		AnswerLimit: 300,
	}
}

// Essay generates open questions, one per distinct concept.
type Essay struct {
	concepts *concept.Extractor
	cfg      EssayConfig
}

// NewEssay creates an essay generator.
func NewEssay(concepts *concept.Extractor, cfg EssayConfig) *Essay {
	if cfg.AnswerLimit <= 0 {
		cfg.AnswerLimit = 300
	}
	return &Essay{concepts: concepts, cfg: cfg}
}

// Generate walks sentences in order and emits at most count questions.
// A sentence whose concept was already used is skipped.
func (g *Essay) Generate(sentences []segment.Sentence, count int) QuestionSet {
	if count <= 0 {
		return QuestionSet{}
	}
	out := make(QuestionSet, 0, min(count, len(sentences)))
	used := make(map[string]struct{})

	for _, s := range sentences {
		if len(out) >= count {
			break
		}

		c := g.concepts.Extract(s.Text)
		if c == "" {
			continue
		}
		if _, dup := used[c]; dup {
			continue
		}
		used[c] = struct{}{}

		cat := g.cfg.Scheme.Classify(s.Text)
		out = append(out, Question{
			Prompt:   g.prompt(cat, c),
			Answer:   Truncate(s.Text, g.cfg.AnswerLimit),
			Kind:     KindEssay,
			Category: cat,
			Concept:  c,
			Source:   s.Position,
		})
	}
	return out
}

func (g *Essay) prompt(cat category.Category, c string) string {
	verb, ok := g.cfg.Verbs[cat]
	if !ok {
		verb = string(cat)
	}
	return strings.NewReplacer("{verb}", verb, "{concept}", c).Replace(g.cfg.Prompt)
}

// Truncate cuts s to limit runes and appends Ellipsis when it was longer.
func Truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit]) + Ellipsis
}
