package generate

import (
	"strings"

	"github.com/cognicore/quizgen/pkg/quizgen/category"
	"github.com/cognicore/quizgen/pkg/quizgen/segment"
)

// MCQConfig holds the read-only tables used by the multiple-choice generator.
type MCQConfig struct {
	Scheme category.Scheme
	// Answers maps each mcq category to the option label that is correct
	// for it.
	Answers map[category.Category]string
	// Pool is the option vocabulary distractors are drawn from.
	Pool []string
	// Markers disqualify a sentence when found in its lower-cased text.
	Markers     []string
	MinWords    int
	Distractors int
	// Prompt is a template with a {sentence} placeholder.
	Prompt string
}

// DefaultMCQConfig returns the built-in Indonesian tables.
func DefaultMCQConfig() MCQConfig {
	return MCQConfig{
		Scheme: category.MCQScheme(),
		Answers: map[category.Category]string{
			category.Definition: "definisi",
			category.Function:   "fungsi",
			category.Purpose:    "tujuan",
			category.Cause:      "akibat",
			category.Process:    "proses",
			category.Concept:    "konsep",
		},
		Pool: []string{"definisi", "fungsi", "tujuan", "manfaat", "proses", "penyebab", "akibat", "konsep"},
		Markers: []string{
			"silahkan", "harap", "jawablah", "daftar isi", "daftar pustaka", "tabel", "gambar", "bab ",
		},
		MinWords:    8,
		Distractors: 3,
		Prompt:      "Perhatikan pernyataan berikut:\n\n\"{sentence}\"\n\napa yang dimaksud dari pernyataan tersebut …",
	}
}

// MCQ generates multiple-choice questions, at most one per sentence.
type MCQ struct {
	cfg MCQConfig
}

// NewMCQ creates a multiple-choice generator. Duplicate pool entries are
// dropped so options stay distinct.
func NewMCQ(cfg MCQConfig) *MCQ {
	seen := make(map[string]struct{}, len(cfg.Pool))
	pool := make([]string, 0, len(cfg.Pool))
	for _, p := range cfg.Pool {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		pool = append(pool, p)
	}
	cfg.Pool = pool
	if cfg.Distractors <= 0 {
		cfg.Distractors = 3
	}
	return &MCQ{cfg: cfg}
}

// Generate walks sentences in order and emits at most count questions.
// A nil rng selects an unseeded source.
func (g *MCQ) Generate(sentences []segment.Sentence, count int, rng RandomSource) QuestionSet {
	if count <= 0 {
		return QuestionSet{}
	}
	if rng == nil {
		rng = NewUnseededRandom()
	}
	out := make(QuestionSet, 0, min(count, len(sentences)))

	for _, s := range sentences {
		if len(out) >= count {
			break
		}
		if !g.Eligible(s.Text) {
			continue
		}

		cat := g.cfg.Scheme.Classify(s.Text)
		answer := g.answer(cat)
		out = append(out, Question{
			Prompt:   strings.ReplaceAll(g.cfg.Prompt, "{sentence}", s.Text),
			Options:  g.options(answer, rng),
			Answer:   answer,
			Kind:     KindMCQ,
			Category: cat,
			Source:   s.Position,
		})
	}
	return out
}

// Eligible reports whether a sentence can anchor a question: it carries no
// instruction or layout marker and has at least MinWords fields.
func (g *MCQ) Eligible(sentence string) bool {
	lower := strings.ToLower(sentence)
	for _, m := range g.cfg.Markers {
		if strings.Contains(lower, m) {
			return false
		}
	}
	return len(strings.Fields(sentence)) >= g.cfg.MinWords
}

func (g *MCQ) answer(cat category.Category) string {
	if a, ok := g.cfg.Answers[cat]; ok {
		return a
	}
	return string(cat)
}

// options draws distractors from the pool minus the answer, appends the
// answer and shuffles.
func (g *MCQ) options(answer string, rng RandomSource) []string {
	pool := make([]string, 0, len(g.cfg.Pool))
	for _, p := range g.cfg.Pool {
		if p != answer {
			pool = append(pool, p)
		}
	}
	opts := append(sample(rng, pool, g.cfg.Distractors), answer)
	rng.Shuffle(len(opts), func(i, j int) { opts[i], opts[j] = opts[j], opts[i] })
	return opts
}
