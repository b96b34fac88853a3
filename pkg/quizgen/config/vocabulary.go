package config

import (
	_ "embed"
	"fmt"
	"os"
	"slices"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/quizgen/pkg/quizgen/category"
	"github.com/cognicore/quizgen/pkg/quizgen/concept"
	"github.com/cognicore/quizgen/pkg/quizgen/generate"
	"github.com/cognicore/quizgen/pkg/quizgen/internalerr"
	"github.com/cognicore/quizgen/pkg/quizgen/segment"
)

//go:embed vocabulary.yaml
var defaultVocabulary []byte

// Vocabulary holds the read-only lookup tables of the pipeline.
type Vocabulary struct {
	Stopwords []string          `yaml:"stopwords"`
	Segment   SegmentVocabulary `yaml:"segment"`
	Concept   ConceptVocabulary `yaml:"concept"`
	Essay     EssayVocabulary   `yaml:"essay"`
	MCQ       MCQVocabulary     `yaml:"mcq"`
}

// SegmentVocabulary configures sentence splitting. Abbreviations are
// lower-case and keep their trailing dot.
type SegmentVocabulary struct {
	Abbreviations []string `yaml:"abbreviations"`
}

// ConceptVocabulary configures concept extraction.
type ConceptVocabulary struct {
	Fallback string `yaml:"fallback"`
}

// EssayVocabulary configures essay questions. Verbs is keyed by category name.
type EssayVocabulary struct {
	Verbs       map[string]string `yaml:"verbs"`
	Prompt      string            `yaml:"prompt"`
	AnswerLimit int               `yaml:"answer_limit"`
}

// MCQVocabulary configures multiple-choice questions. Answers is keyed by
// category name.
type MCQVocabulary struct {
	Answers     map[string]string `yaml:"answers"`
	Pool        []string          `yaml:"pool"`
	Markers     []string          `yaml:"markers"`
	MinWords    int               `yaml:"min_words"`
	Distractors int               `yaml:"distractors"`
	Prompt      string            `yaml:"prompt"`
}

// DefaultVocabulary returns the embedded Indonesian tables.
func DefaultVocabulary() *Vocabulary {
	var v Vocabulary
	if err := yaml.Unmarshal(defaultVocabulary, &v); err != nil {
		panic(fmt.Sprintf("embedded vocabulary: %v", err))
	}
	return &v
}

// ParseVocabulary decodes YAML on top of the defaults. Keys absent from
// data keep their default values; lists given in data replace the default
// list entirely.
func ParseVocabulary(data []byte) (*Vocabulary, error) {
	v := DefaultVocabulary()
	if err := yaml.Unmarshal(data, v); err != nil {
		return nil, fmt.Errorf("%w: parse vocabulary: %v", internalerr.ErrInvalidConfig, err)
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return v, nil
}

// LoadVocabulary loads a vocabulary from a YAML file
func LoadVocabulary(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseVocabulary(data)
}

// Validate checks that every category either scheme can produce has a verb
// or an answer, and that the templates carry their placeholders.
func (v *Vocabulary) Validate() error {
	var problems []string

	for _, a := range v.Segment.Abbreviations {
		if !strings.HasSuffix(a, ".") || strings.ContainsFunc(a, unicode.IsSpace) {
			problems = append(problems, fmt.Sprintf("segment.abbreviations: %q must be one word ending in a dot", a))
		}
	}

	for _, c := range category.EssayScheme().Categories() {
		if strings.TrimSpace(v.Essay.Verbs[string(c)]) == "" {
			problems = append(problems, fmt.Sprintf("essay.verbs: missing %q", c))
		}
	}
	if !strings.Contains(v.Essay.Prompt, "{concept}") {
		problems = append(problems, "essay.prompt: missing {concept}")
	}
	if v.Essay.AnswerLimit <= 0 {
		problems = append(problems, "essay.answer_limit: must be positive")
	}

	pool := make(map[string]struct{}, len(v.MCQ.Pool))
	for _, p := range v.MCQ.Pool {
		pool[p] = struct{}{}
	}
	for _, c := range category.MCQScheme().Categories() {
		answer := strings.TrimSpace(v.MCQ.Answers[string(c)])
		if answer == "" {
			problems = append(problems, fmt.Sprintf("mcq.answers: missing %q", c))
			continue
		}
		if _, ok := pool[answer]; !ok {
			problems = append(problems, fmt.Sprintf("mcq.answers: %q is not in mcq.pool", answer))
		}
	}
	if !strings.Contains(v.MCQ.Prompt, "{sentence}") {
		problems = append(problems, "mcq.prompt: missing {sentence}")
	}
	if v.MCQ.MinWords < 0 {
		problems = append(problems, "mcq.min_words: must not be negative")
	}
	if v.MCQ.Distractors <= 0 {
		problems = append(problems, "mcq.distractors: must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", internalerr.ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// SegmentConfig returns segmenter settings keeping at most limit sentences.
// A zero limit selects the default.
func (v *Vocabulary) SegmentConfig(limit int) segment.Config {
	abbrevs := slices.Clone(v.Segment.Abbreviations)
	if abbrevs == nil {
		abbrevs = []string{}
	}
	return segment.Config{Limit: limit, Abbreviations: abbrevs}
}

// ConceptExtractor builds a concept extractor over the stopword list.
func (v *Vocabulary) ConceptExtractor() *concept.Extractor {
	return concept.NewExtractor(concept.NewTokenizer(v.Stopwords), v.Concept.Fallback)
}

// EssayConfig converts the essay tables to generator configuration.
func (v *Vocabulary) EssayConfig() generate.EssayConfig {
	verbs := make(map[category.Category]string, len(v.Essay.Verbs))
	for k, verb := range v.Essay.Verbs {
		verbs[category.Category(k)] = verb
	}
	return generate.EssayConfig{
		Scheme:      category.EssayScheme(),
		Verbs:       verbs,
		Prompt:      v.Essay.Prompt,
		AnswerLimit: v.Essay.AnswerLimit,
	}
}

// MCQConfig converts the multiple-choice tables to generator configuration.
func (v *Vocabulary) MCQConfig() generate.MCQConfig {
	answers := make(map[category.Category]string, len(v.MCQ.Answers))
	for k, a := range v.MCQ.Answers {
		answers[category.Category(k)] = a
	}
	return generate.MCQConfig{
		Scheme:      category.MCQScheme(),
		Answers:     answers,
		Pool:        append([]string(nil), v.MCQ.Pool...),
		Markers:     append([]string(nil), v.MCQ.Markers...),
		MinWords:    v.MCQ.MinWords,
		Distractors: v.MCQ.Distractors,
		Prompt:      v.MCQ.Prompt,
	}
}
