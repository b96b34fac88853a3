package config

import (
	"fmt"

	charmlog "github.com/charmbracelet/log"

	"github.com/cognicore/quizgen/pkg/quizgen/concept"
	"github.com/cognicore/quizgen/pkg/quizgen/extract"
	"github.com/cognicore/quizgen/pkg/quizgen/generate"
	"github.com/cognicore/quizgen/pkg/quizgen/logger"
	"github.com/cognicore/quizgen/pkg/quizgen/segment"
)

// Loader loads the vocabulary and constructs pipeline components
type Loader struct {
	VocabularyPath  string
	MaxDocumentSize int64
	SentenceLimit   int
	Logger          *charmlog.Logger
}

// Components holds the initialized pipeline components
type Components struct {
	Vocabulary *Vocabulary
	Extractor  *extract.Extractor
	Segmenter  *segment.Segmenter
	Concepts   *concept.Extractor
	Essay      *generate.Essay
	MCQ        *generate.MCQ
}

// Load reads the vocabulary, if a path is set, and returns initialized
// components. Without a path the embedded vocabulary is used.
func (l *Loader) Load() (*Components, error) {
	log := l.Logger
	if log == nil {
		log = logger.Discard()
	}

	vocab := DefaultVocabulary()
	if l.VocabularyPath != "" {
		v, err := LoadVocabulary(l.VocabularyPath)
		if err != nil {
			return nil, fmt.Errorf("load vocabulary: %w", err)
		}
		vocab = v
		log.Debug("vocabulary loaded", "path", l.VocabularyPath, "stopwords", len(vocab.Stopwords))
	}

	comp := Build(vocab)
	comp.Extractor = extract.New(extract.Config{MaxSize: l.MaxDocumentSize, Logger: log})
	comp.Segmenter = segment.New(vocab.SegmentConfig(l.SentenceLimit))
	return comp, nil
}

// Build constructs components from an already loaded vocabulary with
// default extractor settings and the default sentence limit.
func Build(vocab *Vocabulary) *Components {
	concepts := vocab.ConceptExtractor()
	return &Components{
		Vocabulary: vocab,
		Extractor:  extract.New(extract.Config{}),
		Segmenter:  segment.New(vocab.SegmentConfig(0)),
		Concepts:   concepts,
		Essay:      generate.NewEssay(concepts, vocab.EssayConfig()),
		MCQ:        generate.NewMCQ(vocab.MCQConfig()),
	}
}
