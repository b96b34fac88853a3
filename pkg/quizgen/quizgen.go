// Package quizgen turns course material into exam questions.
//
// An Engine runs the pipeline for one document: text extraction, sentence
// segmentation and question generation for the requested variant. A Service
// adds persistence of each run on top of an Engine.
package quizgen

import (
	"context"
	"errors"
	"fmt"

	charmlog "github.com/charmbracelet/log"

	"github.com/cognicore/quizgen/pkg/quizgen/config"
	"github.com/cognicore/quizgen/pkg/quizgen/extract"
	"github.com/cognicore/quizgen/pkg/quizgen/generate"
	"github.com/cognicore/quizgen/pkg/quizgen/internalerr"
	"github.com/cognicore/quizgen/pkg/quizgen/logger"
	"github.com/cognicore/quizgen/pkg/quizgen/segment"
)

// Engine is the pipeline orchestrator
type Engine struct {
	extractor *extract.Extractor
	segmenter *segment.Segmenter
	essay     *generate.Essay
	mcq       *generate.MCQ
	log       *charmlog.Logger
}

// Options configures an Engine. Nil components are built from the embedded
// vocabulary.
type Options struct {
	Extractor *extract.Extractor
	Segmenter *segment.Segmenter
	Essay     *generate.Essay
	MCQ       *generate.MCQ
	Logger    *charmlog.Logger
}

// New creates an Engine with the given components
func New(opts Options) *Engine {
	if opts.Extractor == nil || opts.Segmenter == nil || opts.Essay == nil || opts.MCQ == nil {
		def := config.Build(config.DefaultVocabulary())
		if opts.Extractor == nil {
			opts.Extractor = def.Extractor
		}
		if opts.Segmenter == nil {
			opts.Segmenter = def.Segmenter
		}
		if opts.Essay == nil {
			opts.Essay = def.Essay
		}
		if opts.MCQ == nil {
			opts.MCQ = def.MCQ
		}
	}
	if opts.Logger == nil {
		opts.Logger = logger.Discard()
	}
	return &Engine{
		extractor: opts.Extractor,
		segmenter: opts.Segmenter,
		essay:     opts.Essay,
		mcq:       opts.MCQ,
		log:       opts.Logger,
	}
}

// NewDefault creates an Engine over vocab, or over the embedded vocabulary
// when vocab is nil.
func NewDefault(vocab *config.Vocabulary) *Engine {
	if vocab == nil {
		vocab = config.DefaultVocabulary()
	}
	return FromComponents(config.Build(vocab), nil)
}

// FromComponents creates an Engine from loaded configuration.
func FromComponents(c *config.Components, log *charmlog.Logger) *Engine {
	return New(Options{
		Extractor: c.Extractor,
		Segmenter: c.Segmenter,
		Essay:     c.Essay,
		MCQ:       c.MCQ,
		Logger:    log,
	})
}

// Result is the outcome of one run
type Result struct {
	Material  string
	Sentences []segment.Sentence
	Questions generate.QuestionSet
}

// Run extracts doc, segments it and generates up to count questions of the
// given kind. rng only affects multiple-choice option order; nil selects an
// unseeded source. Count bounds are the caller's concern.
//
// Failures wrap one of internalerr.ErrInvalidVariant, ErrExtraction,
// ErrEmptyMaterial or ErrGeneration.
func (e *Engine) Run(ctx context.Context, doc extract.RawDocument, kind generate.Kind, count int, rng generate.RandomSource) (*Result, error) {
	if kind != generate.KindEssay && kind != generate.KindMCQ {
		return nil, fmt.Errorf("%w: %q", internalerr.ErrInvalidVariant, kind)
	}

	material, err := e.extractor.Extract(ctx, doc)
	if err != nil {
		return nil, err
	}
	e.log.Debug("extracted", "name", doc.Name, "chars", len(material))

	res, err := e.generate(material, kind, count, rng)
	if err != nil {
		return nil, err
	}
	e.log.Debug("generated", "name", doc.Name, "kind", kind, "requested", count, "produced", len(res.Questions))
	return res, nil
}

// RunText runs the pipeline on text that was already extracted.
func (e *Engine) RunText(text string, kind generate.Kind, count int, rng generate.RandomSource) (*Result, error) {
	if kind != generate.KindEssay && kind != generate.KindMCQ {
		return nil, fmt.Errorf("%w: %q", internalerr.ErrInvalidVariant, kind)
	}
	return e.generate(text, kind, count, rng)
}

func (e *Engine) generate(material string, kind generate.Kind, count int, rng generate.RandomSource) (*Result, error) {
	sentences := e.segmenter.Segment(material)
	if len(sentences) == 0 {
		return nil, internalerr.ErrEmptyMaterial
	}
	e.log.Debug("segmented", "sentences", len(sentences))

	var qs generate.QuestionSet
	switch kind {
	case generate.KindEssay:
		qs = e.essay.Generate(sentences, count)
	case generate.KindMCQ:
		qs = e.mcq.Generate(sentences, count, rng)
	}
	if len(qs) == 0 {
		return nil, fmt.Errorf("%w: %d sentences, none usable for %s", internalerr.ErrGeneration, len(sentences), kind)
	}

	return &Result{
		Material:  material,
		Sentences: sentences,
		Questions: qs,
	}, nil
}

// IsUserError reports whether err was caused by the uploaded document or
// the request rather than by the system.
func IsUserError(err error) bool {
	for _, target := range []error{
		internalerr.ErrInvalidInput,
		internalerr.ErrInvalidVariant,
		internalerr.ErrExtraction,
		internalerr.ErrEmptyMaterial,
		internalerr.ErrGeneration,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// UserMessage maps an error to the message shown to end users.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, internalerr.ErrExtraction):
		return "Dokumen tidak memiliki teks yang dapat dibaca"
	case errors.Is(err, internalerr.ErrEmptyMaterial):
		return "Tidak ada materi yang bisa diproses"
	case errors.Is(err, internalerr.ErrGeneration):
		return "Tidak dapat menghasilkan soal dari file tersebut"
	case errors.Is(err, internalerr.ErrInvalidVariant):
		return "Jenis soal tidak dikenal"
	case errors.Is(err, internalerr.ErrNotFound):
		return "Data soal tidak ditemukan"
	case errors.Is(err, internalerr.ErrInvalidInput):
		return "Permintaan tidak valid"
	default:
		return "Terjadi error pada server, coba lagi"
	}
}
