package quizgen

import (
	"context"
	"fmt"

	charmlog "github.com/charmbracelet/log"

	"github.com/cognicore/quizgen/pkg/quizgen/extract"
	"github.com/cognicore/quizgen/pkg/quizgen/generate"
	"github.com/cognicore/quizgen/pkg/quizgen/logger"
	"github.com/cognicore/quizgen/pkg/quizgen/store"
)

// Service runs the engine and records every successful run.
type Service struct {
	engine *Engine
	store  store.Store
	log    *charmlog.Logger
}

// NewService creates a Service. A nil logger discards output.
func NewService(engine *Engine, st store.Store, log *charmlog.Logger) *Service {
	if log == nil {
		log = logger.Discard()
	}
	return &Service{engine: engine, store: st, log: log}
}

// Request is an uploaded document and the quiz wanted from it.
type Request struct {
	Name  string
	Data  []byte
	Kind  generate.Kind
	Count int
	// Seed fixes multiple-choice option order when non-nil.
	Seed *uint64
}

// Quiz is a stored session with its questions.
type Quiz struct {
	Session   store.Session
	Questions generate.QuestionSet
}

// Generate runs the pipeline for req and persists the session and its
// questions. Nothing is stored when the pipeline or the write fails.
func (s *Service) Generate(ctx context.Context, req Request) (*Quiz, error) {
	format, err := extract.Detect(req.Name)
	if err != nil {
		return nil, err
	}

	var rng generate.RandomSource
	if req.Seed != nil {
		rng = generate.NewRandom(*req.Seed)
	}

	res, err := s.engine.Run(ctx, extract.RawDocument{Name: req.Name, Format: format, Data: req.Data}, req.Kind, req.Count, rng)
	if err != nil {
		s.log.Warn("generation failed", "name", req.Name, "kind", req.Kind, "err", err)
		return nil, err
	}

	sess, err := s.store.SaveQuiz(ctx, store.Session{
		Source:   req.Name,
		Material: res.Material,
		Variant:  req.Kind,
		Count:    req.Count,
	}, res.Questions)
	if err != nil {
		s.log.Error("save quiz failed", "name", req.Name, "err", err)
		return nil, fmt.Errorf("save quiz: %w", err)
	}

	s.log.Info("quiz generated", "session", sess.ID, "name", req.Name, "kind", req.Kind, "questions", len(res.Questions))
	return &Quiz{Session: sess, Questions: res.Questions}, nil
}

// Quiz loads a stored session and its questions.
func (s *Service) Quiz(ctx context.Context, id string) (*Quiz, error) {
	sess, err := s.store.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	qs, err := s.store.ListQuestions(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Quiz{Session: sess, Questions: qs}, nil
}

// Recent lists the newest sessions.
func (s *Service) Recent(ctx context.Context, limit int) ([]store.Session, error) {
	return s.store.RecentSessions(ctx, limit)
}
