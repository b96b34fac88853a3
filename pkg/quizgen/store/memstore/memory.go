package memstore

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/cognicore/quizgen/pkg/quizgen/generate"
	"github.com/cognicore/quizgen/pkg/quizgen/internalerr"
	"github.com/cognicore/quizgen/pkg/quizgen/store"
)

// Store is an in-memory implementation of store.Store for tests and
// one-shot CLI runs.
type Store struct {
	mu        sync.RWMutex
	sessions  map[string]store.Session
	order     []string
	questions map[string]generate.QuestionSet
	now       func() time.Time
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		sessions:  make(map[string]store.Session),
		questions: make(map[string]generate.QuestionSet),
		now:       time.Now,
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// CreateSession stores a session.
func (s *Store) CreateSession(ctx context.Context, sess store.Session) (store.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess = store.Prepare(sess, s.now())
	if _, ok := s.sessions[sess.ID]; ok {
		return store.Session{}, fmt.Errorf("%w: duplicate session %s", internalerr.ErrInvalidInput, sess.ID)
	}
	s.sessions[sess.ID] = sess
	s.order = append(s.order, sess.ID)
	return sess, nil
}

// GetSession returns a session by ID.
func (s *Store) GetSession(ctx context.Context, id string) (store.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return store.Session{}, fmt.Errorf("%w: session %s", internalerr.ErrNotFound, id)
	}
	return sess, nil
}

// RecentSessions returns up to limit sessions, newest first.
func (s *Store) RecentSessions(ctx context.Context, limit int) ([]store.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.Session, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.sessions[id])
	}
	slices.SortStableFunc(out, func(a, b store.Session) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.ID, a.ID)
	})
	if limit < len(out) {
		out = out[:max(limit, 0)]
	}
	return out, nil
}

// AddQuestions appends questions to a session.
func (s *Store) AddQuestions(ctx context.Context, sessionID string, qs []generate.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; !ok {
		return fmt.Errorf("%w: session %s", internalerr.ErrNotFound, sessionID)
	}
	for _, q := range qs {
		q.Options = slices.Clone(q.Options)
		s.questions[sessionID] = append(s.questions[sessionID], q)
	}
	return nil
}

// SaveQuiz stores a session and its questions under one lock.
func (s *Store) SaveQuiz(ctx context.Context, sess store.Session, qs []generate.Question) (store.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess = store.Prepare(sess, s.now())
	if _, ok := s.sessions[sess.ID]; ok {
		return store.Session{}, fmt.Errorf("%w: duplicate session %s", internalerr.ErrInvalidInput, sess.ID)
	}
	stored := make(generate.QuestionSet, len(qs))
	for i, q := range qs {
		q.Options = slices.Clone(q.Options)
		stored[i] = q
	}
	s.sessions[sess.ID] = sess
	s.order = append(s.order, sess.ID)
	s.questions[sess.ID] = stored
	return sess, nil
}

// ListQuestions returns a copy of the questions of a session in order.
func (s *Store) ListQuestions(ctx context.Context, sessionID string) (generate.QuestionSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.sessions[sessionID]; !ok {
		return nil, fmt.Errorf("%w: session %s", internalerr.ErrNotFound, sessionID)
	}
	src := s.questions[sessionID]
	out := make(generate.QuestionSet, len(src))
	for i, q := range src {
		q.Options = slices.Clone(q.Options)
		out[i] = q
	}
	return out, nil
}

var _ store.Store = (*Store)(nil)
