// Package store persists generation sessions and their questions.
package store

import (
	"context"
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/quizgen/pkg/quizgen/generate"
)

// Store is the persistence interface for generated quizzes
type Store interface {
	Close() error

	// CreateSession stores s. A missing ID or CreatedAt is filled in and the
	// stored session is returned.
	CreateSession(ctx context.Context, s Session) (Session, error)
	GetSession(ctx context.Context, id string) (Session, error)
	// RecentSessions returns up to limit sessions, newest first.
	RecentSessions(ctx context.Context, limit int) ([]Session, error)

	// AddQuestions appends questions to a session in order.
	AddQuestions(ctx context.Context, sessionID string, qs []generate.Question) error
	ListQuestions(ctx context.Context, sessionID string) (generate.QuestionSet, error)

	// SaveQuiz stores a session and its questions in one write. When it
	// fails neither is stored.
	SaveQuiz(ctx context.Context, s Session, qs []generate.Question) (Session, error)
}

// Session records one pipeline run
type Session struct {
	ID        string        `json:"id"`
	Source    string        `json:"source"` // uploaded file name
	Material  string        `json:"material"`
	Variant   generate.Kind `json:"variant"`
	Count     int           `json:"count"` // requested, not produced
	CreatedAt time.Time     `json:"created_at"`
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewID returns a ULID for t. IDs created in the same process sort in
// creation order.
func NewID(t time.Time) string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

// Prepare fills in a missing ID and creation time.
func Prepare(s Session, now time.Time) Session {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.CreatedAt = s.CreatedAt.UTC()
	if s.ID == "" {
		s.ID = NewID(s.CreatedAt)
	}
	return s
}
