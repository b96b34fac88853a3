package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/quizgen/pkg/quizgen/category"
	"github.com/cognicore/quizgen/pkg/quizgen/generate"
	"github.com/cognicore/quizgen/pkg/quizgen/internalerr"
	"github.com/cognicore/quizgen/pkg/quizgen/store"
)

// timeLayout is fixed width so created_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// PRAGMAs are per connection.
	db.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}
	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db, now: time.Now}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS sessions (
	id TEXT PRIMARY KEY,
	source TEXT NOT NULL,
	material TEXT NOT NULL,
	variant TEXT NOT NULL,
	requested INTEGER NOT NULL,
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sessions_created ON sessions(created_at);

CREATE TABLE IF NOT EXISTS questions (
	session_id TEXT NOT NULL,
	seq INTEGER NOT NULL,
	kind TEXT NOT NULL,
	prompt TEXT NOT NULL,
	options TEXT,
	answer TEXT NOT NULL,
	category TEXT NOT NULL,
	concept TEXT,
	source INTEGER NOT NULL,
	PRIMARY KEY(session_id, seq),
	FOREIGN KEY(session_id) REFERENCES sessions(id) ON DELETE CASCADE
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

func (s *sqliteStore) CreateSession(ctx context.Context, sess store.Session) (store.Session, error) {
	sess = store.Prepare(sess, s.now())
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions(id, source, material, variant, requested, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, sess.ID, sess.Source, sess.Material, string(sess.Variant), sess.Count, sess.CreatedAt.Format(timeLayout))
	if err != nil {
		return store.Session{}, fmt.Errorf("insert session: %w", err)
	}
	return sess, nil
}

func (s *sqliteStore) GetSession(ctx context.Context, id string) (store.Session, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, source, material, variant, requested, created_at FROM sessions WHERE id = ?
	`, id)
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Session{}, fmt.Errorf("%w: session %s", internalerr.ErrNotFound, id)
	}
	return sess, err
}

func (s *sqliteStore) RecentSessions(ctx context.Context, limit int) ([]store.Session, error) {
	if limit <= 0 {
		return []store.Session{}, nil
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source, material, variant, requested, created_at FROM sessions
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []store.Session{}
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (store.Session, error) {
	var (
		sess    store.Session
		variant string
		created string
	)
	if err := row.Scan(&sess.ID, &sess.Source, &sess.Material, &variant, &sess.Count, &created); err != nil {
		return store.Session{}, err
	}
	t, err := time.Parse(timeLayout, created)
	if err != nil {
		return store.Session{}, fmt.Errorf("session %s: created_at: %w", sess.ID, err)
	}
	sess.Variant = generate.Kind(variant)
	sess.CreatedAt = t
	return sess, nil
}

func (s *sqliteStore) AddQuestions(ctx context.Context, sessionID string, qs []generate.Question) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var next int
	err = tx.QueryRowContext(ctx, `
		SELECT COALESCE((SELECT MAX(seq) + 1 FROM questions WHERE session_id = ?), 0)
		FROM sessions WHERE id = ?
	`, sessionID, sessionID).Scan(&next)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: session %s", internalerr.ErrNotFound, sessionID)
	}
	if err != nil {
		return err
	}

	if err := insertQuestions(ctx, tx, sessionID, next, qs); err != nil {
		return err
	}
	return tx.Commit()
}

// SaveQuiz inserts the session and its questions in one transaction.
func (s *sqliteStore) SaveQuiz(ctx context.Context, sess store.Session, qs []generate.Question) (store.Session, error) {
	sess = store.Prepare(sess, s.now())

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return store.Session{}, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO sessions(id, source, material, variant, requested, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, sess.ID, sess.Source, sess.Material, string(sess.Variant), sess.Count, sess.CreatedAt.Format(timeLayout)); err != nil {
		return store.Session{}, fmt.Errorf("insert session: %w", err)
	}
	if err := insertQuestions(ctx, tx, sess.ID, 0, qs); err != nil {
		return store.Session{}, err
	}
	if err := tx.Commit(); err != nil {
		return store.Session{}, err
	}
	return sess, nil
}

// insertQuestions writes qs with sequence numbers starting at first.
func insertQuestions(ctx context.Context, tx *sql.Tx, sessionID string, first int, qs []generate.Question) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO questions(session_id, seq, kind, prompt, options, answer, category, concept, source)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, q := range qs {
		var options sql.NullString
		if len(q.Options) > 0 {
			raw, err := json.Marshal(q.Options)
			if err != nil {
				return err
			}
			options = sql.NullString{String: string(raw), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx,
			sessionID, first+i, string(q.Kind), q.Prompt, options, q.Answer,
			string(q.Category), q.Concept, q.Source,
		); err != nil {
			return fmt.Errorf("insert question %d: %w", i, err)
		}
	}

	return nil
}

func (s *sqliteStore) ListQuestions(ctx context.Context, sessionID string) (generate.QuestionSet, error) {
	if _, err := s.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, prompt, options, answer, category, concept, source
		FROM questions WHERE session_id = ?
		ORDER BY seq
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := generate.QuestionSet{}
	for rows.Next() {
		var (
			q        generate.Question
			kind     string
			cat      string
			options  sql.NullString
			conceptV sql.NullString
		)
		if err := rows.Scan(&kind, &q.Prompt, &options, &q.Answer, &cat, &conceptV, &q.Source); err != nil {
			return nil, err
		}
		if options.Valid {
			if err := json.Unmarshal([]byte(options.String), &q.Options); err != nil {
				return nil, fmt.Errorf("decode options: %w", err)
			}
		}
		q.Kind = generate.Kind(kind)
		q.Category = category.Category(cat)
		q.Concept = conceptV.String
		out = append(out, q)
	}
	return out, rows.Err()
}
