package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/quizgen/pkg/quizgen/generate"
	"github.com/cognicore/quizgen/pkg/quizgen/internalerr"
	"github.com/cognicore/quizgen/pkg/quizgen/store"
	"github.com/cognicore/quizgen/pkg/quizgen/store/storetest"
)

func TestSQLiteStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		st, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "quizgen.db"))
		require.NoError(t, err)
		return st
	})
}

func TestSQLiteReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "quizgen.db")

	st, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	sess, err := st.CreateSession(ctx, store.Session{Source: "bab2.pdf", Material: "Sistem adalah kumpulan komponen.", Variant: generate.KindEssay, Count: 2})
	require.NoError(t, err)
	require.NoError(t, st.AddQuestions(ctx, sess.ID, generate.QuestionSet{{
		Prompt: "Jelaskan sistem berdasarkan materi di atas!",
		Answer: "Sistem adalah kumpulan komponen yang saling berhubungan.",
		Kind:   generate.KindEssay,
	}}))
	require.NoError(t, st.Close())

	st, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer st.Close()

	qs, err := st.ListQuestions(ctx, sess.ID)
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Nil(t, qs[0].Options)
	assert.Equal(t, "Jelaskan sistem berdasarkan materi di atas!", qs[0].Prompt)
}

func TestSQLiteRejectsDuplicateSession(t *testing.T) {
	ctx := context.Background()
	st, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "quizgen.db"))
	require.NoError(t, err)
	defer st.Close()

	_, err = st.CreateSession(ctx, store.Session{ID: "same", Source: "a.pdf", Material: "Sistem adalah kumpulan komponen.", Variant: generate.KindMCQ, Count: 1})
	require.NoError(t, err)
	_, err = st.CreateSession(ctx, store.Session{ID: "same", Source: "b.pdf", Material: "Sistem adalah kumpulan komponen.", Variant: generate.KindMCQ, Count: 1})
	assert.Error(t, err)
}

func TestSQLiteSaveQuizRollsBackOnQuestionFailure(t *testing.T) {
	ctx := context.Background()
	st, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "quizgen.db"))
	require.NoError(t, err)
	defer st.Close()

	_, err = st.(*sqliteStore).db.ExecContext(ctx, `
		CREATE TRIGGER reject_questions BEFORE INSERT ON questions
		BEGIN SELECT RAISE(ABORT, 'disk full'); END
	`)
	require.NoError(t, err)

	sess := store.Session{ID: "01HZX3V8M6Q2W4Y7Z9A1B3C5D7", Source: "bab1.pdf", Material: "Sistem adalah kumpulan komponen.", Variant: generate.KindEssay, Count: 1}
	_, err = st.SaveQuiz(ctx, sess, generate.QuestionSet{{
		Prompt: "Jelaskan sistem berdasarkan materi di atas!",
		Answer: "Sistem adalah kumpulan komponen yang saling berhubungan.",
		Kind:   generate.KindEssay,
	}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	_, err = st.GetSession(ctx, sess.ID)
	assert.True(t, errors.Is(err, internalerr.ErrNotFound), "got %v", err)
	recent, err := st.RecentSessions(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, recent)
}
