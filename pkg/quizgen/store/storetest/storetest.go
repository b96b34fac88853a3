// Package storetest holds behaviour checks shared by every store.Store
// implementation.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/quizgen/pkg/quizgen/category"
	"github.com/cognicore/quizgen/pkg/quizgen/generate"
	"github.com/cognicore/quizgen/pkg/quizgen/internalerr"
	"github.com/cognicore/quizgen/pkg/quizgen/store"
)

// Run exercises st. open must return an empty store.
func Run(t *testing.T, open func(t *testing.T) store.Store) {
	t.Run("SessionRoundTrip", func(t *testing.T) { sessionRoundTrip(t, open(t)) })
	t.Run("MissingSession", func(t *testing.T) { missingSession(t, open(t)) })
	t.Run("QuestionsKeepOrder", func(t *testing.T) { questionsKeepOrder(t, open(t)) })
	t.Run("RecentSessions", func(t *testing.T) { recentSessions(t, open(t)) })
	t.Run("SaveQuiz", func(t *testing.T) { saveQuiz(t, open(t)) })
}

func sampleQuestions() generate.QuestionSet {
	return generate.QuestionSet{
		{
			Prompt:   "Perhatikan pernyataan berikut: ...",
			Options:  []string{"fungsi", "definisi", "tujuan", "manfaat"},
			Answer:   "definisi",
			Kind:     generate.KindMCQ,
			Category: category.Definition,
			Source:   0,
		},
		{
			Prompt:   "Uraikan router berdasarkan materi di atas!",
			Answer:   "Fungsi router adalah meneruskan paket data antar jaringan.",
			Kind:     generate.KindEssay,
			Category: category.Function,
			Concept:  "router",
			Source:   3,
		},
	}
}

func sessionRoundTrip(t *testing.T, st store.Store) {
	ctx := context.Background()
	defer st.Close()

	created, err := st.CreateSession(ctx, store.Session{Source: "bab1.pdf", Material: "Sistem adalah kumpulan komponen.", Variant: generate.KindMCQ, Count: 5})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.False(t, created.CreatedAt.IsZero())

	got, err := st.GetSession(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "bab1.pdf", got.Source)
	assert.Equal(t, "Sistem adalah kumpulan komponen.", got.Material)
	assert.Equal(t, generate.KindMCQ, got.Variant)
	assert.Equal(t, 5, got.Count)
	assert.True(t, created.CreatedAt.Equal(got.CreatedAt))

	qs, err := st.ListQuestions(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, qs)
}

func missingSession(t *testing.T, st store.Store) {
	ctx := context.Background()
	defer st.Close()

	_, err := st.GetSession(ctx, "01ARZ3NDEKTSV4RRFFQ69G5FAV")
	assert.True(t, errors.Is(err, internalerr.ErrNotFound), "got %v", err)

	err = st.AddQuestions(ctx, "nope", sampleQuestions())
	assert.True(t, errors.Is(err, internalerr.ErrNotFound), "got %v", err)

	_, err = st.ListQuestions(ctx, "nope")
	assert.True(t, errors.Is(err, internalerr.ErrNotFound), "got %v", err)
}

func questionsKeepOrder(t *testing.T, st store.Store) {
	ctx := context.Background()
	defer st.Close()

	sess, err := st.CreateSession(ctx, store.Session{Source: "m.docx", Material: "Sistem adalah kumpulan komponen.", Variant: generate.KindEssay, Count: 4})
	require.NoError(t, err)

	qs := sampleQuestions()
	require.NoError(t, st.AddQuestions(ctx, sess.ID, qs[:1]))
	require.NoError(t, st.AddQuestions(ctx, sess.ID, qs[1:]))

	got, err := st.ListQuestions(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, qs, got)

	// Returned slices are copies.
	got[0].Options[0] = "ubah"
	again, err := st.ListQuestions(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "fungsi", again[0].Options[0])
}

func recentSessions(t *testing.T, st store.Store) {
	ctx := context.Background()
	defer st.Close()

	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	var ids []string
	for i := range 3 {
		s, err := st.CreateSession(ctx, store.Session{
			Source: "m.pdf", Material: "Sistem adalah kumpulan komponen.",
			Variant:   generate.KindEssay,
			Count:     i + 1,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
		ids = append(ids, s.ID)
	}

	recent, err := st.RecentSessions(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, ids[2], recent[0].ID)
	assert.Equal(t, ids[1], recent[1].ID)

	all, err := st.RecentSessions(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	none, err := st.RecentSessions(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func saveQuiz(t *testing.T, st store.Store) {
	ctx := context.Background()
	defer st.Close()

	qs := sampleQuestions()
	sess, err := st.SaveQuiz(ctx, store.Session{Source: "bab3.pdf", Material: "Sistem adalah kumpulan komponen.", Variant: generate.KindMCQ, Count: 2}, qs)
	require.NoError(t, err)
	require.NotEmpty(t, sess.ID)

	got, err := st.ListQuestions(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, qs, got)

	qs[0].Options[0] = "ubah"
	got, err = st.ListQuestions(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "fungsi", got[0].Options[0])

	// A rejected session leaves the stored one untouched.
	_, err = st.SaveQuiz(ctx, store.Session{ID: sess.ID, Source: "lain.pdf", Material: "Materi lain.", Variant: generate.KindEssay, Count: 1}, sampleQuestions()[1:])
	require.Error(t, err)

	kept, err := st.GetSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "bab3.pdf", kept.Source)
	got, err = st.ListQuestions(ctx, sess.ID)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	recent, err := st.RecentSessions(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, recent, 1)
}
