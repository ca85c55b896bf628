package badger

import (
	"context"
	"testing"

	"github.com/poiesic/faqmatch/core"
	"github.com/poiesic/faqmatch/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepos(t *testing.T) (storage.FAQRepository, storage.FeedbackRepository) {
	t.Helper()
	faqRepo, feedbackRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		feedbackRepo.Close()
		faqRepo.Close()
		backend.Close()
	})
	return faqRepo, feedbackRepo
}

func entriesFor(questions ...string) []*core.Entry {
	result := make([]*core.Entry, len(questions))
	for i, q := range questions {
		result[i] = &core.Entry{Question: q, Answer: "answer to " + q, Source: "test"}
	}
	return result
}

func TestFAQRepository_AddEntries(t *testing.T) {
	repo, _ := newTestRepos(t)
	ctx := context.Background()

	t.Run("assigns ids and timestamps", func(t *testing.T) {
		added, err := repo.AddEntries(ctx, entriesFor("first", "second")...)
		require.NoError(t, err)
		require.Len(t, added, 2)
		for _, entry := range added {
			assert.NotZero(t, entry.Id)
			assert.False(t, entry.InsertedAt.IsZero())
			assert.Equal(t, entry.InsertedAt, entry.UpdatedAt)
		}
		assert.NotEqual(t, added[0].Id, added[1].Id)
	})

	t.Run("content based ids are stable", func(t *testing.T) {
		added, err := repo.AddEntries(ctx, entriesFor("first")...)
		require.NoError(t, err)
		assert.Equal(t, core.IDFromContent(core.CanonicalKey("first")), added[0].Id)
	})

	t.Run("rejects invalid entries", func(t *testing.T) {
		_, err := repo.AddEntries(ctx, &core.Entry{Question: "q"})
		assert.ErrorIs(t, err, core.ErrInvalidEntry)
	})
}

func TestFAQRepository_ListEntries(t *testing.T) {
	repo, _ := newTestRepos(t)
	ctx := context.Background()

	questions := []string{"delta", "alpha", "charlie", "bravo"}
	_, err := repo.AddEntries(ctx, entriesFor(questions...)...)
	require.NoError(t, err)

	listed, err := repo.ListEntries(ctx)
	require.NoError(t, err)
	require.Len(t, listed, len(questions))
	for i, q := range questions {
		assert.Equal(t, q, listed[i].Question, "insertion order at %d", i)
		assert.Equal(t, "answer to "+q, listed[i].Answer)
	}

	count, err := repo.CountEntries(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(questions), count)
}

func TestFAQRepository_ReplaceAll(t *testing.T) {
	repo, _ := newTestRepos(t)
	ctx := context.Background()

	_, err := repo.AddEntries(ctx, entriesFor("old one", "old two")...)
	require.NoError(t, err)

	replacement := []string{"new one", "new two", "new three"}
	_, err = repo.ReplaceAll(ctx, entriesFor(replacement...)...)
	require.NoError(t, err)

	listed, err := repo.ListEntries(ctx)
	require.NoError(t, err)
	require.Len(t, listed, len(replacement))
	for i, q := range replacement {
		assert.Equal(t, q, listed[i].Question)
	}

	// the old question index is gone too
	_, err = repo.GetEntryByQuestion(ctx, "old one")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	t.Run("replace with empty clears", func(t *testing.T) {
		_, err := repo.ReplaceAll(ctx)
		require.NoError(t, err)
		count, err := repo.CountEntries(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})
}

func TestFAQRepository_GetEntryByQuestion(t *testing.T) {
	repo, _ := newTestRepos(t)
	ctx := context.Background()

	_, err := repo.AddEntries(ctx, entriesFor("How does it spread?")...)
	require.NoError(t, err)

	t.Run("exact text", func(t *testing.T) {
		entry, err := repo.GetEntryByQuestion(ctx, "How does it spread?")
		require.NoError(t, err)
		assert.Equal(t, "answer to How does it spread?", entry.Answer)
	})

	t.Run("case and whitespace insensitive", func(t *testing.T) {
		entry, err := repo.GetEntryByQuestion(ctx, "  how DOES it  spread? ")
		require.NoError(t, err)
		assert.Equal(t, "How does it spread?", entry.Question)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := repo.GetEntryByQuestion(ctx, "unknown question")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("first entry wins on duplicate questions", func(t *testing.T) {
		first := &core.Entry{Question: "dup", Answer: "first answer"}
		second := &core.Entry{Question: "DUP", Answer: "second answer"}
		_, err := repo.AddEntries(ctx, first, second)
		require.NoError(t, err)

		entry, err := repo.GetEntryByQuestion(ctx, "dup")
		require.NoError(t, err)
		assert.Equal(t, "first answer", entry.Answer)
	})
}

func TestFAQRepository_PersistsVectorlessEntries(t *testing.T) {
	repo, _ := newTestRepos(t)
	ctx := context.Background()

	entry := &core.Entry{
		Question: "q",
		Answer:   "a",
		Metadata: map[string]string{"topic": "general"},
	}
	_, err := repo.AddEntries(ctx, entry)
	require.NoError(t, err)

	listed, err := repo.ListEntries(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, entry.Metadata, listed[0].Metadata)
}

func TestFeedbackRepository(t *testing.T) {
	_, repo := newTestRepos(t)
	ctx := context.Background()

	t.Run("add assigns id and timestamp", func(t *testing.T) {
		fb := &core.Feedback{
			UserQuestion:    "can my dog catch it",
			Related:         false,
			MatchedQuestion: "Can animals get infected?",
			MatchedAnswer:   "Some animals can.",
			Score:           0.4375,
		}
		added, err := repo.AddFeedback(ctx, fb)
		require.NoError(t, err)
		require.Len(t, added, 1)
		assert.NotZero(t, added[0].Id)
		assert.False(t, added[0].InsertedAt.IsZero())
	})

	t.Run("list preserves insertion order", func(t *testing.T) {
		for _, q := range []string{"second question", "third question"} {
			_, err := repo.AddFeedback(ctx, &core.Feedback{
				UserQuestion:    q,
				Related:         true,
				MatchedQuestion: "m",
				MatchedAnswer:   "a",
				Score:           1,
			})
			require.NoError(t, err)
		}

		listed, err := repo.ListFeedback(ctx)
		require.NoError(t, err)
		require.Len(t, listed, 3)
		assert.Equal(t, "can my dog catch it", listed[0].UserQuestion)
		assert.Equal(t, "second question", listed[1].UserQuestion)
		assert.Equal(t, "third question", listed[2].UserQuestion)
	})

	t.Run("rejects invalid feedback", func(t *testing.T) {
		_, err := repo.AddFeedback(ctx, &core.Feedback{})
		assert.ErrorIs(t, err, core.ErrInvalidFeedback)
	})
}
