package faqmatch

import (
	"context"
	"testing"

	"github.com/poiesic/faqmatch/ai/mock"
	"github.com/poiesic/faqmatch/config"
	"github.com/poiesic/faqmatch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	cfg := config.Default()
	cfg.Storage.InMemory = true
	cfg.Embedder.Provider = config.ProviderMock

	svc, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { svc.Close() })
	return svc
}

func corpusEntries() []*core.Entry {
	return []*core.Entry{
		{Question: "How does the virus spread?", Answer: "Through respiratory droplets.", Source: "who"},
		{Question: "Should I wear a mask?", Answer: "Yes, in crowded indoor spaces.", Source: "who"},
		{Question: "Can animals get infected?", Answer: "Some animals can.", Source: "who"},
	}
}

func TestNew(t *testing.T) {
	t.Run("on-disk store", func(t *testing.T) {
		cfg := config.Default()
		cfg.Storage.Path = t.TempDir()
		cfg.Embedder.Provider = config.ProviderMock

		svc, err := New(cfg)
		require.NoError(t, err)
		assert.NoError(t, svc.Close())
	})

	t.Run("invalid config rejected", func(t *testing.T) {
		cfg := config.Default()
		cfg.Similarity.Threshold = 9
		_, err := New(cfg)
		assert.ErrorIs(t, err, core.ErrInvalidConfig)
	})

	t.Run("injected embedder", func(t *testing.T) {
		cfg := config.Default()
		cfg.Storage.InMemory = true

		svc, err := New(cfg, WithEmbedder(mock.NewMockEmbedder()))
		require.NoError(t, err)
		assert.NoError(t, svc.Close())
	})
}

func TestService_ImportAndAsk(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.ImportEntries(ctx, corpusEntries()))
	assert.Equal(t, 3, svc.Matcher().CorpusLen())

	t.Run("stored in insertion order", func(t *testing.T) {
		listed, err := svc.FAQRepository().ListEntries(ctx)
		require.NoError(t, err)
		require.Len(t, listed, 3)
		assert.Equal(t, "How does the virus spread?", listed[0].Question)
		assert.Equal(t, "Can animals get infected?", listed[2].Question)
	})

	t.Run("exact question answers with max score", func(t *testing.T) {
		result, err := svc.Ask(ctx, "should i wear a mask?", 1)
		require.NoError(t, err)
		assert.Equal(t, "Yes, in crowded indoor spaces.", result.Entries[0].Answer)
		assert.Equal(t, float32(1.0), result.Scores[0])
	})

	t.Run("unrelated question yields no match", func(t *testing.T) {
		_, err := svc.Ask(ctx, "what is the capital of portugal", 1)
		assert.ErrorIs(t, err, core.ErrNoMatch)
	})
}

func TestService_RefreshFromStore(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.FAQRepository().AddEntries(ctx, corpusEntries()...)
	require.NoError(t, err)
	assert.Equal(t, 0, svc.Matcher().CorpusLen())

	require.NoError(t, svc.RefreshFromStore(ctx))
	assert.Equal(t, 3, svc.Matcher().CorpusLen())
}

func TestService_Compare(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	t.Run("identical texts", func(t *testing.T) {
		score, err := svc.Compare(ctx, "wash your hands", "wash your hands")
		require.NoError(t, err)
		assert.InDelta(t, 1.0, score, 1e-5)
	})

	t.Run("identical after normalization", func(t *testing.T) {
		score, err := svc.Compare(ctx, "I can't travel", "I cannot travel")
		require.NoError(t, err)
		assert.InDelta(t, 1.0, score, 1e-5)
	})
}

func TestService_RecordFeedback(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.ImportEntries(ctx, corpusEntries()))

	result, err := svc.Ask(ctx, "Should I wear a mask?", 1)
	require.NoError(t, err)

	fb := &core.Feedback{
		UserQuestion:    "Should I wear a mask?",
		Related:         true,
		MatchedQuestion: result.Entries[0].Question,
		MatchedAnswer:   result.Entries[0].Answer,
		Score:           result.Scores[0],
	}
	require.NoError(t, svc.RecordFeedback(ctx, fb))

	listed, err := svc.FeedbackRepository().ListFeedback(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.True(t, listed[0].Related)
	assert.Equal(t, float32(1.0), listed[0].Score)
}
