package mock

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/faqmatch/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockEmbedder_Deterministic(t *testing.T) {
	ctx := context.Background()
	m := NewMockEmbedder()

	t.Run("same text same vector", func(t *testing.T) {
		a, err := m.EmbedText(ctx, "how does the virus spread")
		require.NoError(t, err)
		b, err := m.EmbedText(ctx, "how does the virus spread")
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("different text different vector", func(t *testing.T) {
		a, err := m.EmbedText(ctx, "masks")
		require.NoError(t, err)
		b, err := m.EmbedText(ctx, "vaccines")
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})

	t.Run("batch matches single", func(t *testing.T) {
		single, err := m.EmbedText(ctx, "quarantine rules")
		require.NoError(t, err)
		batch, err := m.EmbedTexts(ctx, []string{"quarantine rules"})
		require.NoError(t, err)
		require.Len(t, batch, 1)
		assert.Equal(t, single, batch[0])
	})

	t.Run("dimension is stable", func(t *testing.T) {
		v, err := m.EmbedText(ctx, "anything")
		require.NoError(t, err)
		assert.Len(t, v, defaultDimension)
	})
}

func TestMockEmbedder_SeedAndStrategy(t *testing.T) {
	ctx := context.Background()

	t.Run("seed changes vectors", func(t *testing.T) {
		a, err := NewMockEmbedderFromConfig(ai.NewConfig(ai.WithSeed(1)))
		require.NoError(t, err)
		b, err := NewMockEmbedderFromConfig(ai.NewConfig(ai.WithSeed(2)))
		require.NoError(t, err)

		va, err := a.EmbedText(ctx, "same text")
		require.NoError(t, err)
		vb, err := b.EmbedText(ctx, "same text")
		require.NoError(t, err)
		assert.NotEqual(t, va, vb)
	})

	t.Run("strategies yield distinct vectors", func(t *testing.T) {
		pooled, err := NewMockEmbedderFromConfig(ai.NewConfig(ai.WithStrategy(ai.StrategyPooled)))
		require.NoError(t, err)
		layered, err := NewMockEmbedderFromConfig(ai.NewConfig(ai.WithStrategy(ai.StrategyLayerAggregated)))
		require.NoError(t, err)

		vp, err := pooled.EmbedText(ctx, "same text")
		require.NoError(t, err)
		vl, err := layered.EmbedText(ctx, "same text")
		require.NoError(t, err)
		assert.NotEqual(t, vp, vl)
	})

	t.Run("each strategy deterministic on its own", func(t *testing.T) {
		layered, err := NewMockEmbedderFromConfig(ai.NewConfig(ai.WithStrategy(ai.StrategyLayerAggregated)))
		require.NoError(t, err)
		a, err := layered.EmbedText(ctx, "repeat")
		require.NoError(t, err)
		b, err := layered.EmbedText(ctx, "repeat")
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})
}

func TestMockEmbedder_Injection(t *testing.T) {
	ctx := context.Background()
	m := NewMockEmbedder()

	injected := errors.New("provider down")
	m.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, injected
	}

	_, err := m.EmbedTexts(ctx, []string{"a"})
	assert.ErrorIs(t, err, injected)

	m.Reset()
	vectors, err := m.EmbedTexts(ctx, []string{"a"})
	require.NoError(t, err)
	assert.Len(t, vectors, 1)
}

func TestMockEmbedder_CallCount(t *testing.T) {
	ctx := context.Background()
	m := NewMockEmbedder()

	_, err := m.EmbedText(ctx, "one")
	require.NoError(t, err)
	_, err = m.EmbedTexts(ctx, []string{"two", "three"})
	require.NoError(t, err)

	assert.Equal(t, 2, m.CallCount())
	m.Reset()
	assert.Equal(t, 0, m.CallCount())
}
