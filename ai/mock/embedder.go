package mock

import (
	"context"
	"hash/fnv"
	"math"
	"sync"

	"github.com/poiesic/faqmatch/ai"
)

const defaultDimension = 384

// MockEmbedder is a test double for ai.Embedder.
// It allows custom behavior injection via function fields.
type MockEmbedder struct {
	// EmbedTextFunc is called by EmbedText if set.
	// If nil, uses default deterministic behavior.
	EmbedTextFunc func(ctx context.Context, text string) ([]float32, error)

	// EmbedTextsFunc is called by EmbedTexts if set.
	// If nil, uses default deterministic behavior.
	EmbedTextsFunc func(ctx context.Context, texts []string) ([][]float32, error)

	seed      int64
	dim       int
	strategy  ai.Strategy
	mu        sync.Mutex
	callCount int
}

// NewMockEmbedder creates a mock embedder with default deterministic behavior.
// Note: Returns concrete type to allow test assertions and behavior injection.
func NewMockEmbedder() *MockEmbedder {
	return &MockEmbedder{seed: 42, dim: defaultDimension, strategy: ai.StrategyPooled}
}

// NewMockEmbedderFromConfig creates a mock honoring the config's seed,
// strategy and dimension defaults. Both strategies are supported; they
// produce distinct but individually deterministic vectors.
func NewMockEmbedderFromConfig(config *ai.Config) (*MockEmbedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &MockEmbedder{seed: config.Seed, dim: defaultDimension, strategy: config.Strategy}, nil
}

// EmbedText generates a deterministic embedding derived from the seed and
// the text.
func (m *MockEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()

	if m.EmbedTextFunc != nil {
		return m.EmbedTextFunc(ctx, text)
	}
	return m.deterministicVector(text), nil
}

// EmbedTexts generates deterministic embeddings for multiple texts.
func (m *MockEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()

	if m.EmbedTextsFunc != nil {
		return m.EmbedTextsFunc(ctx, texts)
	}

	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = m.deterministicVector(text)
	}
	return vectors, nil
}

// CallCount returns the number of times any method was called.
func (m *MockEmbedder) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Reset clears the call count and any injected behavior.
func (m *MockEmbedder) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.EmbedTextFunc = nil
	m.EmbedTextsFunc = nil
}

// deterministicVector re-seeds a small LCG from (seed, text) before every
// call, mirroring the re-seeding discipline real providers must follow.
func (m *MockEmbedder) deterministicVector(text string) []float32 {
	h := fnv.New64a()
	h.Write([]byte(text))
	state := h.Sum64() ^ uint64(m.seed)
	if m.strategy == ai.StrategyLayerAggregated {
		// distinct stream per strategy: same text, different vector
		state = state*0x9E3779B97F4A7C15 + 1
	}

	vector := make([]float32, m.dim)
	for i := range vector {
		state = state*6364136223846793005 + 1442695040888963407
		vector[i] = float32(state>>40)/float32(1<<24) - 0.5
	}

	// Unit-length output, like a pooled sentence vector.
	var sumSquares float64
	for _, v := range vector {
		sumSquares += float64(v) * float64(v)
	}
	if sumSquares > 0 {
		norm := float32(math.Sqrt(sumSquares))
		for i := range vector {
			vector[i] /= norm
		}
	}
	return vector
}
