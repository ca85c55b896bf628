// Package fastembed implements ai.Embedder with local ONNX models, so
// matching works without any network service.
package fastembed

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	fastembed "github.com/anush008/fastembed-go"
	"github.com/poiesic/faqmatch/ai"
	"github.com/poiesic/faqmatch/core"
)

const defaultBatchSize = 256

// modelNames maps friendly model identifiers to fastembed constants.
var modelNames = map[string]fastembed.EmbeddingModel{
	"BAAI/bge-small-en-v1.5":                 fastembed.BGESmallENV15,
	"BAAI/bge-small-en":                      fastembed.BGESmallEN,
	"BAAI/bge-base-en-v1.5":                  fastembed.BGEBaseENV15,
	"BAAI/bge-base-en":                       fastembed.BGEBaseEN,
	"sentence-transformers/all-MiniLM-L6-v2": fastembed.AllMiniLML6V2,
}

// Embedder implements ai.Embedder using a local ONNX model.
type Embedder struct {
	mu     sync.Mutex
	model  *fastembed.FlagEmbedding
	logger *slog.Logger
}

// newEmbedder is an internal constructor that returns the concrete type.
func newEmbedder(config *ai.Config) (*Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.Strategy != ai.StrategyPooled {
		// fastembed pools inside the ONNX graph; hidden states are
		// not exposed.
		return nil, fmt.Errorf("%w: fastembed provider supports only the pooled strategy, got %s", core.ErrInvalidConfig, config.Strategy)
	}

	model, ok := modelNames[config.Model]
	if !ok {
		model = fastembed.EmbeddingModel(config.Model)
	}

	showProgress := false
	opts := &fastembed.InitOptions{
		Model:                model,
		CacheDir:             config.CacheDir,
		MaxLength:            512,
		ShowDownloadProgress: &showProgress,
	}

	flagEmbed, err := fastembed.NewFlagEmbedding(opts)
	if err != nil {
		return nil, fmt.Errorf("initializing fastembed model %q: %w", config.Model, err)
	}

	return &Embedder{
		model:  flagEmbed,
		logger: slog.Default().With("component", "fastembed-embedder"),
	}, nil
}

// NewEmbedder creates a new local embedder using the provided
// configuration, downloading the model into the cache directory on first
// use.
//
// Returns ai.Embedder interface to enforce abstraction.
func NewEmbedder(config *ai.Config) (ai.Embedder, error) {
	return newEmbedder(config)
}

// EmbedText generates a vector embedding for a single text string.
//
// Corpus and query texts go through the same Embed call on purpose:
// asymmetric query/passage prefixes would make their similarity scores
// incomparable.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedTexts generates vector embeddings for multiple text strings in a batch.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// The ONNX session is not safe for concurrent inference.
	e.mu.Lock()
	vectors, err := e.model.Embed(texts, defaultBatchSize)
	e.mu.Unlock()
	if err != nil {
		e.logger.Error("failed to generate embeddings", "count", len(texts), "err", err)
		return nil, fmt.Errorf("%w: %w", core.ErrEmbeddingProvider, err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("%w: got %d vectors for %d texts", core.ErrEmbeddingProvider, len(vectors), len(texts))
	}
	return vectors, nil
}

// Close releases the ONNX session.
func (e *Embedder) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.model != nil {
		return e.model.Destroy()
	}
	return nil
}
