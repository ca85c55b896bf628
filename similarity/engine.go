// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package similarity

import (
	"fmt"
	"log/slog"
	"sort"
	"sync/atomic"

	"github.com/poiesic/faqmatch/core"
)

// matrix is an immutable snapshot of the stored embedding matrix. Readers
// always hold either a complete old snapshot or a complete new one.
type matrix struct {
	vectors [][]float32
	dim     int
}

// Engine owns the corpus of stored reference vectors and ranks queries
// against them by normalized inner product. Brute-force scoring; adequate
// for corpora of tens to low thousands of entries. An approximate index
// would slot in behind the same Rank contract if scale ever demands it.
//
// Reads (Rank, Len) are safe concurrently with SetVectors, which swaps in
// a fully built replacement matrix atomically.
type Engine struct {
	norm   Norm
	mat    atomic.Pointer[matrix]
	logger *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
	}
}

// NewEngine creates an Engine with no stored corpus.
func NewEngine(norm Norm, opts ...Option) *Engine {
	e := &Engine{
		norm:   norm,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Norm returns the norm the engine applies to stored and query vectors.
func (e *Engine) Norm() Norm {
	return e.norm
}

// Len returns the number of stored vectors.
func (e *Engine) Len() int {
	mat := e.mat.Load()
	if mat == nil {
		return 0
	}
	return len(mat.vectors)
}

// SetVectors rebuilds the stored matrix in full from raw embeddings,
// normalizing each vector under the engine's norm, and swaps it in
// atomically. Passing an empty slice clears the corpus.
func (e *Engine) SetVectors(vectors [][]float32) error {
	if len(vectors) == 0 {
		e.mat.Store(&matrix{})
		return nil
	}

	dim := len(vectors[0])
	stored := make([][]float32, len(vectors))
	for i, v := range vectors {
		if len(v) != dim {
			return fmt.Errorf("%w: vector %d has dimension %d, want %d", ErrDimensionMismatch, i, len(v), dim)
		}
		stored[i] = Normalize(v, e.norm)
	}

	e.mat.Store(&matrix{vectors: stored, dim: dim})
	e.logger.Debug("stored embedding matrix rebuilt", "entries", len(stored), "dim", dim)
	return nil
}

// Rank scores the query against every stored vector and returns the k
// best matches in descending score order. Exactly equal scores are broken
// by ascending index so ranking is deterministic. k must lie in
// [1, corpus size].
func (e *Engine) Rank(query []float32, k int) ([]core.Match, error) {
	mat := e.mat.Load()
	if mat == nil || len(mat.vectors) == 0 {
		return nil, core.ErrEmptyCorpus
	}
	n := len(mat.vectors)
	if k < 1 || k > n {
		return nil, fmt.Errorf("%w: k=%d with corpus size %d", core.ErrInvalidTopK, k, n)
	}
	if len(query) != mat.dim {
		return nil, fmt.Errorf("%w: query has dimension %d, want %d", ErrDimensionMismatch, len(query), mat.dim)
	}

	q := Normalize(query, e.norm)
	matches := make([]core.Match, n)
	for i, stored := range mat.vectors {
		matches[i] = core.Match{Index: i, Score: Dot(q, stored)}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Index < matches[j].Index
	})

	return matches[:k], nil
}
