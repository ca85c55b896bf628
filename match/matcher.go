package match

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/faqmatch/ai"
	"github.com/poiesic/faqmatch/core"
	"github.com/poiesic/faqmatch/normalize"
	"github.com/poiesic/faqmatch/similarity"
)

const embedBatchSize = 16

// exactMatchScore is the score assigned by the exact-match override.
const exactMatchScore float32 = 1.0

// snapshot holds one complete corpus state: the entries, the exact-match
// lookup index and the similarity engine over their embeddings. Built in
// full before being swapped in.
type snapshot struct {
	entries []*core.Entry
	byKey   map[string]int
	engine  *similarity.Engine
}

// Matcher answers questions against the stored FAQ corpus.
type Matcher struct {
	normalizer *normalize.Normalizer
	embedder   ai.Embedder
	norm       similarity.Norm
	threshold  float32
	pool       *ants.Pool
	snap       atomic.Pointer[snapshot]
	refreshMu  sync.Mutex // single writer; readers go through snap
	logger     *slog.Logger
}

// Option configures a Matcher.
type Option func(*Matcher) error

// WithNormalization sets the text normalization options. Default is
// normalize.DefaultConfig(). The same options apply to corpus questions
// and queries; changing them requires a RefreshCorpus.
func WithNormalization(cfg normalize.Config) Option {
	return func(m *Matcher) error {
		n, err := normalize.New(cfg)
		if err != nil {
			return err
		}
		m.normalizer = n
		return nil
	}
}

// WithNorm sets the vector norm. Default is L2 (cosine similarity).
func WithNorm(norm similarity.Norm) Option {
	return func(m *Matcher) error {
		m.norm = norm
		return nil
	}
}

// WithThreshold sets the acceptance threshold. A best score below it
// yields core.ErrNoMatch. Default is 0.5.
func WithThreshold(threshold float32) Option {
	return func(m *Matcher) error {
		if threshold < -1 || threshold > 1 {
			return fmt.Errorf("%w: threshold %v outside [-1, 1]", core.ErrInvalidConfig, threshold)
		}
		m.threshold = threshold
		return nil
	}
}

// WithPoolSize sets the worker pool size used for corpus embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(m *Matcher) error {
		if size < 1 {
			size = 1
		}
		if m.pool != nil {
			m.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		m.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Matcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger
		return nil
	}
}

// NewMatcher creates a Matcher with an empty corpus.
func NewMatcher(embedder ai.Embedder, opts ...Option) (*Matcher, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	normalizer, err := normalize.New(normalize.DefaultConfig())
	if err != nil {
		return nil, err
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	m := &Matcher{
		normalizer: normalizer,
		embedder:   embedder,
		norm:       similarity.NormL2,
		threshold:  0.5,
		pool:       pool,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(m); err != nil {
			pool.Release()
			return nil, err
		}
	}
	return m, nil
}

// Close releases the worker pool.
func (m *Matcher) Close() error {
	if m.pool != nil {
		m.pool.Release()
	}
	return nil
}

// CorpusLen returns the number of entries in the current corpus snapshot.
func (m *Matcher) CorpusLen() int {
	snap := m.snap.Load()
	if snap == nil {
		return 0
	}
	return len(snap.entries)
}

// RefreshCorpus rebuilds the corpus state from entries: every question is
// normalized and embedded (in parallel, order preserved), the embedding
// matrix is rebuilt in full, and the complete snapshot replaces the old
// one atomically. Lookups running concurrently see old or new state,
// never a mixture.
func (m *Matcher) RefreshCorpus(ctx context.Context, entries []*core.Entry) error {
	m.refreshMu.Lock()
	defer m.refreshMu.Unlock()

	for _, entry := range entries {
		if err := core.ValidateEntry(entry); err != nil {
			return err
		}
	}

	if len(entries) == 0 {
		m.snap.Store(&snapshot{byKey: map[string]int{}, engine: similarity.NewEngine(m.norm, similarity.WithLogger(m.logger))})
		m.logger.Info("corpus cleared")
		return nil
	}

	texts := make([]string, len(entries))
	byKey := make(map[string]int, len(entries))
	for i, entry := range entries {
		texts[i] = m.normalizer.Normalize(entry.Question)
		key := entry.Key()
		if _, seen := byKey[key]; !seen {
			byKey[key] = i
		}
	}

	vectors, err := m.embedAll(ctx, texts)
	if err != nil {
		return err
	}

	engine := similarity.NewEngine(m.norm, similarity.WithLogger(m.logger))
	if err := engine.SetVectors(vectors); err != nil {
		return err
	}

	m.snap.Store(&snapshot{entries: entries, byKey: byKey, engine: engine})
	m.logger.Info("corpus refreshed", "entries", len(entries))
	return nil
}

// embedAll embeds texts in batches on the worker pool, preserving input
// order. No retries: embedding is deterministic and expensive, so a slow
// call surfaces as latency, and a failed one as an error.
func (m *Matcher) embedAll(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))

	var (
		wg       sync.WaitGroup
		errMu    sync.Mutex
		firstErr error
	)
	record := func(err error) {
		errMu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		errMu.Unlock()
	}

	for start := 0; start < len(texts); start += embedBatchSize {
		end := min(start+embedBatchSize, len(texts))
		wg.Add(1)
		submitErr := m.pool.Submit(func() {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				record(err)
				return
			}
			batch, err := m.embedder.EmbedTexts(ctx, texts[start:end])
			if err != nil {
				record(embeddingFailure(err))
				return
			}
			if len(batch) != end-start {
				record(fmt.Errorf("%w: got %d vectors for %d texts", core.ErrEmbeddingProvider, len(batch), end-start))
				return
			}
			copy(vectors[start:end], batch)
		})
		if submitErr != nil {
			wg.Done()
			record(submitErr)
			break
		}
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return vectors, nil
}

// FindBest returns the k best corpus matches for the question, after the
// exact-match override and the acceptance threshold have been applied.
func (m *Matcher) FindBest(ctx context.Context, question string, k int) (*core.MatchSet, error) {
	snap := m.snap.Load()
	if snap == nil || len(snap.entries) == 0 {
		return nil, core.ErrEmptyCorpus
	}

	vector, err := m.embedder.EmbedText(ctx, m.normalizer.Normalize(question))
	if err != nil {
		return nil, embeddingFailure(err)
	}

	matches, err := snap.engine.Rank(vector, k)
	if err != nil {
		return nil, err
	}

	if exact, ok := snap.byKey[core.CanonicalKey(question)]; ok {
		matches = promoteExact(matches, exact)
	}

	if matches[0].Score < m.threshold {
		return nil, fmt.Errorf("%w: best score %.4f below threshold %.4f", core.ErrNoMatch, matches[0].Score, m.threshold)
	}

	result := &core.MatchSet{
		Indices: make([]int, len(matches)),
		Scores:  make([]float32, len(matches)),
		Entries: make([]*core.Entry, len(matches)),
	}
	for i, match := range matches {
		result.Indices[i] = match.Index
		result.Scores[i] = match.Score
		result.Entries[i] = snap.entries[match.Index]
	}
	return result, nil
}

// FindBestText returns the single best matching corpus question and its
// score.
func (m *Matcher) FindBestText(ctx context.Context, question string) (string, float32, error) {
	result, err := m.FindBest(ctx, question, 1)
	if err != nil {
		return "", 0, err
	}
	return result.Entries[0].Question, result.Scores[0], nil
}

// Pairwise embeds two texts independently and returns their normalized
// inner product. Neither text touches the stored corpus.
func (m *Matcher) Pairwise(ctx context.Context, textA, textB string) (float32, error) {
	vectors, err := m.embedder.EmbedTexts(ctx, []string{
		m.normalizer.Normalize(textA),
		m.normalizer.Normalize(textB),
	})
	if err != nil {
		return 0, embeddingFailure(err)
	}
	if len(vectors) != 2 {
		return 0, fmt.Errorf("%w: got %d vectors for 2 texts", core.ErrEmbeddingProvider, len(vectors))
	}

	a := similarity.Normalize(vectors[0], m.norm)
	b := similarity.Normalize(vectors[1], m.norm)
	return similarity.Dot(a, b), nil
}

// promoteExact forces the exactly-matched entry to the front with the
// maximum score, dropping its embedding-ranked duplicate if present. The
// result keeps the input length.
func promoteExact(matches []core.Match, exact int) []core.Match {
	k := len(matches)
	promoted := make([]core.Match, 0, k)
	promoted = append(promoted, core.Match{Index: exact, Score: exactMatchScore})
	for _, match := range matches {
		if match.Index == exact {
			continue
		}
		promoted = append(promoted, match)
	}
	return promoted[:k]
}

func embeddingFailure(err error) error {
	if errors.Is(err, core.ErrEmbeddingProvider) {
		return err
	}
	return fmt.Errorf("%w: %w", core.ErrEmbeddingProvider, err)
}
