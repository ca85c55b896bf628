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


package faqmatch

import (
	"context"
	"io"
	"log/slog"

	"github.com/poiesic/faqmatch/ai"
	"github.com/poiesic/faqmatch/ai/fastembed"
	"github.com/poiesic/faqmatch/ai/mock"
	"github.com/poiesic/faqmatch/ai/openai"
	"github.com/poiesic/faqmatch/config"
	"github.com/poiesic/faqmatch/core"
	"github.com/poiesic/faqmatch/match"
	"github.com/poiesic/faqmatch/storage"
	"github.com/poiesic/faqmatch/storage/badger"
)

// Service wires the FAQ store, the embedding provider, and the matcher
// into one handle. The matcher answers from an in-memory snapshot;
// RefreshFromStore rebuilds that snapshot from the persisted corpus.
type Service struct {
	backend      *badger.Backend
	faqRepo      storage.FAQRepository
	feedbackRepo storage.FeedbackRepository
	embedder     ai.Embedder
	matcher      *match.Matcher
	logger       *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	embedder ai.Embedder
}

// WithEmbedder injects an embedding provider, overriding the one the
// configuration selects. Used by tests and callers with a provider of
// their own.
func WithEmbedder(embedder ai.Embedder) ServiceOption {
	return func(o *serviceOptions) {
		o.embedder = embedder
	}
}

// New creates a Service from the given configuration. A nil cfg uses
// the built-in defaults.
func New(cfg *config.Config, opts ...ServiceOption) (*Service, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	options := &serviceOptions{}
	for _, opt := range opts {
		opt(options)
	}

	// Open backend
	backend, err := badger.OpenBackend(cfg.Storage.Path, cfg.Storage.InMemory)
	if err != nil {
		return nil, err
	}

	// Create FAQ repository
	faqRepo, err := badger.NewFAQRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	// Create feedback repository
	feedbackRepo, err := badger.NewFeedbackRepository(backend)
	if err != nil {
		faqRepo.Close()
		backend.Close()
		return nil, err
	}

	// Create embedding provider with configured settings
	embedder := options.embedder
	if embedder == nil {
		embedder, err = newEmbedder(cfg)
		if err != nil {
			feedbackRepo.Close()
			faqRepo.Close()
			backend.Close()
			return nil, err
		}
	}

	matcher, err := match.NewMatcher(embedder,
		match.WithNormalization(cfg.NormalizeConfig()),
		match.WithNorm(cfg.Norm()),
		match.WithThreshold(float32(cfg.Similarity.Threshold)),
	)
	if err != nil {
		closeEmbedder(embedder)
		feedbackRepo.Close()
		faqRepo.Close()
		backend.Close()
		return nil, err
	}

	return &Service{
		backend:      backend,
		faqRepo:      faqRepo,
		feedbackRepo: feedbackRepo,
		embedder:     embedder,
		matcher:      matcher,
		logger:       slog.Default(),
	}, nil
}

func newEmbedder(cfg *config.Config) (ai.Embedder, error) {
	aiCfg := cfg.AIConfig()
	switch cfg.Embedder.Provider {
	case config.ProviderFastEmbed:
		return fastembed.NewEmbedder(aiCfg)
	case config.ProviderMock:
		return mock.NewMockEmbedderFromConfig(aiCfg)
	default:
		return openai.NewEmbedder(aiCfg)
	}
}

func closeEmbedder(embedder ai.Embedder) error {
	if closer, ok := embedder.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// Close releases the matcher, provider, repositories, and backend.
func (s *Service) Close() error {
	if err := s.matcher.Close(); err != nil {
		s.logger.Error("error closing matcher", "err", err)
	}
	if err := closeEmbedder(s.embedder); err != nil {
		s.logger.Error("error closing embedding provider", "err", err)
	}
	if err := s.feedbackRepo.Close(); err != nil {
		s.logger.Error("error closing feedback repository", "err", err)
		return err
	}
	if err := s.faqRepo.Close(); err != nil {
		s.logger.Error("error closing FAQ repository", "err", err)
		return err
	}
	if err := s.backend.Close(); err != nil {
		s.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// FAQRepository returns the persistent FAQ store.
func (s *Service) FAQRepository() storage.FAQRepository {
	return s.faqRepo
}

// FeedbackRepository returns the persistent feedback store.
func (s *Service) FeedbackRepository() storage.FeedbackRepository {
	return s.feedbackRepo
}

// Matcher returns the underlying matcher.
func (s *Service) Matcher() *match.Matcher {
	return s.matcher
}

// RefreshFromStore rebuilds the matcher's snapshot from the persisted
// corpus. Call after any change to the stored entries.
func (s *Service) RefreshFromStore(ctx context.Context) error {
	entries, err := s.faqRepo.ListEntries(ctx)
	if err != nil {
		return err
	}
	return s.matcher.RefreshCorpus(ctx, entries)
}

// ImportEntries replaces the stored corpus with the given entries and
// refreshes the matcher.
func (s *Service) ImportEntries(ctx context.Context, entries []*core.Entry) error {
	if _, err := s.faqRepo.ReplaceAll(ctx, entries...); err != nil {
		return err
	}
	return s.RefreshFromStore(ctx)
}

// Ask finds the k best matches for a free-form question.
func (s *Service) Ask(ctx context.Context, question string, k int) (*core.MatchSet, error) {
	return s.matcher.FindBest(ctx, question, k)
}

// Compare returns the similarity score between two texts.
func (s *Service) Compare(ctx context.Context, textA, textB string) (float32, error) {
	return s.matcher.Pairwise(ctx, textA, textB)
}

// RecordFeedback persists a user's verdict on a returned match.
func (s *Service) RecordFeedback(ctx context.Context, fb *core.Feedback) error {
	_, err := s.feedbackRepo.AddFeedback(ctx, fb)
	return err
}
