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


package ai

import (
	"fmt"
	"strings"

	"github.com/poiesic/faqmatch/core"
)

// Strategy selects how a provider turns model output into one sentence
// vector. It changes score magnitude and distribution, so corpus and
// query embeddings must always use the same strategy.
type Strategy int

const (
	// StrategyPooled takes the model's pooled sentence output directly.
	StrategyPooled Strategy = iota

	// StrategyLayerAggregated derives the sentence vector from hidden
	// layers: the sum of the last four layers' first-token
	// representations, equivalently the token-wise mean of the
	// second-to-last layer. Only providers with access to hidden
	// states can honor it; API-backed providers reject it.
	StrategyLayerAggregated
)

// ParseStrategy maps a configuration string to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "pooled", "":
		return StrategyPooled, nil
	case "layer-aggregated":
		return StrategyLayerAggregated, nil
	default:
		return StrategyPooled, fmt.Errorf("%w: unknown embedding strategy %q (want pooled or layer-aggregated)", core.ErrInvalidConfig, s)
	}
}

func (s Strategy) String() string {
	if s == StrategyLayerAggregated {
		return "layer-aggregated"
	}
	return "pooled"
}

// Config holds configuration for embedding providers.
type Config struct {
	// Host is the base URL for API-backed embedding services.
	// Example: "http://localhost:11434/v1" for a local OpenAI-compatible server.
	Host string

	// Model is the model identifier.
	// Example: "embeddinggemma", "BAAI/bge-small-en-v1.5"
	Model string

	// CacheDir is where local providers cache model files.
	CacheDir string

	// Strategy selects the sentence-vector aggregation.
	Strategy Strategy

	// Seed resets provider pseudo-random state before each call, where
	// the provider has any. Embedding must be repeatable under a fixed
	// seed.
	Seed int64
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithHost sets the embedding service host URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.Host = host
	}
}

// WithModel sets the embedding model identifier.
func WithModel(model string) ConfigOption {
	return func(c *Config) {
		c.Model = model
	}
}

// WithCacheDir sets the model cache directory for local providers.
func WithCacheDir(dir string) ConfigOption {
	return func(c *Config) {
		c.CacheDir = dir
	}
}

// WithStrategy sets the sentence-vector aggregation strategy.
func WithStrategy(s Strategy) ConfigOption {
	return func(c *Config) {
		c.Strategy = s
	}
}

// WithSeed sets the random seed for providers with stochastic paths.
func WithSeed(seed int64) ConfigOption {
	return func(c *Config) {
		c.Seed = seed
	}
}

// DefaultConfig returns a Config with sensible defaults for a local
// OpenAI-compatible service.
func DefaultConfig() *Config {
	return &Config{
		Host:     "http://localhost:11434/v1",
		Model:    "embeddinggemma",
		Strategy: StrategyPooled,
		Seed:     42,
	}
}

// NewConfig creates a Config with the default values and applies the
// provided options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form. It adds
// the /v1 suffix to the host if missing, which OpenAI-compatible APIs
// (Ollama, LocalAI, vLLM, etc) require.
func (c *Config) Normalize() {
	if c.Host != "" && !strings.HasSuffix(c.Host, "/v1") {
		c.Host = strings.TrimSuffix(c.Host, "/") + "/v1"
	}
}

// Validate checks that the configuration is valid and complete. It
// normalizes the configuration before validating.
func (c *Config) Validate() error {
	c.Normalize()

	if c.Model == "" {
		return fmt.Errorf("%w: embedding model is required", core.ErrInvalidConfig)
	}
	if c.Strategy != StrategyPooled && c.Strategy != StrategyLayerAggregated {
		return fmt.Errorf("%w: unknown embedding strategy %d", core.ErrInvalidConfig, c.Strategy)
	}
	return nil
}
