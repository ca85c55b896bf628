// Package config provides configuration loading for faqmatch.
package config

import (
	"fmt"

	"github.com/poiesic/faqmatch/ai"
	"github.com/poiesic/faqmatch/core"
	"github.com/poiesic/faqmatch/normalize"
	"github.com/poiesic/faqmatch/similarity"
)

// Embedding providers selectable in the embedder section.
const (
	ProviderOpenAI    = "openai"
	ProviderFastEmbed = "fastembed"
	ProviderMock      = "mock"
)

// Config is the resolved faqmatch configuration. One Config is shared by
// corpus ingestion and query answering; normalization and embedding
// settings must never differ between the two.
type Config struct {
	Normalize  NormalizeConfig  `koanf:"normalize"`
	Similarity SimilarityConfig `koanf:"similarity"`
	Embedder   EmbedderConfig   `koanf:"embedder"`
	Storage    StorageConfig    `koanf:"storage"`
}

// NormalizeConfig mirrors normalize.Config with koanf tags.
type NormalizeConfig struct {
	ToLower             bool   `koanf:"to_lower"`
	ToASCII             bool   `koanf:"to_ascii"`
	KeepEmojis          bool   `koanf:"keep_emojis"`
	UsernamePlaceholder string `koanf:"username_placeholder"`
	URLPlaceholder      string `koanf:"url_placeholder"`
	SegmentHashtags     bool   `koanf:"segment_hashtags"`
}

// SimilarityConfig holds ranking settings.
type SimilarityConfig struct {
	// Norm is one of "l1", "l2", "max".
	Norm string `koanf:"norm"`

	// Threshold is the minimum acceptable best score in [-1, 1].
	Threshold float64 `koanf:"threshold"`
}

// EmbedderConfig holds embedding provider settings.
type EmbedderConfig struct {
	// Provider is one of "openai", "fastembed", "mock".
	Provider string `koanf:"provider"`
	Host     string `koanf:"host"`
	Model    string `koanf:"model"`
	CacheDir string `koanf:"cache_dir"`

	// Strategy is one of "pooled", "layer-aggregated".
	Strategy string `koanf:"strategy"`
	Seed     int64  `koanf:"seed"`
}

// StorageConfig holds the corpus store settings.
type StorageConfig struct {
	Path     string `koanf:"path"`
	InMemory bool   `koanf:"in_memory"`
}

// Validate checks the whole configuration, wrapping core.ErrInvalidConfig.
func (c *Config) Validate() error {
	if err := c.NormalizeConfig().Validate(); err != nil {
		return err
	}
	if _, err := similarity.ParseNorm(c.Similarity.Norm); err != nil {
		return err
	}
	if c.Similarity.Threshold < -1 || c.Similarity.Threshold > 1 {
		return fmt.Errorf("%w: threshold %.4f outside [-1, 1]", core.ErrInvalidConfig, c.Similarity.Threshold)
	}
	switch c.Embedder.Provider {
	case ProviderOpenAI, ProviderFastEmbed, ProviderMock:
	default:
		return fmt.Errorf("%w: unknown embedder provider %q (want openai, fastembed or mock)", core.ErrInvalidConfig, c.Embedder.Provider)
	}
	if _, err := ai.ParseStrategy(c.Embedder.Strategy); err != nil {
		return err
	}
	if err := c.AIConfig().Validate(); err != nil {
		return err
	}
	if !c.Storage.InMemory && c.Storage.Path == "" {
		return fmt.Errorf("%w: storage path is required unless in_memory is set", core.ErrInvalidConfig)
	}
	return nil
}

// NormalizeConfig converts the normalize section to a normalize.Config.
func (c *Config) NormalizeConfig() normalize.Config {
	return normalize.Config{
		ToLower:             c.Normalize.ToLower,
		ToASCII:             c.Normalize.ToASCII,
		KeepEmojis:          c.Normalize.KeepEmojis,
		UsernamePlaceholder: c.Normalize.UsernamePlaceholder,
		URLPlaceholder:      c.Normalize.URLPlaceholder,
		SegmentHashtags:     c.Normalize.SegmentHashtags,
	}
}

// Norm returns the parsed similarity norm. Call Validate first.
func (c *Config) Norm() similarity.Norm {
	norm, _ := similarity.ParseNorm(c.Similarity.Norm)
	return norm
}

// AIConfig converts the embedder section to an ai.Config.
func (c *Config) AIConfig() *ai.Config {
	strategy, _ := ai.ParseStrategy(c.Embedder.Strategy)
	return ai.NewConfig(
		ai.WithHost(c.Embedder.Host),
		ai.WithModel(c.Embedder.Model),
		ai.WithCacheDir(c.Embedder.CacheDir),
		ai.WithStrategy(strategy),
		ai.WithSeed(c.Embedder.Seed),
	)
}
