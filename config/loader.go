package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"github.com/poiesic/faqmatch/core"
)

const envPrefix = "FAQMATCH_"

// defaultYAML carries the built-in defaults: the settings the pretrained
// COVID twitter models were prepared with, a local OpenAI-compatible
// embedding service, and an on-disk store.
const defaultYAML = `
normalize:
  to_lower: false
  to_ascii: true
  keep_emojis: true
  username_placeholder: "@USER"
  url_placeholder: "httpurl"
  segment_hashtags: true
similarity:
  norm: "l2"
  threshold: 0.5
embedder:
  provider: "openai"
  host: "http://localhost:11434/v1"
  model: "embeddinggemma"
  strategy: "pooled"
  seed: 42
storage:
  path: "faqmatch.db"
  in_memory: false
`

// Load resolves configuration from built-in defaults, an optional YAML
// file, and environment variables, in ascending precedence.
//
// Environment variables use the FAQMATCH_ prefix with an underscore
// separating section from field:
//
//	FAQMATCH_SIMILARITY_THRESHOLD -> similarity.threshold
//	FAQMATCH_EMBEDDER_CACHE_DIR   -> embedder.cache_dir
//	FAQMATCH_NORMALIZE_TO_ASCII   -> normalize.to_ascii
//
// An empty configPath skips the file layer. A non-empty path must exist.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(rawbytes.Provider([]byte(defaultYAML)), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}

	if configPath != "" {
		content, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Environment variables override the file. The first underscore
	// after the prefix separates section from field; field names keep
	// their underscores.
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		lower := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		parts := strings.SplitN(lower, "_", 2)
		if len(parts) == 1 {
			return lower
		}
		return parts[0] + "." + parts[1]
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns the built-in configuration without touching the file
// system or environment.
func Default() *Config {
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider([]byte(defaultYAML)), yaml.Parser()); err != nil {
		panic(err)
	}
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		panic(err)
	}
	return &cfg
}
