package normalize

import (
	"fmt"
	"strings"

	"github.com/poiesic/faqmatch/core"
)

// Config holds the normalization options. It is resolved once at startup
// and must be shared verbatim between corpus and query normalization.
type Config struct {
	// ToLower folds the text to lower case. Applied both before and
	// after the main pipeline when set.
	ToLower bool

	// ToASCII transliterates accented letters to their nearest ASCII
	// equivalent and strips pictographic characters.
	ToASCII bool

	// KeepEmojis replaces single-character emoji tokens with a textual
	// description (":face_with_medical_mask:"). When false, emoji
	// tokens are dropped.
	KeepEmojis bool

	// UsernamePlaceholder replaces @mention tokens.
	UsernamePlaceholder string

	// URLPlaceholder replaces URL tokens.
	URLPlaceholder string

	// SegmentHashtags splits hashtag bodies into dictionary words,
	// keeping the '#' prefix ("#COVID19cases" -> "#covid 19 cases").
	SegmentHashtags bool
}

// DefaultConfig returns the options used by the pretrained COVID
// twitter models: keep emojis, fold to ASCII, segment hashtags.
func DefaultConfig() Config {
	return Config{
		ToLower:             false,
		ToASCII:             true,
		KeepEmojis:          true,
		UsernamePlaceholder: "@USER",
		URLPlaceholder:      "httpurl",
		SegmentHashtags:     true,
	}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.UsernamePlaceholder == "" {
		return fmt.Errorf("%w: username placeholder is required", core.ErrInvalidConfig)
	}
	if c.URLPlaceholder == "" {
		return fmt.Errorf("%w: url placeholder is required", core.ErrInvalidConfig)
	}
	if strings.ContainsAny(c.UsernamePlaceholder, " \t\n") {
		return fmt.Errorf("%w: username placeholder cannot contain whitespace", core.ErrInvalidConfig)
	}
	if strings.ContainsAny(c.URLPlaceholder, " \t\n") {
		return fmt.Errorf("%w: url placeholder cannot contain whitespace", core.ErrInvalidConfig)
	}
	return nil
}
