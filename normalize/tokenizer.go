package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/forPelevin/gomoji"
)

// Social-media aware tokenization. URLs, @mentions and #hashtags are
// atomic tokens; emoji split into single-rune tokens; words keep internal
// apostrophes; everything else becomes individual punctuation tokens
// (with ellipsis kept whole).

var (
	urlPrefixRe     = regexp.MustCompile(`(?i)^(?:https?://|www\.)[^\s]+`)
	mentionPrefixRe = regexp.MustCompile(`^@\w+`)
	hashtagPrefixRe = regexp.MustCompile(`^#\w+`)
)

func tokenize(text string) []string {
	var tokens []string
	for _, field := range strings.Fields(text) {
		tokens = appendFieldTokens(tokens, field)
	}
	return tokens
}

func appendFieldTokens(tokens []string, field string) []string {
	for field != "" {
		if m := urlPrefixRe.FindString(field); m != "" {
			tokens = append(tokens, m)
			field = field[len(m):]
			continue
		}
		if m := mentionPrefixRe.FindString(field); m != "" {
			tokens = append(tokens, m)
			field = field[len(m):]
			continue
		}
		if m := hashtagPrefixRe.FindString(field); m != "" {
			tokens = append(tokens, m)
			field = field[len(m):]
			continue
		}
		if m := matchSmiley(field); m != "" {
			tokens = append(tokens, m)
			field = field[len(m):]
			continue
		}

		runes := []rune(field)
		r := runes[0]

		switch {
		case r == '.' || r == '…':
			// collapse a run of dots or ellipsis characters
			n := 0
			for n < len(runes) && (runes[n] == '.' || runes[n] == '…') {
				n++
			}
			if n >= 2 || r == '…' {
				tokens = append(tokens, "...")
			} else {
				tokens = append(tokens, ".")
			}
			field = string(runes[n:])
		case isWordRune(r):
			n := 0
			for n < len(runes) && isWordRune(runes[n]) {
				n++
			}
			tokens = append(tokens, string(runes[:n]))
			field = string(runes[n:])
		case isEmojiRune(r):
			tokens = append(tokens, string(r))
			field = string(runes[1:])
		case r == '️' || r == '‍':
			// variation selectors and joiners carry no content of
			// their own once emoji are split apart
			field = string(runes[1:])
		default:
			tokens = append(tokens, string(r))
			field = string(runes[1:])
		}
	}
	return tokens
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' || r == '_'
}

func isEmojiRune(r rune) bool {
	if r >= 0x1F1E6 && r <= 0x1F1FF { // regional indicators
		return true
	}
	if unicode.Is(unicode.So, r) {
		return true
	}
	return gomoji.ContainsEmoji(string(r))
}

// normalizeToken rewrites a single token: mentions and URLs become their
// placeholders, single-rune emoji become a textual description (or are
// dropped), everything else passes through.
func (n *Normalizer) normalizeToken(token string) string {
	if strings.HasPrefix(token, "@") && len(token) > 1 {
		return n.cfg.UsernamePlaceholder
	}
	lower := strings.ToLower(token)
	if strings.HasPrefix(lower, "http") || strings.HasPrefix(lower, "www") {
		return n.cfg.URLPlaceholder
	}
	if runes := []rune(token); len(runes) == 1 {
		return n.normalizeSingleRune(token, runes[0])
	}
	return token
}

func (n *Normalizer) normalizeSingleRune(token string, r rune) string {
	if r >= 0x1F1E6 && r <= 0x1F1FF {
		// flag fragments carry no meaning on their own
		return ""
	}
	info, err := gomoji.GetInfo(token)
	if err != nil {
		// not an emoji, keep as-is
		return token
	}
	if !n.cfg.KeepEmojis {
		return ""
	}
	slug := strings.ReplaceAll(info.Slug, "-", "_")
	if strings.HasPrefix(slug, "globe") {
		return ":globe:"
	}
	return ":" + slug + ":"
}

// Reserved tokens and ASCII smileys stripped near the end of the
// pipeline, mirroring tweet markup cleaning.
var reservedTokens = map[string]bool{
	"RT":  true,
	"rt":  true,
	"FAV": true,
	"fav": true,
}

var smileyTokens = map[string]bool{
	":)": true, ":(": true, ":-)": true, ":-(": true,
	";)": true, ";-)": true, ":P": true, ":p": true,
	":-P": true, ":-p": true, ":D": true, ":-D": true,
	":'(": true, ":/": true, ":-/": true, ":|": true,
	"=)": true, "=(": true, "xD": true, ":]": true, ":[": true,
}

// matchSmiley returns the longest known smiley prefix of field, longest
// form first so ":-)" is not split into ":-" and ")".
func matchSmiley(field string) string {
	for _, n := range []int{3, 2} {
		if len(field) >= n && smileyTokens[field[:n]] {
			return field[:n]
		}
	}
	return ""
}

func stripReservedTokens(text string) string {
	fields := strings.Fields(text)
	kept := fields[:0]
	for _, f := range fields {
		if reservedTokens[f] || smileyTokens[f] {
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}
