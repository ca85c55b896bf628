package normalize

import (
	"html"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalizer applies the full cleaning pipeline with a fixed Config.
// Safe for concurrent use.
type Normalizer struct {
	cfg Config
}

// New creates a Normalizer after validating the configuration.
func New(cfg Config) (*Normalizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Normalizer{cfg: cfg}, nil
}

// Config returns the configuration the Normalizer was built with.
func (n *Normalizer) Config() Config {
	return n.cfg
}

// Normalize runs the cleaning pipeline. Stages run in a fixed order;
// later stages assume earlier ones already ran. Never fails on valid
// UTF-8 input and maps "" to "".
func (n *Normalizer) Normalize(text string) string {
	if n.cfg.ToLower {
		text = strings.ToLower(text)
	}

	text = applyRules(text, mojibakeRules)
	text = html.UnescapeString(text)
	text = normalizePunctuation(text)

	text = applyRules(text, contractionRules)
	text = applyRules(text, generalContractionRules)
	text = applyRules(text, abbreviationRules)

	tokens := tokenize(text)
	normalized := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if t := n.normalizeToken(token); t != "" {
			normalized = append(normalized, t)
		}
	}
	text = strings.Join(normalized, " ")

	text = collapseRuns(text, n.cfg.UsernamePlaceholder)
	text = collapseRuns(text, n.cfg.URLPlaceholder)

	text = applyRules(text, covidSpreadRules)
	text = collapseWhitespace(text)

	if n.cfg.SegmentHashtags {
		text = segmentHashtags(text)
	}
	text = stripReservedTokens(text)
	text = stripControlChars(text)

	text = applyRules(text, clockRules)
	text = applyRules(text, possessiveRule)
	text = applyRules(text, covidJoinRule)
	text = applyRules(text, numberRules)

	if n.cfg.ToASCII {
		text = foldASCII(text)
	}
	if n.cfg.ToLower {
		text = strings.ToLower(text)
	}

	text = collapseQuotes(text)
	return collapseWhitespace(text)
}

// collapseRuns replaces 2+ consecutive occurrences of filler with a
// single occurrence annotated with the repetition count ("3 httpurl").
// Isolated occurrences are left alone.
func collapseRuns(text, filler string) string {
	if strings.Count(text, filler) <= 1 {
		return text
	}
	// pad fillers so adjacency is visible at the token level
	text = strings.ReplaceAll(text, filler, " "+filler+" ")
	fields := strings.Fields(text)
	out := make([]string, 0, len(fields))
	for i := 0; i < len(fields); {
		if fields[i] != filler {
			out = append(out, fields[i])
			i++
			continue
		}
		j := i
		for j < len(fields) && fields[j] == filler {
			j++
		}
		if run := j - i; run >= 2 {
			out = append(out, strconv.Itoa(run), filler)
		} else {
			out = append(out, filler)
		}
		i = j
	}
	return strings.Join(out, " ")
}

// typographic quote and dash variants mapped to their ASCII equivalents
var punctTranslations = map[rune]rune{
	'‘': '\'', '’': '\'', '´': '\'', '`': '\'',
	'“': '"', '”': '"', '„': '"', '‟': '"',
	'–': '-', '—': '-', '―': '-', '‒': '-', '‐': '-', '‑': '-', 'ー': '-',
	'«': '"', '»': '"', '‚': '\'', '‛': '\'',
	'′': '\'', '″': '"', '⁄': '/',
}

func normalizePunctuation(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if mapped, ok := punctTranslations[r]; ok {
			b.WriteRune(mapped)
			continue
		}
		if r == '…' {
			b.WriteString("...")
			continue
		}
		b.WriteRune(r)
	}
	text = b.String()
	if !strings.Contains(text, "...") {
		text = strings.ReplaceAll(text, "..", " ... ")
	}
	return text
}

var controlRunRe = regexp.MustCompile(`[\r\n\t]+`)

func stripControlChars(text string) string {
	text = controlRunRe.ReplaceAllString(text, " ")
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || unicode.Is(unicode.Cf, r) {
			return -1
		}
		return r
	}, text)
}

var asciiFolder = transform.Chain(
	norm.NFKD,
	runes.Remove(runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })),
)

// foldASCII strips pictographs, then transliterates accented letters by
// Unicode decomposition and discards whatever has no ASCII equivalent.
func foldASCII(text string) string {
	text = strings.Map(func(r rune) rune {
		if unicode.Is(unicode.So, r) {
			return -1
		}
		return r
	}, text)
	folded, _, err := transform.String(asciiFolder, text)
	if err != nil {
		return text
	}
	return folded
}

var quoteRunRe = regexp.MustCompile(`"+`)

func collapseQuotes(text string) string {
	for strings.Contains(text, `""`) {
		text = strings.ReplaceAll(text, `""`, `"`)
	}
	return quoteRunRe.ReplaceAllString(text, `"`)
}

func collapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
