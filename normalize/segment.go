package normalize

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

// Hashtag segmentation: split a hashtag body like "stayhomechallenge" into
// dictionary words using dynamic programming over a frequency-ranked word
// list with Zipf-shaped costs. Digit runs are cheap standalone words;
// unknown spans pay a length-proportional penalty so they stay whole
// instead of shattering into letters.

const maxSegmentWordLen = 24

var hashtagRe = regexp.MustCompile(`#(\w+)`)

var wordCost = func() map[string]float64 {
	costs := make(map[string]float64, len(segmentWords))
	logN := math.Log(float64(len(segmentWords)))
	for i, w := range segmentWords {
		if _, seen := costs[w]; seen {
			continue
		}
		costs[w] = math.Log(float64(i+2) * logN)
	}
	return costs
}()

func segmentHashtags(text string) string {
	return hashtagRe.ReplaceAllStringFunc(text, func(tag string) string {
		return "#" + segmentWord(tag[1:])
	})
}

// segmentWord splits a concatenated word into its most probable word
// sequence. The result is lowercase.
func segmentWord(word string) string {
	runes := []rune(strings.ToLower(word))
	n := len(runes)
	if n == 0 {
		return ""
	}

	best := make([]float64, n+1)
	split := make([]int, n+1)
	for i := 1; i <= n; i++ {
		best[i] = math.Inf(1)
		lo := i - maxSegmentWordLen
		if lo < 0 {
			lo = 0
		}
		for j := lo; j < i; j++ {
			c := best[j] + chunkCost(runes[j:i])
			if c < best[i] {
				best[i] = c
				split[i] = j
			}
		}
	}

	var parts []string
	for i := n; i > 0; i = split[i] {
		parts = append(parts, string(runes[split[i]:i]))
	}
	for l, r := 0, len(parts)-1; l < r; l, r = l+1, r-1 {
		parts[l], parts[r] = parts[r], parts[l]
	}
	return strings.Join(parts, " ")
}

func chunkCost(chunk []rune) float64 {
	word := string(chunk)
	if c, ok := wordCost[word]; ok {
		return c
	}
	digits := true
	for _, r := range chunk {
		if !unicode.IsDigit(r) {
			digits = false
			break
		}
	}
	if digits {
		return 2.0
	}
	// unknown span: flat split penalty plus per-rune cost keeps it whole
	return 10.0 + 10.0*float64(len(chunk))
}

// segmentWords is frequency-ordered, most common first. General English
// high-frequency words followed by the public-health vocabulary the FAQ
// corpus leans on.
var segmentWords = []string{
	"the", "of", "and", "to", "a", "in", "for", "is", "on", "that",
	"by", "this", "with", "i", "you", "it", "not", "or", "be", "are",
	"from", "at", "as", "your", "all", "have", "new", "more", "an", "was",
	"we", "will", "home", "can", "us", "about", "if", "my", "has", "but",
	"our", "one", "other", "do", "no", "they", "he", "up", "may", "what",
	"which", "their", "out", "use", "any", "there", "see", "only", "so", "his",
	"when", "here", "who", "also", "now", "help", "get", "am", "been", "how",
	"were", "me", "some", "these", "its", "like", "than", "find", "day", "back",
	"top", "had", "list", "name", "just", "over", "year", "into", "email", "two",
	"health", "world", "re", "next", "used", "go", "work", "last", "most", "people",
	"why", "should", "know", "good", "water", "after", "news", "say", "every", "very",
	"public", "still", "being", "report", "hand", "hands", "keep", "child", "children",
	"kids", "safe", "safety", "stay", "wash", "washing", "wear", "wearing", "mask",
	"masks", "face", "covering", "social", "distance", "distancing", "spread",
	"spreading", "virus", "viruses", "corona", "covid", "pandemic", "epidemic",
	"outbreak", "infection", "infected", "infectious", "disease", "diseases",
	"symptom", "symptoms", "fever", "cough", "breathing", "vaccine", "vaccines",
	"vaccination", "vaccinated", "dose", "doses", "shot", "booster", "immune",
	"immunity", "test", "testing", "tested", "positive", "negative", "case",
	"cases", "death", "deaths", "risk", "risks", "protect", "protection",
	"prevent", "prevention", "treatment", "treat", "cure", "hospital", "doctor",
	"doctors", "nurse", "care", "patient", "patients", "quarantine", "isolation",
	"isolate", "lockdown", "travel", "flight", "border", "school", "schools",
	"open", "close", "closed", "reopen", "update", "updates", "alert", "advice",
	"guidance", "guidelines", "emergency", "response", "support", "community",
	"family", "elderly", "older", "adults", "pregnant", "pregnancy", "baby",
	"sanitizer", "sanitiser", "soap", "clean", "cleaning", "disinfect",
	"surface", "surfaces", "droplets", "airborne", "transmission", "transmitted",
	"contact", "tracing", "tracking", "app", "antibody", "antibodies",
	"variant", "variants", "strain", "wave", "curve", "flatten", "challenge",
	"together", "alone", "heroes", "thank", "thanks", "frontline", "workers",
	"worker", "essential", "life", "live", "living", "time",
	"today", "tonight", "week", "month", "live", "free", "real", "fake",
	"myth", "myths", "fact", "facts", "question", "questions", "answer",
	"answers", "ask", "asked", "asking", "faq",
}
