package core

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Entry is a single FAQ item in the corpus. The corpus is an ordered
// sequence of entries; index position within one ranking call is the join
// key back to Answer and Metadata after ranking.
type Entry struct {
	Id         ID
	Question   string
	Answer     string
	Source     string // Where the entry came from (e.g. "who", "manual")
	InsertedAt time.Time
	UpdatedAt  time.Time
	Metadata   map[string]string // Optional metadata (e.g. "topic", "url")
}

// Key returns the canonical comparison key used by the exact-match
// override. It is case and whitespace insensitive and reserved for that
// check only; embedding always runs on the normalizer's output, never on
// this key.
func (e *Entry) Key() string {
	return CanonicalKey(e.Question)
}

// CanonicalKey lowercases text and collapses runs of whitespace to single
// spaces, trimming the ends.
func CanonicalKey(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// Feedback records a user's verdict on a returned match.
type Feedback struct {
	Id              ID
	UserQuestion    string
	Related         bool
	MatchedQuestion string
	MatchedAnswer   string
	Score           float32
	InsertedAt      time.Time
}

// Match is one ranked corpus hit: the entry's index position and its
// similarity score.
type Match struct {
	Index int
	Score float32
}

// MatchSet is the result of a top-k query: parallel slices of corpus
// indices and scores, highest score first, plus the resolved entries.
type MatchSet struct {
	Indices []int
	Scores  []float32
	Entries []*Entry
}

// Best returns the top match of the set. The matcher never returns an
// empty set, but callers holding a zero value get a zero Match back.
func (m *MatchSet) Best() Match {
	if len(m.Indices) == 0 {
		return Match{}
	}
	return Match{Index: m.Indices[0], Score: m.Scores[0]}
}
