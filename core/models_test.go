package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDFromContent(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, IDFromContent("how does it spread"), IDFromContent("how does it spread"))
	})

	t.Run("content sensitive", func(t *testing.T) {
		assert.NotEqual(t, IDFromContent("masks"), IDFromContent("vaccines"))
	})

	t.Run("nonzero for empty string", func(t *testing.T) {
		assert.NotEqual(t, ID(0), IDFromContent(""))
	})
}

func TestCanonicalKey(t *testing.T) {
	cases := map[string]string{
		"  How Does It Spread  ": "how does it spread",
		"how\tdoes\nit spread":   "how does it spread",
		"HOW DOES IT SPREAD":     "how does it spread",
		"":                       "",
		"   ":                    "",
	}
	for input, want := range cases {
		assert.Equal(t, want, CanonicalKey(input), "input %q", input)
	}
}

func TestEntryKey(t *testing.T) {
	a := &Entry{Question: " What IS covid? "}
	b := &Entry{Question: "what is covid?"}
	assert.Equal(t, a.Key(), b.Key())
}

func TestValidateEntry(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, ValidateEntry(&Entry{Question: "q", Answer: "a"}))
	})

	t.Run("nil", func(t *testing.T) {
		assert.ErrorIs(t, ValidateEntry(nil), ErrInvalidEntry)
	})

	t.Run("empty question", func(t *testing.T) {
		err := ValidateEntry(&Entry{Answer: "a"})
		assert.ErrorIs(t, err, ErrInvalidEntry)
		assert.ErrorIs(t, err, ErrEmptyQuestion)
	})

	t.Run("empty answer", func(t *testing.T) {
		err := ValidateEntry(&Entry{Question: "q"})
		assert.ErrorIs(t, err, ErrInvalidEntry)
		assert.ErrorIs(t, err, ErrEmptyAnswer)
	})
}

func TestValidateFeedback(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		fb := &Feedback{UserQuestion: "q", MatchedQuestion: "mq", MatchedAnswer: "ma"}
		assert.NoError(t, ValidateFeedback(fb))
	})

	t.Run("nil", func(t *testing.T) {
		assert.ErrorIs(t, ValidateFeedback(nil), ErrInvalidFeedback)
	})

	t.Run("missing user question", func(t *testing.T) {
		fb := &Feedback{MatchedQuestion: "mq"}
		assert.ErrorIs(t, ValidateFeedback(fb), ErrInvalidFeedback)
	})
}

func TestMatchSetBest(t *testing.T) {
	t.Run("zero value", func(t *testing.T) {
		var set MatchSet
		assert.Equal(t, Match{}, set.Best())
	})

	t.Run("top of set", func(t *testing.T) {
		set := MatchSet{Indices: []int{3, 1}, Scores: []float32{0.9, 0.2}}
		assert.Equal(t, Match{Index: 3, Score: 0.9}, set.Best())
	})
}
