package normalize

import (
	"strings"
	"testing"

	"github.com/poiesic/faqmatch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("default config", func(t *testing.T) {
		n, err := New(DefaultConfig())
		require.NoError(t, err)
		assert.NotNil(t, n)
	})

	t.Run("empty username placeholder", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.UsernamePlaceholder = ""
		_, err := New(cfg)
		assert.ErrorIs(t, err, core.ErrInvalidConfig)
	})

	t.Run("placeholder with whitespace", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.URLPlaceholder = "http url"
		_, err := New(cfg)
		assert.ErrorIs(t, err, core.ErrInvalidConfig)
	})
}

func TestNormalize_Basics(t *testing.T) {
	n, err := New(DefaultConfig())
	require.NoError(t, err)

	t.Run("empty input", func(t *testing.T) {
		assert.Equal(t, "", n.Normalize(""))
	})

	t.Run("whitespace only", func(t *testing.T) {
		assert.Equal(t, "", n.Normalize("  \t\n "))
	})

	t.Run("clean text passes through", func(t *testing.T) {
		assert.Equal(t, "How does the virus spread", n.Normalize("How does the virus spread"))
	})

	t.Run("whitespace collapse", func(t *testing.T) {
		assert.Equal(t, "a b c", n.Normalize("a   b\t\tc"))
	})

	t.Run("stable under repetition", func(t *testing.T) {
		inputs := []string{
			"How does the virus spread?",
			"I can't visit my family",
			"China's policy on masks",
		}
		for _, input := range inputs {
			once := n.Normalize(input)
			assert.Equal(t, once, n.Normalize(once), "input %q", input)
		}
	})
}

func TestNormalize_Placeholders(t *testing.T) {
	n, err := New(DefaultConfig())
	require.NoError(t, err)

	t.Run("mention", func(t *testing.T) {
		assert.Equal(t, "@USER hello", n.Normalize("@alice hello"))
	})

	t.Run("url", func(t *testing.T) {
		assert.Equal(t, "Visit httpurl now", n.Normalize("Visit https://who.int/faq now"))
	})

	t.Run("www url", func(t *testing.T) {
		assert.Equal(t, "see httpurl", n.Normalize("see www.example.org/page"))
	})

	t.Run("mention run collapses with count", func(t *testing.T) {
		assert.Equal(t, "2 @USER thanks", n.Normalize("@alice @bob thanks"))
	})

	t.Run("url run collapses with count", func(t *testing.T) {
		got := n.Normalize("links http://a.com https://b.org http://c.net")
		assert.Equal(t, "links 3 httpurl", got)
	})

	t.Run("isolated placeholder keeps no count", func(t *testing.T) {
		got := n.Normalize("read http://a.com and @bob and https://b.org")
		assert.Equal(t, "read httpurl and @USER and httpurl", got)
	})

	t.Run("custom placeholders", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.UsernamePlaceholder = "<user>"
		cfg.URLPlaceholder = "<url>"
		custom, err := New(cfg)
		require.NoError(t, err)
		assert.Equal(t, "<user> shared <url>", custom.Normalize("@carol shared https://x.org"))
	})
}

func TestNormalize_CovidCanonicalization(t *testing.T) {
	n, err := New(DefaultConfig())
	require.NoError(t, err)

	variants := []string{
		"covid-19", "covid 19", "Covid19", "COVID-19", "covid_19", "cv19",
	}
	for _, variant := range variants {
		t.Run(variant, func(t *testing.T) {
			got := n.Normalize("What is " + variant + " exactly")
			assert.Contains(t, got, "COVID19", "variant %q normalized to %q", variant, got)
			assert.NotContains(t, got, "covid")
		})
	}

	t.Run("covid hashtag", func(t *testing.T) {
		assert.Equal(t, "# COVID19", n.Normalize("#COVID19"))
	})

	t.Run("question with punctuation", func(t *testing.T) {
		assert.Equal(t, "What is COVID19 ?", n.Normalize("What is covid-19?"))
	})
}

func TestNormalize_Contractions(t *testing.T) {
	n, err := New(DefaultConfig())
	require.NoError(t, err)

	cases := map[string]string{
		"I can't go out":        "I cannot go out",
		"I'm worried":           "I am worried",
		"don't panic":           "do not panic",
		"It's airborne":         "It is airborne",
		"we're staying home":    "we are staying home",
		"Won't this end soon":   "Will not this end soon",
		"they've been tested":   "they have been tested",
		"gonna stay inside":     "going to stay inside",
		"What's the risk":       "What is the risk",
		"he ain't sick":         "he is not sick",
	}
	for input, want := range cases {
		t.Run(input, func(t *testing.T) {
			assert.Equal(t, want, n.Normalize(input))
		})
	}

	t.Run("shouldn't", func(t *testing.T) {
		assert.Equal(t, "you should not share masks", n.Normalize("you shouldn't share masks"))
	})
}

func TestNormalize_Abbreviations(t *testing.T) {
	n, err := New(DefaultConfig())
	require.NoError(t, err)

	t.Run("with", func(t *testing.T) {
		assert.Equal(t, "stay with family", n.Normalize("stay w/ family"))
	})

	t.Run("year suffix", func(t *testing.T) {
		assert.Equal(t, "a 5 years old child", n.Normalize("a 5yr old child"))
	})

	t.Run("ppl", func(t *testing.T) {
		assert.Equal(t, "many people indoors", n.Normalize("many ppl indoors"))
	})

	t.Run("ppl does not corrupt apple", func(t *testing.T) {
		assert.Equal(t, "an apple a day", n.Normalize("an apple a day"))
	})

	t.Run("lol folds case", func(t *testing.T) {
		got := n.Normalize("LOL that is wild")
		assert.Contains(t, got, "laughing out loud")
	})
}

func TestNormalize_Markup(t *testing.T) {
	n, err := New(DefaultConfig())
	require.NoError(t, err)

	t.Run("retweet marker dropped", func(t *testing.T) {
		assert.Equal(t, "@USER : wash your hands", n.Normalize("RT @someone: wash your hands"))
	})

	t.Run("smiley dropped", func(t *testing.T) {
		assert.Equal(t, "stay safe", n.Normalize("stay safe :)"))
	})

	t.Run("html entities unescaped", func(t *testing.T) {
		assert.Equal(t, "cats & dogs", n.Normalize("cats &amp; dogs"))
	})

	t.Run("ellipsis", func(t *testing.T) {
		assert.Equal(t, "wait ... what", n.Normalize("wait… what"))
	})

	t.Run("mojibake repaired", func(t *testing.T) {
		assert.Equal(t, "recovering from wounds", n.Normalize("recovering fromåÊwounds"))
	})

	t.Run("typographic quotes", func(t *testing.T) {
		assert.Equal(t, `it is " serious "`, n.Normalize("it’s “serious”"))
	})
}

func TestNormalize_Rejoining(t *testing.T) {
	n, err := New(DefaultConfig())
	require.NoError(t, err)

	t.Run("possessive split", func(t *testing.T) {
		assert.Equal(t, "China 's policy", n.Normalize("China's policy"))
	})

	t.Run("clock time", func(t *testing.T) {
		assert.Equal(t, "curfew at 5 p.m.", n.Normalize("curfew at 5 p.m."))
	})

	t.Run("date slash", func(t *testing.T) {
		assert.Equal(t, "cases on 3/2020", n.Normalize("cases on 3/2020"))
	})
}

func TestNormalize_Emoji(t *testing.T) {
	t.Run("kept as description", func(t *testing.T) {
		n, err := New(DefaultConfig())
		require.NoError(t, err)

		got := n.Normalize("wear a mask 😷")
		require.NotEqual(t, "wear a mask", got)
		fields := strings.Fields(got)
		last := fields[len(fields)-1]
		assert.True(t, strings.HasPrefix(last, ":"), "got %q", got)
		assert.True(t, strings.HasSuffix(last, ":"), "got %q", got)
	})

	t.Run("dropped when disabled", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.KeepEmojis = false
		n, err := New(cfg)
		require.NoError(t, err)

		assert.Equal(t, "wear a mask", n.Normalize("wear a mask 😷"))
	})

	t.Run("description survives ascii folding", func(t *testing.T) {
		n, err := New(DefaultConfig())
		require.NoError(t, err)

		got := n.Normalize("😷")
		assert.NotEmpty(t, got)
	})
}

func TestNormalize_ASCIIAndCase(t *testing.T) {
	t.Run("accents folded", func(t *testing.T) {
		n, err := New(DefaultConfig())
		require.NoError(t, err)
		assert.Equal(t, "cafe reopening", n.Normalize("café reopening"))
	})

	t.Run("ascii folding disabled", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.ToASCII = false
		n, err := New(cfg)
		require.NoError(t, err)
		assert.Equal(t, "café reopening", n.Normalize("café reopening"))
	})

	t.Run("lowercase", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.ToLower = true
		n, err := New(cfg)
		require.NoError(t, err)
		assert.Equal(t, "hello world", n.Normalize("Hello World"))
	})
}

func TestNormalize_Hashtags(t *testing.T) {
	n, err := New(DefaultConfig())
	require.NoError(t, err)

	t.Run("segmented", func(t *testing.T) {
		assert.Equal(t, "#stay home", n.Normalize("#stayhome"))
	})

	t.Run("multi word", func(t *testing.T) {
		assert.Equal(t, "#wear a mask", n.Normalize("#wearamask"))
	})

	t.Run("disabled", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.SegmentHashtags = false
		plain, err := New(cfg)
		require.NoError(t, err)
		assert.Equal(t, "#stayhome", plain.Normalize("#stayhome"))
	})
}
