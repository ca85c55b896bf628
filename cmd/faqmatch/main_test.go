package main

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/urfave/cli/v2"
)

func TestSetupLogger(t *testing.T) {
	newContext := func(level string) *cli.Context {
		set := flag.NewFlagSet("test", flag.ContinueOnError)
		set.String("log-level", level, "")
		return cli.NewContext(nil, set, nil)
	}

	t.Run("valid levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error", "INFO", "Debug"} {
			assert.NoError(t, setupLogger(newContext(level)), "level %q", level)
		}
	})

	t.Run("invalid level", func(t *testing.T) {
		err := setupLogger(newContext("verbose"))
		assert.Error(t, err)
	})
}
