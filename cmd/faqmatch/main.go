// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/poiesic/faqmatch"
	"github.com/poiesic/faqmatch/config"
	"github.com/poiesic/faqmatch/core"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "faqmatch",
		Usage: "Semantic FAQ matching over a persisted question corpus",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML config file",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to BadgerDB database directory (overrides config)",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:      "import",
				Usage:     "Replace the stored corpus with entries from a JSON file",
				ArgsUsage: "<dataset.json>",
				Action:    importCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "source",
						Usage: "Source label recorded on imported entries",
						Value: "manual",
					},
				},
			},
			{
				Name:      "ask",
				Usage:     "Find the best FAQ answers for a question",
				ArgsUsage: "<question>",
				Action:    askCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Number of matches to return",
						Value:   1,
					},
				},
			},
			{
				Name:      "compare",
				Usage:     "Score the semantic similarity of two texts",
				ArgsUsage: "<text-a> <text-b>",
				Action:    compareCommand,
			},
			{
				Name:   "list",
				Usage:  "List the stored FAQ entries in insertion order",
				Action: listCommand,
			},
			{
				Name:      "feedback",
				Usage:     "Record whether a returned match answered the question",
				ArgsUsage: "<question>",
				Action:    feedbackCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "related",
						Usage: "The matched entry answered the question",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func setup(c *cli.Context) error {
	_ = godotenv.Load()
	return setupLogger(c)
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

// openService loads configuration and wires the full service.
func openService(c *cli.Context) (*faqmatch.Service, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if dbPath := c.String("db"); dbPath != "" {
		cfg.Storage.Path = dbPath
		cfg.Storage.InMemory = false
	}
	return faqmatch.New(cfg)
}

// datasetEntry is the JSON import format.
type datasetEntry struct {
	Question string            `json:"question"`
	Answer   string            `json:"answer"`
	Source   string            `json:"source,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

func importCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one dataset file argument")
	}
	path := c.Args().First()

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read dataset: %w", err)
	}

	var records []datasetEntry
	if err := json.Unmarshal(content, &records); err != nil {
		return fmt.Errorf("failed to parse dataset: %w", err)
	}
	if len(records) == 0 {
		return fmt.Errorf("dataset is empty")
	}

	entries := make([]*core.Entry, len(records))
	for i, record := range records {
		source := record.Source
		if source == "" {
			source = c.String("source")
		}
		entries[i] = &core.Entry{
			Question: record.Question,
			Answer:   record.Answer,
			Source:   source,
			Metadata: record.Metadata,
		}
	}

	svc, err := openService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx := context.Background()
	if _, err := svc.FAQRepository().ReplaceAll(ctx, entries...); err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Imported %d entries from %s\n", len(entries), path)
	return nil
}

func askCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one question argument")
	}
	question := c.Args().First()

	svc, err := openService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx := context.Background()
	if err := svc.RefreshFromStore(ctx); err != nil {
		return fmt.Errorf("failed to load corpus: %w", err)
	}

	matches, err := svc.Ask(ctx, question, c.Int("top-k"))
	if err != nil {
		return err
	}

	for i, entry := range matches.Entries {
		fmt.Printf("[%d] score=%.4f\n", i+1, matches.Scores[i])
		fmt.Printf("Q: %s\n", entry.Question)
		fmt.Printf("A: %s\n", entry.Answer)
		if i < len(matches.Entries)-1 {
			fmt.Println()
		}
	}
	return nil
}

func compareCommand(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("expected exactly two text arguments")
	}

	svc, err := openService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	score, err := svc.Compare(context.Background(), c.Args().Get(0), c.Args().Get(1))
	if err != nil {
		return err
	}

	fmt.Printf("%.4f\n", score)
	return nil
}

func listCommand(c *cli.Context) error {
	svc, err := openService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	entries, err := svc.FAQRepository().ListEntries(context.Background())
	if err != nil {
		return err
	}

	for _, entry := range entries {
		fmt.Printf("%d\t%s\t%s\n", entry.Id, entry.Source, entry.Question)
	}
	fmt.Fprintf(os.Stderr, "%d entries\n", len(entries))
	return nil
}

// feedbackCommand answers the question and records whether the match
// was related, mirroring the follow-up verdict a chat front end would
// collect from the user.
func feedbackCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one question argument")
	}
	question := c.Args().First()

	svc, err := openService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx := context.Background()
	if err := svc.RefreshFromStore(ctx); err != nil {
		return fmt.Errorf("failed to load corpus: %w", err)
	}

	matches, err := svc.Ask(ctx, question, 1)
	if err != nil {
		return err
	}

	best := matches.Entries[0]
	fb := &core.Feedback{
		UserQuestion:    question,
		Related:         c.Bool("related"),
		MatchedQuestion: best.Question,
		MatchedAnswer:   best.Answer,
		Score:           matches.Scores[0],
	}
	if err := svc.RecordFeedback(ctx, fb); err != nil {
		return fmt.Errorf("failed to record feedback: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Recorded feedback (related=%v, score=%.4f) for %q\n", fb.Related, fb.Score, best.Question)
	return nil
}
