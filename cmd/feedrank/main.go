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
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/feedrank"
	"github.com/poiesic/feedrank/config"
	"github.com/poiesic/feedrank/core"
	"github.com/urfave/cli/v2"
)

// excerptLength bounds the excerpt printed per result.
const excerptLength = 200

// newEngine builds the engine for a command.
var newEngine = func(cfg *config.Config) (*feedrank.Engine, error) {
	return feedrank.NewEngine(feedrank.WithConfig(cfg))
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func sourceFlag() cli.Flag {
	return &cli.StringSliceFlag{
		Name:    "source",
		Aliases: []string{"s"},
		Usage:   "Restrict to a source id (repeatable, or \"all\")",
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "feedrank",
		Usage: "Search and rank articles from developer content feeds",
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
				Usage:   "Path to the configuration file",
				Value:   config.DefaultPath(),
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Search content across sources",
				ArgsUsage: "QUERY",
				Action:    searchCommand,
				Flags: []cli.Flag{
					sourceFlag(),
					&cli.BoolFlag{
						Name:  "require-code",
						Usage: "Only return articles containing code",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of results to print",
						Value: 10,
					},
				},
			},
			{
				Name:      "pattern",
				Usage:     "Find high-quality articles about a topic",
				ArgsUsage: "TOPIC",
				Action:    patternCommand,
				Flags: []cli.Flag{
					sourceFlag(),
					&cli.IntFlag{
						Name:  "min-quality",
						Usage: "Minimum relevance score (0-100)",
						Value: feedrank.DefaultMinQuality,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of results to print",
						Value: 10,
					},
				},
			},
			{
				Name:   "sources",
				Usage:  "List sources and their state",
				Action: sourcesCommand,
			},
			{
				Name:      "enable",
				Usage:     "Enable a source and save the configuration",
				ArgsUsage: "SOURCE",
				Action:    enableCommand,
			},
			{
				Name:      "disable",
				Usage:     "Disable a source and save the configuration",
				ArgsUsage: "SOURCE",
				Action:    disableCommand,
			},
			{
				Name:      "suggest",
				Usage:     "Suggest indexed words close to a misspelled query",
				ArgsUsage: "WORD",
				Action:    suggestCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of suggestions",
						Value: 3,
					},
				},
			},
		},
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func openEngine(c *cli.Context) (*feedrank.Engine, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	engine, err := newEngine(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to start engine: %w", err)
	}
	return engine, nil
}

func query(c *cli.Context, name string) (string, error) {
	q := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(q) == "" {
		return "", fmt.Errorf("missing required argument: %s", name)
	}
	return q, nil
}

func searchCommand(c *cli.Context) error {
	q, err := query(c, "query")
	if err != nil {
		return err
	}
	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	resp, err := engine.Search(context.Background(), feedrank.SearchQuery{
		Query:       q,
		RequireCode: c.Bool("require-code"),
		Sources:     c.StringSlice("source"),
	})
	if err != nil {
		return err
	}

	w := c.App.Writer
	if len(resp.Documents) == 0 {
		suffix := ""
		if c.Bool("require-code") {
			suffix = " with code examples"
		}
		fmt.Fprintf(w, "No results found for %q%s.\n", q, suffix)
		if hints, err := engine.Suggest(context.Background(), q, 3); err == nil && len(hints) > 0 {
			fmt.Fprintf(w, "Did you mean: %s?\n", strings.Join(hints, ", "))
		}
		return nil
	}
	printDocuments(w, fmt.Sprintf("Results for %q", q), resp, c.Int("limit"))
	return nil
}

func patternCommand(c *cli.Context) error {
	topic, err := query(c, "topic")
	if err != nil {
		return err
	}
	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	resp, err := engine.Patterns(context.Background(), feedrank.PatternQuery{
		Topic:      topic,
		Sources:    c.StringSlice("source"),
		MinQuality: c.Int("min-quality"),
	})
	if err != nil {
		return err
	}

	w := c.App.Writer
	if len(resp.Documents) == 0 {
		fmt.Fprintf(w, "No patterns found for %q with quality >= %d.\n", topic, c.Int("min-quality"))
		return nil
	}
	printDocuments(w, fmt.Sprintf("Patterns for %q", topic), resp, c.Int("limit"))
	return nil
}

func sourcesCommand(c *cli.Context) error {
	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	w := c.App.Writer
	for _, s := range engine.Sources() {
		state := "disabled"
		switch {
		case s.Enabled:
			state = "enabled"
		case !s.Configured:
			state = "needs setup"
		}
		fmt.Fprintf(w, "%-14s %-12s %s\n", s.ID, state, s.Name)
	}
	return nil
}

func enableCommand(c *cli.Context) error {
	return setSourceEnabled(c, true)
}

func disableCommand(c *cli.Context) error {
	return setSourceEnabled(c, false)
}

func setSourceEnabled(c *cli.Context, enabled bool) error {
	id := strings.ToLower(c.Args().First())
	if id == "" {
		return fmt.Errorf("missing required argument: source")
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	engine, err := newEngine(cfg)
	if err != nil {
		return fmt.Errorf("failed to start engine: %w", err)
	}
	defer engine.Close()

	if enabled {
		err = engine.EnableSource(id)
	} else {
		err = engine.DisableSource(id)
	}
	if err != nil {
		return err
	}
	cfg.SetEnabled(id, enabled)
	if err := cfg.Save(c.String("config")); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	verb := "disabled"
	if enabled {
		verb = "enabled"
	}
	fmt.Fprintf(c.App.Writer, "%s %s\n", id, verb)
	return nil
}

func suggestCommand(c *cli.Context) error {
	word, err := query(c, "word")
	if err != nil {
		return err
	}
	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	hints, err := engine.Suggest(context.Background(), word, c.Int("limit"))
	if err != nil {
		return err
	}
	if len(hints) == 0 {
		fmt.Fprintf(c.App.Writer, "No suggestions for %q.\n", word)
		return nil
	}
	for _, h := range hints {
		fmt.Fprintln(c.App.Writer, h)
	}
	return nil
}

func printDocuments(w io.Writer, heading string, resp feedrank.Response, limit int) {
	docs := resp.Documents
	if limit > 0 && len(docs) > limit {
		docs = docs[:limit]
	}
	fmt.Fprintf(w, "%s (%d of %d)\n\n", heading, len(docs), len(resp.Documents))
	for i, d := range docs {
		printDocument(w, i+1, d)
	}
	for id, err := range resp.Failed {
		slog.Warn("source unavailable", "source", id, "err", err)
	}
}

func printDocument(w io.Writer, n int, d core.Document) {
	code := ""
	if d.HasCode {
		code = " [code]"
	}
	fmt.Fprintf(w, "%d. %s (%s) score %d%s\n", n, d.Title, d.SourceID, d.RelevanceScore, code)
	if d.URL != "" {
		fmt.Fprintf(w, "   %s\n", d.URL)
	}
	if len(d.Topics) > 0 {
		fmt.Fprintf(w, "   topics: %s\n", strings.Join(d.Topics, ", "))
	}
	if excerpt := clip(d.Excerpt, excerptLength); excerpt != "" {
		fmt.Fprintf(w, "   %s\n", excerpt)
	}
	fmt.Fprintln(w)
}

func clip(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n]) + "..."
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
