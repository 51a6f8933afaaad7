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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/poiesic/claimlens"
	"github.com/poiesic/claimlens/indexer"
	"github.com/poiesic/claimlens/search"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "claimlens",
		Usage: "Answer questions about insurance claims",
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
				Usage:   "Path to YAML configuration file",
				EnvVars: []string{"CLAIMLENS_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "data-dir",
				Aliases: []string{"d"},
				Usage:   "Directory holding the claim store and audit log (overrides config)",
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Load environment variables from this file if it exists",
				Value: ".env",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:      "ask",
				Usage:     "Answer a free-text query or claim number",
				ArgsUsage: "<query>",
				Action:    askCommand,
				Flags:     []cli.Flag{traceFlag()},
			},
			{
				Name:      "semantic",
				Usage:     "Find claims by meaning using the semantic index",
				ArgsUsage: "<query>",
				Action:    semanticCommand,
				Flags:     []cli.Flag{traceFlag()},
			},
			{
				Name:      "lookup",
				Usage:     "Show the status of one claim",
				ArgsUsage: "<claim-number>",
				Action:    lookupCommand,
			},
			{
				Name:      "details",
				Usage:     "Show one claim with its newest events",
				ArgsUsage: "<claim-number>",
				Action:    detailsCommand,
			},
			{
				Name:   "list",
				Usage:  "List claims, newest first",
				Action: listCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "policy",
						Usage: "Only claims on this policy number",
					},
					&cli.StringFlag{
						Name:  "status",
						Usage: "Only claims in this status (e.g. denied, in_review, PENDING)",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: fmt.Sprintf("Page size (max %d)", search.MaxListLimit),
						Value: search.DefaultListLimit,
					},
				},
			},
			{
				Name:   "index",
				Usage:  "Build semantic chunks for stored claims",
				Action: indexCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Index only the N most recent claims (0 for all)",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of claims embedded per call (overrides config)",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of batches embedded concurrently (overrides config)",
					},
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Re-embed claims whose chunk is unchanged",
					},
				},
			},
			{
				Name:      "import",
				Usage:     "Load claims from a JSON array",
				ArgsUsage: "<file.json|->",
				Action:    importCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "events",
						Usage: "The array holds claim events instead of claims",
					},
				},
			},
			{
				Name:   "config",
				Usage:  "Print the effective configuration",
				Action: configCommand,
			},
		},
	}
}

func traceFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "trace",
		Usage: "Print each stage of answering the query to stderr",
	}
}

func setup(c *cli.Context) error {
	if err := setupLogger(c); err != nil {
		return err
	}
	if path := c.String("env-file"); path != "" {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

func loadConfig(c *cli.Context) (*claimlens.Config, error) {
	cfg, err := claimlens.LoadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}
	if dir := c.String("data-dir"); dir != "" {
		cfg.DataDir = dir
	}
	return cfg, nil
}

func openService(c *cli.Context) (*claimlens.Service, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	svc, err := claimlens.Open(c.Context, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open claim store: %w", err)
	}
	return svc, nil
}

func queryArg(c *cli.Context) string {
	return strings.Join(c.Args().Slice(), " ")
}

func askCommand(c *cli.Context) error {
	svc, err := openService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	searcher, err := svc.NewSearcher()
	if err != nil {
		return err
	}

	var monitor search.SearchMonitor
	if c.Bool("trace") {
		monitor = newTraceMonitor(c.App.ErrWriter)
	}
	resp, err := searcher.AskWithMonitor(c.Context, queryArg(c), monitor)
	return respond(c.App.Writer, resp, err)
}

func semanticCommand(c *cli.Context) error {
	svc, err := openService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	searcher, err := svc.NewSearcher()
	if err != nil {
		return err
	}

	var monitor search.SearchMonitor
	if c.Bool("trace") {
		monitor = newTraceMonitor(c.App.ErrWriter)
	}
	resp, err := searcher.SemanticWithMonitor(c.Context, queryArg(c), monitor)
	return respond(c.App.Writer, resp, err)
}

func lookupCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("lookup takes exactly one claim number")
	}

	svc, err := openService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	searcher, err := svc.NewSearcher()
	if err != nil {
		return err
	}

	resp, err := searcher.Lookup(c.Context, c.Args().First())
	return respond(c.App.Writer, resp, err)
}

func detailsCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("details takes exactly one claim number")
	}

	svc, err := openService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	searcher, err := svc.NewSearcher()
	if err != nil {
		return err
	}

	details, err := searcher.Details(c.Context, c.Args().First())
	if err != nil {
		return err
	}
	return writeJSON(c.App.Writer, details)
}

func listCommand(c *cli.Context) error {
	svc, err := openService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	searcher, err := svc.NewSearcher()
	if err != nil {
		return err
	}

	claims, err := searcher.List(c.Context, search.ListOptions{
		PolicyNumber: c.String("policy"),
		Status:       c.String("status"),
		Limit:        c.Int("limit"),
	})
	if err != nil {
		return err
	}
	return writeJSON(c.App.Writer, claims)
}

func indexCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if c.IsSet("limit") {
		cfg.Indexer.Limit = c.Int("limit")
	}
	if c.IsSet("batch-size") {
		cfg.Indexer.BatchSize = c.Int("batch-size")
	}
	if c.IsSet("workers") {
		cfg.Indexer.Workers = c.Int("workers")
	}
	cfg.Indexer.Force = cfg.Indexer.Force || c.Bool("force")

	// Validate config
	if cfg.Indexer.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if cfg.Indexer.Limit < 0 {
		return fmt.Errorf("limit must not be negative")
	}

	svc, err := claimlens.Open(c.Context, cfg)
	if err != nil {
		return fmt.Errorf("failed to open claim store: %w", err)
	}
	defer svc.Close()

	ix, err := svc.NewIndexer(indexer.WithProgress(c.App.ErrWriter))
	if err != nil {
		return err
	}
	defer ix.Release()

	fmt.Fprintf(c.App.ErrWriter, "Database: %s\n", cfg.ClaimsPath())
	fmt.Fprintf(c.App.ErrWriter, "Embedding provider: %s\n", cfg.AI.Provider)
	fmt.Fprintf(c.App.ErrWriter, "Embedding model: %s\n", cfg.AI.EmbeddingModel)
	fmt.Fprintln(c.App.ErrWriter)

	summary, err := ix.Run(c.Context)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}
	return writeJSON(c.App.Writer, map[string]any{
		"total":      summary.Total,
		"indexed":    summary.Indexed,
		"unchanged":  summary.Skipped,
		"elapsed_ms": summary.Elapsed.Milliseconds(),
	})
}

func importCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("import takes exactly one file (use - for stdin)")
	}

	var r io.Reader = os.Stdin
	if path := c.Args().First(); path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	svc, err := openService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	importer := svc.ImportClaims
	if c.Bool("events") {
		importer = svc.ImportEvents
	}
	n, err := importer(c.Context, r)
	if err != nil {
		return err
	}
	return writeJSON(c.App.Writer, map[string]int{"imported": n})
}

func configCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = c.App.Writer.Write(out)
	return err
}

// respond prints the envelope, which is present even when err is set.
func respond(w io.Writer, resp *search.Response, err error) error {
	if resp != nil {
		if werr := writeJSON(w, resp); werr != nil {
			return werr
		}
	}
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
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
