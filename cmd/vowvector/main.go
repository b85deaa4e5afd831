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
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	vowvector "github.com/poiesic/vowvector"
	"github.com/poiesic/vowvector/ai"
	"github.com/poiesic/vowvector/core"
	"github.com/poiesic/vowvector/ingestion"
	"github.com/poiesic/vowvector/reindex"
	"github.com/poiesic/vowvector/search"
)

func main() {
	app := &cli.App{
		Name:  "vowvector",
		Usage: "Knowledge graph with derived semantic search",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Ingest files as knowledge graph nodes",
				ArgsUsage: "FILE [FILE...]",
				Action:    ingestCommand,
				Flags: append(engineFlags(),
					&cli.StringFlag{
						Name:  "title",
						Usage: "Override the derived title (single file only)",
					},
					&cli.StringFlag{
						Name:  "type",
						Usage: "Override extension-based node type detection",
					},
					&cli.StringSliceFlag{
						Name:  "tag",
						Usage: "Extra tags to attach",
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Concurrent file ingestion workers",
						Value: 4,
					},
				),
			},
			{
				Name:      "import",
				Usage:     "Import a prechunked JSON document",
				ArgsUsage: "FILE",
				Action:    importCommand,
				Flags:     engineFlags(),
			},
			{
				Name:      "delete",
				Usage:     "Delete a node, its relationships, and its vectors",
				ArgsUsage: "NODE_ID",
				Action:    deleteCommand,
				Flags:     engineFlags(),
			},
			{
				Name:      "search",
				Usage:     "Semantic search over the knowledge graph",
				ArgsUsage: "QUERY",
				Action:    searchCommand,
				Flags: append(engineFlags(),
					&cli.StringFlag{
						Name:  "type",
						Usage: "Restrict to one node type",
					},
					&cli.StringSliceFlag{
						Name:  "tag",
						Usage: "Require every listed tag",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of results",
						Value: search.DefaultLimit,
					},
				),
			},
			{
				Name:   "reindex",
				Usage:  "Rebuild the vector store from the graph store",
				Action: reindexCommand,
				Flags: append(engineFlags(),
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of nodes to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N nodes",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
					&cli.BoolFlag{
						Name:  "no-purge",
						Usage: "Upsert in place instead of dropping collections first",
					},
				),
			},
			{
				Name:      "relate",
				Usage:     "Create a relationship between two nodes",
				ArgsUsage: "SOURCE_ID TARGET_ID TYPE",
				Action:    relateCommand,
				Flags:     engineFlags(),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// engineFlags are shared by every command that opens the stores.
func engineFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB database directory",
			Required: true,
		},
		&cli.StringSliceFlag{
			Name:  "redis",
			Usage: "Redis address for the vector store (omit for in-process store)",
		},
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "embeddinggemma",
		},
		&cli.IntFlag{
			Name:  "dimensions",
			Usage: "Embedding dimensionality",
			Value: 768,
		},
	}
}

func openEngine(c *cli.Context) (*vowvector.Engine, error) {
	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithDimensions(c.Int("dimensions")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	opts := []vowvector.EngineOption{vowvector.WithAIConfig(aiConfig)}
	if addrs := c.StringSlice("redis"); len(addrs) > 0 {
		opts = append(opts, vowvector.WithRedisAddrs(addrs...))
	}

	engine, err := vowvector.Open(c.String("db"), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return engine, nil
}

func ingestCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one file is required")
	}
	paths := c.Args().Slice()
	if c.String("title") != "" && len(paths) > 1 {
		return fmt.Errorf("--title applies to a single file")
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	pipeline, err := engine.NewPipeline(ingestion.WithPoolSize(c.Int("pool-size")))
	if err != nil {
		return err
	}
	defer pipeline.Release()

	opts := &ingestion.FileOptions{
		Title: c.String("title"),
		Tags:  c.StringSlice("tag"),
	}
	if typeName := c.String("type"); typeName != "" {
		nodeType, err := core.ParseNodeType(typeName)
		if err != nil {
			return fmt.Errorf("%w: %q", err, typeName)
		}
		opts.Type = nodeType
	}

	results := pipeline.IngestFiles(context.Background(), paths, opts)

	failed := 0
	for _, fr := range results {
		switch {
		case fr.Err != nil:
			failed++
			fmt.Fprintf(os.Stderr, "FAILED   %s: %v\n", fr.Path, fr.Err)
		case fr.Result.Degraded:
			fmt.Printf("DEGRADED %s -> %s (%d warnings)\n", fr.Path, fr.Result.Node.Id, len(fr.Result.Warnings))
		default:
			fmt.Printf("OK       %s -> %s\n", fr.Path, fr.Result.Node.Id)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(results))
	}
	return nil
}

func importCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("exactly one JSON file is required")
	}

	data, err := os.ReadFile(c.Args().First())
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}
	doc, err := ingestion.ParsePrechunked(data)
	if err != nil {
		return err
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	pipeline, err := engine.NewPipeline()
	if err != nil {
		return err
	}
	defer pipeline.Release()

	res, err := pipeline.IngestPrechunked(context.Background(), doc)
	if err != nil {
		return err
	}

	printResult(res)
	return nil
}

func deleteCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("exactly one node id is required")
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	pipeline, err := engine.NewPipeline()
	if err != nil {
		return err
	}
	defer pipeline.Release()

	res, err := pipeline.DeleteNode(context.Background(), c.Args().First())
	if err != nil {
		return err
	}

	fmt.Printf("deleted %s", res.Node.Id)
	if res.Degraded {
		fmt.Printf(" (vector cleanup incomplete, run reindex)")
	}
	fmt.Println()
	return nil
}

func searchCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("a query is required")
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	searcher, err := engine.NewSearcher()
	if err != nil {
		return err
	}

	query := search.Query{
		Text:  strings.Join(c.Args().Slice(), " "),
		Tags:  c.StringSlice("tag"),
		Limit: c.Int("limit"),
	}
	if typeName := c.String("type"); typeName != "" {
		nodeType, err := core.ParseNodeType(typeName)
		if err != nil {
			return fmt.Errorf("%w: %q", err, typeName)
		}
		query.Type = &nodeType
	}

	results, err := searcher.Search(context.Background(), query)
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Println("no results")
		return nil
	}
	for i, r := range results {
		fmt.Printf("%2d. [%.3f] %s  %s (%s)\n", i+1, r.Score, r.Node.Id, r.Node.Title, r.Node.Type)
	}
	return nil
}

func reindexCommand(c *cli.Context) error {
	config := &reindex.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
		Purge:          !c.Bool("no-purge"),
	}
	if config.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if config.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if config.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", c.String("embedding-host"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(os.Stderr)

	stats, err := engine.NewReindexer(config, os.Stderr).Run(context.Background())
	if err != nil {
		return fmt.Errorf("reindex failed: %w", err)
	}

	fmt.Printf("nodes=%d chunks=%d skipped=%d healed=%d\n",
		stats.Nodes, stats.Chunks, stats.Skipped, stats.Healed)
	return nil
}

func relateCommand(c *cli.Context) error {
	if c.NArg() != 3 {
		return fmt.Errorf("SOURCE_ID TARGET_ID TYPE required")
	}

	relType, err := core.ParseRelationshipType(c.Args().Get(2))
	if err != nil {
		return fmt.Errorf("%w: %q", err, c.Args().Get(2))
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	rel := &core.Relationship{
		SourceId: c.Args().Get(0),
		TargetId: c.Args().Get(1),
		Type:     relType,
	}
	if err := core.ValidateRelationship(rel); err != nil {
		return err
	}

	created, err := engine.Repository().CreateRelationship(context.Background(), rel)
	if err != nil {
		return err
	}

	fmt.Printf("%s -[%s]-> %s\n", created.SourceId, created.Type, created.TargetId)
	return nil
}

func printResult(res *ingestion.Result) {
	fmt.Printf("created %s (%s)\n", res.Node.Id, res.Node.Type)
	if res.Degraded {
		fmt.Printf("degraded: %d warnings, run reindex to repair vectors\n", len(res.Warnings))
		for _, w := range res.Warnings {
			fmt.Printf("  %s: %v\n", w.Stage, w.Err)
		}
	}
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
