// Copyright 2025 The Lorekeep Authors
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
	"sort"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/lorekeep/lorekeep"
	"github.com/lorekeep/lorekeep/core"
)

func main() {
	app := &cli.App{
		Name:  "lorekeep",
		Usage: "Personal knowledge base storage and maintenance",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:     "db",
				Aliases:  []string{"d"},
				Usage:    "Path to the data directory",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "backend",
				Usage: "Persistence backend (badger, file)",
				Value: string(lorekeep.BackendBadger),
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:  "kb",
				Usage: "Knowledge base operations",
				Subcommands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List all knowledge bases",
						Action: kbListCommand,
					},
					{
						Name:      "create",
						Usage:     "Create a knowledge base",
						ArgsUsage: "<name>",
						Action:    kbCreateCommand,
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "description",
								Usage: "Free-form description",
							},
						},
					},
					{
						Name:      "tree",
						Usage:     "Print a knowledge base's document tree",
						ArgsUsage: "<kb-id>",
						Action:    kbTreeCommand,
					},
				},
			},
			{
				Name:   "gc",
				Usage:  "Find media no document references",
				Action: gcCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "apply",
						Usage: "Delete the unreferenced media instead of only listing it",
					},
				},
			},
			{
				Name:  "media",
				Usage: "Media store operations",
				Subcommands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List stored media",
						Action: mediaListCommand,
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "provider",
								Usage: "Restrict to one provider (default: all)",
							},
						},
					},
					{
						Name:   "migrate",
						Usage:  "Move one media item between providers",
						Action: mediaMigrateCommand,
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:     "id",
								Usage:    "Media identifier to move",
								Required: true,
							},
							&cli.StringFlag{
								Name:     "from",
								Usage:    "Source provider name",
								Required: true,
							},
							&cli.StringFlag{
								Name:     "to",
								Usage:    "Target provider name",
								Required: true,
							},
						},
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func openDatabase(c *cli.Context) (*lorekeep.Database, error) {
	backend := lorekeep.Backend(c.String("backend"))
	db, err := lorekeep.NewDatabase(c.String("db"), lorekeep.WithBackend(backend))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func kbListCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	kbs, err := db.Tree().KnowledgeBases(context.Background())
	if err != nil {
		return err
	}
	if len(kbs) == 0 {
		fmt.Println("No knowledge bases.")
		return nil
	}
	for _, kb := range kbs {
		fmt.Printf("%s  %s\n", kb.ID, kb.Name)
	}
	return nil
}

func kbCreateCommand(c *cli.Context) error {
	name := c.Args().First()
	if name == "" {
		return fmt.Errorf("knowledge base name is required")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	kb, err := db.Tree().CreateKnowledgeBase(context.Background(), name, "", c.String("description"))
	if err != nil {
		return err
	}
	fmt.Println(kb.ID)
	return nil
}

func kbTreeCommand(c *cli.Context) error {
	kbID := c.Args().First()
	if kbID == "" {
		return fmt.Errorf("knowledge base id is required")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	docs, err := db.Tree().LoadDocuments(context.Background(), kbID)
	if err != nil {
		return err
	}
	printSubtree(docs, "", 0)
	return nil
}

// printSubtree prints one sibling group in order and recurses.
func printSubtree(docs []core.DocumentNode, parentID string, depth int) {
	var group []core.DocumentNode
	for i := range docs {
		if docs[i].ParentID == parentID {
			group = append(group, docs[i])
		}
	}
	sort.Slice(group, func(x, y int) bool {
		return group[x].Order < group[y].Order
	})

	for _, node := range group {
		marker := "-"
		if node.IsFolder() {
			marker = "+"
		}
		fmt.Printf("%s%s %s\n", strings.Repeat("  ", depth), marker, node.Name)
		printSubtree(docs, node.ID, depth+1)
	}
}

func gcCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	unused, err := db.UnusedMedia(ctx)
	if err != nil {
		return err
	}
	if len(unused) == 0 {
		fmt.Println("No unreferenced media.")
		return nil
	}

	for _, ref := range unused {
		fmt.Println(ref)
	}

	if !c.Bool("apply") {
		fmt.Fprintf(os.Stderr, "\n%d unreferenced item(s); rerun with --apply to delete\n", len(unused))
		return nil
	}

	removed, err := db.CleanupMedia(ctx, unused)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "\nDeleted %d item(s)\n", removed)
	return nil
}

func mediaListCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	items, err := db.Media().List(context.Background(), c.String("provider"))
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println("No stored media.")
		return nil
	}
	for _, item := range items {
		fmt.Printf("%-8s %-6s %8d  %s\n", item.Provider, item.Type, item.Size, item.ID)
	}
	return nil
}

func mediaMigrateCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	result, err := db.Media().Migrate(context.Background(), c.String("id"), c.String("from"), c.String("to"))
	if err != nil {
		return err
	}
	fmt.Println(result.URL)
	return nil
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
