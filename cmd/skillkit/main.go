// Copyright 2025 Bob Matsuoka
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

	skillkit "github.com/bobmatnyc/mcp-skillkit"
	"github.com/bobmatnyc/mcp-skillkit/config"
	"github.com/bobmatnyc/mcp-skillkit/core"
	"github.com/bobmatnyc/mcp-skillkit/index"
	"github.com/bobmatnyc/mcp-skillkit/search"
	"github.com/bobmatnyc/mcp-skillkit/storage"
)

func main() {
	app := &cli.App{
		Name:  "skillkit",
		Usage: "Hybrid vector and graph search over agent skill libraries",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path to config file (default ~/.skillkit/config.yaml)",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to BadgerDB database directory (overrides config)",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "scan",
				Usage:     "Discover SKILL.md manifests under a repository checkout",
				ArgsUsage: "<repo-id> <path>",
				Action:    scanCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "priority",
						Usage: "Repository priority (higher wins on id conflicts)",
					},
					&cli.BoolFlag{
						Name:  "reindex",
						Usage: "Rebuild the search index after scanning",
					},
				},
			},
			{
				Name:      "remove",
				Usage:     "Remove a repository and every skill it contributed",
				ArgsUsage: "<repo-id>",
				Action:    removeCommand,
			},
			{
				Name:   "index",
				Usage:  "Rebuild the vector and graph indexes from stored skills",
				Action: indexCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Re-embed every skill, ignoring the content-hash cache",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of skills to embed in each batch",
						Value: 32,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed embedding calls",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "Abort reindexing after this duration",
						Value: 5 * time.Minute,
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Rank skills against a query",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of results",
						Value:   10,
					},
					&cli.StringFlag{
						Name:  "category",
						Usage: "Restrict results to a category",
					},
					&cli.StringFlag{
						Name:  "mode",
						Usage: "Search mode (balanced, semantic_focused, graph_focused)",
					},
				},
			},
			{
				Name:      "get",
				Usage:     "Show a stored skill",
				ArgsUsage: "<skill-id>",
				Action:    getCommand,
			},
			{
				Name:      "related",
				Usage:     "List skills connected to a skill in the relationship graph",
				ArgsUsage: "<skill-id>",
				Action:    relatedCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of results",
						Value:   10,
					},
				},
			},
			{
				Name:   "list",
				Usage:  "List stored skills",
				Action: listCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "category",
						Usage: "Filter by category",
					},
					&cli.StringFlag{
						Name:  "tag",
						Usage: "Filter by tag",
					},
					&cli.StringFlag{
						Name:  "repo",
						Usage: "Filter by repository id",
					},
				},
			},
			{
				Name:   "categories",
				Usage:  "List the distinct skill categories",
				Action: categoriesCommand,
			},
			{
				Name:   "repos",
				Usage:  "List configured repositories",
				Action: reposCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// loadConfig resolves the effective configuration from the config file and
// global flags.
func loadConfig(c *cli.Context) (*config.Config, string, error) {
	path := c.String("config")
	if path == "" {
		var err error
		path, err = config.Path()
		if err != nil {
			return nil, "", fmt.Errorf("resolving config path: %w", err)
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", fmt.Errorf("loading config: %w", err)
	}

	dbPath := c.String("db")
	if dbPath == "" {
		dbPath, err = cfg.DatabaseDir()
		if err != nil {
			return nil, "", fmt.Errorf("resolving database directory: %w", err)
		}
	}

	return cfg, dbPath, nil
}

func openKit(ctx context.Context, c *cli.Context, extra ...skillkit.KitOption) (*skillkit.Kit, error) {
	cfg, dbPath, err := loadConfig(c)
	if err != nil {
		return nil, err
	}

	searchConfig, err := cfg.SearchConfig()
	if err != nil {
		return nil, fmt.Errorf("invalid search configuration: %w", err)
	}

	aiConfig := cfg.AIConfig()
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	opts := append([]skillkit.KitOption{
		skillkit.WithAIConfig(aiConfig),
		skillkit.WithSearchConfig(searchConfig),
	}, extra...)

	kit, err := skillkit.Open(ctx, dbPath, opts...)
	if err != nil {
		return nil, fmt.Errorf("opening skill database: %w", err)
	}
	return kit, nil
}

func scanCommand(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("usage: scan <repo-id> <path>")
	}
	repoId := c.Args().Get(0)
	localPath := c.Args().Get(1)

	ctx := context.Background()
	kit, err := openKit(ctx, c)
	if err != nil {
		return err
	}
	defer kit.Close()

	repo := &core.Repository{
		Id:        repoId,
		LocalPath: localPath,
		Priority:  c.Int("priority"),
	}

	result, err := kit.ScanRepository(ctx, repo)
	if err != nil {
		return fmt.Errorf("scanning repository: %w", err)
	}

	fmt.Printf("Repository %s: %d skills found, %d removed, %d files skipped\n",
		repoId, result.SkillsFound, result.SkillsRemoved, result.FilesSkipped)

	if c.Bool("reindex") {
		stats, err := kit.Reindex(ctx)
		if err != nil {
			return fmt.Errorf("reindexing: %w", err)
		}
		printStats(stats)
	}
	return nil
}

func removeCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: remove <repo-id>")
	}
	repoId := c.Args().Get(0)

	ctx := context.Background()
	kit, err := openKit(ctx, c)
	if err != nil {
		return err
	}
	defer kit.Close()

	removed, err := kit.RemoveRepository(ctx, repoId)
	if err != nil {
		return fmt.Errorf("removing repository: %w", err)
	}

	fmt.Printf("Removed repository %s and %d skills\n", repoId, removed)
	return nil
}

func indexCommand(c *cli.Context) error {
	ctx := context.Background()
	kit, err := openKit(ctx, c, skillkit.WithEngineOptions(
		index.WithBatchSize(c.Int("batch-size")),
		index.WithMaxRetries(c.Int("max-retries")),
		index.WithRetryDelay(c.Duration("retry-delay")),
		index.WithTimeout(c.Duration("timeout")),
		index.WithProgress(os.Stderr),
	))
	if err != nil {
		return err
	}
	defer kit.Close()

	reindex := kit.Reindex
	if c.Bool("force") {
		reindex = kit.ReindexAll
	}
	stats, err := reindex(ctx)
	if err != nil {
		return fmt.Errorf("reindexing: %w", err)
	}
	printStats(stats)
	return nil
}

func searchCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: search <query>")
	}
	query := c.Args().Get(0)

	ctx := context.Background()
	kit, err := openKit(ctx, c)
	if err != nil {
		return err
	}
	defer kit.Close()

	q := search.Query{
		Text:     query,
		Limit:    c.Int("limit"),
		Category: c.String("category"),
	}
	if mode := c.String("mode"); mode != "" {
		modeConfig, err := search.ModeConfig(mode)
		if err != nil {
			return err
		}
		q.Config = modeConfig
	}

	results, err := kit.Search(ctx, q)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(results) == 0 {
		fmt.Println("No matching skills")
		return nil
	}
	for i, scored := range results {
		fmt.Printf("%2d. %-40s %.4f (vector %.4f, graph %.4f)\n",
			i+1, scored.Skill.Id, scored.CombinedScore, scored.VectorScore, scored.GraphScore)
		fmt.Printf("    %s\n", scored.Skill.Description)
	}
	return nil
}

func getCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: get <skill-id>")
	}
	id := c.Args().Get(0)

	ctx := context.Background()
	kit, err := openKit(ctx, c)
	if err != nil {
		return err
	}
	defer kit.Close()

	skill, err := kit.GetSkill(ctx, id)
	if err != nil {
		return fmt.Errorf("getting skill %s: %w", id, err)
	}

	fmt.Printf("Id:          %s\n", skill.Id)
	fmt.Printf("Name:        %s\n", skill.Name)
	fmt.Printf("Category:    %s\n", skill.Category)
	fmt.Printf("Repository:  %s\n", skill.RepoId)
	if len(skill.Tags) > 0 {
		fmt.Printf("Tags:        %s\n", strings.Join(skill.Tags, ", "))
	}
	if len(skill.Dependencies) > 0 {
		fmt.Printf("Depends on:  %s\n", strings.Join(skill.Dependencies, ", "))
	}
	fmt.Printf("Description: %s\n", skill.Description)
	fmt.Println()
	fmt.Println(skill.Instructions)
	return nil
}

func relatedCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: related <skill-id>")
	}
	id := c.Args().Get(0)

	ctx := context.Background()
	kit, err := openKit(ctx, c)
	if err != nil {
		return err
	}
	defer kit.Close()

	results, err := kit.RelatedSkills(ctx, id, c.Int("limit"))
	if err != nil {
		return fmt.Errorf("finding related skills for %s: %w", id, err)
	}

	if len(results) == 0 {
		fmt.Println("No related skills")
		return nil
	}
	for i, scored := range results {
		fmt.Printf("%2d. %-40s %.4f\n", i+1, scored.Skill.Id, scored.GraphScore)
		fmt.Printf("    %s\n", scored.Skill.Description)
	}
	return nil
}

func listCommand(c *cli.Context) error {
	ctx := context.Background()
	kit, err := openKit(ctx, c)
	if err != nil {
		return err
	}
	defer kit.Close()

	filter := storage.Filter{
		Category: c.String("category"),
		Tag:      c.String("tag"),
		RepoId:   c.String("repo"),
	}
	skills, err := kit.ListSkills(ctx, filter)
	if err != nil {
		return fmt.Errorf("listing skills: %w", err)
	}

	for _, skill := range skills {
		fmt.Printf("%-40s %-16s %s\n", skill.Id, skill.Category, skill.Name)
	}
	fmt.Printf("%d skills\n", len(skills))
	return nil
}

func categoriesCommand(c *cli.Context) error {
	ctx := context.Background()
	kit, err := openKit(ctx, c)
	if err != nil {
		return err
	}
	defer kit.Close()

	categories, err := kit.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("listing categories: %w", err)
	}
	for _, category := range categories {
		fmt.Println(category)
	}
	return nil
}

func reposCommand(c *cli.Context) error {
	ctx := context.Background()
	kit, err := openKit(ctx, c)
	if err != nil {
		return err
	}
	defer kit.Close()

	repos, err := kit.ListRepositories(ctx)
	if err != nil {
		return fmt.Errorf("listing repositories: %w", err)
	}
	for _, repo := range repos {
		fmt.Printf("%-24s priority %2d  %4d skills  %s\n",
			repo.Id, repo.Priority, repo.SkillCount, repo.LocalPath)
	}
	return nil
}

func printStats(stats *core.IndexStats) {
	fmt.Printf("Indexed %d vectors (%d embedded, %d reused), %d graph nodes, %d edges in %s\n",
		stats.VectorCount, stats.SkillsIndexed, stats.SkillsSkipped,
		stats.GraphNodeCount, stats.GraphEdgeCount, stats.Duration.Round(time.Millisecond))
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
