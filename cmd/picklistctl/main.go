// Package main provides the picklistctl CLI entry point: a thin
// demonstration harness over the picklist orchestration core, backed by
// a file-based dataset provider. It is glue, not part of the core's
// public API.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	picklistcache "github.com/frcscout/picklist/cache"
	"github.com/frcscout/picklist/config"
	"github.com/frcscout/picklist/core"
	"github.com/frcscout/picklist/internal/datasetfile"
	"github.com/frcscout/picklist/llm"
	"github.com/frcscout/picklist/team"
)

var (
	provider string
	cacheDB  string
)

func main() {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: failed to load .env file: %v\n", err)
		}
	}

	rootCmd := &cobra.Command{
		Use:   "picklistctl",
		Short: "Generate and inspect FRC alliance-selection picklists via an LLM",
	}

	rootCmd.PersistentFlags().StringVarP(&provider, "provider", "p", "anthropic", "LLM provider (openai, anthropic, deepseek, gemini)")
	rootCmd.PersistentFlags().StringVar(&cacheDB, "cache-db", "", "SQLite cache path (empty = in-memory, not persisted across runs)")

	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(statusCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func generateCmd() *cobra.Command {
	var (
		datasetPath    string
		yourTeam       int
		pickPosition   string
		gameContext    string
		excludeTeams   []int
		teamNumbers    []int
		priorityFlags  []string
		batchSize      int
		refCount       int
		refSelection   string
		useBatchingStr string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Rank teams from a dataset file into a picklist",
		RunE: func(cmd *cobra.Command, args []string) error {
			dataset, err := datasetfile.Load(datasetPath)
			if err != nil {
				return err
			}

			priorities, err := parsePriorities(priorityFlags)
			if err != nil {
				return err
			}

			req := team.Request{
				Dataset:             dataset,
				GameContext:         gameContext,
				YourTeamNumber:      yourTeam,
				PickPosition:        team.PickPosition(pickPosition),
				Priorities:          priorities,
				ExcludeTeams:        excludeTeams,
				TeamNumbers:         teamNumbers,
				BatchSize:           batchSize,
				ReferenceTeamsCount: refCount,
				ReferenceSelection:  team.ReferenceSelection(refSelection),
			}
			if useBatchingStr != "" {
				b, err := strconv.ParseBool(useBatchingStr)
				if err != nil {
					return fmt.Errorf("invalid --use-batching value %q: %w", useBatchingStr, err)
				}
				req.UseBatching = &b
			}

			orch, cleanup, err := buildOrchestrator()
			if err != nil {
				return err
			}
			defer cleanup()

			result := orch.Generate(context.Background(), req)
			return printJSON(result)
		},
	}

	cmd.Flags().StringVar(&datasetPath, "dataset", "", "path to a JSON array of team records")
	cmd.Flags().IntVar(&yourTeam, "your-team", 0, "your team's number (excluded from its own picklist)")
	cmd.Flags().StringVar(&pickPosition, "pick-position", "first", "pick position: first, second, or third")
	cmd.Flags().StringVar(&gameContext, "game-context", "", "optional free-text game context")
	cmd.Flags().IntSliceVar(&excludeTeams, "exclude", nil, "team numbers to exclude (repeatable)")
	cmd.Flags().IntSliceVar(&teamNumbers, "team-numbers", nil, "restrict to these team numbers only (repeatable)")
	cmd.Flags().StringArrayVar(&priorityFlags, "priority", nil, "priority as id:weight[:reason] (repeatable)")
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "override the planner's batch size (0 = auto)")
	cmd.Flags().IntVar(&refCount, "reference-count", 0, "reference teams per batch (0 = default)")
	cmd.Flags().StringVar(&refSelection, "reference-selection", "", "top_middle_bottom or top (empty = default)")
	cmd.Flags().StringVar(&useBatchingStr, "use-batching", "", "force batching on/off (empty = auto)")
	cmd.MarkFlagRequired("dataset")
	cmd.MarkFlagRequired("your-team")

	return cmd
}

func statusCmd() *cobra.Command {
	var fingerprint string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Query the cached progress or result for a fingerprint",
		Long:  "Query the cached progress or result for a fingerprint. Only useful with --cache-db, since the default in-memory cache does not survive past the generate process that created it.",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.New(provider)
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}

			c, err := openCache(settings.Core.CacheTTL)
			if err != nil {
				return err
			}
			defer func() {
				if closer, ok := c.(*picklistcache.SQLiteCache); ok {
					closer.Close()
				}
			}()

			entry, ok := c.Lookup(fingerprint)
			if !ok {
				return fmt.Errorf("no cache entry for fingerprint %q", fingerprint)
			}
			return printJSON(entry)
		},
	}

	cmd.Flags().StringVar(&fingerprint, "fingerprint", "", "cache fingerprint returned by generate")
	cmd.MarkFlagRequired("fingerprint")

	return cmd
}

func buildOrchestrator() (*core.Orchestrator, func(), error) {
	settings, err := config.New(provider)
	if err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}

	providerType, err := llm.ParseProviderType(provider)
	if err != nil {
		return nil, nil, err
	}
	llmProvider, err := providerType.Model(settings.LLM.Model).FromEnv()
	if err != nil {
		return nil, nil, err
	}

	c, err := openCache(settings.Core.CacheTTL)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if closer, ok := c.(*picklistcache.SQLiteCache); ok {
			closer.Close()
		}
	}

	return core.NewOrchestrator(llmProvider, settings, c), cleanup, nil
}

func openCache(ttl time.Duration) (core.Cache, error) {
	if cacheDB == "" {
		return core.NewMemoryCache(ttl), nil
	}
	return picklistcache.Open(cacheDB, ttl)
}

// parsePriorities parses "id:weight[:reason]" flag values into
// team.Priority values.
func parsePriorities(flags []string) ([]team.Priority, error) {
	out := make([]team.Priority, 0, len(flags))
	for _, f := range flags {
		parts := strings.SplitN(f, ":", 3)
		if len(parts) < 2 {
			return nil, fmt.Errorf("invalid --priority %q: expected id:weight[:reason]", f)
		}
		weight, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid --priority %q: %w", f, err)
		}
		p := team.Priority{ID: parts[0], Weight: weight}
		if len(parts) == 3 {
			p.Reason = parts[2]
		}
		out = append(out, p)
	}
	return out, nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
