// Orchestrator (C10): the public façade composing C1-C9 behind the two
// operations spec §6 exposes — generate and status. Every fallible path
// here returns a tagged team.RankingResult; no raw error ever crosses
// this boundary.

package core

import (
	"context"
	"fmt"
	"time"

	"github.com/frcscout/picklist/config"
	"github.com/frcscout/picklist/internal/logging"
	"github.com/frcscout/picklist/llm"
	"github.com/frcscout/picklist/team"
)

const defaultReferenceTeamsCount = 3

// Orchestrator ties the cache, executor, and batch coordinator to one
// configured provider and settings snapshot.
type Orchestrator struct {
	Provider llm.Provider
	Settings config.Settings
	Cache    Cache
}

// NewOrchestrator wires an Orchestrator from a provider, settings, and a
// cache implementation. Pass a *MemoryCache for process-local caching or
// any other Cache implementation for shared storage.
func NewOrchestrator(provider llm.Provider, settings config.Settings, cache Cache) *Orchestrator {
	return &Orchestrator{Provider: provider, Settings: settings, Cache: cache}
}

// Generate runs the full pipeline for req: validate, normalize weights,
// condense, plan, and run the batch coordinator (one batch when the plan
// does not batch), publishing a success or partial result to the cache
// under its fingerprint. An error result clears the fingerprint's entry
// instead, so no in-flight marker or failed result lingers.
//
// A cache hit on an already-finalized fingerprint short-circuits the
// whole pipeline and returns the stored result with zero LLM calls.
func (o *Orchestrator) Generate(ctx context.Context, req team.Request) team.RankingResult {
	start := time.Now()

	dataset := filterDataset(req)
	if errResult := validateRequest(req, dataset); errResult != nil {
		return team.RankingResult{
			Status:                team.StatusError,
			ProcessingTimeSeconds: time.Since(start).Seconds(),
			Error:                 errResult,
		}
	}

	normalized, errResult := NormalizeWeights(req.Priorities)
	if errResult != nil {
		return team.RankingResult{
			Status:                team.StatusError,
			ProcessingTimeSeconds: time.Since(start).Seconds(),
			Error:                 errResult,
		}
	}

	fingerprint := Fingerprint(req, normalized)

	if o.Cache != nil {
		if entry, ok := o.Cache.Lookup(fingerprint); ok && entry.Status == team.CacheFinal && entry.Result != nil {
			logging.Debugf("core: cache hit for %s", fingerprint)
			return *entry.Result
		}
		o.Cache.Reserve(fingerprint)
	}

	condensed := Condense(dataset, normalized)

	budget := NewBudget(o.Settings.LLM.Model, o.Settings.Core.MaxInputTokens, o.Settings.Core.MaxOutputTokens)
	plan := BuildPlan(req, len(condensed), len(normalized), budget, o.Settings.Core.SingleProcessingThreshold, o.Settings.Core.DefaultBatchSize)

	format := team.FormatStandard
	if o.Settings.Core.UseUltraCompactPrompt {
		format = team.FormatCompact
	}

	executor := NewExecutor(o.Provider, budget, o.Settings.Core.MaxRetries, o.Settings.Core.InitialRetryDelay, o.Settings.LLM.Temperature)

	coordinator := &Coordinator{
		Executor:           executor,
		Cache:              o.Cache,
		ReferenceCount:     resolveReferenceCount(req),
		ReferenceSelection: resolveReferenceSelection(req),
		PerBatchTimeout:    o.Settings.Core.PerBatchTimeout,
		Format:             format,
	}

	batchSize := 0
	if plan.UseBatching {
		batchSize = plan.BatchSize
	}

	yourTeamProfile := buildYourTeamProfile(req, dataset)

	result := coordinator.Run(ctx, condensed, normalized, req, yourTeamProfile, fingerprint, batchSize)
	result.ProcessingTimeSeconds = time.Since(start).Seconds()

	if o.Cache != nil {
		if result.Status == team.StatusError {
			o.Cache.Delete(fingerprint)
		} else {
			stored := result
			o.Cache.Publish(fingerprint, team.CacheEntry{Status: team.CacheFinal, Result: &stored})
		}
	}

	return result
}

// Status reports the cache entry for a fingerprint previously returned
// on a RankingResult, letting a caller poll progress on a long-running
// batched request (spec §6's status operation). ok is false if the
// fingerprint is unknown or has expired.
func (o *Orchestrator) Status(fingerprint string) (team.CacheEntry, bool) {
	if o.Cache == nil {
		return team.CacheEntry{}, false
	}
	return o.Cache.Lookup(fingerprint)
}

// filterDataset applies TeamNumbers (an explicit allow-list, if
// non-empty), ExcludeTeams, and the requesting team's own exclusion.
func filterDataset(req team.Request) []team.TeamRecord {
	var allow map[int]bool
	if len(req.TeamNumbers) > 0 {
		allow = make(map[int]bool, len(req.TeamNumbers))
		for _, tn := range req.TeamNumbers {
			allow[tn] = true
		}
	}

	exclude := make(map[int]bool, len(req.ExcludeTeams)+1)
	for _, tn := range req.ExcludeTeams {
		exclude[tn] = true
	}
	exclude[req.YourTeamNumber] = true

	out := make([]team.TeamRecord, 0, len(req.Dataset))
	for _, r := range req.Dataset {
		if allow != nil && !allow[r.TeamNumber] {
			continue
		}
		if exclude[r.TeamNumber] {
			continue
		}
		out = append(out, r)
	}
	return out
}

// validateRequest checks the fatal-before-any-call invariants of spec
// §4.10/§7: a usable pick position, a positive team number, and a
// non-empty candidate pool after filtering.
func validateRequest(req team.Request, filtered []team.TeamRecord) *team.ResultError {
	if req.YourTeamNumber <= 0 {
		return &team.ResultError{Kind: team.ErrInvalidInput, Message: "your_team_number must be positive"}
	}
	if !req.PickPosition.Valid() {
		return &team.ResultError{Kind: team.ErrInvalidInput, Message: fmt.Sprintf("unrecognized pick_position %q", req.PickPosition)}
	}
	if len(req.Dataset) == 0 {
		return &team.ResultError{Kind: team.ErrInvalidInput, Message: "dataset is empty"}
	}
	if len(filtered) == 0 {
		return &team.ResultError{Kind: team.ErrInvalidInput, Message: "no candidate teams remain after applying team_numbers/exclude_teams"}
	}
	return nil
}

func resolveReferenceCount(req team.Request) int {
	if req.ReferenceTeamsCount > 0 {
		return req.ReferenceTeamsCount
	}
	return defaultReferenceTeamsCount
}

func resolveReferenceSelection(req team.Request) team.ReferenceSelection {
	if req.ReferenceSelection != "" {
		return req.ReferenceSelection
	}
	return team.ReferenceTopMiddleBottom
}

// buildYourTeamProfile renders a short free-text description of the
// requesting team for the prompt's "your team" section, looked up from
// the raw dataset before it was filtered down to candidates.
func buildYourTeamProfile(req team.Request, _ []team.TeamRecord) string {
	for _, r := range req.Dataset {
		if r.TeamNumber == req.YourTeamNumber {
			if r.Nickname != "" {
				return fmt.Sprintf("Team %d (%s)", r.TeamNumber, r.Nickname)
			}
			return fmt.Sprintf("Team %d", r.TeamNumber)
		}
	}
	return fmt.Sprintf("Team %d", req.YourTeamNumber)
}
