// Batch Coordinator (C9): splits a condensed team list into batches,
// executes each (with reference-team calibration and a per-batch
// timeout), tracks progress, merges partial rankings, and runs a single
// omission pass over any teams the model dropped, per spec §4.9.
//
// Single-processing (spec §4.8's non-batched path) is modeled here as
// the degenerate case of exactly one batch spanning the whole dataset,
// so the merge/omission-pass logic in this file is shared by both
// strategies rather than duplicated.

package core

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/frcscout/picklist/internal/logging"
	"github.com/frcscout/picklist/team"
)

// Coordinator runs the batch/omission state machine of spec §4.9's
// state list: reserved -> planning -> running -> merging ->
// reranking_omissions -> finalized / failed.
type Coordinator struct {
	Executor           *Executor
	Cache              Cache
	ReferenceCount     int
	ReferenceSelection team.ReferenceSelection
	PerBatchTimeout    time.Duration
	Format             team.FormatTag

	// tickInterval overrides progressTickInterval in tests so an
	// in-flight progress tick can be observed without a real sleep.
	// Zero means use progressTickInterval.
	tickInterval time.Duration
}

// defaultExpectedBatchDuration is the interpolation horizon used when no
// per-batch timeout is configured (PerBatchTimeout <= 0 means "wait
// indefinitely", which leaves no natural expected-time bound).
const defaultExpectedBatchDuration = 30 * time.Second

// progressTickInterval is how often an in-flight batch's interpolated
// percentage is recomputed and published.
const progressTickInterval = time.Second

type batchOutcome struct {
	batchNumber int
	entries     []team.RankedEntry
	success     bool
	errResult   *team.ResultError
}

// Run executes batchSize-sized batches over teams (already condensed
// and carrying priorities-derived weighted scores), publishing progress
// to cache under fingerprint, then runs the omission pass and returns
// the finished RankingResult. req and priorities feed prompt
// compilation; yourTeamProfile is optional free text about the
// requesting team.
func (c *Coordinator) Run(
	ctx context.Context,
	teams []team.CondensedTeam,
	priorities []team.NormalizedPriority,
	req team.Request,
	yourTeamProfile string,
	fingerprint string,
	batchSize int,
) team.RankingResult {
	start := time.Now()

	globalRanked := append([]team.CondensedTeam(nil), teams...)
	SortByWeightedScoreDescending(globalRanked)

	batches := splitBatches(teams, batchSize)
	totalBatches := len(batches)

	progress := NewBatchProgress(fingerprint, totalBatches, start)
	c.publishProgress(fingerprint, progress)

	outcomes := make([]batchOutcome, 0, totalBatches)
	for i, batch := range batches {
		batchNumber := i + 1

		var referenceTeams []team.CondensedTeam
		if totalBatches > 1 {
			referenceTeams = nonOverlapping(SelectReferenceTeams(globalRanked, c.ReferenceCount, c.ReferenceSelection), batch)
		}

		promptTeams := append(append([]team.CondensedTeam(nil), referenceTeams...), batch...)

		bundle, err := CompilePrompt(promptTeams, priorities, req, yourTeamProfile, c.Format)
		if err != nil {
			outcome := batchOutcome{batchNumber: batchNumber, errResult: &team.ResultError{Kind: team.ErrAPI, Message: err.Error()}}
			outcomes = append(outcomes, outcome)
			progress = AdvanceBatch(progress, batchNumber, fmt.Sprintf("batch %d failed to compile: %v", batchNumber, err))
			c.publishProgress(fingerprint, progress)
			continue
		}

		batchCtx := ctx
		var cancel context.CancelFunc
		if c.PerBatchTimeout > 0 {
			batchCtx, cancel = context.WithTimeout(ctx, c.PerBatchTimeout)
		}

		expected := c.PerBatchTimeout
		if expected <= 0 {
			expected = defaultExpectedBatchDuration
		}
		stopTick := c.startProgressTicker(fingerprint, progress, batchNumber, expected)

		result := c.Executor.Run(batchCtx, bundle, 0)
		stopTick()
		if cancel != nil {
			cancel()
		}

		if ctx.Err() != nil {
			return c.cancelledResult(fingerprint, start)
		}

		if !result.Success {
			logging.Warnf("core: batch %d/%d failed: %v", batchNumber, totalBatches, result.Error)
			outcomes = append(outcomes, batchOutcome{batchNumber: batchNumber, errResult: result.Error})
			progress = AdvanceBatch(progress, batchNumber, fmt.Sprintf("batch %d failed: %s", batchNumber, result.Error.Kind))
			c.publishProgress(fingerprint, progress)
			continue
		}

		entries := ParseResponse(result.RawText, bundle.IndexMap, promptTeams)
		outcomes = append(outcomes, batchOutcome{batchNumber: batchNumber, entries: entries, success: true})
		progress = AdvanceBatch(progress, batchNumber, fmt.Sprintf("batch %d ok: %d entries", batchNumber, len(entries)))
		c.publishProgress(fingerprint, progress)
	}

	succeeded := 0
	var merged []team.RankedEntry
	for _, o := range outcomes {
		if o.success {
			succeeded++
			merged = mergeEntries(merged, o.entries)
		}
	}

	if succeeded == 0 {
		return team.RankingResult{
			Status:                team.StatusError,
			CacheKey:              fingerprint,
			ProcessingTimeSeconds: time.Since(start).Seconds(),
			Error:                 &team.ResultError{Kind: team.ErrPartialFailure, Message: "every batch failed"},
		}
	}

	merged = c.runOmissionPass(ctx, merged, teams, priorities, req, yourTeamProfile, fingerprint)

	SortByScoreDescending(merged)

	status := team.StatusSuccess
	if succeeded < totalBatches {
		status = team.StatusPartial
	}

	return team.RankingResult{
		Status:                status,
		Picklist:              merged,
		BatchesProcessed:      succeeded,
		TotalBatches:          totalBatches,
		CacheKey:              fingerprint,
		ProcessingTimeSeconds: time.Since(start).Seconds(),
	}
}

// runOmissionPass computes the set difference between allTeams and the
// merged picklist and, if non-empty, issues exactly one follow-up call
// ranking only the omitted teams (spec's resolved Open Question: at
// most one omission pass). Any team still missing afterward is filled
// with a synthetic fallback entry.
func (c *Coordinator) runOmissionPass(
	ctx context.Context,
	merged []team.RankedEntry,
	allTeams []team.CondensedTeam,
	priorities []team.NormalizedPriority,
	req team.Request,
	yourTeamProfile string,
	fingerprint string,
) []team.RankedEntry {
	present := make(map[int]bool, len(merged))
	for _, e := range merged {
		present[e.TeamNumber] = true
	}

	var omitted []team.CondensedTeam
	for _, t := range allTeams {
		if !present[t.TeamNumber] {
			omitted = append(omitted, t)
		}
	}
	if len(omitted) == 0 {
		return merged
	}

	logging.Warnf("core: omission pass recovering %d teams for %s", len(omitted), fingerprint)

	bundle, err := CompilePrompt(omitted, priorities, req, yourTeamProfile, c.Format)
	if err == nil {
		batchCtx := ctx
		var cancel context.CancelFunc
		if c.PerBatchTimeout > 0 {
			batchCtx, cancel = context.WithTimeout(ctx, c.PerBatchTimeout)
		}
		result := c.Executor.Run(batchCtx, bundle, 0)
		if cancel != nil {
			cancel()
		}

		if result.Success {
			recovered := ParseResponse(result.RawText, bundle.IndexMap, omitted)
			merged = mergeEntries(merged, recovered)

			present = make(map[int]bool, len(merged))
			for _, e := range merged {
				present[e.TeamNumber] = true
			}
			remaining := omitted[:0:0]
			for _, t := range omitted {
				if !present[t.TeamNumber] {
					remaining = append(remaining, t)
				}
			}
			omitted = remaining
		} else {
			logging.Warnf("core: omission pass call failed: %v", result.Error)
		}
	} else {
		logging.Warnf("core: omission pass prompt failed to compile: %v", err)
	}

	if len(omitted) == 0 {
		return merged
	}

	// Still missing after the one allowed omission pass: synthesize
	// fallback entries below the lowest model-emitted score. merged is
	// not yet sorted at this point, so scan for the true minimum.
	lowest := 0.0
	haveLowest := false
	for _, e := range merged {
		if !haveLowest || e.Score < lowest {
			lowest = e.Score
			haveLowest = true
		}
	}
	fallbackScore := lowest - 1

	for _, t := range omitted {
		merged = append(merged, team.RankedEntry{
			TeamNumber: t.TeamNumber,
			Nickname:   t.Nickname,
			Score:      fallbackScore,
			Reasoning:  "not ranked by the model; filled to preserve bijection with the input team set",
			IsFallback: true,
		})
		fallbackScore--
	}
	return merged
}

// splitBatches divides teams into contiguous slices of at most
// batchSize. If batchSize <= 0 or batchSize >= len(teams), the result
// is a single batch spanning the whole dataset (the single-processing
// case).
func splitBatches(teams []team.CondensedTeam, batchSize int) [][]team.CondensedTeam {
	if batchSize <= 0 || batchSize >= len(teams) {
		if len(teams) == 0 {
			return nil
		}
		return [][]team.CondensedTeam{teams}
	}

	var batches [][]team.CondensedTeam
	for i := 0; i < len(teams); i += batchSize {
		end := i + batchSize
		if end > len(teams) {
			end = len(teams)
		}
		batches = append(batches, teams[i:end])
	}
	return batches
}

// nonOverlapping filters reference teams already present in batch, so a
// team is never listed twice in the same prompt's index map.
func nonOverlapping(referenceTeams, batch []team.CondensedTeam) []team.CondensedTeam {
	inBatch := make(map[int]bool, len(batch))
	for _, t := range batch {
		inBatch[t.TeamNumber] = true
	}
	out := make([]team.CondensedTeam, 0, len(referenceTeams))
	for _, t := range referenceTeams {
		if !inBatch[t.TeamNumber] {
			out = append(out, t)
		}
	}
	return out
}

// mergeEntries combines two already-individually-deduplicated entry
// lists, keeping the highest score for any team number present in both
// (spec §4.9's Merge step).
func mergeEntries(existing, fresh []team.RankedEntry) []team.RankedEntry {
	byTeam := make(map[int]team.RankedEntry, len(existing)+len(fresh))
	order := make([]int, 0, len(existing)+len(fresh))

	add := func(e team.RankedEntry) {
		if current, ok := byTeam[e.TeamNumber]; ok {
			if e.Score > current.Score {
				byTeam[e.TeamNumber] = e
			}
			return
		}
		byTeam[e.TeamNumber] = e
		order = append(order, e.TeamNumber)
	}

	for _, e := range existing {
		add(e)
	}
	for _, e := range fresh {
		add(e)
	}

	out := make([]team.RankedEntry, 0, len(order))
	for _, tn := range order {
		out = append(out, byTeam[tn])
	}
	return out
}

// SortByScoreDescending sorts ranked entries by score, best first,
// breaking ties by team number for determinism.
func SortByScoreDescending(entries []team.RankedEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].TeamNumber < entries[j].TeamNumber
	})
}

// startProgressTicker publishes an interpolated progress estimate for
// batchNumber every progressTickInterval while its LLM call is in
// flight, per spec §4.9's elapsed-over-expected-time rule. The returned
// func stops the ticker and must be called once the batch's call
// returns, before the next batch starts.
func (c *Coordinator) startProgressTicker(fingerprint string, base team.BatchProgress, batchNumber int, expected time.Duration) func() {
	start := time.Now()
	stop := make(chan struct{})
	done := make(chan struct{})

	interval := c.tickInterval
	if interval <= 0 {
		interval = progressTickInterval
	}

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				estimate := InterpolateInFlight(base, batchNumber, time.Since(start), expected)
				c.publishProgress(fingerprint, estimate)
			}
		}
	}()

	return func() {
		close(stop)
		<-done
	}
}

func (c *Coordinator) publishProgress(fingerprint string, progress team.BatchProgress) {
	if c.Cache == nil {
		return
	}
	c.Cache.Publish(fingerprint, team.CacheEntry{
		Status:   team.CacheProgress,
		Progress: &progress,
	})
}

func (c *Coordinator) cancelledResult(fingerprint string, start time.Time) team.RankingResult {
	if c.Cache != nil {
		c.Cache.Delete(fingerprint)
	}
	return team.RankingResult{
		Status:                team.StatusError,
		CacheKey:              fingerprint,
		ProcessingTimeSeconds: time.Since(start).Seconds(),
		Error:                 &team.ResultError{Kind: team.ErrCancelled, Message: "request cancelled"},
	}
}
