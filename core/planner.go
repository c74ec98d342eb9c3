// Request Planner (C8): decides single vs. batched execution strategy
// and computes batch size, per spec §4.8.

package core

import (
	"github.com/frcscout/picklist/internal/logging"
	"github.com/frcscout/picklist/team"
)

// PlanMarginThreshold is the estimator-projected fraction of the input
// budget above which batching is triggered even when team/priority
// counts alone would not trigger it.
const PlanMarginThreshold = 0.8

// defaultSingleProcessingThreshold is the default team-count ceiling
// above which batching is used; BuildPlan takes the effective threshold
// from Settings as a parameter.
const defaultSingleProcessingThreshold = 20

// Plan is the C8 output: whether to batch, and at what size.
type Plan struct {
	UseBatching bool
	BatchSize   int
}

// BuildPlan decides batching strategy for a request.
//
// singleProcessingThreshold and defaultBatchSize come from configuration
// (spec §6); budget is used to project token usage for the margin rule.
func BuildPlan(req team.Request, teamCount, priorityCount int, budget Budget, singleProcessingThreshold, defaultBatchSize int) Plan {
	if req.UseBatching != nil {
		plan := Plan{UseBatching: *req.UseBatching, BatchSize: resolveBatchSize(req, priorityCount, defaultBatchSize)}
		if !plan.UseBatching && teamCount > singleProcessingThreshold {
			logging.Warnf("core: caller forced single-processing for %d teams (threshold %d); this may exceed the token budget", teamCount, singleProcessingThreshold)
		}
		if plan.UseBatching && teamCount <= singleProcessingThreshold && !budget.ExceedsMargin(teamCount, priorityCount, team.FormatCompact, PlanMarginThreshold) {
			logging.Warnf("core: caller forced batching for only %d teams; single-processing would likely suffice", teamCount)
		}
		return plan
	}

	useBatching := teamCount > singleProcessingThreshold ||
		budget.ExceedsMargin(teamCount, priorityCount, team.FormatCompact, PlanMarginThreshold) ||
		priorityCount > 6

	return Plan{
		UseBatching: useBatching,
		BatchSize:   resolveBatchSize(req, priorityCount, defaultBatchSize),
	}
}

// resolveBatchSize honors an explicit caller override, else derives the
// batch size from priority count: default, reduced by 1 for P in [4,5],
// by 2 for P > 5, clamped to [15, 25].
func resolveBatchSize(req team.Request, priorityCount, defaultBatchSize int) int {
	if req.BatchSize > 0 {
		return req.BatchSize
	}

	size := defaultBatchSize
	switch {
	case priorityCount > 5:
		size -= 2
	case priorityCount >= 4:
		size -= 1
	}

	if size < 15 {
		size = 15
	}
	if size > 25 {
		size = 25
	}
	return size
}
