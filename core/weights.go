// Weight Normalizer (C3): validates caller-supplied priority weights and
// rescales them to sum to 1.0.

package core

import (
	"math"

	"github.com/frcscout/picklist/team"
)

// NormalizeWeights filters out priorities with a non-positive or
// non-finite weight, preserves the original weight in
// NormalizedPriority.OriginalWeight, and rescales the remainder to sum
// to 1.0. Returns a *team.ResultError with kind ErrInvalidInput if the
// filtered list is empty.
func NormalizeWeights(priorities []team.Priority) ([]team.NormalizedPriority, *team.ResultError) {
	valid := make([]team.Priority, 0, len(priorities))
	for _, p := range priorities {
		if p.Weight > 0 && !math.IsInf(p.Weight, 0) && !math.IsNaN(p.Weight) {
			valid = append(valid, p)
		}
	}

	if len(valid) == 0 {
		return nil, &team.ResultError{
			Kind:    team.ErrInvalidInput,
			Message: "no priorities with a positive, finite weight",
		}
	}

	var total float64
	for _, p := range valid {
		total += p.Weight
	}

	out := make([]team.NormalizedPriority, len(valid))
	for i, p := range valid {
		out[i] = team.NormalizedPriority{
			ID:             p.ID,
			Weight:         p.Weight / total,
			OriginalWeight: p.Weight,
			Reason:         p.Reason,
		}
	}
	return out, nil
}
