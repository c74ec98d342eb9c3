// Condenser & Scorer (C2): reduces raw TeamRecords to a compact
// CondensedTeam carrying only the essential metrics plus a pre-computed
// weighted score, per spec §4.2.

package core

import (
	"math"
	"sort"

	"github.com/frcscout/picklist/team"
)

// essentialMetrics is the small fixed allow-list of per-team scalar
// metrics carried into the condensed object. Anything else in a team's
// raw Metrics/MetricSamples is dropped to keep the prompt compact.
var essentialMetrics = map[string]bool{
	"auto_points":    true,
	"teleop_points":  true,
	"endgame_points": true,
	"total_points":   true,
	"defense_rating": true,
	"auto":           true,
}

// metricAlias resolves shorthand priority IDs to the canonical metric
// name they mean, used only during weighted-score resolution.
var metricAlias = map[string]string{
	"auto": "auto_points",
}

const noteMaxLen = 100

// Condense reduces raw into CondensedTeam values, one per record, in the
// same order as raw. It does not mutate raw.
func Condense(raw []team.TeamRecord, priorities []team.NormalizedPriority) []team.CondensedTeam {
	out := make([]team.CondensedTeam, len(raw))
	for i, r := range raw {
		out[i] = condenseOne(r, priorities)
	}
	return out
}

func condenseOne(r team.TeamRecord, priorities []team.NormalizedPriority) team.CondensedTeam {
	metrics := make(map[string]float64)

	for name, samples := range r.MetricSamples {
		if !essentialMetrics[name] || len(samples) == 0 {
			continue
		}
		metrics[name] = round2(aggregate(samples))
	}
	for name, v := range r.Metrics {
		if !essentialMetrics[name] {
			continue
		}
		if _, already := metrics[name]; already {
			continue
		}
		metrics[name] = round2(v)
	}

	for k, v := range r.Statbotics {
		metrics["statbotics_"+k] = round2(v)
	}

	note := ""
	if len(r.Superscouting) > 0 {
		note = truncateNote(r.Superscouting[0])
	}

	ct := team.CondensedTeam{
		TeamNumber: r.TeamNumber,
		Nickname:   r.Nickname,
		Metrics:    metrics,
		Note:       note,
	}
	ct.WeightedScore = round2(weightedScore(r, ct, priorities))
	return ct
}

// aggregate reduces per-match samples to a single scalar: median for
// >=3 observations, arithmetic mean otherwise.
func aggregate(samples []float64) float64 {
	if len(samples) >= 3 {
		return median(samples)
	}
	return mean(samples)
}

func median(samples []float64) float64 {
	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func mean(samples []float64) float64 {
	var sum float64
	for _, s := range samples {
		sum += s
	}
	return sum / float64(len(samples))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func truncateNote(s string) string {
	if len(s) <= noteMaxLen {
		return s
	}
	return s[:noteMaxLen]
}

// weightedScore computes Σ(normalized_metric_value · weight) / Σ(weight)
// over priorities whose id resolves, per the resolution order in
// spec §4.2: metrics[id], statbotics[id], statbotics_<id> top-level,
// direct top-level (condensed metrics map), then metricAlias. A
// priority that resolves nowhere is skipped from both numerator and
// denominator; the score is 0 if no priority resolves.
func weightedScore(raw team.TeamRecord, ct team.CondensedTeam, priorities []team.NormalizedPriority) float64 {
	var numerator, denominator float64
	for _, p := range priorities {
		value, ok := resolvePriorityValue(raw, ct, p.ID)
		if !ok {
			continue
		}
		numerator += value * p.Weight
		denominator += p.Weight
	}
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}

func resolvePriorityValue(raw team.TeamRecord, ct team.CondensedTeam, id string) (float64, bool) {
	if samples, ok := raw.MetricSamples[id]; ok && len(samples) > 0 {
		return aggregate(samples), true
	}
	if v, ok := raw.Metrics[id]; ok {
		return v, true
	}
	if v, ok := raw.Statbotics[id]; ok {
		return v, true
	}
	if v, ok := ct.Metrics["statbotics_"+id]; ok {
		return v, true
	}
	if v, ok := ct.Metrics[id]; ok {
		return v, true
	}
	if alias, ok := metricAlias[id]; ok {
		if v, ok := ct.Metrics[alias]; ok {
			return v, true
		}
		if v, ok := raw.Metrics[alias]; ok {
			return v, true
		}
	}
	return 0, false
}
