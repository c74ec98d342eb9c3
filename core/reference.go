// Reference-team selection for cross-batch calibration (part of C9).
//
// Open question resolved per spec §9: "top_middle_bottom" picks the
// 1st, median, and last team of the globally weighted-score order,
// falling back to uniform sampling if fewer than three distinct scores
// exist.

package core

import (
	"sort"

	"github.com/frcscout/picklist/team"
)

// SelectReferenceTeams returns up to count teams from ranked (already
// sorted descending by WeightedScore) to prepend to every batch prompt
// as a shared calibration anchor.
func SelectReferenceTeams(ranked []team.CondensedTeam, count int, strategy team.ReferenceSelection) []team.CondensedTeam {
	if count <= 0 || len(ranked) == 0 {
		return nil
	}
	if count > len(ranked) {
		count = len(ranked)
	}

	switch strategy {
	case team.ReferenceTop:
		return append([]team.CondensedTeam(nil), ranked[:count]...)
	default: // team.ReferenceTopMiddleBottom and unset
		return selectTopMiddleBottom(ranked, count)
	}
}

func selectTopMiddleBottom(ranked []team.CondensedTeam, count int) []team.CondensedTeam {
	if distinctScores(ranked) < 3 {
		return uniformSample(ranked, count)
	}

	switch count {
	case 1:
		return []team.CondensedTeam{ranked[0]}
	case 2:
		return []team.CondensedTeam{ranked[0], ranked[len(ranked)-1]}
	default:
		picks := []team.CondensedTeam{ranked[0], ranked[len(ranked)/2], ranked[len(ranked)-1]}
		if count <= 3 {
			return picks
		}
		// count > 3: fill remaining slots by uniform sampling of what's
		// left, skipping teams already picked.
		picked := map[int]bool{}
		for _, p := range picks {
			picked[p.TeamNumber] = true
		}
		for _, t := range uniformSample(ranked, count) {
			if len(picks) >= count {
				break
			}
			if !picked[t.TeamNumber] {
				picks = append(picks, t)
				picked[t.TeamNumber] = true
			}
		}
		return picks
	}
}

func uniformSample(ranked []team.CondensedTeam, count int) []team.CondensedTeam {
	if count >= len(ranked) {
		return append([]team.CondensedTeam(nil), ranked...)
	}
	out := make([]team.CondensedTeam, 0, count)
	step := float64(len(ranked)-1) / float64(count-1)
	if count == 1 {
		step = 0
	}
	for i := 0; i < count; i++ {
		idx := int(float64(i)*step + 0.5)
		if idx >= len(ranked) {
			idx = len(ranked) - 1
		}
		out = append(out, ranked[idx])
	}
	return out
}

func distinctScores(ranked []team.CondensedTeam) int {
	seen := make(map[float64]bool)
	for _, t := range ranked {
		seen[t.WeightedScore] = true
	}
	return len(seen)
}

// SortByWeightedScoreDescending sorts condensed teams by weighted score,
// best first, breaking ties by team number for determinism.
func SortByWeightedScoreDescending(teams []team.CondensedTeam) {
	sort.SliceStable(teams, func(i, j int) bool {
		if teams[i].WeightedScore != teams[j].WeightedScore {
			return teams[i].WeightedScore > teams[j].WeightedScore
		}
		return teams[i].TeamNumber < teams[j].TeamNumber
	})
}
