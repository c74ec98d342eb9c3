// Prompt Compiler (C5): builds system+user prompts in compact or
// standard form and emits the index map, per spec §4.5.
//
// The compiler is deterministic: identical inputs produce byte-identical
// prompts, since text/template execution over a fixed data structure has
// no hidden nondeterminism (no map iteration in the hot path other than
// the one sorted-by-fmt Metrics rendering, and Go's fmt sorts map keys).

package core

import (
	"bytes"
	"fmt"

	"github.com/frcscout/picklist/team"
)

// indexedTeam pairs a CondensedTeam with its 1-based index for template
// rendering.
type indexedTeam struct {
	Index int
	Team  team.CondensedTeam
}

type userPromptData struct {
	YourTeamNumber  int
	YourTeamProfile string
	Priorities      []team.NormalizedPriority
	GameContext     string
	IndexedTeams    []indexedTeam
}

type systemPromptData struct {
	TeamCount    int
	PickPosition team.PickPosition
}

// CompilePrompt builds the PromptBundle for one LLM call. teams is the
// batch (or whole dataset, for single-processing) to rank in this call,
// already in index order; yourTeamProfile is an optional free-text
// summary of the requesting team, rendered in the user prompt's
// YOUR TEAM section.
func CompilePrompt(
	teams []team.CondensedTeam,
	priorities []team.NormalizedPriority,
	req team.Request,
	yourTeamProfile string,
	format team.FormatTag,
) (team.PromptBundle, error) {
	idx := make([]int, len(teams))
	indexed := make([]indexedTeam, len(teams))
	for i, t := range teams {
		idx[i] = t.TeamNumber
		indexed[i] = indexedTeam{Index: i + 1, Team: t}
	}
	indexMap := team.NewIndexMap(idx)

	sysTmpl := compactSystemTemplate
	if format == team.FormatStandard {
		sysTmpl = standardSystemTemplate
	}

	var sysBuf bytes.Buffer
	if err := sysTmpl.Execute(&sysBuf, systemPromptData{
		TeamCount:    len(teams),
		PickPosition: req.PickPosition,
	}); err != nil {
		return team.PromptBundle{}, fmt.Errorf("core: compile system prompt: %w", err)
	}

	var userBuf bytes.Buffer
	if err := userTemplate.Execute(&userBuf, userPromptData{
		YourTeamNumber:  req.YourTeamNumber,
		YourTeamProfile: yourTeamProfile,
		Priorities:      priorities,
		GameContext:     req.GameContext,
		IndexedTeams:    indexed,
	}); err != nil {
		return team.PromptBundle{}, fmt.Errorf("core: compile user prompt: %w", err)
	}

	systemText := sysBuf.String()
	userText := userBuf.String()

	return team.PromptBundle{
		SystemText:      systemText,
		UserText:        userText,
		IndexMap:        indexMap,
		EstimatedTokens: EstimateTokens(len(teams), len(priorities), format),
		Format:          format,
	}, nil
}
