package core

import (
	"strings"
	"testing"

	"github.com/frcscout/picklist/team"
)

func fixtureTeams(n int) []team.CondensedTeam {
	out := make([]team.CondensedTeam, n)
	for i := 0; i < n; i++ {
		out[i] = team.CondensedTeam{
			TeamNumber:    1000 + i,
			Nickname:      "Team",
			Metrics:       map[string]float64{"auto_points": float64(i)},
			WeightedScore: float64(100 - i),
		}
	}
	return out
}

func TestCompilePromptDeterministic(t *testing.T) {
	teams := fixtureTeams(5)
	priorities := []team.NormalizedPriority{{ID: "auto_points", Weight: 1}}
	req := team.Request{YourTeamNumber: 1234, PickPosition: team.PickFirst}

	a, err := CompilePrompt(teams, priorities, req, "", team.FormatCompact)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := CompilePrompt(teams, priorities, req, "", team.FormatCompact)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if a.SystemText != b.SystemText || a.UserText != b.UserText {
		t.Error("expected byte-identical prompts for identical inputs")
	}
}

func TestCompilePromptCompactMentionsJSONShape(t *testing.T) {
	teams := fixtureTeams(3)
	req := team.Request{YourTeamNumber: 1234, PickPosition: team.PickFirst}
	bundle, err := CompilePrompt(teams, nil, req, "", team.FormatCompact)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(bundle.SystemText, `{"p":[[i,s,"r"],...],"s":"ok"}`) {
		t.Error("expected compact system prompt to contain the compact JSON shape")
	}
}

func TestCompilePromptStandardMentionsPicklist(t *testing.T) {
	teams := fixtureTeams(3)
	req := team.Request{YourTeamNumber: 1234, PickPosition: team.PickFirst}
	bundle, err := CompilePrompt(teams, nil, req, "", team.FormatStandard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(bundle.SystemText, `"picklist"`) {
		t.Error("expected standard system prompt to mention picklist array")
	}
}

func TestCompilePromptEmitsIndexMapForEveryTeamCount(t *testing.T) {
	for _, n := range []int{1, 5, 75} {
		teams := fixtureTeams(n)
		req := team.Request{YourTeamNumber: 1234, PickPosition: team.PickFirst}
		bundle, err := CompilePrompt(teams, nil, req, "", team.FormatCompact)
		if err != nil {
			t.Fatalf("unexpected error for n=%d: %v", n, err)
		}
		if bundle.IndexMap == nil || bundle.IndexMap.Len() != n {
			t.Errorf("expected index map of length %d, got %v", n, bundle.IndexMap)
		}
	}
}

func TestCompilePromptIndexMapIsBijection(t *testing.T) {
	teams := fixtureTeams(10)
	req := team.Request{YourTeamNumber: 1234, PickPosition: team.PickFirst}
	bundle, err := CompilePrompt(teams, nil, req, "", team.FormatCompact)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, tm := range teams {
		idx, ok := bundle.IndexMap.IndexFor(tm.TeamNumber)
		if !ok || idx != i+1 {
			t.Errorf("expected team %d at index %d, got %d (ok=%v)", tm.TeamNumber, i+1, idx, ok)
		}
	}
}

func TestCompilePromptIncludesGameContext(t *testing.T) {
	teams := fixtureTeams(2)
	req := team.Request{YourTeamNumber: 1234, PickPosition: team.PickFirst, GameContext: "Field has elevated scoring zones."}
	bundle, err := CompilePrompt(teams, nil, req, "", team.FormatCompact)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(bundle.UserText, "elevated scoring zones") {
		t.Error("expected user prompt to include game context")
	}
}
