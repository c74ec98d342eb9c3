package core

import (
	"testing"

	"github.com/frcscout/picklist/team"
)

func fixtureTeamsForParse(n int) ([]team.CondensedTeam, *team.IndexMap) {
	teams := make([]team.CondensedTeam, n)
	numbers := make([]int, n)
	for i := 0; i < n; i++ {
		teams[i] = team.CondensedTeam{TeamNumber: 1000 + i, Nickname: "Nick"}
		numbers[i] = 1000 + i
	}
	return teams, team.NewIndexMap(numbers)
}

func TestParseResponseCompactLayer(t *testing.T) {
	teams, idxMap := fixtureTeamsForParse(3)
	raw := `{"p":[[1,95.5,"strong auto"],[2,80,"good defense"],[3,60,"weak"]],"s":"ok"}`

	entries := ParseResponse(raw, idxMap, teams)
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].TeamNumber != 1000 || entries[0].Score != 95.5 || entries[0].Reasoning != "strong auto" {
		t.Errorf("unexpected first entry: %+v", entries[0])
	}
}

func TestParseResponseCompactLayerSkipsUnknownIndex(t *testing.T) {
	teams, idxMap := fixtureTeamsForParse(2)
	raw := `{"p":[[1,95,"ok"],[99,10,"bad index"]],"s":"ok"}`

	entries := ParseResponse(raw, idxMap, teams)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry (unknown index dropped), got %d", len(entries))
	}
}

func TestParseResponseCompactLayerSkipsDuplicateIndex(t *testing.T) {
	teams, idxMap := fixtureTeamsForParse(2)
	raw := `{"p":[[1,95,"first"],[1,50,"duplicate"]],"s":"ok"}`

	entries := ParseResponse(raw, idxMap, teams)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry (duplicate dropped), got %d", len(entries))
	}
}

func TestParseResponseStandardLayer(t *testing.T) {
	teams, idxMap := fixtureTeamsForParse(2)
	raw := `{"status":"ok","picklist":[{"team_number":1000,"score":90,"reasoning":"great"},{"team_number":1001,"score":70,"reasoning":"fine"}]}`

	entries := ParseResponse(raw, idxMap, teams)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].TeamNumber != 1000 {
		t.Errorf("expected team 1000 first, got %d", entries[0].TeamNumber)
	}
}

func TestParseResponseRegexSalvage(t *testing.T) {
	teams, idxMap := fixtureTeamsForParse(2)
	raw := `I think the ranking is [1, 90.0, "great auto"] and then [2, 50.5, "weaker"] based on the data.`

	entries := ParseResponse(raw, idxMap, teams)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries from regex salvage, got %d", len(entries))
	}
	if entries[0].Score < entries[1].Score {
		t.Error("expected regex salvage to sort by score descending")
	}
}

func TestParseResponseRegexSalvageWithoutIndexMapUsesTeamNumbers(t *testing.T) {
	teams := []team.CondensedTeam{{TeamNumber: 1234, Nickname: "Bots"}}
	raw := `[1234, 88, "good"]`

	entries := ParseResponse(raw, nil, teams)
	if len(entries) != 1 || entries[0].TeamNumber != 1234 {
		t.Fatalf("expected direct team number interpretation, got %+v", entries)
	}
}

func TestParseResponseEmptyOnGarbage(t *testing.T) {
	teams, idxMap := fixtureTeamsForParse(2)
	entries := ParseResponse("not json and no brackets here", idxMap, teams)
	if entries != nil {
		t.Errorf("expected nil/empty for unparseable garbage, got %+v", entries)
	}
}

func TestParseResponseStripsMarkdownFence(t *testing.T) {
	teams, idxMap := fixtureTeamsForParse(2)
	raw := "```json\n" + `{"p":[[1,90,"great"],[2,70,"fine"]],"s":"ok"}` + "\n```"

	entries := ParseResponse(raw, idxMap, teams)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries from fenced compact JSON, got %d: %+v", len(entries), entries)
	}
	if entries[0].TeamNumber != 1000 || entries[0].Score != 90 {
		t.Errorf("unexpected first entry: %+v", entries[0])
	}
}

func TestIsOverflow(t *testing.T) {
	if !IsOverflow(`{"s":"overflow"}`) {
		t.Error("expected overflow status to be detected")
	}
	if IsOverflow(`{"p":[[1,1,"a"]],"s":"ok"}`) {
		t.Error("did not expect ok status to report overflow")
	}
}

func TestParseResponseJoinsNicknamesFromCondensedTeams(t *testing.T) {
	teams := []team.CondensedTeam{{TeamNumber: 1000, Nickname: "RoboHawks"}}
	idxMap := team.NewIndexMap([]int{1000})
	raw := `{"p":[[1,99,"great"]],"s":"ok"}`

	entries := ParseResponse(raw, idxMap, teams)
	if entries[0].Nickname != "RoboHawks" {
		t.Errorf("expected nickname joined from condensed teams, got %q", entries[0].Nickname)
	}
}
