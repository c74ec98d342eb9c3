// Response Parser (C7): four-layer recovery from compact JSON, standard
// JSON, regex-salvaged free text, or nothing at all, per spec §4.7.
//
// Grounded on internal/json.ExtractJSONFromResponseWithType for the
// "find the JSON embedded in prose" step (markdown-fence stripping plus
// brace-matched extraction), used ahead of each JSON layer's own
// json.Unmarshal so a fenced or prose-wrapped response still parses
// structurally instead of falling through to the regex-salvage layer.

package core

import (
	"encoding/json"
	"regexp"
	"sort"
	"strconv"

	picklistjson "github.com/frcscout/picklist/internal/json"
	"github.com/frcscout/picklist/internal/logging"
	"github.com/frcscout/picklist/team"
)

// compactEnvelope is the wire shape of the ultra-compact response
// {"p":[[i,s,"r"],...],"s":"ok"}.
type compactEnvelope struct {
	P [][3]interface{} `json:"p"`
	S string           `json:"s"`
}

// standardEnvelope is the wire shape of the verbose fallback response.
type standardEnvelope struct {
	Status   string `json:"status"`
	Picklist []struct {
		TeamNumber int     `json:"team_number"`
		Score      float64 `json:"score"`
		Reasoning  string  `json:"reasoning"`
	} `json:"picklist"`
}

var bracketTriplePattern = regexp.MustCompile(`\[\s*(-?\d+)\s*,\s*(-?\d+(?:\.\d+)?)\s*,\s*"([^"]*)"\s*\]`)

// nicknameLookup resolves a team number to its display nickname, built
// from the condensed teams visible to this call.
type nicknameLookup map[int]string

func newNicknameLookup(teams []team.CondensedTeam) nicknameLookup {
	out := make(nicknameLookup, len(teams))
	for _, t := range teams {
		out[t.TeamNumber] = t.Nickname
	}
	return out
}

func (n nicknameLookup) get(teamNumber int) string {
	return n[teamNumber]
}

// IsOverflow reports whether raw is a compact or standard envelope whose
// status signals that the model could not fit every team.
func IsOverflow(raw string) bool {
	var env compactEnvelope
	if err := picklistjson.ExtractJSONFromResponseWithType(raw, &env); err == nil && env.S == "overflow" {
		return true
	}
	return false
}

// ParseResponse runs the four parser layers in order over raw, the raw
// model output for a single call whose candidates were teams (indexed
// via idxMap). The first layer to produce a non-empty result wins.
func ParseResponse(raw string, idxMap *team.IndexMap, teams []team.CondensedTeam) []team.RankedEntry {
	nicknames := newNicknameLookup(teams)

	if entries, ok := parseCompactLayer(raw, idxMap, nicknames); ok {
		return entries
	}
	if entries, ok := parseStandardLayer(raw, nicknames); ok {
		return entries
	}
	if entries, ok := parseRegexSalvageLayer(raw, idxMap, nicknames); ok {
		return entries
	}
	return nil
}

func parseCompactLayer(raw string, idxMap *team.IndexMap, nicknames nicknameLookup) ([]team.RankedEntry, bool) {
	var env compactEnvelope
	if err := picklistjson.ExtractJSONFromResponseWithType(raw, &env); err != nil {
		return nil, false
	}
	if len(env.P) == 0 {
		return nil, false
	}

	seen := make(map[int]bool)
	out := make([]team.RankedEntry, 0, len(env.P))
	for _, triple := range env.P {
		indexFloat, ok := asFloat(triple[0])
		if !ok {
			continue
		}
		index := int(indexFloat)

		teamNumber, known := idxMap.TeamFor(index)
		if !known {
			logging.Warnf("core: compact parser dropped unknown index %d", index)
			continue
		}
		if seen[teamNumber] {
			logging.Warnf("core: compact parser dropped duplicate index %d (team %d)", index, teamNumber)
			continue
		}
		seen[teamNumber] = true

		score, _ := asFloat(triple[1])
		reason, _ := triple[2].(string)

		out = append(out, team.RankedEntry{
			TeamNumber: teamNumber,
			Nickname:   nicknames.get(teamNumber),
			Score:      score,
			Reasoning:  reason,
		})
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

func parseStandardLayer(raw string, nicknames nicknameLookup) ([]team.RankedEntry, bool) {
	var env standardEnvelope
	if err := picklistjson.ExtractJSONFromResponseWithType(raw, &env); err != nil {
		return nil, false
	}
	if len(env.Picklist) == 0 {
		return nil, false
	}

	seen := make(map[int]bool)
	out := make([]team.RankedEntry, 0, len(env.Picklist))
	for _, entry := range env.Picklist {
		if seen[entry.TeamNumber] {
			continue
		}
		seen[entry.TeamNumber] = true
		out = append(out, team.RankedEntry{
			TeamNumber: entry.TeamNumber,
			Nickname:   nicknames.get(entry.TeamNumber),
			Score:      entry.Score,
			Reasoning:  entry.Reasoning,
		})
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

func parseRegexSalvageLayer(raw string, idxMap *team.IndexMap, nicknames nicknameLookup) ([]team.RankedEntry, bool) {
	matches := bracketTriplePattern.FindAllStringSubmatch(raw, -1)
	if len(matches) == 0 {
		return nil, false
	}

	seen := make(map[int]bool)
	out := make([]team.RankedEntry, 0, len(matches))
	for _, m := range matches {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		score, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			continue
		}
		reason := m[3]

		teamNumber := n
		if idxMap != nil {
			resolved, known := idxMap.TeamFor(n)
			if !known {
				continue
			}
			teamNumber = resolved
		}
		if seen[teamNumber] {
			continue
		}
		seen[teamNumber] = true

		out = append(out, team.RankedEntry{
			TeamNumber: teamNumber,
			Nickname:   nicknames.get(teamNumber),
			Score:      score,
			Reasoning:  reason,
		})
	}
	if len(out) == 0 {
		return nil, false
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out, true
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
