// Prompt templates as data, not code literals (spec §9 "Prompt as
// configuration"): the named holes are filled by text/template so that
// prompt wording changes are text diffs, not Go diffs. No dedicated
// prompt-templating library appears anywhere in the retrieval pack, so
// this leans on the standard library's text/template rather than
// hand-rolled string concatenation.

package core

import "text/template"

const compactSystemPromptText = `You are an expert FRC (FIRST Robotics Competition) scouting strategist helping a team build an alliance-selection picklist.

Respond with exactly one line of minified JSON, no markdown, no commentary, shaped:
{"p":[[i,s,"r"],...],"s":"ok"}

Rules:
- Every index from 1 to {{.TeamCount}} MUST appear exactly once in "p".
- i is the integer index from the index map below, never a team number.
- s is a numeric score (higher is better).
- r is a short reason, 10 words or fewer.
- Sort entries by weighted performance, then by synergy with the requesting team for the {{.PickPosition}} pick.
- If you cannot fit every index in the response, emit only {"s":"overflow"} and nothing else.
`

const standardSystemPromptText = `You are an expert FRC (FIRST Robotics Competition) scouting strategist helping a team build an alliance-selection picklist.

Respond with a single JSON object containing:
{
  "status": "ok",
  "picklist": [
    {"team_number": <int>, "score": <number>, "reasoning": "<short text>"}
  ]
}

Rules:
- Include every team listed below exactly once, identified by its real team_number.
- Sort entries by weighted performance, then by synergy with the requesting team for the {{.PickPosition}} pick.
- If you cannot rank every team, still return your best effort with "status":"ok"; never fabricate a team_number not in the list.
`

const userPromptText = `YOUR TEAM
team_number: {{.YourTeamNumber}}
{{if .YourTeamProfile}}profile: {{.YourTeamProfile}}
{{end}}
PRIORITIES (weight, sums to 1.0)
{{range .Priorities}}- {{.ID}}: {{.Weight}}{{if .Reason}} ({{.Reason}}){{end}}
{{end}}
{{if .GameContext}}GAME CONTEXT
{{.GameContext}}

{{end}}INDEX MAP
Indices only. Each index below is used exactly once in your response; never use a team_number as an index.
{{range .IndexedTeams}}{{.Index}}: team {{.Team.TeamNumber}} "{{.Team.Nickname}}" weighted_score={{.Team.WeightedScore}}{{if .Team.Metrics}} metrics={{.Team.Metrics}}{{end}}{{if .Team.Note}} note="{{.Team.Note}}"{{end}}
{{end}}`

var (
	compactSystemTemplate  = template.Must(template.New("compact_system").Parse(compactSystemPromptText))
	standardSystemTemplate = template.Must(template.New("standard_system").Parse(standardSystemPromptText))
	userTemplate           = template.Must(template.New("user").Parse(userPromptText))
)
