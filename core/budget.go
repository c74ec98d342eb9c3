// Token Budgeter (C4): a fast estimator used for planning (C8) and an
// exact counter over compiled prompt text used to pre-validate before
// every LLM call (C6), per spec §4.4.

package core

import (
	"fmt"

	"github.com/frcscout/picklist/team"
	"github.com/frcscout/picklist/tokenizer"
)

// Per-team / per-priority token cost curves used by the fast estimator.
// The compact form's ultra-minified JSON costs roughly half of the
// standard form's verbose field names and prose per team.
const (
	compactTokensPerTeam      = 28
	compactTokensPerPriority  = 12
	standardTokensPerTeam     = 55
	standardTokensPerPriority = 18
	promptOverheadTokens      = 400 // system prompt + section headers, roughly constant
)

// Budget holds the configured ceilings and the tokenizer used for exact
// counting.
type Budget struct {
	MaxInputTokens  int
	MaxOutputTokens int
	Tokenizer       tokenizer.Tokenizer
}

// NewBudget creates a Budget using a heuristic tokenizer calibrated for
// model.
func NewBudget(model string, maxInputTokens, maxOutputTokens int) Budget {
	return Budget{
		MaxInputTokens:  maxInputTokens,
		MaxOutputTokens: maxOutputTokens,
		Tokenizer:       tokenizer.ForModel(model),
	}
}

// EstimateTokens is the fast, linear-in-size estimator used for
// planning (C8) before any prompt has been compiled. It is allowed to be
// approximate; only ExactCount is authoritative.
func EstimateTokens(teamCount, priorityCount int, format team.FormatTag) int {
	perTeam, perPriority := compactTokensPerTeam, compactTokensPerPriority
	if format == team.FormatStandard {
		perTeam, perPriority = standardTokensPerTeam, standardTokensPerPriority
	}
	return promptOverheadTokens + teamCount*perTeam + priorityCount*perPriority
}

// ExactCount is the authoritative token count over already-compiled
// prompt text, using the configured tokenizer.
func (b Budget) ExactCount(systemText, userText string) int {
	return len(b.Tokenizer.Encode(systemText)) + len(b.Tokenizer.Encode(userText))
}

// CheckExact raises a token_budget_exceeded error if the compiled prompt
// exceeds MaxInputTokens. This MUST be called before every LLM call
// (spec §4.6); the estimator alone never gates a call.
func (b Budget) CheckExact(systemText, userText string) *team.ResultError {
	count := b.ExactCount(systemText, userText)
	if count > b.MaxInputTokens {
		return &team.ResultError{
			Kind: team.ErrTokenBudget,
			Message: fmt.Sprintf(
				"compiled prompt is %d tokens, exceeds max_input_tokens=%d",
				count, b.MaxInputTokens,
			),
		}
	}
	return nil
}

// ExceedsMargin reports whether the fast-estimated token count, given a
// headroom margin (e.g. 0.8 for "80% of budget"), would exceed the
// configured input ceiling. Used by the request planner (C8) to decide
// whether to batch before any prompt exists yet.
func (b Budget) ExceedsMargin(teamCount, priorityCount int, format team.FormatTag, margin float64) bool {
	estimated := EstimateTokens(teamCount, priorityCount, format)
	return float64(estimated) > margin*float64(b.MaxInputTokens)
}
