// Package tokenizer provides the C4 token-counting boundary: an Encode
// interface the budgeter calls to get an exact count, and a default
// heuristic implementation.
//
// No BPE/tiktoken-style library appears anywhere in the retrieval pack;
// one example service notes tiktoken "requires CGo/WASM" and defers to
// character-based estimation instead. This package follows that lead:
// a model-aware heuristic (characters-per-token varies slightly by
// vendor tokenizer) rather than a vendored byte-pair encoder.
package tokenizer

import "strings"

// Tokenizer encodes text into tokens; only the length of the result
// matters to the core, per the spec's outbound tokenizer interface.
type Tokenizer interface {
	Encode(text string) []int
}

// charsPerToken is the model-specific average characters-per-token ratio
// used by the heuristic encoder.
var charsPerToken = map[string]float64{
	"gpt-5.2":                   3.8,
	"gpt-5.2-codex":             3.8,
	"gpt-5":                     3.8,
	"gpt-4o":                    4.0,
	"gpt-4o-mini":               4.0,
	"claude-opus-4-5-20251101":  3.6,
	"claude-sonnet-4-20250514":  3.6,
	"claude-haiku-4-20250514":   3.6,
	"deepseek-v3.2":             3.7,
	"deepseek-v3.1":             3.7,
	"deepseek-r1":               3.7,
	"gemini-3-pro":              4.0,
	"gemini-3-flash":            4.0,
	"gemini-2.0-flash":          4.0,
}

const defaultCharsPerToken = 4.0

// Heuristic is a character-count-based token estimator. It is not a real
// tokenizer — it does not split on BPE boundaries — but it is
// deterministic, dependency-free, and close enough to drive budget
// pre-validation the way the spec requires (the "fast estimator" is
// explicitly allowed to be approximate; only the exact counter at compile
// time is authoritative, and this IS the exact counter in the absence of
// a real vendor tokenizer).
type Heuristic struct {
	ratio float64
}

// ForModel returns a Heuristic tokenizer calibrated for model.
func ForModel(model string) *Heuristic {
	ratio, ok := charsPerToken[model]
	if !ok {
		ratio = defaultCharsPerToken
	}
	return &Heuristic{ratio: ratio}
}

// Encode returns a slice whose length approximates the token count of
// text. The slice contents are meaningless; only len() is used by
// callers, per the tokenizer interface contract.
func (h *Heuristic) Encode(text string) []int {
	if text == "" {
		return nil
	}
	// Whitespace-run collapsing approximates how real BPE tokenizers treat
	// runs of whitespace as a single token rather than one per rune.
	collapsed := strings.Join(strings.Fields(text), " ")
	n := int(float64(len(collapsed))/h.ratio + 0.5)
	if n < 1 {
		n = 1
	}
	out := make([]int, n)
	return out
}

var _ Tokenizer = (*Heuristic)(nil)
