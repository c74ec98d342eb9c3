// LLM Executor (C6): a single round-trip wrapper with token-budget
// pre-validation and bounded exponential-backoff retry on rate-limit
// failures, per spec §4.6.
//
// Retry/backoff shape is grounded on tools.Executor.calculateBackoff and
// shouldRetry, generalized from tool-call retries to LLM rate-limit
// retries and parameterized by the configured max_retries /
// initial_retry_delay rather than the teacher's fixed constants.

package core

import (
	"context"
	"time"

	"github.com/frcscout/picklist/llm"
	"github.com/frcscout/picklist/team"
)

// ExecResult is the tagged result union C6 returns: exactly one of
// Success or Error is meaningful.
type ExecResult struct {
	Success      bool
	RawText      string
	FinishReason llm.FinishReason
	Elapsed      time.Duration
	Attempts     int // number of rate-limit retries actually taken
	Error        *team.ResultError
}

// Executor issues a single LLM call per Run, retrying on rate-limit
// failures. It is single-threaded cooperative: one in-flight call per
// instance; the batch coordinator supplies concurrency by running
// multiple Executor calls, never by this type itself.
type Executor struct {
	Provider          llm.Provider
	Budget            Budget
	MaxRetries        int
	InitialRetryDelay time.Duration
	Temperature       float64
	sleep             func(ctx context.Context, d time.Duration) error
}

// NewExecutor creates an Executor bound to provider and budget, with the
// retry policy from spec §6's configuration surface.
func NewExecutor(provider llm.Provider, budget Budget, maxRetries int, initialRetryDelay time.Duration, temperature float64) *Executor {
	return &Executor{
		Provider:          provider,
		Budget:            budget,
		MaxRetries:        maxRetries,
		InitialRetryDelay: initialRetryDelay,
		Temperature:       temperature,
		sleep:             contextSleep,
	}
}

// Run executes bundle's compiled prompt. maxOutputTokens caps the
// response length; it is distinct from Budget.MaxOutputTokens so batch
// callers can tighten it per call if desired (defaults to the budget's
// ceiling when 0).
func (e *Executor) Run(ctx context.Context, bundle team.PromptBundle, maxOutputTokens uint32) ExecResult {
	start := time.Now()

	if errResult := e.Budget.CheckExact(bundle.SystemText, bundle.UserText); errResult != nil {
		return ExecResult{Error: errResult, Elapsed: time.Since(start)}
	}

	if maxOutputTokens == 0 {
		maxOutputTokens = uint32(e.Budget.MaxOutputTokens)
	}

	req := llm.ChatRequest{
		System:          bundle.SystemText,
		User:            bundle.UserText,
		Temperature:     e.Temperature,
		MaxOutputTokens: maxOutputTokens,
		ResponseFormat:  llm.NewJSONObjectFormat(),
	}

	maxRetries := e.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			delay := e.InitialRetryDelay * time.Duration(1<<uint(attempt))
			if err := e.sleep(ctx, delay); err != nil {
				return ExecResult{
					Error:    &team.ResultError{Kind: team.ErrCancelled, Message: "cancelled during retry backoff"},
					Elapsed:  time.Since(start),
					Attempts: attempt,
				}
			}
		}

		if err := ctx.Err(); err != nil {
			return ExecResult{
				Error:    &team.ResultError{Kind: team.ErrCancelled, Message: "request cancelled"},
				Elapsed:  time.Since(start),
				Attempts: attempt,
			}
		}

		resp, err := e.Provider.Chat(ctx, req)
		if err != nil {
			if llm.IsRateLimited(err) && attempt < maxRetries {
				continue
			}
			kind := team.ErrAPI
			if llm.IsRateLimited(err) {
				kind = team.ErrRateLimit
			}
			return ExecResult{
				Error:    &team.ResultError{Kind: kind, Message: err.Error()},
				Elapsed:  time.Since(start),
				Attempts: attempt,
			}
		}

		if resp.FinishReason == llm.FinishLength {
			return ExecResult{
				Error:    &team.ResultError{Kind: team.ErrTruncated, Message: "model response was truncated before completion"},
				RawText:  resp.Content,
				Elapsed:  time.Since(start),
				Attempts: attempt,
			}
		}

		if IsOverflow(resp.Content) {
			return ExecResult{
				Error:    &team.ResultError{Kind: team.ErrOverflow, Message: "model reported it could not fit every team"},
				RawText:  resp.Content,
				Elapsed:  time.Since(start),
				Attempts: attempt,
			}
		}

		return ExecResult{
			Success:      true,
			RawText:      resp.Content,
			FinishReason: resp.FinishReason,
			Elapsed:      time.Since(start),
			Attempts:     attempt,
		}
	}

	// Every branch above returns; this is only reached if the loop
	// condition changes in the future.
	return ExecResult{
		Error:    &team.ResultError{Kind: team.ErrRateLimit, Message: "rate limit retries exhausted"},
		Elapsed:  time.Since(start),
		Attempts: maxRetries,
	}
}

// contextSleep blocks for d or until ctx is cancelled, whichever comes
// first. This is the retry-backoff suspension point of spec §5.
func contextSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
