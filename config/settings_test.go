package config

import (
	"os"
	"testing"
	"time"
)

func TestNewValidProvider(t *testing.T) {
	settings, err := New("openai")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.LLM.Provider != "openai" {
		t.Errorf("expected provider 'openai', got %q", settings.LLM.Provider)
	}
}

func TestNewWithAlias(t *testing.T) {
	settings, err := New("claude")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.LLM.Provider != "anthropic" {
		t.Errorf("expected provider 'anthropic' (normalized from 'claude'), got %q", settings.LLM.Provider)
	}
}

func TestNewUnknownProvider(t *testing.T) {
	_, err := New("unknown_provider")
	if err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestAPIKeyForValidProvider(t *testing.T) {
	original := os.Getenv("OPENAI_API_KEY")
	os.Setenv("OPENAI_API_KEY", "test-key")
	defer os.Setenv("OPENAI_API_KEY", original)

	key, err := APIKeyFor("openai")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != "test-key" {
		t.Errorf("expected 'test-key', got %q", key)
	}
}

func TestAPIKeyForMissing(t *testing.T) {
	original := os.Getenv("OPENAI_API_KEY")
	os.Unsetenv("OPENAI_API_KEY")
	defer os.Setenv("OPENAI_API_KEY", original)

	_, err := APIKeyFor("openai")
	if err == nil {
		t.Error("expected error for missing API key")
	}
}

func TestAPIKeyForUnknownProvider(t *testing.T) {
	_, err := APIKeyFor("unknown")
	if err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestModelFor(t *testing.T) {
	model, err := ModelFor("openai")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if model == "" {
		t.Error("expected non-empty model")
	}
}

func TestNewWithInvalidEnvVar(t *testing.T) {
	original := os.Getenv("PICKLIST_MAX_INPUT_TOKENS")
	os.Setenv("PICKLIST_MAX_INPUT_TOKENS", "not-a-number")
	defer os.Setenv("PICKLIST_MAX_INPUT_TOKENS", original)

	_, err := New("openai")
	if err == nil {
		t.Error("expected error for invalid PICKLIST_MAX_INPUT_TOKENS")
	}
}

func TestNewWithInvalidBoolEnvVar(t *testing.T) {
	original := os.Getenv("PICKLIST_USE_ULTRA_COMPACT_PROMPT")
	os.Setenv("PICKLIST_USE_ULTRA_COMPACT_PROMPT", "not-a-bool")
	defer os.Setenv("PICKLIST_USE_ULTRA_COMPACT_PROMPT", original)

	_, err := New("openai")
	if err == nil {
		t.Error("expected error for invalid PICKLIST_USE_ULTRA_COMPACT_PROMPT")
	}
}

func TestMustNewPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for unknown provider")
		}
	}()
	MustNew("unknown_provider")
}

func TestSupportedProviders(t *testing.T) {
	providers := SupportedProviders()
	if len(providers) == 0 {
		t.Error("expected at least one supported provider")
	}
}

func TestNewCoreDefaults(t *testing.T) {
	clearPicklistEnv(t)

	settings, err := New("openai")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c := settings.Core
	if c.MaxInputTokens != 100_000 {
		t.Errorf("MaxInputTokens default = %d, want 100000", c.MaxInputTokens)
	}
	if c.MaxOutputTokens != 4_000 {
		t.Errorf("MaxOutputTokens default = %d, want 4000", c.MaxOutputTokens)
	}
	if c.MaxRetries != 3 {
		t.Errorf("MaxRetries default = %d, want 3", c.MaxRetries)
	}
	if c.InitialRetryDelay != time.Second {
		t.Errorf("InitialRetryDelay default = %v, want 1s", c.InitialRetryDelay)
	}
	if c.DefaultBatchSize != 20 {
		t.Errorf("DefaultBatchSize default = %d, want 20", c.DefaultBatchSize)
	}
	if c.SingleProcessingThreshold != 20 {
		t.Errorf("SingleProcessingThreshold default = %d, want 20", c.SingleProcessingThreshold)
	}
	if c.PerBatchTimeout != 60*time.Second {
		t.Errorf("PerBatchTimeout default = %v, want 60s", c.PerBatchTimeout)
	}
	if c.CacheTTL != 3600*time.Second {
		t.Errorf("CacheTTL default = %v, want 3600s", c.CacheTTL)
	}
	if !c.UseUltraCompactPrompt {
		t.Error("UseUltraCompactPrompt default = false, want true")
	}
	if settings.LLM.Temperature != 0.2 {
		t.Errorf("LLM.Temperature default = %v, want 0.2", settings.LLM.Temperature)
	}
}

func TestNewCoreOverrides(t *testing.T) {
	clearPicklistEnv(t)

	os.Setenv("PICKLIST_DEFAULT_BATCH_SIZE", "15")
	os.Setenv("PICKLIST_USE_ULTRA_COMPACT_PROMPT", "false")
	defer os.Unsetenv("PICKLIST_DEFAULT_BATCH_SIZE")
	defer os.Unsetenv("PICKLIST_USE_ULTRA_COMPACT_PROMPT")

	settings, err := New("openai")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.Core.DefaultBatchSize != 15 {
		t.Errorf("DefaultBatchSize = %d, want 15", settings.Core.DefaultBatchSize)
	}
	if settings.Core.UseUltraCompactPrompt {
		t.Error("UseUltraCompactPrompt = true, want false")
	}
}

func clearPicklistEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"PICKLIST_MAX_INPUT_TOKENS", "PICKLIST_MAX_OUTPUT_TOKENS", "PICKLIST_MAX_RETRIES",
		"PICKLIST_INITIAL_RETRY_DELAY_SECONDS", "PICKLIST_DEFAULT_BATCH_SIZE",
		"PICKLIST_SINGLE_PROCESSING_THRESHOLD", "PICKLIST_PER_BATCH_TIMEOUT_SECONDS",
		"PICKLIST_CACHE_TTL_SECONDS", "PICKLIST_USE_ULTRA_COMPACT_PROMPT", "LLM_TEMPERATURE",
	}
	for _, k := range keys {
		original, wasSet := os.LookupEnv(k)
		os.Unsetenv(k)
		t.Cleanup(func() {
			if wasSet {
				os.Setenv(k, original)
			}
		})
	}
}
