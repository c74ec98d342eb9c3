// Package config provides application settings loaded from environment
// variables.
//
// Settings are created via New() which handles:
// - Environment variable parsing with validation
// - Default value application
// - Provider-specific configuration lookup
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Settings holds all application configuration for the picklist
// orchestration core (spec §6 "Configuration surface").
type Settings struct {
	LLM  LLMConfig
	Core CoreConfig
}

// LLMConfig holds LLM provider configuration.
type LLMConfig struct {
	Provider    string
	Model       string
	Temperature float64
}

// CoreConfig holds the orchestration core's tunables.
type CoreConfig struct {
	MaxInputTokens            int
	MaxOutputTokens           int
	MaxRetries                int
	InitialRetryDelay         time.Duration
	DefaultBatchSize          int
	SingleProcessingThreshold int
	PerBatchTimeout           time.Duration
	CacheTTL                  time.Duration
	UseUltraCompactPrompt     bool
}

// providerInfo holds configuration for a specific LLM provider.
type providerInfo struct {
	modelEnv     string
	defaultModel string
	apiKeyEnv    string
}

// Supported providers and their configuration.
var providers = map[string]providerInfo{
	"openai":    {"OPENAI_MODEL", "gpt-5.2", "OPENAI_API_KEY"},
	"anthropic": {"ANTHROPIC_MODEL", "claude-opus-4-5-20251101", "ANTHROPIC_API_KEY"},
	"deepseek":  {"DEEPSEEK_MODEL", "deepseek-v3.2", "DEEPSEEK_API_KEY"},
	"gemini":    {"GEMINI_MODEL", "gemini-3-flash", "GEMINI_API_KEY"},
}

// Provider aliases map to canonical names.
var providerAliases = map[string]string{
	"claude": "anthropic",
	"google": "gemini",
	"gpt":    "openai",
}

// New creates settings for the specified provider, loading values from
// environment variables. Returns an error if the provider is unknown or
// environment variables contain invalid values.
func New(provider string) (Settings, error) {
	provider = normalizeProvider(provider)

	info, err := getProviderInfo(provider)
	if err != nil {
		return Settings{}, err
	}

	temperature, err := getEnvFloat64("LLM_TEMPERATURE", 0.2)
	if err != nil {
		return Settings{}, err
	}

	maxInputTokens, err := getEnvInt("PICKLIST_MAX_INPUT_TOKENS", 100_000)
	if err != nil {
		return Settings{}, err
	}
	maxOutputTokens, err := getEnvInt("PICKLIST_MAX_OUTPUT_TOKENS", 4_000)
	if err != nil {
		return Settings{}, err
	}
	maxRetries, err := getEnvInt("PICKLIST_MAX_RETRIES", 3)
	if err != nil {
		return Settings{}, err
	}
	initialRetryDelay, err := getEnvFloat64("PICKLIST_INITIAL_RETRY_DELAY_SECONDS", 1.0)
	if err != nil {
		return Settings{}, err
	}
	defaultBatchSize, err := getEnvInt("PICKLIST_DEFAULT_BATCH_SIZE", 20)
	if err != nil {
		return Settings{}, err
	}
	singleProcessingThreshold, err := getEnvInt("PICKLIST_SINGLE_PROCESSING_THRESHOLD", 20)
	if err != nil {
		return Settings{}, err
	}
	perBatchTimeout, err := getEnvFloat64("PICKLIST_PER_BATCH_TIMEOUT_SECONDS", 60)
	if err != nil {
		return Settings{}, err
	}
	cacheTTL, err := getEnvFloat64("PICKLIST_CACHE_TTL_SECONDS", 3600)
	if err != nil {
		return Settings{}, err
	}
	useCompact, err := getEnvBool("PICKLIST_USE_ULTRA_COMPACT_PROMPT", true)
	if err != nil {
		return Settings{}, err
	}

	model := os.Getenv(info.modelEnv)
	if model == "" {
		model = info.defaultModel
	}

	return Settings{
		LLM: LLMConfig{
			Provider:    provider,
			Model:       model,
			Temperature: temperature,
		},
		Core: CoreConfig{
			MaxInputTokens:            maxInputTokens,
			MaxOutputTokens:           maxOutputTokens,
			MaxRetries:                maxRetries,
			InitialRetryDelay:         time.Duration(initialRetryDelay * float64(time.Second)),
			DefaultBatchSize:          defaultBatchSize,
			SingleProcessingThreshold: singleProcessingThreshold,
			PerBatchTimeout:           time.Duration(perBatchTimeout * float64(time.Second)),
			CacheTTL:                  time.Duration(cacheTTL * float64(time.Second)),
			UseUltraCompactPrompt:     useCompact,
		},
	}, nil
}

// MustNew creates settings for the specified provider.
// Panics if the provider is unknown or environment variables are invalid.
// Use this only when configuration errors should be fatal.
func MustNew(provider string) Settings {
	settings, err := New(provider)
	if err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
	return settings
}

// normalizeProvider converts provider aliases to canonical names.
func normalizeProvider(provider string) string {
	provider = strings.ToLower(provider)
	if canonical, ok := providerAliases[provider]; ok {
		return canonical
	}
	return provider
}

// getProviderInfo returns configuration for a provider.
func getProviderInfo(provider string) (providerInfo, error) {
	info, ok := providers[provider]
	if !ok {
		return providerInfo{}, fmt.Errorf("unknown provider: %q", provider)
	}
	return info, nil
}

// APIKeyFor returns the API key for a provider from environment variables.
func APIKeyFor(provider string) (string, error) {
	provider = normalizeProvider(provider)

	info, err := getProviderInfo(provider)
	if err != nil {
		return "", err
	}

	key := os.Getenv(info.apiKeyEnv)
	if key == "" {
		return "", fmt.Errorf("%s environment variable not set", info.apiKeyEnv)
	}
	return key, nil
}

// ModelFor returns the model for a provider, checking environment first.
func ModelFor(provider string) (string, error) {
	provider = normalizeProvider(provider)

	info, err := getProviderInfo(provider)
	if err != nil {
		return "", err
	}

	if val := os.Getenv(info.modelEnv); val != "" {
		return val, nil
	}
	return info.defaultModel, nil
}

// SupportedProviders returns the list of supported provider names.
func SupportedProviders() []string {
	result := make([]string, 0, len(providers))
	for name := range providers {
		result = append(result, name)
	}
	return result
}

// Environment variable helpers with proper error handling

func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q: %w", key, val, err)
	}
	return i, nil
}

func getEnvFloat64(key string, defaultVal float64) (float64, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q: %w", key, val, err)
	}
	return f, nil
}

func getEnvBool(key string, defaultVal bool) (bool, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("invalid value for %s: %q: %w", key, val, err)
	}
	return b, nil
}
