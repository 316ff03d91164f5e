package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("OPENAI_API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, ProviderGemini, cfg.AI.Provider)
	assert.Equal(t, "gemini-2.5-flash", cfg.AI.GeminiModel)
	assert.Equal(t, "test-key", cfg.AI.GeminiAPIKey)
	assert.Equal(t, 30*time.Second, cfg.AI.TextTimeout)
	assert.Equal(t, 60*time.Second, cfg.AI.DocumentTimeout)
	assert.Equal(t, 3, cfg.Retry.MaxRetries)
	assert.Equal(t, time.Second, cfg.Retry.BaseDelay)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("TREASURY_AI_PROVIDER", "openai")
	t.Setenv("TREASURY_SERVER_PORT", "9090")
	t.Setenv("TREASURY_AI_OPENAI_MODEL", "gpt-4o")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ProviderOpenAI, cfg.AI.Provider)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "gpt-4o", cfg.AI.OpenAIModel)
	assert.Equal(t, "sk-test", cfg.AI.OpenAIAPIKey)
}

func TestLoadExplicitKeyBeatsVendorKey(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GEMINI_API_KEY", "bare-key")
	t.Setenv("TREASURY_AI_GEMINI_API_KEY", "explicit-key")
	t.Setenv("OPENAI_API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "explicit-key", cfg.AI.GeminiAPIKey,
		"TREASURY_* overrides must win over bare vendor keys")
}

func TestLoadMissingProviderKey(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			"gemini with key",
			Config{AI: AIConfig{Provider: ProviderGemini, GeminiAPIKey: "k"}},
			false,
		},
		{
			"openai without key",
			Config{AI: AIConfig{Provider: ProviderOpenAI}},
			true,
		},
		{
			"unknown provider",
			Config{AI: AIConfig{Provider: "anthropic", GeminiAPIKey: "k"}},
			true,
		},
		{
			"negative retries",
			Config{
				AI:    AIConfig{Provider: ProviderGemini, GeminiAPIKey: "k"},
				Retry: RetryConfig{MaxRetries: -1},
			},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
