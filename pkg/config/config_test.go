package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	assert.Equal(t, "gpt-3.5-turbo", cfg.OpenAIModel)
	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.OpenRouterBaseURL)
	assert.Equal(t, float32(0.7), cfg.Temperature)
	assert.Equal(t, 10, cfg.HistoryLimit)
	assert.True(t, cfg.PersistOverride)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.CORSOrigins)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "OpenRouter")
	t.Setenv("HISTORY_LIMIT", "4")
	t.Setenv("OVERRIDE_PERSIST", "false")
	t.Setenv("LLM_TEMPERATURE", "0.2")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg := Load()

	assert.Equal(t, ProviderOpenRouter, cfg.Provider, "provider name is lowercased")
	assert.Equal(t, 4, cfg.HistoryLimit)
	assert.False(t, cfg.PersistOverride)
	assert.Equal(t, float32(0.2), cfg.Temperature)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestValidateOpenAIRequiresKey(t *testing.T) {
	cfg := Config{Provider: ProviderOpenAI, HistoryLimit: 10}
	require.Error(t, cfg.Validate())

	cfg.OpenAIAPIKey = "sk-test"
	assert.NoError(t, cfg.Validate())
}

func TestValidateAzureRequiresEndpointKeyDeployment(t *testing.T) {
	cfg := Config{Provider: ProviderAzure, HistoryLimit: 10}
	require.Error(t, cfg.Validate())

	cfg.AzureEndpoint = "https://example.openai.azure.com"
	cfg.AzureAPIKey = "key"
	require.Error(t, cfg.Validate(), "deployment name still missing")

	cfg.AzureDeployment = "gpt"
	assert.NoError(t, cfg.Validate())
}

func TestValidateOpenRouterRequiresKey(t *testing.T) {
	cfg := Config{Provider: ProviderOpenRouter, HistoryLimit: 10}
	require.Error(t, cfg.Validate())

	cfg.OpenRouterAPIKey = "or-key"
	assert.NoError(t, cfg.Validate())
}

func TestValidateLocalProvidersNeedNoCredentials(t *testing.T) {
	for _, p := range []string{ProviderOllama, ProviderOpenAICompatible} {
		cfg := Config{Provider: p, HistoryLimit: 10}
		assert.NoError(t, cfg.Validate(), p)
	}
}

func TestValidateUnknownProvider(t *testing.T) {
	cfg := Config{Provider: "mystery", HistoryLimit: 10}
	assert.Error(t, cfg.Validate())
}

func TestValidateHistoryLimit(t *testing.T) {
	cfg := Config{Provider: ProviderOllama, HistoryLimit: 0}
	assert.Error(t, cfg.Validate())
}
