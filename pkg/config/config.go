package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Provider names accepted in LLM_PROVIDER.
const (
	ProviderOpenAI           = "openai"
	ProviderAzure            = "azure"
	ProviderOpenAICompatible = "openai-compatible"
	ProviderOpenRouter       = "openrouter"
	ProviderOllama           = "ollama"
)

type Config struct {
	Port        string
	DatabaseURL string
	CORSOrigins []string

	// LLM provider selection and credentials
	Provider        string
	OpenAIAPIKey    string
	OpenAIModel     string
	AzureEndpoint   string
	AzureAPIKey     string
	AzureDeployment string
	AzureAPIVersion string

	OpenRouterAPIKey  string
	OpenRouterModel   string
	OpenRouterBaseURL string
	LLMBaseURL        string
	LLMModel          string

	Temperature float32
	MaxTokens   int

	// Orchestration policy
	HistoryLimit    int
	PersistOverride bool

	LogLevel string
	LogFile  string
}

// Load reads environment variables, optionally from a .env file if present.
func Load() Config {
	// Try to load .env if it exists; ignore error if file not found
	_ = godotenv.Load()

	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		CORSOrigins: splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")),

		Provider:        strings.ToLower(getEnv("LLM_PROVIDER", ProviderOpenAI)),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:     getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),
		AzureEndpoint:   os.Getenv("AZURE_OPENAI_ENDPOINT"),
		AzureAPIKey:     os.Getenv("AZURE_OPENAI_API_KEY"),
		AzureDeployment: os.Getenv("AZURE_OPENAI_DEPLOYMENT_NAME"),
		AzureAPIVersion: getEnv("AZURE_OPENAI_API_VERSION", "2024-02-15-preview"),

		OpenRouterAPIKey:  os.Getenv("OPENROUTER_API_KEY"),
		OpenRouterModel:   getEnv("OPENROUTER_MODEL", "openai/gpt-3.5-turbo"),
		OpenRouterBaseURL: getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
		LLMBaseURL:        os.Getenv("LLM_BASE_URL"),
		LLMModel:          getEnv("LLM_MODEL", "llama3"),

		Temperature: getEnvFloat("LLM_TEMPERATURE", 0.7),
		MaxTokens:   getEnvInt("LLM_MAX_TOKENS", 0),

		HistoryLimit:    getEnvInt("HISTORY_LIMIT", 10),
		PersistOverride: getEnvBool("OVERRIDE_PERSIST", true),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  os.Getenv("LOG_FILE"),
	}
	return cfg
}

// Validate checks that the selected provider has its required credentials.
// An unconfigured provider must never make it past startup.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when LLM_PROVIDER=%s", c.Provider)
		}
	case ProviderAzure:
		if c.AzureEndpoint == "" || c.AzureAPIKey == "" {
			return fmt.Errorf("AZURE_OPENAI_ENDPOINT and AZURE_OPENAI_API_KEY are required when LLM_PROVIDER=%s", c.Provider)
		}
		if c.AzureDeployment == "" {
			return fmt.Errorf("AZURE_OPENAI_DEPLOYMENT_NAME is required when LLM_PROVIDER=%s", c.Provider)
		}
	case ProviderOpenRouter:
		if c.OpenRouterAPIKey == "" {
			return fmt.Errorf("OPENROUTER_API_KEY is required when LLM_PROVIDER=%s", c.Provider)
		}
	case ProviderOpenAICompatible, ProviderOllama:
		// Local backends work without credentials; base URL has a default.
	default:
		return fmt.Errorf("unsupported LLM provider: %q", c.Provider)
	}
	if c.HistoryLimit <= 0 {
		return fmt.Errorf("HISTORY_LIMIT must be positive, got %d", c.HistoryLimit)
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvFloat(key string, def float32) float32 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 32); err == nil {
			return float32(f)
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
