package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Env   string
	Agent AgentConfig
	Cache CacheConfig

	OpenAI    ProviderConfig
	Anthropic ProviderConfig
	Google    ProviderConfig
	Groq      ProviderConfig
}

// AgentConfig controls the model order and retry budget of every action.
type AgentConfig struct {
	PrimaryModel  string
	FallbackModel string
	MaxRetries    int // attempts per model, not total
}

// CacheConfig controls the content-addressed result cache.
// Enabled=false removes the cache layer entirely: every build request
// goes straight to the model loop.
type CacheConfig struct {
	Enabled bool
	Dir     string
}

type ProviderConfig struct {
	APIKey  string
	BaseURL string // Optional: custom API endpoint
}

// Load loads configuration from environment variables.
// In development it loads from a .env file first, if one exists.
func Load() (Config, error) {
	if getEnv("CVX_ENV", "development") == "development" {
		_ = godotenv.Load(".env")
	}

	cfg := Config{
		Env: getEnv("CVX_ENV", "development"),
		Agent: AgentConfig{
			PrimaryModel:  getEnv("AI_MODEL", "gemini-2.5-flash"),
			FallbackModel: getEnv("AI_FALLBACK_MODEL", "gpt-4o-mini"),
			MaxRetries:    getEnvInt("AI_MAX_RETRIES", 2),
		},
		Cache: CacheConfig{
			Enabled: getEnvBool("CVX_AGENT_CACHE", true),
			Dir:     getEnv("CVX_CACHE_DIR", filepath.Join(".cvx", "cache", "agent")),
		},
		OpenAI: ProviderConfig{
			APIKey:  getEnv("OPENAI_API_KEY", ""),
			BaseURL: getEnv("OPENAI_BASE_URL", ""),
		},
		Anthropic: ProviderConfig{
			APIKey: getEnv("ANTHROPIC_API_KEY", ""),
		},
		Google: ProviderConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
		},
		Groq: ProviderConfig{
			APIKey: getEnv("GROQ_API_KEY", ""),
		},
	}

	// Groq exposes an OpenAI-compatible API; a Groq key can stand in for a
	// missing OpenAI key so "openai/..." model names keep working.
	if cfg.OpenAI.APIKey == "" {
		cfg.OpenAI.APIKey = cfg.Groq.APIKey
	}

	if cfg.Agent.PrimaryModel == "" {
		return Config{}, fmt.Errorf("AI_MODEL must not be empty")
	}
	if cfg.Agent.MaxRetries < 1 {
		return Config{}, fmt.Errorf("AI_MAX_RETRIES must be at least 1, got %d", cfg.Agent.MaxRetries)
	}

	return cfg, nil
}

// Models returns the model order for the fallback loop: primary first.
// An empty fallback collapses the order to the primary alone.
func (c AgentConfig) Models() []string {
	if c.FallbackModel == "" {
		return []string{c.PrimaryModel}
	}
	return []string{c.PrimaryModel, c.FallbackModel}
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c CacheConfig) String() string {
	if !c.Enabled {
		return "disabled"
	}
	return c.Dir
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		switch strings.ToLower(value) {
		case "1", "true", "on", "yes":
			return true
		case "0", "false", "off", "no":
			return false
		}
	}
	return fallback
}
