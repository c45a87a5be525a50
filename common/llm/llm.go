package llm

import (
	"fmt"
	"strings"
)

// Family identifies the provider backend a model name routes to.
type Family string

const (
	FamilyGroq      Family = "groq"
	FamilyGoogle    Family = "google"
	FamilyAnthropic Family = "anthropic"
	FamilyOpenAI    Family = "openai" // catch-all: any OpenAI-compatible API
)

// Groq and Gemini are reached through their OpenAI-compatible endpoints.
const (
	groqBaseURL   = "https://api.groq.com/openai/v1"
	geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"
)

// familyRules is evaluated in order, first match wins. The keyword sets
// overlap (a name containing both "flash" and "claude" routes to Google
// purely because that rule is declared first), so the order here is
// load-bearing. Matching is case-insensitive substring containment.
var familyRules = []struct {
	family   Family
	keywords []string
}{
	{FamilyGroq, []string{"openai/", "qwen/", "llama", "mixtral", "groq"}},
	{FamilyGoogle, []string{"gemini", "flash", "pro"}},
	{FamilyAnthropic, []string{"claude", "sonnet", "opus", "haiku"}},
}

// Handle binds a provider family to a literal model name. It carries no
// other state; credentials and endpoints are supplied at client creation.
type Handle struct {
	Family Family
	Model  string
}

// Resolve maps a model name to its provider family. It is total: names
// matching no rule fall through to the OpenAI-compatible family.
func Resolve(model string) Handle {
	name := strings.ToLower(model)

	for _, rule := range familyRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(name, keyword) {
				return Handle{Family: rule.family, Model: model}
			}
		}
	}

	return Handle{Family: FamilyOpenAI, Model: model}
}

// Config holds per-family credentials and endpoint overrides.
type Config struct {
	OpenAI    ProviderConfig
	Anthropic ProviderConfig
	Google    ProviderConfig
	Groq      ProviderConfig
}

// ProviderConfig configures one provider family.
type ProviderConfig struct {
	APIKey  string
	BaseURL string // Optional: custom API endpoint
}

// NewClient creates a Client for the handle's family, bound to its model name.
func NewClient(h Handle, cfg Config) (Client, error) {
	switch h.Family {
	case FamilyGroq:
		pc := cfg.Groq
		if pc.BaseURL == "" {
			pc.BaseURL = groqBaseURL
		}
		return newOpenAIClient(pc, h.Model)

	case FamilyGoogle:
		pc := cfg.Google
		if pc.BaseURL == "" {
			pc.BaseURL = geminiBaseURL
		}
		return newOpenAIClient(pc, h.Model)

	case FamilyAnthropic:
		return newAnthropicClient(cfg.Anthropic, h.Model)

	case FamilyOpenAI:
		return newOpenAIClient(cfg.OpenAI, h.Model)

	default:
		return nil, fmt.Errorf("unsupported LLM provider family: %s", h.Family)
	}
}
