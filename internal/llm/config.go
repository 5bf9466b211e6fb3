package llm

import (
	"fmt"
	"os"
	"time"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "anthropic", "openai", "gemini", "openrouter", "completion", "mock"
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Completion CompletionConfig

	// Timeout is the maximum duration for a single LLM request.
	// Requests are never retried. Default: 30s.
	Timeout time.Duration
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string
	Model  string // Default: "claude-haiku"
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-4o-mini"
	BaseURL string // Optional. Override for compatible APIs.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string
	Model  string // Default: "gemini-flash"
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string // Default: "google/gemini-2.0-flash-exp"
	BaseURL string // Default: "https://openrouter.ai/api/v1"
}

// CompletionConfig configures a generic completion service that accepts a
// list of role-tagged messages and answers with {"output":{"content":...}}.
type CompletionConfig struct {
	URL    string
	APIKey string // Optional. Sent as a bearer token.
	Model  string // Optional. Forwarded in the request body when set.
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider: "anthropic",
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		Gemini: GeminiConfig{
			Model: "gemini-flash",
		},
		OpenRouter: OpenRouterConfig{
			Model: "google/gemini-2.0-flash-exp",
		},
		Timeout: 30 * time.Second,
	}
}

// ApplyEnv overlays QUIZGEN_* provider variables read through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}

	set(&c.Provider, "QUIZGEN_LLM_PROVIDER")

	set(&c.Anthropic.APIKey, "QUIZGEN_ANTHROPIC_API_KEY")
	set(&c.Anthropic.Model, "QUIZGEN_ANTHROPIC_MODEL")

	set(&c.OpenAI.APIKey, "QUIZGEN_OPENAI_API_KEY")
	set(&c.OpenAI.Model, "QUIZGEN_OPENAI_MODEL")
	set(&c.OpenAI.BaseURL, "QUIZGEN_OPENAI_BASE_URL")

	set(&c.Gemini.APIKey, "QUIZGEN_GEMINI_API_KEY")
	set(&c.Gemini.Model, "QUIZGEN_GEMINI_MODEL")

	set(&c.OpenRouter.APIKey, "QUIZGEN_OPENROUTER_API_KEY")
	set(&c.OpenRouter.Model, "QUIZGEN_OPENROUTER_MODEL")

	set(&c.Completion.URL, "QUIZGEN_COMPLETION_URL")
	set(&c.Completion.APIKey, "QUIZGEN_COMPLETION_API_KEY")
	set(&c.Completion.Model, "QUIZGEN_COMPLETION_MODEL")

	if v := getenv("QUIZGEN_LLM_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.Timeout = d
		}
	}
}

// SetModel overrides the model (and base URL, where the provider has one)
// of the named provider. Empty values leave the current setting.
func (c *Config) SetModel(provider, model, baseURL string) {
	pick := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	switch provider {
	case "anthropic":
		pick(&c.Anthropic.Model, model)
	case "openai":
		pick(&c.OpenAI.Model, model)
		pick(&c.OpenAI.BaseURL, baseURL)
	case "gemini":
		pick(&c.Gemini.Model, model)
	case "openrouter":
		pick(&c.OpenRouter.Model, model)
		pick(&c.OpenRouter.BaseURL, baseURL)
	case "completion":
		pick(&c.Completion.Model, model)
		pick(&c.Completion.URL, baseURL)
	}
}

// DiscoverConfig probes standard API key env vars in priority order
// (Gemini → OpenAI → Anthropic → OpenRouter) and returns a Config for the
// first provider whose key is found. Returns (Config{}, false) if none found.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()

	if k := os.Getenv("GEMINI_API_KEY"); k != "" {
		cfg.Provider = "gemini"
		cfg.Gemini.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENAI_API_KEY"); k != "" {
		cfg.Provider = "openai"
		cfg.OpenAI.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("ANTHROPIC_API_KEY"); k != "" {
		cfg.Provider = "anthropic"
		cfg.Anthropic.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENROUTER_API_KEY"); k != "" {
		cfg.Provider = "openrouter"
		cfg.OpenRouter.APIKey = k
		return cfg, true
	}

	return Config{}, false
}

// Validate checks that the selected provider has its required settings.
func (c Config) Validate() error {
	switch c.Provider {
	case "anthropic":
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("QUIZGEN_ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("QUIZGEN_OPENAI_API_KEY is required for the openai provider")
		}
	case "gemini":
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("QUIZGEN_GEMINI_API_KEY is required for the gemini provider")
		}
	case "openrouter":
		if c.OpenRouter.APIKey == "" {
			return fmt.Errorf("QUIZGEN_OPENROUTER_API_KEY is required for the openrouter provider")
		}
	case "completion":
		if c.Completion.URL == "" {
			return fmt.Errorf("QUIZGEN_COMPLETION_URL is required for the completion provider")
		}
	case "mock":
		// No API key needed.
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}
