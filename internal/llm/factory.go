package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/quizgen/internal/logger"
	"github.com/abhisek/quizgen/internal/store"
)

// NewProvider creates a Provider from configuration.
// It returns the provider wrapped with timeout and logging middleware.
// eventRepo and log may be nil.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, log *logger.Logger) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "completion":
		base, err = NewCompletionProvider(cfg.Completion)
	case "mock":
		base = NewMockProvider()
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// caller → timeout → logging → base
	logged := WithLogging(base, cfg.Provider, eventRepo, log)
	return WithTimeout(logged, cfg.Timeout), nil
}

// Resolve builds the provider for cfg. When cfg is incomplete and the
// provider was not chosen explicitly, well-known API key variables are
// probed with DiscoverConfig. It returns (nil, nil) when nothing is
// configured at all.
func Resolve(ctx context.Context, cfg Config, explicit bool, eventRepo store.EventRepo, log *logger.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		if explicit {
			return nil, err
		}
		discovered, ok := DiscoverConfig()
		if !ok {
			return nil, nil
		}
		discovered.Timeout = cfg.Timeout
		cfg = discovered
	}
	return NewProvider(ctx, cfg, eventRepo, log)
}
