package llm

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/querylens/querylens-engine/pkg/apperrors"
	"github.com/querylens/querylens-engine/pkg/config"
)

// NewProviderFromConfig builds the configured AI provider. When AI is
// disabled it returns (nil, nil); callers treat a nil provider as "static
// analysis only". Construction failures wrap apperrors.ErrNoProvider so
// callers can detect them with errors.Is and degrade gracefully.
func NewProviderFromConfig(cfg *config.Config, logger *zap.Logger) (Provider, error) {
	if !cfg.AI.Enabled {
		return nil, nil
	}

	var (
		provider Provider
		err      error
	)
	switch cfg.AI.Provider {
	case "openai":
		provider, err = NewOpenAIProvider(&OpenAIConfig{
			APIKey:  cfg.OpenAI.APIKey,
			BaseURL: cfg.OpenAI.BaseURL,
			Model:   cfg.OpenAI.Model,
			Name:    "openai",
		}, logger)
	case "ollama":
		provider, err = NewOpenAIProvider(&OpenAIConfig{
			BaseURL: cfg.Ollama.BaseURL,
			Model:   cfg.Ollama.Model,
			Name:    "ollama",
		}, logger)
	case "anthropic":
		provider, err = NewAnthropicProvider(cfg.Anthropic.APIKey, cfg.Anthropic.Model, logger)
	default:
		err = fmt.Errorf("unknown AI provider %q", cfg.AI.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrNoProvider, err)
	}
	return provider, nil
}
