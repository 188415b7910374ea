package ai

import (
	"context"
	"fmt"

	"tinymeal/internal/config"
)

// NewFromConfig creates a Client based on config settings.
func NewFromConfig(ctx context.Context, cfg *config.Config) (Client, error) {
	if cfg.Mocks.Enable {
		return NewMockClient(), nil
	}

	switch cfg.AI.Provider {
	case "openai":
		return NewOpenAIClient(cfg.AI.APIKey, cfg.AI.Model), nil
	case "gemini":
		return NewGeminiClient(ctx, cfg.AI.APIKey, cfg.AI.Model)
	case "mock":
		return NewMockClient(), nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.AI.Provider)
	}
}
