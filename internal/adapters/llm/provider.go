package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/PabloGalante/tripmate/internal/domain"
)

// Config selects and configures a completion provider.
type Config struct {
	Provider string // "openai", "gemini", "anthropic" or "mock"
	Model    string
	BaseURL  string

	GCPProject  string
	GCPLocation string
}

// New builds the CompletionProvider named by cfg.Provider.
func New(ctx context.Context, cfg Config) (domain.CompletionProvider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "openai", "":
		return NewOpenAIClient(OpenAIConfig{Model: cfg.Model, BaseURL: cfg.BaseURL}), nil
	case "gemini", "vertex":
		return NewGeminiClient(ctx, GeminiConfig{
			Model:    cfg.Model,
			Project:  cfg.GCPProject,
			Location: cfg.GCPLocation,
		})
	case "anthropic", "claude":
		return NewAnthropicClient(AnthropicConfig{Model: cfg.Model}), nil
	case "mock":
		return NewMockLLM(), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s (supported: openai, gemini, anthropic, mock)", cfg.Provider)
	}
}
