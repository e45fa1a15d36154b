// Package ai provides factory functions for creating chat model adapters.
package ai

import (
	"context"
	"fmt"

	geminillm "github.com/alpha-insights/alphy-cli/internal/adapters/driven/llm/gemini"
	routellmllm "github.com/alpha-insights/alphy-cli/internal/adapters/driven/llm/routellm"
	"github.com/alpha-insights/alphy-cli/internal/core/domain"
	"github.com/alpha-insights/alphy-cli/internal/core/ports/driven"
)

// CreateChatModel creates the appropriate chat model based on settings.
// Returns nil if no provider is configured; the chat service then runs
// in degraded command-only mode.
func CreateChatModel(ctx context.Context, settings *domain.LLMSettings) (driven.ChatModel, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.ProviderRouteLLM:
		return createRouteLLM(settings)

	case domain.ProviderGemini:
		return createGemini(ctx, settings)

	default:
		return nil, fmt.Errorf("%w: unsupported provider %q",
			domain.ErrLLMUnavailable, settings.Provider)
	}
}

func createRouteLLM(settings *domain.LLMSettings) (driven.ChatModel, error) {
	model, err := routellmllm.New(routellmllm.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}
	return model, nil
}

func createGemini(ctx context.Context, settings *domain.LLMSettings) (driven.ChatModel, error) {
	model, err := geminillm.New(ctx, geminillm.Config{
		APIKey: settings.APIKey,
		Model:  settings.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}
	return model, nil
}
