package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alpha-insights/alphy-cli/internal/core/domain"
)

func TestCreateChatModel_NotConfigured(t *testing.T) {
	model, err := CreateChatModel(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, model)

	model, err = CreateChatModel(context.Background(), &domain.LLMSettings{
		Provider: domain.ProviderRouteLLM,
	})
	require.NoError(t, err)
	assert.Nil(t, model, "missing API key means unconfigured, not an error")
}

func TestCreateChatModel_RouteLLM(t *testing.T) {
	model, err := CreateChatModel(context.Background(), &domain.LLMSettings{
		Provider: domain.ProviderRouteLLM,
		APIKey:   "key",
		Model:    "route-llm",
	})
	require.NoError(t, err)
	require.NotNil(t, model)
	defer model.Close()

	assert.Equal(t, "route-llm", model.ModelName())
}

func TestCreateChatModel_UnsupportedProvider(t *testing.T) {
	_, err := CreateChatModel(context.Background(), &domain.LLMSettings{
		Provider: "mystery",
		APIKey:   "key",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}
