package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"textqa-enrich/internal/config"
	"textqa-enrich/internal/llm"
)

func mockConfig() config.Config {
	cfg := config.Default()
	cfg.Translator.Mock = true
	cfg.QA.Mock = true
	cfg.LLM.Provider = "mock"
	return cfg
}

func TestNewDriverAllMocks(t *testing.T) {
	d, err := NewDriver(context.Background(), mockConfig())
	require.NoError(t, err)
	assert.NotNil(t, d)
}

func TestNewDriverNeedsCredentials(t *testing.T) {
	cfg := mockConfig()
	cfg.Translator.Mock = false
	_, err := NewDriver(context.Background(), cfg)
	assert.ErrorContains(t, err, "translator")

	cfg = mockConfig()
	cfg.QA.Mock = false
	_, err = NewDriver(context.Background(), cfg)
	assert.ErrorContains(t, err, "qa")

	cfg = mockConfig()
	cfg.LLM.Provider = "openai"
	_, err = NewDriver(context.Background(), cfg)
	assert.Error(t, err)
}

func TestNewCompleterProviders(t *testing.T) {
	cfg := mockConfig()
	cfg.LLM.Provider = ""
	cfg.LLM.AzureEndpoint = "https://example.openai.azure.com"
	cfg.LLM.AzureAPIKey = "k"
	cfg.LLM.AzureDeployment = "gpt-4o"
	c, err := newCompleter(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &llm.ChatClient{}, c)

	cfg = mockConfig()
	cfg.LLM.Provider = "OpenAI"
	cfg.LLM.GatewayURL = "https://gateway/v1/chat/completions"
	cfg.LLM.APIKey = "k"
	c, err = newCompleter(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &llm.ChatClient{}, c)

	cfg.LLM.Provider = "nope"
	_, err = newCompleter(context.Background(), cfg)
	assert.Error(t, err)
}
