// Package service builds the enrichment driver from configuration.
package service

import (
	"context"
	"fmt"

	"textqa-enrich/internal/answer"
	"textqa-enrich/internal/azure"
	"textqa-enrich/internal/batcher"
	"textqa-enrich/internal/config"
	"textqa-enrich/internal/llm"
	"textqa-enrich/internal/logger"
	"textqa-enrich/internal/pipeline"
	"textqa-enrich/internal/question"
	"textqa-enrich/internal/translation"
)

// NewDriver wires the translator, question generator and answerer named by cfg.
// Mock switches replace the matching service with an offline stand-in.
func NewDriver(ctx context.Context, cfg config.Config) (*pipeline.Driver, error) {
	log := logger.New().WithField("component", "service")

	tc, err := newTranslationClient(cfg)
	if err != nil {
		return nil, err
	}
	completer, err := newCompleter(ctx, cfg)
	if err != nil {
		return nil, err
	}
	qa, err := newQAClient(cfg)
	if err != nil {
		return nil, err
	}

	log.WithFields(map[string]interface{}{
		"translator_mock": cfg.Translator.Mock,
		"llm_provider":    cfg.ResolvedLLMProvider(),
		"qa_mock":         cfg.QA.Mock,
		"workers":         cfg.Workers,
	}).Info("services configured")

	limits := batcher.Limits{MaxItems: cfg.BatchMaxItems, MaxChars: cfg.BatchMaxChars}
	return pipeline.New(
		translation.New(tc, limits),
		question.New(completer),
		answer.New(qa),
		pipeline.Options{SourceLang: cfg.SourceLang, TargetLang: cfg.TargetLang, Workers: cfg.Workers},
	), nil
}

func restOptions(cfg config.Config) azure.Options {
	return azure.Options{Timeout: cfg.HTTPTimeout(), MaxRetries: uint64(cfg.MaxRetries)}
}

func newTranslationClient(cfg config.Config) (translation.Client, error) {
	if cfg.Translator.Mock {
		return translation.Mock{}, nil
	}
	t, err := azure.NewTranslator(cfg.Translator.Endpoint, cfg.Translator.Key, cfg.Translator.Region, restOptions(cfg))
	if err != nil {
		return nil, fmt.Errorf("translator: %w", err)
	}
	return t, nil
}

func newQAClient(cfg config.Config) (answer.Client, error) {
	if cfg.QA.Mock {
		return answer.Mock{}, nil
	}
	qa, err := azure.NewQA(cfg.QA.Endpoint, cfg.QA.Key, cfg.TargetLang, restOptions(cfg))
	if err != nil {
		return nil, fmt.Errorf("qa: %w", err)
	}
	return qa, nil
}

func newCompleter(ctx context.Context, cfg config.Config) (llm.Completer, error) {
	switch p := cfg.ResolvedLLMProvider(); p {
	case "mock":
		return llm.Mock{}, nil
	case "gemini":
		return llm.NewGeminiClient(ctx, cfg.LLM.GeminiAPIKey, cfg.LLM.Model)
	case "azure":
		return llm.NewChatClient(llm.ChatConfig{
			AzureEndpoint: cfg.LLM.AzureEndpoint,
			APIKey:        cfg.LLM.AzureAPIKey,
			Model:         cfg.LLM.AzureDeployment,
			APIVersion:    cfg.LLM.AzureAPIVersion,
			Timeout:       cfg.HTTPTimeout(),
			MaxRetries:    uint64(cfg.MaxRetries),
		})
	case "openai":
		return llm.NewChatClient(llm.ChatConfig{
			URL:        cfg.LLM.GatewayURL,
			APIKey:     cfg.LLM.APIKey,
			Model:      cfg.LLM.Model,
			Timeout:    cfg.HTTPTimeout(),
			MaxRetries: uint64(cfg.MaxRetries),
		})
	default:
		return nil, fmt.Errorf("unknown llm provider %q", p)
	}
}
