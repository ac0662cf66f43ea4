// Package llm builds the text-generation delegate shared by the chat engine
// and the preference extractor.
package llm

import (
	"context"
	"fmt"
	"strings"

	"luna_assistant/internal/logger"
	"luna_assistant/internal/model"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino-ext/components/model/deepseek"
	"github.com/cloudwego/eino-ext/components/model/ollama"
	"github.com/cloudwego/eino-ext/components/model/openai"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/ollama/ollama/api"
)

const (
	ProviderOllama   = "ollama"
	ProviderOpenAI   = "openai"
	ProviderArk      = "ark"
	ProviderDeepSeek = "deepseek"

	defaultOllamaURL = "http://localhost:11434"
)

// Providers lists the accepted LLM_PROVIDER values
var Providers = []string{ProviderOllama, ProviderOpenAI, ProviderArk, ProviderDeepSeek}

// NewChatModel creates the chat model selected by cfg.Provider
func NewChatModel(ctx context.Context, cfg model.LLMConfig) (einomodel.BaseChatModel, error) {
	maxTokens := cfg.MaxTokens
	temperature := float32(cfg.Temperature)

	var (
		chatModel einomodel.BaseChatModel
		err       error
	)

	switch strings.ToLower(cfg.Provider) {
	case ProviderOllama:
		chatModel, err = ollama.NewChatModel(ctx, &ollama.ChatModelConfig{
			BaseURL: OllamaURL(cfg),
			Model:   cfg.Model,
			Timeout: cfg.Timeout,
			Options: &api.Options{
				Temperature: temperature,
				NumPredict:  maxTokens,
			},
		})
	case ProviderOpenAI:
		chatModel, err = openai.NewChatModel(ctx, &openai.ChatModelConfig{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			Timeout:     cfg.Timeout,
			MaxTokens:   &maxTokens,
			Temperature: &temperature,
		})
	case ProviderArk:
		timeout := cfg.Timeout
		chatModel, err = ark.NewChatModel(ctx, &ark.ChatModelConfig{
			BaseURL:     cfg.BaseURL,
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			Timeout:     &timeout,
			MaxTokens:   &maxTokens,
			Temperature: &temperature,
		})
	case ProviderDeepSeek:
		chatModel, err = deepseek.NewChatModel(ctx, &deepseek.ChatModelConfig{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			Timeout:     cfg.Timeout,
			MaxTokens:   maxTokens,
			Temperature: temperature,
		})
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("error creating %s chat model: %w", cfg.Provider, err)
	}

	logger.Info().
		Str("provider", cfg.Provider).
		Str("model", cfg.Model).
		Dur("timeout", cfg.Timeout).
		Msg("chat model initialized")

	return chatModel, nil
}

// OllamaURL is cfg.BaseURL or the local ollama default
func OllamaURL(cfg model.LLMConfig) string {
	if cfg.BaseURL != "" {
		return cfg.BaseURL
	}
	return defaultOllamaURL
}
