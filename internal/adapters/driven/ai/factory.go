// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"fmt"

	ollamaembed "github.com/benefik-labs/benefik-cli/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/benefik-labs/benefik-cli/internal/adapters/driven/embedding/openai"
	ollamallm "github.com/benefik-labs/benefik-cli/internal/adapters/driven/llm/ollama"
	openaillm "github.com/benefik-labs/benefik-cli/internal/adapters/driven/llm/openai"
	"github.com/benefik-labs/benefik-cli/internal/adapters/driven/config/file"
	"github.com/benefik-labs/benefik-cli/internal/core/domain"
	"github.com/benefik-labs/benefik-cli/internal/core/ports/driven"
)

// CreateEmbeddingService creates an embedding service for the
// configured provider.
func CreateEmbeddingService(cfg file.ProviderConfig) (driven.EmbeddingService, error) {
	switch cfg.Name {
	case "openai":
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.EmbeddingModel,
			Timeout: cfg.Timeout,
		})
	case "ollama":
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL: cfg.BaseURL,
			Model:   cfg.EmbeddingModel,
			Timeout: cfg.Timeout,
		}), nil
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", domain.ErrConfiguration, cfg.Name)
	}
}

// CreateLLMService creates a chat completion service for the
// configured provider.
func CreateLLMService(cfg file.ProviderConfig) (driven.LLMService, error) {
	switch cfg.Name {
	case "openai":
		return openaillm.NewLLMService(openaillm.Config{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.ChatModel,
			Timeout: cfg.Timeout,
		})
	case "ollama":
		return ollamallm.NewLLMService(ollamallm.Config{
			BaseURL: cfg.BaseURL,
			Model:   cfg.ChatModel,
			Timeout: cfg.Timeout,
		}), nil
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", domain.ErrConfiguration, cfg.Name)
	}
}
