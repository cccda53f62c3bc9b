package service

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"lifelens/internal/config"
	"lifelens/internal/model"
)

// GenerationParams tunes a single completion. Nil pointers leave the
// provider default in place.
type GenerationParams struct {
	Temperature *float64
	MaxTokens   *int
	// JSON asks the provider for a JSON object response when it supports it.
	JSON bool
}

// UsageInfo reports token usage of a completion. Estimated is set when the
// provider did not report usage and the counts come from a tokenizer.
type UsageInfo struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Estimated        bool
}

// TextGenerator is the external text-generation capability. Output is
// untrusted plain text.
type TextGenerator interface {
	Complete(ctx context.Context, prompt string, params GenerationParams) (string, UsageInfo, error)
}

// NewTextGenerator builds the client selected by cfg.AIProvider. It returns
// a nil generator for the "none" provider.
func NewTextGenerator(ctx context.Context, cfg *config.Config, logger *zap.Logger) (TextGenerator, error) {
	httpClient := &http.Client{Timeout: cfg.AITimeout}

	switch cfg.AIProvider {
	case config.ProviderOpenAI:
		logger.Info("Using OpenAI-compatible text generator", zap.String("base_url", cfg.AIBaseURL), zap.String("model", cfg.AIModel))
		return newOpenAIClient(cfg.AIAPIKey, cfg.AIBaseURL, cfg.AIModel, httpClient, logger), nil
	case config.ProviderOllama:
		logger.Info("Using Ollama text generator", zap.String("base_url", cfg.AIBaseURL), zap.String("model", cfg.AIModel))
		return newOllamaClient(cfg.AIBaseURL, cfg.AIModel, httpClient, logger)
	case config.ProviderGemini:
		logger.Info("Using Gemini text generator", zap.String("model", cfg.AIModel))
		return newGeminiClient(ctx, cfg.AIAPIKey, cfg.AIBaseURL, cfg.AIModel, httpClient, logger)
	case config.ProviderNone:
		logger.Warn("No text generator configured, every report uses fallback content")
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: '%s'", model.ErrUnknownProvider, cfg.AIProvider)
	}
}

func float32Val(f64 *float64) float32 {
	if f64 == nil {
		return 0
	}
	return float32(*f64)
}

func intVal(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}
