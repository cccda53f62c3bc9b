package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
	"go.uber.org/zap"

	"lifelens/internal/config"
	"lifelens/internal/model"
)

// ollamaClient uses the native Ollama chat API.
type ollamaClient struct {
	client *api.Client
	model  string
	logger *zap.Logger
}

func newOllamaClient(baseURL, modelName string, httpClient *http.Client, logger *zap.Logger) (*ollamaClient, error) {
	// The native API has no /v1 suffix.
	ollamaBaseURL := strings.TrimSuffix(strings.TrimSuffix(baseURL, "/"), "/v1")
	parsedURL, err := url.Parse(ollamaBaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ollama base url '%s': %w", ollamaBaseURL, err)
	}
	return &ollamaClient{
		client: api.NewClient(parsedURL, httpClient),
		model:  modelName,
		logger: logger.Named("OllamaClient"),
	}, nil
}

func (c *ollamaClient) Complete(ctx context.Context, prompt string, params GenerationParams) (string, UsageInfo, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", UsageInfo{}, fmt.Errorf("%w: prompt is empty", model.ErrAIGenerationFailed)
	}

	stream := false
	req := &api.ChatRequest{
		Model:    c.model,
		Messages: []api.Message{{Role: "user", Content: prompt}},
		Stream:   &stream,
		Options:  map[string]interface{}{},
	}
	if params.Temperature != nil {
		req.Options["temperature"] = *params.Temperature
	}
	if params.MaxTokens != nil {
		req.Options["num_predict"] = *params.MaxTokens
	}
	if params.JSON {
		req.Format = json.RawMessage(`"json"`)
	}

	start := time.Now()
	var resp api.ChatResponse
	err := c.client.Chat(ctx, req, func(r api.ChatResponse) error {
		resp = r
		return nil
	})
	duration := time.Since(start)

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			c.logger.Warn("Ollama request timed out", zap.String("model", c.model), zap.Duration("duration", duration))
		} else {
			c.logger.Warn("Ollama request failed", zap.String("model", c.model), zap.Duration("duration", duration), zap.Error(err))
		}
		observeAIRequest(config.ProviderOllama, c.model, "error", duration, UsageInfo{})
		return "", UsageInfo{}, fmt.Errorf("%w: %w", model.ErrAIGenerationFailed, err)
	}
	if strings.TrimSpace(resp.Message.Content) == "" {
		observeAIRequest(config.ProviderOllama, c.model, "error_empty_response", duration, UsageInfo{})
		return "", UsageInfo{}, model.ErrEmptyResponse
	}

	usage := UsageInfo{
		PromptTokens:     resp.PromptEvalCount,
		CompletionTokens: resp.EvalCount,
		TotalTokens:      resp.PromptEvalCount + resp.EvalCount,
	}
	if usage.TotalTokens == 0 {
		usage = estimateUsage(c.model, prompt, resp.Message.Content)
	}
	observeAIRequest(config.ProviderOllama, c.model, "success", duration, usage)
	c.logger.Debug("Ollama response received",
		zap.String("model", c.model),
		zap.Duration("duration", duration),
		zap.Int("chars", len(resp.Message.Content)),
	)
	return resp.Message.Content, usage, nil
}
