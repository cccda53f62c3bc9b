package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	openaigo "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"lifelens/internal/config"
	"lifelens/internal/model"
)

// openAIClient talks to any OpenAI-compatible chat completions endpoint.
type openAIClient struct {
	client *openaigo.Client
	model  string
	logger *zap.Logger
}

func newOpenAIClient(apiKey, baseURL, modelName string, httpClient *http.Client, logger *zap.Logger) *openAIClient {
	openaiConfig := openaigo.DefaultConfig(apiKey)
	if baseURL != "" {
		openaiConfig.BaseURL = baseURL
	}
	openaiConfig.HTTPClient = httpClient
	return &openAIClient{
		client: openaigo.NewClientWithConfig(openaiConfig),
		model:  modelName,
		logger: logger.Named("OpenAIClient"),
	}
}

func (c *openAIClient) Complete(ctx context.Context, prompt string, params GenerationParams) (string, UsageInfo, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", UsageInfo{}, fmt.Errorf("%w: prompt is empty", model.ErrAIGenerationFailed)
	}

	req := openaigo.ChatCompletionRequest{
		Model: c.model,
		Messages: []openaigo.ChatCompletionMessage{
			{Role: openaigo.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: float32Val(params.Temperature),
		MaxTokens:   intVal(params.MaxTokens),
	}
	if params.JSON {
		req.ResponseFormat = &openaigo.ChatCompletionResponseFormat{Type: openaigo.ChatCompletionResponseFormatTypeJSONObject}
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, req)
	duration := time.Since(start)

	if err != nil {
		c.logger.Warn("OpenAI request failed", zap.String("model", c.model), zap.Duration("duration", duration), zap.Error(err))
		observeAIRequest(config.ProviderOpenAI, c.model, "error", duration, UsageInfo{})
		return "", UsageInfo{}, fmt.Errorf("%w: %w", model.ErrAIGenerationFailed, err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		observeAIRequest(config.ProviderOpenAI, c.model, "error_empty_response", duration, UsageInfo{})
		return "", UsageInfo{}, model.ErrEmptyResponse
	}

	text := resp.Choices[0].Message.Content
	usage := UsageInfo{
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}
	if usage.TotalTokens == 0 {
		usage = estimateUsage(c.model, prompt, text)
	}
	observeAIRequest(config.ProviderOpenAI, c.model, "success", duration, usage)
	c.logger.Debug("OpenAI response received",
		zap.String("model", c.model),
		zap.Duration("duration", duration),
		zap.Int("chars", len(text)),
		zap.Int("prompt_tokens", usage.PromptTokens),
		zap.Int("completion_tokens", usage.CompletionTokens),
	)
	return text, usage, nil
}
