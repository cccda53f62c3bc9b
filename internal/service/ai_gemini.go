package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"lifelens/internal/config"
	"lifelens/internal/model"
)

// geminiClient calls the Gemini API through the Google GenAI SDK.
type geminiClient struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

func newGeminiClient(ctx context.Context, apiKey, baseURL, modelName string, httpClient *http.Client, logger *zap.Logger) (*geminiClient, error) {
	cc := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &geminiClient{client: client, model: modelName, logger: logger.Named("GeminiClient")}, nil
}

func (c *geminiClient) Complete(ctx context.Context, prompt string, params GenerationParams) (string, UsageInfo, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", UsageInfo{}, fmt.Errorf("%w: prompt is empty", model.ErrAIGenerationFailed)
	}

	genCfg := &genai.GenerateContentConfig{}
	if params.Temperature != nil {
		t := float32(*params.Temperature)
		genCfg.Temperature = &t
	}
	if params.MaxTokens != nil {
		genCfg.MaxOutputTokens = int32(*params.MaxTokens)
	}
	if params.JSON {
		genCfg.ResponseMIMEType = "application/json"
	}

	start := time.Now()
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), genCfg)
	duration := time.Since(start)

	if err != nil {
		c.logger.Warn("Gemini request failed", zap.String("model", c.model), zap.Duration("duration", duration), zap.Error(err))
		observeAIRequest(config.ProviderGemini, c.model, "error", duration, UsageInfo{})
		return "", UsageInfo{}, fmt.Errorf("%w: %w", model.ErrAIGenerationFailed, err)
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		observeAIRequest(config.ProviderGemini, c.model, "error_empty_response", duration, UsageInfo{})
		return "", UsageInfo{}, model.ErrEmptyResponse
	}

	var usage UsageInfo
	if md := resp.UsageMetadata; md != nil {
		usage = UsageInfo{
			PromptTokens:     int(md.PromptTokenCount),
			CompletionTokens: int(md.CandidatesTokenCount),
			TotalTokens:      int(md.TotalTokenCount),
		}
	}
	if usage.TotalTokens == 0 {
		usage = estimateUsage(c.model, prompt, text)
	}
	observeAIRequest(config.ProviderGemini, c.model, "success", duration, usage)
	c.logger.Debug("Gemini response received",
		zap.String("model", c.model),
		zap.Duration("duration", duration),
		zap.Int("chars", len(text)),
	)
	return text, usage, nil
}
