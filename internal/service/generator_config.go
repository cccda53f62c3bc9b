package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"lifelens/internal/config"
)

// NewReportGeneratorFromConfig builds the text generator, prompts and
// generator settings selected by cfg.
func NewReportGeneratorFromConfig(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts ...GeneratorOption) (*ReportGenerator, error) {
	client, err := NewTextGenerator(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	prompts, err := NewPromptBuilder(cfg.PromptsDir, cfg.PromptStyle)
	if err != nil {
		return nil, fmt.Errorf("failed to load prompts: %w", err)
	}

	params := GenerationParams{}
	if cfg.AITemperature > 0 {
		temperature := cfg.AITemperature
		params.Temperature = &temperature
	}
	if cfg.AIMaxTokens > 0 {
		maxTokens := cfg.AIMaxTokens
		params.MaxTokens = &maxTokens
	}

	genCfg := GeneratorConfig{
		Provider:       cfg.AIProvider,
		Model:          cfg.AIModel,
		Timeout:        cfg.AITimeout,
		MaxAttempts:    cfg.AIMaxAttempts,
		BaseRetryDelay: cfg.AIBaseRetryDelay,
		Params:         params,
	}
	return NewReportGenerator(client, prompts, genCfg, logger, opts...), nil
}
