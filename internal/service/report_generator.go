package service

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"lifelens/internal/config"
	"lifelens/internal/model"
	"lifelens/internal/schemas"
)

// ResultRecorder stores generation audit rows.
type ResultRecorder interface {
	Save(ctx context.Context, result *model.GenerationResult) error
}

// GeneratorConfig controls how ReportGenerator calls the text generator.
type GeneratorConfig struct {
	Provider       string
	Model          string
	Timeout        time.Duration
	MaxAttempts    int
	BaseRetryDelay time.Duration
	Params         GenerationParams
}

// GeneratorOption customizes a ReportGenerator.
type GeneratorOption func(*ReportGenerator)

// WithResultRecorder records a GenerationResult after every report.
func WithResultRecorder(r ResultRecorder) GeneratorOption {
	return func(g *ReportGenerator) { g.recorder = r }
}

// WithIDGenerator replaces the random report id source.
func WithIDGenerator(f func() string) GeneratorOption {
	return func(g *ReportGenerator) {
		if f != nil {
			g.newID = f
		}
	}
}

// ReportGenerator turns questionnaire answers into report records. It never
// fails: any provider or decoding problem degrades to fallback content.
type ReportGenerator struct {
	client   TextGenerator
	prompts  *PromptBuilder
	cfg      GeneratorConfig
	recorder ResultRecorder
	newID    func() string
	logger   *zap.Logger
}

// NewReportGenerator wires a generator. client may be nil, in which case every
// report uses fallback content.
func NewReportGenerator(client TextGenerator, prompts *PromptBuilder, cfg GeneratorConfig, logger *zap.Logger, opts ...GeneratorOption) *ReportGenerator {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if prompts == nil {
		// The embedded templates always parse.
		prompts, _ = NewPromptBuilder("", config.PromptStyleJSON)
	}
	g := &ReportGenerator{
		client:  client,
		prompts: prompts,
		cfg:     cfg,
		newID:   uuid.NewString,
		logger:  logger.Named("ReportGenerator"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate produces a report with a fresh identifier.
func (g *ReportGenerator) Generate(ctx context.Context, input model.UserInput, premium bool) model.ReportRecord {
	return g.GenerateWithID(ctx, g.newID(), input, premium)
}

// GenerateWithID produces a report under an existing identifier.
func (g *ReportGenerator) GenerateWithID(ctx context.Context, reportID string, input model.UserInput, premium bool) model.ReportRecord {
	start := time.Now()
	log := g.logger.With(zap.String("report_id", reportID), zap.Bool("premium", premium))

	result := &model.GenerationResult{
		ID:          uuid.New(),
		ReportID:    reportID,
		Premium:     premium,
		Provider:    g.cfg.Provider,
		Model:       g.cfg.Model,
		PromptStyle: g.prompts.Style(),
		CreatedAt:   start.UTC(),
	}

	raw, usage, attempts, err := g.complete(ctx, log, input, premium)
	result.Attempts = attempts
	result.PromptTokens = usage.PromptTokens
	result.CompletionTokens = usage.CompletionTokens

	var record model.ReportRecord
	switch {
	case err != nil:
		result.Source = model.SourceFallback
		result.FailureReason = failureReason(err)
		result.Error = err.Error()
		log.Warn("Text generation failed, using fallback content",
			zap.String("reason", result.FailureReason),
			zap.Int("attempts", attempts),
			zap.Error(err),
		)
		reportFallbacks.WithLabelValues(reportKind(premium), result.FailureReason).Inc()
		record = fallbackRecord(reportID, input, premium)
	case premium:
		var sections model.SectionDocument
		sections, result.Source = decodeSections(raw)
		record = model.NewPremiumRecord(reportID, input, sections)
	default:
		result.Source = model.SourceAIText
		record = model.NewFreeRecord(reportID, input, strings.TrimSpace(raw))
	}

	result.Duration = time.Since(start)
	reportsGenerated.WithLabelValues(reportKind(premium), result.Source).Inc()
	log.Info("Report generated",
		zap.String("source", result.Source),
		zap.Int("attempts", attempts),
		zap.Duration("duration", result.Duration),
	)
	g.record(ctx, log, result)
	return record
}

// decodeSections applies the section decoder to a premium response and
// stores the sections already resolved, so presentations show them as is.
// Keys still empty get the whole trimmed response.
func decodeSections(raw string) (model.SectionDocument, string) {
	trimmed := strings.TrimSpace(raw)
	parsed := schemas.ParseSections(raw)
	sections, source := parsed.Document, model.SourceAIStructured
	if !parsed.IsStructured() {
		sections, source = model.Uniform(trimmed), model.SourceAIUnstructured
	}
	if resolved, ok := schemas.ResolveDocument(sections); ok {
		sections, source = resolved, model.SourceAIStructured
	}
	sections.FillEmpty(trimmed)
	return sections, source
}

func fallbackRecord(reportID string, input model.UserInput, premium bool) model.ReportRecord {
	content := FallbackContent(input, premium)
	if premium {
		return model.NewPremiumRecord(reportID, input, model.Uniform(content))
	}
	return model.NewFreeRecord(reportID, input, content)
}

// complete renders the prompt and calls the generator with a per-attempt
// timeout and exponential backoff between attempts.
func (g *ReportGenerator) complete(ctx context.Context, log *zap.Logger, input model.UserInput, premium bool) (string, UsageInfo, int, error) {
	if g.client == nil {
		return "", UsageInfo{}, 0, model.ErrNoProvider
	}
	prompt, err := g.prompts.Build(input, premium)
	if err != nil {
		return "", UsageInfo{}, 0, err
	}

	params := g.cfg.Params
	params.JSON = premium && g.prompts.WantsJSON()

	var lastErr error
	attempt := 0
	for attempt < g.cfg.MaxAttempts {
		attempt++
		attemptCtx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
		text, usage, err := g.client.Complete(attemptCtx, prompt, params)
		cancel()
		if err == nil && strings.TrimSpace(text) == "" {
			err = model.ErrEmptyResponse
		}
		if err == nil {
			return text, usage, attempt, nil
		}
		lastErr = err
		log.Warn("Text generation attempt failed",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", g.cfg.MaxAttempts),
			zap.Error(err),
		)

		if attempt == g.cfg.MaxAttempts || ctx.Err() != nil {
			break
		}
		timer := time.NewTimer(g.backoff(attempt))
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return "", UsageInfo{}, attempt, lastErr
		}
	}
	return "", UsageInfo{}, attempt, lastErr
}

// backoff doubles the base delay per attempt with 10% jitter.
func (g *ReportGenerator) backoff(attempt int) time.Duration {
	delay := float64(g.cfg.BaseRetryDelay) * math.Pow(2, float64(attempt-1))
	jitter := delay * 0.1
	delay += jitter * (rand.Float64()*2 - 1)
	return time.Duration(delay)
}

func (g *ReportGenerator) record(ctx context.Context, log *zap.Logger, result *model.GenerationResult) {
	if g.recorder == nil {
		return
	}
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := g.recorder.Save(saveCtx, result); err != nil {
		log.Error("Failed to record generation result", zap.Error(err))
	}
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, model.ErrNoProvider):
		return "no_provider"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, model.ErrEmptyResponse):
		return "empty_response"
	default:
		return "error"
	}
}
