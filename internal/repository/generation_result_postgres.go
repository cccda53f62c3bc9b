package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"lifelens/internal/model"
	"lifelens/internal/service"
)

var _ service.ResultRecorder = (*PgGenerationResultRepository)(nil)

const (
	saveGenerationResultQuery = `
		INSERT INTO generation_results (
			id, report_id, premium, provider, model, prompt_style, source,
			attempts, failure_reason, error, prompt_tokens, completion_tokens,
			duration_ms, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO NOTHING
	`
	listGenerationResultsByReportQuery = `
		SELECT
			id, report_id, premium, provider, model, prompt_style, source,
			attempts, failure_reason, error, prompt_tokens, completion_tokens,
			duration_ms, created_at
		FROM generation_results
		WHERE report_id = $1
		ORDER BY created_at ASC
	`
)

// PgGenerationResultRepository keeps the generation audit trail in Postgres.
type PgGenerationResultRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPgGenerationResultRepository(pool *pgxpool.Pool, logger *zap.Logger) *PgGenerationResultRepository {
	return &PgGenerationResultRepository{
		pool:   pool,
		logger: logger.Named("PgGenerationResultRepo"),
	}
}

// Save inserts one audit row. Saving the same id twice is a no-op.
func (r *PgGenerationResultRepository) Save(ctx context.Context, result *model.GenerationResult) error {
	tag, err := r.pool.Exec(ctx, saveGenerationResultQuery,
		result.ID,
		result.ReportID,
		result.Premium,
		result.Provider,
		result.Model,
		result.PromptStyle,
		result.Source,
		result.Attempts,
		result.FailureReason,
		result.Error,
		result.PromptTokens,
		result.CompletionTokens,
		result.Duration.Milliseconds(),
		result.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to save GenerationResult",
			zap.String("report_id", result.ReportID),
			zap.Error(err),
		)
		return fmt.Errorf("%w: error saving generation result: %w", model.ErrStorage, err)
	}
	r.logger.Debug("GenerationResult saved", zap.String("report_id", result.ReportID), zap.Int64("rows_affected", tag.RowsAffected()))
	return nil
}

// generationResultRow is the scan target of generation_results.
type generationResultRow struct {
	ID               uuid.UUID `db:"id"`
	ReportID         string    `db:"report_id"`
	Premium          bool      `db:"premium"`
	Provider         string    `db:"provider"`
	Model            string    `db:"model"`
	PromptStyle      string    `db:"prompt_style"`
	Source           string    `db:"source"`
	Attempts         int       `db:"attempts"`
	FailureReason    string    `db:"failure_reason"`
	Error            string    `db:"error"`
	PromptTokens     int       `db:"prompt_tokens"`
	CompletionTokens int       `db:"completion_tokens"`
	DurationMs       int64     `db:"duration_ms"`
	CreatedAt        time.Time `db:"created_at"`
}

func (row generationResultRow) toModel() *model.GenerationResult {
	return &model.GenerationResult{
		ID:               row.ID,
		ReportID:         row.ReportID,
		Premium:          row.Premium,
		Provider:         row.Provider,
		Model:            row.Model,
		PromptStyle:      row.PromptStyle,
		Source:           row.Source,
		Attempts:         row.Attempts,
		FailureReason:    row.FailureReason,
		Error:            row.Error,
		PromptTokens:     row.PromptTokens,
		CompletionTokens: row.CompletionTokens,
		Duration:         time.Duration(row.DurationMs) * time.Millisecond,
		CreatedAt:        row.CreatedAt,
	}
}

// ListByReportID returns every audit row of a report, oldest first.
func (r *PgGenerationResultRepository) ListByReportID(ctx context.Context, reportID string) ([]*model.GenerationResult, error) {
	var rows []generationResultRow
	if err := pgxscan.Select(ctx, r.pool, &rows, listGenerationResultsByReportQuery, reportID); err != nil {
		r.logger.Error("Failed to list GenerationResults", zap.String("report_id", reportID), zap.Error(err))
		return nil, fmt.Errorf("%w: error listing generation results: %w", model.ErrStorage, err)
	}

	results := make([]*model.GenerationResult, 0, len(rows))
	for _, row := range rows {
		results = append(results, row.toModel())
	}
	return results, nil
}
