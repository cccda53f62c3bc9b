package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"lifelens/internal/model"
	"lifelens/internal/service"
)

var _ service.ReportRepository = (*redisReportRepository)(nil)

const reportKeyPrefix = "report:"

type redisReportRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisReportRepository stores report records as JSON under report:<id>.
func NewRedisReportRepository(client *redis.Client, logger *zap.Logger) service.ReportRepository {
	return &redisReportRepository{
		client: client,
		logger: logger.Named("RedisReportRepo"),
	}
}

func reportKey(reportID string) string {
	return reportKeyPrefix + reportID
}

// Save overwrites the record and resets its expiry. A zero ttl keeps it forever.
func (r *redisReportRepository) Save(ctx context.Context, report model.ReportRecord, ttl time.Duration) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("%w: failed to encode report %s: %w", model.ErrStorage, report.ReportID, err)
	}
	if err := r.client.Set(ctx, reportKey(report.ReportID), data, ttl).Err(); err != nil {
		r.logger.Error("Failed to save report", zap.String("report_id", report.ReportID), zap.Error(err))
		return fmt.Errorf("%w: %w", model.ErrStorage, err)
	}
	r.logger.Debug("Report saved",
		zap.String("report_id", report.ReportID),
		zap.Bool("premium", report.IsPremium),
		zap.Duration("ttl", ttl),
	)
	return nil
}

func (r *redisReportRepository) Get(ctx context.Context, reportID string) (model.ReportRecord, error) {
	data, err := r.client.Get(ctx, reportKey(reportID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.ReportRecord{}, model.ErrReportNotFound
		}
		r.logger.Error("Failed to load report", zap.String("report_id", reportID), zap.Error(err))
		return model.ReportRecord{}, fmt.Errorf("%w: %w", model.ErrStorage, err)
	}

	var report model.ReportRecord
	if err := json.Unmarshal(data, &report); err != nil {
		r.logger.Error("Stored report is not valid JSON", zap.String("report_id", reportID), zap.Error(err))
		return model.ReportRecord{}, fmt.Errorf("%w: failed to decode report %s: %w", model.ErrStorage, reportID, err)
	}
	return report, nil
}
