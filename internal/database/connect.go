package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"lifelens/internal/config"
)

const (
	connectAttempts = 5
	connectDelay    = 2 * time.Second
)

// ConnectRedis opens the report store client, retrying the initial ping.
func ConnectRedis(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	var err error
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = client.Ping(pingCtx).Err()
		cancel()
		if err == nil {
			logger.Info("Connected to Redis", zap.String("addr", cfg.RedisAddr), zap.Int("db", cfg.RedisDB))
			return client, nil
		}
		logger.Warn("Redis not reachable, retrying",
			zap.String("addr", cfg.RedisAddr),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		if !sleep(ctx, connectDelay) {
			break
		}
	}
	_ = client.Close()
	return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
}

// ConnectPostgres opens the audit database pool, retrying the initial ping.
func ConnectPostgres(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database DSN: %w", err)
	}
	poolConfig.MaxConns = int32(cfg.DBMaxConns)
	poolConfig.MaxConnIdleTime = cfg.DBIdleTimeout

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	for attempt := 1; attempt <= connectAttempts; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = pool.Ping(pingCtx)
		cancel()
		if err == nil {
			logger.Info("Connected to PostgreSQL", zap.String("host", cfg.DBHost), zap.String("db", cfg.DBName))
			return pool, nil
		}
		logger.Warn("PostgreSQL not reachable, retrying",
			zap.String("host", cfg.DBHost),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		if !sleep(ctx, connectDelay) {
			break
		}
	}
	pool.Close()
	return nil, fmt.Errorf("failed to connect to postgres at %s: %w", cfg.DBHost, err)
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
