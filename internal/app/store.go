package app

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/TWRT/teamwork-tasks/internal/config"
	"github.com/TWRT/teamwork-tasks/internal/repository"
	"github.com/TWRT/teamwork-tasks/internal/service"
)

// OpenStore connects the configured snapshot backend. The returned close
// function releases the underlying connection.
func OpenStore(ctx context.Context, cfg config.StoreConfig, logger zerolog.Logger) (service.Store, func() error, error) {
	switch cfg.Driver {
	case config.StoreDriverSQLite:
		db, err := repository.InitDB(cfg.SQLitePath)
		if err != nil {
			logger.Error().
				Err(err).
				Str("path", cfg.SQLitePath).
				Msg("failed to open sqlite store")
			return nil, nil, err
		}
		logger.Info().
			Str("path", cfg.SQLitePath).
			Msg("opened sqlite store")
		return repository.NewSQLiteStore(db, logger), db.Close, nil

	case config.StoreDriverRedis:
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("parse redis url: %w", err)
		}
		rc := redis.NewClient(opts)
		if err := rc.Ping(ctx).Err(); err != nil {
			_ = rc.Close()
			logger.Error().
				Err(err).
				Str("addr", opts.Addr).
				Msg("failed to connect redis store")
			return nil, nil, fmt.Errorf("ping redis: %w", err)
		}
		logger.Info().
			Str("addr", opts.Addr).
			Str("prefix", cfg.RedisKeyPrefix).
			Msg("opened redis store")
		return repository.NewRedisStore(rc, cfg.RedisKeyPrefix, logger), rc.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver: %s", cfg.Driver)
	}
}
