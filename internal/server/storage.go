package server

import (
	"context"
	"fmt"
	"time"

	"event-storefront/internal/config"
	"event-storefront/internal/database"
	"event-storefront/internal/storage"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// OpenStore opens the key-value backend named by cfg.Driver. The returned
// close function releases it.
func OpenStore(ctx context.Context, cfg config.StorageConfig, logger *logrus.Logger) (storage.KeyValueStore, func() error, error) {
	switch cfg.Driver {
	case "", "memory":
		logger.Info("storage: using in-memory device storage")
		return storage.NewMemoryStore(), func() error { return nil }, nil

	case "sqlite":
		db, err := database.NewConnection(database.Config{Path: cfg.SQLitePath}, logger)
		if err != nil {
			return nil, nil, err
		}
		if err := db.RunMigrations(); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to migrate %s: %w", cfg.SQLitePath, err)
		}
		logger.WithField("path", cfg.SQLitePath).Info("storage: using sqlite device storage")
		return storage.NewSQLStore(db.DB), db.Close, nil

	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("failed to reach redis at %s: %w", cfg.Redis.Addr, err)
		}
		logger.WithField("addr", cfg.Redis.Addr).Info("storage: using redis device storage")
		return storage.NewRedisStore(client, cfg.TTL), client.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}
