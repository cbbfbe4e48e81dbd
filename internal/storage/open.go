// Package storage holds the snapshot backends selected by configuration.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jwebster45206/great-transit/internal/config"
	"github.com/jwebster45206/great-transit/pkg/storage"
)

// Open returns the backend named by cfg.Store. STORE=none keeps snapshots
// in memory for the life of the process.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.Storage, error) {
	switch cfg.Store {
	case config.StoreRedis:
		client, err := NewRedisClient(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		rs := NewRedisStorage(client, cfg.SnapshotTTL, logger)
		if err := rs.WaitForConnection(ctx, 5, time.Second); err != nil {
			_ = rs.Close()
			return nil, err
		}
		return rs, nil
	case config.StoreSQLite:
		return OpenSQLite(cfg.SQLitePath, logger)
	case config.StoreNone, "":
		return storage.NewMockStorage(), nil
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}
