package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/great-transit/pkg/engine"
	"github.com/jwebster45206/great-transit/pkg/storage"
)

const (
	snapshotPrefix = "snapshot:"
	// snapshotIndex is a sorted set of snapshot IDs scored by save time.
	snapshotIndex = "snapshots"
)

// RedisStorage keeps snapshots as JSON strings with an optional TTL.
type RedisStorage struct {
	client *redis.Client
	logger *slog.Logger
	ttl    time.Duration
}

// Ensure RedisStorage implements Storage interface
var _ storage.Storage = (*RedisStorage)(nil)

// NewRedisClient accepts either a redis:// URL or a bare host:port.
func NewRedisClient(redisURL string) (*redis.Client, error) {
	if strings.Contains(redisURL, "://") {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse redis url: %w", err)
		}
		return redis.NewClient(opts), nil
	}
	return redis.NewClient(&redis.Options{Addr: redisURL}), nil
}

// NewRedisStorage wraps an existing client. A zero ttl keeps snapshots forever.
func NewRedisStorage(client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisStorage {
	return &RedisStorage{
		client: client,
		logger: logger,
		ttl:    ttl,
	}
}

func snapshotKey(id uuid.UUID) string {
	return snapshotPrefix + id.String()
}

// Health and lifecycle methods

func (r *RedisStorage) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStorage) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available (used during startup)
func (r *RedisStorage) WaitForConnection(ctx context.Context, maxRetries int, retryDelay time.Duration) error {
	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

// Snapshot operations

func (r *RedisStorage) SaveSnapshot(ctx context.Context, snap engine.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		r.logger.Error("Failed to marshal snapshot", "session_id", snap.ID, "error", err)
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, snapshotKey(snap.ID), data, r.ttl)
		pipe.ZAdd(ctx, snapshotIndex, redis.Z{
			Score:  float64(snap.SavedAt.UnixMilli()),
			Member: snap.ID.String(),
		})
		return nil
	})
	if err != nil {
		r.logger.Error("Failed to save snapshot", "session_id", snap.ID, "error", err)
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	r.logger.Debug("Snapshot saved", "session_id", snap.ID, "bytes", len(data))
	return nil
}

func (r *RedisStorage) LoadSnapshot(ctx context.Context, id uuid.UUID) (engine.Snapshot, error) {
	data, err := r.client.Get(ctx, snapshotKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			r.logger.Warn("Snapshot not found", "session_id", id)
			return engine.Snapshot{}, storage.ErrNotFound
		}
		r.logger.Error("Failed to load snapshot", "session_id", id, "error", err)
		return engine.Snapshot{}, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var snap engine.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		r.logger.Error("Failed to unmarshal snapshot", "session_id", id, "error", err)
		return engine.Snapshot{}, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return snap, nil
}

func (r *RedisStorage) DeleteSnapshot(ctx context.Context, id uuid.UUID) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, snapshotKey(id))
		pipe.ZRem(ctx, snapshotIndex, id.String())
		return nil
	})
	if err != nil {
		r.logger.Error("Failed to delete snapshot", "session_id", id, "error", err)
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}

// ListSnapshots walks the index newest first. Entries whose snapshot has
// expired are dropped from the index as they are found.
func (r *RedisStorage) ListSnapshots(ctx context.Context) ([]storage.Summary, error) {
	ids, err := r.client.ZRevRange(ctx, snapshotIndex, 0, -1).Result()
	if err != nil {
		r.logger.Error("Failed to read snapshot index", "error", err)
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}

	list := make([]storage.Summary, 0, len(ids))
	for _, raw := range ids {
		id, err := uuid.Parse(raw)
		if err != nil {
			r.logger.Warn("Invalid snapshot id in index", "member", raw)
			r.client.ZRem(ctx, snapshotIndex, raw)
			continue
		}
		snap, err := r.LoadSnapshot(ctx, id)
		if errors.Is(err, storage.ErrNotFound) {
			r.client.ZRem(ctx, snapshotIndex, raw)
			continue
		}
		if err != nil {
			return nil, err
		}
		list = append(list, storage.SummaryOf(snap))
	}
	return list, nil
}
