package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/jwebster45206/great-transit/pkg/engine"
	"github.com/jwebster45206/great-transit/pkg/storage"
)

const createSnapshotsTable = `CREATE TABLE IF NOT EXISTS snapshots (
	id        TEXT PRIMARY KEY,
	saved_at  INTEGER NOT NULL,
	location  TEXT NOT NULL,
	game_time INTEGER NOT NULL,
	data      TEXT NOT NULL
)`

// SQLiteStorage keeps snapshots in a single local table.
type SQLiteStorage struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ storage.Storage = (*SQLiteStorage)(nil)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// OpenSQLite opens or creates the database at path.
func OpenSQLite(path string, logger *slog.Logger) (*SQLiteStorage, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(createSnapshotsTable); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create snapshots table: %w", err)
	}
	logger.Debug("SQLite storage opened", "path", path)
	return &SQLiteStorage{db: db, logger: logger}, nil
}

func (s *SQLiteStorage) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlite ping failed: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStorage) SaveSnapshot(ctx context.Context, snap engine.Snapshot) error {
	if snap.ID == uuid.Nil {
		return fmt.Errorf("snapshot id is required")
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO snapshots (id, saved_at, location, game_time, data)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   saved_at = excluded.saved_at,
		   location = excluded.location,
		   game_time = excluded.game_time,
		   data = excluded.data`,
		snap.ID.String(),
		toMillis(snap.SavedAt),
		snap.Game.Location,
		snap.Game.GameTime,
		string(data),
	)
	if err != nil {
		s.logger.Error("Failed to save snapshot", "session_id", snap.ID, "error", err)
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) LoadSnapshot(ctx context.Context, id uuid.UUID) (engine.Snapshot, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM snapshots WHERE id = ?`, id.String()).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return engine.Snapshot{}, storage.ErrNotFound
		}
		s.logger.Error("Failed to load snapshot", "session_id", id, "error", err)
		return engine.Snapshot{}, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var snap engine.Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return engine.Snapshot{}, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return snap, nil
}

func (s *SQLiteStorage) DeleteSnapshot(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?`, id.String()); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) ListSnapshots(ctx context.Context) ([]storage.Summary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, saved_at, location, game_time FROM snapshots ORDER BY saved_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var list []storage.Summary
	for rows.Next() {
		var (
			raw     string
			savedAt int64
			sum     storage.Summary
		)
		if err := rows.Scan(&raw, &savedAt, &sum.Location, &sum.GameTime); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			s.logger.Warn("Invalid snapshot id in table", "id", raw)
			continue
		}
		sum.ID = id
		sum.SavedAt = time.UnixMilli(savedAt).UTC()
		list = append(list, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	return list, nil
}
