// Package storage defines where session snapshots are kept between runs.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/great-transit/pkg/engine"
)

// ErrNotFound is returned when no snapshot exists for an ID.
var ErrNotFound = errors.New("snapshot not found")

// Summary describes a stored snapshot without decoding all of it.
type Summary struct {
	ID       uuid.UUID `json:"id"`
	SavedAt  time.Time `json:"saved_at"`
	Location string    `json:"location"`
	GameTime int64     `json:"game_time"`
}

// SummaryOf builds the listing entry for snap.
func SummaryOf(snap engine.Snapshot) Summary {
	return Summary{
		ID:       snap.ID,
		SavedAt:  snap.SavedAt,
		Location: snap.Game.Location,
		GameTime: snap.Game.GameTime,
	}
}

// Storage persists session snapshots.
type Storage interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	SaveSnapshot(ctx context.Context, snap engine.Snapshot) error
	LoadSnapshot(ctx context.Context, id uuid.UUID) (engine.Snapshot, error)
	DeleteSnapshot(ctx context.Context, id uuid.UUID) error

	// ListSnapshots returns summaries, most recently saved first.
	ListSnapshots(ctx context.Context) ([]Summary, error)
}

// Latest loads the most recently saved snapshot.
func Latest(ctx context.Context, s Storage) (engine.Snapshot, error) {
	list, err := s.ListSnapshots(ctx)
	if err != nil {
		return engine.Snapshot{}, err
	}
	if len(list) == 0 {
		return engine.Snapshot{}, ErrNotFound
	}
	return s.LoadSnapshot(ctx, list[0].ID)
}
