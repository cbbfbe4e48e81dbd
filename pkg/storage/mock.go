package storage

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/jwebster45206/great-transit/pkg/engine"
)

// MockStorage keeps snapshots in memory. It backs tests and STORE=none.
type MockStorage struct {
	mu        sync.RWMutex
	snapshots map[uuid.UUID]engine.Snapshot
	pingError error
}

// Ensure MockStorage implements Storage interface
var _ Storage = (*MockStorage)(nil)

func NewMockStorage() *MockStorage {
	return &MockStorage{
		snapshots: make(map[uuid.UUID]engine.Snapshot),
	}
}

// SetPingError configures the mock to fail on ping with the given error
func (m *MockStorage) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

func (m *MockStorage) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

func (m *MockStorage) Close() error {
	return nil
}

func (m *MockStorage) SaveSnapshot(ctx context.Context, snap engine.Snapshot) error {
	if snap.ID == uuid.Nil {
		return errors.New("snapshot id cannot be nil")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	snap.Game = snap.Game.Clone()
	m.snapshots[snap.ID] = snap
	return nil
}

func (m *MockStorage) LoadSnapshot(ctx context.Context, id uuid.UUID) (engine.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap, ok := m.snapshots[id]
	if !ok {
		return engine.Snapshot{}, ErrNotFound
	}
	snap.Game = snap.Game.Clone()
	return snap, nil
}

func (m *MockStorage) DeleteSnapshot(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snapshots, id)
	return nil
}

func (m *MockStorage) ListSnapshots(ctx context.Context) ([]Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	list := make([]Summary, 0, len(m.snapshots))
	for _, snap := range m.snapshots {
		list = append(list, SummaryOf(snap))
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].SavedAt.After(list[j].SavedAt)
	})
	return list, nil
}
