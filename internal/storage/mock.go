package storage

import (
	"context"
	"sync"

	"github.com/hmiyata/story-atlas/pkg/character"
	"github.com/hmiyata/story-atlas/pkg/worldmap"
)

// MockStorage is an in-memory Storage for tests.
type MockStorage struct {
	mu       sync.Mutex
	systems  map[string]*worldmap.WorldMapSystem
	trackers map[string]*character.Tracker

	PingErr error
}

var _ Storage = (*MockStorage)(nil)

func NewMockStorage() *MockStorage {
	return &MockStorage{
		systems:  make(map[string]*worldmap.WorldMapSystem),
		trackers: make(map[string]*character.Tracker),
	}
}

func (m *MockStorage) Ping(ctx context.Context) error { return m.PingErr }

func (m *MockStorage) Close() error { return nil }

func (m *MockStorage) SaveWorldMapSystem(ctx context.Context, projectID string, system *worldmap.WorldMapSystem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.systems[projectID] = system
	return nil
}

func (m *MockStorage) LoadWorldMapSystem(ctx context.Context, projectID string) (*worldmap.WorldMapSystem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.systems[projectID], nil
}

func (m *MockStorage) SaveCharacterTracker(ctx context.Context, projectID string, tracker *character.Tracker) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trackers[projectID] = tracker
	return nil
}

func (m *MockStorage) LoadCharacterTracker(ctx context.Context, projectID string) (*character.Tracker, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.trackers[projectID]; ok {
		return t, nil
	}
	return character.NewTracker(), nil
}
