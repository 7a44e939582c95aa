package storage

import (
	"context"

	"github.com/hmiyata/story-atlas/pkg/character"
	"github.com/hmiyata/story-atlas/pkg/worldmap"
)

// Storage persists one serialized blob per project for the world map system
// and one for the character location records. The store is treated as a
// synchronous local key-value store with last-write-wins semantics; callers
// read the whole structure, mutate in memory, and write it back.
type Storage interface {
	// Ping tests the store connection.
	Ping(ctx context.Context) error

	// Close closes the store connection.
	Close() error

	// SaveWorldMapSystem writes a project's geography blob.
	SaveWorldMapSystem(ctx context.Context, projectID string, system *worldmap.WorldMapSystem) error

	// LoadWorldMapSystem reads a project's geography blob.
	// Returns nil when none is stored or the stored blob is unreadable.
	LoadWorldMapSystem(ctx context.Context, projectID string) (*worldmap.WorldMapSystem, error)

	// SaveCharacterTracker writes a project's character location records.
	SaveCharacterTracker(ctx context.Context, projectID string, tracker *character.Tracker) error

	// LoadCharacterTracker reads a project's character location records.
	// Returns an empty tracker when none is stored.
	LoadCharacterTracker(ctx context.Context, projectID string) (*character.Tracker, error)
}
