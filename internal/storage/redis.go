package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/hmiyata/story-atlas/pkg/character"
	"github.com/hmiyata/story-atlas/pkg/worldmap"
)

// RedisStorage implements Storage on Redis, one JSON blob per key.
type RedisStorage struct {
	client *redis.Client
	logger *slog.Logger
}

// Ensure RedisStorage implements Storage interface
var _ Storage = (*RedisStorage)(nil)

// NewRedisStorage creates a new Redis storage instance.
func NewRedisStorage(redisAddr string, logger *slog.Logger) *RedisStorage {
	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})
	return &RedisStorage{
		client: rdb,
		logger: logger,
	}
}

func worldMapKey(projectID string) string {
	return "worldmap:" + projectID
}

func charactersKey(projectID string) string {
	return "characters:" + projectID
}

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

func (r *RedisStorage) SaveWorldMapSystem(ctx context.Context, projectID string, system *worldmap.WorldMapSystem) error {
	data, err := json.Marshal(system)
	if err != nil {
		r.logger.Error("Failed to marshal world map system", "project", projectID, "error", err)
		return fmt.Errorf("failed to marshal world map system: %w", err)
	}

	if err := r.client.Set(ctx, worldMapKey(projectID), string(data), 0).Err(); err != nil {
		r.logger.Error("Failed to save world map system", "project", projectID, "error", err)
		return fmt.Errorf("failed to save world map system: %w", err)
	}
	return nil
}

// LoadWorldMapSystem reads the geography blob. A missing key returns nil. A
// corrupt blob is logged and also returns nil, so callers fall back to
// permissive validation instead of blocking all narrative generation.
func (r *RedisStorage) LoadWorldMapSystem(ctx context.Context, projectID string) (*worldmap.WorldMapSystem, error) {
	data, err := r.client.Get(ctx, worldMapKey(projectID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		r.logger.Error("Failed to load world map system", "project", projectID, "error", err)
		return nil, fmt.Errorf("failed to load world map system: %w", err)
	}

	var system worldmap.WorldMapSystem
	if err := json.Unmarshal([]byte(data), &system); err != nil {
		r.logger.Error("Stored world map blob is unreadable, treating as unconfigured", "project", projectID, "error", err)
		return nil, nil
	}
	return &system, nil
}

func (r *RedisStorage) SaveCharacterTracker(ctx context.Context, projectID string, tracker *character.Tracker) error {
	data, err := json.Marshal(tracker)
	if err != nil {
		r.logger.Error("Failed to marshal character tracker", "project", projectID, "error", err)
		return fmt.Errorf("failed to marshal character tracker: %w", err)
	}

	if err := r.client.Set(ctx, charactersKey(projectID), string(data), 0).Err(); err != nil {
		r.logger.Error("Failed to save character tracker", "project", projectID, "error", err)
		return fmt.Errorf("failed to save character tracker: %w", err)
	}
	return nil
}

func (r *RedisStorage) LoadCharacterTracker(ctx context.Context, projectID string) (*character.Tracker, error) {
	data, err := r.client.Get(ctx, charactersKey(projectID)).Result()
	if err != nil {
		if err == redis.Nil {
			return character.NewTracker(), nil
		}
		r.logger.Error("Failed to load character tracker", "project", projectID, "error", err)
		return nil, fmt.Errorf("failed to load character tracker: %w", err)
	}

	var tracker character.Tracker
	if err := json.Unmarshal([]byte(data), &tracker); err != nil {
		r.logger.Error("Stored character tracker blob is unreadable, starting fresh", "project", projectID, "error", err)
		return character.NewTracker(), nil
	}
	if tracker.Records == nil {
		tracker.Records = make(map[string]*character.CharacterLocation)
	}
	return &tracker, nil
}
