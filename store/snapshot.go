package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/thullagame/thulla/game"
)

// SnapshotStore persists room state for crash recovery. A room is fully
// reconstructible from its last snapshot plus subsequent validated events.
type SnapshotStore interface {
	Save(ctx context.Context, roomID string, snap game.Snapshot) error
	// Load returns nil with no error when the room has no snapshot.
	Load(ctx context.Context, roomID string) (*game.Snapshot, error)
	Delete(ctx context.Context, roomID string) error
}

// RedisStore keeps JSON-encoded snapshots in Redis with a TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed snapshot store.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) key(roomID string) string {
	return fmt.Sprintf("room:%s", roomID)
}

func (s *RedisStore) Save(ctx context.Context, roomID string, snap game.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(roomID), data, s.ttl).Err()
}

func (s *RedisStore) Load(ctx context.Context, roomID string) (*game.Snapshot, error) {
	data, err := s.client.Get(ctx, s.key(roomID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var snap game.Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (s *RedisStore) Delete(ctx context.Context, roomID string) error {
	return s.client.Del(ctx, s.key(roomID)).Err()
}
