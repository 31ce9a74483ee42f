package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// MemoryStorage keeps snapshots in process memory.
type MemoryStorage struct {
	mu    sync.Mutex
	snaps map[string][]byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{snaps: make(map[string][]byte)}
}

func (s *MemoryStorage) Load(_ context.Context, key string) (*Snapshot, error) {
	s.mu.Lock()
	raw, ok := s.snaps[key]
	s.mu.Unlock()
	if !ok {
		return nil, nil
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return &snap, nil
}

func (s *MemoryStorage) Save(_ context.Context, key string, snap Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	s.mu.Lock()
	s.snaps[key] = raw
	s.mu.Unlock()
	return nil
}

func (s *MemoryStorage) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.snaps, key)
	s.mu.Unlock()
	return nil
}

// RedisStorage keeps snapshots in Redis. Keys carry a TTL a little longer
// than ExpiryWindow so Open still sees an expired snapshot and can raise the
// stale notice before Redis evicts it.
type RedisStorage struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisStorage(client *redis.Client) *RedisStorage {
	return &RedisStorage{client: client, prefix: "cart:", ttl: 2 * ExpiryWindow}
}

func (s *RedisStorage) Load(ctx context.Context, key string) (*Snapshot, error) {
	raw, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get cart: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return &snap, nil
}

func (s *RedisStorage) Save(ctx context.Context, key string, snap Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	return s.client.Set(ctx, s.prefix+key, raw, s.ttl).Err()
}

func (s *RedisStorage) Remove(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}
