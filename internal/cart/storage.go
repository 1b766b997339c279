package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	redispkg "github.com/metapharm/metapharm-backend/pkg/redis"
)

type cartKV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartKey(token string) string
}

// RedisStorage persists each cart as one JSON document under a namespaced key.
type RedisStorage struct {
	client cartKV
	ttl    time.Duration
}

// NewRedisStorage builds cart storage on top of the shared redis client.
func NewRedisStorage(client *redispkg.Client, ttl time.Duration) (*RedisStorage, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &RedisStorage{client: client, ttl: ttl}, nil
}

func (s *RedisStorage) Load(ctx context.Context, key string) ([]Item, error) {
	raw, err := s.client.Get(ctx, s.client.CartKey(key))
	if err != nil {
		if redispkg.IsNil(err) {
			return []Item{}, nil
		}
		return nil, fmt.Errorf("loading cart: %w", err)
	}

	var items []Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("decoding cart: %w", err)
	}
	return items, nil
}

func (s *RedisStorage) Save(ctx context.Context, key string, items []Item) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encoding cart: %w", err)
	}
	if err := s.client.Set(ctx, s.client.CartKey(key), string(payload), s.ttl); err != nil {
		return fmt.Errorf("saving cart: %w", err)
	}
	return nil
}

func (s *RedisStorage) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.client.CartKey(key)); err != nil {
		return fmt.Errorf("deleting cart: %w", err)
	}
	return nil
}

// MemoryStorage keeps carts in a process-local map. Test and dev use only.
type MemoryStorage struct {
	mu    sync.RWMutex
	carts map[string][]Item
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{carts: make(map[string][]Item)}
}

func (s *MemoryStorage) Load(_ context.Context, key string) ([]Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items, ok := s.carts[key]
	if !ok {
		return []Item{}, nil
	}
	copied := make([]Item, len(items))
	copy(copied, items)
	return copied, nil
}

func (s *MemoryStorage) Save(_ context.Context, key string, items []Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make([]Item, len(items))
	copy(copied, items)
	s.carts[key] = copied
	return nil
}

func (s *MemoryStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, key)
	return nil
}
