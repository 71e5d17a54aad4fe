package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fireplay/fireplay-backend/pkg/redis"
)

type redisKV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	LocalCartKey(deviceID string) string
}

// RedisLocalStore keeps a device's cart as a JSON array under fp:cart:local:<deviceID>.
type RedisLocalStore struct {
	kv  redisKV
	key string
	ttl time.Duration
}

func NewRedisLocalStore(kv redisKV, deviceID string, ttl time.Duration) (*RedisLocalStore, error) {
	if kv == nil {
		return nil, errors.New("redis client is required")
	}
	if strings.TrimSpace(deviceID) == "" {
		return nil, errors.New("device id is required")
	}
	return &RedisLocalStore{kv: kv, key: kv.LocalCartKey(deviceID), ttl: ttl}, nil
}

// RedisLocalStores returns a factory of per-device Redis stores sharing one client.
func RedisLocalStores(kv redisKV, ttl time.Duration) LocalStoreFactory {
	return func(deviceID string) LocalStore {
		store, err := NewRedisLocalStore(kv, deviceID, ttl)
		if err != nil {
			return nil
		}
		return store
	}
}

func (s *RedisLocalStore) Load(ctx context.Context) ([]Line, error) {
	raw, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if redis.IsMissing(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading local cart: %w", err)
	}
	return DecodeLines([]byte(raw))
}

func (s *RedisLocalStore) Save(ctx context.Context, lines []Line) error {
	payload, err := EncodeLines(lines)
	if err != nil {
		return fmt.Errorf("encoding local cart: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, string(payload), s.ttl); err != nil {
		return fmt.Errorf("writing local cart: %w", err)
	}
	return nil
}

func (s *RedisLocalStore) Delete(ctx context.Context) error {
	if err := s.kv.Del(ctx, s.key); err != nil {
		return fmt.Errorf("deleting local cart: %w", err)
	}
	return nil
}
