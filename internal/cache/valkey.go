// Package cache provides the optional Valkey (Redis-compatible) layer: a
// cache for rendered listing fragments and one for synthesized speech.
// Every cache accepts a nil client and then behaves as a permanent miss,
// so the site runs unchanged without Valkey.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// ConnectValkey creates a Valkey client and verifies the connection with a ping.
func ConnectValkey(host, port, password string) (*redis.Client, error) {
	addr := fmt.Sprintf("%s:%s", host, port)
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("valkey ping: %w", err)
	}

	slog.Info("valkey connected", "addr", addr)
	return client, nil
}

// store wraps the get/set pair shared by the caches.
type store struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func (s store) get(ctx context.Context, key string) ([]byte, bool) {
	if s.client == nil {
		return nil, false
	}
	val, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("cache get error", "key", s.prefix+key, "error", err)
		return nil, false
	}
	slog.Debug("cache hit", "key", s.prefix+key)
	return val, true
}

func (s store) set(ctx context.Context, key string, val []byte) {
	if s.client == nil {
		return
	}
	if err := s.client.Set(ctx, s.prefix+key, val, s.ttl).Err(); err != nil {
		slog.Warn("cache set error", "key", s.prefix+key, "error", err)
	}
}

// clear removes every key under the prefix and returns how many were deleted.
func (s store) clear(ctx context.Context) int {
	if s.client == nil {
		return 0
	}
	var cursor uint64
	var deleted int
	for {
		keys, next, err := s.client.Scan(ctx, cursor, s.prefix+"*", 100).Result()
		if err != nil {
			slog.Warn("cache scan error", "prefix", s.prefix, "error", err)
			return deleted
		}
		if len(keys) > 0 {
			if err := s.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = next
		if cursor == 0 {
			return deleted
		}
	}
}
