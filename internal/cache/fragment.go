// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	fragmentKeyPrefix = "fragment:"

	// DefaultFragmentTTL is how long a rendered listing stays cached.
	// Listings are derived from the page number alone, so the TTL only
	// bounds memory, never staleness.
	DefaultFragmentTTL = time.Hour
)

// FragmentCache stores rendered listing grids in Valkey.
type FragmentCache struct {
	store store
}

// NewFragmentCache creates a fragment cache. A nil client disables it.
func NewFragmentCache(client *redis.Client, ttl time.Duration) *FragmentCache {
	if ttl == 0 {
		ttl = DefaultFragmentTTL
	}
	return &FragmentCache{store: store{client: client, prefix: fragmentKeyPrefix, ttl: ttl}}
}

// FragmentKey names the grid of one list page. category is empty for lists
// without a filter.
func FragmentKey(list string, page int, category string) string {
	if category == "" {
		return fmt.Sprintf("%s:%d", list, page)
	}
	return fmt.Sprintf("%s:%d:%s", list, page, category)
}

// Get returns a cached fragment.
func (fc *FragmentCache) Get(ctx context.Context, key string) ([]byte, bool) {
	return fc.store.get(ctx, key)
}

// Set stores a fragment with the configured TTL.
func (fc *FragmentCache) Set(ctx context.Context, key string, html []byte) {
	fc.store.set(ctx, key, html)
}

// GetOrRender returns the cached fragment for key or renders, stores and
// returns it. Render errors are returned and nothing is stored.
func (fc *FragmentCache) GetOrRender(ctx context.Context, key string, render func() ([]byte, error)) ([]byte, error) {
	if html, ok := fc.Get(ctx, key); ok {
		return html, nil
	}
	html, err := render()
	if err != nil {
		return nil, err
	}
	fc.Set(ctx, key, html)
	return html, nil
}

// InvalidateAll removes every cached fragment. Used at startup, since a
// new build may render the same pages differently.
func (fc *FragmentCache) InvalidateAll(ctx context.Context) {
	if n := fc.store.clear(ctx); n > 0 {
		slog.Info("fragment cache cleared", "deleted", n)
	}
}
