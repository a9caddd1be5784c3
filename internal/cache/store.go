// Package cache keeps rendered-page data for a fixed time window. Entries are
// never invalidated by writes; they only expire or get cleared.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
	"yatube/internal/metrics"
)

// IndexPagePrefix namespaces home-page entries.
const IndexPagePrefix = "index_page"

// Store is a byte-oriented key-value cache with per-entry TTL.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// Clear drops every entry owned by the store.
	Clear(ctx context.Context) error
}

// IndexPageKey builds the cache key for one page of the home feed.
func IndexPageKey(rawPage string) string {
	if rawPage == "" {
		rawPage = "1"
	}
	return fmt.Sprintf("%s:page:%s", IndexPagePrefix, rawPage)
}

// GetJSON loads key into dest. Returns (true, nil) on a hit.
func GetJSON(ctx context.Context, s Store, key string, dest any) (bool, error) {
	data, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		metrics.CacheMisses.Inc()
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		metrics.CacheMisses.Inc()
		return false, err
	}
	metrics.CacheHits.Inc()
	return true, nil
}

// SetJSON marshals v and stores it for ttl.
func SetJSON(ctx context.Context, s Store, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Set(ctx, key, data, ttl)
}
