package cache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type entry struct {
	data      []byte
	expiresAt time.Time
}

// Memory is a process-local LRU cache with per-entry expiry.
type Memory struct {
	lruCache *lru.Cache[string, entry]
	now      func() time.Time
}

// NewMemory creates a cache holding at most size entries.
func NewMemory(size int) (*Memory, error) {
	l, err := lru.New[string, entry](size)
	if err != nil {
		return nil, err
	}
	return &Memory{lruCache: l, now: time.Now}, nil
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	val, ok := m.lruCache.Get(key)
	if !ok {
		return nil, false, nil
	}
	if m.now().After(val.expiresAt) {
		m.lruCache.Remove(key)
		return nil, false, nil
	}
	return val.data, true, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.lruCache.Add(key, entry{
		data:      value,
		expiresAt: m.now().Add(ttl),
	})
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.lruCache.Remove(key)
	return nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.lruCache.Purge()
	return nil
}
