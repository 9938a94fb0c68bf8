package session

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// Backend persists string values per device. Missing keys report ok == false, not an error.
type Backend interface {
	Get(ctx context.Context, deviceID, key string) (value string, ok bool, err error)
	Set(ctx context.Context, deviceID, key, value string) error
	Delete(ctx context.Context, deviceID string, keys ...string) error
}

// MemoryBackend keeps state in process memory.
//
// Entries expire after ttl of inactivity; zero means they never expire.
type MemoryBackend struct {
	c *cache.Cache
}

// NewMemoryBackend creates a [MemoryBackend]. A ttl of zero keeps entries forever.
func NewMemoryBackend(ttl time.Duration) *MemoryBackend {
	expiration, cleanup := cache.NoExpiration, time.Duration(0)
	if ttl > 0 {
		expiration, cleanup = ttl, ttl
	}
	return &MemoryBackend{c: cache.New(expiration, cleanup)}
}

func memoryKey(deviceID, key string) string { return deviceID + "\x00" + key }

func (m *MemoryBackend) Get(_ context.Context, deviceID, key string) (string, bool, error) {
	v, ok := m.c.Get(memoryKey(deviceID, key))
	if !ok {
		return "", false, nil
	}
	s, _ := v.(string)
	return s, true, nil
}

func (m *MemoryBackend) Set(_ context.Context, deviceID, key, value string) error {
	m.c.Set(memoryKey(deviceID, key), value, cache.DefaultExpiration)
	return nil
}

func (m *MemoryBackend) Delete(_ context.Context, deviceID string, keys ...string) error {
	for _, k := range keys {
		m.c.Delete(memoryKey(deviceID, k))
	}
	return nil
}

// Len is the number of live entries across all devices.
func (m *MemoryBackend) Len() int {
	return m.c.ItemCount()
}
