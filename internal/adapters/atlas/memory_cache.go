package atlas

import (
	"case-map-service/internal/ports"
	"context"
	"sync"
	"time"
)

// MemoryCache keeps atlases in process memory. Used when no persistent
// cache is configured so the atlas is still fetched at most once per TTL.
type MemoryCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]ports.Atlas
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{ttl: ttl, now: time.Now, entries: make(map[string]ports.Atlas)}
}

func (m *MemoryCache) Get(ctx context.Context, source string) (ports.Atlas, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.entries[source]
	if !ok || m.now().Sub(a.FetchedAt) > m.ttl {
		return ports.Atlas{}, false, nil
	}
	return a, true, nil
}

func (m *MemoryCache) Put(ctx context.Context, a ports.Atlas) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[a.Source] = a
	return nil
}
