package kvstore

import (
	"context"
	"sync"
	"time"

	"github.com/zephapay/onboarding-gateway/internal/gwerrors"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// MemoryStore keeps everything in a map. Only suitable for development and tests
// since nothing is shared between gateway replicas.
type MemoryStore struct {
	lock    *sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func (m *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	entry, found := m.entries[key]
	if !found || entry.expired(m.now()) {
		return "", gwerrors.ErrMissingDBResource
	}
	return entry.value, nil
}

func (m *MemoryStore) Set(ctx context.Context, key string, value string) error {
	return m.SetWithTTL(ctx, key, value, 0)
}

func (m *MemoryStore) SetWithTTL(ctx context.Context, key string, value string, ttl time.Duration) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = m.now().Add(ttl)
	}
	m.entries[key] = entry
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, keys ...string) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	for _, key := range keys {
		delete(m.entries, key)
	}
	return nil
}

// Purge drops the expired entries.
func (m *MemoryStore) Purge() int {
	m.lock.Lock()
	defer m.lock.Unlock()
	now := m.now()
	removed := 0
	for key, entry := range m.entries {
		if entry.expired(now) {
			delete(m.entries, key)
			removed++
		}
	}
	return removed
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{lock: &sync.RWMutex{}, entries: map[string]memoryEntry{}, now: time.Now}
}
