// Package kvstore provides the string key-value persistence that holds session
// credentials and UI preferences. Backends are in-memory or redis.
package kvstore

import (
	"context"
	"time"
)

// Store is the get/set/delete capability the token store and the preferences
// persist through. Get returns gwerrors.ErrMissingDBResource for absent keys.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// ExpiringStore is a Store whose keys can be given a time to live.
type ExpiringStore interface {
	Store
	SetWithTTL(ctx context.Context, key string, value string, ttl time.Duration) error
}

// NamespacedStore prefixes every key and optionally bounds the lifetime of every
// value it writes. It is how one backend is shared between browser sessions.
type NamespacedStore struct {
	backend ExpiringStore
	prefix  string
	ttl     time.Duration
}

func (n NamespacedStore) key(key string) string {
	return n.prefix + ":" + key
}

func (n NamespacedStore) Get(ctx context.Context, key string) (string, error) {
	return n.backend.Get(ctx, n.key(key))
}

func (n NamespacedStore) Set(ctx context.Context, key string, value string) error {
	if n.ttl > 0 {
		return n.backend.SetWithTTL(ctx, n.key(key), value, n.ttl)
	}
	return n.backend.Set(ctx, n.key(key), value)
}

func (n NamespacedStore) Delete(ctx context.Context, keys ...string) error {
	prefixed := make([]string, len(keys))
	for i, key := range keys {
		prefixed[i] = n.key(key)
	}
	return n.backend.Delete(ctx, prefixed...)
}

// Prefix is the namespace without the separator.
func (n NamespacedStore) Prefix() string {
	return n.prefix
}

// Namespace returns a view of backend where all keys live under prefix. A
// positive ttl is applied to every write.
func Namespace(backend ExpiringStore, prefix string, ttl time.Duration) NamespacedStore {
	return NamespacedStore{backend: backend, prefix: prefix, ttl: ttl}
}
