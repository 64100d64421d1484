package kvstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zephapay/onboarding-gateway/internal/gwerrors"
)

func TestMemoryStoreSetGetDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.Get(ctx, "accessToken")
	assert.ErrorIs(t, err, gwerrors.ErrMissingDBResource)

	require.NoError(t, store.Set(ctx, "accessToken", "abc"))
	val, err := store.Get(ctx, "accessToken")
	require.NoError(t, err)
	assert.Equal(t, "abc", val)

	require.NoError(t, store.Delete(ctx, "accessToken", "missing"))
	_, err = store.Get(ctx, "accessToken")
	assert.ErrorIs(t, err, gwerrors.ErrMissingDBResource)
}

func TestMemoryStoreTTL(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Now()
	store.now = func() time.Time { return now }

	require.NoError(t, store.SetWithTTL(ctx, "short", "1", time.Minute))
	require.NoError(t, store.Set(ctx, "forever", "2"))
	_, err := store.Get(ctx, "short")
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = store.Get(ctx, "short")
	assert.ErrorIs(t, err, gwerrors.ErrMissingDBResource)
	val, err := store.Get(ctx, "forever")
	require.NoError(t, err)
	assert.Equal(t, "2", val)
	assert.Equal(t, 1, store.Purge())
	assert.Equal(t, 0, store.Purge())
}

func TestNamespacesAreIsolated(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryStore()
	first := Namespace(backend, "session-1", 0)
	second := Namespace(backend, "session-2", time.Hour)

	require.NoError(t, first.Set(ctx, "accessToken", "first-token"))
	require.NoError(t, second.Set(ctx, "accessToken", "second-token"))

	val, err := first.Get(ctx, "accessToken")
	require.NoError(t, err)
	assert.Equal(t, "first-token", val)
	val, err = backend.Get(ctx, "session-2:accessToken")
	require.NoError(t, err)
	assert.Equal(t, "second-token", val)

	require.NoError(t, first.Delete(ctx, "accessToken"))
	_, err = first.Get(ctx, "accessToken")
	assert.ErrorIs(t, err, gwerrors.ErrMissingDBResource)
	_, err = second.Get(ctx, "accessToken")
	assert.NoError(t, err)
	assert.Equal(t, "session-2", second.Prefix())
}
