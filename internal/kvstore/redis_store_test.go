package kvstore

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zephapay/onboarding-gateway/internal/config"
	"github.com/zephapay/onboarding-gateway/internal/gwerrors"
)

func TestRedisStoreSetGet(t *testing.T) {
	ctx := context.Background()
	client, mock := redismock.NewClientMock()
	store, err := NewRedisStore(WithRedisClient(client))
	require.NoError(t, err)
	mock.ExpectSet("session-1:accessToken", "abc", 0).SetVal("OK")
	mock.ExpectSet("session-1:refreshToken", "def", time.Hour).SetVal("OK")
	mock.ExpectGet("session-1:accessToken").SetVal("abc")

	err = store.Set(ctx, "session-1:accessToken", "abc")
	require.NoError(t, err)
	err = store.SetWithTTL(ctx, "session-1:refreshToken", "def", time.Hour)
	require.NoError(t, err)
	val, err := store.Get(ctx, "session-1:accessToken")

	require.NoError(t, err)
	assert.Equal(t, "abc", val)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStoreMissingKey(t *testing.T) {
	ctx := context.Background()
	client, mock := redismock.NewClientMock()
	store, err := NewRedisStore(WithRedisClient(client))
	require.NoError(t, err)
	mock.ExpectGet("missing").RedisNil()

	_, err = store.Get(ctx, "missing")

	assert.ErrorIs(t, err, gwerrors.ErrMissingDBResource)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStoreError(t *testing.T) {
	ctx := context.Background()
	client, mock := redismock.NewClientMock()
	store, err := NewRedisStore(WithRedisClient(client))
	require.NoError(t, err)
	mock.ExpectGet("key").SetErr(fmt.Errorf("connection refused"))

	_, err = store.Get(ctx, "key")

	assert.ErrorContains(t, err, "connection refused")
	assert.NotErrorIs(t, err, gwerrors.ErrMissingDBResource)
}

func TestRedisStoreDelete(t *testing.T) {
	ctx := context.Background()
	client, mock := redismock.NewClientMock()
	store, err := NewRedisStore(WithRedisClient(client))
	require.NoError(t, err)
	mock.ExpectDel("a", "b", "c").SetVal(1)

	require.NoError(t, store.Delete(ctx, "a", "b", "c"))
	require.NoError(t, store.Delete(ctx))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStoreDecryptsValues(t *testing.T) {
	ctx := context.Background()
	key := "0123456789abcdef0123456789abcdef"
	enc, err := NewGCMEncryptor(key)
	require.NoError(t, err)
	stored, err := enc.Encrypt("plain-token")
	require.NoError(t, err)
	client, mock := redismock.NewClientMock()
	store, err := NewRedisStore(WithRedisClient(client), WithEncryption(key))
	require.NoError(t, err)
	mock.ExpectGet("accessToken").SetVal(stored)

	val, err := store.Get(ctx, "accessToken")

	require.NoError(t, err)
	assert.Equal(t, "plain-token", val)
}

func TestNewRedisStoreWithoutClient(t *testing.T) {
	_, err := NewRedisStore()

	assert.ErrorContains(t, err, "redis client is not initialized")
}

func TestNewFromConfig(t *testing.T) {
	store, err := New(config.StoreConfig{Type: config.DBTypeMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, store)

	store, err = New(config.StoreConfig{Type: config.DBTypeRedis, Addresses: []string{"127.0.0.1:6379"}})
	require.NoError(t, err)
	assert.IsType(t, &RedisStore{}, store)

	_, err = New(config.StoreConfig{Type: config.DBTypeRedis, Addresses: []string{"127.0.0.1:6379"}, EncryptionKey: "short"})
	assert.Error(t, err)

	_, err = New(config.StoreConfig{Type: "etcd"})
	assert.ErrorContains(t, err, "unrecognized persistence type")
}
