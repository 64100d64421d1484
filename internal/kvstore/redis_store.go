package kvstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/zephapay/onboarding-gateway/internal/config"
	"github.com/zephapay/onboarding-gateway/internal/gwerrors"
)

type RedisStore struct {
	rdb       LimitedRedisClient
	encryptor Encryptor
}

func (r *RedisStore) Get(ctx context.Context, key string) (string, error) {
	val, err := r.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", gwerrors.ErrMissingDBResource
	}
	if err != nil {
		return "", err
	}
	if r.encryptor == nil {
		return val, nil
	}
	dec, err := r.encryptor.Decrypt(val)
	if err != nil {
		slog.Error("KV STORE", "message", "could not decrypt value", "key", key, "error", err)
		return "", err
	}
	return dec, nil
}

func (r *RedisStore) Set(ctx context.Context, key string, value string) error {
	return r.SetWithTTL(ctx, key, value, 0)
}

func (r *RedisStore) SetWithTTL(ctx context.Context, key string, value string, ttl time.Duration) error {
	if r.encryptor != nil {
		enc, err := r.encryptor.Encrypt(value)
		if err != nil {
			return err
		}
		value = enc
	}
	return r.rdb.Set(ctx, key, value, ttl).Err()
}

func (r *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.rdb.Del(ctx, keys...).Err()
}

// Ping checks that redis is reachable.
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

type RedisStoreOption func(*RedisStore) error

func WithRedisConfig(storeConfig config.StoreConfig) RedisStoreOption {
	return func(r *RedisStore) error {
		if storeConfig.Type != config.DBTypeRedis {
			return fmt.Errorf("unrecognized persistence type %v", storeConfig.Type)
		}
		if len(storeConfig.Addresses) == 0 {
			return fmt.Errorf("no redis addresses are configured")
		}
		if storeConfig.IsSentinel {
			r.rdb = redis.NewFailoverClient(&redis.FailoverOptions{
				MasterName:       storeConfig.MasterName,
				SentinelAddrs:    storeConfig.Addresses,
				Password:         string(storeConfig.Password),
				DB:               storeConfig.DBIndex,
				SentinelPassword: string(storeConfig.Password),
			})
			return nil
		}
		r.rdb = redis.NewClient(&redis.Options{
			Password: string(storeConfig.Password),
			DB:       storeConfig.DBIndex,
			Addr:     storeConfig.Addresses[0],
		})
		return nil
	}
}

func WithRedisClient(client LimitedRedisClient) RedisStoreOption {
	return func(r *RedisStore) error {
		r.rdb = client
		return nil
	}
}

func WithEncryption(secretKey string) RedisStoreOption {
	return func(r *RedisStore) error {
		if secretKey == "" {
			return nil
		}
		encryptor, err := NewGCMEncryptor(secretKey)
		if err != nil {
			return err
		}
		r.encryptor = encryptor
		return nil
	}
}

func NewRedisStore(options ...RedisStoreOption) (*RedisStore, error) {
	store := RedisStore{}
	for _, opt := range options {
		err := opt(&store)
		if err != nil {
			return &RedisStore{}, err
		}
	}
	if store.rdb == nil {
		return &RedisStore{}, fmt.Errorf("redis client is not initialized")
	}
	return &store, nil
}

// New builds the backend selected in the configuration.
func New(storeConfig config.StoreConfig) (ExpiringStore, error) {
	switch storeConfig.Type {
	case config.DBTypeMemory:
		return NewMemoryStore(), nil
	case config.DBTypeRedis:
		return NewRedisStore(WithRedisConfig(storeConfig), WithEncryption(string(storeConfig.EncryptionKey)))
	default:
		return nil, fmt.Errorf("unrecognized persistence type %v", storeConfig.Type)
	}
}
