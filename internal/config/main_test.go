package config

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getValidUpstreamConfig(t *testing.T) UpstreamConfig {
	baseURL, err := url.Parse("https://onboarding.example.org/api/v1")
	require.NoError(t, err)
	return UpstreamConfig{
		BaseURL:        baseURL,
		RequestTimeout: 30 * time.Second,
		RefreshTimeout: 15 * time.Second,
		RetryMax:       2,
	}
}

func getValidStoreConfig() StoreConfig {
	return StoreConfig{
		Type:      DBTypeRedis,
		Addresses: []string{"127.0.0.1:6379"},
	}
}

func getValidConfig(t *testing.T) Config {
	return Config{
		RunningEnvironment: Production,
		Server:             ServerConfig{Host: "0.0.0.0", Port: 8080, BasePath: "/api"},
		Upstream:           getValidUpstreamConfig(t),
		Sessions:           getValidSessionConfig(),
		Store:              getValidStoreConfig(),
		Watcher:            WatcherConfig{Interval: time.Minute},
	}
}

func TestValidConfig(t *testing.T) {
	config := getValidConfig(t)

	err := config.Validate()

	assert.NoError(t, err)
}

func TestInvalidRunningEnvironment(t *testing.T) {
	config := getValidConfig(t)
	config.RunningEnvironment = "staging"

	err := config.Validate()

	assert.ErrorContains(t, err, "unknown running environment \"staging\"")
}

func TestInvalidSessionsConfig(t *testing.T) {
	config := getValidConfig(t)
	config.Sessions.IdleSessionTTLSeconds = 0

	err := config.Validate()

	assert.Error(t, err)
}

func TestInvalidUpstreamConfig(t *testing.T) {
	config := getValidConfig(t)
	config.Upstream.BaseURL = nil

	err := config.Validate()

	assert.ErrorContains(t, err, "the upstream config is missing the base url of the API")
}

func TestInvalidUpstreamScheme(t *testing.T) {
	config := getValidConfig(t)
	config.Upstream.BaseURL = &url.URL{Scheme: "ftp", Host: "example.org"}

	err := config.Validate()

	assert.ErrorContains(t, err, "unsupported scheme \"ftp\"")
}

func TestInvalidRefreshTimeout(t *testing.T) {
	config := getValidConfig(t)
	config.Upstream.RefreshTimeout = 0

	err := config.Validate()

	assert.Error(t, err)
}

func TestInvalidStoreConfig(t *testing.T) {
	config := getValidConfig(t)
	config.Store.Type = DBTypeMemory

	err := config.Validate()

	assert.ErrorContains(t, err, "store type cannot be \"memory\" in production")
}

func TestMemoryStoreAllowedInDevelopment(t *testing.T) {
	config := getValidConfig(t)
	config.RunningEnvironment = Development
	config.Store.Type = DBTypeMemory

	err := config.Validate()

	assert.NoError(t, err)
}

func TestInvalidStoreEncryptionKey(t *testing.T) {
	config := getValidConfig(t)
	config.Store.EncryptionKey = "invalid-key"

	err := config.Validate()

	assert.ErrorContains(t, err, "store encryption key has to be 32 bytes long, the provided one is 11 long")
}

func TestRedisStoreWithoutAddresses(t *testing.T) {
	config := getValidConfig(t)
	config.Store.Addresses = nil

	err := config.Validate()

	assert.ErrorContains(t, err, "no addresses are configured")
}

func TestInvalidWatcherInterval(t *testing.T) {
	config := getValidConfig(t)
	config.Watcher.Interval = 10 * time.Millisecond

	err := config.Validate()

	assert.Error(t, err)
}

func TestInvalidServerBasePath(t *testing.T) {
	config := getValidConfig(t)
	config.Server.BasePath = "api"

	err := config.Validate()

	assert.ErrorContains(t, err, "has to start with a slash")
}

func TestSentryWithoutDsn(t *testing.T) {
	config := getValidConfig(t)
	config.Monitoring.Sentry.Enabled = true

	err := config.Validate()

	assert.ErrorContains(t, err, "sentry is enabled but the DSN is empty")
}
