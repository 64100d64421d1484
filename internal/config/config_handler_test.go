package config

import (
	"os"
	"path"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeYAML(t *testing.T, fpath string, contents map[string]any) {
	raw, err := yaml.Marshal(contents)
	require.NoError(t, err)
	err = os.WriteFile(fpath, raw, 0666)
	require.NoError(t, err)
}

func createMainFile(t *testing.T, dir string) {
	writeYAML(t, path.Join(dir, "config.yaml"), map[string]any{
		"runningEnvironment": "production",
		"server": map[string]any{
			"port": 8080,
		},
		"upstream": map[string]any{
			"baseURL":        "https://onboarding.example.org/api/v1",
			"requestTimeout": "20s",
		},
		"sessions": map[string]any{
			"cookieHashKey":     "hash-key-from-main-file-32-bytes",
			"cookieEncodingKey": "enc-key-from-main-file-32-bytes!",
		},
		"store": map[string]any{
			"type":      "redis",
			"addresses": []string{"redis:6379"},
		},
	})
}

func createSecretFile(t *testing.T, dir string) {
	writeYAML(t, path.Join(dir, "secret_config.yaml"), map[string]any{
		"sessions": map[string]any{
			"cookieHashKey": "hash-key-from-secret-file-32byte",
		},
		"store": map[string]any{
			"password":      "password-from-secret-file",
			"encryptionKey": "encryption-key-from-secret-32byt",
		},
	})
}

func TestReadConfig(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("CONFIG_LOCATION", tmpDir)
	createMainFile(t, tmpDir)
	createSecretFile(t, tmpDir)
	ch := NewConfigHandler()

	config, err := ch.Config()

	require.NoError(t, err)
	assert.Equal(t, Production, config.RunningEnvironment)
	assert.Equal(t, "https://onboarding.example.org/api/v1", config.Upstream.BaseURL.String())
	assert.Equal(t, 20*time.Second, config.Upstream.RequestTimeout)
	assert.Equal(t, 15*time.Second, config.Upstream.RefreshTimeout)
	assert.Equal(t, time.Minute, config.Watcher.Interval)
	assert.Equal(t, "/api", config.Server.BasePath)
	assert.Equal(t, []string{"redis:6379"}, config.Store.Addresses)
	assert.Equal(t, RedactedString("hash-key-from-secret-file-32byte"), config.Sessions.CookieHashKey)
	assert.Equal(t, RedactedString("enc-key-from-main-file-32-bytes!"), config.Sessions.CookieEncodingKey)
	assert.Equal(t, RedactedString("password-from-secret-file"), config.Store.Password)
	assert.Equal(t, RedactedString("encryption-key-from-secret-32byt"), config.Store.EncryptionKey)
}

func TestReadConfigWithEnvVars(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("CONFIG_LOCATION", tmpDir)
	createMainFile(t, tmpDir)
	createSecretFile(t, tmpDir)
	t.Setenv("GATEWAY_STORE_PASSWORD", "env-var-password")
	t.Setenv("GATEWAY_UPSTREAM_BASEURL", "https://dev.onboarding.example.org/api/v1")
	t.Setenv("GATEWAY_WATCHER_INTERVAL", "30s")
	ch := NewConfigHandler()

	config, err := ch.Config()

	require.NoError(t, err)
	assert.Equal(t, "https://dev.onboarding.example.org/api/v1", config.Upstream.BaseURL.String())
	assert.Equal(t, 30*time.Second, config.Watcher.Interval)
	assert.Equal(t, RedactedString("env-var-password"), config.Store.Password)
	assert.Equal(t, RedactedString("hash-key-from-secret-file-32byte"), config.Sessions.CookieHashKey)
}

func TestReadConfigWithEnvVarsNoSecretFile(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("CONFIG_LOCATION", tmpDir)
	createMainFile(t, tmpDir)
	t.Setenv("GATEWAY_STORE_PASSWORD", "env-var-password")
	ch := NewConfigHandler()

	config, err := ch.Config()

	require.NoError(t, err)
	assert.Equal(t, RedactedString("env-var-password"), config.Store.Password)
	assert.Equal(t, RedactedString("hash-key-from-main-file-32-bytes"), config.Sessions.CookieHashKey)
}

func TestReadConfigInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("CONFIG_LOCATION", tmpDir)
	createMainFile(t, tmpDir)
	t.Setenv("GATEWAY_STORE_TYPE", "memory")
	ch := NewConfigHandler()

	_, err := ch.Config()

	assert.ErrorContains(t, err, "store type cannot be \"memory\" in production")
}
