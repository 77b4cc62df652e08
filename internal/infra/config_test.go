package infra

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "logger:\n  level: debug\n"))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8090", cfg.Server.Addr())
	assert.Equal(t, "X-API-Key", cfg.API.KeyHeader)
	assert.Equal(t, 15*time.Second, cfg.API.Timeout)
	assert.Equal(t, 5*time.Second, cfg.Console.RefreshInterval)
	assert.Equal(t, 3*time.Second, cfg.Console.ToastDuration)
	assert.Equal(t, "file", cfg.KeyStore.Backend)
	assert.Equal(t, RedisNamespace, cfg.Redis.Namespace)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("CONSOLE_REFRESH_INTERVAL", "10s")
	t.Setenv("KEYSTORE_BACKEND", "memory")

	cfg, err := LoadConfig(writeConfig(t, "console:\n  refresh_interval: 2s\n"))
	require.NoError(t, err)

	assert.Equal(t, 10*time.Second, cfg.Console.RefreshInterval)
	assert.Equal(t, "memory", cfg.KeyStore.Backend)
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"zero refresh", "console:\n  refresh_interval: 0s\n"},
		{"unknown backend", "keystore:\n  backend: sqlite\n"},
		{"file without path", "keystore:\n  backend: file\n  path: \"\"\n"},
		{"bad timezone", "console:\n  timezone: Mars/Olympus\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestResolveBaseURL(t *testing.T) {
	api := APIConfig{
		DevURL:  "http://localhost:8000/api/v1/",
		ProdURL: "https://threats.cyberapi.io/api/v1",
	}

	tests := []struct {
		host string
		want string
	}{
		{"localhost", "http://localhost:8000/api/v1"},
		{"127.0.0.1", "http://localhost:8000/api/v1"},
		{"localhost:8090", "http://localhost:8000/api/v1"},
		{"[::1]:8090", "http://localhost:8000/api/v1"},
		{"::1", "http://localhost:8000/api/v1"},
		{"admin.cyberapi.io", "https://threats.cyberapi.io/api/v1"},
		{"", "https://threats.cyberapi.io/api/v1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, api.ResolveBaseURL(tt.host), "host=%q", tt.host)
	}

	api.BaseURL = "http://staging:9000/api/v1/"
	assert.Equal(t, "http://staging:9000/api/v1", api.ResolveBaseURL("localhost"))
}

func TestNewLogger(t *testing.T) {
	for _, format := range []string{"json", "console", ""} {
		logger, err := NewLogger(LoggerConfig{Level: "info", Format: format})
		require.NoError(t, err, format)
		assert.NotNil(t, logger)
	}

	_, err := NewLogger(LoggerConfig{Level: "loud"})
	assert.Error(t, err)
	_, err = NewLogger(LoggerConfig{Level: "info", Format: "xml"})
	assert.Error(t, err)
}

func TestRedisStoreKey(t *testing.T) {
	assert.Equal(t, "threatconsole:admin_api_key", RedisStoreKey("", StoreKeyAPIKey))
	assert.Equal(t, "ops:admin_api_key", RedisStoreKey("ops", StoreKeyAPIKey))
}
