package config

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

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, "upstream:\n  base_url: http://backend/api\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Upstream.Timeout)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 10, cfg.Query.DefaultPageSize)
	assert.Equal(t, 500*time.Millisecond, cfg.Query.SearchDebounce)
	assert.Equal(t, []int{10, 20, 50, 100}, cfg.Query.PageSizeOptions)
	assert.Equal(t, "kioskadmin:revalidate", cfg.Redis.Channel)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 1, cfg.WorkerPool.Size)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9000\nupstream:\n  base_url: http://from-file\n")
	t.Setenv("UPSTREAM_BASE_URL", "http://from-env")
	t.Setenv("PORT", "9100")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("JWT_SECRET", "env-secret")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://from-env", cfg.Upstream.BaseURL)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, "env-secret", cfg.Auth.JWTSecret)
}

func TestLoad_InvalidPortKeepsFileValue(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9000\n")
	t.Setenv("PORT", "not-a-number")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.Port)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
