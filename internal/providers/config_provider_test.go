package providers

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bmac/internal/structures"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewConfigProvider_DefaultsWithoutFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	conf, err := NewConfigProvider(&structures.CliFlags{})
	require.NoError(t, err)

	assert.Equal(t, "bmac-analyzer", conf.AppName)
	assert.Equal(t, "https://app.buymeacoffee.com/api/creators/slug", conf.API.BaseURL)
	assert.Equal(t, 10, conf.API.PageSize)
	assert.Equal(t, time.Hour, conf.Cache.TTL)
	assert.True(t, conf.Cache.Enabled)
	assert.Equal(t, 5.0, conf.Analyzer.CoffeePrice)
	assert.Equal(t, "info", conf.Logger.Level)
	assert.Equal(t, 8090, conf.WebServer.Port)
	assert.True(t, conf.ResponseCache.Enabled)
	assert.False(t, conf.Metrics.Enabled, "metrics are opt-in")
	assert.Empty(t, conf.Path)
}

func TestNewConfigProvider_ResolvesDefaultCacheDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	conf, err := NewConfigProvider(&structures.CliFlags{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".bmac-cache"), conf.Cache.Dir)
}

func TestNewConfigProvider_ReadsFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := writeConfigFile(t, `
api:
  pageSize: 25
cache:
  ttl: 15m
  compress: true
analyzer:
  coffeePrice: 7.5
logger:
  level: debug
webServer:
  host: 0.0.0.0
  port: 9000
refresh:
  interval: 30m
  creators:
    - alice
    - bob
`)

	conf, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path})
	require.NoError(t, err)

	assert.Equal(t, 25, conf.API.PageSize)
	assert.Equal(t, 15*time.Minute, conf.Cache.TTL)
	assert.True(t, conf.Cache.Compress)
	assert.Equal(t, 7.5, conf.Analyzer.CoffeePrice)
	assert.Equal(t, "debug", conf.Logger.Level)
	assert.Equal(t, 9000, conf.WebServer.Port)
	assert.Equal(t, 30*time.Minute, conf.Refresh.Interval)
	assert.Equal(t, []string{"alice", "bob"}, conf.Refresh.Creators)
	assert.Equal(t, path, conf.Path)
}

func TestNewConfigProvider_EnvOverridesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("BMAC_CACHE_TTL", "90s")
	t.Setenv("BMAC_PAGE_SIZE", "3")
	path := writeConfigFile(t, `
cache:
  ttl: 15m
`)

	conf, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path})
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, conf.Cache.TTL)
	assert.Equal(t, 3, conf.API.PageSize)
}

func TestNewConfigProvider_ExplicitFileMissing(t *testing.T) {
	_, err := NewConfigProvider(&structures.CliFlags{ConfigPath: "/nonexistent/config.yaml"})
	assert.Error(t, err)
}

func TestNewConfigProvider_InvalidValuesRejected(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := writeConfigFile(t, `
api:
  pageSize: 0
`)

	_, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path})
	assert.Error(t, err)
}

func TestNewConfigProvider_DebugFlagCarried(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	conf, err := NewConfigProvider(&structures.CliFlags{DebugMode: true})
	require.NoError(t, err)
	assert.True(t, conf.Debug)
}
