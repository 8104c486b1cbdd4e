package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
redis:
  addr: redis:6379
  db: 2
cacheExpiration: 600
cache:
  requireRedis: true
  memoryMaxSize: 500
port: 9000
rateLimit: 10
proxyServer: 127.0.0.1:1080
proxySuffixes: [cn, ru]
whois:
  timeout: 5
  maxReferrals: 4
  serverListFile: servers.yaml
log:
  level: debug
  file: /var/log/whoischain.log
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, 600, cfg.CacheExpiration)
	assert.True(t, cfg.Cache.RequireRedis)
	assert.Equal(t, 500, cfg.Cache.MemoryMaxSize)
	assert.Equal(t, 300, cfg.Cache.MemoryCleanInterval)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, 10, cfg.RateLimit)
	assert.Equal(t, "127.0.0.1:1080", cfg.ProxyServer)
	assert.Equal(t, []string{"cn", "ru"}, cfg.ProxySuffixes)
	assert.Equal(t, 5, cfg.Whois.Timeout)
	assert.Equal(t, 4, cfg.Whois.MaxReferrals)
	assert.Equal(t, "servers.yaml", cfg.Whois.ServerListFile)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/var/log/whoischain.log", cfg.Log.File)
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "config.json", `{"redis":{"addr":"localhost:6380"},"port":8080,"whois":{"timeout":3}}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "localhost:6380", cfg.Redis.Addr)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 3, cfg.Whois.Timeout)
	assert.Equal(t, 3*time.Second, cfg.WhoisTimeout())
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 3600, cfg.CacheExpiration)
	assert.Equal(t, 10000, cfg.Cache.MemoryMaxSize)
	assert.Equal(t, 300, cfg.Cache.MemoryCleanInterval)
	assert.Equal(t, 8043, cfg.Port)
	assert.Equal(t, 50, cfg.RateLimit)
	assert.Equal(t, 10, cfg.Whois.Timeout)
	assert.Equal(t, 16, cfg.Whois.MaxReferrals)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFindsConfigInWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{"port":7000}`), 0o644))
	t.Chdir(dir)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Port)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeFile(t, "config.yaml", "port: 9000\nproxySuffixes: [cn]\n")

	t.Setenv("WHOIS_PORT", "9100")
	t.Setenv("WHOIS_REDIS_ADDR", "cache:6379")
	t.Setenv("WHOIS_REQUIRE_REDIS", "1")
	t.Setenv("WHOIS_PROXY_SUFFIXES", "ru, su ,")
	t.Setenv("WHOIS_TIMEOUT", "30")
	t.Setenv("WHOIS_MAX_REFERRALS", "8")
	t.Setenv("WHOIS_SERVER_LIST_FILE", "/etc/whoischain/servers.json")
	t.Setenv("WHOIS_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.True(t, cfg.Cache.RequireRedis)
	assert.Equal(t, []string{"ru", "su"}, cfg.ProxySuffixes)
	assert.Equal(t, 30, cfg.Whois.Timeout)
	assert.Equal(t, 8, cfg.Whois.MaxReferrals)
	assert.Equal(t, "/etc/whoischain/servers.json", cfg.Whois.ServerListFile)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadInvalidEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("WHOIS_PORT", "eighty")

	_, err := Load("")
	assert.ErrorContains(t, err, "invalid WHOIS_PORT")
}

func TestLoadValidation(t *testing.T) {
	path := writeFile(t, "config.yaml", "port: 70000\n")
	_, err := Load(path)
	assert.ErrorContains(t, err, "invalid configuration")

	path = writeFile(t, "config.yaml", "proxyServer: not a host\n")
	_, err = Load(path)
	assert.ErrorContains(t, err, "invalid configuration")
}

func TestLoadFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to open configuration file")

	_, err = Load(writeFile(t, "config.toml", "port = 1"))
	assert.ErrorContains(t, err, "unsupported configuration file format")

	_, err = Load(writeFile(t, "config.json", "{"))
	assert.ErrorContains(t, err, "failed to decode JSON")
}

func TestDurations(t *testing.T) {
	cfg := &Config{CacheExpiration: 60}
	cfg.Cache.MemoryCleanInterval = 2
	assert.Equal(t, time.Minute, cfg.CacheTTL())
	assert.Equal(t, 2*time.Second, cfg.MemoryCleanInterval())
}

func TestVersionInfo(t *testing.T) {
	assert.NotEmpty(t, Version)
	assert.NotEmpty(t, BuildTime)
	assert.NotEmpty(t, GitCommit)
}
