package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var (
	// Version information - read from build info
	Version   string
	BuildTime string
	GitCommit string
)

// defaultFiles are tried in order when Load is given no path.
var defaultFiles = []string{"config.yaml", "config.yml", "config.json"}

func init() {
	initVersionInfo()
}

// Load reads the configuration file at path, applies WHOIS_* environment
// overrides and defaults, and validates the result. An empty path tries
// config.yaml then config.json in the working directory and falls back to
// defaults when neither exists.
func Load(path string) (*Config, error) {
	var config Config

	if path == "" {
		for _, candidate := range defaultFiles {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
	}
	if path != "" {
		if err := loadConfigFromFile(path, &config); err != nil {
			return nil, err
		}
	}

	if err := overrideConfigWithEnv(&config); err != nil {
		return nil, err
	}

	applyDefaults(&config)

	if err := validator.New().Struct(&config); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return &config, nil
}

// CacheTTL returns CacheExpiration as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheExpiration) * time.Second
}

// MemoryCleanInterval returns Cache.MemoryCleanInterval as a duration.
func (c *Config) MemoryCleanInterval() time.Duration {
	return time.Duration(c.Cache.MemoryCleanInterval) * time.Second
}

// WhoisTimeout returns Whois.Timeout as a duration.
func (c *Config) WhoisTimeout() time.Duration {
	return time.Duration(c.Whois.Timeout) * time.Second
}

func applyDefaults(config *Config) {
	if config.Redis.Addr == "" {
		config.Redis.Addr = "localhost:6379"
	}
	if config.CacheExpiration == 0 {
		config.CacheExpiration = 3600
	}
	// Default: 10000 entries max in memory cache
	if config.Cache.MemoryMaxSize == 0 {
		config.Cache.MemoryMaxSize = 10000
	}
	// Default: clean every 5 minutes
	if config.Cache.MemoryCleanInterval == 0 {
		config.Cache.MemoryCleanInterval = 300
	}
	if config.Port == 0 {
		config.Port = 8043
	}
	if config.RateLimit == 0 {
		config.RateLimit = 50
	}
	if config.Whois.Timeout == 0 {
		config.Whois.Timeout = 10
	}
	if config.Whois.MaxReferrals == 0 {
		config.Whois.MaxReferrals = 16
	}
	if config.Log.Level == "" {
		config.Log.Level = "info"
	}
}

func loadConfigFromFile(path string, config *Config) error {
	configFile, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "failed to open configuration file")
	}
	defer configFile.Close()

	fileExt := strings.ToLower(filepath.Ext(path))
	switch fileExt {
	case ".yaml", ".yml":
		if err := yaml.NewDecoder(configFile).Decode(config); err != nil {
			return errors.Wrap(err, "failed to decode YAML from configuration file")
		}
	case ".json":
		if err := json.NewDecoder(configFile).Decode(config); err != nil {
			return errors.Wrap(err, "failed to decode JSON from configuration file")
		}
	default:
		return errors.Errorf("unsupported configuration file format: %s", fileExt)
	}
	return nil
}

func overrideConfigWithEnv(config *Config) error {
	ints := []struct {
		name   string
		target *int
	}{
		{"WHOIS_REDIS_DB", &config.Redis.DB},
		{"WHOIS_CACHE_EXPIRATION", &config.CacheExpiration},
		{"WHOIS_MEMORY_MAX_SIZE", &config.Cache.MemoryMaxSize},
		{"WHOIS_MEMORY_CLEAN_INTERVAL", &config.Cache.MemoryCleanInterval},
		{"WHOIS_PORT", &config.Port},
		{"WHOIS_RATE_LIMIT", &config.RateLimit},
		{"WHOIS_TIMEOUT", &config.Whois.Timeout},
		{"WHOIS_MAX_REFERRALS", &config.Whois.MaxReferrals},
		{"WHOIS_LOG_MAX_SIZE", &config.Log.MaxSize},
	}
	for _, env := range ints {
		value := os.Getenv(env.name)
		if value == "" {
			continue
		}
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return errors.Wrapf(err, "invalid %s", env.name)
		}
		*env.target = parsed
	}

	strs := []struct {
		name   string
		target *string
	}{
		{"WHOIS_REDIS_ADDR", &config.Redis.Addr},
		{"WHOIS_REDIS_PASSWORD", &config.Redis.Password},
		{"WHOIS_PROXY_SERVER", &config.ProxyServer},
		{"WHOIS_PROXY_USERNAME", &config.ProxyUsername},
		{"WHOIS_PROXY_PASSWORD", &config.ProxyPassword},
		{"WHOIS_SERVER_LIST_FILE", &config.Whois.ServerListFile},
		{"WHOIS_LOG_LEVEL", &config.Log.Level},
		{"WHOIS_LOG_FILE", &config.Log.File},
	}
	for _, env := range strs {
		if value := os.Getenv(env.name); value != "" {
			*env.target = value
		}
	}

	if requireRedis := os.Getenv("WHOIS_REQUIRE_REDIS"); requireRedis != "" {
		config.Cache.RequireRedis = requireRedis == "true" || requireRedis == "1"
	}
	if proxySuffixes := os.Getenv("WHOIS_PROXY_SUFFIXES"); proxySuffixes != "" {
		config.ProxySuffixes = nil
		for _, suffix := range strings.Split(proxySuffixes, ",") {
			if suffix = strings.TrimSpace(suffix); suffix != "" {
				config.ProxySuffixes = append(config.ProxySuffixes, suffix)
			}
		}
	}
	return nil
}

// initVersionInfo reads version information from Go build info
func initVersionInfo() {
	Version = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			if len(setting.Value) >= 7 {
				GitCommit = setting.Value[:7] // short commit hash
			} else {
				GitCommit = setting.Value
			}
		case "vcs.time":
			BuildTime = setting.Value
		case "vcs.modified":
			if setting.Value == "true" {
				GitCommit += "-dirty"
			}
		}
	}
}
