package config

import "github.com/KincaidYang/whoischain/utils"

// Config represents the configuration for the application.
type Config struct {
	// Redis holds the address, password and database number of the cache server.
	Redis struct {
		Addr     string `json:"addr" yaml:"addr"`
		Password string `json:"password" yaml:"password"`
		DB       int    `json:"db" yaml:"db" validate:"gte=0"`
	} `json:"redis" yaml:"redis"`
	// CacheExpiration is the expiration time for the cache, in seconds.
	CacheExpiration int `json:"cacheExpiration" yaml:"cacheExpiration" validate:"gte=0"`
	Cache           struct {
		// RequireRedis refuses to start without a reachable Redis.
		RequireRedis bool `json:"requireRedis" yaml:"requireRedis"`
		// MemoryMaxSize is the entry limit of the in-memory fallback.
		MemoryMaxSize int `json:"memoryMaxSize" yaml:"memoryMaxSize" validate:"gte=1"`
		// MemoryCleanInterval is in seconds.
		MemoryCleanInterval int `json:"memoryCleanInterval" yaml:"memoryCleanInterval" validate:"gte=1"`
	} `json:"cache" yaml:"cache"`
	// Port is the port number for the server.
	Port int `json:"port" yaml:"port" validate:"gte=1,lte=65535"`
	// RateLimit is the maximum number of resolutions served concurrently.
	RateLimit int `json:"rateLimit" yaml:"rateLimit" validate:"gte=1"`

	// ProxyServer is a SOCKS5 host:port used for domains under ProxySuffixes.
	ProxyServer   string   `json:"proxyServer" yaml:"proxyServer" validate:"omitempty,hostname_port"`
	ProxyUsername string   `json:"proxyUsername" yaml:"proxyUsername"`
	ProxyPassword string   `json:"proxyPassword" yaml:"proxyPassword"`
	ProxySuffixes []string `json:"proxySuffixes" yaml:"proxySuffixes"`

	Whois struct {
		// Timeout bounds each WHOIS request, in seconds.
		Timeout int `json:"timeout" yaml:"timeout" validate:"gte=0"`
		// MaxReferrals caps the referrals followed per resolution.
		MaxReferrals int `json:"maxReferrals" yaml:"maxReferrals" validate:"gte=0"`
		// ServerListFile adds to or overrides the shipped routing table.
		ServerListFile string `json:"serverListFile" yaml:"serverListFile"`
	} `json:"whois" yaml:"whois"`

	Log utils.LogOptions `json:"log" yaml:"log"`
}
