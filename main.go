package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KincaidYang/whoischain/config"
	"github.com/KincaidYang/whoischain/handle_resources"
	"github.com/KincaidYang/whoischain/server_lists"
	"github.com/KincaidYang/whoischain/utils"
	"github.com/KincaidYang/whoischain/whois_tools"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// shutdownTimeout bounds how long in-flight queries may take after a
// shutdown signal.
const shutdownTimeout = 30 * time.Second

// newRedisClient returns the Redis client backing the primary cache.
func newRedisClient(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:            cfg.Redis.Addr,
		Password:        cfg.Redis.Password,
		DB:              cfg.Redis.DB,
		PoolSize:        10,
		MinIdleConns:    0,
		MaxRetries:      1,
		MinRetryBackoff: 8 * time.Millisecond,
		MaxRetryBackoff: 512 * time.Millisecond,
		DialTimeout:     2 * time.Second,
		ReadTimeout:     2 * time.Second,
		WriteTimeout:    2 * time.Second,
		PoolTimeout:     2 * time.Second,
	})
}

// newCache sets up the cache with Redis primary and memory fallback.
func newCache(cfg *config.Config, client redis.UniversalClient, logger *zap.Logger) (*utils.FallbackCache, *utils.RedisCache, *utils.MemoryCache, error) {
	redisCache := utils.NewRedisCache(client, logger)
	memoryCache := utils.NewMemoryCache(cfg.Cache.MemoryMaxSize, cfg.MemoryCleanInterval(), logger)
	cache := utils.NewFallbackCache(redisCache, memoryCache, logger)

	if redisCache.IsHealthy() {
		logger.Info("Redis cache initialized successfully", zap.String("addr", cfg.Redis.Addr))
	} else {
		if cfg.Cache.RequireRedis {
			redisCache.Close()
			memoryCache.Close()
			return nil, nil, nil, errors.New("redis is required but unavailable, set cache.requireRedis to false to allow fallback")
		}
		logger.Warn("Redis unavailable, using memory cache as fallback", zap.String("addr", cfg.Redis.Addr))
	}

	logger.Info("Cache configured",
		zap.Int("memoryMaxSize", cfg.Cache.MemoryMaxSize),
		zap.Duration("memoryCleanInterval", cfg.MemoryCleanInterval()),
		zap.Duration("expiration", cfg.CacheTTL()),
	)
	return cache, redisCache, memoryCache, nil
}

// newResolver builds the resolver with a direct transport and, when a proxy
// is configured, a SOCKS5 transport for the proxied suffixes.
func newResolver(cfg *config.Config, table *server_lists.Table, logger *zap.Logger, metrics *utils.Metrics) (*whois_tools.Resolver, error) {
	transport, err := whois_tools.NewTransport(whois_tools.TransportOptions{
		Timeout: cfg.WhoisTimeout(),
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}

	resolverConfig := whois_tools.ResolverConfig{
		Table:        table,
		Transport:    transport,
		MaxReferrals: cfg.Whois.MaxReferrals,
		Logger:       logger,
		Metrics:      metrics,
	}

	if cfg.ProxyServer != "" && len(cfg.ProxySuffixes) > 0 {
		proxyTransport, err := whois_tools.NewTransport(whois_tools.TransportOptions{
			Timeout:       cfg.WhoisTimeout(),
			ProxyServer:   cfg.ProxyServer,
			ProxyUsername: cfg.ProxyUsername,
			ProxyPassword: cfg.ProxyPassword,
			Logger:        logger,
		})
		if err != nil {
			return nil, err
		}
		resolverConfig.ProxyTransport = proxyTransport
		resolverConfig.ProxySuffixes = cfg.ProxySuffixes
		logger.Info("WHOIS proxy enabled", zap.String("proxy", cfg.ProxyServer), zap.Strings("suffixes", cfg.ProxySuffixes))
	}

	return whois_tools.NewResolver(resolverConfig)
}

// newRouter registers every endpoint of the service.
func newRouter(h *handle_resources.Handler, reg *prometheus.Registry) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /", h.HandleDomain)
	mux.HandleFunc("GET /health", h.HandleHealth)
	mux.HandleFunc("GET /ready", h.HandleReady)
	mux.HandleFunc("GET /info", h.HandleInfo)
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	// Resolutions take a rate limit slot inside the handler, so long-lived
	// MCP streams do not.
	mcpHandler := h.MCPHandler()
	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodDelete} {
		mux.Handle(method+" /mcp", mcpHandler)
	}
	return mux
}

func run() error {
	cfg, err := config.Load(os.Getenv("WHOIS_CONFIG"))
	if err != nil {
		return err
	}

	logger, err := utils.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("Starting whoischain",
		zap.String("version", config.Version),
		zap.String("commit", config.GitCommit),
	)

	// go-redis logs every failed dial; keep that out of the main log level.
	redis.SetLogger(&utils.RedisLogger{Logger: logger})
	redisClient := newRedisClient(cfg)
	defer redisClient.Close()

	cache, redisCache, memoryCache, err := newCache(cfg, redisClient, logger)
	if err != nil {
		return err
	}
	defer redisCache.Close()
	defer memoryCache.Close()

	table, err := server_lists.LoadTable(cfg.Whois.ServerListFile)
	if err != nil {
		return err
	}
	logger.Info("Routing table loaded", zap.Int("suffixes", table.Len()), zap.String("file", cfg.Whois.ServerListFile))

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := utils.NewMetrics(reg)

	resolver, err := newResolver(cfg, table, logger, metrics)
	if err != nil {
		return err
	}

	h := handle_resources.NewHandler(handle_resources.Options{
		Resolver:        resolver,
		Cache:           cache,
		CacheExpiration: cfg.CacheTTL(),
		RateLimit:       cfg.RateLimit,
		RequireRedis:    cfg.Cache.RequireRedis,
		Logger:          logger,
		Metrics:         metrics,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           newRouter(h, reg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server is listening", zap.Int("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// When a shutdown signal is received, wait for all queries to complete before shutting down the server.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return err
	case sig := <-sigCh:
		logger.Info("Received shutdown signal, waiting for all queries to complete...", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("Server shutdown incomplete", zap.Error(err))
	}
	if err := h.Wait(ctx); err != nil {
		logger.Warn("Abandoning running queries", zap.Error(err))
		return nil
	}

	logger.Info("All queries completed. Shutting down server...")
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "whoischain:", err)
		os.Exit(1)
	}
}
