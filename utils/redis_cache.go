package utils

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const redisHealthInterval = 30 * time.Second

// RedisCache implements Cache on a Redis server. It stops serving while the
// last ping failed and recovers on the next successful one.
type RedisCache struct {
	client        redis.UniversalClient
	logger        *zap.Logger
	healthy       bool
	healthChecked bool
	mu            sync.RWMutex
	stop          chan struct{}
	stopOnce      sync.Once
}

// NewRedisCache pings client once and starts the background health checker.
func NewRedisCache(client redis.UniversalClient, logger *zap.Logger) *RedisCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	rc := &RedisCache{
		client: client,
		logger: logger,
		stop:   make(chan struct{}),
	}

	rc.checkHealth(true)

	go rc.startHealthChecker()

	return rc
}

// Get retrieves a value from Redis cache
func (rc *RedisCache) Get(ctx context.Context, key string) (CacheResult, error) {
	if !rc.IsHealthy() {
		return CacheResult{Found: false}, nil
	}

	cacheResult, err := rc.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		rc.logger.Debug("Serving cached result from Redis", zap.String("key", key))
		return CacheResult{Data: cacheResult, Found: true}, nil
	case errors.Is(err, redis.Nil):
		return CacheResult{Found: false}, nil
	default:
		rc.setHealthy(false)
		return CacheResult{Found: false}, errors.Wrapf(err, "redis get %s", key)
	}
}

// Set stores a value in Redis cache. It is a no-op while Redis is unhealthy.
func (rc *RedisCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	if !rc.IsHealthy() {
		return nil
	}

	if err := rc.client.Set(ctx, key, value, expiration).Err(); err != nil {
		rc.setHealthy(false)
		return errors.Wrapf(err, "redis set %s", key)
	}

	return nil
}

// IsHealthy returns the health status of Redis connection
func (rc *RedisCache) IsHealthy() bool {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	return rc.healthy
}

// Close stops the background health checker. The client is left open.
func (rc *RedisCache) Close() {
	rc.stopOnce.Do(func() { close(rc.stop) })
}

func (rc *RedisCache) setHealthy(healthy bool) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.healthy = healthy
}

func (rc *RedisCache) checkHealth(isInitial bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	wasHealthy := rc.IsHealthy()
	_, err := rc.client.Ping(ctx).Result()

	if err != nil {
		rc.setHealthy(false)
		// Repeated failures stay quiet.
		if isInitial {
			rc.logger.Warn("Redis unavailable", zap.Error(err))
		} else if wasHealthy {
			rc.logger.Warn("Redis connection lost", zap.Error(err))
		}
	} else {
		rc.setHealthy(true)
		if !isInitial && !wasHealthy {
			rc.logger.Info("Redis connection restored")
		}
	}

	rc.mu.Lock()
	rc.healthChecked = true
	rc.mu.Unlock()
}

func (rc *RedisCache) startHealthChecker() {
	ticker := time.NewTicker(redisHealthInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rc.checkHealth(false)
		case <-rc.stop:
			return
		}
	}
}
