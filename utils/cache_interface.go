package utils

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Cache stores encoded resolution results by key.
type Cache interface {
	Get(ctx context.Context, key string) (CacheResult, error)
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	IsHealthy() bool
}

// cacheEntry represents a cached item with expiration
type cacheEntry struct {
	Value     string
	ExpiresAt time.Time
}

// MemoryCache implements Cache in process memory. Entries beyond maxSize are
// dropped rather than evicting live ones.
type MemoryCache struct {
	data          sync.Map
	maxSize       int
	cleanInterval time.Duration
	mu            sync.RWMutex
	size          int
	logger        *zap.Logger
	stop          chan struct{}
	stopOnce      sync.Once
}

// NewMemoryCache creates a new memory cache and starts its cleaner.
func NewMemoryCache(maxSize int, cleanInterval time.Duration, logger *zap.Logger) *MemoryCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	mc := &MemoryCache{
		maxSize:       maxSize,
		cleanInterval: cleanInterval,
		logger:        logger,
		stop:          make(chan struct{}),
	}

	go mc.startCleaner()

	return mc
}

// Get retrieves a value from memory cache
func (mc *MemoryCache) Get(ctx context.Context, key string) (CacheResult, error) {
	value, ok := mc.data.Load(key)
	if !ok {
		return CacheResult{Found: false}, nil
	}

	entry := value.(cacheEntry)

	if time.Now().After(entry.ExpiresAt) {
		if mc.data.CompareAndDelete(key, value) {
			mc.decrementSize()
		}
		return CacheResult{Found: false}, nil
	}

	mc.logger.Debug("Serving cached result from memory", zap.String("key", key))
	return CacheResult{Data: entry.Value, Found: true}, nil
}

// Set stores a value in memory cache
func (mc *MemoryCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	if _, exists := mc.data.Load(key); !exists {
		if mc.Len() >= mc.maxSize {
			mc.cleanExpired()

			if mc.Len() >= mc.maxSize {
				mc.logger.Debug("Memory cache full, skipping", zap.String("key", key), zap.Int("maxSize", mc.maxSize))
				return nil
			}
		}
	}

	entry := cacheEntry{
		Value:     value,
		ExpiresAt: time.Now().Add(expiration),
	}

	if _, existed := mc.data.Swap(key, entry); !existed {
		mc.incrementSize()
	}

	return nil
}

// IsHealthy always returns true for memory cache
func (mc *MemoryCache) IsHealthy() bool {
	return true
}

// Len returns the number of stored entries, expired ones included until the
// next clean.
func (mc *MemoryCache) Len() int {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return mc.size
}

// Close stops the background cleaner.
func (mc *MemoryCache) Close() {
	mc.stopOnce.Do(func() { close(mc.stop) })
}

func (mc *MemoryCache) incrementSize() {
	mc.mu.Lock()
	mc.size++
	mc.mu.Unlock()
}

func (mc *MemoryCache) decrementSize() {
	mc.mu.Lock()
	if mc.size > 0 {
		mc.size--
	}
	mc.mu.Unlock()
}

// startCleaner runs a periodic cleanup of expired entries
func (mc *MemoryCache) startCleaner() {
	if mc.cleanInterval <= 0 {
		return
	}
	ticker := time.NewTicker(mc.cleanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			mc.cleanExpired()
		case <-mc.stop:
			return
		}
	}
}

// cleanExpired removes all expired entries
func (mc *MemoryCache) cleanExpired() {
	now := time.Now()

	mc.data.Range(func(key, value any) bool {
		entry := value.(cacheEntry)
		if now.After(entry.ExpiresAt) && mc.data.CompareAndDelete(key, value) {
			mc.decrementSize()
		}
		return true
	})
}

// FallbackCache writes to both caches and reads from the primary while it
// is healthy.
type FallbackCache struct {
	primary  Cache
	fallback Cache
	logger   *zap.Logger
}

// NewFallbackCache creates a new fallback cache
func NewFallbackCache(primary, fallback Cache, logger *zap.Logger) *FallbackCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FallbackCache{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// Get tries primary cache first, then fallback
func (fc *FallbackCache) Get(ctx context.Context, key string) (CacheResult, error) {
	if fc.primary.IsHealthy() {
		result, err := fc.primary.Get(ctx, key)
		if err == nil {
			// Both caches are written on Set, so a primary miss is final.
			return result, nil
		}
		fc.logger.Warn("Primary cache read failed, using fallback", zap.String("key", key), zap.Error(err))
	}

	return fc.fallback.Get(ctx, key)
}

// Set attempts to write to both caches
func (fc *FallbackCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	var primaryErr error

	if fc.primary.IsHealthy() {
		primaryErr = fc.primary.Set(ctx, key, value, expiration)
	}

	fallbackErr := fc.fallback.Set(ctx, key, value, expiration)

	if primaryErr != nil {
		return primaryErr
	}
	return fallbackErr
}

// IsHealthy returns true if either cache is healthy
func (fc *FallbackCache) IsHealthy() bool {
	return fc.primary.IsHealthy() || fc.fallback.IsHealthy()
}

// IsPrimaryHealthy returns true if the primary cache (Redis) is healthy
func (fc *FallbackCache) IsPrimaryHealthy() bool {
	return fc.primary.IsHealthy()
}
