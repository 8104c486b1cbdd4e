package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

// CacheResult represents the result of a cache operation
type CacheResult struct {
	Data  string
	Found bool
}

// CacheKey returns the key a resolution of domain is stored under.
func CacheKey(domain string, neverCut bool) string {
	if neverCut {
		return "whois:" + domain + ":nevercut"
	}
	return "whois:" + domain
}

// GetFromCache looks key up in cache and records the outcome in metrics.
func GetFromCache(ctx context.Context, cache Cache, metrics *Metrics, key string) (CacheResult, error) {
	result, err := cache.Get(ctx, key)
	switch {
	case err != nil:
		metrics.ObserveCacheLookup("error")
	case result.Found:
		metrics.ObserveCacheLookup("hit")
	default:
		metrics.ObserveCacheLookup("miss")
	}
	return result, err
}

// SetToCache stores data in cache, JSON-encoding anything but a string.
func SetToCache(ctx context.Context, cache Cache, key string, data any, expiration time.Duration) error {
	var dataStr string

	switch v := data.(type) {
	case string:
		dataStr = v
	default:
		resultBytes, err := json.Marshal(data)
		if err != nil {
			return errors.Wrap(err, "failed to marshal data for caching")
		}
		dataStr = string(resultBytes)
	}

	return cache.Set(ctx, key, dataStr, expiration)
}

// HandleCacheResponse writes cached data to HTTP response
func HandleCacheResponse(w http.ResponseWriter, data string, contentType string) {
	if contentType == "" {
		contentType = "application/json"
	}
	w.Header().Set("Content-Type", contentType)
	fmt.Fprint(w, data)
}
