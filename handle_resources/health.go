package handle_resources

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/KincaidYang/whoischain/config"
	"github.com/KincaidYang/whoischain/utils"
)

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status    string           `json:"status"`
	Timestamp string           `json:"timestamp"`
	Uptime    string           `json:"uptime,omitempty"`
	Checks    map[string]Check `json:"checks"`
}

// Check represents a single health check result
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// primaryHealthy reports whether the primary cache (Redis) is usable.
func (h *Handler) primaryHealthy() bool {
	if h.cache == nil {
		return false
	}
	if fc, ok := h.cache.(*utils.FallbackCache); ok {
		return fc.IsPrimaryHealthy()
	}
	return h.cache.IsHealthy()
}

func (h *Handler) cacheCheck() (Check, bool) {
	if h.cache == nil {
		return Check{Status: "ok", Message: "disabled"}, true
	}
	if !h.cache.IsHealthy() {
		return Check{Status: "fail", Message: "no cache available"}, false
	}
	if h.primaryHealthy() {
		return Check{Status: "ok", Message: "redis"}, true
	}
	return Check{Status: "ok", Message: "memory"}, true
}

func (h *Handler) capacityCheck() Check {
	if h.limiter == nil {
		return Check{Status: "ok", Message: "unlimited"}
	}
	currentLoad := len(h.limiter)
	if currentLoad >= h.rateLimit {
		return Check{Status: "warning", Message: fmt.Sprintf("at limit (%d/%d)", currentLoad, h.rateLimit)}
	}
	return Check{Status: "ok", Message: fmt.Sprintf("%d/%d", currentLoad, h.rateLimit)}
}

func (h *Handler) uptime() string {
	return time.Since(h.startTime).Round(time.Second).String()
}

// HandleHealth handles the /health endpoint. It answers 200 while the
// process is running.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	cacheCheck, _ := h.cacheCheck()

	status := HealthStatus{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    h.uptime(),
		Checks: map[string]Check{
			"cache": cacheCheck,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(status)
}

// HandleReady handles the /ready endpoint. It answers 503 when the cache is
// unusable or Redis is required but down.
func (h *Handler) HandleReady(w http.ResponseWriter, r *http.Request) {
	httpStatus := http.StatusOK
	overallStatus := "ok"

	cacheCheck, cacheOk := h.cacheCheck()

	if h.requireRedis && !h.primaryHealthy() {
		overallStatus = "unavailable"
		cacheCheck = Check{Status: "fail", Message: "redis required but unavailable"}
		httpStatus = http.StatusServiceUnavailable
	} else if !cacheOk {
		overallStatus = "unavailable"
		httpStatus = http.StatusServiceUnavailable
	}

	status := HealthStatus{
		Status:    overallStatus,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    h.uptime(),
		Checks: map[string]Check{
			"cache":    cacheCheck,
			"capacity": h.capacityCheck(),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	json.NewEncoder(w).Encode(status)
}

// RuntimeInfo represents runtime information
type RuntimeInfo struct {
	Version      string `json:"version"`
	BuildTime    string `json:"buildTime,omitempty"`
	GitCommit    string `json:"gitCommit,omitempty"`
	GoVersion    string `json:"goVersion"`
	Uptime       string `json:"uptime"`
	NumGoroutine int    `json:"numGoroutine"`
	NumCPU       int    `json:"numCPU"`
}

// HandleInfo handles the /info endpoint
func (h *Handler) HandleInfo(w http.ResponseWriter, r *http.Request) {
	info := RuntimeInfo{
		Version:      config.Version,
		GoVersion:    runtime.Version(),
		Uptime:       h.uptime(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
	}

	// Only include build info if available
	if config.BuildTime != "unknown" {
		info.BuildTime = config.BuildTime
	}
	if config.GitCommit != "unknown" {
		info.GitCommit = config.GitCommit
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(info)
}
