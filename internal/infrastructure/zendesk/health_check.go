package zendesk

import (
	"context"
	"sync"
	"time"
)

// DefaultHealthCacheTTL bounds how often readiness checks reach Zendesk.
const DefaultHealthCacheTTL = 30 * time.Second

// Pinger is implemented by Client.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthCheckResult represents the result of a health check.
type HealthCheckResult struct {
	Healthy      bool
	CheckedAt    time.Time
	ResponseTime time.Duration
	Error        error
}

// HealthChecker runs Zendesk credential checks for the readiness endpoint and
// caches the last result.
type HealthChecker struct {
	client   Pinger
	cacheTTL time.Duration
	now      func() time.Time

	mu         sync.RWMutex
	lastResult *HealthCheckResult
}

// NewHealthChecker creates a checker. A non-positive ttl uses DefaultHealthCacheTTL.
func NewHealthChecker(client Pinger, ttl time.Duration) *HealthChecker {
	if ttl <= 0 {
		ttl = DefaultHealthCacheTTL
	}
	return &HealthChecker{
		client:   client,
		cacheTTL: ttl,
		now:      time.Now,
	}
}

// Ping returns the cached result if it is fresh, otherwise checks Zendesk.
func (h *HealthChecker) Ping(ctx context.Context) error {
	h.mu.RLock()
	if h.lastResult != nil && h.now().Sub(h.lastResult.CheckedAt) < h.cacheTTL {
		err := h.lastResult.Error
		h.mu.RUnlock()
		return err
	}
	h.mu.RUnlock()

	start := h.now()
	err := h.client.Ping(ctx)
	result := &HealthCheckResult{
		Healthy:      err == nil,
		CheckedAt:    start,
		ResponseTime: h.now().Sub(start),
		Error:        err,
	}

	h.mu.Lock()
	h.lastResult = result
	h.mu.Unlock()

	return err
}

// LastResult returns the last check result, or nil if none ran yet.
func (h *HealthChecker) LastResult() *HealthCheckResult {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.lastResult
}
