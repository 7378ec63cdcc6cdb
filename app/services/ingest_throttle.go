// Package services contains infrastructure services shared by the HTTP layer
package services

import (
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// IngestThrottleConfig defines the per-token token bucket of the ingestion endpoint
type IngestThrottleConfig struct {
	RPS             float64       // sustained requests per second per token
	Burst           int           // bucket size per token
	CleanupInterval time.Duration // idle limiters older than this are evicted
}

// DefaultIngestThrottleConfig allows short bursts from automation clients
var DefaultIngestThrottleConfig = IngestThrottleConfig{
	RPS:             5,
	Burst:           20,
	CleanupInterval: 10 * time.Minute,
}

type throttleEntry struct {
	limiter  *rate.Limiter
	lastUsed atomic.Int64 // unix nanos
}

// IngestThrottle keeps one limiter per ingestion token
type IngestThrottle struct {
	limiters map[string]*throttleEntry
	mu       sync.RWMutex
	config   IngestThrottleConfig

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewIngestThrottle creates a throttle and starts its cleanup loop
func NewIngestThrottle(config IngestThrottleConfig) *IngestThrottle {
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = DefaultIngestThrottleConfig.CleanupInterval
	}
	if config.Burst <= 0 {
		config.Burst = 1
	}

	t := &IngestThrottle{
		limiters: make(map[string]*throttleEntry),
		config:   config,
		stopCh:   make(chan struct{}),
	}

	t.wg.Add(1)
	go t.cleanupLoop()

	return t
}

// Allow reports whether one more request for token fits in its bucket
func (t *IngestThrottle) Allow(token string) bool {
	return t.entry(token).limiter.Allow()
}

func (t *IngestThrottle) entry(token string) *throttleEntry {
	now := time.Now().UnixNano()

	t.mu.RLock()
	e, ok := t.limiters[token]
	t.mu.RUnlock()
	if ok {
		e.lastUsed.Store(now)
		return e
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if e, ok = t.limiters[token]; ok {
		e.lastUsed.Store(now)
		return e
	}

	e = &throttleEntry{limiter: rate.NewLimiter(rate.Limit(t.config.RPS), t.config.Burst)}
	e.lastUsed.Store(now)
	t.limiters[token] = e
	return e
}

// Cleanup evicts limiters idle for longer than the cleanup interval
func (t *IngestThrottle) Cleanup() {
	t.mu.Lock()
	defer t.mu.Unlock()

	cutoff := time.Now().Add(-t.config.CleanupInterval).UnixNano()
	for token, e := range t.limiters {
		if e.lastUsed.Load() < cutoff {
			delete(t.limiters, token)
		}
	}
}

func (t *IngestThrottle) cleanupLoop() {
	defer t.wg.Done()

	ticker := time.NewTicker(t.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			t.Cleanup()
		case <-t.stopCh:
			return
		}
	}
}

// Stop ends the cleanup loop. It is safe to call more than once.
func (t *IngestThrottle) Stop() {
	t.stopOnce.Do(func() { close(t.stopCh) })
	t.wg.Wait()
}

// Len returns the number of tracked tokens
func (t *IngestThrottle) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.limiters)
}
