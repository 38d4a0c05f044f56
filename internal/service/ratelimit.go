package service

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// KeyedLimiter is an in-memory per-key token bucket limiter. Each key (for
// example a client IP) gets its own rate.Limiter. Entries idle for longer
// than the TTL are removed by a background sweeper until Close is called.
type KeyedLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	every    rate.Limit
	burst    int
	ttl      time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewKeyedLimiter allows burst requests per key, refilled at perMinute
// tokens per minute. perMinute <= 0 disables limiting.
func NewKeyedLimiter(perMinute, burst int) *KeyedLimiter {
	kl := &KeyedLimiter{
		limiters: make(map[string]*limiterEntry),
		burst:    burst,
		ttl:      10 * time.Minute,
		stop:     make(chan struct{}),
	}
	if perMinute > 0 {
		kl.every = rate.Every(time.Minute / time.Duration(perMinute))
	}
	if kl.burst <= 0 {
		kl.burst = max(perMinute, 1)
	}
	go kl.sweep(5 * time.Minute)
	return kl
}

// Allow reports whether key may proceed, consuming one token when it may.
func (kl *KeyedLimiter) Allow(key string) bool {
	if kl.every == 0 {
		return true
	}

	kl.mu.Lock()
	entry, ok := kl.limiters[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(kl.every, kl.burst)}
		kl.limiters[key] = entry
	}
	entry.lastSeen = time.Now()
	kl.mu.Unlock()

	return entry.limiter.Allow()
}

// Len returns the number of tracked keys.
func (kl *KeyedLimiter) Len() int {
	kl.mu.Lock()
	defer kl.mu.Unlock()
	return len(kl.limiters)
}

// Close stops the background sweeper.
func (kl *KeyedLimiter) Close() {
	kl.stopOnce.Do(func() { close(kl.stop) })
}

func (kl *KeyedLimiter) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			kl.evictIdle(time.Now())
		case <-kl.stop:
			return
		}
	}
}

func (kl *KeyedLimiter) evictIdle(now time.Time) {
	kl.mu.Lock()
	defer kl.mu.Unlock()
	for key, entry := range kl.limiters {
		if now.Sub(entry.lastSeen) > kl.ttl {
			delete(kl.limiters, key)
		}
	}
}
