package service

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// KeyedLimiter is an in-memory per-key token bucket limiter. It is safe for
// concurrent use. Keys idle for longer than the idle window are dropped.
type KeyedLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	limit    rate.Limit
	burst    int
	idle     time.Duration

	done     chan struct{}
	stopOnce sync.Once
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewKeyedLimiter creates a limiter that refills at perSecond tokens per
// second up to burst. It starts a background goroutine that sweeps idle
// keys until Stop is called.
func NewKeyedLimiter(perSecond float64, burst int) *KeyedLimiter {
	kl := &KeyedLimiter{
		limiters: make(map[string]*limiterEntry),
		limit:    rate.Limit(perSecond),
		burst:    burst,
		idle:     10 * time.Minute,
		done:     make(chan struct{}),
	}
	go kl.cleanup(5 * time.Minute)
	return kl
}

// PerMinute builds a limiter allowing n events per minute with a burst of n.
func PerMinute(n int) *KeyedLimiter {
	return NewKeyedLimiter(float64(n)/60, n)
}

// Allow reports whether key may proceed now, consuming one token if so.
func (kl *KeyedLimiter) Allow(key string) bool {
	kl.mu.Lock()
	e, ok := kl.limiters[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(kl.limit, kl.burst)}
		kl.limiters[key] = e
	}
	e.lastSeen = time.Now()
	kl.mu.Unlock()

	return e.limiter.Allow()
}

// Stop ends the sweep goroutine. It is safe to call more than once.
func (kl *KeyedLimiter) Stop() {
	kl.stopOnce.Do(func() { close(kl.done) })
}

func (kl *KeyedLimiter) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-kl.done:
			return
		case now := <-ticker.C:
			kl.sweep(now)
		}
	}
}

func (kl *KeyedLimiter) sweep(now time.Time) {
	kl.mu.Lock()
	defer kl.mu.Unlock()
	cutoff := now.Add(-kl.idle)
	for key, e := range kl.limiters {
		if e.lastSeen.Before(cutoff) {
			delete(kl.limiters, key)
		}
	}
}
