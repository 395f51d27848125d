// Package ratelimit provides a per-client token bucket held in memory and a
// fixed-window counter shared through redis.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPLimiter keeps one token bucket per client key.
type IPLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rps      rate.Limit
	burst    int
}

func NewIPLimiter(rps float64, burst int) *IPLimiter {
	return &IPLimiter{
		visitors: make(map[string]*visitor),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
}

func (l *IPLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = time.Now()
	return v.limiter.Allow()
}

// Sweep forgets clients idle for longer than idle.
func (l *IPLimiter) Sweep(idle time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for key, v := range l.visitors {
		if time.Since(v.lastSeen) > idle {
			delete(l.visitors, key)
			removed++
		}
	}
	return removed
}

// Run sweeps on every tick until ctx is done.
func (l *IPLimiter) Run(ctx context.Context, every, idle time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Sweep(idle)
		}
	}
}

// RedisWindow allows limit hits per key within each window.
type RedisWindow struct {
	client *redis.Client
	prefix string
	limit  int64
	window time.Duration
}

func NewRedisWindow(client *redis.Client, prefix string, limit int, window time.Duration) *RedisWindow {
	return &RedisWindow{client: client, prefix: prefix, limit: int64(limit), window: window}
}

// Allow counts a hit for key. When the limit is exceeded it returns false and
// the time until the window resets.
func (w *RedisWindow) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	k := fmt.Sprintf("%s:%s", w.prefix, key)

	count, err := w.client.Incr(ctx, k).Result()
	if err != nil {
		return false, 0, fmt.Errorf("incrementing %s: %w", k, err)
	}

	ttl, err := w.client.TTL(ctx, k).Result()
	if err != nil {
		return false, 0, fmt.Errorf("reading ttl of %s: %w", k, err)
	}
	// First hit of the window, or a key left without expiry.
	if count == 1 || ttl < 0 {
		if err := w.client.Expire(ctx, k, w.window).Err(); err != nil {
			return false, 0, fmt.Errorf("setting expiry of %s: %w", k, err)
		}
		ttl = w.window
	}

	if count > w.limit {
		return false, ttl, nil
	}
	return true, 0, nil
}
