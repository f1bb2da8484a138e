package ratelimit

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Result is the outcome of one attempt to take a permit from a window.
type Result struct {
	Allowed bool
	// ResetIn is the time left until the current window ends.
	ResetIn time.Duration
}

// Window counts admissions per key in fixed windows of equal length.
type Window interface {
	Take(ctx context.Context, key string) (Result, error)
}

// MemoryWindow keeps the counters in process. Windows start at the first request of a key.
type MemoryWindow struct {
	mu        sync.Mutex
	limit     int
	length    time.Duration
	counters  map[string]*counter
	lastSweep time.Time
	now       func() time.Time
}

type counter struct {
	start time.Time
	count int
}

func NewMemoryWindow(limit int, length time.Duration) *MemoryWindow {
	return &MemoryWindow{
		limit:    limit,
		length:   length,
		counters: make(map[string]*counter),
		now:      time.Now,
	}
}

func (w *MemoryWindow) Take(_ context.Context, key string) (Result, error) {
	now := w.now()

	w.mu.Lock()
	defer w.mu.Unlock()

	w.sweep(now)
	c, ok := w.counters[key]
	if !ok || !now.Before(c.start.Add(w.length)) {
		c = &counter{start: now}
		w.counters[key] = c
	}
	resetIn := c.start.Add(w.length).Sub(now)
	if c.count >= w.limit {
		return Result{Allowed: false, ResetIn: resetIn}, nil
	}
	c.count++
	return Result{Allowed: true, ResetIn: resetIn}, nil
}

// sweep drops expired counters at most once per window length.
func (w *MemoryWindow) sweep(now time.Time) {
	if now.Sub(w.lastSweep) < w.length {
		return
	}
	w.lastSweep = now
	for key, c := range w.counters {
		if !now.Before(c.start.Add(w.length)) {
			delete(w.counters, key)
		}
	}
}

// RedisWindow shares the counters between replicas. Windows are aligned to multiples of the
// window length so every replica agrees on the boundaries.
type RedisWindow struct {
	rdb    redis.Cmdable
	limit  int
	length time.Duration
	prefix string
	now    func() time.Time
}

type RedisWindowOption func(*RedisWindow)

func WithKeyPrefix(prefix string) RedisWindowOption {
	return func(w *RedisWindow) { w.prefix = strings.Trim(prefix, ":") }
}

func NewRedisWindow(rdb redis.Cmdable, limit int, length time.Duration, opts ...RedisWindowOption) *RedisWindow {
	w := &RedisWindow{
		rdb:    rdb,
		limit:  limit,
		length: length,
		prefix: "dogshouse:ratelimit",
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *RedisWindow) Take(ctx context.Context, key string) (Result, error) {
	now := w.now()
	start := now.Truncate(w.length)
	resetIn := start.Add(w.length).Sub(now)
	redisKey := w.prefix + ":" + key + ":" + strconv.FormatInt(start.UnixMilli(), 10)

	pipe := w.rdb.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.PExpire(ctx, redisKey, w.length)
	if _, err := pipe.Exec(ctx); err != nil {
		return Result{}, err
	}
	return Result{Allowed: incr.Val() <= int64(w.limit), ResetIn: resetIn}, nil
}

var (
	_ Window = (*MemoryWindow)(nil)
	_ Window = (*RedisWindow)(nil)
)
