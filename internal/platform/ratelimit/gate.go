// Package ratelimit implements the fixed window admission gate in front of the HTTP API.
package ratelimit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Options configure the gate. QueueLimit may be zero to reject immediately.
type Options struct {
	PermitLimit int
	Window      time.Duration
	QueueLimit  int
}

// Validate reports settings the gate cannot run with.
func (o Options) Validate() error {
	if o.PermitLimit <= 0 {
		return errors.New("rate limiting permit limit must be positive")
	}
	if o.Window <= 0 {
		return errors.New("rate limiting window must be positive")
	}
	if o.QueueLimit < 0 {
		return errors.New("rate limiting queue limit cannot be negative")
	}
	return nil
}

// Decision tells the caller whether a request may proceed.
type Decision struct {
	Allowed bool
	// RetryAfter is set on rejections.
	RetryAfter time.Duration
}

// Gate admits requests per key through a Window. Requests over the limit wait in a per-key
// queue of at most QueueLimit entries and are released oldest first as windows reset.
type Gate struct {
	opts   Options
	window Window
	logger *slog.Logger
	warn   *rate.Sometimes

	mu     sync.Mutex
	queues map[string]*keyQueue
}

// keyQueue serialises waiters of one key. Holding turn makes a waiter the head of the queue;
// goroutines blocked on a channel receive in arrival order.
type keyQueue struct {
	slots chan struct{}
	turn  chan struct{}
	refs  int
}

type GateOption func(*Gate)

func WithLogger(logger *slog.Logger) GateOption {
	return func(g *Gate) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithWindow replaces the in-memory window, e.g. with a RedisWindow.
func WithWindow(window Window) GateOption {
	return func(g *Gate) {
		if window != nil {
			g.window = window
		}
	}
}

func NewGate(opts Options, gateOpts ...GateOption) (*Gate, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	g := &Gate{
		opts:   opts,
		window: NewMemoryWindow(opts.PermitLimit, opts.Window),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		warn:   &rate.Sometimes{First: 1, Interval: 10 * time.Second},
		queues: make(map[string]*keyQueue),
	}
	for _, opt := range gateOpts {
		if opt != nil {
			opt(g)
		}
	}
	return g, nil
}

// Admit blocks while the request is queued. It returns the context error when ctx ends
// before a permit is granted; the queued entry is dropped in that case.
func (g *Gate) Admit(ctx context.Context, key string) (Decision, error) {
	q := g.acquireQueue(key)
	defer g.releaseQueue(key, q)

	retryAfter := g.opts.Window
	if len(q.slots) == 0 {
		res, ok := g.take(ctx, key)
		if ok {
			return Decision{Allowed: true}, nil
		}
		retryAfter = res.ResetIn
	}

	select {
	case q.slots <- struct{}{}:
	default:
		return g.reject(key, retryAfter), nil
	}
	defer func() { <-q.slots }()

	select {
	case <-q.turn:
	case <-ctx.Done():
		return Decision{}, ctx.Err()
	}
	defer func() { q.turn <- struct{}{} }()

	for {
		res, ok := g.take(ctx, key)
		if ok {
			return Decision{Allowed: true}, nil
		}
		timer := time.NewTimer(max(res.ResetIn, time.Millisecond))
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return Decision{}, ctx.Err()
		}
	}
}

// Queued reports how many requests of key are waiting.
func (g *Gate) Queued(key string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	if q, ok := g.queues[key]; ok {
		return len(q.slots)
	}
	return 0
}

// take asks the window for a permit. Window failures let the request through.
func (g *Gate) take(ctx context.Context, key string) (Result, bool) {
	res, err := g.window.Take(ctx, key)
	if err != nil {
		g.logger.WarnContext(ctx, "rate limit window unavailable, admitting request",
			slog.String("key", key), slog.String("error", err.Error()))
		return Result{}, true
	}
	return res, res.Allowed
}

func (g *Gate) reject(key string, retryAfter time.Duration) Decision {
	g.warn.Do(func() {
		g.logger.Warn("rate limit exceeded, rejecting request",
			slog.String("key", key), slog.Int("queueLimit", g.opts.QueueLimit))
	})
	return Decision{Allowed: false, RetryAfter: retryAfter}
}

func (g *Gate) acquireQueue(key string) *keyQueue {
	g.mu.Lock()
	defer g.mu.Unlock()
	q, ok := g.queues[key]
	if !ok {
		q = &keyQueue{
			slots: make(chan struct{}, g.opts.QueueLimit),
			turn:  make(chan struct{}, 1),
		}
		q.turn <- struct{}{}
		g.queues[key] = q
	}
	q.refs++
	return q
}

func (g *Gate) releaseQueue(key string, q *keyQueue) {
	g.mu.Lock()
	defer g.mu.Unlock()
	q.refs--
	if q.refs == 0 {
		delete(g.queues, key)
	}
}
