// Package cache is the process-wide response cache that sits in front of
// read-only upstream calls. Entries expire after a fixed TTL and concurrent
// reads of the same key share one in-flight fetch.
package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL is how long a fetched body is served before it is refetched.
const DefaultTTL = 5 * time.Minute

// Lookup outcomes reported to the Recorder.
const (
	OutcomeHit    = "hit"
	OutcomeMiss   = "miss"
	OutcomeShared = "shared"
	OutcomeError  = "error"
)

// FetchFunc loads the body for target. target is either an absolute URL or a
// path relative to the upstream origin.
type FetchFunc func(ctx context.Context, target string) ([]byte, error)

// Recorder receives one outcome per Fetch.
type Recorder interface {
	CacheEvent(outcome string)
}

type entry struct {
	timestamp time.Time
	data      []byte
}

// Cache - TTL cache with single-flight fetches.
type Cache struct {
	fetch    FetchFunc
	ttl      time.Duration
	now      func() time.Time
	origin   string
	recorder Recorder
	logger   *zap.SugaredLogger

	mu      sync.Mutex
	entries map[string]entry
	group   singleflight.Group
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// WithOrigin makes relative keys absolute before they are handed to the fetcher.
func WithOrigin(origin string) Option {
	return func(c *Cache) {
		c.origin = strings.TrimRight(origin, "/")
	}
}

// WithRecorder reports lookup outcomes to r.
func WithRecorder(r Recorder) Option {
	return func(c *Cache) {
		c.recorder = r
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(c *Cache) {
		c.logger = l
	}
}

// New creates a cache backed by fetch.
func New(fetch FetchFunc, opts ...Option) *Cache {
	c := &Cache{
		fetch:   fetch,
		ttl:     DefaultTTL,
		now:     time.Now,
		logger:  zap.NewNop().Sugar(),
		entries: make(map[string]entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch returns the body for path, from memory when a fresh entry exists.
// Failed fetches propagate and are never stored. The returned slice is shared
// between callers and must not be modified.
func (c *Cache) Fetch(ctx context.Context, path string) ([]byte, error) {
	key := Normalize(path)

	if data, ok := c.lookup(key); ok {
		c.record(OutcomeHit)
		return data, nil
	}

	leader, fetched := false, false
	v, err, _ := c.group.Do(key, func() (any, error) {
		leader = true
		if data, ok := c.lookup(key); ok {
			return data, nil
		}
		fetched = true

		// Waiters share this call, so it must outlive the leader's request.
		data, err := c.fetch(context.WithoutCancel(ctx), c.target(key))
		if err != nil {
			return nil, err
		}
		c.store(key, data)
		return data, nil
	})

	switch {
	case err != nil:
		if leader {
			c.record(OutcomeError)
			c.logger.Debugw("cache fetch failed", "key", key, "error", err)
		}
		return nil, err
	case fetched:
		c.record(OutcomeMiss)
	case leader:
		c.record(OutcomeHit)
	default:
		c.record(OutcomeShared)
	}
	return v.([]byte), nil
}

// Len returns the number of stored entries, fresh or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// Normalize trims path and gives relative paths a leading slash. Absolute URLs
// are returned trimmed.
func Normalize(path string) string {
	path = strings.TrimSpace(path)
	if strings.Contains(path, "://") || strings.HasPrefix(path, "/") {
		return path
	}
	return "/" + path
}

func (c *Cache) target(key string) string {
	if c.origin == "" || !strings.HasPrefix(key, "/") {
		return key
	}
	return c.origin + key
}

func (c *Cache) lookup(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.timestamp) >= c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return e.data, true
}

func (c *Cache) store(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{timestamp: c.now(), data: data}
}

func (c *Cache) record(outcome string) {
	if c.recorder != nil {
		c.recorder.CacheEvent(outcome)
	}
}
