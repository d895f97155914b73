// Package ratelimit paces outbound requests per key with token buckets.
//
// The catalog client waits on the "catalog" key before every API call and on the "covers"
// key before every cover probe, so a burst of probes can never starve a user fetch.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Keys used by the catalog client.
const (
	KeyCatalog = "catalog"
	KeyCovers  = "covers"
)

// Limit configures one key's bucket.
type Limit struct {
	RPS   float64
	Burst int
}

type entry struct {
	limiter  *rate.Limiter
	lastUsed time.Time
}

// Keyed hands out an independent limiter per key. Keys without an override use the
// default limit. Idle keys are evicted by a background sweep.
type Keyed struct {
	mu        sync.Mutex
	entries   map[string]*entry
	fallback  Limit
	overrides map[string]Limit
	idleTTL   time.Duration
	now       func() time.Time

	done     chan struct{}
	stopOnce sync.Once
}

// Option customizes a Keyed limiter.
type Option func(*Keyed)

// WithKeyLimit overrides the limit for a single key.
func WithKeyLimit(key string, l Limit) Option {
	return func(k *Keyed) { k.overrides[key] = l }
}

// WithIdleTTL sets how long an unused key is kept. Zero disables eviction.
func WithIdleTTL(d time.Duration) Option {
	return func(k *Keyed) { k.idleTTL = d }
}

// New creates a keyed limiter allowing rps requests per second with the given burst.
func New(rps float64, burst int, opts ...Option) *Keyed {
	k := &Keyed{
		entries:   make(map[string]*entry),
		fallback:  Limit{RPS: rps, Burst: burst},
		overrides: make(map[string]Limit),
		idleTTL:   10 * time.Minute,
		now:       time.Now,
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(k)
	}

	if k.idleTTL > 0 {
		go k.sweep()
	}

	return k
}

// Allow reports whether a request for key may proceed now, consuming a token if so.
func (k *Keyed) Allow(key string) bool {
	return k.limiter(key).Allow()
}

// Wait blocks until a request for key may proceed or ctx is done.
func (k *Keyed) Wait(ctx context.Context, key string) error {
	return k.limiter(key).Wait(ctx)
}

// Len returns the number of tracked keys.
func (k *Keyed) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.entries)
}

func (k *Keyed) limiter(key string) *rate.Limiter {
	k.mu.Lock()
	defer k.mu.Unlock()

	e, ok := k.entries[key]
	if !ok {
		l, ok := k.overrides[key]
		if !ok {
			l = k.fallback
		}
		e = &entry{limiter: rate.NewLimiter(rate.Limit(l.RPS), l.Burst)}
		k.entries[key] = e
	}
	e.lastUsed = k.now()
	return e.limiter
}

// Stop ends the eviction sweep. Safe to call more than once.
func (k *Keyed) Stop() {
	k.stopOnce.Do(func() {
		close(k.done)
	})
}

func (k *Keyed) sweep() {
	ticker := time.NewTicker(k.idleTTL)
	defer ticker.Stop()

	for {
		select {
		case <-k.done:
			return
		case <-ticker.C:
			k.evictIdle()
		}
	}
}

func (k *Keyed) evictIdle() {
	k.mu.Lock()
	defer k.mu.Unlock()

	cutoff := k.now().Add(-k.idleTTL)
	for key, e := range k.entries {
		if e.lastUsed.Before(cutoff) {
			delete(k.entries, key)
		}
	}
}
