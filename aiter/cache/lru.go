// Package cache provides a size-bounded, least-recently-used memoization
// cache for asynchronous computations, with an at-most-one-in-flight
// guarantee per key: concurrent callers missing on the same key share a
// single computation and observe the identical value or identical failure.
package cache

import (
	"container/list"
	"context"
	"fmt"
	"sync"

	"github.com/lguimbarda/aiter/aiter/core"
)

// Info is a snapshot of a cache's counters and bounds. MaxSize is negative
// for an unbounded cache.
type Info struct {
	Hits    int64
	Misses  int64
	MaxSize int
	Size    int
}

// Unbounded is the MaxSize reported by caches that never evict.
const Unbounded = -1

type entry[K comparable, V any] struct {
	key K
	val V
}

// inflight marks a running computation. Waiters block on done; val and err
// are set before done is closed and never written afterwards.
type inflight[V any] struct {
	done chan struct{}
	val  V
	err  error
}

// Cache memoizes the results of asynchronous computations by key.
//
// Entries are ordered by recency; a read hit and a write both refresh an
// entry. When maxsize is exceeded, the least recently used entry is
// evicted, ties broken by insertion order. Failed computations are never
// stored. Safe for concurrent use.
type Cache[K comparable, V any] struct {
	mu      sync.Mutex
	maxsize int // 0 disables storage, Unbounded never evicts
	gen     uint64
	hits    int64
	misses  int64
	order   *list.List // front = most recently used, elements hold *entry
	table   map[K]*list.Element
	pending map[K]*inflight[V]
}

// New creates a cache holding at most maxsize entries. A maxsize of zero
// (or below) disables storage entirely: every call recomputes and counts as
// a miss, though concurrent calls on one key still share a computation.
func New[K comparable, V any](maxsize int) *Cache[K, V] {
	if maxsize < 0 {
		maxsize = 0
	}
	return newCache[K, V](maxsize)
}

// NewUnbounded creates a cache that never evicts.
func NewUnbounded[K comparable, V any]() *Cache[K, V] {
	return newCache[K, V](Unbounded)
}

func newCache[K comparable, V any](maxsize int) *Cache[K, V] {
	return &Cache[K, V]{
		maxsize: maxsize,
		order:   list.New(),
		table:   make(map[K]*list.Element),
		pending: make(map[K]*inflight[V]),
	}
}

// Do returns the cached value for key, computing it with compute on a
// miss. At most one computation runs per key at a time: callers arriving
// while one is in flight suspend until it resolves and share its value or
// failure, counting as neither hits nor misses. A successful result is
// stored and refreshed in recency order; a failure is propagated to every
// waiter and stored nowhere.
//
// The computation runs detached from the caller's context, so a cancelled
// caller - the one that started it included - detaches from waiting
// without aborting the result other waiters will receive.
func (c *Cache[K, V]) Do(ctx context.Context, key K, compute func(context.Context) (V, error)) (V, error) {
	var zero V
	if compute == nil {
		return zero, fmt.Errorf("%w: nil compute function", core.ErrInvalid)
	}

	c.mu.Lock()
	if el, ok := c.table[key]; ok {
		c.hits++
		c.order.MoveToFront(el)
		v := el.Value.(*entry[K, V]).val
		c.mu.Unlock()
		return v, nil
	}
	if fl, ok := c.pending[key]; ok {
		c.mu.Unlock()
		return c.wait(ctx, fl)
	}
	c.misses++
	fl := &inflight[V]{done: make(chan struct{})}
	c.pending[key] = fl
	gen := c.gen
	c.mu.Unlock()

	go c.run(context.WithoutCancel(ctx), key, gen, fl, compute)
	return c.wait(ctx, fl)
}

func (c *Cache[K, V]) run(ctx context.Context, key K, gen uint64, fl *inflight[V], compute func(context.Context) (V, error)) {
	v, err := func() (v V, err error) {
		defer func() {
			if rec := recover(); rec != nil {
				err = core.NewPanicError(rec)
			}
		}()
		return compute(ctx)
	}()

	c.mu.Lock()
	delete(c.pending, key)
	// Results landing after a Clear belong to the wiped generation and do
	// not repopulate the cache; their waiters still receive them.
	if err == nil && gen == c.gen && c.maxsize != 0 {
		c.insert(key, v)
	}
	fl.val, fl.err = v, err
	c.mu.Unlock()
	close(fl.done)
}

// insert stores a fresh entry at the front and evicts the back when over
// capacity. Caller holds c.mu.
func (c *Cache[K, V]) insert(key K, v V) {
	c.table[key] = c.order.PushFront(&entry[K, V]{key: key, val: v})
	if c.maxsize > 0 && c.order.Len() > c.maxsize {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.table, oldest.Value.(*entry[K, V]).key)
	}
}

func (c *Cache[K, V]) wait(ctx context.Context, fl *inflight[V]) (V, error) {
	select {
	case <-fl.done:
		return fl.val, fl.err
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	}
}

// Discard removes the entry for key if present, reporting whether it was.
// An in-flight computation for the key is unaffected.
func (c *Cache[K, V]) Discard(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.table[key]
	if !ok {
		return false
	}
	c.order.Remove(el)
	delete(c.table, key)
	return true
}

// Clear wipes all entries and counters. Computations in flight resolve
// normally for their waiters but do not repopulate the cleared cache.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.hits = 0
	c.misses = 0
	c.order.Init()
	clear(c.table)
}

// Info returns the cache's current counters and bounds.
func (c *Cache[K, V]) Info() Info {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Info{
		Hits:    c.hits,
		Misses:  c.misses,
		MaxSize: c.maxsize,
		Size:    c.order.Len(),
	}
}
