package cache

import (
	"context"
)

// Memo1 memoizes a one-argument asynchronous function.
type Memo1[A comparable, V any] struct {
	cache *Cache[A, V]
	fn    func(context.Context, A) (V, error)
}

// Wrap1 wraps fn in a cache of at most maxsize argument patterns. Pass
// Unbounded for a cache that never evicts.
func Wrap1[A comparable, V any](maxsize int, fn func(context.Context, A) (V, error)) *Memo1[A, V] {
	return &Memo1[A, V]{cache: newCache[A, V](normalize(maxsize)), fn: fn}
}

// Call returns the memoized result of fn(ctx, a).
func (m *Memo1[A, V]) Call(ctx context.Context, a A) (V, error) {
	return m.cache.Do(ctx, a, func(ctx context.Context) (V, error) {
		return m.fn(ctx, a)
	})
}

// Info returns the underlying cache counters.
func (m *Memo1[A, V]) Info() Info { return m.cache.Info() }

// Clear wipes the underlying cache.
func (m *Memo1[A, V]) Clear() { m.cache.Clear() }

// Discard evicts the entry for one argument if present.
func (m *Memo1[A, V]) Discard(a A) bool { return m.cache.Discard(a) }

type pair2[A, B comparable] struct {
	a A
	b B
}

// Memo2 memoizes a two-argument asynchronous function.
type Memo2[A, B comparable, V any] struct {
	cache *Cache[pair2[A, B], V]
	fn    func(context.Context, A, B) (V, error)
}

// Wrap2 wraps a two-argument fn the way Wrap1 wraps a one-argument one.
func Wrap2[A, B comparable, V any](maxsize int, fn func(context.Context, A, B) (V, error)) *Memo2[A, B, V] {
	return &Memo2[A, B, V]{cache: newCache[pair2[A, B], V](normalize(maxsize)), fn: fn}
}

// Call returns the memoized result of fn(ctx, a, b).
func (m *Memo2[A, B, V]) Call(ctx context.Context, a A, b B) (V, error) {
	return m.cache.Do(ctx, pair2[A, B]{a, b}, func(ctx context.Context) (V, error) {
		return m.fn(ctx, a, b)
	})
}

// Info returns the underlying cache counters.
func (m *Memo2[A, B, V]) Info() Info { return m.cache.Info() }

// Clear wipes the underlying cache.
func (m *Memo2[A, B, V]) Clear() { m.cache.Clear() }

// Discard evicts the entry for one argument pattern if present.
func (m *Memo2[A, B, V]) Discard(a A, b B) bool { return m.cache.Discard(pair2[A, B]{a, b}) }

func normalize(maxsize int) int {
	if maxsize < 0 && maxsize != Unbounded {
		return 0
	}
	return maxsize
}
