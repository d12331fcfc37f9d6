// Package aiter provides pull-based, context-aware iterators with explicit
// ownership and close semantics: a transform catalog, a fan-out buffer, a
// bounded async cache, and the borrowing and scoping rules tying them
// together.
//
// This package is the primary user-facing API. Most users should only need
// to import this package plus the transform packages they use. The
// aiter/core subpackage contains the low-level abstractions.
package aiter

import (
	"context"
	"iter"

	"github.com/lguimbarda/aiter/aiter/core"
)

// Type aliases for the core abstractions, so users can work with the
// library without importing core directly.
type (
	// Iterator is a lazy sequence supporting suspend-on-next and an
	// explicit, idempotent close.
	Iterator[T any] = core.Iterator[T]

	// Iterable is anything that can produce an Iterator over its items.
	Iterable[T any] = core.Iterable[T]

	// Result is a single retrieval outcome: a value, a failure, or
	// exhaustion.
	Result[T any] = core.Result[T]

	// Func is a potentially suspending transformation of one value.
	Func[T, R any] = core.Func[T, R]

	// Predicate is a potentially suspending boolean test of one value.
	Predicate[T any] = core.Predicate[T]

	// Reducer folds an item into an accumulator, potentially suspending.
	Reducer[A, T any] = core.Reducer[A, T]
)

// Sentinel errors re-exported from core.
var (
	// ErrExhausted signals that an iterator has no further items.
	ErrExhausted = core.ErrExhausted

	// ErrInvalid is wrapped by fail-fast misuse errors.
	ErrInvalid = core.ErrInvalid

	// ErrEmpty reports a terminal that required a non-empty iterator.
	ErrEmpty = core.ErrEmpty
)

// Ownership protocol - wrappers around core functions.

// Borrow returns a close-suppressing view of it; only the true owner can
// close the underlying iterator.
func Borrow[T any](it Iterator[T]) Iterator[T] {
	return core.Borrow(it)
}

// Scoped returns a borrowed view plus an idempotent release closing the
// real iterator, intended for defer.
func Scoped[T any](it Iterator[T]) (Iterator[T], func(context.Context) error) {
	return core.Scoped(it)
}

// With runs body with a scoped borrow of it, closing the underlying
// iterator on every exit path.
func With[T any](ctx context.Context, it Iterator[T], body func(context.Context, Iterator[T]) error) error {
	return core.With(ctx, it, body)
}

// Terminal operations.

// SliceOf collects all iterator values into a slice.
func SliceOf[T any](ctx context.Context, it Iterator[T]) ([]T, error) {
	return core.SliceOf(ctx, it)
}

// First returns the first value and closes the iterator.
func First[T any](ctx context.Context, it Iterator[T]) (T, error) {
	return core.First(ctx, it)
}

// Run drains the iterator for side effects only.
func Run[T any](ctx context.Context, it Iterator[T]) error {
	return core.Run(ctx, it)
}

// Collect gathers all retrieval outcomes, including the terminal one.
func Collect[T any](ctx context.Context, it Iterator[T]) []Result[T] {
	return core.Collect(ctx, it)
}

// All bridges the iterator to a Go range-over-func sequence.
func All[T any](ctx context.Context, it Iterator[T]) iter.Seq[Result[T]] {
	return core.All(ctx, it)
}

// NextOr retrieves the next item, returning def on exhaustion.
func NextOr[T any](ctx context.Context, it Iterator[T], def T) (T, error) {
	return core.NextOr(ctx, it, def)
}
