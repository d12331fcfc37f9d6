// Package core defines the core abstractions for asynchronous iteration:
// iterators, the exhaustion sentinel, the ownership protocol (borrowing and
// scoping), the derived-iterator skeleton, and terminal operations.
//
// An Iterator is pull-based: each retrieval may suspend on its context, and
// the iterator holds resources until explicitly closed. Close is always
// idempotent, and a closed iterator reports exhaustion rather than an error
// on further retrieval.
//
// NOTE: this package should have no dependencies outside the standard
// library, including other aiter packages.
package core

import (
	"context"
	"errors"
)

// ErrExhausted is the sentinel error indicating an iterator has no further
// items. It is always recoverable by the direct caller and is never wrapped
// inside another failure.
var ErrExhausted = errors.New("iterator exhausted")

// ErrInvalid is the sentinel wrapped by misuse errors: badly shaped
// arguments fail fast with an ErrInvalid-wrapped error at the point of the
// bad argument, never deferred into iteration.
var ErrInvalid = errors.New("invalid argument")

// Iterator produces a lazy, finite-or-infinite, non-restartable sequence of
// values. Each retrieval may suspend; cancellation arrives through the
// context. Next returns ErrExhausted once the sequence ends, and keeps
// returning it afterwards.
//
// Close releases any resources the iterator holds. It is idempotent, and
// after Close the iterator reports ErrExhausted from Next. Iterators that
// hold no resources still honor the contract.
//
// A single iterator is not safe for concurrent retrieval; concurrency is
// provided by constructs that manage their own synchronization, such as the
// fan-out buffer.
type Iterator[T any] interface {
	Next(ctx context.Context) (T, error)
	Close(ctx context.Context) error
}

// Iterable is anything that can produce an Iterator over its items.
// Producing the iterator creates a new object owned by whoever requested
// it. An Iterator that is also an Iterable returns itself, in which case no
// new ownership is created.
type Iterable[T any] interface {
	Iter() Iterator[T]
}

// Closer is the close half of the Iterator contract. The derived-iterator
// base tracks its owned sources through this interface.
type Closer interface {
	Close(ctx context.Context) error
}

// CloserFunc adapts a plain function to the Closer interface.
type CloserFunc func(ctx context.Context) error

func (f CloserFunc) Close(ctx context.Context) error { return f(ctx) }

// Iter normalizes an Iterable into an Iterator. If src already is an
// Iterator it is returned as-is and no new ownership is created; otherwise
// the produced iterator is a new object owned by the caller.
func Iter[T any](src Iterable[T]) Iterator[T] {
	if it, ok := src.(Iterator[T]); ok {
		return it
	}
	return src.Iter()
}

// Next retrieves the next item from it, translating exhaustion into ok=false
// the way a map lookup reports absence. This is a convenience for callers
// that treat exhaustion as a loop break rather than an error.
func Next[T any](ctx context.Context, it Iterator[T]) (value T, ok bool, err error) {
	v, err := it.Next(ctx)
	if err != nil {
		if IsExhausted(err) {
			return v, false, nil
		}
		return v, false, err
	}
	return v, true, nil
}

// NextOr retrieves the next item from it, returning def if the iterator is
// exhausted. Non-exhaustion failures are returned unchanged.
func NextOr[T any](ctx context.Context, it Iterator[T], def T) (T, error) {
	v, err := it.Next(ctx)
	if err != nil {
		if IsExhausted(err) {
			return def, nil
		}
		return def, err
	}
	return v, nil
}
