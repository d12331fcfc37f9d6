package core

import (
	"context"
)

// Ownership protocol.
//
// Every iterator reference held by a component is either owned, borrowed,
// or scoped. The owner must close the iterator when it is finished with it,
// and must close it before propagating a failure. Borrowed views expose the
// normal iterator interface but turn Close into a no-op on the underlying
// iterator, deferring teardown to the true owner. A scoped borrow bounds
// the lease to a lexical block: the real close runs at block exit no matter
// how the block was left.
//
// At most one component owns a given iterator at a time; any number of
// borrowed views may reference it simultaneously.

// borrowed is a close-suppressing view over an iterator.
type borrowed[T any] struct {
	it       Iterator[T]
	released bool
}

func (b *borrowed[T]) Next(ctx context.Context) (T, error) {
	if b.released {
		var zero T
		return zero, ErrExhausted
	}
	return b.it.Next(ctx)
}

// Close ends the view without touching the underlying iterator. The view
// itself reports exhaustion afterwards; the owner's iterator is unaffected
// and can still be read or closed by the owner.
func (b *borrowed[T]) Close(ctx context.Context) error {
	b.released = true
	return nil
}

func (b *borrowed[T]) Iter() Iterator[T] { return b }

// Borrow returns a view of it that forwards retrieval but suppresses Close,
// so a component consuming the view cannot close the iterator out from
// under its owner. Closing the view only ends the view.
func Borrow[T any](it Iterator[T]) Iterator[T] {
	return &borrowed[T]{it: it}
}

// Scoped returns a borrowed view of it together with a release function
// closing the real underlying iterator. The release is idempotent and is
// meant for defer, bounding the borrow to the enclosing block:
//
//	view, release := core.Scoped(src)
//	defer release(ctx)
//
// The underlying iterator is closed at release regardless of how the block
// exits; reads of src afterwards observe exhaustion.
func Scoped[T any](it Iterator[T]) (Iterator[T], func(context.Context) error) {
	view := &borrowed[T]{it: it}
	released := false
	release := func(ctx context.Context) error {
		if released {
			return nil
		}
		released = true
		view.released = true
		return it.Close(ctx)
	}
	return view, release
}

// With runs body with a scoped borrow of it, closing the underlying
// iterator on every exit path: normal return, error return, or panic.
// The body's error takes precedence; a close failure surfaces only when
// the body itself succeeded.
func With[T any](ctx context.Context, it Iterator[T], body func(context.Context, Iterator[T]) error) (err error) {
	view, release := Scoped(it)
	defer func() {
		cerr := release(ctx)
		if err == nil {
			err = cerr
		}
	}()
	return body(ctx, view)
}

// CloseAll closes every closer, guaranteeing each one a close attempt even
// when an earlier close fails. The first failure is returned; later
// failures are suppressed relative to it.
func CloseAll(ctx context.Context, closers ...Closer) error {
	var first error
	for _, c := range closers {
		if c == nil {
			continue
		}
		if err := c.Close(ctx); err != nil && first == nil {
			first = err
		}
	}
	return first
}
