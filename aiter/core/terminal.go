package core

import (
	"context"
	"errors"
	"iter"
)

// Terminal operations drain an iterator into a final value. Each terminal
// takes ownership of the iterator it consumes and closes it before
// returning, on success and failure alike.

// ErrEmpty reports a terminal that required at least one item from an
// iterator that produced none.
var ErrEmpty = errors.New("iterator is empty")

// SliceOf drains the iterator into a slice of all its values.
func SliceOf[T any](ctx context.Context, it Iterator[T]) ([]T, error) {
	var out []T
	err := With(ctx, it, func(ctx context.Context, view Iterator[T]) error {
		for {
			v, err := view.Next(ctx)
			if err != nil {
				if IsExhausted(err) {
					return nil
				}
				return err
			}
			out = append(out, v)
		}
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// First returns the first value of the iterator and closes it, discarding
// any remaining items. Returns ErrEmpty if the iterator produces nothing.
func First[T any](ctx context.Context, it Iterator[T]) (T, error) {
	var first T
	err := With(ctx, it, func(ctx context.Context, view Iterator[T]) error {
		v, err := view.Next(ctx)
		if err != nil {
			if IsExhausted(err) {
				return ErrEmpty
			}
			return err
		}
		first = v
		return nil
	})
	return first, err
}

// Run drains the iterator for its side effects only.
func Run[T any](ctx context.Context, it Iterator[T]) error {
	return With(ctx, it, func(ctx context.Context, view Iterator[T]) error {
		for {
			if _, err := view.Next(ctx); err != nil {
				if IsExhausted(err) {
					return nil
				}
				return err
			}
		}
	})
}

// Collect gathers every retrieval outcome, including the terminal one, into
// a slice of Results. The final element is either an End or an Error
// result; everything before it is a value.
func Collect[T any](ctx context.Context, it Iterator[T]) []Result[T] {
	var results []Result[T]
	_ = With(ctx, it, func(ctx context.Context, view Iterator[T]) error {
		for {
			v, err := view.Next(ctx)
			switch {
			case err == nil:
				results = append(results, Ok(v))
			case IsExhausted(err):
				results = append(results, End[T]())
				return nil
			default:
				results = append(results, Err[T](err))
				return nil
			}
		}
	})
	return results
}

// All bridges the iterator to a Go range-over-func sequence of Results.
// The iterator is closed when the sequence ends, including on an early
// break, making a for-range loop a scoped borrow.
func All[T any](ctx context.Context, it Iterator[T]) iter.Seq[Result[T]] {
	return func(yield func(Result[T]) bool) {
		view, release := Scoped(it)
		defer release(ctx)
		for {
			v, err := view.Next(ctx)
			switch {
			case err == nil:
				if !yield(Ok(v)) {
					return
				}
			case IsExhausted(err):
				return
			default:
				yield(Err[T](err))
				return
			}
		}
	}
}
