// Package itertools provides the transform catalog over aiter iterators:
// mapping, filtering, slicing, chaining, zipping and windowing. Every
// transform wraps its sources through the derived-iterator base in core,
// so the close and ownership rules are identical across the catalog: a
// transform owns the iterators it is given unless handed a borrowed view,
// closes them eagerly on exhaustion, and closes them before a failure
// propagates.
package itertools

import (
	"context"

	"github.com/lguimbarda/aiter/aiter/core"
)

// call invokes a user transformation, converting a panic into an error so
// cleanup of owned sources still runs.
func call[T, R any](ctx context.Context, fn core.Func[T, R], v T) (r R, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = core.NewPanicError(rec)
		}
	}()
	return fn(ctx, v)
}

// test invokes a user predicate with the same panic conversion as call.
func test[T any](ctx context.Context, pred core.Predicate[T], v T) (ok bool, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = core.NewPanicError(rec)
		}
	}()
	return pred(ctx, v)
}

// Map applies fn to every item of src.
func Map[T, R any](src core.Iterator[T], fn core.Func[T, R]) core.Iterator[R] {
	return core.Derive(func(ctx context.Context) (R, error) {
		v, err := src.Next(ctx)
		if err != nil {
			var zero R
			return zero, err
		}
		return call(ctx, fn, v)
	}, src)
}

// Pair is an ordered pair of values from two sources.
type Pair[A, B any] struct {
	First  A
	Second B
}

// StarMap applies a two-argument function to pairs from src. It relates to
// Map the way fn(a, b) relates to fn(v): the pair is unpacked into the
// function's arguments.
func StarMap[A, B, R any](src core.Iterator[Pair[A, B]], fn func(ctx context.Context, a A, b B) (R, error)) core.Iterator[R] {
	return Map(src, func(ctx context.Context, p Pair[A, B]) (R, error) {
		return fn(ctx, p.First, p.Second)
	})
}

// Enumerated is a value paired with its position in the sequence.
type Enumerated[T any] struct {
	Index int
	Value T
}

// Enumerate counts items as they are retrieved, starting at start.
func Enumerate[T any](src core.Iterator[T], start int) core.Iterator[Enumerated[T]] {
	n := start
	return core.Derive(func(ctx context.Context) (Enumerated[T], error) {
		v, err := src.Next(ctx)
		if err != nil {
			return Enumerated[T]{}, err
		}
		e := Enumerated[T]{Index: n, Value: v}
		n++
		return e, nil
	}, src)
}
