// Package aggregate provides reductions over aiter iterators: folding a
// sequence to a single value, running reductions, and batching.
package aggregate

import (
	"context"
	"errors"

	"github.com/lguimbarda/aiter/aiter/core"
)

// ErrEmptyReduce reports a reduction of an empty iterator with no initial
// value to fall back on.
var ErrEmptyReduce = errors.New("reduce of empty iterator with no initial value")

// Reduce folds the iterator to a single value with fn, seeding the
// accumulator with the first item. The iterator is consumed and closed.
// Returns ErrEmptyReduce if the iterator produces nothing.
func Reduce[T any](ctx context.Context, src core.Iterator[T], fn core.Reducer[T, T]) (T, error) {
	var acc T
	err := core.With(ctx, src, func(ctx context.Context, view core.Iterator[T]) error {
		first, err := view.Next(ctx)
		if err != nil {
			if core.IsExhausted(err) {
				return ErrEmptyReduce
			}
			return err
		}
		acc = first
		return fold(ctx, view, fn, &acc)
	})
	return acc, err
}

// ReduceFrom folds the iterator to a single value with fn, starting from an
// explicit initial accumulator. An empty iterator yields the initial value.
func ReduceFrom[A, T any](ctx context.Context, src core.Iterator[T], initial A, fn core.Reducer[A, T]) (A, error) {
	acc := initial
	err := core.With(ctx, src, func(ctx context.Context, view core.Iterator[T]) error {
		return fold(ctx, view, fn, &acc)
	})
	return acc, err
}

func fold[A, T any](ctx context.Context, view core.Iterator[T], fn core.Reducer[A, T], acc *A) error {
	for {
		v, err := view.Next(ctx)
		if err != nil {
			if core.IsExhausted(err) {
				return nil
			}
			return err
		}
		next, err := fn(ctx, *acc, v)
		if err != nil {
			return err
		}
		*acc = next
	}
}

// Accumulate yields the running reduction of src under fn, the way Reduce
// would observe it after each item: the first item is yielded as-is, then
// every retrieval folds one more item into the visible accumulator.
// An empty source yields nothing.
func Accumulate[T any](src core.Iterator[T], fn core.Reducer[T, T]) core.Iterator[T] {
	var acc T
	primed := false
	return core.Derive(func(ctx context.Context) (T, error) {
		var zero T
		v, err := src.Next(ctx)
		if err != nil {
			return zero, err
		}
		if !primed {
			primed = true
			acc = v
			return acc, nil
		}
		acc, err = fn(ctx, acc, v)
		if err != nil {
			return zero, err
		}
		return acc, nil
	}, src)
}

// AccumulateFrom yields the running reduction starting from an explicit
// initial value, which is itself the first item produced.
func AccumulateFrom[A, T any](src core.Iterator[T], initial A, fn core.Reducer[A, T]) core.Iterator[A] {
	acc := initial
	emittedInitial := false
	return core.Derive(func(ctx context.Context) (A, error) {
		var zero A
		if !emittedInitial {
			emittedInitial = true
			return acc, nil
		}
		v, err := src.Next(ctx)
		if err != nil {
			return zero, err
		}
		acc, err = fn(ctx, acc, v)
		if err != nil {
			return zero, err
		}
		return acc, nil
	}, src)
}
