package itertools

import (
	"context"

	"github.com/lguimbarda/aiter/aiter/core"
)

// Filter yields the items of src for which pred is true.
func Filter[T any](src core.Iterator[T], pred core.Predicate[T]) core.Iterator[T] {
	return core.Derive(func(ctx context.Context) (T, error) {
		var zero T
		for {
			v, err := src.Next(ctx)
			if err != nil {
				return zero, err
			}
			keep, err := test(ctx, pred, v)
			if err != nil {
				return zero, err
			}
			if keep {
				return v, nil
			}
		}
	}, src)
}

// FilterFalse yields the items of src for which pred is false.
func FilterFalse[T any](src core.Iterator[T], pred core.Predicate[T]) core.Iterator[T] {
	return Filter(src, func(ctx context.Context, v T) (bool, error) {
		keep, err := pred(ctx, v)
		return !keep, err
	})
}

// TakeWhile yields items of src as long as pred holds; the first failing
// item ends the iterator and is discarded along with the rest of src.
func TakeWhile[T any](src core.Iterator[T], pred core.Predicate[T]) core.Iterator[T] {
	return core.Derive(func(ctx context.Context) (T, error) {
		var zero T
		v, err := src.Next(ctx)
		if err != nil {
			return zero, err
		}
		keep, err := test(ctx, pred, v)
		if err != nil {
			return zero, err
		}
		if !keep {
			return zero, core.ErrExhausted
		}
		return v, nil
	}, src)
}

// DropWhile discards items of src while pred holds, then yields the first
// failing item and everything after it without further predicate calls.
func DropWhile[T any](src core.Iterator[T], pred core.Predicate[T]) core.Iterator[T] {
	dropping := true
	return core.Derive(func(ctx context.Context) (T, error) {
		var zero T
		for {
			v, err := src.Next(ctx)
			if err != nil {
				return zero, err
			}
			if !dropping {
				return v, nil
			}
			drop, err := test(ctx, pred, v)
			if err != nil {
				return zero, err
			}
			if !drop {
				dropping = false
				return v, nil
			}
		}
	}, src)
}

// Compress yields items of data whose paired selector is true. Both
// iterators advance pairwise; the shorter one ends the output.
func Compress[T any](data core.Iterator[T], selectors core.Iterator[bool]) core.Iterator[T] {
	return core.Derive(func(ctx context.Context) (T, error) {
		var zero T
		for {
			v, err := data.Next(ctx)
			if err != nil {
				return zero, err
			}
			keep, err := selectors.Next(ctx)
			if err != nil {
				return zero, err
			}
			if keep {
				return v, nil
			}
		}
	}, data, selectors)
}
