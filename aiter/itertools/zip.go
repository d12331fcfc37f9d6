package itertools

import (
	"context"

	"github.com/lguimbarda/aiter/aiter/core"
)

// Zip advances both sources pairwise and yields their items as pairs. The
// first exhausted source ends the output; both sources are then closed.
func Zip[A, B any](a core.Iterator[A], b core.Iterator[B]) core.Iterator[Pair[A, B]] {
	return core.Derive(func(ctx context.Context) (Pair[A, B], error) {
		var zero Pair[A, B]
		va, err := a.Next(ctx)
		if err != nil {
			return zero, err
		}
		vb, err := b.Next(ctx)
		if err != nil {
			return zero, err
		}
		return Pair[A, B]{First: va, Second: vb}, nil
	}, a, b)
}

// ZipAll advances all same-typed sources pairwise and yields their items as
// slices. The first exhausted source ends the output. With no sources the
// output is empty from the start.
func ZipAll[T any](sources ...core.Iterator[T]) core.Iterator[[]T] {
	owned := make([]core.Closer, len(sources))
	for i, s := range sources {
		owned[i] = s
	}
	return core.Derive(func(ctx context.Context) ([]T, error) {
		if len(sources) == 0 {
			return nil, core.ErrExhausted
		}
		values := make([]T, len(sources))
		for i, s := range sources {
			v, err := s.Next(ctx)
			if err != nil {
				return nil, err
			}
			values[i] = v
		}
		return values, nil
	}, owned...)
}

// ZipLongest advances all sources pairwise until every source is exhausted,
// padding items of spent sources with fill. With no sources the output is
// empty from the start.
func ZipLongest[T any](fill T, sources ...core.Iterator[T]) core.Iterator[[]T] {
	owned := make([]core.Closer, len(sources))
	done := make([]bool, len(sources))
	for i, s := range sources {
		owned[i] = s
	}
	remaining := len(sources)
	return core.Derive(func(ctx context.Context) ([]T, error) {
		if remaining == 0 {
			return nil, core.ErrExhausted
		}
		values := make([]T, len(sources))
		for i, s := range sources {
			if done[i] {
				values[i] = fill
				continue
			}
			v, err := s.Next(ctx)
			if err == nil {
				values[i] = v
				continue
			}
			if !core.IsExhausted(err) {
				return nil, err
			}
			done[i] = true
			remaining--
			if remaining == 0 {
				return nil, core.ErrExhausted
			}
			values[i] = fill
		}
		return values, nil
	}, owned...)
}

// Pairwise yields successive overlapping pairs of items from src. No pair
// is produced when src has fewer than two items.
func Pairwise[T any](src core.Iterator[T]) core.Iterator[Pair[T, T]] {
	var prev T
	primed := false
	return core.Derive(func(ctx context.Context) (Pair[T, T], error) {
		var zero Pair[T, T]
		if !primed {
			v, err := src.Next(ctx)
			if err != nil {
				return zero, err
			}
			prev = v
			primed = true
		}
		v, err := src.Next(ctx)
		if err != nil {
			return zero, err
		}
		p := Pair[T, T]{First: prev, Second: v}
		prev = v
		return p, nil
	}, src)
}
