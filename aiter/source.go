package aiter

import (
	"context"
	"fmt"
	"iter"

	"github.com/lguimbarda/aiter/aiter/core"
)

// Sources construct iterators over in-memory data, channels and Go
// sequences. Every source returns a fresh iterator owned by the caller.

// FromSlice creates an iterator over the elements of a slice.
func FromSlice[T any](items []T) Iterator[T] {
	i := 0
	return core.Derive(func(ctx context.Context) (T, error) {
		var zero T
		if i >= len(items) {
			return zero, core.ErrExhausted
		}
		v := items[i]
		i++
		return v, nil
	})
}

// FromChannel creates an iterator over values received from a channel.
// The iterator is exhausted when the channel is closed; the caller remains
// responsible for closing the channel.
func FromChannel[T any](ch <-chan T) Iterator[T] {
	return core.Derive(func(ctx context.Context) (T, error) {
		var zero T
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case v, ok := <-ch:
			if !ok {
				return zero, core.ErrExhausted
			}
			return v, nil
		}
	})
}

// FromSeq creates an iterator from a Go 1.23+ sequence. Closing the
// iterator stops the underlying sequence.
func FromSeq[T any](seq iter.Seq[T]) Iterator[T] {
	next, stop := iter.Pull(seq)
	return core.Derive(func(ctx context.Context) (T, error) {
		v, ok := next()
		if !ok {
			var zero T
			return zero, core.ErrExhausted
		}
		return v, nil
	}, core.CloserFunc(func(ctx context.Context) error {
		stop()
		return nil
	}))
}

// FromFunc creates an iterator from a step function, optionally attaching
// owned resources to close with it. The step returns ErrExhausted when the
// sequence ends.
func FromFunc[T any](step func(ctx context.Context) (T, error), owned ...core.Closer) Iterator[T] {
	return core.Derive(step, owned...)
}

// Empty creates an iterator that is exhausted from the start.
func Empty[T any]() Iterator[T] {
	return core.Derive(func(ctx context.Context) (T, error) {
		var zero T
		return zero, core.ErrExhausted
	})
}

// Once creates an iterator producing a single value.
func Once[T any](value T) Iterator[T] {
	done := false
	return core.Derive(func(ctx context.Context) (T, error) {
		if done {
			var zero T
			return zero, core.ErrExhausted
		}
		done = true
		return value, nil
	})
}

// Repeat creates an iterator producing value n times, or indefinitely when
// n is negative.
func Repeat[T any](value T, n int) Iterator[T] {
	count := 0
	return core.Derive(func(ctx context.Context) (T, error) {
		if n >= 0 && count >= n {
			var zero T
			return zero, core.ErrExhausted
		}
		count++
		return value, nil
	})
}

// Range creates an iterator over the integers start, start+step, ... up to
// but excluding stop. A zero step is a misuse error.
func Range(start, stop, step int) (Iterator[int], error) {
	if step == 0 {
		return nil, fmt.Errorf("%w: Range step must not be zero", ErrInvalid)
	}
	cur := start
	return core.Derive(func(ctx context.Context) (int, error) {
		if (step > 0 && cur >= stop) || (step < 0 && cur <= stop) {
			return 0, core.ErrExhausted
		}
		v := cur
		cur += step
		return v, nil
	}), nil
}
