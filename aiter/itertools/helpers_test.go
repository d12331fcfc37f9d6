package itertools

import (
	"context"

	"github.com/lguimbarda/aiter/aiter/core"
)

// tracked yields the given items and records close calls, so tests can
// assert the ownership protocol.
type tracked[T any] struct {
	items  []T
	pos    int
	closes int
	closed bool
}

func track[T any](items ...T) *tracked[T] {
	return &tracked[T]{items: items}
}

func (s *tracked[T]) Next(ctx context.Context) (T, error) {
	var zero T
	if s.closed || s.pos >= len(s.items) {
		return zero, core.ErrExhausted
	}
	v := s.items[s.pos]
	s.pos++
	return v, nil
}

func (s *tracked[T]) Close(ctx context.Context) error {
	s.closes++
	s.closed = true
	return nil
}

func drain[T any](ctx context.Context, it core.Iterator[T]) ([]T, error) {
	return core.SliceOf(ctx, it)
}

func equal[T comparable](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
