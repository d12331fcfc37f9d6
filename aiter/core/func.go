package core

import (
	"context"
)

// Async-neutral callables.
//
// Operations in this module accept user callables that may suspend: the
// context-taking signature is the suspending form, and plain synchronous
// functions are adapted with Pure or Lift. Either way the operation itself
// always behaves asynchronously, so the sync-or-async nature of an argument
// never changes the shape of the output.

// Func is a potentially suspending transformation of a single value.
type Func[T, R any] func(ctx context.Context, v T) (R, error)

// Predicate is a potentially suspending boolean test of a single value.
type Predicate[T any] func(ctx context.Context, v T) (bool, error)

// Reducer folds an item into an accumulator, potentially suspending.
type Reducer[A, T any] func(ctx context.Context, acc A, v T) (A, error)

// Pure adapts an infallible synchronous function to Func.
func Pure[T, R any](fn func(T) R) Func[T, R] {
	return func(_ context.Context, v T) (R, error) {
		return fn(v), nil
	}
}

// Lift adapts a fallible synchronous function to Func.
func Lift[T, R any](fn func(T) (R, error)) Func[T, R] {
	return func(_ context.Context, v T) (R, error) {
		return fn(v)
	}
}

// PureP adapts a synchronous predicate to Predicate.
func PureP[T any](fn func(T) bool) Predicate[T] {
	return func(_ context.Context, v T) (bool, error) {
		return fn(v), nil
	}
}

// LiftP adapts a fallible synchronous predicate to Predicate.
func LiftP[T any](fn func(T) (bool, error)) Predicate[T] {
	return func(_ context.Context, v T) (bool, error) {
		return fn(v)
	}
}

// PureR adapts a synchronous reduction to Reducer.
func PureR[A, T any](fn func(A, T) A) Reducer[A, T] {
	return func(_ context.Context, acc A, v T) (A, error) {
		return fn(acc, v), nil
	}
}
