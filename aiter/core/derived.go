package core

import (
	"context"
	"sync"
)

// StepFunc produces the next item of a derived iterator. It returns
// ErrExhausted when the underlying source(s) are spent.
type StepFunc[T any] func(ctx context.Context) (T, error)

// Derived is the common skeleton for iterators that wrap zero or more
// source iterators and apply a per-step rule. It centralizes the ownership
// protocol so concrete transforms only supply their step:
//
//   - every listed source is owned and closed exactly once, either when the
//     step reports exhaustion (eager close), when the derived iterator is
//     closed, or before a step failure propagates;
//   - Close is idempotent, and a closed derived iterator reports
//     exhaustion rather than re-invoking its sources;
//   - when closing multiple sources fails, every source still gets a close
//     attempt and the first failure wins.
//
// Pass a pre-borrowed view (see Borrow) as a source to exclude it from the
// close protocol.
type Derived[T any] struct {
	step  StepFunc[T]
	owned []Closer

	mu     sync.Mutex
	closed bool
}

// Derive builds a derived iterator from a step function and the sources it
// owns. The sources are listed only for teardown; the step captures them
// for retrieval.
func Derive[T any](step StepFunc[T], owned ...Closer) *Derived[T] {
	return &Derived[T]{step: step, owned: owned}
}

func (d *Derived[T]) Next(ctx context.Context) (T, error) {
	var zero T
	d.mu.Lock()
	closed := d.closed
	d.mu.Unlock()
	if closed {
		return zero, ErrExhausted
	}

	v, err := d.step(ctx)
	switch {
	case err == nil:
		return v, nil
	case IsExhausted(err):
		// Eager close-on-exhaustion: release the sources as soon as the
		// sequence ends, and keep the close error visible.
		if cerr := d.Close(ctx); cerr != nil {
			return zero, cerr
		}
		return zero, ErrExhausted
	case ctx.Err() != nil && err == ctx.Err():
		// A cancelled or timed-out retrieval is the caller's own failure;
		// the iterator stays usable, the caller still owns its teardown.
		return zero, err
	default:
		// Close before the failure propagates so no owned source leaks on
		// an erroring path. The step error wins over close errors.
		_ = d.Close(ctx)
		return zero, err
	}
}

// Close closes all owned sources and marks the iterator exhausted. It is
// idempotent; the first underlying close failure is returned and later ones
// are suppressed, but every source gets a close attempt.
func (d *Derived[T]) Close(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	owned := d.owned
	d.owned = nil
	d.mu.Unlock()
	return CloseAll(ctx, owned...)
}

func (d *Derived[T]) Iter() Iterator[T] { return d }
