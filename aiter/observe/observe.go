package observe

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/lguimbarda/aiter/aiter/core"
)

// instrumented wraps an iterator and reports its events to the hooks found
// in the retrieval context.
type instrumented[T any] struct {
	src core.Iterator[T]

	mu     sync.Mutex
	closed bool
}

// Instrument wraps the iterator so that every retrieval reports to the
// typed hooks attached to the context passed to Next and Close. The
// wrapper owns the source.
func Instrument[T any](src core.Iterator[T]) core.Iterator[T] {
	return &instrumented[T]{src: src}
}

func (in *instrumented[T]) Next(ctx context.Context) (T, error) {
	v, err := in.src.Next(ctx)
	if c := getHooksContainer[T](ctx); c != nil {
		switch {
		case err == nil:
			c.invokeNext(v)
		case core.IsExhausted(err):
			c.invokeExhausted()
		default:
			c.invokeError(err)
		}
	}
	return v, err
}

func (in *instrumented[T]) Close(ctx context.Context) error {
	in.mu.Lock()
	wasClosed := in.closed
	in.closed = true
	in.mu.Unlock()

	err := in.src.Close(ctx)
	if !wasClosed {
		if c := getHooksContainer[T](ctx); c != nil {
			c.invokeClose()
		}
	}
	return err
}

// LiveMetrics accumulates iterator event counts. Safe for concurrent use;
// read the fields with the accessor methods while iteration is running.
type LiveMetrics struct {
	values    atomic.Int64
	errors    atomic.Int64
	exhausted atomic.Int64
	closes    atomic.Int64
}

// Hooks returns a hook set that records into m. Attach it with WithHooks.
func MetricsHooks[T any](m *LiveMetrics) Hooks[T] {
	return Hooks[T]{
		OnNext:      func(T) { m.values.Add(1) },
		OnError:     func(error) { m.errors.Add(1) },
		OnExhausted: func() { m.exhausted.Add(1) },
		OnClose:     func() { m.closes.Add(1) },
	}
}

// Values reports the number of successful retrievals observed.
func (m *LiveMetrics) Values() int64 { return m.values.Load() }

// Errors reports the number of failed retrievals observed.
func (m *LiveMetrics) Errors() int64 { return m.errors.Load() }

// Exhaustions reports how many times exhaustion was observed.
func (m *LiveMetrics) Exhaustions() int64 { return m.exhausted.Load() }

// Closes reports how many instrumented iterators were closed.
func (m *LiveMetrics) Closes() int64 { return m.closes.Load() }
