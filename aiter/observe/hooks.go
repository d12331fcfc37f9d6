// Package observe provides observability for aiter iterators: typed hooks
// carried in the context and an instrumented iterator wrapper feeding them.
// Hooks are invoked synchronously during retrieval, so they should be fast
// to avoid blocking the consumer.
package observe

import (
	"context"
)

// Hooks holds typed observation callbacks for an iterator. All fields are
// optional - nil means no observation for that event.
type Hooks[T any] struct {
	OnNext      func(T)     // Successful retrieval
	OnError     func(error) // Failed retrieval
	OnExhausted func()      // Iterator reported exhaustion
	OnClose     func()      // Iterator closed
}

// hooksKey is unexported to prevent collisions with user context keys.
type hooksKey[T any] struct{}

// hooksContainer holds multiple hook sets for FIFO invocation.
type hooksContainer[T any] struct {
	hookSets []*Hooks[T]
}

// WithHooks attaches typed hooks to the context. Multiple calls compose in
// FIFO order - hooks from earlier calls are invoked before hooks from
// later calls.
func WithHooks[T any](ctx context.Context, hooks Hooks[T]) context.Context {
	if ctx == nil {
		panic("nil context")
	}

	existing := getHooksContainer[T](ctx)
	if existing == nil {
		return context.WithValue(ctx, hooksKey[T]{}, &hooksContainer[T]{
			hookSets: []*Hooks[T]{&hooks},
		})
	}

	newContainer := &hooksContainer[T]{
		hookSets: make([]*Hooks[T], len(existing.hookSets)+1),
	}
	copy(newContainer.hookSets, existing.hookSets)
	newContainer.hookSets[len(existing.hookSets)] = &hooks

	return context.WithValue(ctx, hooksKey[T]{}, newContainer)
}

// WithNextHook attaches a single OnNext callback to the context.
func WithNextHook[T any](ctx context.Context, fn func(T)) context.Context {
	return WithHooks(ctx, Hooks[T]{OnNext: fn})
}

// WithErrorHook attaches a single OnError callback to the context.
func WithErrorHook[T any](ctx context.Context, fn func(error)) context.Context {
	return WithHooks(ctx, Hooks[T]{OnError: fn})
}

func getHooksContainer[T any](ctx context.Context) *hooksContainer[T] {
	if ctx == nil {
		return nil
	}
	if c, ok := ctx.Value(hooksKey[T]{}).(*hooksContainer[T]); ok {
		return c
	}
	return nil
}

func (c *hooksContainer[T]) invokeNext(v T) {
	for _, h := range c.hookSets {
		if h.OnNext != nil {
			h.OnNext(v)
		}
	}
}

func (c *hooksContainer[T]) invokeError(err error) {
	for _, h := range c.hookSets {
		if h.OnError != nil {
			h.OnError(err)
		}
	}
}

func (c *hooksContainer[T]) invokeExhausted() {
	for _, h := range c.hookSets {
		if h.OnExhausted != nil {
			h.OnExhausted()
		}
	}
}

func (c *hooksContainer[T]) invokeClose() {
	for _, h := range c.hookSets {
		if h.OnClose != nil {
			h.OnClose()
		}
	}
}
