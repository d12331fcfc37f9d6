// Package combine provides constructs that share one iterator between
// several consumers. The central one is the fan-out buffer (Tee), which
// splits a single source into independently-paced branches.
package combine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/eapache/queue"

	"github.com/lguimbarda/aiter/aiter/core"
)

// Locker serializes advancement of a shared source across suspension
// points. Acquire blocks until the lock is held or the context ends;
// Release must only be called by the current holder.
//
// A caller-supplied Locker lets a Tee coordinate with other concurrent
// access to the same source.
type Locker interface {
	Acquire(ctx context.Context) error
	Release()
}

// chanLock is a one-slot channel lock: unlike sync.Mutex it can be
// acquired under a context, so a branch waiting on another branch's
// source advance stays cancellable.
type chanLock chan struct{}

// NewLock returns the default context-aware lock used by Tee.
func NewLock() Locker {
	return make(chanLock, 1)
}

func (l chanLock) Acquire(ctx context.Context) error {
	select {
	case l <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l chanLock) Release() {
	<-l
}

// TeeOption configures a Tee.
type TeeOption func(*teeConfig)

type teeConfig struct {
	lock Locker
}

// WithLocker replaces the Tee's internal lock, coordinating source
// advancement with other users of the same lock.
func WithLocker(l Locker) TeeOption {
	return func(c *teeConfig) {
		c.lock = l
	}
}

// Tee splits one source iterator into n branches that yield the same items
// in the same order while advancing at independent paces. The source is
// advanced at most once per logical item no matter how many branches
// request it: exactly one branch performs each retrieval under the lock and
// distributes the outcome - value, exhaustion, or failure - to every live
// branch. Terminal outcomes are sticky, so the source is never re-invoked
// after it ends or fails.
//
// The Tee owns the source. Each branch that closes drops its buffer; the
// last branch to close also closes the source, as does closing the Tee
// itself. Items are buffered only between the fastest and slowest branch,
// so memory is proportional to their spread, not to the total item count.
//
// Distinct branches may be used concurrently. A single branch is not
// re-entrant: concurrent retrieval from the same branch is undefined.
type Tee[T any] struct {
	source core.Iterator[T]
	lock   Locker

	mu        sync.Mutex
	branches  []*Branch[T]
	live      int
	fin       *core.Result[T] // sticky terminal outcome of the source
	srcClosed bool
}

// NewTee splits src into n branches. With n == 0 no branches exist and the
// source is released by closing the Tee. A negative n is a misuse error.
func NewTee[T any](src core.Iterator[T], n int, opts ...TeeOption) (*Tee[T], error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: tee branch count must not be negative, got %d", core.ErrInvalid, n)
	}
	cfg := teeConfig{lock: NewLock()}
	for _, opt := range opts {
		opt(&cfg)
	}

	t := &Tee[T]{source: src, lock: cfg.lock, live: n}
	t.branches = make([]*Branch[T], n)
	for i := range t.branches {
		t.branches[i] = &Branch[T]{tee: t, buf: queue.New()}
	}
	return t, nil
}

// Len returns the number of branches.
func (t *Tee[T]) Len() int {
	return len(t.branches)
}

// Branch returns the i-th branch iterator.
func (t *Tee[T]) Branch(i int) core.Iterator[T] {
	return t.branches[i]
}

// Branches returns all branch iterators.
func (t *Tee[T]) Branches() []core.Iterator[T] {
	out := make([]core.Iterator[T], len(t.branches))
	for i, b := range t.branches {
		out[i] = b
	}
	return out
}

// Close closes every branch and the shared source, regardless of
// individual branch states. Every branch gets a close attempt; the first
// failure wins.
func (t *Tee[T]) Close(ctx context.Context) error {
	t.mu.Lock()
	closers := make([]core.Closer, len(t.branches))
	for i, b := range t.branches {
		closers[i] = b
	}
	t.mu.Unlock()

	err := core.CloseAll(ctx, closers...)
	if cerr := t.closeSource(ctx); err == nil {
		err = cerr
	}
	return err
}

func (t *Tee[T]) closeSource(ctx context.Context) error {
	t.mu.Lock()
	if t.srcClosed {
		t.mu.Unlock()
		return nil
	}
	t.srcClosed = true
	t.mu.Unlock()
	return t.source.Close(ctx)
}

// Branch is one output iterator of a Tee.
type Branch[T any] struct {
	tee    *Tee[T]
	buf    *queue.Queue // pending items not yet consumed by this branch
	closed bool
}

func (b *Branch[T]) Next(ctx context.Context) (T, error) {
	var zero T
	t := b.tee
	for {
		t.mu.Lock()
		if b.closed {
			t.mu.Unlock()
			return zero, core.ErrExhausted
		}
		if b.buf.Length() > 0 {
			v := b.buf.Remove().(T)
			t.mu.Unlock()
			return v, nil
		}
		if t.fin != nil {
			fin := *t.fin
			t.mu.Unlock()
			return fin.Unwrap()
		}
		t.mu.Unlock()

		// The buffer is empty and the source has not ended: someone must
		// advance the shared source, and only one branch may do so.
		if err := t.lock.Acquire(ctx); err != nil {
			return zero, err
		}
		t.mu.Lock()
		if b.closed || b.buf.Length() > 0 || t.fin != nil {
			// Another branch resolved this step while we waited for the
			// lock; observe its outcome instead of re-invoking the source.
			t.mu.Unlock()
			t.lock.Release()
			continue
		}
		t.mu.Unlock()

		v, err := t.source.Next(ctx)

		t.mu.Lock()
		switch {
		case err == nil:
			// Distribute to every live buffer, our own included: we fetch
			// the item back from the buffer so ordering holds even when
			// peers buffered items for us concurrently.
			for _, peer := range t.branches {
				if !peer.closed {
					peer.buf.Add(v)
				}
			}
		case ctx.Err() != nil && errors.Is(err, ctx.Err()):
			// A cancelled retrieval produced nothing for the group; this
			// caller detaches and the remaining branches advance the
			// source themselves.
			t.mu.Unlock()
			t.lock.Release()
			return zero, err
		case core.IsExhausted(err):
			fin := core.End[T]()
			t.fin = &fin
		default:
			fin := core.Err[T](err)
			t.fin = &fin
		}
		t.mu.Unlock()
		t.lock.Release()
	}
}

// Close detaches this branch, discarding its buffered items. The last live
// branch to close also closes the shared source.
func (b *Branch[T]) Close(ctx context.Context) error {
	t := b.tee
	t.mu.Lock()
	if b.closed {
		t.mu.Unlock()
		return nil
	}
	b.closed = true
	b.buf = nil
	t.live--
	last := t.live == 0
	t.mu.Unlock()

	if last {
		return t.closeSource(ctx)
	}
	return nil
}

func (b *Branch[T]) Iter() core.Iterator[T] { return b }
