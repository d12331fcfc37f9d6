package itertools

import (
	"context"

	"github.com/lguimbarda/aiter/aiter/core"
)

// Chain yields all values from each source in turn. It owns every source
// and closes them all reliably when the chain closes, including sources
// never reached. Use ChainIterables when the sources themselves arrive
// lazily and only fetched ones should be owned.
func Chain[T any](sources ...core.Iterator[T]) core.Iterator[T] {
	idx := 0
	owned := make([]core.Closer, len(sources))
	for i, s := range sources {
		owned[i] = s
	}
	return core.Derive(func(ctx context.Context) (T, error) {
		var zero T
		for {
			if idx >= len(sources) {
				return zero, core.ErrExhausted
			}
			v, err := sources[idx].Next(ctx)
			if err == nil {
				return v, nil
			}
			if !core.IsExhausted(err) {
				return zero, err
			}
			// Done with this source; release it before moving on.
			if cerr := sources[idx].Close(ctx); cerr != nil {
				return zero, cerr
			}
			idx++
		}
	}, owned...)
}

// ChainIterables flattens an iterator of iterators. Sources are fetched
// lazily, so closing the chain closes only the outer iterator and the
// inner iterators already fetched.
func ChainIterables[T any](sources core.Iterator[core.Iterator[T]]) core.Iterator[T] {
	var current core.Iterator[T]
	d := core.Derive(func(ctx context.Context) (T, error) {
		var zero T
		for {
			if current == nil {
				next, err := sources.Next(ctx)
				if err != nil {
					return zero, err
				}
				current = next
			}
			v, err := current.Next(ctx)
			if err == nil {
				return v, nil
			}
			if !core.IsExhausted(err) {
				return zero, err
			}
			if cerr := current.Close(ctx); cerr != nil {
				return zero, cerr
			}
			current = nil
		}
	}, sources, core.CloserFunc(func(ctx context.Context) error {
		if current == nil {
			return nil
		}
		cur := current
		current = nil
		return cur.Close(ctx)
	}))
	return d
}
