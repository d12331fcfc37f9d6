package itertools

import (
	"context"
	"fmt"

	"github.com/lguimbarda/aiter/aiter/core"
)

// Islice yields every step-th item of src between positions start
// (inclusive) and stop (exclusive). A negative stop means unbounded. The
// first start items are consumed from src even when the slice itself is
// empty. Misshapen bounds fail fast before any iteration.
func Islice[T any](src core.Iterator[T], start, stop, step int) (core.Iterator[T], error) {
	if start < 0 {
		return nil, fmt.Errorf("%w: Islice start must not be negative, got %d", core.ErrInvalid, start)
	}
	if step < 1 {
		return nil, fmt.Errorf("%w: Islice step must be at least one, got %d", core.ErrInvalid, step)
	}

	pos := 0      // next position to read from src
	skipped := false
	return core.Derive(func(ctx context.Context) (T, error) {
		var zero T
		if !skipped {
			skipped = true
			for pos < start {
				if _, err := src.Next(ctx); err != nil {
					return zero, err
				}
				pos++
			}
		}
		for {
			if stop >= 0 && pos >= stop {
				return zero, core.ErrExhausted
			}
			v, err := src.Next(ctx)
			if err != nil {
				return zero, err
			}
			emit := (pos-start)%step == 0
			pos++
			if emit {
				return v, nil
			}
		}
	}, src), nil
}
