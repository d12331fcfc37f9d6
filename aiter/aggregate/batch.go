package aggregate

import (
	"context"
	"fmt"

	"github.com/lguimbarda/aiter/aiter/core"
)

// BatchedOption configures Batched.
type BatchedOption func(*batchedConfig)

type batchedConfig struct {
	strict bool
}

// Strict makes Batched report an error instead of yielding a final batch
// shorter than n.
func Strict() BatchedOption {
	return func(c *batchedConfig) {
		c.strict = true
	}
}

// ErrIncompleteBatch reports a short final batch under the Strict option.
var ErrIncompleteBatch = fmt.Errorf("incomplete batch")

// Batched groups items of src into slices of length n, yielding each batch
// as soon as it is complete. The final batch may be shorter unless Strict
// is set. A batch size below one is a misuse error.
func Batched[T any](src core.Iterator[T], n int, opts ...BatchedOption) (core.Iterator[[]T], error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: batch size must be at least one, got %d", core.ErrInvalid, n)
	}
	var cfg batchedConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	done := false
	return core.Derive(func(ctx context.Context) ([]T, error) {
		if done {
			return nil, core.ErrExhausted
		}
		batch := make([]T, 0, n)
		for len(batch) < n {
			v, err := src.Next(ctx)
			if err == nil {
				batch = append(batch, v)
				continue
			}
			if !core.IsExhausted(err) {
				return nil, err
			}
			done = true
			if len(batch) == 0 {
				return nil, core.ErrExhausted
			}
			if cfg.strict {
				return nil, ErrIncompleteBatch
			}
			return batch, nil
		}
		return batch, nil
	}, src), nil
}
