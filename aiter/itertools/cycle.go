package itertools

import (
	"context"

	"github.com/lguimbarda/aiter/aiter/core"
)

// Cycle iterates src indefinitely: the first pass lazily exhausts src while
// recording its items, subsequent passes replay the recording without
// replicating any delays of the original source. The source is closed as
// soon as the first pass completes. An empty source ends the cycle
// immediately. All items are retained, which may use significant memory.
func Cycle[T any](src core.Iterator[T]) core.Iterator[T] {
	var buffer []T
	pos := 0
	recording := true
	return core.Derive(func(ctx context.Context) (T, error) {
		var zero T
		if recording {
			v, err := src.Next(ctx)
			if err == nil {
				buffer = append(buffer, v)
				return v, nil
			}
			if !core.IsExhausted(err) {
				return zero, err
			}
			recording = false
			if cerr := src.Close(ctx); cerr != nil {
				return zero, cerr
			}
			if len(buffer) == 0 {
				return zero, core.ErrExhausted
			}
		}
		v := buffer[pos]
		pos = (pos + 1) % len(buffer)
		return v, nil
	}, src)
}
