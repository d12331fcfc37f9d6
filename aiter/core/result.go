package core

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// ErrPanic wraps a recovered panic value as an error.
// This is used when a user-provided function panics during iteration.
// It includes a cleaned-up stack trace that excludes internal aiter frames.
type ErrPanic struct {
	Value any
	Stack string // Cleaned stack trace
}

func (e ErrPanic) Error() string {
	if e.Stack != "" {
		return fmt.Sprintf("panic: %v\n%s", e.Value, e.Stack)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// NewPanicError creates an ErrPanic from a recovered value with a cleaned stack trace.
// It captures the current stack and removes internal aiter frames to show only
// user code, making it easier to identify where the panic originated.
func NewPanicError(recovered any) ErrPanic {
	return ErrPanic{
		Value: recovered,
		Stack: cleanStack(captureStack(4)), // skip: runtime.Callers, captureStack, NewPanicError, defer func
	}
}

// captureStack returns the current stack trace as a string.
func captureStack(skip int) string {
	const maxFrames = 32
	var pcs [maxFrames]uintptr
	n := runtime.Callers(skip, pcs[:])
	if n == 0 {
		return ""
	}

	frames := runtime.CallersFrames(pcs[:n])
	var sb strings.Builder

	for {
		frame, more := frames.Next()
		fmt.Fprintf(&sb, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
		if !more {
			break
		}
	}

	return sb.String()
}

// cleanStack removes internal aiter frames from a stack trace.
// It keeps user code and standard library frames while filtering out
// github.com/lguimbarda/aiter internal frames.
func cleanStack(stack string) string {
	lines := strings.Split(stack, "\n")
	var result []string
	var skipNext bool

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		// Function lines are not indented; file:line lines are.
		if !strings.HasPrefix(line, "\t") {
			if strings.Contains(line, "github.com/lguimbarda/aiter/aiter/") {
				skipNext = true
				continue
			}
			skipNext = false
		} else if skipNext {
			continue
		}

		result = append(result, line)
	}

	return strings.Join(result, "\n")
}

// Result represents one retrieval outcome of an iterator.
// It exists in one of three states:
//   - Value: a successfully retrieved item (IsValue() returns true)
//   - Error: the retrieval failed (IsError() returns true)
//   - End: the iterator is exhausted (IsEnd() returns true)
//
// Result is the record distributed to every branch of a fan-out buffer and
// the element type of Collect and All, so that values, failures and
// exhaustion flow through the same channel of information.
type Result[T any] struct {
	value T
	err   error
	end   bool
}

// Ok creates a Result containing a successfully retrieved value.
func Ok[T any](value T) Result[T] {
	return Result[T]{value: value}
}

// Err creates a Result recording a failed retrieval.
func Err[T any](err error) Result[T] {
	return Result[T]{err: err}
}

// End creates a Result recording exhaustion of the iterator.
func End[T any]() Result[T] {
	return Result[T]{err: ErrExhausted, end: true}
}

// IsValue returns true if this Result contains a retrieved value.
func (r Result[T]) IsValue() bool {
	return r.err == nil && !r.end
}

// IsEnd returns true if this Result records exhaustion.
func (r Result[T]) IsEnd() bool {
	return r.end
}

// IsError returns true if this Result records a failed retrieval.
// Exhaustion is not an error in this sense.
func (r Result[T]) IsError() bool {
	return r.err != nil && !r.end
}

// Value returns the contained value. Only meaningful when IsValue() is true.
func (r Result[T]) Value() T {
	return r.value
}

// Error returns the retrieval failure, if any. For an End result it
// returns nil; use Unwrap to observe exhaustion as ErrExhausted.
func (r Result[T]) Error() error {
	if r.end {
		return nil
	}
	return r.err
}

// Unwrap returns the value and error together, exactly as the originating
// Next call produced them: ErrExhausted for an End result, the failure for
// an Error result, and (value, nil) for a Value result.
func (r Result[T]) Unwrap() (T, error) {
	return r.value, r.err
}

// IsExhausted reports whether err is the exhaustion sentinel.
func IsExhausted(err error) bool {
	return errors.Is(err, ErrExhausted)
}
