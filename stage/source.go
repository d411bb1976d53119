// File: stage/source.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package stage

import (
	"bufio"
	"context"
	"io"
)

// Source produces elements for a Stage. Next returns io.EOF once the input
// is exhausted; any other error aborts the stage.
type Source[T any] interface {
	Next(ctx context.Context) (T, error)
}

// Sink consumes staged elements. A non-nil error aborts the stage.
type Sink[T any] func(ctx context.Context, v T) error

// SourceFunc adapts a function to Source.
type SourceFunc[T any] func(ctx context.Context) (T, error)

// Next implements Source.
func (f SourceFunc[T]) Next(ctx context.Context) (T, error) { return f(ctx) }

// SliceSource replays a fixed slice.
type SliceSource[T any] struct {
	items []T
	pos   int
}

// NewSliceSource returns a source yielding items in order, then io.EOF.
func NewSliceSource[T any](items ...T) *SliceSource[T] {
	return &SliceSource[T]{items: items}
}

// Next implements Source.
func (s *SliceSource[T]) Next(ctx context.Context) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	if s.pos >= len(s.items) {
		return zero, io.EOF
	}
	v := s.items[s.pos]
	s.pos++
	return v, nil
}

// ReaderSource yields an io.Reader byte by byte, the way a UART receive
// interrupt delivers one character at a time.
type ReaderSource struct {
	r *bufio.Reader
}

// NewReaderSource wraps r with a buffered reader.
func NewReaderSource(r io.Reader) *ReaderSource {
	return &ReaderSource{r: bufio.NewReader(r)}
}

// Next implements Source. Cancellation is observed between bytes only; a
// blocked Read is not interrupted.
func (s *ReaderSource) Next(ctx context.Context) (byte, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return s.r.ReadByte()
}
