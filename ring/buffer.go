// File: ring/buffer.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Buffer tracks emptiness with a sentinel on the read index instead of an
// element counter: write == read is ambiguous between empty and full, so
// only the sentinel says "empty".

package ring

import "github.com/momentics/hioload-ring/api"

// Ensure compile-time interface compliance.
var _ api.Ring[any] = (*Buffer[any])(nil)

// empty marks the read index of a buffer holding no elements.
// It lies outside [0, capacity) for every valid capacity.
const empty = -1

// Buffer is a fixed-capacity ring buffer owned by a single goroutine.
type Buffer[T any] struct {
	data  []T
	write int // next slot to write, always in [0, len(data))
	read  int // next slot to read, or empty
}

// New allocates a buffer holding up to capacity elements.
func New[T any](capacity int) (*Buffer[T], error) {
	if capacity < 1 {
		return nil, ErrInvalidCapacity.WithContext("capacity", capacity)
	}
	return &Buffer[T]{
		data: make([]T, capacity),
		read: empty,
	}, nil
}

// Push stores value at the write index. Returns ErrBufferOverrun if full.
func (b *Buffer[T]) Push(value T) error {
	if b.write == b.read {
		return ErrBufferOverrun
	}
	b.data[b.write] = value
	if b.read == empty {
		b.read = b.write
	}
	b.write = b.advance(b.write)
	return nil
}

// Pop removes and returns the oldest element. Returns ErrBufferUnderrun if empty.
func (b *Buffer[T]) Pop() (T, error) {
	var zero T
	if b.read == empty {
		return zero, ErrBufferUnderrun
	}
	v := b.data[b.read]
	b.data[b.read] = zero // drop the reference held by the vacated slot
	b.read = b.advance(b.read)
	if b.read == b.write {
		b.read = empty
	}
	return v, nil
}

// Peek returns the oldest element without removing it.
func (b *Buffer[T]) Peek() (T, error) {
	if b.read == empty {
		var zero T
		return zero, ErrBufferUnderrun
	}
	return b.data[b.read], nil
}

// Len returns the number of stored elements.
func (b *Buffer[T]) Len() int {
	if b.read == empty {
		return 0
	}
	n := b.write - b.read
	if n <= 0 {
		n += len(b.data)
	}
	return n
}

// Cap returns the fixed capacity.
func (b *Buffer[T]) Cap() int {
	return len(b.data)
}

// IsEmpty reports whether the buffer holds no element.
func (b *Buffer[T]) IsEmpty() bool {
	return b.read == empty
}

// IsFull reports whether every slot holds an element.
func (b *Buffer[T]) IsFull() bool {
	return b.read == b.write
}

// Reset discards all elements and returns the buffer to its initial state.
// Storage is kept; slots are zeroed.
func (b *Buffer[T]) Reset() {
	clear(b.data)
	b.write = 0
	b.read = empty
}

func (b *Buffer[T]) advance(i int) int {
	i++
	if i == len(b.data) {
		return 0
	}
	return i
}
