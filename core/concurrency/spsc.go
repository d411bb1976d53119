// File: core/concurrency/spsc.go
// Package concurrency implements the cross-thread ring variant.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// SPSC is a bounded ring for exactly one producer goroutine and one consumer
// goroutine. The producer owns the tail cursor, the consumer owns the head
// cursor; each side publishes its cursor with an atomic store and observes
// the other with an atomic load. Cursors count monotonically, so
// tail == head means empty and tail-head == capacity means full without a
// sentinel.

package concurrency

import (
	"sync/atomic"

	"golang.org/x/sys/cpu"

	"github.com/momentics/hioload-ring/api"
)

// Ensure compile-time interface compliance.
var _ api.Ring[any] = (*SPSC[any])(nil)

// SPSC is a lock-free single-producer/single-consumer ring buffer.
type SPSC[T any] struct {
	_    cpu.CacheLinePad
	head atomic.Uint64 // consumer cursor
	_    cpu.CacheLinePad
	tail atomic.Uint64 // producer cursor
	_    cpu.CacheLinePad
	size uint64
	data []T
}

// NewSPSC allocates a ring of the given capacity. Any capacity >= 1 is accepted.
func NewSPSC[T any](capacity int) (*SPSC[T], error) {
	if capacity < 1 {
		return nil, api.ErrInvalidCapacity.WithContext("capacity", capacity)
	}
	return &SPSC[T]{
		size: uint64(capacity),
		data: make([]T, capacity),
	}, nil
}

// Push appends item. Producer side only.
func (r *SPSC[T]) Push(item T) error {
	tail := r.tail.Load()
	if tail-r.head.Load() >= r.size {
		return api.ErrBufferOverrun
	}
	r.data[tail%r.size] = item
	r.tail.Store(tail + 1)
	return nil
}

// Pop removes the oldest item. Consumer side only.
func (r *SPSC[T]) Pop() (T, error) {
	var zero T
	head := r.head.Load()
	if head == r.tail.Load() {
		return zero, api.ErrBufferUnderrun
	}
	idx := head % r.size
	item := r.data[idx]
	r.data[idx] = zero
	r.head.Store(head + 1)
	return item, nil
}

// Len returns the number of items observed at call time.
// Under concurrent use the value may be stale by the time it is returned.
func (r *SPSC[T]) Len() int {
	head := r.head.Load()
	tail := r.tail.Load()
	n := tail - head
	if n > r.size {
		// stale head paired with a newer tail
		n = r.size
	}
	return int(n)
}

// Cap returns fixed buffer capacity.
func (r *SPSC[T]) Cap() int {
	return int(r.size)
}

// IsEmpty reports whether no item is staged.
func (r *SPSC[T]) IsEmpty() bool {
	return r.Len() == 0
}

// IsFull reports whether every slot is staged.
func (r *SPSC[T]) IsFull() bool {
	return r.Len() == int(r.size)
}
