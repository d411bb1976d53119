// Package api
// Author: momentics@gmail.com
//
// Bounded FIFO ring contract shared by the single-owner buffer and the
// cross-thread SPSC variant.

package api

// Ring is a fixed-capacity FIFO ring contract.
type Ring[T any] interface {
	// Push appends an item, returns ErrBufferOverrun if full.
	Push(item T) error
	// Pop removes the oldest item, returns ErrBufferUnderrun if empty.
	Pop() (T, error)
	// Len returns current number of items.
	Len() int
	// Cap returns buffer capacity.
	Cap() int
	// IsEmpty reports whether no item is stored.
	IsEmpty() bool
	// IsFull reports whether Len() == Cap().
	IsFull() bool
}
