// Package fake
// Author: momentics <momentics@gmail.com>

package fake

import (
	"context"
	"sync"
)

// Sink collects delivered values. FailAt > 0 makes the FailAt-th call
// return Err instead of collecting.
type Sink[T any] struct {
	mu     sync.Mutex
	values []T
	calls  int
	FailAt int
	Err    error
}

// Deliver matches stage.Sink.
func (s *Sink[T]) Deliver(_ context.Context, v T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.FailAt > 0 && s.calls == s.FailAt {
		return s.Err
	}
	s.values = append(s.values, v)
	return nil
}

// Values returns a copy of the collected values.
func (s *Sink[T]) Values() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]T(nil), s.values...)
}
