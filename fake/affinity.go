// Package fake
// Author: momentics <momentics@gmail.com>
//
// Fake affinity and sink implementations for testing staging pipelines.

package fake

import (
	"sync"

	"github.com/momentics/hioload-ring/api"
)

var _ api.Affinity = (*Affinity)(nil)

// Affinity records Pin calls without touching the OS thread.
type Affinity struct {
	mu   sync.Mutex
	cpus []int
	Err  error // returned by every Pin
}

// Pin records cpuID and returns Err.
func (a *Affinity) Pin(cpuID int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cpus = append(a.cpus, cpuID)
	return a.Err
}

// Pinned returns the recorded cpu ids.
func (a *Affinity) Pinned() []int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]int(nil), a.cpus...)
}
