// Package api
// Author: momentics@gmail.com
//
// Thread pinning contract.

package api

// Affinity pins the calling goroutine's OS thread to a CPU.
type Affinity interface {
	// Pin locks the calling goroutine to its OS thread and binds it to cpuID.
	Pin(cpuID int) error
}
