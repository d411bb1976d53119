// File: affinity/affinity.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral API for CPU affinity. Platform-specific implementations are located
// in separate files (affinity_linux.go, affinity_windows.go, etc.) guarded by build tags.

package affinity

import (
	"runtime"

	"github.com/momentics/hioload-ring/api"
)

var _ api.Affinity = Pinner{}

// SetAffinity locks the calling goroutine to its OS thread and binds that
// thread to cpuID. The goroutine stays locked even if binding fails. Letting
// the goroutine exit while locked makes the runtime retire the pinned thread.
func SetAffinity(cpuID int) error {
	if cpuID < 0 {
		return api.ErrInvalidArgument.WithContext("cpu", cpuID)
	}
	runtime.LockOSThread()
	return setAffinityPlatform(cpuID)
}

// Current returns the CPUs the calling thread is allowed to run on.
func Current() ([]int, error) {
	return currentPlatform()
}

// Pinner adapts SetAffinity to api.Affinity.
type Pinner struct{}

// Pin implements api.Affinity.
func (Pinner) Pin(cpuID int) error { return SetAffinity(cpuID) }
