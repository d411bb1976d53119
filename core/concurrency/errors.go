// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Error definitions for concurrency module.

package concurrency

import "github.com/momentics/hioload-ring/api"

var (
	// ErrInvalidCapacity is returned by NewSPSC for capacity < 1.
	ErrInvalidCapacity = api.ErrInvalidCapacity

	// ErrBufferOverrun is returned by Push when every slot is staged.
	ErrBufferOverrun = api.ErrBufferOverrun

	// ErrBufferUnderrun is returned by Pop when nothing is staged.
	ErrBufferUnderrun = api.ErrBufferUnderrun
)
