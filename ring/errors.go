// File: ring/errors.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package ring

import "github.com/momentics/hioload-ring/api"

var (
	// ErrInvalidCapacity is returned by New for capacity < 1.
	ErrInvalidCapacity = api.ErrInvalidCapacity
	// ErrBufferOverrun is returned by Push on a full buffer.
	ErrBufferOverrun = api.ErrBufferOverrun
	// ErrBufferUnderrun is returned by Pop and Peek on an empty buffer.
	ErrBufferUnderrun = api.ErrBufferUnderrun
)
