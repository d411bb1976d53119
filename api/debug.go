// Package api
// Author: momentics
//
// Live debug probes for staging pipelines.

package api

// Debug exposes runtime introspection of registered components.
type Debug interface {
	// DumpState emits a snapshot of every probe.
	DumpState() map[string]any

	// RegisterProbe registers a named probe, replacing an existing one.
	RegisterProbe(name string, fn func() any)
}
