// File: api/control.go
// Package api defines the Metrics contract.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// Metrics receives counters and gauges published by staging pipelines.
type Metrics interface {
	// Set stores a gauge value under key.
	Set(key string, value any)
	// Add increments the counter under key by delta.
	Add(key string, delta uint64)
	// GetSnapshot returns a copy of all metrics.
	GetSnapshot() map[string]any
}
