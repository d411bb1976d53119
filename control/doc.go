// Package control
// Author: momentics <momentics@gmail.com>
//
// Runtime metrics and debug introspection layer for hioload-ring staging
// pipelines.
//
// Provides concurrent-safe primitives:
//   - MetricsRegistry: gauges plus lock-free counters (api.Metrics)
//   - DebugProbes: named probe registration and state export (api.Debug)
package control
