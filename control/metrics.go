// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Runtime metrics collector for staging pipelines.
// Gauges live in a locked map; counters are lock-free once registered.

package control

import (
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/momentics/hioload-ring/api"
)

var _ api.Metrics = (*MetricsRegistry)(nil)

// MetricsRegistry holds gauges and monotonically increasing counters.
type MetricsRegistry struct {
	mu       sync.RWMutex
	gauges   map[string]any
	counters map[string]*atomic.Uint64
	updated  *atomic.Time
}

// NewMetricsRegistry creates an empty registry.
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		gauges:   make(map[string]any),
		counters: make(map[string]*atomic.Uint64),
		updated:  atomic.NewTime(time.Time{}),
	}
}

// Set sets or updates a gauge.
func (mr *MetricsRegistry) Set(key string, value any) {
	mr.mu.Lock()
	mr.gauges[key] = value
	mr.mu.Unlock()
	mr.updated.Store(time.Now())
}

// Add increments counter key by delta, registering it on first use.
func (mr *MetricsRegistry) Add(key string, delta uint64) {
	mr.counter(key).Add(delta)
	mr.updated.Store(time.Now())
}

// Counter returns the current value of counter key.
func (mr *MetricsRegistry) Counter(key string) uint64 {
	mr.mu.RLock()
	c, ok := mr.counters[key]
	mr.mu.RUnlock()
	if !ok {
		return 0
	}
	return c.Load()
}

// Updated returns the time of the last Set or Add.
func (mr *MetricsRegistry) Updated() time.Time {
	return mr.updated.Load()
}

// GetSnapshot returns the latest gauges and counters in one map.
func (mr *MetricsRegistry) GetSnapshot() map[string]any {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	out := make(map[string]any, len(mr.gauges)+len(mr.counters))
	for k, v := range mr.gauges {
		out[k] = v
	}
	for k, c := range mr.counters {
		out[k] = c.Load()
	}
	return out
}

func (mr *MetricsRegistry) counter(key string) *atomic.Uint64 {
	mr.mu.RLock()
	c, ok := mr.counters[key]
	mr.mu.RUnlock()
	if ok {
		return c
	}
	mr.mu.Lock()
	defer mr.mu.Unlock()
	if c, ok = mr.counters[key]; !ok {
		c = atomic.NewUint64(0)
		mr.counters[key] = c
	}
	return c
}
