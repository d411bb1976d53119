// File: stage/stats.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package stage

import (
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// Stats is a point-in-time copy of stage counters.
type Stats struct {
	Received  uint64 // elements returned by the source
	Staged    uint64 // elements accepted by the ring
	Dropped   uint64 // elements discarded on overrun (PolicyDrop)
	Overruns  uint64 // Push calls rejected by a full ring
	Underruns uint64 // Pop calls on an empty ring
	Delivered uint64 // elements accepted by the sink
	HighWater int    // largest ring length observed after a push
}

// Fields renders the stats as zap fields.
func (s Stats) Fields() []zap.Field {
	return []zap.Field{
		zap.Uint64("received", s.Received),
		zap.Uint64("staged", s.Staged),
		zap.Uint64("dropped", s.Dropped),
		zap.Uint64("overruns", s.Overruns),
		zap.Uint64("underruns", s.Underruns),
		zap.Uint64("delivered", s.Delivered),
		zap.Int("high_water", s.HighWater),
	}
}

type counters struct {
	received  atomic.Uint64
	staged    atomic.Uint64
	dropped   atomic.Uint64
	overruns  atomic.Uint64
	underruns atomic.Uint64
	delivered atomic.Uint64
	highWater atomic.Int64
}

func (c *counters) snapshot() Stats {
	return Stats{
		Received:  c.received.Load(),
		Staged:    c.staged.Load(),
		Dropped:   c.dropped.Load(),
		Overruns:  c.overruns.Load(),
		Underruns: c.underruns.Load(),
		Delivered: c.delivered.Load(),
		HighWater: int(c.highWater.Load()),
	}
}

// observe raises the high-water mark to n.
func (c *counters) observe(n int) {
	for {
		hw := c.highWater.Load()
		if int64(n) <= hw || c.highWater.CompareAndSwap(hw, int64(n)) {
			return
		}
	}
}
