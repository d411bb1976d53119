package control

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRegistry_CountersAndGauges(t *testing.T) {
	mr := NewMetricsRegistry()
	assert.True(t, mr.Updated().IsZero())

	mr.Set("stage.capacity", 8)
	mr.Add("stage.dropped", 2)
	mr.Add("stage.dropped", 3)

	snap := mr.GetSnapshot()
	assert.Equal(t, 8, snap["stage.capacity"])
	assert.Equal(t, uint64(5), snap["stage.dropped"])
	assert.Equal(t, uint64(5), mr.Counter("stage.dropped"))
	assert.Equal(t, uint64(0), mr.Counter("missing"))
	assert.False(t, mr.Updated().IsZero())

	// snapshot is a copy
	snap["stage.capacity"] = 1
	assert.Equal(t, 8, mr.GetSnapshot()["stage.capacity"])
}

func TestMetricsRegistry_ConcurrentAdd(t *testing.T) {
	mr := NewMetricsRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				mr.Add("hits", 1)
			}
		}()
	}
	wg.Wait()
	require.Equal(t, uint64(8000), mr.Counter("hits"))
}

func TestDebugProbes_DumpState(t *testing.T) {
	dp := NewDebugProbes()
	RegisterRuntimeProbes(dp)
	dp.RegisterProbe("ring.len", func() any { return 3 })
	dp.RegisterProbe("nested", func() any {
		dp.RegisterProbe("late", func() any { return true })
		return "ok"
	})

	state := dp.DumpState()
	assert.Equal(t, 3, state["ring.len"])
	assert.Contains(t, state, "runtime.cpus")
	assert.Contains(t, state, "runtime.goroutines")
	assert.Equal(t, "ok", state["nested"])
	assert.NotContains(t, state, "late")
	assert.Equal(t, true, dp.DumpState()["late"])
}
