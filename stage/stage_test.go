package stage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/momentics/hioload-ring/control"
	"github.com/momentics/hioload-ring/fake"
)

func testConfig(capacity int, policy Policy) Config {
	cfg := DefaultConfig()
	cfg.Capacity = capacity
	cfg.Policy = policy
	cfg.IdlePoll = 50 * time.Microsecond
	cfg.RetryPoll = 50 * time.Microsecond
	return cfg
}

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestStage_WaitPolicyDeliversEverythingInOrder(t *testing.T) {
	const n = 2000
	var got []int
	sink := func(_ context.Context, v int) error {
		got = append(got, v)
		return nil
	}
	s, err := New[int](testConfig(8, PolicyWait), NewSliceSource(seq(n)...), sink, WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, s.Run(ctx))

	assert.Equal(t, seq(n), got)
	st := s.Stats()
	assert.Equal(t, uint64(n), st.Received)
	assert.Equal(t, uint64(n), st.Staged)
	assert.Equal(t, uint64(n), st.Delivered)
	assert.Zero(t, st.Dropped)
	assert.LessOrEqual(t, st.HighWater, 8)
	assert.GreaterOrEqual(t, st.HighWater, 1)
}

func TestStage_DropPolicyDiscardsOnOverrun(t *testing.T) {
	sinkStarted := make(chan struct{})
	release := make(chan struct{})
	exhausted := make(chan struct{})

	items := seq(10)
	i := 0
	src := SourceFunc[int](func(ctx context.Context) (int, error) {
		if i == len(items) {
			close(exhausted)
			return 0, io.EOF
		}
		if i == 1 {
			// hold the second item until the consumer owns the first
			<-sinkStarted
		}
		v := items[i]
		i++
		return v, nil
	})

	var got []int
	var once sync.Once
	sink := func(_ context.Context, v int) error {
		once.Do(func() {
			close(sinkStarted)
			<-release
		})
		got = append(got, v)
		return nil
	}

	s, err := New[int](testConfig(2, PolicyDrop), src, sink, WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- s.Run(context.Background()) }()

	select {
	case <-exhausted:
	case <-time.After(5 * time.Second):
		t.Fatal("source was not drained")
	}
	close(release)
	require.NoError(t, <-done)

	assert.Equal(t, []int{0, 1, 2}, got)
	st := s.Stats()
	assert.Equal(t, uint64(10), st.Received)
	assert.Equal(t, uint64(3), st.Staged)
	assert.Equal(t, uint64(7), st.Dropped)
	assert.Equal(t, uint64(7), st.Overruns)
	assert.Equal(t, uint64(3), st.Delivered)
	assert.Equal(t, 2, st.HighWater)
}

func TestStage_SinkErrorStopsRun(t *testing.T) {
	errBoom := errors.New("boom")
	sink := &fake.Sink[int]{FailAt: 5, Err: errBoom}
	s, err := New[int](testConfig(4, PolicyWait), NewSliceSource(seq(100)...), sink.Deliver)
	require.NoError(t, err)

	err = s.Run(context.Background())
	require.ErrorIs(t, err, errBoom)
	assert.Equal(t, uint64(4), s.Stats().Delivered)
	assert.Equal(t, []int{0, 1, 2, 3}, sink.Values())
}

func TestStage_SourceErrorStopsRun(t *testing.T) {
	errRead := errors.New("read failed")
	src := SourceFunc[int](func(context.Context) (int, error) { return 0, errRead })
	s, err := New[int](testConfig(4, PolicyDrop), src, func(context.Context, int) error { return nil })
	require.NoError(t, err)
	require.ErrorIs(t, s.Run(context.Background()), errRead)
}

func TestStage_ContextCancel(t *testing.T) {
	src := SourceFunc[int](func(ctx context.Context) (int, error) {
		return 1, ctx.Err()
	})
	s, err := New[int](testConfig(16, PolicyDrop), src, func(context.Context, int) error { return nil })
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)
	err = s.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Greater(t, s.Stats().Received, uint64(0))
}

func TestStage_RunOnce(t *testing.T) {
	s, err := New[int](testConfig(1, PolicyWait), NewSliceSource(1), func(context.Context, int) error { return nil })
	require.NoError(t, err)
	require.NoError(t, s.Run(context.Background()))
	require.ErrorIs(t, s.Run(context.Background()), ErrAlreadyRun)
}

func TestNew_Rejects(t *testing.T) {
	sink := func(context.Context, int) error { return nil }

	_, err := New[int](testConfig(0, PolicyDrop), NewSliceSource[int](), sink)
	require.ErrorIs(t, err, ErrCapacityInvalid)

	_, err = New[int](testConfig(1, PolicyDrop), nil, sink)
	require.Error(t, err)

	_, err = New[int](testConfig(1, PolicyDrop), NewSliceSource[int](), nil)
	require.Error(t, err)
}

func TestStage_PublishesMetricsAndProbe(t *testing.T) {
	metrics := control.NewMetricsRegistry()
	probes := control.NewDebugProbes()
	s, err := New[int](testConfig(4, PolicyWait), NewSliceSource(seq(50)...),
		func(context.Context, int) error { return nil },
		WithMetrics(metrics), WithDebug(probes))
	require.NoError(t, err)
	require.NoError(t, s.Run(context.Background()))

	prefix := "stage." + s.ID()
	assert.Equal(t, uint64(50), metrics.Counter(prefix+".delivered"))
	assert.Equal(t, uint64(50), metrics.Counter(prefix+".received"))
	assert.Equal(t, 4, metrics.GetSnapshot()[prefix+".capacity"])

	state := probes.DumpState()
	require.Contains(t, state, prefix)
	probe := state[prefix].(map[string]any)
	assert.Equal(t, 0, probe["len"])
	assert.Equal(t, 4, probe["cap"])
}

func TestStage_ReaderSourceCopiesBytes(t *testing.T) {
	const text = "the quick brown fox jumps over the lazy dog"
	var out bytes.Buffer
	sink := func(_ context.Context, b byte) error { return out.WriteByte(b) }
	s, err := New[byte](testConfig(3, PolicyWait), NewReaderSource(strings.NewReader(text)), sink)
	require.NoError(t, err)
	require.NoError(t, s.Run(context.Background()))
	assert.Equal(t, text, out.String())
}

func TestStage_PinsConsumer(t *testing.T) {
	cfg := testConfig(2, PolicyWait)
	cfg.PinCPU = 3
	fa := &fake.Affinity{Err: errors.New("no such cpu")}

	core, logs := observer.New(zapcore.WarnLevel)
	s, err := New[int](cfg, NewSliceSource(1, 2, 3), func(context.Context, int) error { return nil },
		WithAffinity(fa), WithLogger(zap.New(core)))
	require.NoError(t, err)
	require.NoError(t, s.Run(context.Background()))

	assert.Equal(t, []int{3}, fa.Pinned())
	require.Equal(t, 1, logs.FilterMessage("consumer not pinned").Len())
	assert.Equal(t, uint64(3), s.Stats().Delivered)
}
