// File: stage/stage.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Stage wires one producer goroutine and one consumer goroutine around an
// SPSC ring. The producer alone calls Push and the consumer alone calls Pop,
// which is the ownership split the SPSC ring requires.

package stage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/atomic"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/momentics/hioload-ring/affinity"
	"github.com/momentics/hioload-ring/api"
	"github.com/momentics/hioload-ring/core/concurrency"
)

// ErrAlreadyRun is returned by a second call to Run.
var ErrAlreadyRun = errors.New("stage: already run")

// Stage stages elements from a Source to a Sink through a bounded ring.
type Stage[T any] struct {
	id   uuid.UUID
	cfg  Config
	ring *concurrency.SPSC[T]
	src  Source[T]
	sink Sink[T]
	opts options

	started atomic.Bool
	eof     atomic.Bool // set by the producer after its last Push
	stats   counters
}

// New validates cfg and allocates the ring.
func New[T any](cfg Config, src Source[T], sink Sink[T], opts ...Option) (*Stage[T], error) {
	if src == nil || sink == nil {
		return nil, api.ErrInvalidArgument.WithContext("reason", "nil source or sink")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ring, err := concurrency.NewSPSC[T](cfg.Capacity)
	if err != nil {
		return nil, err
	}
	s := &Stage[T]{
		id:   uuid.New(),
		cfg:  cfg,
		ring: ring,
		src:  src,
		sink: sink,
		opts: options{
			logger:   zap.NewNop(),
			affinity: affinity.Pinner{},
		},
	}
	for _, opt := range opts {
		opt(&s.opts)
	}
	if s.opts.logger == nil {
		s.opts.logger = zap.NewNop()
	}
	if s.opts.affinity == nil {
		s.opts.affinity = affinity.Pinner{}
	}
	s.opts.logger = s.opts.logger.With(zap.String("stage", s.id.String()))
	if s.opts.debug != nil {
		s.opts.debug.RegisterProbe(s.key(""), func() any {
			return map[string]any{
				"len":   s.ring.Len(),
				"cap":   s.ring.Cap(),
				"stats": s.Stats(),
			}
		})
	}
	return s, nil
}

// ID returns the stage identifier used in logs and metric keys.
func (s *Stage[T]) ID() string {
	return s.id.String()
}

// Stats returns a snapshot of the counters. Safe to call while running.
func (s *Stage[T]) Stats() Stats {
	return s.stats.snapshot()
}

// Run stages the whole source. It returns nil once the source reports
// io.EOF and every staged element reached the sink. A source error, a sink
// error or ctx cancellation stops both goroutines and is returned. Run may be
// called once.
func (s *Stage[T]) Run(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return ErrAlreadyRun
	}
	log := s.opts.logger
	log.Info("stage started",
		zap.Int("capacity", s.cfg.Capacity),
		zap.String("policy", string(s.cfg.Policy)),
		zap.Duration("idle_poll", s.cfg.IdlePoll),
		zap.Int("pin_cpu", s.cfg.PinCPU))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.produce(gctx) })
	g.Go(func() error { return s.consume(gctx) })
	err := g.Wait()

	st := s.Stats()
	s.publish(st)
	if err != nil {
		log.Error("stage stopped", append(st.Fields(), zap.Error(err))...)
		return err
	}
	log.Info("stage finished", st.Fields()...)
	return nil
}

func (s *Stage[T]) produce(ctx context.Context) error {
	retry := rate.NewLimiter(rate.Every(s.cfg.RetryPoll), 1)
	for {
		v, err := s.src.Next(ctx)
		if errors.Is(err, io.EOF) {
			s.eof.Store(true)
			return nil
		}
		if err != nil {
			return fmt.Errorf("stage source: %w", err)
		}
		s.stats.received.Inc()
		if err := s.push(ctx, v, retry); err != nil {
			return err
		}
	}
}

// push applies the overrun policy to a single element.
func (s *Stage[T]) push(ctx context.Context, v T, retry *rate.Limiter) error {
	for {
		err := s.ring.Push(v)
		if err == nil {
			s.stats.staged.Inc()
			s.stats.observe(s.ring.Len())
			return nil
		}
		if !errors.Is(err, api.ErrBufferOverrun) {
			return err
		}
		s.stats.overruns.Inc()
		if s.cfg.Policy == PolicyDrop {
			s.stats.dropped.Inc()
			s.opts.logger.Debug("ring overrun, element dropped", zap.Int("len", s.ring.Len()))
			return nil
		}
		if err := retry.Wait(ctx); err != nil {
			return err
		}
	}
}

func (s *Stage[T]) consume(ctx context.Context) error {
	if s.cfg.PinCPU >= 0 {
		if err := s.opts.affinity.Pin(s.cfg.PinCPU); err != nil {
			s.opts.logger.Warn("consumer not pinned", zap.Int("cpu", s.cfg.PinCPU), zap.Error(err))
		}
	}
	idle := rate.NewLimiter(rate.Every(s.cfg.IdlePoll), 1)
	for {
		v, err := s.ring.Pop()
		if err == nil {
			if err := s.sink(ctx, v); err != nil {
				return fmt.Errorf("stage sink: %w", err)
			}
			s.stats.delivered.Inc()
			continue
		}
		if !errors.Is(err, api.ErrBufferUnderrun) {
			return err
		}
		s.stats.underruns.Inc()
		// eof is stored after the final Push, so an empty ring here is final
		if s.eof.Load() && s.ring.IsEmpty() {
			return nil
		}
		if err := idle.Wait(ctx); err != nil {
			return err
		}
	}
}

func (s *Stage[T]) publish(st Stats) {
	m := s.opts.metrics
	if m == nil {
		return
	}
	m.Add(s.key("received"), st.Received)
	m.Add(s.key("staged"), st.Staged)
	m.Add(s.key("dropped"), st.Dropped)
	m.Add(s.key("overruns"), st.Overruns)
	m.Add(s.key("underruns"), st.Underruns)
	m.Add(s.key("delivered"), st.Delivered)
	m.Set(s.key("high_water"), st.HighWater)
	m.Set(s.key("capacity"), s.cfg.Capacity)
}

func (s *Stage[T]) key(name string) string {
	if name == "" {
		return "stage." + s.id.String()
	}
	return "stage." + s.id.String() + "." + name
}
