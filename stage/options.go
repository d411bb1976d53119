// File: stage/options.go
// Package stage defines functional options for Stage.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package stage

import (
	"go.uber.org/zap"

	"github.com/momentics/hioload-ring/api"
)

// Option customizes stage initialization.
type Option func(*options)

type options struct {
	logger   *zap.Logger
	metrics  api.Metrics
	debug    api.Debug
	affinity api.Affinity
}

// WithLogger sets the logger. Defaults to zap.NewNop.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMetrics publishes final counters under "stage.<id>.*".
func WithMetrics(m api.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithDebug registers a live "stage.<id>" probe.
func WithDebug(d api.Debug) Option {
	return func(o *options) {
		o.debug = d
	}
}

// WithAffinity sets the pinner used when Config.PinCPU >= 0.
func WithAffinity(a api.Affinity) Option {
	return func(o *options) {
		o.affinity = a
	}
}
