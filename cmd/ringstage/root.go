// File: cmd/ringstage/root.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/momentics/hioload-ring/affinity"
	"github.com/momentics/hioload-ring/control"
	"github.com/momentics/hioload-ring/internal/logging"
	"github.com/momentics/hioload-ring/stage"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ringstage",
		Short:         "Stage a byte stream through a fixed-capacity ring buffer",
		SilenceUsage: true,
	}
	root.AddCommand(newRunCmd(), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the ringstage version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ringstage %s\n", Version)
		},
	}
}

type runFlags struct {
	configPath string
	capacity   int
	policy     string
	idlePoll   time.Duration
	retryPoll  time.Duration
	cpu        int
	verbose    bool
	dumpState  bool
}

func newRunCmd() *cobra.Command {
	var f runFlags
	short := "Copy stdin to stdout through a staging ring"
	cmd := &cobra.Command{
		Use:   "run",
		Short: short,
		Long: short + `.
Bytes are read one at a time on a producer goroutine and written by a consumer
goroutine. When the ring is full the byte is dropped (--policy drop) or the
producer waits for room (--policy wait). Flags override the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(cmd, f)
			if err != nil {
				return err
			}
			logger, err := logging.New(f.verbose)
			if err != nil {
				return fmt.Errorf("build logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()
			return runStage(cmd.Context(), cmd, cfg, logger, f.dumpState)
		},
	}

	def := stage.DefaultConfig()
	flags := cmd.Flags()
	flags.StringVarP(&f.configPath, "config", "c", "", "YAML stage config file")
	flags.IntVar(&f.capacity, "capacity", def.Capacity, "ring capacity in bytes")
	flags.StringVar(&f.policy, "policy", string(def.Policy), "overrun policy: drop or wait")
	flags.DurationVar(&f.idlePoll, "idle-poll", def.IdlePoll, "consumer wait on an empty ring")
	flags.DurationVar(&f.retryPoll, "retry-poll", def.RetryPoll, "producer wait on a full ring (policy wait)")
	flags.IntVar(&f.cpu, "cpu", def.PinCPU, "pin the consumer to this cpu, -1 disables")
	flags.BoolVarP(&f.verbose, "verbose", "v", false, "debug logging")
	flags.BoolVar(&f.dumpState, "dump-state", false, "log debug probes and metrics on exit")
	return cmd
}

// resolveConfig loads the config file, if any, then applies explicitly set flags.
func resolveConfig(cmd *cobra.Command, f runFlags) (stage.Config, error) {
	cfg := stage.DefaultConfig()
	if f.configPath != "" {
		var err error
		if cfg, err = stage.LoadConfig(f.configPath); err != nil {
			return cfg, err
		}
	}
	flags := cmd.Flags()
	if f.configPath == "" || flags.Changed("capacity") {
		cfg.Capacity = f.capacity
	}
	if f.configPath == "" || flags.Changed("policy") {
		cfg.Policy = stage.Policy(f.policy)
	}
	if f.configPath == "" || flags.Changed("idle-poll") {
		cfg.IdlePoll = f.idlePoll
	}
	if f.configPath == "" || flags.Changed("retry-poll") {
		cfg.RetryPoll = f.retryPoll
	}
	if f.configPath == "" || flags.Changed("cpu") {
		cfg.PinCPU = f.cpu
	}
	return cfg, cfg.Validate()
}

func runStage(ctx context.Context, cmd *cobra.Command, cfg stage.Config, logger *zap.Logger, dump bool) error {
	out := bufio.NewWriter(cmd.OutOrStdout())
	sink := func(_ context.Context, b byte) error {
		return out.WriteByte(b)
	}

	metrics := control.NewMetricsRegistry()
	probes := control.NewDebugProbes()
	control.RegisterRuntimeProbes(probes)
	probes.RegisterProbe("affinity.cpus", func() any {
		cpus, err := affinity.Current()
		if err != nil {
			return err.Error()
		}
		return cpus
	})

	s, err := stage.New[byte](cfg, stage.NewReaderSource(cmd.InOrStdin()), sink,
		stage.WithLogger(logger),
		stage.WithMetrics(metrics),
		stage.WithDebug(probes))
	if err != nil {
		return err
	}

	start := time.Now()
	runErr := s.Run(ctx)
	flushErr := out.Flush()
	elapsed := time.Since(start)

	st := s.Stats()
	logger.Info("ringstage summary",
		zap.String("read", humanize.Bytes(st.Received)),
		zap.String("written", humanize.Bytes(st.Delivered)),
		zap.String("dropped", humanize.Comma(int64(st.Dropped))),
		zap.String("high_water", humanize.Comma(int64(st.HighWater))+" / "+humanize.Comma(int64(cfg.Capacity))),
		zap.Duration("elapsed", elapsed))
	if dump {
		logger.Info("debug state", zap.Any("probes", probes.DumpState()), zap.Any("metrics", metrics.GetSnapshot()))
	}

	if runErr != nil && errors.Is(runErr, context.Canceled) {
		// interrupted by signal; what was staged so far has been flushed
		return flushErr
	}
	return errors.Join(runErr, flushErr)
}
