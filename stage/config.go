// File: stage/config.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package stage

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"
)

// Policy selects the producer reaction to a full ring.
type Policy string

const (
	// PolicyDrop discards the element that did not fit.
	PolicyDrop Policy = "drop"
	// PolicyWait retries the same element after RetryPoll.
	PolicyWait Policy = "wait"
)

var (
	ErrCapacityInvalid  = errors.New("capacity must be at least 1")
	ErrPolicyInvalid    = errors.New("policy must be drop or wait")
	ErrIdlePollInvalid  = errors.New("idle_poll must be positive")
	ErrRetryPollInvalid = errors.New("retry_poll must be positive")
	ErrPinCPUInvalid    = errors.New("pin_cpu must be -1 or a cpu index")
)

// Config holds staging parameters.
type Config struct {
	Capacity  int           `yaml:"capacity"`   // ring slots
	Policy    Policy        `yaml:"policy"`     // overrun reaction
	IdlePoll  time.Duration `yaml:"idle_poll"`  // consumer wait on underrun
	RetryPoll time.Duration `yaml:"retry_poll"` // producer wait on overrun (PolicyWait)
	PinCPU    int           `yaml:"pin_cpu"`    // consumer cpu, -1 = unpinned
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Capacity:  4096,
		Policy:    PolicyDrop,
		IdlePoll:  time.Millisecond,
		RetryPoll: 100 * time.Microsecond,
		PinCPU:    -1,
	}
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var result error
	if c.Capacity < 1 {
		result = multierror.Append(result, ErrCapacityInvalid)
	}
	if c.Policy != PolicyDrop && c.Policy != PolicyWait {
		result = multierror.Append(result, fmt.Errorf("%w: %q", ErrPolicyInvalid, c.Policy))
	}
	if c.IdlePoll <= 0 {
		result = multierror.Append(result, ErrIdlePollInvalid)
	}
	if c.Policy == PolicyWait && c.RetryPoll <= 0 {
		result = multierror.Append(result, ErrRetryPollInvalid)
	}
	if c.PinCPU < -1 {
		result = multierror.Append(result, ErrPinCPUInvalid)
	}
	return result
}

// LoadConfig reads a YAML file over DefaultConfig. Missing keys keep their
// defaults. The result is validated.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read stage config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse stage config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid stage config %s: %w", path, err)
	}
	return cfg, nil
}
