// Package config holds the immutable run parameters shared by every
// optimizer and the scheduler, loaded once and passed by value for the life
// of a run (spec §5 concurrency model, §6 Config schema).
package config

import (
	"errors"
	"time"
)

// Algorithm selects which optimizer Configure uses.
type Algorithm string

const (
	AlgorithmACO Algorithm = "aco"
	AlgorithmRO  Algorithm = "ro"
	AlgorithmSPF Algorithm = "spf"
)

// ErrBadAlgorithm indicates an Algorithm value outside the known set.
var ErrBadAlgorithm = errors.New("config: unknown algorithm")

// ErrBadWeight indicates a negative cost weight.
var ErrBadWeight = errors.New("config: weights must be non-negative")

// Config is the full set of run parameters (spec §6 Config schema, plus
// the two open-question knobs recorded in the design ledger).
type Config struct {
	W0, W1, W2, W3 float64
	FastStop       bool
	TSNMemory      float64
	AVBMemory      float64
	TLimit         time.Duration
	Algorithm      Algorithm
	Seed           int64

	// ACOq0 is the ACS pseudo-random-proportional exploitation probability
	// (spec §9 open question: exposed as a knob rather than hard-coded).
	ACOq0 float64

	// BridgeDelay is the per-hop bridge processing delay charged by
	// tsnsched (spec §9 open question, default 0).
	BridgeDelay int64
}

// Option mutates a Config during construction.
type Option func(*Config)

// WithWeights sets the four cost scalarization weights.
func WithWeights(w0, w1, w2, w3 float64) Option {
	return func(c *Config) {
		c.W0, c.W1, c.W2, c.W3 = w0, w1, w2, w3
	}
}

// WithFastStop toggles the optimizer's early-exit behavior.
func WithFastStop(enabled bool) Option {
	return func(c *Config) { c.FastStop = enabled }
}

// WithMemory sets the pheromone memory multipliers for TSN and AVB streams.
func WithMemory(tsn, avb float64) Option {
	return func(c *Config) { c.TSNMemory, c.AVBMemory = tsn, avb }
}

// WithTimeLimit sets the optimizer's wall-clock budget.
func WithTimeLimit(d time.Duration) Option {
	return func(c *Config) { c.TLimit = d }
}

// WithAlgorithm selects the optimizer.
func WithAlgorithm(a Algorithm) Option {
	return func(c *Config) { c.Algorithm = a }
}

// WithSeed sets the deterministic RNG seed.
func WithSeed(seed int64) Option {
	return func(c *Config) { c.Seed = seed }
}

// WithACOq0 sets the ACS exploitation probability (spec §9 open question).
func WithACOq0(q0 float64) Option {
	return func(c *Config) { c.ACOq0 = q0 }
}

// WithBridgeDelay sets the per-hop bridge processing delay (spec §9 open
// question).
func WithBridgeDelay(d int64) Option {
	return func(c *Config) { c.BridgeDelay = d }
}

// New returns a Config with the documented defaults, then applies opts in
// order. Defaults: ACOq0 = 0.9 (ACS's typical exploitation bias) and
// BridgeDelay = 0 (spec §9 states both explicitly as the open-question
// defaults).
func New(opts ...Option) (Config, error) {
	c := Config{
		W0: 1, W1: 1, W2: 1, W3: 1,
		FastStop:    false,
		TSNMemory:   1.5,
		AVBMemory:   1.5,
		TLimit:      time.Second,
		Algorithm:   AlgorithmACO,
		ACOq0:       0.9,
		BridgeDelay: 0,
	}
	for _, opt := range opts {
		opt(&c)
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

// Validate rejects configurations the core cannot run: negative weights or
// an unrecognized algorithm name.
func (c Config) Validate() error {
	if c.W0 < 0 || c.W1 < 0 || c.W2 < 0 || c.W3 < 0 {
		return ErrBadWeight
	}
	switch c.Algorithm {
	case AlgorithmACO, AlgorithmRO, AlgorithmSPF:
	default:
		return ErrBadAlgorithm
	}

	return nil
}
