// SPDX-License-Identifier: MIT

// Package rsvd: functional configuration for one decomposition run.
// The configuration is read-only for the lifetime of the run. WithX
// constructors panic on nonsensical values (programmer error); a missing
// mandatory embedding dimension is a runtime error returned by Compute.

package rsvd

import (
	"go.uber.org/zap"

	"github.com/katalvlaran/bigsvd/engine"
)

// DEFAULTS - single source of truth for zero-value behavior.
const (
	// DefaultOversample is the number of extra random basis columns carried
	// during computation and discarded before output.
	DefaultOversample = 10

	// DefaultPowerIterations is the number of multiply+orthonormalize
	// rounds. One round already captures well-separated spectra; raise it
	// for slowly decaying ones.
	DefaultPowerIterations = 1

	// DefaultSeed seeds the Gaussian basis when callers do not choose one.
	DefaultSeed = 0
)

const (
	panicOversampleInvalid = "rsvd: WithOversample: n must be >= 0"
	panicPowerIterInvalid  = "rsvd: WithPowerIterations: n must be >= 1"
)

// Option mutates run options. Safe to apply repeatedly (idempotent).
type Option func(*options)

type options struct {
	embeddingDim int  // mandatory; > 0
	oversample   int  // >= 0
	powerIter    int  // >= 1
	seed         uint64
	left         bool // compute left singular vectors
	right        bool // compute right singular vectors
	fanIn        int  // forwarded to tsqr
	logger       *zap.Logger
}

// WithEmbeddingDim sets the number of singular values/vectors requested.
// Mandatory; Compute returns ErrBadEmbeddingDim when it was never applied.
// Panics when dim <= 0.
// Complexity: O(1).
func WithEmbeddingDim(dim int) Option {
	if dim <= 0 {
		panic("rsvd: WithEmbeddingDim: dim must be > 0")
	}

	return func(o *options) { o.embeddingDim = dim }
}

// WithOversample sets the oversampling column count. Panics when n < 0.
// Complexity: O(1).
func WithOversample(n int) Option {
	if n < 0 {
		panic(panicOversampleInvalid)
	}

	return func(o *options) { o.oversample = n }
}

// WithPowerIterations sets the number of power-iteration rounds. Panics when
// n < 1 (the driver needs at least one round to form both bases).
// Complexity: O(1).
func WithPowerIterations(n int) Option {
	if n < 1 {
		panic(panicPowerIterInvalid)
	}

	return func(o *options) { o.powerIter = n }
}

// WithSeed sets the random-basis seed. The same seed reproduces the same
// basis regardless of worker count or scheduling.
// Complexity: O(1).
func WithSeed(seed uint64) Option {
	return func(o *options) { o.seed = seed }
}

// WithLeftVectors toggles computation of the left singular vectors.
// Complexity: O(1).
func WithLeftVectors(enabled bool) Option {
	return func(o *options) { o.left = enabled }
}

// WithRightVectors toggles computation of the right singular vectors.
// Complexity: O(1).
func WithRightVectors(enabled bool) Option {
	return func(o *options) { o.right = enabled }
}

// WithFanIn sets the TSQR reduction-tree fan-in. Panics when f lies outside
// [engine.MinFanIn, engine.MaxFanIn].
// Complexity: O(1).
func WithFanIn(f int) Option {
	if f < engine.MinFanIn || f > engine.MaxFanIn {
		panic("rsvd: WithFanIn: fan-in must be between engine.MinFanIn and engine.MaxFanIn")
	}

	return func(o *options) { o.fanIn = f }
}

// WithLogger sets the progress logger. The default is a no-op logger; the
// library packages below the driver never log.
// Complexity: O(1).
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// defaultOptions returns the documented defaults (single source of truth).
func defaultOptions() options {
	return options{
		embeddingDim: 0, // mandatory, checked by Compute
		oversample:   DefaultOversample,
		powerIter:    DefaultPowerIterations,
		seed:         DefaultSeed,
		left:         true,
		right:        true,
		fanIn:        engine.DefaultFanIn,
		logger:       zap.NewNop(),
	}
}

// gatherOptions applies user setters on top of defaults; last-writer-wins.
func gatherOptions(user ...Option) options {
	o := defaultOptions()
	for _, set := range user {
		set(&o)
	}

	return o
}
