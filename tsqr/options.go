// SPDX-License-Identifier: MIT

// Package tsqr: functional configuration.
// WithX constructors panic on nonsensical values (programmer error).

package tsqr

import "github.com/katalvlaran/bigsvd/engine"

const panicFanInInvalid = "tsqr: WithFanIn: fan-in must be between engine.MinFanIn and engine.MaxFanIn"

// Option mutates decomposition options. Safe to apply repeatedly.
type Option func(*options)

type options struct {
	fanIn int // reduction-tree fan-in; engine.DefaultFanIn unless overridden
}

// WithFanIn sets the reduction-tree fan-in. Depth grows logarithmically with
// partition count; the fan-in bounds memory and combine cost per tree level.
// Panics when f lies outside [engine.MinFanIn, engine.MaxFanIn].
// Complexity: O(1).
func WithFanIn(f int) Option {
	if f < engine.MinFanIn || f > engine.MaxFanIn {
		panic(panicFanInInvalid)
	}

	return func(o *options) { o.fanIn = f }
}

// defaultOptions returns the documented defaults (single source of truth).
func defaultOptions() options {
	return options{fanIn: engine.DefaultFanIn}
}

// gatherOptions applies user setters on top of defaults; last-writer-wins.
func gatherOptions(user ...Option) options {
	o := defaultOptions()
	for _, set := range user {
		set(&o)
	}

	return o
}
