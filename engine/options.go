// SPDX-License-Identifier: MIT

// Package engine: functional configuration for the worker pool.
// WithX constructors validate strictly and panic on nonsensical values
// (programmer error); runtime failures are returned as errors elsewhere.

package engine

import "runtime"

// Fan-in bounds for TreeReduce. The fan-in is a tunable design parameter:
// depth grows logarithmically with partition count, and the bound keeps both
// memory and combine cost per level constant.
const (
	// MinFanIn is the smallest supported reduction-tree fan-in.
	MinFanIn = 2

	// MaxFanIn is the largest supported reduction-tree fan-in.
	MaxFanIn = 8

	// DefaultFanIn is the reduction-tree fan-in used when callers do not
	// choose one explicitly.
	DefaultFanIn = 4
)

const panicWorkersInvalid = "engine: WithWorkers: n must be > 0"

// Option mutates pool options. Safe to apply repeatedly (idempotent).
type Option func(*options)

type options struct {
	workers int // > 0; defaults to runtime.GOMAXPROCS(0)
}

// WithWorkers sets the maximum number of partition tasks executing
// concurrently. Panics when n <= 0.
// Complexity: O(1).
func WithWorkers(n int) Option {
	if n <= 0 {
		panic(panicWorkersInvalid)
	}

	return func(o *options) { o.workers = n }
}

// defaultOptions returns the documented defaults (single source of truth).
func defaultOptions() options {
	return options{workers: runtime.GOMAXPROCS(0)}
}

// gatherOptions applies user setters on top of defaults; last-writer-wins.
func gatherOptions(user ...Option) options {
	o := defaultOptions()
	for _, set := range user {
		set(&o)
	}

	return o
}
