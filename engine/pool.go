// SPDX-License-Identifier: MIT

// Package engine: worker pool executing partition tasks.
//
// Purpose:
//   - Run N independent partition tasks with bounded concurrency.
//   - Surface the first task error; a failed batch yields no partial result.
//
// Notes:
//   - One task processes one partition to completion; there is no cooperative
//     or preemptive multitasking within a task.

package engine

import (
	"golang.org/x/sync/errgroup"
)

// Pool is a bounded worker pool. A Pool is cheap and safe to share across
// collections; it carries no mutable state beyond its configuration.
type Pool struct {
	workers int
}

// New creates a Pool with the given options.
// Default worker count is runtime.GOMAXPROCS(0).
func New(opts ...Option) *Pool {
	o := gatherOptions(opts...)

	return &Pool{workers: o.workers}
}

// Workers reports the configured concurrency limit.
// Complexity: O(1).
func (p *Pool) Workers() int { return p.workers }

// run executes task(i) for i in [0,n) with at most p.workers tasks in flight.
// The first task error is the one surfaced; the batch result is discarded as
// a whole on failure (all-or-nothing).
func (p *Pool) run(n int, task func(i int) error) error {
	if n == 0 {
		return nil
	}

	var g errgroup.Group
	g.SetLimit(p.workers)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error { return task(i) })
	}

	return g.Wait()
}
