// SPDX-License-Identifier: MIT

// Package engine: the partitioned Collection type and its transforms.
//
// Purpose:
//   - Hold data split into partitions, each exclusively owned by one task
//     during an operation.
//   - Provide Map / MapPartitions / Collect as the minimal transform surface.
//
// Determinism:
//   - Partition order is stable; element order within a partition is stable.
//   - Scheduling order of partition tasks is NOT specified.

package engine

import "fmt"

// Collection is an immutable partitioned collection bound to a Pool.
// The zero value is an empty collection with no pool; operations on it are
// no-ops returning empty results.
type Collection[T any] struct {
	pool  *Pool
	parts [][]T
}

// Distribute wraps pre-partitioned data into a Collection. The caller
// relinquishes ownership of parts; the collection treats it as read-only.
// Complexity: O(1) — no copying.
func Distribute[T any](p *Pool, parts [][]T) Collection[T] {
	return Collection[T]{pool: p, parts: parts}
}

// Single builds a collection with one element per partition, preserving order.
// Complexity: O(n) wrapping, no element copies.
func Single[T any](p *Pool, items []T) Collection[T] {
	parts := make([][]T, len(items))
	for i, it := range items {
		parts[i] = []T{it}
	}

	return Collection[T]{pool: p, parts: parts}
}

// Pool returns the execution pool this collection is bound to.
func (c Collection[T]) Pool() *Pool { return c.pool }

// NumPartitions reports the number of partitions.
// Complexity: O(1).
func (c Collection[T]) NumPartitions() int { return len(c.parts) }

// Len reports the total number of elements across partitions.
// Complexity: O(partitions).
func (c Collection[T]) Len() int {
	n := 0
	for _, p := range c.parts {
		n += len(p)
	}

	return n
}

// Collect flattens the collection into a single slice in partition order.
// Intended for driver-side gathering of small results only.
// Complexity: O(n) copy.
func Collect[T any](c Collection[T]) []T {
	out := make([]T, 0, c.Len())
	for _, p := range c.parts {
		out = append(out, p...)
	}

	return out
}

// MapPartitions applies f to every partition in parallel, producing a new
// collection with the same partition count. f receives the partition index
// and the (read-only) partition contents.
// Complexity: O(partitions) tasks; peak memory one partition per worker.
func MapPartitions[T, U any](c Collection[T], f func(idx int, part []T) ([]U, error)) (Collection[U], error) {
	out := make([][]U, len(c.parts))
	err := c.pool.run(len(c.parts), func(i int) error {
		u, ferr := f(i, c.parts[i])
		if ferr != nil {
			return fmt.Errorf("MapPartitions: partition %d: %w", i, ferr)
		}
		out[i] = u

		return nil
	})
	if err != nil {
		return Collection[U]{}, err
	}

	return Collection[U]{pool: c.pool, parts: out}, nil
}

// Map applies f to every element in parallel (partition granularity),
// preserving partitioning.
func Map[T, U any](c Collection[T], f func(T) (U, error)) (Collection[U], error) {
	return MapPartitions(c, func(_ int, part []T) ([]U, error) {
		out := make([]U, len(part))
		for i, t := range part {
			u, err := f(t)
			if err != nil {
				return nil, err
			}
			out[i] = u
		}

		return out, nil
	})
}
