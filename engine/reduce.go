// SPDX-License-Identifier: MIT

// Package engine: keyed and tree-structured reductions.
//
// Purpose:
//   - ReduceByKey: merge keyed values into one value per key, hash-partitioned
//     so each output partition is produced by exactly one task.
//   - TreeReduce: combine all elements up a bounded fan-in reduction tree.
//
// Determinism:
//   - Tree shape is deterministic for a fixed element count and fan-in.
//   - Merge order of values sharing a key follows partition order, but callers
//     MUST NOT rely on floating-point sums being bit-identical across layouts.

package engine

import "fmt"

// Pair is a keyed value, the element type consumed by ReduceByKey.
type Pair[K comparable, V any] struct {
	Key   K
	Value V
}

// ReduceByKey merges all values sharing a key with merge, returning a
// collection of numPartitions partitions where pairs are routed to partition
// part(key) mod numPartitions. Each key appears exactly once in the result.
//
// Two phases, both parallel:
//  1. per input partition, fold local pairs into a per-partition map;
//  2. per output partition, merge the matching keys of all local maps in
//     partition order.
//
// Complexity: O(n) merges; peak memory one partition of pairs per worker.
func ReduceByKey[K comparable, V any](
	c Collection[Pair[K, V]],
	numPartitions int,
	part func(K) int,
	merge func(V, V) (V, error),
) (Collection[Pair[K, V]], error) {
	if numPartitions <= 0 {
		return Collection[Pair[K, V]]{}, fmt.Errorf("ReduceByKey: %d partitions: %w", numPartitions, ErrEmptyCollection)
	}

	// Phase 1: local combine within each input partition.
	local := make([]map[K]V, len(c.parts))
	err := c.pool.run(len(c.parts), func(i int) error {
		m := make(map[K]V, len(c.parts[i]))
		for _, pr := range c.parts[i] {
			if prev, ok := m[pr.Key]; ok {
				merged, merr := merge(prev, pr.Value)
				if merr != nil {
					return fmt.Errorf("ReduceByKey: partition %d: %w", i, merr)
				}
				m[pr.Key] = merged
			} else {
				m[pr.Key] = pr.Value
			}
		}
		local[i] = m

		return nil
	})
	if err != nil {
		return Collection[Pair[K, V]]{}, err
	}

	// Phase 2: merge local maps into hash-routed output partitions.
	out := make([][]Pair[K, V], numPartitions)
	err = c.pool.run(numPartitions, func(j int) error {
		acc := make(map[K]V)
		for i := range local { // fixed partition order
			for k, v := range local[i] {
				if mod(part(k), numPartitions) != j {
					continue
				}
				if prev, ok := acc[k]; ok {
					merged, merr := merge(prev, v)
					if merr != nil {
						return fmt.Errorf("ReduceByKey: output partition %d: %w", j, merr)
					}
					acc[k] = merged
				} else {
					acc[k] = v
				}
			}
		}
		pairs := make([]Pair[K, V], 0, len(acc))
		for k, v := range acc {
			pairs = append(pairs, Pair[K, V]{Key: k, Value: v})
		}
		out[j] = pairs

		return nil
	})
	if err != nil {
		return Collection[Pair[K, V]]{}, err
	}

	return Collection[Pair[K, V]]{pool: c.pool, parts: out}, nil
}

// TreeReduce combines all elements of c up a reduction tree with the given
// fan-in. At every level, groups of at most fanIn consecutive values are
// combined by one task; levels shrink geometrically until one value remains.
//
// A naive single-level combine would hand one task data proportional to the
// partition count — exactly what the tree avoids: per-task input is bounded
// by fanIn values regardless of scale.
//
// Returns ErrEmptyCollection when c holds no elements and ErrBadFanIn when
// fanIn lies outside [MinFanIn, MaxFanIn].
// Complexity: O(n) combines over O(log n) levels.
func TreeReduce[T any](c Collection[T], fanIn int, combine func([]T) (T, error)) (T, error) {
	var zero T
	if fanIn < MinFanIn || fanIn > MaxFanIn {
		return zero, fmt.Errorf("TreeReduce: fan-in %d: %w", fanIn, ErrBadFanIn)
	}
	level := Collect(c)
	if len(level) == 0 {
		return zero, fmt.Errorf("TreeReduce: %w", ErrEmptyCollection)
	}

	for len(level) > 1 {
		groups := (len(level) + fanIn - 1) / fanIn
		next := make([]T, groups)
		err := c.pool.run(groups, func(g int) error {
			lo := g * fanIn
			hi := min(lo+fanIn, len(level))
			v, cerr := combine(level[lo:hi])
			if cerr != nil {
				return fmt.Errorf("TreeReduce: group %d: %w", g, cerr)
			}
			next[g] = v

			return nil
		})
		if err != nil {
			return zero, err
		}
		level = next
	}

	return level[0], nil
}

// mod is a non-negative modulus for hash routing.
func mod(x, n int) int {
	m := x % n
	if m < 0 {
		m += n
	}

	return m
}
