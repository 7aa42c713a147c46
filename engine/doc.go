// Package engine provides the partitioned-collection runtime backing the
// distributed matrix primitives in blockmat, tsqr and rsvd.
//
// The engine package provides:
//
//   - Pool, a bounded worker pool executing partition tasks in parallel.
//   - Collection[T], an immutable partitioned collection; each partition is
//     processed to completion by exactly one task (no intra-task multitasking).
//   - Map / MapPartitions for parallel per-partition transforms.
//   - ReduceByKey for hash-partitioned merging of keyed values.
//   - TreeReduce, a bounded fan-in reduction tree: per level, at most fanIn
//     values are combined by one task, so no task ever sees data proportional
//     to the total partition count.
//
// Collections are immutable once built: every operation produces a new
// Collection, which removes the need for any mutual-exclusion discipline
// between tasks operating on different partitions of the same collection.
//
// Failure semantics are all-or-nothing: when any partition task returns an
// error, the whole operation fails with that error and no partial result is
// exposed. The engine never retries.
//
// This is deliberately the smallest operation set the numerical layers need,
// isolated behind plain Go types so any concurrency runtime (thread pool,
// actor system, process pool) could back it.
package engine
