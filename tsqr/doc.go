// Package tsqr orthonormalizes tall-skinny distributed matrices with a
// tree-reduced QR decomposition (TSQR).
//
// Given a row-partitioned SkinnyBlockMatrix X with n ≫ k rows, Decompose
// produces an orthonormal Q of the same shape and partitioning and a small
// k×k upper-triangular R with X = Q·R, without ever materializing X on a
// single node:
//
//  1. Leaf step — every partition factors its own row-block, keeping its
//     local Q and emitting a small k×k local R.
//  2. Reduction tree — the local R factors are combined up a bounded fan-in
//     tree: each tree node stacks its children's R factors into a
//     taller-but-still-skinny matrix, QR-factors it again, and records the
//     per-child slice of the node's local Q.
//  3. Back-substitution — the recorded slices are multiplied back down to
//     the leaves, so each partition recovers its row-block of the global Q
//     as localQ · accumulatedFactor.
//
// A single-level combine of all local R factors would centralize data
// proportional to the partition count; the tree caps every node's fan-in at
// a small constant instead, so per-node memory is bounded at every level.
//
// Numerical contract: R carries a non-negative diagonal (sign convention
// fixed during each local QR), giving a stable decomposition up to a ±1
// column scaling where the matrix has no corresponding singular direction.
// A partition with fewer rows than columns is zero-padded before its local
// QR — the factorization completes rank-deficient and is handled like any
// other; when the global R is singular, Q columns spanning the null space
// carry no meaning.
package tsqr
