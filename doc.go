// Package bigsvd computes approximate truncated Singular Value Decompositions
// of very large sparse matrices (up to ~10⁸ rows/columns) with the randomized
// projection algorithm of Halko, Martinsson and Tropp, orthonormalizing the
// tall-skinny intermediates with a tree-reduced TSQR so that no worker ever
// holds more than one partition's worth of rows.
//
// 🚀 What is bigsvd?
//
//	A batch-oriented numerical engine built from four small packages:
//		• engine/   — generic partitioned collections: Map, ReduceByKey, TreeReduce
//		• blockmat/ — block-partitioned sparse matrices, tall-skinny dense matrices,
//		              and their distributed multiplication
//		• tsqr/     — tall-skinny QR via a bounded fan-in reduction tree
//		• rsvd/     — the power-iteration driver producing singular values/vectors
//
// ✨ Why choose bigsvd?
//
//   - Bounded memory – per-task peak memory is governed entirely by the
//     block/partition configuration, never by total matrix size
//   - Deterministic seeding – the random basis depends only on the seed and the
//     partition layout, never on worker scheduling
//   - Pure Go – gonum for the local dense kernels, no cgo
//
// Results are reproducible per seed up to floating-point summation order:
// partial sums are combined in an unspecified order, so two runs agree within
// numerical tolerance, not bit-for-bit. This is a property of the parent
// algorithm, not a defect.
//
// Dive into rsvd for the entry point, and blockmat.FromEntries for loading
// coordinate-format data.
package bigsvd
