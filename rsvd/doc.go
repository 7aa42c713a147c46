// Package rsvd computes approximate truncated singular value decompositions
// of block-partitioned sparse matrices with randomized projection and power
// iteration (Halko–Martinsson–Tropp).
//
// The driver runs the state machine
//
//	INIT → {MULTIPLY, ORTHONORMALIZE} × powerIter → FINALIZE → DONE
//
// starting from a deterministic Gaussian basis Ω (width × embeddingDim +
// oversample, derived from the seed independently of execution parallelism).
// Each power-iteration round performs one A-multiply and one Aᵗ-multiply,
// each followed by a TSQR orthonormalization; rounds are strictly sequential
// because each depends on the previous orthonormal basis. FINALIZE projects
// A onto the final bases, takes an exact SVD of the resulting small matrix
// on one node, truncates to the top embeddingDim components and
// back-projects through the retained Q bases.
//
// Reproducibility: the same seed yields the same Ω, and singular values
// match across runs within numerical tolerance — not bit-for-bit, because
// partial sums are combined in an unspecified order (a documented property
// of the parent algorithm).
//
// Failure semantics: out-of-memory and numerical failures (non-finite values
// after a multiply) are never retried; they abort the run. Sizing blockSize
// and the partition extents so one task's working set fits in memory is the
// caller's contract — see the blockmat package documentation for the
// peak-memory formula.
package rsvd
