// Package blockmat provides the block-partitioned matrix representations used
// by the randomized SVD engine, and their distributed multiplication.
//
// The blockmat package provides:
//
//   - BlockMatrix, a sparse matrix stored as fixed-size tiles (blockSize ×
//     blockSize, boundary tiles may be smaller) grouped into rectangular
//     super-partitions of partitionHeightInBlocks × partitionWidthInBlocks
//     tiles. Super-partitions are the unit of co-location for multiplication.
//   - SkinnyBlockMatrix, a dense matrix with very many rows and few columns,
//     row-partitioned to align exactly with one side of a BlockMatrix. The
//     alignment is what makes local co-partitioned multiplication possible
//     without shuffling the sparse operand.
//   - MulSkinny / TransMulSkinny computing A·X and Aᵗ·X: skinny blocks are
//     gathered (they are small, so moving them is cheap relative to A), each
//     super-partition accumulates a dense partial product locally, and
//     partials sharing an output partition are summed via ReduceByKey.
//
// All values are immutable once constructed; every transformation produces a
// new value. Partial sums are combined in an unspecified order, so results
// are reproducible within floating-point tolerance only, never bit-for-bit.
//
// Peak per-task memory during multiplication is bounded by
//
//	partitionHeightInBlocks·partitionWidthInBlocks·blockSize²·density·8 B   (sparse tiles)
//	+ partitionWidthInBlocks·blockSize·numColumns·8 B                      (dense slice)
//
// and callers must size blockSize and the partition extents so this fits the
// memory available to one task.
package blockmat
