// SPDX-License-Identifier: MIT

// Package blockmat - distributed multiplication of a BlockMatrix by an
// aligned SkinnyBlockMatrix, without shuffling the sparse operand.
//
// Algorithm (MulSkinny; TransMulSkinny mirrors it on the other side):
//   - Gather the skinny blocks driver-side; they are small, so broadcasting
//     them is cheap relative to moving A.
//   - For each super-partition (pr, pc) of A, multiply its tiles against the
//     matching row-slice of X (partition pc) and accumulate into one dense
//     partial of rowsInRowPartition(pr) × cols.
//   - Sum partials sharing an output partition with ReduceByKey, then fill
//     output partitions that received no partial with zeros.
//
// Numerical policy:
//   - Accumulation is double precision throughout.
//   - Partial-sum order across super-partitions is unspecified, so results
//     are reproducible only within floating-point tolerance, never bitwise.
//   - A non-finite value in any partial aborts the run with ErrNonFinite;
//     the engine never retries (resource sizing is the caller's contract).

package blockmat

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/bigsvd/engine"
)

// MulSkinny computes Y = A·X. X must be aligned to A's column partitioning:
// X.Stride() == A.ColPartitionRows() and X rows == A width. The result is
// partitioned by A's row super-partitions (stride RowPartitionRows).
//
// Returns ErrNilMatrix, engine.ErrPoolMismatch, ErrDimensionMismatch,
// ErrPartitionMismatch or ErrNonFinite.
// Complexity: O(nnz·cols) multiply-adds; peak per-task memory is one
// super-partition of A plus one skinny slice plus one dense partial.
func (a *BlockMatrix) MulSkinny(x *SkinnyBlockMatrix) (*SkinnyBlockMatrix, error) {
	if a == nil {
		return nil, fmt.Errorf("MulSkinny: %w", ErrNilMatrix)
	}
	if err := validateAligned(x, a.pool, a.width, a.ColPartitionRows()); err != nil {
		return nil, fmt.Errorf("MulSkinny: %w", err)
	}

	return a.mulAligned(x, false)
}

// TransMulSkinny computes Y = Aᵗ·X without materializing the transpose.
// X must be aligned to A's row partitioning (stride RowPartitionRows); the
// result is partitioned by A's column super-partitions.
//
// Returns ErrNilMatrix, engine.ErrPoolMismatch, ErrDimensionMismatch,
// ErrPartitionMismatch or ErrNonFinite.
func (a *BlockMatrix) TransMulSkinny(x *SkinnyBlockMatrix) (*SkinnyBlockMatrix, error) {
	if a == nil {
		return nil, fmt.Errorf("TransMulSkinny: %w", ErrNilMatrix)
	}
	if err := validateAligned(x, a.pool, a.height, a.RowPartitionRows()); err != nil {
		return nil, fmt.Errorf("TransMulSkinny: %w", err)
	}

	return a.mulAligned(x, true)
}

// mulAligned is the shared kernel behind MulSkinny (transposed=false) and
// TransMulSkinny (transposed=true). Inputs are already validated.
func (a *BlockMatrix) mulAligned(x *SkinnyBlockMatrix, transposed bool) (*SkinnyBlockMatrix, error) {
	cols := x.cols
	xs := engine.Collect(x.parts) // broadcast: one small dense per partition

	outParts := a.NumRowPartitions()
	outRows, outStride := a.height, a.RowPartitionRows()
	if transposed {
		outParts = a.NumColPartitions()
		outRows, outStride = a.width, a.ColPartitionRows()
	}

	// Local accumulation: one dense partial per super-partition, keyed by
	// the output partition it contributes to.
	partials, err := engine.MapPartitions(a.parts,
		func(_ int, part []SuperPartition) ([]engine.Pair[int, *mat.Dense], error) {
			out := make([]engine.Pair[int, *mat.Dense], 0, len(part))
			for _, sp := range part {
				key, acc, perr := a.accumulate(sp, xs, cols, transposed)
				if perr != nil {
					return nil, perr
				}
				out = append(out, engine.Pair[int, *mat.Dense]{Key: key, Value: acc})
			}

			return out, nil
		})
	if err != nil {
		return nil, err
	}

	// Combine partials sharing an output partition. Summation order across
	// super-partitions is unspecified.
	reduced, err := engine.ReduceByKey(partials, outParts,
		func(k int) int { return k },
		func(u, v *mat.Dense) (*mat.Dense, error) {
			var s mat.Dense
			s.Add(u, v)

			return &s, nil
		})
	if err != nil {
		return nil, err
	}

	// Assemble: zero blocks for output partitions no tile contributed to.
	blocks := make([]*mat.Dense, outParts)
	for _, pr := range engine.Collect(reduced) {
		blocks[pr.Key] = pr.Value
	}
	for p := range blocks {
		if blocks[p] == nil {
			blocks[p] = mat.NewDense(int(spanIn(outRows, outStride, p)), cols, nil)
		}
	}

	return newSkinny(a.pool, blocks, outRows, cols, outStride), nil
}

// accumulate folds one super-partition of A into a dense partial product
// against the matching skinny slice, returning the output partition key.
func (a *BlockMatrix) accumulate(sp SuperPartition, xs []*mat.Dense, cols int, transposed bool) (int, *mat.Dense, error) {
	bs := int64(a.blockSize)

	var key int
	var acc *mat.Dense
	var xp *mat.Dense
	if transposed {
		key = sp.Col
		acc = mat.NewDense(a.colsInColPartition(sp.Col), cols, nil)
		xp = xs[sp.Row]
	} else {
		key = sp.Row
		acc = mat.NewDense(a.rowsInRowPartition(sp.Row), cols, nil)
		xp = xs[sp.Col]
	}

	rowOff := int64(sp.Row) * a.RowPartitionRows() // global row of the partition origin
	colOff := int64(sp.Col) * a.ColPartitionRows() // global column of the partition origin
	for _, b := range sp.Blocks {
		bi := int(int64(b.Row)*bs - rowOff) // tile origin within the partition
		bj := int(int64(b.Col)*bs - colOff)
		for t := range b.Val {
			i, j, v := bi+b.Ix[t], bj+b.Jx[t], b.Val[t]
			if transposed {
				// accᵀ-side: column index of A becomes the output row.
				floats.AddScaled(acc.RawRowView(j), v, xp.RawRowView(i))
			} else {
				floats.AddScaled(acc.RawRowView(i), v, xp.RawRowView(j))
			}
		}
	}

	if !allFinite(acc) {
		return 0, nil, fmt.Errorf("super-partition (%d,%d): %w", sp.Row, sp.Col, ErrNonFinite)
	}

	return key, acc, nil
}
