// SPDX-License-Identifier: MIT

// Package blockmat: domain types for the block-partitioned representations.
// Errors and options live in dedicated files (errors.go, options.go) per the
// global conventions.

package blockmat

import (
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/bigsvd/engine"
)

// Entry is one coordinate-format (COO) triple of the input matrix.
// Duplicate (Row, Col) entries are summed during construction.
type Entry struct {
	Row, Col int64
	Value    float64
}

// Block is an immutable sparse tile. Row/Col locate the tile in the tile
// grid; Rows/Cols are the actual tile dimensions (boundary tiles may be
// smaller than the configured block size). Non-zeros are stored as parallel
// coordinate slices with tile-local indices, sorted by (row, col).
type Block struct {
	Row, Col   int
	Rows, Cols int
	Ix, Jx     []int
	Val        []float64
}

// SuperPartition is the co-location unit for multiplication: the non-empty
// tiles of one partitionHeightInBlocks × partitionWidthInBlocks rectangle of
// the tile grid, sorted by (Row, Col).
type SuperPartition struct {
	Row, Col int
	Blocks   []Block
}

// BlockMatrix is a distributed sparse matrix: global dimensions plus an
// engine collection holding one SuperPartition per engine partition.
// A BlockMatrix is read-only after construction; every operation produces
// new values and shares unchanged blocks by reference.
type BlockMatrix struct {
	pool   *engine.Pool
	height int64
	width  int64

	blockSize  int
	partHeight int // tiles per super-partition, row direction
	partWidth  int // tiles per super-partition, column direction

	parts engine.Collection[SuperPartition]
	nnz   int64
}

// Dims returns the global (height, width).
// Complexity: O(1).
func (a *BlockMatrix) Dims() (height, width int64) { return a.height, a.width }

// NNZ reports the number of stored non-zero coordinates.
// Complexity: O(1).
func (a *BlockMatrix) NNZ() int64 { return a.nnz }

// BlockSize returns the configured tile edge length.
func (a *BlockMatrix) BlockSize() int { return a.blockSize }

// Pool returns the execution pool the matrix is bound to.
func (a *BlockMatrix) Pool() *engine.Pool { return a.pool }

// RowPartitionRows returns the row count of one full row super-partition:
// blockSize · partitionHeightInBlocks. The last partition may be shorter.
// A·X results are partitioned with this stride.
func (a *BlockMatrix) RowPartitionRows() int64 {
	return int64(a.blockSize) * int64(a.partHeight)
}

// ColPartitionRows returns the row stride a column-aligned skinny matrix
// must use: blockSize · partitionWidthInBlocks. Aᵗ·X results and the random
// basis Ω are partitioned with this stride.
func (a *BlockMatrix) ColPartitionRows() int64 {
	return int64(a.blockSize) * int64(a.partWidth)
}

// NumRowPartitions reports the number of row super-partitions.
func (a *BlockMatrix) NumRowPartitions() int {
	return int(ceilDiv(a.height, a.RowPartitionRows()))
}

// NumColPartitions reports the number of column super-partitions.
func (a *BlockMatrix) NumColPartitions() int {
	return int(ceilDiv(a.width, a.ColPartitionRows()))
}

// rowsInRowPartition returns the actual row count of row super-partition p.
func (a *BlockMatrix) rowsInRowPartition(p int) int {
	return int(spanIn(a.height, a.RowPartitionRows(), p))
}

// colsInColPartition returns the actual column count of column
// super-partition p.
func (a *BlockMatrix) colsInColPartition(p int) int {
	return int(spanIn(a.width, a.ColPartitionRows(), p))
}

// Dense materializes the full matrix. Intended for tests and driver-side
// inspection of small instances only; allocates height×width floats.
func (a *BlockMatrix) Dense() *mat.Dense {
	d := mat.NewDense(int(a.height), int(a.width), nil)
	for _, sp := range engine.Collect(a.parts) {
		for _, b := range sp.Blocks {
			rowOff := int64(b.Row) * int64(a.blockSize)
			colOff := int64(b.Col) * int64(a.blockSize)
			for t := range b.Val {
				d.Set(int(rowOff)+b.Ix[t], int(colOff)+b.Jx[t], b.Val[t])
			}
		}
	}

	return d
}

// ceilDiv is ⌈n/d⌉ for positive d.
func ceilDiv(n, d int64) int64 { return (n + d - 1) / d }

// spanIn returns the extent of chunk p when total rows are cut into chunks
// of stride rows: stride for interior chunks, the remainder for the last.
func spanIn(total, stride int64, p int) int64 {
	lo := int64(p) * stride
	if total-lo < stride {
		return total - lo
	}

	return stride
}
