// SPDX-License-Identifier: MIT

// Package blockmat - SkinnyBlockMatrix: a distributed dense tall-skinny
// matrix, row-partitioned with a fixed stride so its boundaries line up with
// one side of a BlockMatrix.
//
// Policy & Contracts:
//   - Partition p holds rows [p·stride, (p+1)·stride) of the logical matrix;
//     only the last partition may be shorter.
//   - Values are immutable; RightMul and friends produce new matrices.
//
// Determinism:
//   - GaussianSkinny derives one seed per partition from the run seed, so the
//     sampled basis depends only on (seed, rows, cols, stride), never on how
//     partitions are scheduled across workers.

package blockmat

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/katalvlaran/bigsvd/engine"
)

// SkinnyBlockMatrix is a row-partitioned dense matrix with rows ≫ cols.
// One dense block per engine partition, in partition order.
type SkinnyBlockMatrix struct {
	pool   *engine.Pool
	rows   int64
	cols   int
	stride int64 // rows per full partition; last partition may be shorter

	parts engine.Collection[*mat.Dense]
}

// newSkinny wraps pre-built per-partition blocks. Internal: callers must
// hand over ownership of blocks and guarantee block shapes match the stride.
func newSkinny(pool *engine.Pool, blocks []*mat.Dense, rows int64, cols int, stride int64) *SkinnyBlockMatrix {
	return &SkinnyBlockMatrix{
		pool:   pool,
		rows:   rows,
		cols:   cols,
		stride: stride,
		parts:  engine.Single(pool, blocks),
	}
}

// Dims returns the logical (rows, cols).
// Complexity: O(1).
func (x *SkinnyBlockMatrix) Dims() (rows int64, cols int) { return x.rows, x.cols }

// Pool returns the execution pool the matrix is bound to.
func (x *SkinnyBlockMatrix) Pool() *engine.Pool { return x.pool }

// Blocks returns the per-partition dense blocks in partition order. The
// blocks are shared, not copied: callers MUST treat them as read-only.
// Complexity: O(partitions).
func (x *SkinnyBlockMatrix) Blocks() []*mat.Dense { return engine.Collect(x.parts) }

// NewSkinnyAligned assembles a skinny matrix from per-partition blocks that
// already follow a stride-aligned partitioning: every block except the last
// has exactly stride rows, and all blocks share one column count. Ownership
// of blocks passes to the matrix.
//
// Returns ErrNilPool, ErrBadShape or ErrPartitionMismatch.
// Complexity: O(partitions) validation; no element copies.
func NewSkinnyAligned(pool *engine.Pool, blocks []*mat.Dense, cols int, stride int64) (*SkinnyBlockMatrix, error) {
	if pool == nil {
		return nil, fmt.Errorf("NewSkinnyAligned: %w", ErrNilPool)
	}
	if len(blocks) == 0 || cols <= 0 || stride <= 0 {
		return nil, fmt.Errorf("NewSkinnyAligned: %d blocks, %d cols, stride %d: %w", len(blocks), cols, stride, ErrBadShape)
	}
	var rows int64
	for p, b := range blocks {
		if b == nil {
			return nil, fmt.Errorf("NewSkinnyAligned: block %d: %w", p, ErrNilMatrix)
		}
		r, c := b.Dims()
		if c != cols {
			return nil, fmt.Errorf("NewSkinnyAligned: block %d has %d cols, want %d: %w", p, c, cols, ErrDimensionMismatch)
		}
		if int64(r) > stride || (p < len(blocks)-1 && int64(r) != stride) || r == 0 {
			return nil, fmt.Errorf("NewSkinnyAligned: block %d has %d rows under stride %d: %w", p, r, stride, ErrPartitionMismatch)
		}
		rows += int64(r)
	}

	return newSkinny(pool, blocks, rows, cols, stride), nil
}

// Stride returns the row count of one full partition.
func (x *SkinnyBlockMatrix) Stride() int64 { return x.stride }

// NumPartitions reports the number of row partitions.
func (x *SkinnyBlockMatrix) NumPartitions() int { return int(ceilDiv(x.rows, x.stride)) }

// rowsInPartition returns the actual row count of partition p.
func (x *SkinnyBlockMatrix) rowsInPartition(p int) int { return int(spanIn(x.rows, x.stride, p)) }

// SkinnyFromDense cuts a small in-memory dense matrix into a row-partitioned
// skinny matrix with the given stride. Intended for tests and round-trips.
// Returns ErrNilPool or ErrBadShape.
// Complexity: O(rows·cols) copy.
func SkinnyFromDense(pool *engine.Pool, d *mat.Dense, stride int64) (*SkinnyBlockMatrix, error) {
	if pool == nil {
		return nil, fmt.Errorf("SkinnyFromDense: %w", ErrNilPool)
	}
	if d == nil {
		return nil, fmt.Errorf("SkinnyFromDense: %w", ErrNilMatrix)
	}
	r, c := d.Dims()
	if r <= 0 || c <= 0 || stride <= 0 {
		return nil, fmt.Errorf("SkinnyFromDense: %dx%d stride %d: %w", r, c, stride, ErrBadShape)
	}

	rows := int64(r)
	nparts := int(ceilDiv(rows, stride))
	blocks := make([]*mat.Dense, nparts)
	for p := 0; p < nparts; p++ {
		lo := int(int64(p) * stride)
		hi := lo + int(spanIn(rows, stride, p))
		blocks[p] = mat.DenseCopyOf(d.Slice(lo, hi, 0, c))
	}

	return newSkinny(pool, blocks, rows, c, stride), nil
}

// GaussianSkinny draws a rows×cols matrix of independent N(0,1) values,
// partitioned with the given stride. The same seed always reproduces the
// same matrix: partition p samples from its own deterministic stream seeded
// by a splitmix-style mix of (seed, p), so values are independent of worker
// scheduling and of the number of workers.
//
// Returns ErrNilPool or ErrBadShape.
// Complexity: O(rows·cols) sampling, parallel across partitions.
func GaussianSkinny(pool *engine.Pool, rows int64, cols int, stride int64, seed uint64) (*SkinnyBlockMatrix, error) {
	if pool == nil {
		return nil, fmt.Errorf("GaussianSkinny: %w", ErrNilPool)
	}
	if rows <= 0 || cols <= 0 || stride <= 0 {
		return nil, fmt.Errorf("GaussianSkinny: %dx%d stride %d: %w", rows, cols, stride, ErrBadShape)
	}

	nparts := int(ceilDiv(rows, stride))
	idx := make([]int, nparts)
	for p := range idx {
		idx[p] = p
	}
	blocks, err := engine.Map(engine.Single(pool, idx), func(p int) (*mat.Dense, error) {
		norm := distuv.Normal{Mu: 0, Sigma: 1, Src: rand.NewSource(partitionSeed(seed, p))}
		r := int(spanIn(rows, stride, p))
		data := make([]float64, r*cols)
		for i := range data { // fixed row-major order within the partition
			data[i] = norm.Rand()
		}

		return mat.NewDense(r, cols, data), nil
	})
	if err != nil {
		return nil, err
	}

	return &SkinnyBlockMatrix{
		pool:   pool,
		rows:   rows,
		cols:   cols,
		stride: stride,
		parts:  blocks,
	}, nil
}

// partitionSeed mixes the run seed with the partition index (splitmix64
// finalizer) so neighbouring partitions get uncorrelated streams.
func partitionSeed(seed uint64, p int) uint64 {
	z := seed + (uint64(p)+1)*0x9E3779B97F4A7C15
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB

	return z ^ (z >> 31)
}

// RightMul multiplies every partition by the small matrix w, producing a new
// skinny matrix with w's column count. Used for back-projection (Q·U) and
// TSQR's expansion pass.
// Returns ErrDimensionMismatch when w's row count differs from x's cols.
// Complexity: O(rows·cols·wcols), parallel across partitions.
func (x *SkinnyBlockMatrix) RightMul(w mat.Matrix) (*SkinnyBlockMatrix, error) {
	if x == nil {
		return nil, fmt.Errorf("RightMul: %w", ErrNilMatrix)
	}
	wr, wc := w.Dims()
	if wr != x.cols {
		return nil, fmt.Errorf("RightMul: %d cols vs %d rows: %w", x.cols, wr, ErrDimensionMismatch)
	}

	blocks, err := engine.Map(x.parts, func(b *mat.Dense) (*mat.Dense, error) {
		var out mat.Dense
		out.Mul(b, w)

		return &out, nil
	})
	if err != nil {
		return nil, err
	}

	return &SkinnyBlockMatrix{pool: x.pool, rows: x.rows, cols: wc, stride: x.stride, parts: blocks}, nil
}

// Gram computes xᵗ·y for two identically partitioned skinny matrices as the
// tree-reduced sum of per-partition products — the small dense projection
// step of the driver. Returns a cols(x)×cols(y) dense matrix.
// Returns engine.ErrPoolMismatch when the operands live on different pools
// and ErrPartitionMismatch when the partitionings differ.
// Complexity: O(rows·cols²) multiply-adds, O(log partitions) tree depth.
func (x *SkinnyBlockMatrix) Gram(y *SkinnyBlockMatrix) (*mat.Dense, error) {
	if x == nil || y == nil {
		return nil, fmt.Errorf("Gram: %w", ErrNilMatrix)
	}
	if err := validateAligned(y, x.pool, x.rows, x.stride); err != nil {
		return nil, fmt.Errorf("Gram: %w", err)
	}

	ys := engine.Collect(y.parts)
	partials, err := engine.MapPartitions(x.parts, func(p int, part []*mat.Dense) ([]*mat.Dense, error) {
		out := make([]*mat.Dense, len(part))
		for i, b := range part {
			var g mat.Dense
			g.Mul(b.T(), ys[p])
			out[i] = &g
		}

		return out, nil
	})
	if err != nil {
		return nil, err
	}

	return engine.TreeReduce(partials, engine.DefaultFanIn, sumDense)
}

// Dense materializes the full matrix. Intended for tests and driver-side
// collection of final singular vectors at modest scale.
// Complexity: O(rows·cols) copy.
func (x *SkinnyBlockMatrix) Dense() *mat.Dense {
	d := mat.NewDense(int(x.rows), x.cols, nil)
	for p, b := range engine.Collect(x.parts) {
		lo := int(int64(p) * x.stride)
		r, _ := b.Dims()
		for i := 0; i < r; i++ {
			copy(d.RawRowView(lo+i), b.RawRowView(i))
		}
	}

	return d
}

// sumDense is the TreeReduce combiner adding small dense matrices.
func sumDense(vs []*mat.Dense) (*mat.Dense, error) {
	s := mat.DenseCopyOf(vs[0])
	for _, v := range vs[1:] {
		s.Add(s, v)
	}

	return s, nil
}
