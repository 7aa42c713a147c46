// Package blockmat_test contains unit tests for BlockMatrix construction
// from coordinate-format triples.
package blockmat_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/bigsvd/blockmat"
	"github.com/katalvlaran/bigsvd/engine"
)

// TestFromEntriesRejectsBadShape ensures non-positive dimensions fail fast.
func TestFromEntriesRejectsBadShape(t *testing.T) {
	pool := engine.New()

	_, err := blockmat.FromEntries(pool, nil, 0, 5)
	require.ErrorIs(t, err, blockmat.ErrBadShape) // zero height

	_, err = blockmat.FromEntries(pool, nil, 5, -1)
	require.ErrorIs(t, err, blockmat.ErrBadShape) // negative width

	_, err = blockmat.FromEntries(nil, nil, 5, 5)
	require.ErrorIs(t, err, blockmat.ErrNilPool) // nil pool
}

// TestFromEntriesRejectsOutOfBounds covers every out-of-range direction.
func TestFromEntriesRejectsOutOfBounds(t *testing.T) {
	pool := engine.New()
	cases := []blockmat.Entry{
		{Row: -1, Col: 0, Value: 1},
		{Row: 5, Col: 0, Value: 1},  // row == height
		{Row: 0, Col: -1, Value: 1},
		{Row: 0, Col: 7, Value: 1},  // col == width
	}
	for _, e := range cases {
		_, err := blockmat.FromEntries(pool, []blockmat.Entry{e}, 5, 7)
		require.ErrorIs(t, err, blockmat.ErrIndexOutOfBounds, "entry (%d,%d)", e.Row, e.Col)
	}
}

// TestFromEntriesRejectsNonFinite enforces the finite-value ingestion policy.
func TestFromEntriesRejectsNonFinite(t *testing.T) {
	pool := engine.New()

	_, err := blockmat.FromEntries(pool, []blockmat.Entry{{Row: 1, Col: 1, Value: math.NaN()}}, 4, 4)
	require.ErrorIs(t, err, blockmat.ErrNonFinite)

	_, err = blockmat.FromEntries(pool, []blockmat.Entry{{Row: 1, Col: 1, Value: math.Inf(-1)}}, 4, 4)
	require.ErrorIs(t, err, blockmat.ErrNonFinite)
}

// TestFromEntriesSumsDuplicates pins down COO duplicate semantics: values at
// the same coordinate are SUMMED, never overwritten — a silent overwrite
// would change numerical results downstream.
func TestFromEntriesSumsDuplicates(t *testing.T) {
	pool := engine.New()
	entries := []blockmat.Entry{
		{Row: 1, Col: 2, Value: 1.5},
		{Row: 1, Col: 2, Value: 2.5},
		{Row: 1, Col: 2, Value: -1.0},
		{Row: 3, Col: 0, Value: 4.0},
	}

	a, err := blockmat.FromEntries(pool, entries, 4, 4, blockmat.WithBlockSize(2))
	require.NoError(t, err)
	require.EqualValues(t, 2, a.NNZ()) // two distinct coordinates survive

	d := a.Dense()
	require.InDelta(t, 3.0, d.At(1, 2), 1e-15) // 1.5 + 2.5 - 1.0
	require.InDelta(t, 4.0, d.At(3, 0), 1e-15)
}

// TestRoundTripDense converts a small dense matrix to the block
// representation and back; the reconstruction must match exactly.
func TestRoundTripDense(t *testing.T) {
	pool := engine.New()
	const rows, cols = 11, 7 // deliberately not multiples of the block size

	src := mat.NewDense(rows, cols, nil)
	var entries []blockmat.Entry
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := float64(i*cols+j+1) * 0.25
			src.Set(i, j, v)
			entries = append(entries, blockmat.Entry{Row: int64(i), Col: int64(j), Value: v})
		}
	}

	a, err := blockmat.FromEntries(pool, entries, rows, cols,
		blockmat.WithBlockSize(3),
		blockmat.WithPartitionHeightInBlocks(2),
		blockmat.WithPartitionWidthInBlocks(2))
	require.NoError(t, err)

	h, w := a.Dims()
	require.EqualValues(t, rows, h)
	require.EqualValues(t, cols, w)
	require.EqualValues(t, rows*cols, a.NNZ())
	require.True(t, mat.Equal(src, a.Dense())) // bit-exact: construction only routes, never rounds
}

// TestPartitionGeometry checks stride and partition-count accounting,
// including boundary partitions shorter than the stride.
func TestPartitionGeometry(t *testing.T) {
	pool := engine.New()
	a, err := blockmat.FromEntries(pool, nil, 25, 13,
		blockmat.WithBlockSize(4),
		blockmat.WithPartitionHeightInBlocks(2),
		blockmat.WithPartitionWidthInBlocks(3))
	require.NoError(t, err)

	require.EqualValues(t, 8, a.RowPartitionRows())  // 4 blocks · 2
	require.EqualValues(t, 12, a.ColPartitionRows()) // 4 blocks · 3
	require.Equal(t, 4, a.NumRowPartitions())        // ⌈25/8⌉
	require.Equal(t, 2, a.NumColPartitions())        // ⌈13/12⌉
	require.Equal(t, 4096, blockmat.DefaultBlockSize) // documented default stays in sync
}

// TestOptionPanics ensures option constructors reject nonsense values.
func TestOptionPanics(t *testing.T) {
	require.Panics(t, func() { blockmat.WithBlockSize(0) })
	require.Panics(t, func() { blockmat.WithPartitionHeightInBlocks(-1) })
	require.Panics(t, func() { blockmat.WithPartitionWidthInBlocks(0) })
}
