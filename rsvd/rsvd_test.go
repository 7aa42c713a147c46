// Package rsvd_test contains black-box tests for the randomized SVD driver:
// exactness at full sampling, ordering/determinism properties, degenerate
// inputs and the large-scale end-to-end scenario.
package rsvd_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/bigsvd/blockmat"
	"github.com/katalvlaran/bigsvd/engine"
	"github.com/katalvlaran/bigsvd/rsvd"
)

// denseToBlock loads every entry of a dense matrix into the block
// representation, returning both views.
func denseToBlock(t *testing.T, pool *engine.Pool, d *mat.Dense, opts ...blockmat.Option) *blockmat.BlockMatrix {
	t.Helper()
	rows, cols := d.Dims()
	var entries []blockmat.Entry
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if v := d.At(i, j); v != 0 {
				entries = append(entries, blockmat.Entry{Row: int64(i), Col: int64(j), Value: v})
			}
		}
	}
	a, err := blockmat.FromEntries(pool, entries, int64(rows), int64(cols), opts...)
	require.NoError(t, err)

	return a
}

// randomSparseBlock builds a random sparse matrix for property tests.
func randomSparseBlock(t *testing.T, pool *engine.Pool, rows, cols int64, nnz int, opts ...blockmat.Option) *blockmat.BlockMatrix {
	t.Helper()
	rng := rand.New(rand.NewSource(99))
	entries := make([]blockmat.Entry, 0, nnz)
	for n := 0; n < nnz; n++ {
		entries = append(entries, blockmat.Entry{
			Row:   rng.Int63n(rows),
			Col:   rng.Int63n(cols),
			Value: rng.NormFloat64(),
		})
	}
	a, err := blockmat.FromEntries(pool, entries, rows, cols, opts...)
	require.NoError(t, err)

	return a
}

// requireDescendingNonNegative pins the ordering contract on Values.
func requireDescendingNonNegative(t *testing.T, values []float64) {
	t.Helper()
	for i, v := range values {
		require.GreaterOrEqual(t, v, 0.0, "value %d", i)
		if i > 0 {
			require.LessOrEqual(t, v, values[i-1]+1e-12, "value %d out of order", i)
		}
	}
}

// TestComputeMatchesExactSVD: with embeddingDim+oversample covering the full
// column space, the randomized algorithm recovers the exact decomposition —
// singular values match a dense reference SVD and the returned vectors
// diagonalize the input.
func TestComputeMatchesExactSVD(t *testing.T) {
	pool := engine.New()
	rng := rand.New(rand.NewSource(5))
	const m, n, dim = 40, 30, 5

	ad := mat.NewDense(m, n, nil)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			ad.Set(i, j, rng.NormFloat64())
		}
	}
	a := denseToBlock(t, pool, ad,
		blockmat.WithBlockSize(7),
		blockmat.WithPartitionHeightInBlocks(2),
		blockmat.WithPartitionWidthInBlocks(2))

	res, err := rsvd.Compute(a,
		rsvd.WithEmbeddingDim(dim),
		rsvd.WithOversample(n-dim), // full sampling: k = n makes the sketch exact
		rsvd.WithPowerIterations(2),
		rsvd.WithSeed(17))
	require.NoError(t, err)
	require.Len(t, res.Values, dim)
	requireDescendingNonNegative(t, res.Values)

	// Reference: exact dense SVD.
	var ref mat.SVD
	require.True(t, ref.Factorize(ad, mat.SVDThin))
	refValues := ref.Values(nil)
	for i := 0; i < dim; i++ {
		require.InDelta(t, refValues[i], res.Values[i], 1e-8, "singular value %d", i)
	}

	// Singular vectors are orthonormal...
	ud, vd := res.Left.Dense(), res.Right.Dense()
	var utu, vtv mat.Dense
	utu.Mul(ud.T(), ud)
	vtv.Mul(vd.T(), vd)
	id := mat.NewDense(dim, dim, nil)
	for i := 0; i < dim; i++ {
		id.Set(i, i, 1)
	}
	require.True(t, mat.EqualApprox(id, &utu, 1e-8))
	require.True(t, mat.EqualApprox(id, &vtv, 1e-8))

	// ...and diagonalize A: Uᵗ·A·V ≈ diag(values).
	var av, uav mat.Dense
	av.Mul(ad, vd)
	uav.Mul(ud.T(), &av)
	diag := mat.NewDense(dim, dim, nil)
	for i := 0; i < dim; i++ {
		diag.Set(i, i, res.Values[i])
	}
	require.True(t, mat.EqualApprox(diag, &uav, 1e-7))
}

// TestComputeModestScaleKnownSpectrum exercises genuine approximation: the
// sketch is far narrower than the matrix (k = 30 against side 10,000), so
// the result is only as good as the power iterations make it. The input is a
// permuted diagonal with geometrically decaying values, giving an exact
// reference spectrum without a dense SVD; each value is split across two
// duplicate entries, so the matrix carries 20,000 stored entries.
func TestComputeModestScaleKnownSpectrum(t *testing.T) {
	const (
		side = 10_000
		dim  = 20
	)
	pool := engine.New()
	rng := rand.New(rand.NewSource(77))
	perm := rng.Perm(side)

	want := make([]float64, side)
	entries := make([]blockmat.Entry, 0, 2*side)
	for i := 0; i < side; i++ {
		v := math.Pow(0.9, float64(i))
		want[i] = v
		entries = append(entries,
			blockmat.Entry{Row: int64(i), Col: int64(perm[i]), Value: 0.25 * v},
			blockmat.Entry{Row: int64(i), Col: int64(perm[i]), Value: 0.75 * v})
	}
	a, err := blockmat.FromEntries(pool, entries, side, side,
		blockmat.WithBlockSize(1_000),
		blockmat.WithPartitionHeightInBlocks(1),
		blockmat.WithPartitionWidthInBlocks(1))
	require.NoError(t, err)

	res, err := rsvd.Compute(a,
		rsvd.WithEmbeddingDim(dim),
		rsvd.WithOversample(10),
		rsvd.WithPowerIterations(3),
		rsvd.WithSeed(7))
	require.NoError(t, err)

	require.Len(t, res.Values, dim)
	requireDescendingNonNegative(t, res.Values)
	for i := 0; i < dim; i++ {
		require.InEpsilon(t, want[i], res.Values[i], 1e-2, "singular value %d", i) // loose: the sketch is approximate here
	}
}

// TestComputeDeterministicPerSeed: identical input, seed and configuration
// reproduce the singular values within tolerance (not necessarily bitwise).
func TestComputeDeterministicPerSeed(t *testing.T) {
	pool := engine.New()
	a := randomSparseBlock(t, pool, 60, 50, 200,
		blockmat.WithBlockSize(8),
		blockmat.WithPartitionHeightInBlocks(2),
		blockmat.WithPartitionWidthInBlocks(2))
	opts := []rsvd.Option{
		rsvd.WithEmbeddingDim(6),
		rsvd.WithOversample(8),
		rsvd.WithPowerIterations(2),
		rsvd.WithSeed(123),
	}

	first, err := rsvd.Compute(a, opts...)
	require.NoError(t, err)
	second, err := rsvd.Compute(a, opts...)
	require.NoError(t, err)

	require.Len(t, second.Values, len(first.Values))
	for i := range first.Values {
		require.InDelta(t, first.Values[i], second.Values[i], 1e-9)
	}
}

// TestComputeZeroMatrix: a matrix with no stored entries yields all-zero
// singular values and well-shaped vectors, without failing.
func TestComputeZeroMatrix(t *testing.T) {
	pool := engine.New()
	a, err := blockmat.FromEntries(pool, nil, 50, 40,
		blockmat.WithBlockSize(16),
		blockmat.WithPartitionHeightInBlocks(1),
		blockmat.WithPartitionWidthInBlocks(1))
	require.NoError(t, err)

	res, cerr := rsvd.Compute(a, rsvd.WithEmbeddingDim(3), rsvd.WithSeed(9))
	require.NoError(t, cerr)
	require.Len(t, res.Values, 3)
	for i, v := range res.Values {
		require.InDelta(t, 0.0, v, 1e-12, "value %d", i)
	}

	rows, cols := res.Left.Dims()
	require.EqualValues(t, 50, rows)
	require.Equal(t, 3, cols)
	rows, cols = res.Right.Dims()
	require.EqualValues(t, 40, rows)
	require.Equal(t, 3, cols)
}

// TestComputeOmitsUnrequestedVectors honors the compute*SingularVectors
// flags by leaving the corresponding outputs nil.
func TestComputeOmitsUnrequestedVectors(t *testing.T) {
	pool := engine.New()
	a := randomSparseBlock(t, pool, 30, 30, 60,
		blockmat.WithBlockSize(8),
		blockmat.WithPartitionHeightInBlocks(1),
		blockmat.WithPartitionWidthInBlocks(1))

	res, err := rsvd.Compute(a,
		rsvd.WithEmbeddingDim(4),
		rsvd.WithLeftVectors(false),
		rsvd.WithRightVectors(true))
	require.NoError(t, err)
	require.Nil(t, res.Left)     // omitted on request
	require.NotNil(t, res.Right) // still produced
	require.Len(t, res.Values, 4)
	requireDescendingNonNegative(t, res.Values)
}

// TestComputeArgumentContracts covers the error sentinels and option panics.
func TestComputeArgumentContracts(t *testing.T) {
	pool := engine.New()
	a := randomSparseBlock(t, pool, 10, 10, 10, blockmat.WithBlockSize(4))

	_, err := rsvd.Compute(nil, rsvd.WithEmbeddingDim(2))
	require.ErrorIs(t, err, rsvd.ErrNilMatrix)

	_, err = rsvd.Compute(a) // WithEmbeddingDim never applied
	require.ErrorIs(t, err, rsvd.ErrBadEmbeddingDim)

	require.Panics(t, func() { rsvd.WithEmbeddingDim(0) })
	require.Panics(t, func() { rsvd.WithOversample(-1) })
	require.Panics(t, func() { rsvd.WithPowerIterations(0) })
	require.Panics(t, func() { rsvd.WithFanIn(engine.MaxFanIn + 1) })
}

// TestEndToEndLargeScale runs the headline scenario: 200,000×200,000 with
// 400,000 random non-zeros, embeddingDim=100, oversample=30, one power
// iteration, blockSize=50,000. Long-running; skipped with -short.
func TestEndToEndLargeScale(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping large-scale end-to-end scenario in short mode")
	}

	const (
		side = 200_000
		nnz  = 400_000
		dim  = 100
	)
	pool := engine.New()
	rng := rand.New(rand.NewSource(0))
	entries := make([]blockmat.Entry, 0, nnz)
	for n := 0; n < nnz; n++ {
		entries = append(entries, blockmat.Entry{
			Row:   rng.Int63n(side),
			Col:   rng.Int63n(side),
			Value: rng.NormFloat64(),
		})
	}
	a, err := blockmat.FromEntries(pool, entries, side, side,
		blockmat.WithBlockSize(50_000),
		blockmat.WithPartitionHeightInBlocks(1),
		blockmat.WithPartitionWidthInBlocks(1))
	require.NoError(t, err)

	res, err := rsvd.Compute(a,
		rsvd.WithEmbeddingDim(dim),
		rsvd.WithOversample(30),
		rsvd.WithPowerIterations(1),
		rsvd.WithSeed(0))
	require.NoError(t, err)

	require.Len(t, res.Values, dim) // exactly embeddingDim values survive truncation
	requireDescendingNonNegative(t, res.Values)

	rows, cols := res.Left.Dims()
	require.EqualValues(t, side, rows)
	require.Equal(t, dim, cols)
	rows, cols = res.Right.Dims()
	require.EqualValues(t, side, rows)
	require.Equal(t, dim, cols)
}
