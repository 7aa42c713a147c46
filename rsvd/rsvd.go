// SPDX-License-Identifier: MIT

// Package rsvd - the power-iteration driver.
//
// Policy & Contracts:
//   - Iterations are strictly sequential: each round consumes the previous
//     round's orthonormal basis.
//   - All failures surface synchronously; a run either completes with a full
//     Result or fails entirely. No partial results, no retries.

package rsvd

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/bigsvd/blockmat"
	"github.com/katalvlaran/bigsvd/tsqr"
)

// Result holds the outcome of one decomposition run. Created once at the
// end of a run; immutable.
type Result struct {
	// Left holds the approximate left singular vectors (height ×
	// embeddingDim), row-partitioned like the input's rows. Nil when left
	// vectors were not requested.
	Left *blockmat.SkinnyBlockMatrix

	// Values are the approximate singular values, non-negative and sorted
	// descending, exactly embeddingDim of them.
	Values []float64

	// Right holds the approximate right singular vectors (width ×
	// embeddingDim), row-partitioned like the input's columns. Nil when
	// right vectors were not requested.
	Right *blockmat.SkinnyBlockMatrix
}

// Compute runs the randomized truncated SVD of a. WithEmbeddingDim is
// mandatory; see the package documentation for the algorithm and its
// reproducibility contract.
//
// Returns ErrNilMatrix, ErrBadEmbeddingDim, ErrSVDFailed, or a propagated
// blockmat/tsqr/engine failure (ErrNonFinite on numerical blow-up,
// dimension/partition mismatches on misaligned inputs).
func Compute(a *blockmat.BlockMatrix, opts ...Option) (*Result, error) {
	if a == nil {
		return nil, fmt.Errorf("Compute: %w", ErrNilMatrix)
	}
	o := gatherOptions(opts...)
	if o.embeddingDim <= 0 {
		return nil, fmt.Errorf("Compute: %w", ErrBadEmbeddingDim)
	}

	height, width := a.Dims()
	k := o.embeddingDim + o.oversample
	log := o.logger
	log.Info("rsvd run starting",
		zap.Int64("height", height),
		zap.Int64("width", width),
		zap.Int64("nnz", a.NNZ()),
		zap.Int("embeddingDim", o.embeddingDim),
		zap.Int("oversample", o.oversample),
		zap.Int("powerIterations", o.powerIter),
		zap.Uint64("seed", o.seed))

	// INIT: deterministic Gaussian basis aligned to A's column partitioning.
	x, err := blockmat.GaussianSkinny(a.Pool(), width, k, a.ColPartitionRows(), o.seed)
	if err != nil {
		return nil, fmt.Errorf("Compute: init: %w", err)
	}

	// Power iterations: Y = A·X, orthonormalize; Z = Aᵗ·Q_L, orthonormalize.
	var qL, qR *blockmat.SkinnyBlockMatrix
	for it := 1; it <= o.powerIter; it++ {
		start := time.Now()

		y, merr := a.MulSkinny(x)
		if merr != nil {
			return nil, fmt.Errorf("Compute: iteration %d: %w", it, merr)
		}
		qL, _, merr = tsqr.Decompose(y, tsqr.WithFanIn(o.fanIn))
		if merr != nil {
			return nil, fmt.Errorf("Compute: iteration %d: %w", it, merr)
		}

		z, merr := a.TransMulSkinny(qL)
		if merr != nil {
			return nil, fmt.Errorf("Compute: iteration %d: %w", it, merr)
		}
		qR, _, merr = tsqr.Decompose(z, tsqr.WithFanIn(o.fanIn))
		if merr != nil {
			return nil, fmt.Errorf("Compute: iteration %d: %w", it, merr)
		}
		x = qR // next round multiplies A against the refreshed basis

		log.Info("power iteration complete",
			zap.Int("iteration", it),
			zap.Duration("elapsed", time.Since(start)))
	}

	// FINALIZE: project A onto the final bases, decompose the small core,
	// back-project the local singular vectors.
	start := time.Now()
	t, err := a.MulSkinny(qR)
	if err != nil {
		return nil, fmt.Errorf("Compute: finalize: %w", err)
	}
	b, err := qL.Gram(t) // k×k core: Q_Lᵗ·A·Q_R
	if err != nil {
		return nil, fmt.Errorf("Compute: finalize: %w", err)
	}

	var svd mat.SVD
	if !svd.Factorize(b, mat.SVDFull) {
		return nil, fmt.Errorf("Compute: finalize: %w", ErrSVDFailed)
	}
	values := svd.Values(nil) // descending, non-negative
	dim := o.embeddingDim

	res := &Result{Values: append([]float64(nil), values[:dim]...)}
	if o.left {
		var u mat.Dense
		svd.UTo(&u)
		res.Left, err = qL.RightMul(u.Slice(0, k, 0, dim))
		if err != nil {
			return nil, fmt.Errorf("Compute: finalize: %w", err)
		}
	}
	if o.right {
		var v mat.Dense
		svd.VTo(&v)
		res.Right, err = qR.RightMul(v.Slice(0, k, 0, dim))
		if err != nil {
			return nil, fmt.Errorf("Compute: finalize: %w", err)
		}
	}

	log.Info("rsvd run complete",
		zap.Duration("finalize", time.Since(start)),
		zap.Float64("topSingularValue", res.Values[0]))

	return res, nil
}
