// SPDX-License-Identifier: MIT

// Package tsqr - compact Householder thin-QR kernel.
//
// Purpose:
//   - Factor a tall m×k (m ≥ k) dense block as Q·R with Q m×k (orthonormal
//     columns) and R k×k upper triangular, diag(R) ≥ 0.
//
// Notes:
//   - gonum's mat.QR extracts the full m×m orthogonal factor; leaves here
//     can hold a whole partition's rows, so the thin factor must be formed
//     directly. Reflectors are stored below the diagonal of the working copy
//     and applied to a thin identity, LAPACK dorgqr style.
//   - A zero column (norm 0) skips its reflector; the corresponding R
//     diagonal stays 0 and the factorization completes rank-deficient.

package tsqr

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// thinQR factors a (m×k, m ≥ k) into q (m×k) and r (k×k, upper triangular,
// non-negative diagonal) with a = q·r.
// Complexity: O(m·k²) time, O(m·k) memory.
func thinQR(a mat.Matrix) (q, r *mat.Dense) {
	m, k := a.Dims()
	w := mat.DenseCopyOf(a)       // reflectors accumulate below the diagonal
	tau := make([]float64, k)     // 2/‖v‖² per reflector; 0 marks a skip
	diag := make([]float64, k)    // R diagonal (pre sign-fix)

	// Stage 1: reduce to triangular form, one reflector per column.
	for j := 0; j < k; j++ {
		norm := 0.0
		for i := j; i < m; i++ {
			v := w.At(i, j)
			norm += v * v
		}
		norm = math.Sqrt(norm)
		if norm == 0 {
			continue // zero column: no reflector, zero pivot
		}
		alpha := -math.Copysign(norm, w.At(j, j))
		w.Set(j, j, w.At(j, j)-alpha)
		beta := 0.0
		for i := j; i < m; i++ {
			v := w.At(i, j)
			beta += v * v
		}
		tau[j] = 2 / beta
		diag[j] = alpha

		// Apply the reflector to the trailing columns.
		for c := j + 1; c < k; c++ {
			s := 0.0
			for i := j; i < m; i++ {
				s += w.At(i, j) * w.At(i, c)
			}
			s *= tau[j]
			for i := j; i < m; i++ {
				w.Set(i, c, w.At(i, c)-s*w.At(i, j))
			}
		}
	}

	// Stage 2: read off R from the upper triangle and the pivots.
	r = mat.NewDense(k, k, nil)
	for j := 0; j < k; j++ {
		r.Set(j, j, diag[j])
		for c := j + 1; c < k; c++ {
			r.Set(j, c, w.At(j, c))
		}
	}

	// Stage 3: form the thin Q by applying the reflectors to I(m×k),
	// last reflector first.
	q = mat.NewDense(m, k, nil)
	for j := 0; j < k && j < m; j++ {
		q.Set(j, j, 1)
	}
	for j := k - 1; j >= 0; j-- {
		if tau[j] == 0 {
			continue
		}
		for c := 0; c < k; c++ {
			s := 0.0
			for i := j; i < m; i++ {
				s += w.At(i, j) * q.At(i, c)
			}
			s *= tau[j]
			for i := j; i < m; i++ {
				q.Set(i, c, q.At(i, c)-s*w.At(i, j))
			}
		}
	}

	// Stage 4: sign convention diag(R) ≥ 0. A = (Q·D)(D·R) for D = diag(±1),
	// so flipping R's row j together with Q's column j preserves the product.
	for j := 0; j < k; j++ {
		if r.At(j, j) >= 0 {
			continue
		}
		for c := j; c < k; c++ {
			r.Set(j, c, -r.At(j, c))
		}
		for i := 0; i < m; i++ {
			q.Set(i, j, -q.At(i, j))
		}
	}

	return q, r
}

// leafQRStep factors one partition row-block. Blocks with fewer rows than
// columns are zero-padded to k rows first: the padded rows of the resulting
// Q are exactly X·R⁻¹ rows of zeros whenever R is invertible, so trimming
// them afterwards is exact (and harmless to roundoff otherwise).
func leafQRStep(b *mat.Dense, k int) (q, r *mat.Dense) {
	m, _ := b.Dims()
	if m >= k {
		return thinQR(b)
	}

	padded := mat.NewDense(k, k, nil)
	for i := 0; i < m; i++ {
		copy(padded.RawRowView(i), b.RawRowView(i))
	}
	qf, r := thinQR(padded)
	q = mat.DenseCopyOf(qf.Slice(0, m, 0, k))

	return q, r
}
