// SPDX-License-Identifier: MIT
// Package blockmat: canonical validation helpers.
//
// Purpose:
//   - Single source of truth for nil/shape/alignment checks.
//   - Return plain sentinels; call sites wrap with operation context.

package blockmat

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/bigsvd/engine"
)

// validateAligned checks that x is bound to the given pool and row-partitioned
// exactly like a logical matrix of the given row count and stride. Alignment
// is what permits local co-partitioned multiplication without a shuffle.
// Complexity: O(1).
func validateAligned(x *SkinnyBlockMatrix, pool *engine.Pool, rows, stride int64) error {
	if x == nil {
		return ErrNilMatrix
	}
	if x.pool != pool {
		return engine.ErrPoolMismatch
	}
	if x.rows != rows {
		return fmt.Errorf("%d rows vs %d: %w", x.rows, rows, ErrDimensionMismatch)
	}
	if x.stride != stride {
		return fmt.Errorf("stride %d vs %d: %w", x.stride, stride, ErrPartitionMismatch)
	}

	return nil
}

// allFinite reports whether every element of d is finite.
// Complexity: O(r·c).
func allFinite(d *mat.Dense) bool {
	for _, v := range d.RawMatrix().Data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}

	return true
}
