// SPDX-License-Identifier: MIT
// Package blockmat: sentinel error set (unified, consistent).
// All operations MUST return these sentinels and tests MUST check them via
// errors.Is. If context is essential, wrap with fmt.Errorf("ctx: %w", ErrX);
// callers still match with errors.Is.

package blockmat

import "errors"

var (
	// ErrBadShape is returned when a requested shape is invalid (height,
	// width, column count or partition stride <= 0).
	ErrBadShape = errors.New("blockmat: invalid shape")

	// ErrIndexOutOfBounds indicates a coordinate outside the declared matrix
	// dimensions during construction.
	ErrIndexOutOfBounds = errors.New("blockmat: index out of bounds")

	// ErrNonFinite signals a NaN or ±Inf value where finite values are
	// required: at ingestion, or detected in a multiplication partial.
	ErrNonFinite = errors.New("blockmat: NaN or Inf encountered")

	// ErrDimensionMismatch indicates incompatible operand dimensions,
	// e.g. multiplying an n-column matrix by a skinny matrix of m ≠ n rows.
	ErrDimensionMismatch = errors.New("blockmat: dimension mismatch")

	// ErrPartitionMismatch indicates operands whose row-partition boundaries
	// do not align; co-partitioned multiplication requires exact alignment.
	ErrPartitionMismatch = errors.New("blockmat: partition boundaries do not align")

	// ErrNilMatrix indicates a nil matrix receiver or argument.
	ErrNilMatrix = errors.New("blockmat: nil matrix")

	// ErrNilPool indicates a nil *engine.Pool was passed to a constructor.
	ErrNilPool = errors.New("blockmat: nil pool")
)
