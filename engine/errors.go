// SPDX-License-Identifier: MIT
// Package engine: sentinel error set.
// All operations MUST return these sentinels (possibly wrapped with
// fmt.Errorf("Op: %w", ...)) and tests MUST check them via errors.Is.
// Panics are reserved for programmer errors in option constructors.

package engine

import "errors"

var (
	// ErrEmptyCollection is returned by reductions invoked on a collection
	// holding no elements; there is no neutral element to return.
	ErrEmptyCollection = errors.New("engine: empty collection")

	// ErrBadFanIn indicates a TreeReduce fan-in outside the supported [2,8]
	// range. The bound keeps per-level memory and combine cost constant.
	ErrBadFanIn = errors.New("engine: fan-in must be between 2 and 8")

	// ErrPoolMismatch indicates operands bound to different pools were
	// combined; partitions must share one execution runtime.
	ErrPoolMismatch = errors.New("engine: collections bound to different pools")
)
