// SPDX-License-Identifier: MIT

// Package blockmat: functional configuration for BlockMatrix construction.
// WithX constructors validate strictly and panic on nonsensical values
// (programmer error); data-dependent failures are returned as errors.

package blockmat

// DEFAULTS - single source of truth for zero-value behavior.
const (
	// DefaultBlockSize is the tile edge length in rows/columns. Together with
	// the partition extents it bounds per-task memory during multiplication;
	// see the package documentation for the sizing formula.
	DefaultBlockSize = 4096

	// DefaultPartitionHeightInBlocks is the number of tile rows grouped into
	// one super-partition.
	DefaultPartitionHeightInBlocks = 4

	// DefaultPartitionWidthInBlocks is the number of tile columns grouped
	// into one super-partition.
	DefaultPartitionWidthInBlocks = 4
)

const (
	panicBlockSizeInvalid  = "blockmat: WithBlockSize: size must be > 0"
	panicPartHeightInvalid = "blockmat: WithPartitionHeightInBlocks: n must be > 0"
	panicPartWidthInvalid  = "blockmat: WithPartitionWidthInBlocks: n must be > 0"
)

// Option mutates construction options. Safe to apply repeatedly (idempotent).
type Option func(*options)

type options struct {
	blockSize  int // tile edge; > 0
	partHeight int // tiles per super-partition row; > 0
	partWidth  int // tiles per super-partition column; > 0
}

// WithBlockSize sets the tile edge length. Panics when size <= 0.
// Complexity: O(1).
func WithBlockSize(size int) Option {
	if size <= 0 {
		panic(panicBlockSizeInvalid)
	}

	return func(o *options) { o.blockSize = size }
}

// WithPartitionHeightInBlocks sets how many tile rows form one
// super-partition. Panics when n <= 0.
// Complexity: O(1).
func WithPartitionHeightInBlocks(n int) Option {
	if n <= 0 {
		panic(panicPartHeightInvalid)
	}

	return func(o *options) { o.partHeight = n }
}

// WithPartitionWidthInBlocks sets how many tile columns form one
// super-partition. Panics when n <= 0.
// Complexity: O(1).
func WithPartitionWidthInBlocks(n int) Option {
	if n <= 0 {
		panic(panicPartWidthInvalid)
	}

	return func(o *options) { o.partWidth = n }
}

// defaultOptions returns the documented defaults (single source of truth).
func defaultOptions() options {
	return options{
		blockSize:  DefaultBlockSize,
		partHeight: DefaultPartitionHeightInBlocks,
		partWidth:  DefaultPartitionWidthInBlocks,
	}
}

// gatherOptions applies user setters on top of defaults; last-writer-wins.
func gatherOptions(user ...Option) options {
	o := defaultOptions()
	for _, set := range user {
		set(&o)
	}

	return o
}
