// SPDX-License-Identifier: MIT

// Package blockmat - canonical builder for BlockMatrix from COO triples.
//
// Policy & Contracts:
//   - Every entry routes to tile (row/blockSize, col/blockSize), and that
//     tile routes to super-partition (tileRow/partitionHeightInBlocks,
//     tileCol/partitionWidthInBlocks).
//   - Duplicate (row, col) entries are SUMMED (standard COO semantics).
//     Silent overwrite would change numerical results; the summation is
//     explicit here and covered by tests.
//   - Out-of-range coordinates fail fast with ErrIndexOutOfBounds.
//   - NaN/±Inf values fail fast with ErrNonFinite.
//
// Determinism:
//   - Super-partitions, tiles and tile entries are emitted in sorted order,
//     so the built structure is identical for any input permutation.

package blockmat

import (
	"fmt"
	"math"
	"sort"

	"github.com/katalvlaran/bigsvd/engine"
)

// coord is a tile-local (row, col) position used for duplicate summation.
type coord struct {
	i, j int
}

// gridKey addresses a tile or a super-partition in its grid.
type gridKey struct {
	row, col int
}

// FromEntries builds a BlockMatrix of the given global dimensions from COO
// triples. See the file header for routing, duplicate and validation policy.
//
// Inputs:
//   - pool: execution pool the matrix will be bound to.
//   - entries: COO triples; order is irrelevant, duplicates are summed.
//   - height, width: global dimensions, both > 0.
//   - opts: WithBlockSize, WithPartitionHeightInBlocks, WithPartitionWidthInBlocks.
//
// Returns ErrNilPool, ErrBadShape, ErrIndexOutOfBounds or ErrNonFinite.
// Complexity: O(nnz log nnz) time, O(nnz) memory.
func FromEntries(pool *engine.Pool, entries []Entry, height, width int64, opts ...Option) (*BlockMatrix, error) {
	if pool == nil {
		return nil, fmt.Errorf("FromEntries: %w", ErrNilPool)
	}
	if height <= 0 || width <= 0 {
		return nil, fmt.Errorf("FromEntries: %dx%d: %w", height, width, ErrBadShape)
	}
	o := gatherOptions(opts...)
	bs := int64(o.blockSize)

	// Stage 1: route entries to tiles, summing duplicates.
	tiles := make(map[gridKey]map[coord]float64)
	for _, e := range entries {
		if e.Row < 0 || e.Row >= height || e.Col < 0 || e.Col >= width {
			return nil, fmt.Errorf("FromEntries: entry (%d,%d): %w", e.Row, e.Col, ErrIndexOutOfBounds)
		}
		if math.IsNaN(e.Value) || math.IsInf(e.Value, 0) {
			return nil, fmt.Errorf("FromEntries: entry (%d,%d): %w", e.Row, e.Col, ErrNonFinite)
		}
		bk := gridKey{row: int(e.Row / bs), col: int(e.Col / bs)}
		t, ok := tiles[bk]
		if !ok {
			t = make(map[coord]float64)
			tiles[bk] = t
		}
		t[coord{i: int(e.Row % bs), j: int(e.Col % bs)}] += e.Value // COO sum
	}

	// Stage 2: freeze tiles into sorted Blocks grouped by super-partition.
	groups := make(map[gridKey][]Block)
	var nnz int64
	for bk, t := range tiles {
		b := freezeTile(bk, t, height, width, o.blockSize)
		nnz += int64(len(b.Val))
		sk := gridKey{row: bk.row / o.partHeight, col: bk.col / o.partWidth}
		groups[sk] = append(groups[sk], b)
	}

	// Stage 3: emit super-partitions in deterministic (row, col) order.
	keys := make([]gridKey, 0, len(groups))
	for sk := range groups {
		keys = append(keys, sk)
	}
	sort.Slice(keys, func(a, b int) bool {
		if keys[a].row != keys[b].row {
			return keys[a].row < keys[b].row
		}

		return keys[a].col < keys[b].col
	})
	sps := make([]SuperPartition, len(keys))
	for i, sk := range keys {
		blocks := groups[sk]
		sort.Slice(blocks, func(a, b int) bool {
			if blocks[a].Row != blocks[b].Row {
				return blocks[a].Row < blocks[b].Row
			}

			return blocks[a].Col < blocks[b].Col
		})
		sps[i] = SuperPartition{Row: sk.row, Col: sk.col, Blocks: blocks}
	}

	return &BlockMatrix{
		pool:       pool,
		height:     height,
		width:      width,
		blockSize:  o.blockSize,
		partHeight: o.partHeight,
		partWidth:  o.partWidth,
		parts:      engine.Single(pool, sps),
		nnz:        nnz,
	}, nil
}

// freezeTile converts an accumulation map into an immutable Block with
// entries sorted by (row, col) and boundary-truncated dimensions.
func freezeTile(bk gridKey, t map[coord]float64, height, width int64, blockSize int) Block {
	cs := make([]coord, 0, len(t))
	for c := range t {
		cs = append(cs, c)
	}
	sort.Slice(cs, func(a, b int) bool {
		if cs[a].i != cs[b].i {
			return cs[a].i < cs[b].i
		}

		return cs[a].j < cs[b].j
	})

	b := Block{
		Row:  bk.row,
		Col:  bk.col,
		Rows: int(spanIn(height, int64(blockSize), bk.row)),
		Cols: int(spanIn(width, int64(blockSize), bk.col)),
		Ix:   make([]int, len(cs)),
		Jx:   make([]int, len(cs)),
		Val:  make([]float64, len(cs)),
	}
	for n, c := range cs {
		b.Ix[n], b.Jx[n], b.Val[n] = c.i, c.j, t[c]
	}

	return b
}
