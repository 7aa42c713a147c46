// SPDX-License-Identifier: MIT

// Package tsqr - the tree-reduce decomposition driver.
//
// Purpose:
//   - Leaf QR per partition, an up-sweep combining the small R factors level
//     by level, and a down-sweep handing each node a single k×k factor so
//     every partition recovers its row-block of the global Q.
//
// Determinism:
//   - Tree shape is fixed by (partition count, fan-in), so the factor chain
//     each leaf accumulates is deterministic; floating-point results match
//     across runs within tolerance.

package tsqr

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/bigsvd/blockmat"
	"github.com/katalvlaran/bigsvd/engine"
)

// leafQR keeps one partition's local factors between the leaf step and the
// expansion pass.
type leafQR struct {
	q *mat.Dense // local Q, partitionRows × k
	r *mat.Dense // local R, k×k
}

// treeNode is one up-sweep node, retained for the down-sweep: the orthonormal
// factor of its stacked children plus how many children it covers. Its q has
// at most fanIn·k rows — the invariant bounding per-task data at every level.
type treeNode struct {
	q        *mat.Dense // stacked-children local Q, (children·k)×k
	r        *mat.Dense // node R, k×k
	children int
}

// descent pairs an up-sweep node with the k×k factor flowing into it from its
// parent during the down-sweep.
type descent struct {
	node   treeNode
	factor *mat.Dense
}

// Decompose factors a row-partitioned skinny matrix x into an orthonormal Q
// with x's shape and partitioning and a k×k upper-triangular R with
// non-negative diagonal, such that x = Q·R.
//
// Inputs:
//   - x: the matrix to orthonormalize; not mutated.
//   - opts: WithFanIn.
//
// Returns ErrNilMatrix or a propagated engine failure.
// Complexity: O(rows·k²) leaf work + O(partitions·k³) tree work over
// O(log partitions) levels; no task holds more than one partition of rows or
// fanIn small factors.
func Decompose(x *blockmat.SkinnyBlockMatrix, opts ...Option) (*blockmat.SkinnyBlockMatrix, *mat.Dense, error) {
	if x == nil {
		return nil, nil, fmt.Errorf("Decompose: %w", ErrNilMatrix)
	}
	o := gatherOptions(opts...)
	_, k := x.Dims()
	pool := x.Pool()

	// Stage 1: leaf factorization, one task per partition.
	leaves, err := engine.MapPartitions(engine.Single(pool, x.Blocks()),
		func(_ int, part []*mat.Dense) ([]leafQR, error) {
			q, r := leafQRStep(part[0], k)

			return []leafQR{{q: q, r: r}}, nil
		})
	if err != nil {
		return nil, nil, fmt.Errorf("Decompose: leaf step: %w", err)
	}
	rs := make([]*mat.Dense, 0, x.NumPartitions())
	for _, lf := range engine.Collect(leaves) {
		rs = append(rs, lf.r)
	}

	// Stage 2: up-sweep — combine the R factors level by level, keeping each
	// node's stacked Q for the way back down.
	levels, rootR, err := upSweep(pool, rs, k, o.fanIn)
	if err != nil {
		return nil, nil, fmt.Errorf("Decompose: up-sweep: %w", err)
	}

	// Stage 3: down-sweep — push one k×k factor per node toward the leaves.
	ws, err := downSweep(pool, levels, k)
	if err != nil {
		return nil, nil, fmt.Errorf("Decompose: down-sweep: %w", err)
	}

	// Stage 4: expansion — each leaf recovers its global Q row-block as
	// localQ · leafFactor.
	qParts, err := engine.MapPartitions(leaves, func(p int, part []leafQR) ([]*mat.Dense, error) {
		var out mat.Dense
		out.Mul(part[0].q, ws[p])

		return []*mat.Dense{&out}, nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("Decompose: expansion: %w", err)
	}

	q, err := blockmat.NewSkinnyAligned(pool, engine.Collect(qParts), k, x.Stride())
	if err != nil {
		return nil, nil, fmt.Errorf("Decompose: %w", err)
	}

	return q, rootR, nil
}

// upSweep reduces the R factors level by level: each node task stacks the k×k
// factors of at most fanIn children, QR-factors the stack, and emits its own
// R to the level above. Per-task data is O(fanIn·k²) regardless of partition
// count. Returns the retained nodes per level (bottom level first) and the
// root R.
//
// Correctness: child i of a node satisfies R_i = S_i·R' where S_i is child
// i's k-row slice of the node Q and R' the node R, so chaining the slices
// from root to leaf yields X_leaf = Q_leaf·W_leaf·R_root.
func upSweep(pool *engine.Pool, rs []*mat.Dense, k, fanIn int) ([][]treeNode, *mat.Dense, error) {
	var levels [][]treeNode
	for len(rs) > 1 {
		groups := make([][]*mat.Dense, 0, (len(rs)+fanIn-1)/fanIn)
		for lo := 0; lo < len(rs); lo += fanIn {
			groups = append(groups, rs[lo:min(lo+fanIn, len(rs))])
		}
		nodes, err := engine.MapPartitions(engine.Distribute(pool, groups),
			func(_ int, group []*mat.Dense) ([]treeNode, error) {
				stacked := mat.NewDense(len(group)*k, k, nil)
				for i, r := range group {
					for row := 0; row < k; row++ {
						copy(stacked.RawRowView(i*k+row), r.RawRowView(row))
					}
				}
				q, r := thinQR(stacked)

				return []treeNode{{q: q, r: r, children: len(group)}}, nil
			})
		if err != nil {
			return nil, nil, err
		}
		level := engine.Collect(nodes)
		levels = append(levels, level)
		rs = make([]*mat.Dense, len(level))
		for i, nd := range level {
			rs[i] = nd.r
		}
	}

	return levels, rs[0], nil
}

// downSweep walks the levels root-first. Each node task receives one k×k
// factor and emits one per child, F_child = S_child·F_node, so per-task data
// is one node Q plus a handful of k×k factors. Returns the accumulated
// factors of the bottom level in leaf order; with no levels (a single
// partition) the lone leaf gets the identity.
func downSweep(pool *engine.Pool, levels [][]treeNode, k int) ([]*mat.Dense, error) {
	factors := []*mat.Dense{eye(k)}
	for lvl := len(levels) - 1; lvl >= 0; lvl-- {
		steps := make([]descent, len(levels[lvl]))
		for i, nd := range levels[lvl] {
			steps[i] = descent{node: nd, factor: factors[i]}
		}
		lower, err := engine.MapPartitions(engine.Single(pool, steps),
			func(_ int, part []descent) ([]*mat.Dense, error) {
				st := part[0]
				out := make([]*mat.Dense, st.node.children)
				for c := range out {
					var f mat.Dense
					f.Mul(st.node.q.Slice(c*k, (c+1)*k, 0, k), st.factor)
					out[c] = &f
				}

				return out, nil
			})
		if err != nil {
			return nil, err
		}
		factors = engine.Collect(lower) // child order matches the lower level's node order
	}

	return factors, nil
}

// eye returns the k×k identity.
func eye(k int) *mat.Dense {
	d := mat.NewDense(k, k, nil)
	for i := 0; i < k; i++ {
		d.Set(i, i, 1)
	}

	return d
}
