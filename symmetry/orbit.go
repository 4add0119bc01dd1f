// SPDX-License-Identifier: MIT

package symmetry

import (
	"github.com/cockroachdb/errors"
	"github.com/katalvlaran/crystalsym/grid"
	"github.com/katalvlaran/crystalsym/lattice"
	"golang.org/x/sync/errgroup"
)

// OrbitTable is the flattened orbit index: for each orbit seed, in visiting
// order, Order consecutive entries hold the flat grid index of the seed's
// image under each operation. Points with a non-trivial stabilizer appear
// several times in their own row, so a plain row mean is the orbit mean.
type OrbitTable struct {
	Index []int
	Order int
}

// Count returns the number of orbits.
func (t *OrbitTable) Count() int { return len(t.Index) / t.Order }

// Orbit returns the row of orbit i (a view, do not modify).
func (t *OrbitTable) Orbit(i int) []int { return t.Index[i*t.Order : (i+1)*t.Order] }

// BuildOrbitTable partitions the grid into orbits of the mesh-space group.
//
// Implementation:
//   - Visit r0 outer, r2 inner. An unvisited point seeds an orbit: for every
//     operation in group order append FullGIndex(m·r) and mark it visited.
//
// Behavior highlights:
//   - Every grid point is visited by exactly one orbit.
//   - len(Index) = Count()·Order.
//
// Errors: ErrFieldLength when symMesh is empty.
// Complexity: O(Nr·|G|) time, O(Nr) extra space.
func BuildOrbitTable(g *grid.Info, symMesh []lattice.IMat3) (*OrbitTable, error) {
	if len(symMesh) == 0 {
		return nil, errors.Wrap(ErrFieldLength, "empty mesh group")
	}
	done := make([]bool, g.Nr)
	index := make([]int, 0, g.Nr)
	var r lattice.IVec3
	for r[0] = 0; r[0] < g.S[0]; r[0]++ {
		for r[1] = 0; r[1] < g.S[1]; r[1]++ {
			for r[2] = 0; r[2] < g.S[2]; r[2]++ {
				if done[g.FullRIndex(r)] {
					continue
				}
				for _, m := range symMesh {
					idx := g.FullGIndex(m.MulIVec(r))
					index = append(index, idx)
					done[idx] = true
				}
			}
		}
	}

	return &OrbitTable{Index: index, Order: len(symMesh)}, nil
}

// OrbitBuffer is the storage+kernel pair that averages a field over orbits.
// One implementation is chosen when the mesh is set up and used for the
// lifetime of the Symmetries value.
type OrbitBuffer interface {
	// Kernel names the implementation.
	Kernel() Kernel
	// Len returns the table length (orbits × order).
	Len() int
	// Symmetrize replaces every x[i] by the mean over its orbit.
	Symmetrize(x []float64) error
}

func newOrbitBuffer(t *OrbitTable, k Kernel, workers int) OrbitBuffer {
	if k == KernelParallel && workers > 1 {
		return &parallelBuffer{table: t, workers: workers}
	}
	return &serialBuffer{table: t}
}

// symmetrizeRange averages orbits [lo, hi).
func symmetrizeRange(index []int, order, lo, hi int, x []float64) {
	inv := 1 / float64(order)
	for o := lo; o < hi; o++ {
		row := index[o*order : (o+1)*order]
		sum := 0.0
		for _, i := range row {
			sum += x[i]
		}
		mean := sum * inv
		for _, i := range row {
			x[i] = mean
		}
	}
}

type serialBuffer struct{ table *OrbitTable }

func (b *serialBuffer) Kernel() Kernel { return KernelSerial }
func (b *serialBuffer) Len() int       { return len(b.table.Index) }

func (b *serialBuffer) Symmetrize(x []float64) error {
	symmetrizeRange(b.table.Index, b.table.Order, 0, b.table.Count(), x)
	return nil
}

// parallelBuffer shards contiguous orbit ranges across goroutines. Orbits
// are disjoint point sets, so shards never touch the same element.
type parallelBuffer struct {
	table   *OrbitTable
	workers int
}

func (b *parallelBuffer) Kernel() Kernel { return KernelParallel }
func (b *parallelBuffer) Len() int       { return len(b.table.Index) }

func (b *parallelBuffer) Symmetrize(x []float64) error {
	n := b.table.Count()
	chunk := (n + b.workers - 1) / b.workers
	var eg errgroup.Group
	for lo := 0; lo < n; lo += chunk {
		lo, hi := lo, min(lo+chunk, n)
		eg.Go(func() error {
			symmetrizeRange(b.table.Index, b.table.Order, lo, hi, x)
			return nil
		})
	}

	return eg.Wait()
}

// SymmetrizeField replaces each grid value by the mean over its orbit.
// No-op for a group of order 1.
// Errors: ErrNotSetup (no mesh), ErrFieldLength (len(x) != Nr).
// Complexity: O(Nr·|G|).
func (s *Symmetries) SymmetrizeField(x []float64) error {
	if s.buffer == nil {
		return errors.Wrap(ErrNotSetup, "SymmetrizeField before SetupMesh")
	}
	if len(x) != s.grid.Nr {
		return errors.Wrapf(ErrFieldLength, "field has %d points, grid has %d", len(x), s.grid.Nr)
	}
	if len(s.sym) == 1 {
		return nil
	}

	return s.buffer.Symmetrize(x)
}

// Buffer returns the orbit buffer chosen at SetupMesh (nil before).
func (s *Symmetries) Buffer() OrbitBuffer { return s.buffer }
