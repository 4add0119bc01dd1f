// SPDX-License-Identifier: MIT

package symmetry

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/katalvlaran/crystalsym/grid"
	"github.com/katalvlaran/crystalsym/kpoints"
	"github.com/katalvlaran/crystalsym/lattice"
	"go.uber.org/zap"
)

// MeshMatrices expresses every operation in grid-index space:
// symMesh[r][c] = S[r]·m[r][c] / S[c], which must divide exactly.
//
// Errors:
//   - *IncommensurateError (wraps ErrIncommensurateGrid) for the first
//     non-integral entry, with a hint to change the grid resolution.
//
// Complexity: O(|G|).
func MeshMatrices(S lattice.IVec3, group []lattice.IMat3) ([]lattice.IMat3, error) {
	out := make([]lattice.IMat3, len(group))
	for op, m := range group {
		var mm lattice.IMat3
		for r := 0; r < 3; r++ {
			for c := 0; c < 3; c++ {
				num := S[r] * m[r][c]
				if num%S[c] != 0 {
					return nil, errors.WithHint(
						&IncommensurateError{Op: op, Matrix: m, S: S, Row: r, Col: c},
						"change the grid resolution so that it is compatible with the symmetries")
				}
				mm[r][c] = num / S[c]
			}
		}
		out[op] = mm
	}

	return out, nil
}

// FindEmbedCenter returns the grid point nearest to c (by Manhattan shells
// in index space around round(c·S)) that every operation leaves fixed.
//
// Implementation:
//   - Stage 1: c itself must be invariant: |c − m·c|²_circ ≤ tol² for all m.
//   - Stage 2: for d = 0 .. (S0+S1+S2)/2+1, enumerate offsets dv with
//     |dv0|+|dv1|+|dv2| = d in fixed order (dv0, then dv1 ascending, dv2 = ±d1),
//     and return the first iv0+dv whose fractional point iv/S is invariant.
//
// The origin is fixed by every integer matrix, and its nearest periodic image
// lies within Manhattan distance S.Sum()/2 of iv0, so the search always ends
// there at the latest. ErrNoEmbedCenter is not returned for finite input.
//
// Errors:
//   - ErrEmbedNotInvariant, ErrNoEmbedCenter.
//
// Complexity: O(d_max³ · |G|) worst case.
func FindEmbedCenter(S lattice.IVec3, group []lattice.IMat3, c lattice.Vec3, tol float64) (lattice.Vec3, error) {
	tolSq := tol * tol
	for op, m := range group {
		if lattice.CircDistanceSquared(c, m.MulVec(c)) > tolSq {
			return c, errors.Wrapf(ErrEmbedNotInvariant, "center %v, operation %d %v", c, op, m)
		}
	}

	invariant := func(x lattice.Vec3) bool {
		for _, m := range group {
			if lattice.CircDistanceSquared(x, m.MulVec(x)) > tolSq {
				return false
			}
		}
		return true
	}

	var iv0 lattice.IVec3
	for k := 0; k < 3; k++ {
		iv0[k] = int(math.Round(c[k] * float64(S[k])))
	}
	dMax := S.Sum()/2 + 1
	var dv lattice.IVec3
	for d := 0; d <= dMax; d++ {
		for dv[0] = -d; dv[0] <= d; dv[0]++ {
			d0 := d - abs(dv[0])
			for dv[1] = -d0; dv[1] <= d0; dv[1]++ {
				d1 := d0 - abs(dv[1])
				step := 2 * max(1, d1)
				for dv[2] = -d1; dv[2] <= d1; dv[2] += step {
					iv := iv0.Add(dv)
					x := lattice.Vec3{
						float64(iv[0]) / float64(S[0]),
						float64(iv[1]) / float64(S[1]),
						float64(iv[2]) / float64(S[2]),
					}
					if invariant(x) {
						return x, nil
					}
				}
			}
		}
	}

	return c, errors.WithHint(errors.Wrapf(ErrNoEmbedCenter, "searched %d shells around %v", dMax+1, iv0),
		"center on the origin, or disable symmetries")
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// SetupMesh adapts the group to the grid g.
//
// Implementation:
//   - Stage 1: MeshMatrices (fatal if incommensurate).
//   - Stage 2: if embedding is enabled, FindEmbedCenter.
//   - Stage 3: k-mesh check: warn when the invariant subgroup of qnums is
//     smaller than the group.
//   - Stage 4: BuildOrbitTable and the OrbitBuffer for the configured kernel.
//   - Stage 5: update the caller's coulomb.Params.EmbedCenter in place. Nothing
//     is changed when an earlier stage fails.
//
// Errors: ErrNotSetup, *IncommensurateError, ErrEmbedNotInvariant,
// ErrNoEmbedCenter.
func (s *Symmetries) SetupMesh(g *grid.Info, qnums []kpoints.QuantumNumber) error {
	if len(s.sym) == 0 {
		return errors.Wrap(ErrNotSetup, "SetupMesh before Setup")
	}
	if g == nil {
		return errors.Wrap(ErrNotSetup, "SetupMesh without a grid")
	}
	symMesh, err := MeshMatrices(g.S, s.sym)
	if err != nil {
		s.log.Error("grid not commensurate with symmetry matrix", zap.Error(err))
		return err
	}

	cp := s.sys.Coulomb
	embed := cp != nil && cp.Embed
	var center lattice.Vec3
	if embed {
		if center, err = FindEmbedCenter(g.S, s.sym, cp.EmbedCenter, s.opts.Tolerance); err != nil {
			return err
		}
	}

	s.checkKmesh(qnums)

	table, err := BuildOrbitTable(g, symMesh)
	if err != nil {
		return err
	}
	s.grid, s.symMesh, s.orbits = g, symMesh, table
	s.buffer = newOrbitBuffer(table, s.opts.Kernel, s.opts.Workers)

	if embed && center != cp.EmbedCenter {
		s.log.Info("moved coulomb embedding center to a symmetric grid point",
			zap.Stringer("from", cp.EmbedCenter), zap.Stringer("to", center))
		cp.EmbedCenter = center
	}

	return nil
}

// checkKmesh logs a warning when the k-mesh is less symmetric than the basis.
func (s *Symmetries) checkKmesh(qnums []kpoints.QuantumNumber) {
	if len(qnums) == 0 {
		return
	}
	sub := kpoints.InvariantSubgroup(qnums, s.sym, s.opts.Tolerance)
	if len(sub) >= len(s.sym) {
		return
	}
	s.log.Warn("k-mesh symmetries are a subgroup; the effectively sampled k-mesh is a superset of the specified one and results need not match those with symmetries off",
		zap.Int("subgroup", len(sub)), zap.Int("group", len(s.sym)))
	if s.opts.PrintMatrices {
		s.logMatrices("k-mesh symmetry matrix", sub)
	}
}

// ReduceKmesh reduces qnums with the current group and logs when inversion
// had to be added. The input is not modified.
// Errors: ErrNotSetup.
func (s *Symmetries) ReduceKmesh(qnums []kpoints.QuantumNumber) (kpoints.Reduction, error) {
	if len(s.sym) == 0 {
		return kpoints.Reduction{}, errors.Wrap(ErrNotSetup, "ReduceKmesh before Setup")
	}
	red, err := kpoints.Reduce(qnums, s.sym, s.opts.Tolerance)
	if err != nil {
		return kpoints.Reduction{}, err
	}
	if red.UsedInversion {
		s.log.Info("adding inversion symmetry to k-mesh for non-inversion-symmetric unit cell")
	}
	s.log.Info("reduced k-point mesh", zap.Int("from", len(qnums)), zap.Int("to", len(red.Points)))

	return red, nil
}
