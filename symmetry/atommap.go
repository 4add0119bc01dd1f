// SPDX-License-Identifier: MIT

package symmetry

import (
	"github.com/cockroachdb/errors"
	"github.com/katalvlaran/crystalsym/ions"
	"github.com/katalvlaran/crystalsym/lattice"
)

// AtomMap holds, for [species][atom][operation], the index of the image atom
// within the same species.
type AtomMap [][][]int

// Image returns the image of atom a of species sp under operation op.
func (am AtomMap) Image(sp, a, op int) int { return am[sp][a][op] }

// NumAtoms returns the atom count of species sp.
func (am AtomMap) NumAtoms(sp int) int { return len(am[sp]) }

// BuildAtomMap computes the atom permutation induced by every operation and
// checks constraint consistency.
//
// Implementation:
//   - For every (species, atom a1, op): mapped = m·pos[a1]; the first atom a2
//     of the same species with circular distance² < tol² and equal moment is
//     the image.
//   - constraint[a1], carried by R·m·R⁻¹, must be equivalent to constraint[a2].
//
// Errors:
//   - ErrNoAtomImage: the group does not permute the atoms.
//   - ErrInconsistentConstraint: related atoms move differently.
//
// Complexity: O(|G| · atoms²).
func BuildAtomMap(st *ions.Structure, group []lattice.IMat3, R, invR lattice.Mat3, tol float64) (AtomMap, error) {
	tolSq := tol * tol
	cart := make([]lattice.Mat3, len(group))
	for i, m := range group {
		cart[i] = lattice.Cartesian(R, invR, m)
	}

	am := make(AtomMap, len(st.Species))
	for spIdx, sp := range st.Species {
		am[spIdx] = make([][]int, sp.Len())
		for a1, p1 := range sp.Positions {
			row := make([]int, len(group))
			for op, m := range group {
				mapped := m.MulVec(p1)
				a2 := -1
				for cand, p2 := range sp.Positions {
					if lattice.CircDistanceSquared(mapped, p2) < tolSq && sp.MomentsMatch(a1, cand) {
						a2 = cand
						break
					}
				}
				if a2 < 0 {
					return nil, errors.Wrapf(ErrNoAtomImage,
						"species %s atom %d under operation %d %v maps to %v",
						sp.Name, a1, op, m, mapped)
				}
				if !sp.Constraint(a1).IsEquivalent(sp.Constraint(a2), cart[op]) {
					return nil, errors.WithHint(errors.Wrapf(ErrInconsistentConstraint,
						"species %s atoms %d and %d are related by operation %d %v",
						sp.Name, a1, a2, op, m),
						"give symmetry-related atoms the same move scale and symmetry-compatible constraint directions")
				}
				row[op] = a2
			}
			am[spIdx][a1] = row
		}
	}

	return am, nil
}
