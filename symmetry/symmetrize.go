// SPDX-License-Identifier: MIT

package symmetry

import (
	"github.com/cockroachdb/errors"
	"github.com/katalvlaran/crystalsym/lattice"
	"github.com/katalvlaran/crystalsym/matrix"
)

// SymmetrizeForces averages per-atom forces over the group in place:
// f[sp][a] ← (1/|G|) Σ_op mᵀ · f[sp][map(a, op)].
//
// Forces are gradients with respect to fractional coordinates; use
// CovariantForce to convert Cartesian forces first.
//
// Errors: ErrNotSetup, ErrFieldLength (shape differs from the structure).
// Complexity: O(atoms·|G|).
func (s *Symmetries) SymmetrizeForces(f [][]lattice.Vec3) error {
	if len(s.sym) == 0 {
		return errors.Wrap(ErrNotSetup, "SymmetrizeForces before Setup")
	}
	if len(f) != len(s.atomMap) {
		return errors.Wrapf(ErrFieldLength, "%d species of forces, %d in structure", len(f), len(s.atomMap))
	}
	for sp := range f {
		if len(f[sp]) != len(s.atomMap[sp]) {
			return errors.Wrapf(ErrFieldLength, "species %d: %d forces for %d atoms", sp, len(f[sp]), len(s.atomMap[sp]))
		}
	}
	if len(s.sym) == 1 {
		return nil
	}

	rotT := make([]lattice.Mat3, len(s.sym))
	for op, m := range s.sym {
		rotT[op] = m.Transpose().ToFloat()
	}
	inv := 1 / float64(len(s.sym))
	for sp := range f {
		tmp := make([]lattice.Vec3, len(f[sp]))
		for a := range f[sp] {
			for op := range s.sym {
				tmp[a] = tmp[a].Add(rotT[op].MulVec(f[sp][s.atomMap[sp][a][op]]))
			}
		}
		for a := range f[sp] {
			f[sp][a] = tmp[a].Scale(inv)
		}
	}

	return nil
}

// CovariantForce converts a Cartesian force to fractional-coordinate
// gradient components: Rᵀ·F.
func CovariantForce(R lattice.Mat3, cart lattice.Vec3) lattice.Vec3 {
	return R.Transpose().MulVec(cart)
}

// CartesianForce is the inverse of CovariantForce: R⁻ᵀ·f.
func CartesianForce(invR lattice.Mat3, cov lattice.Vec3) lattice.Vec3 {
	return invR.Transpose().MulVec(cov)
}

// SymmetrizeSpherical averages a per-atom spherical-basis matrix of species
// sp over the group: X ← (1/|G|) Σ_op M·X·M†, where M has block
// (map(a, op), a) = rep_l(op) and rows/columns are indexed atom·(2l+1)+(l+m).
// l is inferred from X's size; the input is not modified.
//
// Implementation:
//   - Stage 1: infer l from X.Rows() = nAtoms·(2l+1); l = 0 or order 1 → copy.
//   - Stage 2: per operation assemble M, accumulate M·X·M†.
//   - Stage 3: scale by 1/|G|.
//
// Errors: ErrNotSetup, ErrFieldLength (bad shape), ErrUnsupportedL.
// Complexity: O(|G|·n³) with n = nAtoms·(2l+1).
func (s *Symmetries) SymmetrizeSpherical(X *matrix.CDense, sp int) (*matrix.CDense, error) {
	if len(s.sym) == 0 {
		return nil, errors.Wrap(ErrNotSetup, "SymmetrizeSpherical before Setup")
	}
	if sp < 0 || sp >= len(s.atomMap) {
		return nil, errors.Wrapf(ErrFieldLength, "species %d out of range", sp)
	}
	if err := matrix.ValidateSquareNonNil(X); err != nil {
		return nil, errors.Wrap(ErrFieldLength, err.Error())
	}
	nAtoms := len(s.atomMap[sp])
	nTot := X.Rows()
	if nTot%nAtoms != 0 || (nTot/nAtoms)%2 == 0 {
		return nil, errors.Wrapf(ErrFieldLength, "matrix size %d is not %d atoms × (2l+1)", nTot, nAtoms)
	}
	nm := nTot / nAtoms
	l := (nm - 1) / 2
	if l == 0 || len(s.sym) == 1 {
		return X.Clone(), nil
	}
	reps, err := s.SphericalMatrices(l)
	if err != nil {
		return nil, err
	}

	result, err := matrix.NewCDense(nTot, nTot)
	if err != nil {
		return nil, err
	}
	M, err := matrix.NewCDense(nTot, nTot)
	if err != nil {
		return nil, err
	}
	for op, rep := range reps {
		M.Zero()
		for a := 0; a < nAtoms; a++ {
			if err = M.SetBlock(s.atomMap[sp][a][op]*nm, a*nm, rep); err != nil {
				return nil, err
			}
		}
		MX, err := matrix.CMul(M, X)
		if err != nil {
			return nil, err
		}
		Md, err := matrix.Dagger(M)
		if err != nil {
			return nil, err
		}
		term, err := matrix.CMul(MX, Md)
		if err != nil {
			return nil, err
		}
		if err = result.AddInPlace(term); err != nil {
			return nil, err
		}
	}
	result.ScaleInPlace(complex(1/float64(len(reps)), 0))

	return result, nil
}
