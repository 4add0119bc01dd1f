// SPDX-License-Identifier: MIT

package symmetry

import (
	"math"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/katalvlaran/crystalsym/lattice"
	"github.com/katalvlaran/crystalsym/matrix"
	"github.com/katalvlaran/crystalsym/ylm"
)

// sphericalSlot is one lazily built entry of the per-l cache.
type sphericalSlot struct {
	once sync.Once
	reps []*matrix.CDense
	err  error
}

// sphericalCache isolates the only mutable state read through the public
// accessors. Each slot is filled once; later reads are lock-free.
type sphericalCache struct {
	slots [ylm.LMax + 1]sphericalSlot
}

func newSphericalCache() *sphericalCache { return &sphericalCache{} }

// ProbeDirections returns the 2l+1 unit vectors used as the basis sample:
// ẑ, then for m = 1..l with φ = 2/l and θ = 2m/l the pair
// (sinθ, 0, cosθ) and (sinθ cosφ, sinθ sinφ, cosθ). For l ≤ 3 the spherical
// harmonics are linearly independent on this set.
func ProbeDirections(l int) []lattice.Vec3 {
	n := make([]lattice.Vec3, 2*l+1)
	n[0] = lattice.Vec3{0, 0, 1}
	for m := 1; m <= l; m++ {
		phi := 2 / float64(l)
		theta := 2 * float64(m) / float64(l)
		st, ct := math.Sin(theta), math.Cos(theta)
		n[2*m-1] = lattice.Vec3{st, 0, ct}
		n[2*m] = lattice.Vec3{st * math.Cos(phi), st * math.Sin(phi), ct}
	}

	return n
}

// basisMatrix builds B[l+m][j] = Y_lm(rot·n_j).
func basisMatrix(l int, probes []lattice.Vec3, rot lattice.Mat3) (*matrix.Dense, error) {
	dim := 2*l + 1
	B, err := matrix.NewDense(dim, dim)
	if err != nil {
		return nil, err
	}
	for j, n := range probes {
		row, err := ylm.Row(l, rot.MulVec(n))
		if err != nil {
			return nil, err
		}
		for k, v := range row {
			if err = B.Set(k, j, v); err != nil {
				return nil, err
			}
		}
	}

	return B, nil
}

// orthogonalityTolerance bounds max |rep·repᵀ − 1| for a rotation in the
// real Y_lm basis.
const orthogonalityTolerance = 1e-6

// checkOrthogonal fails with ErrSymmetryMismatch when rep is not orthogonal,
// i.e. the operation it came from is not a rotation of the lattice.
func checkOrthogonal(rep *matrix.Dense) error {
	repT, err := matrix.Transpose(rep)
	if err != nil {
		return err
	}
	prod, err := matrix.Mul(rep, repT)
	if err != nil {
		return err
	}
	id, err := matrix.Identity(rep.Rows())
	if err != nil {
		return err
	}
	dev, err := matrix.Sub(prod, id)
	if err != nil {
		return err
	}
	worst, err := matrix.MaxAbs(dev)
	if err != nil {
		return err
	}
	if worst > orthogonalityTolerance {
		return errors.Wrapf(ErrSymmetryMismatch, "spherical representation deviates from orthogonal by %g", worst)
	}

	return nil
}

// buildSpherical computes rep(op) = B_rot · B0⁻¹ for every operation.
func (s *Symmetries) buildSpherical(l int) ([]*matrix.CDense, error) {
	probes := ProbeDirections(l)
	B0, err := basisMatrix(l, probes, lattice.Identity3())
	if err != nil {
		return nil, err
	}
	B0inv, err := matrix.Inverse(B0)
	if err != nil {
		return nil, errors.Wrapf(err, "symmetry: spherical basis for l = %d", l)
	}

	reps := make([]*matrix.CDense, len(s.sym))
	for op, m := range s.sym {
		rot := lattice.Cartesian(s.sys.Lattice, s.invR, m)
		Brot, err := basisMatrix(l, probes, rot)
		if err != nil {
			return nil, err
		}
		rep, err := matrix.Mul(Brot, B0inv)
		if err != nil {
			return nil, err
		}
		if err = checkOrthogonal(rep); err != nil {
			return nil, errors.Wrapf(err, "operation %d %v, l = %d", op, m, l)
		}
		if reps[op], err = matrix.FromReal(rep); err != nil {
			return nil, err
		}
	}

	return reps, nil
}

// SphericalMatrices returns, for angular momentum l, one (2l+1)×(2l+1)
// matrix per operation (group order) representing the rotation in the real
// Y_lm basis (rows and columns indexed by l+m). The result is built on first
// request and shared afterwards; callers must not modify it.
//
// Errors: ErrNotSetup, ErrUnsupportedL (l < 0 or l > ylm.LMax).
// Complexity: O(|G|·l³) once per l, O(1) afterwards.
func (s *Symmetries) SphericalMatrices(l int) ([]*matrix.CDense, error) {
	if l < 0 || l > ylm.LMax {
		return nil, errors.Wrapf(ErrUnsupportedL, "l = %d > lMax = %d supported for spherical symmetrization", l, ylm.LMax)
	}
	if len(s.sym) == 0 || s.cache == nil {
		return nil, errors.Wrap(ErrNotSetup, "SphericalMatrices before Setup")
	}
	slot := &s.cache.slots[l]
	slot.once.Do(func() {
		slot.reps, slot.err = s.buildSpherical(l)
	})

	return slot.reps, slot.err
}
