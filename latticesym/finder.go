// SPDX-License-Identifier: MIT

// Package latticesym enumerates the point group of a Bravais lattice.
//
// The symmetry core treats this as an external collaborator behind the Finder
// interface. Brute is a small, dependency-free default: it reduces the lattice,
// enumerates every integer matrix with entries in {-1, 0, 1} and keeps those
// that preserve the metric tensor (and respect truncated directions). For a
// reduced basis this set contains the full holohedry.
package latticesym

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/katalvlaran/crystalsym/lattice"
)

// DefaultTolerance is the relative metric tolerance used when Brute.Tolerance is 0.
const DefaultTolerance = 1e-4

// ErrDegenerateLattice is returned for lattices with (near) zero volume.
var ErrDegenerateLattice = errors.New("latticesym: lattice vectors are linearly dependent")

// Result is what a Finder reports for a lattice.
type Result struct {
	// Candidates are point-group operations in the ORIGINAL lattice basis.
	Candidates []lattice.IMat3
	// Reduced is the reduced lattice (columns), Reduced = R·Transmission.
	Reduced lattice.Mat3
	// Transmission is the unimodular change of basis to the reduced lattice.
	Transmission lattice.IMat3
}

// Finder returns candidate point-group matrices of the lattice R. truncated
// marks directions along which the Coulomb interaction is truncated; such a
// direction may only be mapped onto itself (up to sign).
// Implementations must be pure functions of their inputs.
type Finder interface {
	Symmetries(R lattice.Mat3, truncated [3]bool) (Result, error)
}

// Brute is the exhaustive {-1,0,1}⁹ finder.
type Brute struct {
	// Tolerance is the relative Frobenius tolerance on |mᵀGm − G| / |G|.
	Tolerance float64
}

// Symmetries implements Finder.
//
// Implementation:
//   - Stage 1: reduce R among periodic directions → (Rred, T).
//   - Stage 2: enumerate 3⁹ candidates in fixed lexicographic order, keep
//     unimodular, truncation-respecting, metric-preserving ones.
//   - Stage 3: map each kept m back to the original basis: T·m·T⁻¹.
//
// Complexity: O(3⁹) with a fixed 3×3 body.
func (b Brute) Symmetries(R lattice.Mat3, truncated [3]bool) (Result, error) {
	tol := b.Tolerance
	if tol <= 0 {
		tol = DefaultTolerance
	}
	vol := math.Abs(R.Det())
	if vol < tol*math.Pow(R.Norm(), 3) {
		return Result{}, errors.Wrapf(ErrDegenerateLattice, "volume %g", vol)
	}

	Rred, T := lattice.Reduce(R, truncated)
	invT, err := T.InverseUnimodular()
	if err != nil {
		return Result{}, errors.Wrap(err, "latticesym: transmission matrix")
	}
	G := lattice.Metric(Rred)

	var out []lattice.IMat3
	var m lattice.IMat3
	for code := 0; code < 19683; code++ { // 3^9
		c := code
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				m[i][j] = c%3 - 1
				c /= 3
			}
		}
		if d := m.Det(); d != 1 && d != -1 {
			continue
		}
		if !respectsTruncation(m, truncated) {
			continue
		}
		if !PreservesMetric(G, m, tol) {
			continue
		}
		out = append(out, T.Mul(m).Mul(invT))
	}

	return Result{Candidates: out, Reduced: Rred, Transmission: T}, nil
}

// PreservesMetric reports whether m maps a lattice with metric tensor G onto
// itself: |mᵀ·G·m − G| ≤ tol·|G| in the Frobenius norm.
func PreservesMetric(G lattice.Mat3, m lattice.IMat3, tol float64) bool {
	mf := m.ToFloat()
	return mf.Transpose().Mul(G).Mul(mf).Sub(G).Norm() <= tol*G.Norm()
}

// respectsTruncation reports whether every truncated axis k is mapped onto ±k
// and no other axis is mapped into k.
func respectsTruncation(m lattice.IMat3, truncated [3]bool) bool {
	for k := 0; k < 3; k++ {
		if !truncated[k] {
			continue
		}
		for j := 0; j < 3; j++ {
			if j == k {
				continue
			}
			if m[k][j] != 0 || m[j][k] != 0 {
				return false
			}
		}
	}

	return true
}
