// SPDX-License-Identifier: MIT

package lattice

import "math"

// maxReducePasses caps the reduction sweeps; real lattices converge in a few.
const maxReducePasses = 64

// reduceSlack keeps the sweep from cycling on exact ties (|t| == 0.5).
const reduceSlack = 1e-12

// Reduce shortens the lattice vectors (columns of R) by repeated pairwise
// Gauss reduction a_i ← a_i − round(a_i·a_j / a_j·a_j)·a_j, restricted to the
// periodic directions (truncated directions are left untouched and never
// mixed into others).
//
// It returns the reduced lattice and the unimodular transmission matrix T
// with Rreduced = R·T.
//
// Determinism: fixed (i, j) sweep order; a step is taken only when it strictly
// shortens a_i, so the sweep terminates.
// Complexity: O(passes) with a fixed 3×3 body.
func Reduce(R Mat3, truncated [3]bool) (Mat3, IMat3) {
	a := [3]Vec3{R.Column(0), R.Column(1), R.Column(2)}
	T := IIdentity3()

	for pass := 0; pass < maxReducePasses; pass++ {
		changed := false
		for i := 0; i < 3; i++ {
			if truncated[i] {
				continue
			}
			for j := 0; j < 3; j++ {
				if i == j || truncated[j] {
					continue
				}
				njj := a[j].LengthSquared()
				if njj == 0 {
					continue
				}
				t := a[i].Dot(a[j]) / njj
				k := math.Round(t)
				if k == 0 || math.Abs(k-t) >= math.Abs(t)-reduceSlack {
					continue // no strict shortening
				}
				a[i] = a[i].Sub(a[j].Scale(k))
				ik := int(k)
				for r := 0; r < 3; r++ {
					T[r][i] -= ik * T[r][j]
				}
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	return FromColumns(a[0], a[1], a[2]), T
}

// Metric returns the metric tensor G = Rᵀ·R.
func Metric(R Mat3) Mat3 { return R.Transpose().Mul(R) }
