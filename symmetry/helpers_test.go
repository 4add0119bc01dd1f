// SPDX-License-Identifier: MIT
// Package symmetry_test: shared fixtures.
//
// Purpose:
//   • Small, deterministic structures with known point groups.
//   • Must* helpers that fail the test early instead of threading errors.

package symmetry_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/crystalsym/coulomb"
	"github.com/katalvlaran/crystalsym/grid"
	"github.com/katalvlaran/crystalsym/ions"
	"github.com/katalvlaran/crystalsym/lattice"
	"github.com/katalvlaran/crystalsym/symmetry"
	"github.com/stretchr/testify/require"
)

const tol = symmetry.DefaultThreshold

var (
	// c4z is a 90° rotation about the third lattice vector.
	c4z = lattice.IMat3{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}}
	c2z = c4z.Mul(c4z)
	// c4zGroup is {1, C4, C2, C4³} in deliberately scrambled order.
	c4zGroup = []lattice.IMat3{c4z, c2z, lattice.IIdentity3(), c2z.Mul(c4z)}
)

func cubic() lattice.Mat3 { return lattice.Identity3() }

func hexagonal() lattice.Mat3 {
	return lattice.FromColumns(
		lattice.Vec3{1, 0, 0},
		lattice.Vec3{-0.5, math.Sqrt(3) / 2, 0},
		lattice.Vec3{0, 0, 1.6},
	)
}

// single builds a one-species structure.
func single(name string, pos ...lattice.Vec3) *ions.Structure {
	return &ions.Structure{Species: []*ions.Species{{Name: name, Positions: pos}}}
}

// MustSetup builds and sets up a Symmetries value or fails the test.
func MustSetup(t *testing.T, R lattice.Mat3, st *ions.Structure, cp *coulomb.Params, opts ...symmetry.Option) *symmetry.Symmetries {
	t.Helper()
	s, err := symmetry.New(opts...)
	require.NoError(t, err)
	require.NoError(t, s.Setup(symmetry.System{Lattice: R, Ions: st, Coulomb: cp}))
	return s
}

// MustGrid builds a grid or fails the test.
func MustGrid(t *testing.T, R lattice.Mat3, S lattice.IVec3) *grid.Info {
	t.Helper()
	g, err := grid.New(R, S)
	require.NoError(t, err)
	return g
}

// indexOf returns the position of m in group, or -1.
func indexOf(group []lattice.IMat3, m lattice.IMat3) int {
	for i, g := range group {
		if g == m {
			return i
		}
	}
	return -1
}
