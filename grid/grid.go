// SPDX-License-Identifier: MIT

// Package grid describes the discretized real-space mesh that scalar fields
// live on: grid dimensions S, the lattice R, the number of points, and the
// row-major flat index of a grid coordinate with periodic wraparound.
//
// Layout: coordinate r = (r0, r1, r2) with r2 fastest, i.e.
// index = r2 + S2·(r1 + S1·r0). Info is immutable once built.
package grid

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/katalvlaran/crystalsym/lattice"
)

// Sentinel errors for grid construction.
var (
	// ErrBadDimensions indicates a non-positive grid dimension.
	ErrBadDimensions = errors.New("grid: dimensions must be positive")
	// ErrBadLattice indicates a singular lattice matrix.
	ErrBadLattice = errors.New("grid: lattice vectors are linearly dependent")
)

// Info is the grid geometry collaborator of the symmetry core.
type Info struct {
	S    lattice.IVec3 // points along each lattice direction
	R    lattice.Mat3  // lattice vectors as columns
	InvR lattice.Mat3  // R⁻¹, cached
	Nr   int           // S0·S1·S2
}

// New validates the inputs and builds an Info.
// Returns ErrBadDimensions if any S[k] ≤ 0, ErrBadLattice if R is singular.
// Complexity: O(1).
func New(R lattice.Mat3, S lattice.IVec3) (*Info, error) {
	for k := 0; k < 3; k++ {
		if S[k] <= 0 {
			return nil, errors.Wrapf(ErrBadDimensions, "S = %v", S)
		}
	}
	invR, err := R.Inverse()
	if err != nil {
		return nil, errors.Wrapf(ErrBadLattice, "%v", err)
	}

	return &Info{S: S, R: R, InvR: invR, Nr: S.Prod()}, nil
}

// FullRIndex maps an in-range coordinate to its row-major index.
// The caller guarantees 0 ≤ r[k] < S[k]; no wrapping is done.
// Complexity: O(1).
func (g *Info) FullRIndex(r lattice.IVec3) int {
	return r[2] + g.S[2]*(r[1]+g.S[1]*r[0])
}

// FullGIndex maps ANY integer coordinate (negative or beyond S) to the flat
// index of its periodic image.
// Complexity: O(1).
func (g *Info) FullGIndex(r lattice.IVec3) int {
	return g.FullRIndex(g.Wrap(r))
}

// Wrap returns the periodic image of r inside [0, S) on every axis.
func (g *Info) Wrap(r lattice.IVec3) lattice.IVec3 {
	for k := 0; k < 3; k++ {
		r[k] %= g.S[k]
		if r[k] < 0 {
			r[k] += g.S[k]
		}
	}

	return r
}

// Coordinate is the inverse of FullRIndex.
func (g *Info) Coordinate(idx int) lattice.IVec3 {
	r2 := idx % g.S[2]
	idx /= g.S[2]
	r1 := idx % g.S[1]

	return lattice.IVec3{idx / g.S[1], r1, r2}
}

// Volume returns the unit-cell volume |det R|.
func (g *Info) Volume() float64 { return math.Abs(g.R.Det()) }

// DV returns the volume per grid point.
func (g *Info) DV() float64 { return g.Volume() / float64(g.Nr) }
