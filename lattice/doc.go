// SPDX-License-Identifier: MIT

// Package lattice provides the fixed-size linear algebra used by the symmetry
// core: 3-vectors and 3×3 matrices in both float64 and int flavors, the
// periodic (toroidal) distance between fractional coordinates, and a simple
// lattice-basis reduction.
//
// Conventions:
//   - A lattice matrix R stores the lattice vectors as COLUMNS, so that
//     Cartesian = R · fractional.
//   - Symmetry operations are IMat3 values acting on fractional coordinates;
//     their Cartesian realization is R · m · R⁻¹.
//   - Fractional coordinates are periodic with period 1 along every axis;
//     CircDistanceSquared measures distance to the nearest periodic image.
//
// Everything here is a value type (arrays), so copies are cheap and values
// are safe to share between goroutines.
package lattice
