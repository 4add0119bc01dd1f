// SPDX-License-Identifier: MIT

// Package matrix provides the small dense linear-algebra kernels used by the
// symmetry core:
//
//   - Dense: row-major float64 matrix with safe At/Set accessors.
//   - CDense: row-major complex128 matrix used for rotation representations
//     in a spherical-harmonic basis and for block-indexed per-atom matrices.
//   - LU with partial pivoting, Inverse built on it, Mul/Add/Transpose/Scale.
//   - CMul, Dagger, SetBlock and AllClose on complex matrices.
//
// All kernels validate through validators.go, never panic on user input, and
// wrap sentinel errors (errors.go) with an operation tag. Loop orders are
// fixed, so results are bit-for-bit reproducible for identical inputs.
package matrix
