// SPDX-License-Identifier: MIT

// Package crystalsym finds and applies the space-group symmetries of a
// periodic crystal: a lattice, a basis of atoms (optionally magnetic and
// constrained) and the real-space grid and k-mesh built on top of them.
//
// 🚀 What is crystalsym?
//
//	A small, dependency-light toolkit that brings together:
//		• Discovery: lattice point group, basis reduction, better-origin search
//		• Validation: manual matrices, magnetic moments, move constraints
//		• Grid: commensuration, embedding center, orbit table
//		• K-mesh: Monkhorst-Pack folding, reduction with optional inversion
//		• Symmetrizers: scalar fields, forces, spherical-basis matrices (l ≤ 3)
//
// ✨ Why crystalsym?
//
//   - Explicit errors: every structural failure has a sentinel and a hint
//   - Deterministic: same input, same group order, same orbit layout
//   - Concurrency-safe reads: one Setup, then any number of readers
//
// Packages:
//
//	lattice/     3×3 real and integer matrices, vectors, lattice reduction
//	latticesym/  Bravais-lattice point group (Finder interface, Brute default)
//	ions/        species, positions, moments, movement constraints
//	grid/        real-space grid indexing
//	coulomb/     truncation geometry and embedding center
//	kpoints/     k-point folding and symmetry reduction
//	ylm/         real spherical harmonics up to l = 3
//	matrix/      dense real/complex matrices with pivoted LU inverse
//	symmetry/    the symmetry core: Setup, SetupMesh, symmetrizers
//	config/      viper-backed run description
//	logging/     zap logger construction
//	cmd/         the crystalsym command
//
// Quick ASCII example:
//
//	    ●───●        simple cubic: one atom at the origin,
//	    │ ● │   →    48 operations, a 4×4×4 k-mesh reduces to 10 points
//	    ●───●
//
//	go install github.com/katalvlaran/crystalsym/cmd/crystalsym@latest
package crystalsym
