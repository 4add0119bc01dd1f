// SPDX-License-Identifier: MIT

// Package symmetry discovers and enforces the crystallographic symmetry group
// of a periodic atomic structure, and uses it to reduce k-point meshes, check
// grid commensuration, build orbit tables, and symmetrize scalar fields,
// per-atom forces and spherical-harmonic-basis matrices.
//
// Lifecycle:
//
//	s, err := symmetry.New(symmetry.WithMode(symmetry.ModeAutomatic), symmetry.WithLogger(log))
//	err = s.Setup(symmetry.System{Lattice: R, Ions: st, Coulomb: cp})   // group + atom map
//	err = s.SetupMesh(g, qnums)                                          // mesh matrices + orbits
//	red, err := s.ReduceKmesh(qnums)                                     // irreducible k-points
//	err = s.SymmetrizeField(rho)                                         // repeatedly, concurrently
//
// Discovery (Setup):
//
//	– ModeNone:      the group is {identity}.
//	– ModeAutomatic: lattice candidates from a latticesym.Finder, filtered by
//	                 BasisReduce (positions and magnetic moments), identity
//	                 moved to index 0, optional search for a better origin.
//	– ModeManual:    caller-supplied matrices, validated by the same check as
//	                 BasisReduce; a failing matrix is an error, never dropped.
//
// Conventions:
//
//	– Operations are integer 3×3 matrices on fractional coordinates; the
//	  Cartesian realization is R·m·R⁻¹ with lattice vectors as columns of R.
//	– k-points transform with mᵀ; forces (gradients with respect to
//	  fractional coordinates) transform with mᵀ as well.
//	– Positions match when the periodic squared distance is below tol².
//
// Errors:
//
//	Every structural violation is returned as an error whose Kind (KindOf)
//	classifies it: ErrManualEmpty, ErrSymmetryMismatch, ErrIncommensurateGrid
//	(*IncommensurateError), ErrEmbedNotInvariant, ErrNoEmbedCenter,
//	ErrNoAtomImage, ErrInconsistentConstraint, ErrBetterCenter
//	(*BetterCenterError), ErrUnsupportedL. Advisory conditions (reduced
//	lattice, k-mesh subgroup smaller than the group) are logged at warning
//	level and never returned.
//
// Concurrency:
//
//	Setup and SetupMesh assume exclusive access. Afterwards the group, atom
//	map, mesh matrices and orbit table are immutable and every read method is
//	safe for concurrent use. SphericalMatrices fills a per-l cache exactly once.
//
// Complexity:
//
//	– BasisReduce:      O(|candidates| · atoms²)
//	– center search:    O(atoms² · |candidates| · atoms²)
//	– BuildOrbitTable:  O(Nr · |G|)
//	– SymmetrizeField:  O(Nr · |G|) per call, single pass over the table
package symmetry
