// SPDX-License-Identifier: MIT

package symmetry

import (
	"github.com/cockroachdb/errors"
	"github.com/katalvlaran/crystalsym/coulomb"
	"github.com/katalvlaran/crystalsym/grid"
	"github.com/katalvlaran/crystalsym/ions"
	"github.com/katalvlaran/crystalsym/lattice"
	"go.uber.org/zap"
)

// System bundles the collaborators read during Setup.
type System struct {
	// Lattice holds the lattice vectors as columns.
	Lattice lattice.Mat3
	// Ions is the ionic structure. It is read, never modified.
	Ions *ions.Structure
	// Coulomb is optional; its EmbedCenter is corrected in place by SetupMesh.
	Coulomb *coulomb.Params
}

// Symmetries owns the group and every structure derived from it.
type Symmetries struct {
	opts Options
	log  *zap.Logger

	sys     System
	invR    lattice.Mat3
	sym     []lattice.IMat3
	atomMap AtomMap

	// mesh state, set by SetupMesh
	grid    *grid.Info
	symMesh []lattice.IMat3
	orbits  *OrbitTable
	buffer  OrbitBuffer

	cache *sphericalCache
}

// New validates the options and returns an empty Symmetries value.
// Errors: ErrBadOption.
func New(opts ...Option) (*Symmetries, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.validate(); err != nil {
		return nil, err
	}

	return &Symmetries{opts: o, log: o.Logger}, nil
}

// Setup computes the group for sys and the atom map.
//
// Implementation:
//   - Stage 1: validate the structure and invert the lattice.
//   - Stage 2: discover the group according to Mode.
//   - Stage 3: build the atom map (positions, moments, constraints).
//
// Errors: ErrManualEmpty, ErrSymmetryMismatch, *BetterCenterError,
// ErrNoAtomImage, ErrInconsistentConstraint, lattice/structure validation.
func (s *Symmetries) Setup(sys System) error {
	if sys.Ions == nil {
		return errors.Wrap(ErrNotSetup, "system has no ionic structure")
	}
	if err := sys.Ions.Validate(); err != nil {
		return err
	}
	invR, err := sys.Lattice.Inverse()
	if err != nil {
		return errors.Wrap(err, "symmetry: lattice")
	}
	*s = Symmetries{opts: s.opts, log: s.log, sys: sys, invR: invR, cache: newSphericalCache()}

	if s.opts.Mode != ModeNone {
		s.log.Info("setting up symmetries", zap.Stringer("mode", s.opts.Mode))
	}
	sym, err := s.discover()
	if err != nil {
		return err
	}
	s.sym = sym

	am, err := BuildAtomMap(sys.Ions, s.sym, sys.Lattice, invR, s.opts.Tolerance)
	if err != nil {
		return err
	}
	s.atomMap = am
	if s.opts.PrintMatrices {
		s.logAtomMap()
	}

	return nil
}

// Order returns the group order (0 before Setup).
func (s *Symmetries) Order() int { return len(s.sym) }

// Matrices returns a copy of the group; element 0 is the identity.
func (s *Symmetries) Matrices() []lattice.IMat3 {
	return append([]lattice.IMat3(nil), s.sym...)
}

// MeshMatrices returns a copy of the grid-space matrices (nil before SetupMesh).
func (s *Symmetries) MeshMatrices() []lattice.IMat3 {
	return append([]lattice.IMat3(nil), s.symMesh...)
}

// AtomMap returns the atom permutation table (read-only).
func (s *Symmetries) AtomMap() AtomMap { return s.atomMap }

// Orbits returns the orbit table (nil before SetupMesh).
func (s *Symmetries) Orbits() *OrbitTable { return s.orbits }

// Options returns the effective options.
func (s *Symmetries) Options() Options { return s.opts }

func (s *Symmetries) logAtomMap() {
	s.log.Info("mapping of atoms according to symmetries")
	for sp, species := range s.sys.Ions.Species {
		for a := range species.Positions {
			s.log.Info("atom map",
				zap.String("species", species.Name),
				zap.Int("atom", a),
				zap.Ints("images", s.atomMap[sp][a]))
		}
	}
}

func (s *Symmetries) logMatrices(msg string, ms []lattice.IMat3) {
	for i, m := range ms {
		s.log.Info(msg, zap.Int("index", i), zap.String("matrix", m.Pretty(" %2d ")))
	}
}
