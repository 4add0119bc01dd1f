// SPDX-License-Identifier: MIT

// Package ions holds the ionic structure read by the symmetry core: per
// species, ordered fractional positions, optional magnetic moments, and
// per-atom movement constraints.
package ions

import (
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/katalvlaran/crystalsym/lattice"
)

// Sentinel errors for structure validation.
var (
	// ErrEmptySpecies indicates a species with no atoms.
	ErrEmptySpecies = errors.New("ions: species has no atoms")
	// ErrLengthMismatch indicates per-atom slices of different lengths.
	ErrLengthMismatch = errors.New("ions: per-atom arrays have different lengths")
)

// Species is one chemical species and its atoms.
type Species struct {
	Name string
	// Positions are fractional coordinates, one per atom.
	Positions []lattice.Vec3
	// Moments are initial magnetic moments, one per atom, or nil when the
	// calculation is unpolarized.
	Moments []float64
	// Constraints are per-atom movement constraints; nil means "free" for all.
	Constraints []Constraint
}

// Len returns the number of atoms.
func (sp *Species) Len() int { return len(sp.Positions) }

// HasMoments reports whether magnetic moments are specified.
func (sp *Species) HasMoments() bool { return len(sp.Moments) > 0 }

// Constraint returns the constraint of atom a (a free constraint when none are set).
func (sp *Species) Constraint(a int) Constraint {
	if len(sp.Constraints) == 0 {
		return Free()
	}
	return sp.Constraints[a]
}

// MomentsMatch reports whether atoms a1 and a2 carry the same magnetic moment
// (always true when moments are not specified).
func (sp *Species) MomentsMatch(a1, a2 int) bool {
	return !sp.HasMoments() || sp.Moments[a1] == sp.Moments[a2]
}

// Validate checks that per-atom arrays are consistent.
func (sp *Species) Validate() error {
	n := len(sp.Positions)
	if n == 0 {
		return errors.Wrapf(ErrEmptySpecies, "species %q", sp.Name)
	}
	if sp.Moments != nil && len(sp.Moments) != n {
		return errors.Wrapf(ErrLengthMismatch, "species %q: %d moments for %d atoms", sp.Name, len(sp.Moments), n)
	}
	if sp.Constraints != nil && len(sp.Constraints) != n {
		return errors.Wrapf(ErrLengthMismatch, "species %q: %d constraints for %d atoms", sp.Name, len(sp.Constraints), n)
	}
	for a := range sp.Constraints {
		if err := sp.Constraints[a].Validate(); err != nil {
			return errors.Wrapf(err, "species %q atom %d", sp.Name, a)
		}
	}

	return nil
}

// Structure is the ordered list of species.
type Structure struct {
	Species []*Species
}

// Validate validates every species.
func (s *Structure) Validate() error {
	for _, sp := range s.Species {
		if err := sp.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// NumAtoms returns the total number of atoms.
func (s *Structure) NumAtoms() int {
	n := 0
	for _, sp := range s.Species {
		n += sp.Len()
	}
	return n
}

// Translated returns a deep copy of the positions shifted by −shift. Moments
// and constraints are shared with the receiver (read-only).
func (s *Structure) Translated(shift lattice.Vec3) *Structure {
	out := &Structure{Species: make([]*Species, len(s.Species))}
	for i, sp := range s.Species {
		pos := make([]lattice.Vec3, len(sp.Positions))
		for a, p := range sp.Positions {
			pos[a] = p.Sub(shift)
		}
		out.Species[i] = &Species{
			Name:        sp.Name,
			Positions:   pos,
			Moments:     sp.Moments,
			Constraints: sp.Constraints,
		}
	}

	return out
}

// WritePositions prints one "ion <species> x y z <moveScale>" line per atom.
func (s *Structure) WritePositions(w io.Writer) error {
	for _, sp := range s.Species {
		for a, p := range sp.Positions {
			if _, err := fmt.Fprintf(w, "ion %s %19.15f %19.15f %19.15f %g\n",
				sp.Name, p[0], p[1], p[2], sp.Constraint(a).MoveScale); err != nil {
				return err
			}
		}
	}
	return nil
}
