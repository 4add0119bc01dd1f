// SPDX-License-Identifier: MIT

package config

import (
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/katalvlaran/crystalsym/ions"
	"github.com/katalvlaran/crystalsym/logging"
	"github.com/katalvlaran/crystalsym/symmetry"
)

func invalidf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidConfig, format, args...)
}

// vec3 checks that v is empty (when optional) or has exactly 3 entries.
func vec3[T any](key string, v []T, optional bool) error {
	if optional && len(v) == 0 {
		return nil
	}
	if len(v) != 3 {
		return invalidf("%s: want 3 components, got %d", key, len(v))
	}
	return nil
}

// Validate checks shapes and enumerated values. It never builds domain
// objects; the conversion helpers may still reject physically invalid input
// (a singular lattice, for instance).
func (c *Config) Validate() error {
	if len(c.Lattice) != 3 {
		return invalidf("lattice: want 3 vectors, got %d", len(c.Lattice))
	}
	for i, a := range c.Lattice {
		if err := vec3("lattice["+strconv.Itoa(i)+"]", a, false); err != nil {
			return err
		}
	}
	if err := vec3("grid", c.Grid, true); err != nil {
		return err
	}
	for k, n := range c.Grid {
		if n <= 0 {
			return invalidf("grid[%d] = %d must be positive", k, n)
		}
	}

	if err := c.Symmetry.validate(); err != nil {
		return err
	}
	if err := c.Kpoints.validate(); err != nil {
		return err
	}
	if err := vec3("coulomb.truncated", c.Coulomb.Truncated, true); err != nil {
		return err
	}
	if err := vec3("coulomb.embed-center", c.Coulomb.EmbedCenter, true); err != nil {
		return err
	}

	if len(c.Species) == 0 {
		return invalidf("species: at least one species is required")
	}
	for i := range c.Species {
		if err := c.Species[i].validate(); err != nil {
			return err
		}
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return invalidf("log.level: %v", err)
	}

	return nil
}

func (s *SymmetryConfig) validate() error {
	if _, err := symmetry.ParseMode(s.Mode); err != nil {
		return invalidf("symmetry.mode: %v", err)
	}
	if _, err := symmetry.ParseKernel(s.Kernel); err != nil {
		return invalidf("symmetry.kernel: %v", err)
	}
	if !(s.Tolerance > 0) {
		return invalidf("symmetry.tolerance = %g must be positive", s.Tolerance)
	}
	if s.Workers < 0 {
		return invalidf("symmetry.workers = %d must not be negative", s.Workers)
	}
	for i, m := range s.Matrices {
		if len(m) != 3 {
			return invalidf("symmetry.matrices[%d]: want 3 rows, got %d", i, len(m))
		}
		for r, row := range m {
			if len(row) != 3 {
				return invalidf("symmetry.matrices[%d][%d]: want 3 entries, got %d", i, r, len(row))
			}
		}
	}
	return nil
}

func (k *KpointsConfig) validate() error {
	if len(k.List) > 0 {
		for i, q := range k.List {
			if err := vec3("kpoints.list["+strconv.Itoa(i)+"].k", q.K, false); err != nil {
				return err
			}
			if !(q.Weight > 0) {
				return invalidf("kpoints.list[%d].weight = %g must be positive", i, q.Weight)
			}
		}
		return nil
	}
	if err := vec3("kpoints.folding", k.Folding, false); err != nil {
		return err
	}
	for d, n := range k.Folding {
		if n <= 0 {
			return invalidf("kpoints.folding[%d] = %d must be positive", d, n)
		}
	}
	return vec3("kpoints.offset", k.Offset, true)
}

func (s *SpeciesConfig) validate() error {
	if s.Name == "" {
		return invalidf("species: name is required")
	}
	if len(s.Atoms) == 0 {
		return invalidf("species %q: no atoms", s.Name)
	}
	for a, atom := range s.Atoms {
		key := "species " + s.Name + " atom " + strconv.Itoa(a)
		if err := vec3(key+" pos", atom.Pos, false); err != nil {
			return err
		}
		if err := vec3(key+" direction", atom.Direction, true); err != nil {
			return err
		}
		if _, err := ions.ParseConstraintType(atom.Constraint); err != nil {
			return invalidf("%s: %v", key, err)
		}
	}
	return nil
}
