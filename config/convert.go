// SPDX-License-Identifier: MIT

package config

import (
	"github.com/cockroachdb/errors"
	"github.com/katalvlaran/crystalsym/coulomb"
	"github.com/katalvlaran/crystalsym/grid"
	"github.com/katalvlaran/crystalsym/ions"
	"github.com/katalvlaran/crystalsym/kpoints"
	"github.com/katalvlaran/crystalsym/lattice"
	"github.com/katalvlaran/crystalsym/logging"
	"github.com/katalvlaran/crystalsym/symmetry"
	"go.uber.org/zap"
)

func toVec3(v []float64) lattice.Vec3 {
	var out lattice.Vec3
	copy(out[:], v)
	return out
}

// LatticeMatrix returns the lattice vectors as matrix columns.
func (c *Config) LatticeMatrix() lattice.Mat3 {
	return lattice.FromColumns(toVec3(c.Lattice[0]), toVec3(c.Lattice[1]), toVec3(c.Lattice[2]))
}

// Structure builds the ionic structure. Moments are attached to a species
// only when at least one of its atoms sets one (the others default to 0);
// constraints likewise only when some atom is not free.
func (c *Config) Structure() (*ions.Structure, error) {
	st := &ions.Structure{Species: make([]*ions.Species, 0, len(c.Species))}
	for _, sc := range c.Species {
		sp := &ions.Species{Name: sc.Name, Positions: make([]lattice.Vec3, len(sc.Atoms))}
		moments := make([]float64, len(sc.Atoms))
		constraints := make([]ions.Constraint, len(sc.Atoms))
		hasMoments, constrained := false, false
		for a, atom := range sc.Atoms {
			sp.Positions[a] = toVec3(atom.Pos)
			if atom.Moment != nil {
				moments[a], hasMoments = *atom.Moment, true
			}
			typ, err := ions.ParseConstraintType(atom.Constraint)
			if err != nil {
				return nil, errors.Wrapf(err, "species %q atom %d", sc.Name, a)
			}
			con := ions.Free()
			if atom.MoveScale != nil {
				con.MoveScale = *atom.MoveScale
			}
			con.Type = typ
			con.Direction = toVec3(atom.Direction)
			if con != ions.Free() {
				constrained = true
			}
			constraints[a] = con
		}
		if hasMoments {
			sp.Moments = moments
		}
		if constrained {
			sp.Constraints = constraints
		}
		st.Species = append(st.Species, sp)
	}
	if err := st.Validate(); err != nil {
		return nil, err
	}

	return st, nil
}

// HasGrid reports whether a real-space grid is configured.
func (c *Config) HasGrid() bool { return len(c.Grid) == 3 }

// GridInfo builds the grid; HasGrid must be true.
func (c *Config) GridInfo() (*grid.Info, error) {
	if !c.HasGrid() {
		return nil, invalidf("grid: not configured")
	}
	return grid.New(c.LatticeMatrix(), lattice.IVec3{c.Grid[0], c.Grid[1], c.Grid[2]})
}

// QuantumNumbers returns the explicit k-point list when given, the folded
// Monkhorst-Pack mesh otherwise.
func (c *Config) QuantumNumbers() ([]kpoints.QuantumNumber, error) {
	if len(c.Kpoints.List) > 0 {
		out := make([]kpoints.QuantumNumber, len(c.Kpoints.List))
		for i, q := range c.Kpoints.List {
			out[i] = kpoints.QuantumNumber{K: toVec3(q.K), Weight: q.Weight}
		}
		return out, nil
	}
	f := c.Kpoints.Folding
	return kpoints.Fold(lattice.IVec3{f[0], f[1], f[2]}, toVec3(c.Kpoints.Offset))
}

// CoulombParams returns the truncation and embedding settings. The returned
// value is updated in place by symmetry.SetupMesh.
func (c *Config) CoulombParams() *coulomb.Params {
	p := &coulomb.Params{Embed: c.Coulomb.Embed, EmbedCenter: toVec3(c.Coulomb.EmbedCenter)}
	copy(p.Truncated[:], c.Coulomb.Truncated)
	return p
}

// SymmetryOptions translates the symmetry.* keys; log is passed through to
// symmetry.WithLogger.
func (c *Config) SymmetryOptions(log *zap.Logger) ([]symmetry.Option, error) {
	mode, err := symmetry.ParseMode(c.Symmetry.Mode)
	if err != nil {
		return nil, err
	}
	kernel, err := symmetry.ParseKernel(c.Symmetry.Kernel)
	if err != nil {
		return nil, err
	}
	opts := []symmetry.Option{
		symmetry.WithMode(mode),
		symmetry.WithMoveAtoms(c.Symmetry.MoveAtoms),
		symmetry.WithPrintMatrices(c.Symmetry.PrintMatrices),
		symmetry.WithTolerance(c.Symmetry.Tolerance),
		symmetry.WithKernel(kernel),
		symmetry.WithWorkers(c.Symmetry.Workers),
		symmetry.WithLogger(log),
	}
	if mode == symmetry.ModeManual {
		ms := make([]lattice.IMat3, len(c.Symmetry.Matrices))
		for i, m := range c.Symmetry.Matrices {
			for r := 0; r < 3; r++ {
				copy(ms[i][r][:], m[r])
			}
		}
		opts = append(opts, symmetry.WithManualMatrices(ms))
	}

	return opts, nil
}

// LoggingOptions returns the log.* keys.
func (c *Config) LoggingOptions() logging.Options {
	return logging.Options{Level: c.Log.Level, JSON: c.Log.JSON}
}
